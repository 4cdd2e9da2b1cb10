// Package budget measures how much of the fixed quota the store
// occupies and classifies the pressure level. It is pure measurement:
// no writes, no eviction, no UI concerns.
package budget

import (
	"fmt"
	"unicode/utf16"

	"studyvault/internal/store"
)

// Encoding is the character encoding of the backing store, which
// determines how stored strings are counted against the quota.
type Encoding int

const (
	// UTF8 counts one byte per encoded byte.
	UTF8 Encoding = iota
	// UTF16 counts two bytes per UTF-16 code unit (so runes outside the
	// BMP count four).
	UTF16
)

// ParseEncoding maps a config string to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "utf8":
		return UTF8, nil
	case "utf16":
		return UTF16, nil
	default:
		return UTF8, fmt.Errorf("unknown store encoding: %q", s)
	}
}

// Level classifies quota pressure.
type Level int

const (
	LevelOK       Level = iota
	LevelWarning        // above 50% of quota
	LevelCritical       // above 80% of quota
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "ok"
	}
}

// Manager computes store usage against a fixed quota.
type Manager struct {
	store    store.Store
	quota    int64
	encoding Encoding
}

// NewManager creates a Manager over the given store.
func NewManager(st store.Store, quota int64, encoding Encoding) *Manager {
	return &Manager{store: st, quota: quota, encoding: encoding}
}

// Quota returns the configured capacity ceiling in bytes.
func (m *Manager) Quota() int64 { return m.quota }

// EncodedLen returns the size of s in bytes under the store's encoding.
func (m *Manager) EncodedLen(s string) int64 {
	if m.encoding == UTF8 {
		return int64(len(s))
	}
	var units int64
	for _, r := range s {
		units += int64(utf16.RuneLen(r))
	}
	return units * 2
}

// Usage returns the aggregate encoded size of all keys and values
// currently stored.
func (m *Manager) Usage() (int64, error) {
	keys, err := m.store.Keys()
	if err != nil {
		return 0, fmt.Errorf("listing store keys: %w", err)
	}

	var total int64
	for _, k := range keys {
		v, ok, err := m.store.Get(k)
		if err != nil {
			return 0, fmt.Errorf("reading key %q: %w", k, err)
		}
		if !ok {
			continue
		}
		total += m.EncodedLen(k) + m.EncodedLen(v)
	}
	return total, nil
}

// PercentUsed returns usage as a percentage of quota, in [0, 100].
func (m *Manager) PercentUsed() (float64, error) {
	usage, err := m.Usage()
	if err != nil {
		return 0, err
	}
	if m.quota <= 0 {
		return 100, nil
	}
	pct := float64(usage) / float64(m.quota) * 100
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// Classify returns the pressure level for the current usage.
func (m *Manager) Classify() (Level, error) {
	pct, err := m.PercentUsed()
	if err != nil {
		return LevelOK, err
	}
	return classify(pct), nil
}

// Fits reports whether a pending write that changes usage by delta
// (which may be negative) would stay within quota.
func (m *Manager) Fits(delta int64) (bool, error) {
	usage, err := m.Usage()
	if err != nil {
		return false, err
	}
	return usage+delta <= m.quota, nil
}

func classify(pct float64) Level {
	switch {
	case pct > 80:
		return LevelCritical
	case pct > 50:
		return LevelWarning
	default:
		return LevelOK
	}
}
