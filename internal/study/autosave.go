package study

import (
	"fmt"
	"time"

	"studyvault/internal/codec"
	"studyvault/internal/model"
)

// SaveSnapshot overwrites the autosave snapshot with an image-stripped
// projection of the session. The snapshot is advisory scratch state,
// never authoritative; each save fully replaces the previous one, so
// dropped or out-of-order ticks cause staleness, not corruption.
func (s *Service) SaveSnapshot(sess model.Session) error {
	snap := model.Snapshot{
		Session: sess.StripImages(),
		SavedAt: s.clock.Now(),
	}

	value, err := codec.EncodeOne(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	fits, err := s.fitsWith(keySnapshot, value)
	if err != nil {
		return err
	}
	if !fits {
		// The snapshot never competes with authoritative data for
		// space: no eviction on its behalf.
		return ErrStorageFull
	}
	return s.store.Set(keySnapshot, value)
}

// RestoreSnapshot returns the autosaved session if one exists and is
// fresh. A snapshot older than the TTL is expired: it is deleted and
// not returned.
func (s *Service) RestoreSnapshot() (model.Session, bool) {
	value, ok, err := s.store.Get(keySnapshot)
	if err != nil {
		s.logger.Error("reading snapshot", "error", err)
		return model.Session{}, false
	}
	if !ok {
		return model.Session{}, false
	}

	snap, ok, err := codec.DecodeOne[model.Snapshot](keySnapshot, value)
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn("snapshot is corrupt, discarding", "error", err)
		}
		if delErr := s.store.Delete(keySnapshot); delErr != nil {
			s.logger.Error("deleting snapshot", "error", delErr)
		}
		return model.Session{}, false
	}

	if s.clock.Now().Sub(snap.SavedAt) > s.opts.SnapshotTTL {
		s.logger.Debug("snapshot expired", "savedAt", snap.SavedAt)
		if err := s.store.Delete(keySnapshot); err != nil {
			s.logger.Error("deleting expired snapshot", "error", err)
		}
		return model.Session{}, false
	}

	return snap.Session.Clone(), true
}

// ClearSnapshot removes the autosave snapshot.
func (s *Service) ClearSnapshot() error {
	return s.store.Delete(keySnapshot)
}

// AutoSaver periodically snapshots the current session. Failures are
// swallowed (logged at debug): autosave is best-effort by design.
type AutoSaver struct {
	service  *Service
	interval time.Duration
	source   func() (model.Session, bool)
	stop     chan struct{}
	done     chan struct{}
}

// NewAutoSaver creates an AutoSaver. source returns the currently
// active session, or false when there is nothing to save.
func NewAutoSaver(service *Service, interval time.Duration, source func() (model.Session, bool)) *AutoSaver {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &AutoSaver{
		service:  service,
		interval: interval,
		source:   source,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the autosave ticks on a background goroutine.
func (a *AutoSaver) Start() {
	go func() {
		defer close(a.done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				a.tick()
			case <-a.stop:
				return
			}
		}
	}()
}

// Stop halts the ticks and waits for the loop to exit.
func (a *AutoSaver) Stop() {
	close(a.stop)
	<-a.done
}

func (a *AutoSaver) tick() {
	sess, ok := a.source()
	if !ok {
		return
	}
	if err := a.service.SaveSnapshot(sess); err != nil {
		a.service.logger.Debug("autosave failed", "error", err)
	}
}
