// Package study is the persistence facade for study artifacts: file
// records, chat sessions, flashcards, knowledge concepts, and formulas.
// Every other part of the application talks to the Service; it composes
// the codec, budget manager, image compaction, and eviction into the
// uniform get/list/upsert/delete operation set, keeping the whole
// dataset inside a fixed capacity ceiling.
package study

import (
	"fmt"
	"time"

	"studyvault/internal/budget"
	"studyvault/internal/codec"
	"studyvault/internal/compact"
	"studyvault/internal/config"
	"studyvault/internal/store"
)

// Store keys. One key per collection: each holds the serialized array
// of that collection's records, which bounds the key count and makes
// total usage computable from a small fixed key set.
const (
	keyFiles    = "studyvault:files"
	keySessions = "studyvault:sessions"
	keyCards    = "studyvault:cards"
	keyConcepts = "studyvault:concepts"
	keyFormulas = "studyvault:formulas"
	keyMindMaps = "studyvault:mindmaps"
	keySnapshot = "studyvault:autosave"
)

// Options carries the service tunables. The zero value is not usable;
// start from DefaultOptions or OptionsFromConfig.
type Options struct {
	SessionSoftCap int
	FileSoftCap    int

	PageImageMaxBytes   int
	PageImageMaxWidth   int
	ChatImageMaxBytes   int
	ChatImageMaxWidth   int
	MaxImagesPerMessage int

	SnapshotTTL time.Duration
}

// DefaultOptions returns the service tunables used when no config is present.
func DefaultOptions() Options {
	return OptionsFromConfig(config.NewConfig(""))
}

// OptionsFromConfig maps config tunables onto service Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SessionSoftCap:      cfg.Eviction.SessionSoftCap,
		FileSoftCap:         cfg.Eviction.FileSoftCap,
		PageImageMaxBytes:   cfg.Compaction.PageImageMaxBytes,
		PageImageMaxWidth:   cfg.Compaction.PageImageMaxWidth,
		ChatImageMaxBytes:   cfg.Compaction.ChatImageMaxBytes,
		ChatImageMaxWidth:   cfg.Compaction.ChatImageMaxWidth,
		MaxImagesPerMessage: cfg.Compaction.MaxImagesPerMessage,
		SnapshotTTL:         time.Duration(cfg.Autosave.SnapshotTTLHours) * time.Hour,
	}
}

// UpsertResult reports the store state after a successful upsert so
// callers can surface threshold crossings and degraded images.
type UpsertResult struct {
	// Level is the quota pressure classification after the write.
	Level budget.Level

	// Degraded is true when at least one embedded image had to be
	// truncated or dropped during compaction. The record is still saved.
	Degraded bool
}

// Service is the persistence facade. Construct it once with NewService
// and pass it by reference; Close releases the backing store.
type Service struct {
	store     store.Store
	budget    *budget.Manager
	compactor *compact.Compactor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	opts      Options
}

// NewService creates a Service with the provided dependencies.
func NewService(st store.Store, bm *budget.Manager, comp *compact.Compactor, logger Logger, clock Clock, idgen IDGenerator, opts Options) *Service {
	return &Service{
		store:     st,
		budget:    bm,
		compactor: comp,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		opts:      opts,
	}
}

// Close releases the backing store.
func (s *Service) Close() error {
	return s.store.Close()
}

// loadCollection reads and decodes one collection. Reads never fail
// outward: a missing, unreadable, or corrupt collection decodes to an
// empty list so the application stays usable after partial data loss.
func loadCollection[T any](s *Service, key string) []T {
	value, ok, err := s.store.Get(key)
	if err != nil {
		s.logger.Error("reading collection", "key", key, "error", err)
		return []T{}
	}
	if !ok {
		return []T{}
	}

	records, err := codec.Decode[T](key, value)
	if err != nil {
		s.logger.Warn("collection is corrupt, treating as empty", "key", key, "error", err)
		return []T{}
	}
	return records
}

// saveCollection encodes records and writes them under key, evicting if
// the write would exceed quota. Returns the post-write pressure level.
func saveCollection[T any](s *Service, key string, records []T) (budget.Level, error) {
	value, err := codec.Encode(records)
	if err != nil {
		return budget.LevelOK, fmt.Errorf("encoding collection %q: %w", key, err)
	}
	if err := s.writeWithRoom(roomRequest{key: key, value: value}); err != nil {
		return budget.LevelOK, err
	}
	return s.classifyAfterWrite(key), nil
}

// classifyAfterWrite re-checks the budget so callers can react to
// threshold crossings. Measurement errors degrade to LevelOK: the write
// already succeeded and classification is advisory.
func (s *Service) classifyAfterWrite(key string) budget.Level {
	level, err := s.budget.Classify()
	if err != nil {
		s.logger.Error("classifying store usage", "key", key, "error", err)
		return budget.LevelOK
	}
	if level != budget.LevelOK {
		s.logger.Warn("store usage above threshold", "key", key, "level", level.String())
	}
	return level
}

// usageWith returns what total usage would be if value were stored
// under key, replacing any current value.
func (s *Service) usageWith(key, value string) (int64, error) {
	usage, err := s.budget.Usage()
	if err != nil {
		return 0, fmt.Errorf("measuring store usage: %w", err)
	}

	old, ok, err := s.store.Get(key)
	if err != nil {
		return 0, fmt.Errorf("reading key %q: %w", key, err)
	}
	if ok {
		usage -= s.budget.EncodedLen(key) + s.budget.EncodedLen(old)
	}
	usage += s.budget.EncodedLen(key) + s.budget.EncodedLen(value)
	return usage, nil
}

// fitsWith reports whether writing value under key stays within quota.
func (s *Service) fitsWith(key, value string) (bool, error) {
	usage, err := s.usageWith(key, value)
	if err != nil {
		return false, err
	}
	return usage <= s.budget.Quota(), nil
}
