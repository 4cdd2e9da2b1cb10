package app

import (
	"fmt"
	"os"
	"time"

	"studyvault/internal/budget"
	"studyvault/internal/compact"
	"studyvault/internal/config"
	"studyvault/internal/model"
	"studyvault/internal/store"
	"studyvault/internal/study"
)

// App is the application layer between the CLI and the study service.
// It constructs all dependencies from config and manages the store
// lifecycle on Close.
type App struct {
	cfg     *config.Config
	store   store.Store
	service *study.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Stats", "ReviewCard").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	st, err := store.NewStoreFromConfig(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	encoding, err := budget.ParseEncoding(cfg.Quota.Encoding)
	if err != nil {
		st.Close()
		return nil, err
	}
	bm := budget.NewManager(st, cfg.Quota.MaxBytes, encoding)

	comp := compact.NewCompactor(
		cfg.Compaction.StartQuality,
		cfg.Compaction.QualityStep,
		cfg.Compaction.MinQuality,
	)

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger = logger.With("operation", operation)

	svc := study.NewService(
		st, bm, comp,
		&slogAdapter{l: logger},
		study.RealClock{},
		study.UUIDGenerator{},
		study.OptionsFromConfig(cfg),
	)

	return &App{
		cfg:     cfg,
		store:   st,
		service: svc,
		logFile: logFile,
	}, nil
}

// Service returns the persistence facade.
func (a *App) Service() *study.Service {
	return a.service
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// NewAutoSaver creates an AutoSaver for the given session source using
// the configured interval.
func (a *App) NewAutoSaver(source func() (model.Session, bool)) *study.AutoSaver {
	interval := time.Duration(a.cfg.Autosave.IntervalSeconds) * time.Second
	return study.NewAutoSaver(a.service, interval, source)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	err := a.service.Close()
	if a.logFile != nil {
		if cerr := a.logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
