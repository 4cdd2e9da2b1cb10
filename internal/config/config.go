package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for studyvault.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Store      StoreConfig      `toml:"store"`
	Quota      QuotaConfig      `toml:"quota"`
	Eviction   EvictionConfig   `toml:"eviction"`
	Compaction CompactionConfig `toml:"compaction"`
	Autosave   AutosaveConfig   `toml:"autosave"`
}

// StoreConfig configures the key-value backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type    string `toml:"type"`               // "memory" or "sqlite"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// QuotaConfig bounds the aggregate size of the store.
type QuotaConfig struct {
	// MaxBytes is the hard capacity ceiling. Writes that cannot be made
	// to fit under it are rejected.
	MaxBytes int64 `toml:"max_bytes"`

	// Encoding controls how stored characters are counted toward the
	// quota: "utf8" (1 byte per byte) or "utf16" (2 bytes per UTF-16
	// code unit), matching the target store's internal encoding.
	Encoding string `toml:"encoding"`
}

// EvictionConfig holds the soft caps eviction trims collections to.
// These are tunables, not contracts; the defaults are empirical.
type EvictionConfig struct {
	SessionSoftCap int `toml:"session_soft_cap"`
	FileSoftCap    int `toml:"file_soft_cap"`
}

// CompactionConfig holds the per-item image budgets and the JPEG
// quality ladder used when re-encoding oversized images.
type CompactionConfig struct {
	PageImageMaxBytes   int `toml:"page_image_max_bytes"`
	PageImageMaxWidth   int `toml:"page_image_max_width"`
	ChatImageMaxBytes   int `toml:"chat_image_max_bytes"`
	ChatImageMaxWidth   int `toml:"chat_image_max_width"`
	MaxImagesPerMessage int `toml:"max_images_per_message"`
	StartQuality        int `toml:"start_quality"` // JPEG quality, 1-100
	QualityStep         int `toml:"quality_step"`
	MinQuality          int `toml:"min_quality"`
}

// AutosaveConfig controls the best-effort session snapshot.
type AutosaveConfig struct {
	IntervalSeconds  int `toml:"interval_seconds"`
	SnapshotTTLHours int `toml:"snapshot_ttl_hours"`
}

// NewConfig creates a Config with the provided base directory and default tunables.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Store: StoreConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Quota: QuotaConfig{
			MaxBytes: 9 * 1024 * 1024,
			Encoding: "utf8",
		},
		Eviction: EvictionConfig{
			SessionSoftCap: 10,
			FileSoftCap:    30,
		},
		Compaction: CompactionConfig{
			PageImageMaxBytes:   200 * 1024,
			PageImageMaxWidth:   1200,
			ChatImageMaxBytes:   64 * 1024,
			ChatImageMaxWidth:   800,
			MaxImagesPerMessage: 5,
			StartQuality:        60,
			QualityStep:         10,
			MinQuality:          30,
		},
		Autosave: AutosaveConfig{
			IntervalSeconds:  30,
			SnapshotTTLHours: 24,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
