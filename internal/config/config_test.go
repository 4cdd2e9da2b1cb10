package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir: "/home/user/.local/share/studyvault",
		LogDir:  "/home/user/.local/share/studyvault/log",
		Store:   StoreConfig{Type: "sqlite", DataDir: "/home/user/.local/share/studyvault/data"},
		Quota:   QuotaConfig{MaxBytes: 5 * 1024 * 1024, Encoding: "utf16"},
		Eviction: EvictionConfig{
			SessionSoftCap: 8,
			FileSoftCap:    20,
		},
		Compaction: CompactionConfig{
			PageImageMaxBytes:   100 * 1024,
			PageImageMaxWidth:   1000,
			ChatImageMaxBytes:   32 * 1024,
			ChatImageMaxWidth:   640,
			MaxImagesPerMessage: 3,
			StartQuality:        70,
			QualityStep:         10,
			MinQuality:          40,
		},
		Autosave: AutosaveConfig{IntervalSeconds: 15, SnapshotTTLHours: 12},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Store.Type != "sqlite" {
		t.Errorf("Store.Type = %q, want sqlite", got.Store.Type)
	}
	if got.Store.DataDir != original.Store.DataDir {
		t.Errorf("Store.DataDir = %q, want %q", got.Store.DataDir, original.Store.DataDir)
	}
	if got.Quota.MaxBytes != original.Quota.MaxBytes {
		t.Errorf("Quota.MaxBytes = %d, want %d", got.Quota.MaxBytes, original.Quota.MaxBytes)
	}
	if got.Quota.Encoding != "utf16" {
		t.Errorf("Quota.Encoding = %q, want utf16", got.Quota.Encoding)
	}
	if got.Eviction != original.Eviction {
		t.Errorf("Eviction = %+v, want %+v", got.Eviction, original.Eviction)
	}
	if got.Compaction != original.Compaction {
		t.Errorf("Compaction = %+v, want %+v", got.Compaction, original.Compaction)
	}
	if got.Autosave != original.Autosave {
		t.Errorf("Autosave = %+v, want %+v", got.Autosave, original.Autosave)
	}
}

func TestManager_Read_InvalidTOML(t *testing.T) {
	m := &Manager{}

	_, err := m.Read(bytes.NewBufferString("this is [not valid toml"))
	if err == nil {
		t.Error("Read() = nil error for invalid TOML, want error")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("/base")

	if cfg.LogDir != filepath.Join("/base", "log") {
		t.Errorf("LogDir = %q, want /base/log", cfg.LogDir)
	}
	if cfg.Store.Type != "sqlite" {
		t.Errorf("Store.Type = %q, want sqlite", cfg.Store.Type)
	}
	if cfg.Quota.MaxBytes != 9*1024*1024 {
		t.Errorf("Quota.MaxBytes = %d, want %d", cfg.Quota.MaxBytes, 9*1024*1024)
	}
	if cfg.Quota.Encoding != "utf8" {
		t.Errorf("Quota.Encoding = %q, want utf8", cfg.Quota.Encoding)
	}
	if cfg.Eviction.SessionSoftCap != 10 || cfg.Eviction.FileSoftCap != 30 {
		t.Errorf("Eviction = %+v, want soft caps 10/30", cfg.Eviction)
	}
	if cfg.Compaction.MinQuality != 30 {
		t.Errorf("Compaction.MinQuality = %d, want 30", cfg.Compaction.MinQuality)
	}
	if cfg.Autosave.IntervalSeconds != 30 {
		t.Errorf("Autosave.IntervalSeconds = %d, want 30", cfg.Autosave.IntervalSeconds)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config", "studyvault.toml")

		if err := Init(path, NewConfig("/base")); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.BaseDir != "/base" {
			t.Errorf("BaseDir = %q, want /base", got.BaseDir)
		}
	})

	t.Run("refuses to overwrite existing config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "studyvault.toml")
		if err := os.WriteFile(path, []byte("base_dir = \"/existing\"\n"), 0644); err != nil {
			t.Fatalf("writing existing config: %v", err)
		}

		if err := Init(path, NewConfig("/base")); err == nil {
			t.Error("Init() = nil error over existing file, want error")
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.BaseDir != "/existing" {
			t.Errorf("existing config was overwritten: BaseDir = %q", got.BaseDir)
		}
	})
}

func TestReadFromFile_Missing(t *testing.T) {
	_, err := ReadFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Error("ReadFromFile() = nil error for missing file, want error")
	}
}
