package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - STUDYVAULT_CONFIG_PATH: config file location (default: ~/.config/studyvault.toml)
//   - STUDYVAULT_HOME: base directory for studyvault data (default: ~/.local/share/studyvault)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking STUDYVAULT_CONFIG_PATH
// env var first, then falling back to the default ~/.config/studyvault.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("STUDYVAULT_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "studyvault.toml"), nil
}

// getBaseDir returns the base directory for studyvault data, checking
// STUDYVAULT_HOME env var first, then falling back to the XDG default
// ~/.local/share/studyvault.
func getBaseDir() (string, error) {
	if path := os.Getenv("STUDYVAULT_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "studyvault"), nil
}
