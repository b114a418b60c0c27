package app

import (
	"fmt"
	"os"
	"path/filepath"

	"autobk/internal/config"
)

// Environment variables that relocate the config file and data directory.
const (
	EnvConfigPath = "AUTOBK_CONFIG_PATH"
	EnvHome       = "AUTOBK_HOME"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - AUTOBK_CONFIG_PATH: config file location (default: ~/.config/autobk.toml)
//   - AUTOBK_HOME: base directory for autobk data (default: ~/.local/share/autobk)
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
		"spool_dir":   filepath.Join(baseDir, "spool"),
	}, nil
}

// FillDefaults sets the directory settings a config file may leave out.
func FillDefaults(cfg *config.Config, defaults map[string]string) {
	if cfg.LogDir == "" {
		cfg.LogDir = defaults["log_dir"]
	}
	if cfg.Trigger.Type == "" || cfg.Trigger.Type == "spool" {
		if cfg.Trigger.SpoolDir == "" {
			cfg.Trigger.SpoolDir = defaults["spool_dir"]
		}
	}
}

// getConfigPath returns the config file path, checking AUTOBK_CONFIG_PATH env var first,
// then falling back to the default ~/.config/autobk.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "autobk.toml"), nil
}

// getBaseDir returns the base directory for autobk data, checking AUTOBK_HOME env var first,
// then falling back to the XDG default ~/.local/share/autobk.
func getBaseDir() (string, error) {
	if path := os.Getenv(EnvHome); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "autobk"), nil
}
