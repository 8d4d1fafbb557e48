package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"haptic-go/internal/config"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - HAPT_CONFIG_PATH: config file location (default: ~/.config/hapt.toml)
//   - HAPT_HOME: base directory for hapt data (default: ~/.local/share/hapt)
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

// getConfigPath returns the config file path, checking HAPT_CONFIG_PATH env var first,
// then falling back to the default ~/.config/hapt.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("HAPT_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "hapt.toml"), nil
}

// getBaseDir returns the base directory for hapt data, checking HAPT_HOME env var first,
// then falling back to the XDG default ~/.local/share/hapt.
func getBaseDir() (string, error) {
	if path := os.Getenv("HAPT_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "hapt"), nil
}

// LoadConfig reads the config file named by the defaults. When the file does not
// exist it returns NewConfig rooted at the default base directory, so commands
// work before "hapt config init". found reports whether the file was read.
func LoadConfig() (cfg *config.Config, path string, found bool, err error) {
	defaults, err := GetDefaults()
	if err != nil {
		return nil, "", false, fmt.Errorf("getting defaults: %w", err)
	}
	path = defaults["config_path"]

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		return config.NewConfig(defaults["base_dir"]), path, false, nil
	}

	cfg, err = config.ReadFromFile(path)
	if err != nil {
		return nil, path, false, err
	}
	return cfg, path, true, nil
}
