package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"secretlens/internal/config"
)

// PassphraseEnv names the environment variable that injects a passphrase
// without prompting. Injected passphrases are not validated.
const PassphraseEnv = "SECRETLENS_PASSPHRASE"

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SECRETLENS_CONFIG_PATH: config file location (default: ~/.config/secretlens.toml)
//   - SECRETLENS_HOME: base directory for secretlens data (default: ~/.local/share/secretlens)
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

// LoadConfig reads the config file named in defaults. A missing file is not
// an error: the built-in defaults rooted at base_dir are used instead.
func LoadConfig(defaults map[string]string) (*config.Config, error) {
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return config.NewConfig(defaults["base_dir"]), nil
	}
	return nil, err
}

// getConfigPath returns the config file path, checking SECRETLENS_CONFIG_PATH first,
// then falling back to the default ~/.config/secretlens.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("SECRETLENS_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "secretlens.toml"), nil
}

// getBaseDir returns the base directory for secretlens data, checking SECRETLENS_HOME
// first, then falling back to the XDG default ~/.local/share/secretlens.
func getBaseDir() (string, error) {
	if path := os.Getenv("SECRETLENS_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "secretlens"), nil
}
