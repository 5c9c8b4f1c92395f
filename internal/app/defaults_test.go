package app

import (
	"os"
	"path/filepath"
	"testing"

	"secretlens/internal/config"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("SECRETLENS_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("SECRETLENS_HOME", "/custom/secretlens")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/secretlens" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/secretlens")
		}
		if defaults["log_dir"] != filepath.Join("/custom/secretlens", "log") {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/secretlens/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("SECRETLENS_CONFIG_PATH", "")
		t.Setenv("SECRETLENS_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "secretlens.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "secretlens")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file uses built-in defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := LoadConfig(map[string]string{
			"config_path": filepath.Join(dir, "absent.toml"),
			"base_dir":    dir,
		})
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.BaseDir != dir || cfg.Marker != config.DefaultMarker {
			t.Errorf("LoadConfig() = %+v, want defaults rooted at %s", cfg, dir)
		}
	})

	t.Run("reads existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "secretlens.toml")
		if err := os.WriteFile(path, []byte("marker = \"#>\"\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadConfig(map[string]string{"config_path": path, "base_dir": dir})
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Marker != "#>" {
			t.Errorf("Marker = %q, want #>", cfg.Marker)
		}
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "secretlens.toml")
		if err := os.WriteFile(path, []byte("[history]\ntype = \"redis\"\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(map[string]string{"config_path": path, "base_dir": dir}); err == nil {
			t.Error("LoadConfig() error = nil, want validation error")
		}
	})
}
