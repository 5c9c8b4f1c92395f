package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultMarker is the prefix that flags an encrypted line.
const DefaultMarker = "🔑"

// Config represents the main configuration for secretlens.
type Config struct {
	BaseDir   string        `toml:"base_dir"`
	LogDir    string        `toml:"log_dir"`
	Marker    string        `toml:"marker"`
	Languages []string      `toml:"languages"` // language IDs or filename globs; empty enables every document
	Engine    EngineConfig  `toml:"engine"`
	History   HistoryConfig `toml:"history"`
}

// EngineConfig selects and tunes the cipher engine.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type EngineConfig struct {
	Type string `toml:"type"` // "openssl" (default), "age" or "test"

	// openssl-specific fields
	Algorithm string `toml:"algorithm,omitempty"`  // "aes128", "aes192" or "aes256" (default)
	UseSalt   *bool  `toml:"use_salt,omitempty"`   // defaults to true
	SaltSize  int    `toml:"salt_size,omitempty"`  // bytes, defaults to 16
	SaltStrip string `toml:"salt_strip,omitempty"` // "substring" (default) or "prefix"

	// age-specific fields
	ScryptWorkFactor int `toml:"scrypt_work_factor,omitempty"` // log2(N), defaults to 15
}

// HistoryConfig represents configuration for the transform history store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type HistoryConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a new Config rooted at baseDir with default settings.
func NewConfig(baseDir string) *Config {
	useSalt := true
	return &Config{
		BaseDir:   baseDir,
		LogDir:    filepath.Join(baseDir, "log"),
		Marker:    DefaultMarker,
		Languages: []string{"plaintext", "markdown", "dotenv", "yaml", "json", "toml", "ini", "properties", "shellscript"},
		Engine: EngineConfig{
			Type:      "openssl",
			Algorithm: "aes256",
			UseSalt:   &useSalt,
			SaltSize:  16,
			SaltStrip: "substring",
		},
		History: HistoryConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// ApplyDefaults fills in fields left empty in a config file.
func (c *Config) ApplyDefaults() {
	if c.Marker == "" {
		c.Marker = DefaultMarker
	}
	if c.LogDir == "" && c.BaseDir != "" {
		c.LogDir = filepath.Join(c.BaseDir, "log")
	}
	if c.Engine.Type == "" {
		c.Engine.Type = "openssl"
	}
	if c.History.Type == "" {
		c.History.Type = "none"
	}
	if c.History.Type == "sqlite" && c.History.DataDir == "" && c.BaseDir != "" {
		c.History.DataDir = filepath.Join(c.BaseDir, "db")
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Marker == "" {
		return fmt.Errorf("marker must not be empty")
	}

	switch c.Engine.Type {
	case "openssl", "":
		switch c.Engine.Algorithm {
		case "", "aes128", "aes192", "aes256":
		default:
			return fmt.Errorf("unknown engine algorithm: %q", c.Engine.Algorithm)
		}
		if c.Engine.SaltSize < 0 {
			return fmt.Errorf("salt_size must be positive, got %d", c.Engine.SaltSize)
		}
		switch c.Engine.SaltStrip {
		case "", "substring", "prefix":
		default:
			return fmt.Errorf("unknown salt_strip mode: %q", c.Engine.SaltStrip)
		}
	case "age":
		if c.Engine.ScryptWorkFactor < 0 || c.Engine.ScryptWorkFactor > 30 {
			return fmt.Errorf("scrypt_work_factor must be between 1 and 30, got %d", c.Engine.ScryptWorkFactor)
		}
	case "test":
	default:
		return fmt.Errorf("unknown engine type: %q", c.Engine.Type)
	}

	switch c.History.Type {
	case "sqlite":
		if c.History.DataDir == "" {
			return fmt.Errorf("history data_dir required for sqlite history")
		}
	case "memory", "none", "":
	default:
		return fmt.Errorf("unknown history type: %q", c.History.Type)
	}

	return nil
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

// ReadFromFile reads a Config from the specified file path, applies
// defaults and validates it.
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

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
