package encryption

import (
	"fmt"

	"secretlens/internal/config"
)

// Algorithm names a supported AES key size.
type Algorithm string

const (
	AES128 Algorithm = "aes128"
	AES192 Algorithm = "aes192"
	AES256 Algorithm = "aes256"
)

// keySize returns the AES key length in bytes for a.
func (a Algorithm) keySize() (int, error) {
	switch a {
	case AES128:
		return 16, nil
	case AES192:
		return 24, nil
	case AES256, "":
		return 32, nil
	default:
		return 0, fmt.Errorf("unknown cipher algorithm: %q", string(a))
	}
}

// SaltStrip selects how the salt is removed from a payload before decryption.
type SaltStrip string

const (
	// StripSubstring removes the first occurrence of the salt text.
	StripSubstring SaltStrip = "substring"
	// StripPrefix drops as many leading characters as the salt is long.
	StripPrefix SaltStrip = "prefix"
)

// DefaultSaltSize is the salt length in bytes (32 hex characters).
const DefaultSaltSize = 16

// Options configures an OpenSSLEngine.
type Options struct {
	Algorithm Algorithm
	UseSalt   bool
	SaltSize  int
	SaltStrip SaltStrip
}

// DefaultOptions returns salted AES-256 with a 16 byte salt.
func DefaultOptions() Options {
	return Options{
		Algorithm: AES256,
		UseSalt:   true,
		SaltSize:  DefaultSaltSize,
		SaltStrip: StripSubstring,
	}
}

// OptionsFromConfig converts the on-disk engine config. Zero values fall
// back to DefaultOptions.
func OptionsFromConfig(cfg config.EngineConfig) Options {
	opts := DefaultOptions()
	if cfg.Algorithm != "" {
		opts.Algorithm = Algorithm(cfg.Algorithm)
	}
	if cfg.UseSalt != nil {
		opts.UseSalt = *cfg.UseSalt
	}
	if cfg.SaltSize != 0 {
		opts.SaltSize = cfg.SaltSize
	}
	if cfg.SaltStrip != "" {
		opts.SaltStrip = SaltStrip(cfg.SaltStrip)
	}
	return opts
}

func (o Options) validate() error {
	if _, err := o.Algorithm.keySize(); err != nil {
		return err
	}
	if o.UseSalt && o.SaltSize < 1 {
		return fmt.Errorf("salt size must be positive, got %d", o.SaltSize)
	}
	switch o.SaltStrip {
	case StripSubstring, StripPrefix, "":
	default:
		return fmt.Errorf("unknown salt strip mode: %q", string(o.SaltStrip))
	}
	return nil
}
