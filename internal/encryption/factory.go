package encryption

import (
	"fmt"

	"secretlens/internal/config"
	"secretlens/internal/lens"
)

// NewEngineFromConfig creates a CipherEngine based on the configuration type.
func NewEngineFromConfig(cfg config.EngineConfig) (lens.CipherEngine, error) {
	switch cfg.Type {
	case "openssl", "":
		e, err := NewOpenSSLEngine(OptionsFromConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("creating openssl engine: %w", err)
		}
		return e, nil
	case "age":
		e, err := NewAgeEngine(cfg.ScryptWorkFactor)
		if err != nil {
			return nil, fmt.Errorf("creating age engine: %w", err)
		}
		return e, nil
	case "test":
		return NewTestEngine(), nil
	default:
		return nil, fmt.Errorf("unknown engine type: %q", cfg.Type)
	}
}
