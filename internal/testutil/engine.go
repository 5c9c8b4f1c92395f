package testutil

import (
	"testing"

	"secretlens/internal/encryption"
	"secretlens/internal/lens"
)

// NewTestEngine creates the deterministic test engine.
func NewTestEngine() lens.CipherEngine {
	return encryption.NewTestEngine()
}

// NewUnsaltedEngine creates an AES-256 OpenSSL engine without salt, whose
// output is deterministic for a given passphrase.
func NewUnsaltedEngine(t *testing.T) *encryption.OpenSSLEngine {
	t.Helper()

	opts := encryption.DefaultOptions()
	opts.UseSalt = false
	e, err := encryption.NewOpenSSLEngine(opts)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return e
}

// NewSaltedEngine creates an OpenSSL engine with the default options.
func NewSaltedEngine(t *testing.T) *encryption.OpenSSLEngine {
	t.Helper()

	e, err := encryption.NewOpenSSLEngine(encryption.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return e
}
