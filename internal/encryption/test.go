package encryption

import (
	"encoding/hex"
	"strings"

	"secretlens/internal/lens"
)

// testHeader is prepended to the plaintext by TestEngine so encoded output
// is recognisable and reversible.
const testHeader = "SLTEST:"

// TestEngine is a simple, deterministic engine for testing. It hex encodes
// a fixed header plus the plaintext and needs no passphrase, so sessions
// built for it are never prompted. It provides no secrecy at all.
type TestEngine struct{}

var _ lens.CipherEngine = (*TestEngine)(nil)

// NewTestEngine creates a new TestEngine.
func NewTestEngine() *TestEngine {
	return &TestEngine{}
}

func (e *TestEngine) RequiresPassphrase() bool { return false }

func (e *TestEngine) Encrypt(plaintext, _ string) (string, error) {
	return hex.EncodeToString([]byte(testHeader + plaintext)), nil
}

func (e *TestEngine) Decrypt(payload, _ string) (string, error) {
	data, err := hex.DecodeString(payload)
	if err != nil || !strings.HasPrefix(string(data), testHeader) {
		return lens.ErrDecryptFailed.Error(), lens.ErrDecryptFailed
	}
	return strings.TrimPrefix(string(data), testHeader), nil
}
