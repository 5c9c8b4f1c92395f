package encryption

import (
	"errors"
	"testing"

	"secretlens/internal/lens"
)

func TestTestEngine_RequiresPassphrase(t *testing.T) {
	t.Parallel()
	if NewTestEngine().RequiresPassphrase() {
		t.Error("RequiresPassphrase() = true, want false")
	}
}

func TestTestEngine_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "simple text", input: "hello world"},
		{name: "empty", input: ""},
		{name: "unicode", input: "🔑 ☕"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewTestEngine()

			payload, err := e.Encrypt(tt.input, "")
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			// Deterministic: same input, same output, any passphrase.
			again, _ := e.Encrypt(tt.input, "something-else")
			if payload != again {
				t.Errorf("Encrypt() not deterministic: %q vs %q", payload, again)
			}

			got, err := e.Decrypt(payload, "")
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if got != tt.input {
				t.Errorf("Decrypt() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestTestEngine_DecryptInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{"not hex", "xyz"},
		{"missing header", "68656c6c6f"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewTestEngine().Decrypt(tt.payload, "")
			if !errors.Is(err, lens.ErrDecryptFailed) {
				t.Fatalf("Decrypt() error = %v, want ErrDecryptFailed", err)
			}
			if got != lens.ErrDecryptFailed.Error() {
				t.Errorf("Decrypt() = %q, want sentinel text", got)
			}
		})
	}
}
