package encryption

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"unicode/utf8"

	"filippo.io/age"

	"secretlens/internal/lens"
)

// DefaultScryptWorkFactor is the scrypt log2(N) used when none is configured.
const DefaultScryptWorkFactor = 15

// AgeEngine implements lens.CipherEngine using filippo.io/age with a scrypt
// passphrase recipient. Every line is a standalone age file, hex encoded so
// it stays on one line. age salts the scrypt derivation itself, so output is
// never deterministic and no extra salt prefix is written.
type AgeEngine struct {
	workFactor int
}

var _ lens.CipherEngine = (*AgeEngine)(nil)

// NewAgeEngine creates an AgeEngine. workFactor is the scrypt log2(N) used
// when encrypting; zero selects DefaultScryptWorkFactor.
func NewAgeEngine(workFactor int) (*AgeEngine, error) {
	if workFactor == 0 {
		workFactor = DefaultScryptWorkFactor
	}
	if workFactor < 1 || workFactor > 30 {
		return nil, fmt.Errorf("scrypt work factor must be between 1 and 30, got %d", workFactor)
	}
	return &AgeEngine{workFactor: workFactor}, nil
}

func (e *AgeEngine) RequiresPassphrase() bool { return true }

// Encrypt returns hex(age(plaintext)) for the passphrase.
func (e *AgeEngine) Encrypt(plaintext, passphrase string) (string, error) {
	if !utf8.ValidString(plaintext) {
		return "", lens.ErrInvalidText
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return "", fmt.Errorf("creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(e.workFactor)

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return "", fmt.Errorf("creating encrypted writer: %w", err)
	}

	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("encrypting data: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing encryption: %w", err)
	}

	return hex.EncodeToString(buf.Bytes()), nil
}

// Decrypt reverses Encrypt with the same failure conventions as OpenSSLEngine.
func (e *AgeEngine) Decrypt(payload, passphrase string) (string, error) {
	if passphrase == "" {
		return lens.ErrPasswordNotSet.Error(), lens.ErrPasswordNotSet
	}

	plaintext, err := e.decrypt(payload, passphrase)
	if err != nil {
		return lens.ErrDecryptFailed.Error(), lens.ErrDecryptFailed
	}
	return plaintext, nil
}

func (e *AgeEngine) decrypt(payload, passphrase string) (string, error) {
	data, err := hex.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decoding hex: %w", err)
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return "", fmt.Errorf("creating scrypt identity: %w", err)
	}
	if e.workFactor > 22 {
		identity.SetMaxWorkFactor(e.workFactor)
	}

	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return "", fmt.Errorf("creating decrypted reader: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("decrypting data: %w", err)
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("plaintext is not valid UTF-8")
	}
	return string(plaintext), nil
}
