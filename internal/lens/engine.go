package lens

// CipherEngine encrypts and decrypts single lines of text under a passphrase.
// Implementations are stateless per call: the passphrase is supplied on every
// call and never retained, so one engine can serve any number of lines.
type CipherEngine interface {
	// Encrypt returns the hex-encoded ciphertext of plaintext, optionally
	// prefixed with a hex salt. Any input length is valid, including "".
	// The only error is a failure of the random source.
	Encrypt(plaintext, passphrase string) (string, error)

	// Decrypt reverses Encrypt. It never returns a raw cryptographic error:
	// on failure the returned string is the user-facing message and err is
	// ErrPasswordNotSet or ErrDecryptFailed, whose Error() is that message.
	Decrypt(payload, passphrase string) (string, error)

	// RequiresPassphrase reports whether the engine needs a passphrase at all.
	// Sessions built for an engine that does not are never prompted.
	RequiresPassphrase() bool
}

// DecryptMessage runs engine.Decrypt and returns the text to display,
// whether it is the plaintext or a failure message.
func DecryptMessage(engine CipherEngine, payload, passphrase string) string {
	text, err := engine.Decrypt(payload, passphrase)
	if err != nil {
		return err.Error()
	}
	return text
}
