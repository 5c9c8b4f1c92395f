package lens

import "errors"

// Decryption outcomes. The error text doubles as the message shown to the
// user in place of the plaintext, so both the toggle command and the lens
// preview display identical wording.
var (
	// ErrPasswordNotSet indicates decryption was attempted without a passphrase.
	ErrPasswordNotSet = errors.New("Please set the password.")

	// ErrDecryptFailed indicates the payload could not be decrypted with the
	// given passphrase (wrong passphrase, corrupt ciphertext, bad encoding).
	ErrDecryptFailed = errors.New("Error decrypting the message (make sure the password is correct)")
)

// Session errors.
var (
	// ErrPromptCancelled indicates the user dismissed the passphrase prompt.
	ErrPromptCancelled = errors.New("password prompt cancelled")
)

// Usage errors are reported to the user as warnings and never abort a batch.
var (
	// ErrMultiLineSelection indicates a selection spans more than one line.
	ErrMultiLineSelection = errors.New("The extension can only be executed in single line selections")

	// ErrNoSelection indicates the command was run without any selected line.
	ErrNoSelection = errors.New("no line selected")

	// ErrLineOutOfRange indicates a line index outside the document.
	ErrLineOutOfRange = errors.New("line index out of range")

	// ErrInvalidText indicates a line that is not valid UTF-8. Such a line
	// could be encrypted but never shown again, so it is left alone.
	ErrInvalidText = errors.New("line is not valid UTF-8 text")

	// ErrUnsupportedLanguage indicates the document language is not enabled in config.
	ErrUnsupportedLanguage = errors.New("document language is not enabled")
)
