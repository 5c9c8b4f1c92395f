package lens

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"
)

// PasswordPrompt is the message shown when asking for the passphrase.
const PasswordPrompt = "What's the password to encrypt/decrypt this message?"

// minPassphraseLength is the shortest interactively entered passphrase accepted.
const minPassphraseLength = 5

// Session holds the passphrase for the lifetime of one editing session.
//
// A session starts Unset and moves to Set on the first successful Set or
// Request. It never moves back; a new Session is the only way to reset.
// Once Set, Request returns immediately without prompting again.
type Session struct {
	mu         sync.RWMutex
	passphrase string
	set        bool
	required   bool
}

// NewSession creates an Unset session. required reports whether the engine in
// use needs a passphrase; when false the session never asks for one.
func NewSession(required bool) *Session {
	return &Session{required: required}
}

// Required reports whether the session's engine needs a passphrase at all.
func (s *Session) Required() bool {
	return s.required
}

// NeedsPrompt reports whether the session is still Unset and its engine
// needs a passphrase.
func (s *Session) NeedsPrompt() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.required && !s.set
}

// Set stores passphrase and marks the session as Set, overwriting any earlier
// value. No validation is applied: programmatic callers are trusted.
func (s *Session) Set(passphrase string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passphrase = passphrase
	s.set = true
}

// Passphrase returns the current passphrase and whether one has been set.
func (s *Session) Passphrase() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passphrase, s.set
}

// Request makes sure the session has a passphrase, prompting through p when
// it does not. A cancelled prompt leaves the session Unset and returns
// ErrPromptCancelled.
func (s *Session) Request(ctx context.Context, p Prompter) error {
	if !s.NeedsPrompt() {
		return nil
	}

	passphrase, err := p.AskSecret(ctx, PasswordPrompt, ValidatePassphrase)
	if err != nil {
		if errors.Is(err, ErrPromptCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ErrPromptCancelled
		}
		return err
	}

	s.Set(passphrase)
	return nil
}

// ValidatePassphrase checks an interactively entered passphrase.
// It returns "" to accept the value or a message explaining the rejection.
func ValidatePassphrase(passphrase string) string {
	if passphrase == "" {
		return "You must provide a password"
	}
	if utf8.RuneCountInString(passphrase) < minPassphraseLength {
		return "The password must have at least 5 characters"
	}
	return ""
}
