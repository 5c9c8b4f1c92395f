package lens_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"secretlens/internal/lens"
	"secretlens/internal/testutil"
)

func TestValidatePassphrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		passphrase string
		want       string
	}{
		{"empty", "", "You must provide a password"},
		{"too short", "abcd", "The password must have at least 5 characters"},
		{"exactly five", "abcde", ""},
		{"long", "correct horse battery staple", ""},
		{"counts runes not bytes", "🔑🔑🔑🔑", "The password must have at least 5 characters"},
		{"counts code points not utf-16 units", "🔑🔑🔑", "The password must have at least 5 characters"},
		{"five emoji accepted", "🔑🔑🔑🔑🔑", ""},
		{"five runes", "ñññññ", ""},
		{"whitespace counts", "     ", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := lens.ValidatePassphrase(tt.passphrase); got != tt.want {
				t.Errorf("ValidatePassphrase(%q) = %q, want %q", tt.passphrase, got, tt.want)
			}
		})
	}
}

func TestSession_StartsUnset(t *testing.T) {
	t.Parallel()

	s := lens.NewSession(true)
	if !s.NeedsPrompt() {
		t.Error("new session should need a prompt")
	}
	if p, ok := s.Passphrase(); ok || p != "" {
		t.Errorf("Passphrase() = %q, %v; want \"\", false", p, ok)
	}
}

func TestSession_Set(t *testing.T) {
	t.Parallel()

	t.Run("marks session set without validation", func(t *testing.T) {
		t.Parallel()
		s := lens.NewSession(true)
		s.Set("abc")

		if s.NeedsPrompt() {
			t.Error("session should not need a prompt after Set")
		}
		if p, ok := s.Passphrase(); !ok || p != "abc" {
			t.Errorf("Passphrase() = %q, %v; want \"abc\", true", p, ok)
		}
	})

	t.Run("overwrites earlier value", func(t *testing.T) {
		t.Parallel()
		s := lens.NewSession(true)
		s.Set("first-pass")
		s.Set("second-pass")

		if p, _ := s.Passphrase(); p != "second-pass" {
			t.Errorf("Passphrase() = %q, want second-pass", p)
		}
	})
}

func TestSession_Request(t *testing.T) {
	t.Parallel()

	t.Run("prompts when unset", func(t *testing.T) {
		t.Parallel()
		s := lens.NewSession(true)
		p := testutil.NewScriptedPrompter("hunter2")

		if err := s.Request(context.Background(), p); err != nil {
			t.Fatalf("Request() error = %v", err)
		}
		if got, _ := s.Passphrase(); got != "hunter2" {
			t.Errorf("Passphrase() = %q, want hunter2", got)
		}
		if prompts := p.Prompts(); len(prompts) != 1 || prompts[0] != lens.PasswordPrompt {
			t.Errorf("prompts = %q, want [%q]", prompts, lens.PasswordPrompt)
		}
	})

	t.Run("does not prompt once set", func(t *testing.T) {
		t.Parallel()
		s := lens.NewSession(true)
		p := testutil.NewScriptedPrompter("hunter2", "other-pass")

		for i := 0; i < 3; i++ {
			if err := s.Request(context.Background(), p); err != nil {
				t.Fatalf("Request() #%d error = %v", i, err)
			}
		}
		if p.Calls() != 1 {
			t.Errorf("prompter called %d times, want 1", p.Calls())
		}
	})

	t.Run("repeats prompt until value is valid", func(t *testing.T) {
		t.Parallel()
		s := lens.NewSession(true)
		p := testutil.NewScriptedPrompter("", "abc", "hunter2")

		if err := s.Request(context.Background(), p); err != nil {
			t.Fatalf("Request() error = %v", err)
		}
		want := []string{"You must provide a password", "The password must have at least 5 characters"}
		got := p.Rejected()
		if len(got) != len(want) {
			t.Fatalf("rejected = %q, want %q", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("rejected[%d] = %q, want %q", i, got[i], want[i])
			}
		}
		if pass, _ := s.Passphrase(); pass != "hunter2" {
			t.Errorf("Passphrase() = %q, want hunter2", pass)
		}
	})

	t.Run("cancel leaves session unset", func(t *testing.T) {
		t.Parallel()
		s := lens.NewSession(true)

		err := s.Request(context.Background(), testutil.NewCancellingPrompter())
		if !errors.Is(err, lens.ErrPromptCancelled) {
			t.Fatalf("Request() error = %v, want ErrPromptCancelled", err)
		}
		if !s.NeedsPrompt() {
			t.Error("session should still need a prompt after cancel")
		}
	})

	t.Run("cancelled context counts as cancel", func(t *testing.T) {
		t.Parallel()
		s := lens.NewSession(true)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Request(ctx, testutil.NewScriptedPrompter("hunter2"))
		if !errors.Is(err, lens.ErrPromptCancelled) {
			t.Fatalf("Request() error = %v, want ErrPromptCancelled", err)
		}
	})

	t.Run("never prompts when engine needs no passphrase", func(t *testing.T) {
		t.Parallel()
		s := lens.NewSession(false)
		p := testutil.NewScriptedPrompter("hunter2")

		if s.NeedsPrompt() {
			t.Error("NeedsPrompt() = true for a session that does not require a passphrase")
		}
		if err := s.Request(context.Background(), p); err != nil {
			t.Fatalf("Request() error = %v", err)
		}
		if p.Calls() != 0 {
			t.Errorf("prompter called %d times, want 0", p.Calls())
		}
	})
}

func TestSession_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := lens.NewSession(true)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set("hunter2")
		}()
		go func() {
			defer wg.Done()
			s.Passphrase()
			s.NeedsPrompt()
		}()
	}
	wg.Wait()

	if p, ok := s.Passphrase(); !ok || p != "hunter2" {
		t.Errorf("Passphrase() = %q, %v; want hunter2, true", p, ok)
	}
}
