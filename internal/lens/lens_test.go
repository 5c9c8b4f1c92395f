package lens_test

import (
	"testing"

	"secretlens/internal/lens"
	"secretlens/internal/testutil"
)

func TestLensService_MarkedLines(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testutil.NewUnsaltedEngine(t))
	doc := testutil.NewMockDocument("a.txt",
		"plain",
		marker+helloCipher,
		"",
		" "+marker+"indented does not count",
		marker,
	)

	got := f.svc.MarkedLines(doc)
	if want := []int{1, 4}; !equalInts(got, want) {
		t.Errorf("MarkedLines() = %v, want %v", got, want)
	}
}

func TestLensService_Lenses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		passphrase string // empty leaves the session unset
		wantTitle  string
	}{
		{"decrypts with session password", "hunter2", marker + "hello"},
		{"password not set", "", marker + lens.ErrPasswordNotSet.Error()},
		{"wrong password", "wrong", marker + lens.ErrDecryptFailed.Error()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, testutil.NewUnsaltedEngine(t), "never-used")
			if tt.passphrase != "" {
				f.session.Set(tt.passphrase)
			}
			doc := testutil.NewMockDocument("a.txt", "plain", marker+helloCipher)

			annotations := f.svc.Lenses(doc)
			if len(annotations) != 1 {
				t.Fatalf("got %d annotations, want 1", len(annotations))
			}
			an := annotations[0]
			if an.Line != 1 {
				t.Errorf("Line = %d, want 1", an.Line)
			}
			if an.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", an.Title, tt.wantTitle)
			}
			if an.Range.Start.Line != 1 || an.Range.End.Line != 1 {
				t.Errorf("Range = %+v, want line 1", an.Range)
			}
			if f.prompter.Calls() != 0 {
				t.Errorf("Lenses prompted %d times, want 0", f.prompter.Calls())
			}
			if doc.Replaces != 0 {
				t.Error("Lenses modified the document")
			}
		})
	}
}

func TestLensService_Lenses_NoMarkedLines(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testutil.NewUnsaltedEngine(t))
	doc := testutil.NewMockDocument("a.txt", "one", "two")

	if got := f.svc.Lenses(doc); len(got) != 0 {
		t.Errorf("Lenses() = %v, want none", got)
	}
}

func TestDecryptMessage(t *testing.T) {
	t.Parallel()

	engine := testutil.NewUnsaltedEngine(t)

	tests := []struct {
		name       string
		payload    string
		passphrase string
		want       string
	}{
		{"plaintext", helloCipher, "hunter2", "hello"},
		{"no password", helloCipher, "", lens.ErrPasswordNotSet.Error()},
		{"not hex", "zz", "hunter2", lens.ErrDecryptFailed.Error()},
		{"wrong password", helloCipher, "wrong", lens.ErrDecryptFailed.Error()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := lens.DecryptMessage(engine, tt.payload, tt.passphrase); got != tt.want {
				t.Errorf("DecryptMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
