package terminal

import (
	"bytes"
	"testing"
)

func TestNotifier(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	n := NewNotifier(&buf)

	n.Warn("The extension can only be executed in single line selections")
	n.Info("The password is already set for this session")

	want := "[warn] The extension can only be executed in single line selections\n" +
		"[info] The password is already set for this session\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestFormatter_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name string
		f    Formatter
	}{
		{"warning", Warning},
		{"success", Success},
		{"secret", Secret},
		{"muted", Muted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Sprint("text ", 42); got != "text 42" {
				t.Errorf("Sprint() = %q, want plain %q", got, "text 42")
			}
		})
	}
}
