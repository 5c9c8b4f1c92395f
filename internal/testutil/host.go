package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"secretlens/internal/lens"
)

// MockDocument is an in-memory lens.TextAccessor for testing.
type MockDocument struct {
	name       string
	lines      []string
	selections []lens.Selection

	// ReplaceErr, when set, is returned by every Replace call.
	ReplaceErr error
	// Replaces counts successful Replace calls.
	Replaces int
}

// NewMockDocument creates a document holding the given lines.
func NewMockDocument(name string, lines ...string) *MockDocument {
	return &MockDocument{name: name, lines: append([]string{}, lines...)}
}

// Select replaces the current selections with single-line selections on the
// given zero-based line indexes.
func (d *MockDocument) Select(lines ...int) *MockDocument {
	d.selections = nil
	for _, l := range lines {
		d.selections = append(d.selections, lens.NewLineSelection(l, l))
	}
	return d
}

// SelectRange adds a selection spanning lines start through end.
func (d *MockDocument) SelectRange(start, end int) *MockDocument {
	d.selections = append(d.selections, lens.NewLineSelection(start, end))
	return d
}

func (d *MockDocument) Name() string { return d.name }

func (d *MockDocument) Line(index int) (lens.Line, error) {
	if index < 0 || index >= len(d.lines) {
		return lens.Line{}, lens.ErrLineOutOfRange
	}
	text := d.lines[index]
	return lens.Line{
		Index: index,
		Text:  text,
		Range: lens.Range{
			Start: lens.Position{Line: index},
			End:   lens.Position{Line: index, Character: utf8.RuneCountInString(text)},
		},
	}, nil
}

func (d *MockDocument) LineCount() int { return len(d.lines) }

func (d *MockDocument) Selections() []lens.Selection { return d.selections }

// Replace supports whole-line ranges only, which is all the core produces.
func (d *MockDocument) Replace(r lens.Range, text string) error {
	if d.ReplaceErr != nil {
		return d.ReplaceErr
	}
	if r.Start.Line != r.End.Line || r.Start.Character != 0 {
		return fmt.Errorf("mock document only replaces whole lines, got %+v", r)
	}
	if r.Start.Line < 0 || r.Start.Line >= len(d.lines) {
		return lens.ErrLineOutOfRange
	}
	d.lines[r.Start.Line] = text
	d.Replaces++
	return nil
}

// Text returns the line at index, or "" when out of range.
func (d *MockDocument) Text(index int) string {
	if index < 0 || index >= len(d.lines) {
		return ""
	}
	return d.lines[index]
}

// String joins the lines with "\n".
func (d *MockDocument) String() string {
	return strings.Join(d.lines, "\n")
}

// ScriptedPrompter answers AskSecret from a queue of canned replies.
// Each reply is run through validate like a real prompt; rejected replies
// are recorded and the next one is used. An exhausted queue cancels.
type ScriptedPrompter struct {
	mu       sync.Mutex
	answers  []string
	calls    int
	rejected []string
	prompts  []string
}

// NewScriptedPrompter creates a prompter that replies with answers in order.
func NewScriptedPrompter(answers ...string) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// NewCancellingPrompter creates a prompter that always cancels.
func NewCancellingPrompter() *ScriptedPrompter {
	return &ScriptedPrompter{}
}

func (p *ScriptedPrompter) AskSecret(ctx context.Context, prompt string, validate func(string) string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.prompts = append(p.prompts, prompt)
	for len(p.answers) > 0 {
		if ctx.Err() != nil {
			return "", lens.ErrPromptCancelled
		}
		answer := p.answers[0]
		p.answers = p.answers[1:]
		if validate != nil {
			if msg := validate(answer); msg != "" {
				p.rejected = append(p.rejected, msg)
				continue
			}
		}
		return answer, nil
	}
	return "", lens.ErrPromptCancelled
}

// Calls returns how many times AskSecret was called.
func (p *ScriptedPrompter) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Rejected returns the validation messages produced so far.
func (p *ScriptedPrompter) Rejected() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.rejected...)
}

// Prompts returns the prompt texts AskSecret was called with.
func (p *ScriptedPrompter) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.prompts...)
}

// RecordingNotifier collects the messages shown to the user.
type RecordingNotifier struct {
	mu    sync.Mutex
	warns []string
	infos []string
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) Warn(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warns = append(n.warns, msg)
}

func (n *RecordingNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

// Warnings returns the warnings shown so far.
func (n *RecordingNotifier) Warnings() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.warns...)
}

// Infos returns the informational messages shown so far.
func (n *RecordingNotifier) Infos() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.infos...)
}
