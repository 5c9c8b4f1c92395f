package lens

import "context"

// Position is a zero-based line/character location in a document.
type Position struct {
	Line      int
	Character int
}

// Range spans two positions. End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// Selection is a user-selected range in a document.
type Selection struct {
	Range
}

// NewLineSelection returns a selection that covers lines start through end.
func NewLineSelection(start, end int) Selection {
	return Selection{Range{Start: Position{Line: start}, End: Position{Line: end}}}
}

// IsSingleLine reports whether the selection starts and ends on the same line.
func (s Selection) IsSingleLine() bool {
	return s.Start.Line == s.End.Line
}

// Line is the text of one document line (without its line terminator)
// together with the range it occupies.
type Line struct {
	Index int
	Text  string
	Range Range
}

// TextAccessor gives the core access to a document held by the host.
// It abstracts the editor buffer so the core can be tested without one.
type TextAccessor interface {
	// Line returns the line at index. Returns ErrLineOutOfRange for a bad index.
	Line(index int) (Line, error)

	// LineCount returns the number of lines in the document.
	LineCount() int

	// Selections returns the current selections, in order.
	Selections() []Selection

	// Replace replaces the text covered by r with text. Each call is atomic.
	Replace(r Range, text string) error
}

// Prompter asks the user for a secret value.
type Prompter interface {
	// AskSecret prompts with the given message. validate is called on every
	// entered value: a non-empty return rejects the value with that message
	// and the prompt is repeated. Returns ErrPromptCancelled if the user
	// dismisses the prompt or ctx is done.
	AskSecret(ctx context.Context, prompt string, validate func(string) string) (string, error)
}

// Notifier shows fire-and-forget messages to the user.
type Notifier interface {
	Warn(msg string)
	Info(msg string)
}
