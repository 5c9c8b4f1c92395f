package lens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// LensService toggles marked lines between plaintext and ciphertext and
// renders decrypted previews of marked lines.
type LensService struct {
	marker   string
	engine   CipherEngine
	session  *Session
	prompter Prompter
	notifier Notifier
	history  HistoryStore
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewLensService creates a new LensService with the provided dependencies.
// A nil history disables history recording.
func NewLensService(marker string, engine CipherEngine, session *Session, prompter Prompter, notifier Notifier, history HistoryStore, logger Logger, clock Clock, idgen IDGenerator) *LensService {
	if history == nil {
		history = NopHistory{}
	}
	return &LensService{
		marker:   marker,
		engine:   engine,
		session:  session,
		prompter: prompter,
		notifier: notifier,
		history:  history,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// Marker returns the prefix that flags a line as ciphertext.
func (s *LensService) Marker() string {
	return s.marker
}

// Named is implemented by documents that know their own name (usually a path).
// The name is only used for history and logging.
type Named interface {
	Name() string
}

// ToggleResult reports what a Toggle call did, by zero-based line index.
type ToggleResult struct {
	Encrypted []int
	Decrypted []int
	// Failed lists marked lines that could not be decrypted and were left as is.
	Failed []int
	// Skipped lists empty lines and lines that could not be read.
	Skipped []int
	// Cancelled is set when the passphrase prompt was dismissed; nothing changed.
	Cancelled bool
}

// Changed returns the number of lines that were rewritten.
func (r *ToggleResult) Changed() int {
	return len(r.Encrypted) + len(r.Decrypted)
}

// Toggle encrypts every selected plain line and decrypts every selected
// marked line of doc.
//
// If line is non-nil it replaces the line of each selection, matching the
// way a lens click targets one specific line. Multi-line selections are
// reported and skipped without affecting the others. The passphrase is
// resolved at most once per call, before any line is touched; a cancelled
// prompt leaves the document untouched. Empty lines are never modified.
func (s *LensService) Toggle(ctx context.Context, doc TextAccessor, line *int) (*ToggleResult, error) {
	result := &ToggleResult{}

	lines := s.targetLines(doc, line)
	if len(lines) == 0 {
		return result, nil
	}

	if err := s.session.Request(ctx, s.prompter); err != nil {
		if errors.Is(err, ErrPromptCancelled) {
			s.logger.Info("toggle cancelled at password prompt")
			result.Cancelled = true
			return result, nil
		}
		return result, fmt.Errorf("requesting password: %w", err)
	}
	passphrase, _ := s.session.Passphrase()

	operationID := s.idgen.New()
	name := documentName(doc)

	for _, idx := range lines {
		l, err := doc.Line(idx)
		if err != nil {
			s.notifier.Warn(fmt.Sprintf("line %d: %v", idx+1, err))
			result.Skipped = append(result.Skipped, idx)
			continue
		}

		var (
			newText string
			action  Action
		)
		switch {
		case strings.HasPrefix(l.Text, s.marker):
			payload := strings.Replace(l.Text, s.marker, "", 1)
			plain, err := s.engine.Decrypt(payload, passphrase)
			if err != nil {
				s.notifier.Warn(plain)
				s.logger.Warn("line decryption failed", "document", name, "line", idx+1)
				result.Failed = append(result.Failed, idx)
				continue
			}
			newText, action = plain, ActionDecrypt
		case !utf8.ValidString(l.Text):
			s.notifier.Warn(fmt.Sprintf("line %d: %v", idx+1, ErrInvalidText))
			result.Skipped = append(result.Skipped, idx)
			continue
		case l.Text != "":
			encrypted, err := s.engine.Encrypt(l.Text, passphrase)
			if err != nil {
				return result, fmt.Errorf("encrypting line %d: %w", idx+1, err)
			}
			newText, action = s.marker+encrypted, ActionEncrypt
		default:
			result.Skipped = append(result.Skipped, idx)
			continue
		}

		if newText == l.Text {
			continue
		}
		if err := doc.Replace(l.Range, newText); err != nil {
			return result, fmt.Errorf("replacing line %d: %w", idx+1, err)
		}

		if action == ActionEncrypt {
			result.Encrypted = append(result.Encrypted, idx)
		} else {
			result.Decrypted = append(result.Decrypted, idx)
		}
		s.logger.Info("line "+string(action)+"ed", "document", name, "line", idx+1)
		s.record(operationID, name, idx, action)
	}

	return result, nil
}

// targetLines returns the distinct line indexes a Toggle call applies to,
// warning about selections that cannot be processed.
func (s *LensService) targetLines(doc TextAccessor, line *int) []int {
	selections := doc.Selections()
	if len(selections) == 0 && line != nil {
		selections = []Selection{NewLineSelection(*line, *line)}
	}
	if len(selections) == 0 {
		s.notifier.Warn(ErrNoSelection.Error())
		return nil
	}

	seen := make(map[int]bool)
	var lines []int
	for _, sel := range selections {
		if !sel.IsSingleLine() {
			s.notifier.Warn(ErrMultiLineSelection.Error())
			continue
		}
		idx := sel.Start.Line
		if line != nil {
			idx = *line
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		lines = append(lines, idx)
	}
	return lines
}

// record appends a history entry. History is best effort: a failure is
// logged and the transform still counts.
func (s *LensService) record(operationID, document string, line int, action Action) {
	entry := &HistoryEntry{
		ID:          s.idgen.New(),
		OperationID: operationID,
		Document:    document,
		Line:        line,
		Action:      action,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.history.Record(entry); err != nil {
		s.logger.Error("recording history", "document", document, "line", line+1, "error", err)
	}
}

// SetPassword asks for the passphrase if the session does not have one yet.
// Once a passphrase is set, or when the engine takes none, the command only
// informs the user; a cancelled prompt is a silent no-op.
func (s *LensService) SetPassword(ctx context.Context) error {
	if !s.session.Required() {
		s.notifier.Info("This command is disabled")
		return nil
	}
	if !s.session.NeedsPrompt() {
		s.notifier.Info("The password is already set for this session")
		return nil
	}

	err := s.session.Request(ctx, s.prompter)
	if errors.Is(err, ErrPromptCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("requesting password: %w", err)
	}
	s.logger.Info("password set")
	return nil
}

// History returns up to limit recorded transforms, newest first.
func (s *LensService) History(limit int) ([]*HistoryEntry, error) {
	entries, err := s.history.List(limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}

func documentName(doc TextAccessor) string {
	if n, ok := doc.(Named); ok {
		return n.Name()
	}
	return ""
}
