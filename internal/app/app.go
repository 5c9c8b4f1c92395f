package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"secretlens/internal/config"
	"secretlens/internal/document"
	"secretlens/internal/encryption"
	"secretlens/internal/history"
	"secretlens/internal/lens"
	"secretlens/internal/terminal"
	"secretlens/internal/watch"
)

// Streams are the standard streams the app talks to the user through.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Options tune a LensApp beyond what the config file holds.
type Options struct {
	// Verbose mirrors the log to stderr and enables debug records.
	Verbose bool

	// ReadOnlyHistory opens the history store for listing: nothing is
	// created or upgraded on disk.
	ReadOnlyHistory bool
}

// LensApp is the application layer between the CLI and LensService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw paths, and releases resources on Close.
type LensApp struct {
	cfg      *config.Config
	streams  Streams
	engine   lens.CipherEngine
	session  *lens.Session
	prompter *terminal.Prompter
	notifier lens.Notifier
	history  lens.HistoryStore
	matcher  *document.LanguageMatcher
	service  *lens.LensService
	logger   lens.Logger
	op       *Operation
	logFile  *os.File
}

// NewLensApp creates a fully wired LensApp from the given config.
// operation identifies the CLI command being run (e.g. "Toggle", "Lens").
// The caller must call Close when done.
func NewLensApp(cfg *config.Config, operation string, streams Streams, opts Options) (*LensApp, error) {
	engine, err := encryption.NewEngineFromConfig(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("creating cipher engine: %w", err)
	}

	openStore := history.NewStoreFromConfig
	if opts.ReadOnlyHistory {
		openStore = history.OpenStoreFromConfig
	}
	store, err := openStore(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("creating history store: %w", err)
	}

	op := NewOperation(operation, time.Now())
	logger, logFile, err := newLogger(cfg.LogDir, op.ID, opts.Verbose)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	session := lens.NewSession(engine.RequiresPassphrase())
	if passphrase := os.Getenv(PassphraseEnv); passphrase != "" {
		session.Set(passphrase)
		adapter.Debug("password injected from environment")
	}

	prompter := terminal.NewPrompter(streams.In, streams.Err)
	notifier := terminal.NewNotifier(streams.Err)

	svc := lens.NewLensService(cfg.Marker, engine, session, prompter, notifier, store, adapter, lens.SystemClock{}, lens.UUIDGenerator{})

	adapter.Info("operation started", "operation", operation, "engine", cfg.Engine.Type)

	return &LensApp{
		cfg:      cfg,
		streams:  streams,
		engine:   engine,
		session:  session,
		prompter: prompter,
		notifier: notifier,
		history:  store,
		matcher:  document.NewLanguageMatcher(cfg.Languages),
		service:  svc,
		logger:   adapter,
		op:       op,
		logFile:  logFile,
	}, nil
}

// Service returns the underlying LensService.
func (a *LensApp) Service() *lens.LensService {
	return a.service
}

// OpenDocument loads the file at rawPath, rejecting documents whose
// language is not enabled in config.
func (a *LensApp) OpenDocument(rawPath string) (*document.Document, error) {
	doc, err := document.Open(rawPath)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	if !a.matcher.Match(doc.Name(), doc.Language()) {
		return nil, fmt.Errorf("%s (%s): %w", doc.Name(), doc.Language(), lens.ErrUnsupportedLanguage)
	}
	return doc, nil
}

// Toggle encrypts or decrypts the selected lines of the file at rawPath and
// saves it if anything changed. line, when non-nil, overrides every selection.
func (a *LensApp) Toggle(ctx context.Context, rawPath string, selections []lens.Selection, line *int) (*lens.ToggleResult, error) {
	doc, err := a.OpenDocument(rawPath)
	if err != nil {
		return nil, a.op.Fail(err)
	}
	doc.Select(selections...)
	return a.ToggleDocument(ctx, doc, line)
}

// ToggleDocument runs Toggle on an already open document and saves it.
func (a *LensApp) ToggleDocument(ctx context.Context, doc *document.Document, line *int) (*lens.ToggleResult, error) {
	result, err := a.service.Toggle(ctx, doc, line)
	if err != nil {
		return result, a.op.Fail(fmt.Errorf("toggling lines: %w", err))
	}
	if err := doc.Save(); err != nil {
		return result, a.op.Fail(fmt.Errorf("saving document: %w", err))
	}
	if result.Changed() > 0 {
		a.logger.Info("document saved", "path", doc.Name(), "changed", result.Changed())
	}
	return result, nil
}

// SetPassword asks for the session passphrase if it is not set yet.
func (a *LensApp) SetPassword(ctx context.Context) error {
	return a.op.Fail(a.service.SetPassword(ctx))
}

// Lenses returns decrypted previews for every marked line of the file at rawPath.
func (a *LensApp) Lenses(rawPath string) ([]lens.Annotation, error) {
	doc, err := a.OpenDocument(rawPath)
	if err != nil {
		return nil, a.op.Fail(err)
	}
	return a.service.Lenses(doc), nil
}

// Watch renders the previews of the file at rawPath once, then again after
// every change on disk, until ctx is done.
func (a *LensApp) Watch(ctx context.Context, rawPath string, render func([]lens.Annotation)) error {
	doc, err := a.OpenDocument(rawPath)
	if err != nil {
		return a.op.Fail(err)
	}
	render(a.service.Lenses(doc))

	w, err := watch.New(doc.Name(), 0, a.logger)
	if err != nil {
		return a.op.Fail(err)
	}
	return a.op.Fail(w.Run(ctx, func() error {
		if err := doc.Reload(); err != nil {
			return err
		}
		render(a.service.Lenses(doc))
		return nil
	}))
}

// History returns the most recent transforms.
func (a *LensApp) History(limit int) ([]*lens.HistoryEntry, error) {
	entries, err := a.service.History(limit)
	return entries, a.op.Fail(err)
}

// Close finalizes the operation and closes all resources.
func (a *LensApp) Close() error {
	var firstErr error

	if err := a.history.Close(); err != nil {
		firstErr = fmt.Errorf("closing history: %w", err)
	}

	a.logger.Info("operation finished", "operation", a.op.Name, "status", a.op.Status,
		"duration", time.Since(a.op.StartedAt).Truncate(time.Millisecond).String())

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// ParseSelection parses a 1-based line ("3") or inclusive line range ("3:5")
// into a zero-based selection.
func ParseSelection(s string) (lens.Selection, error) {
	startText, endText, isRange := strings.Cut(strings.TrimSpace(s), ":")

	start, err := strconv.Atoi(startText)
	if err != nil || start < 1 {
		return lens.Selection{}, fmt.Errorf("invalid line %q: must be a positive number", startText)
	}
	end := start
	if isRange {
		end, err = strconv.Atoi(endText)
		if err != nil || end < start {
			return lens.Selection{}, fmt.Errorf("invalid line range %q", s)
		}
	}
	return lens.NewLineSelection(start-1, end-1), nil
}

// PrintLenses writes one line per annotation: the 1-based line number and
// the preview title.
func PrintLenses(w io.Writer, annotations []lens.Annotation) {
	if len(annotations) == 0 {
		fmt.Fprintln(w, "No encrypted lines.")
		return
	}
	for _, an := range annotations {
		fmt.Fprintf(w, "%s  %s\n", terminal.Muted.Sprint(fmt.Sprintf("%4d", an.Line+1)), terminal.Secret.Sprint(an.Title))
	}
}

// PrintToggleResult summarises a toggle for the user.
func PrintToggleResult(w io.Writer, result *lens.ToggleResult) {
	if result.Cancelled {
		fmt.Fprintln(w, "Cancelled, nothing changed.")
		return
	}
	fmt.Fprintln(w, terminal.Success.Sprint(fmt.Sprintf("Encrypted %d line(s), decrypted %d line(s)", len(result.Encrypted), len(result.Decrypted))))
}

// PrintHistory writes one line per entry with 1-based line numbers.
func PrintHistory(w io.Writer, entries []*lens.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No transforms recorded.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-7s  %s:%d  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Action,
			e.Document,
			e.Line+1,
			shortID(e.OperationID),
		)
	}
}

// shortID abbreviates an ID for display. IDs are not guaranteed to be UUIDs.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
