package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"secretlens/internal/lens"
)

// Document is a text file loaded into memory as lines.
// It implements lens.TextAccessor; changes stay in memory until Save.
//
// Line terminators are kept per line ("\n" or "\r\n") and are not part of
// the line text, so a load/save round trip reproduces the file byte for byte.
type Document struct {
	path       string
	language   string
	mode       fs.FileMode
	lines      []string
	crlf       []bool
	selections []lens.Selection
	modified   bool
}

var (
	_ lens.TextAccessor = (*Document)(nil)
	_ lens.Named        = (*Document)(nil)
)

// Open resolves rawPath and loads the file it points to.
// Only regular files are supported.
func Open(rawPath string) (*Document, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return nil, fmt.Errorf("symlinks not supported: %s", absPath)
	case info.IsDir():
		return nil, fmt.Errorf("path is a directory: %s", absPath)
	case !mode.IsRegular():
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	d := New(absPath, string(content))
	d.mode = mode.Perm()
	return d, nil
}

// New creates an in-memory document named path with the given content.
func New(path, content string) *Document {
	d := &Document{
		path:     path,
		language: DetectLanguage(path),
		mode:     0644,
	}
	d.load(content)
	return d
}

func (d *Document) load(content string) {
	parts := strings.Split(content, "\n")
	d.lines = make([]string, len(parts))
	d.crlf = make([]bool, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 && strings.HasSuffix(p, "\r") {
			p = strings.TrimSuffix(p, "\r")
			d.crlf[i] = true
		}
		d.lines[i] = p
	}
	d.modified = false
}

// Name returns the absolute path of the document.
func (d *Document) Name() string {
	return d.path
}

// Language returns the detected language ID.
func (d *Document) Language() string {
	return d.language
}

// Modified reports whether the document has unsaved changes.
func (d *Document) Modified() bool {
	return d.modified
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the line at index.
func (d *Document) Line(index int) (lens.Line, error) {
	if index < 0 || index >= len(d.lines) {
		return lens.Line{}, fmt.Errorf("line %d of %d: %w", index+1, len(d.lines), lens.ErrLineOutOfRange)
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

// Selections returns the current selections.
func (d *Document) Selections() []lens.Selection {
	return d.selections
}

// Select replaces the current selections.
func (d *Document) Select(selections ...lens.Selection) {
	d.selections = append([]lens.Selection(nil), selections...)
}

// Replace replaces the characters covered by r, which must lie on one line.
// Character offsets count runes.
func (d *Document) Replace(r lens.Range, text string) error {
	if r.Start.Line != r.End.Line {
		return fmt.Errorf("replacing across lines is not supported")
	}
	if strings.ContainsAny(text, "\r\n") {
		return fmt.Errorf("replacement text must not contain line breaks")
	}
	if r.Start.Line < 0 || r.Start.Line >= len(d.lines) {
		return fmt.Errorf("line %d of %d: %w", r.Start.Line+1, len(d.lines), lens.ErrLineOutOfRange)
	}

	runes := []rune(d.lines[r.Start.Line])
	start, end := r.Start.Character, r.End.Character
	if start < 0 || end > len(runes) || start > end {
		return fmt.Errorf("character range %d-%d outside line %d", start, end, r.Start.Line+1)
	}

	d.lines[r.Start.Line] = string(runes[:start]) + text + string(runes[end:])
	d.modified = true
	return nil
}

// String returns the document content with its original line terminators.
func (d *Document) String() string {
	var b strings.Builder
	for i, line := range d.lines {
		b.WriteString(line)
		if i == len(d.lines)-1 {
			break
		}
		if d.crlf[i] {
			b.WriteByte('\r')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Save writes the document back to its path if it has been modified.
// The write is atomic: content goes to a temp file that is renamed over
// the original.
func (d *Document) Save() error {
	if !d.modified {
		return nil
	}
	if err := writeFileAtomic(d.path, []byte(d.String()), d.mode); err != nil {
		return err
	}
	d.modified = false
	return nil
}

// Reload discards in-memory changes and reads the file again.
// Selections are kept.
func (d *Document) Reload() error {
	content, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	d.load(string(content))
	return nil
}

// writeFileAtomic writes data to path using a temp file in the same
// directory followed by a rename.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-secretlens-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Chmod(perm); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
