package document

import (
	"path/filepath"
	"strings"
)

// languageByExtension maps lower-case file extensions to language IDs.
var languageByExtension = map[string]string{
	".txt":        "plaintext",
	".text":       "plaintext",
	".md":         "markdown",
	".markdown":   "markdown",
	".env":        "dotenv",
	".yaml":       "yaml",
	".yml":        "yaml",
	".json":       "json",
	".toml":       "toml",
	".ini":        "ini",
	".cfg":        "ini",
	".conf":       "ini",
	".properties": "properties",
	".sh":         "shellscript",
	".bash":       "shellscript",
	".zsh":        "shellscript",
	".go":         "go",
	".py":         "python",
	".js":         "javascript",
	".ts":         "typescript",
}

// DetectLanguage returns the language ID for path, "plaintext" when unknown.
// Dotenv files are recognised by name (".env", ".env.local", ...).
func DetectLanguage(path string) string {
	base := filepath.Base(path)
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return "dotenv"
	}
	if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(base))]; ok {
		return lang
	}
	return "plaintext"
}

// languagePattern is a parsed language filter entry.
type languagePattern struct {
	pattern   string
	glob      bool // true = filename glob; false = language ID
	matchPath bool // only for globs: true = match against full path; false = basename only
}

// LanguageMatcher decides which documents secretlens operates on.
// Entries without glob characters are language IDs ("markdown").
// Entries with glob characters are filename patterns ("*.secret"); those
// containing '/' match the full slash-separated path, others the basename.
// An empty matcher, or one containing "*", matches every document.
type LanguageMatcher struct {
	patterns []languagePattern
	all      bool
}

// NewLanguageMatcher creates a LanguageMatcher from configured entries.
// Blank entries and entries starting with '#' are skipped.
func NewLanguageMatcher(entries []string) *LanguageMatcher {
	m := &LanguageMatcher{}
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		if raw == "*" {
			m.all = true
			continue
		}
		glob := strings.ContainsAny(raw, "*?[")
		m.patterns = append(m.patterns, languagePattern{
			pattern:   raw,
			glob:      glob,
			matchPath: glob && strings.Contains(raw, "/"),
		})
	}
	if len(m.patterns) == 0 {
		m.all = true
	}
	return m
}

// Match reports whether a document at path with the given language ID is enabled.
func (m *LanguageMatcher) Match(path, language string) bool {
	if m.all {
		return true
	}

	normalized := filepath.ToSlash(path)
	basename := filepath.Base(path)

	for _, p := range m.patterns {
		if !p.glob {
			if p.pattern == language {
				return true
			}
			continue
		}

		var matched bool
		var err error
		if p.matchPath {
			matched, err = filepath.Match(p.pattern, normalized)
		} else {
			matched, err = filepath.Match(p.pattern, basename)
		}
		if err != nil {
			// Bad pattern: skip rather than fail the whole match.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
