package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"secretlens/internal/lens"
)

// DefaultDebounce collapses the burst of events editors emit for one save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls a function whenever a single file changes on disk.
//
// The parent directory is watched rather than the file itself, because many
// editors save by writing a temp file and renaming it over the original,
// which would silently end a watch on the old inode.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   lens.Logger
}

// New creates a Watcher for path. A zero debounce selects DefaultDebounce.
func New(path string, debounce time.Duration, logger lens.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = lens.NewNopLogger()
	}
	return &Watcher{path: abs, debounce: debounce, logger: logger}, nil
}

// Run blocks until ctx is done, calling onChange after each settled change
// to the file. Errors returned by onChange are logged and do not stop the
// watch. Run returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("document changed", "path", w.path, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "error", err)

		case <-timer.C:
			if err := onChange(); err != nil {
				w.logger.Warn("change handler failed", "path", w.path, "error", err)
			}
		}
	}
}
