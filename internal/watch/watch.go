// Package watch re-runs a preview when the previewed file changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kk-code-lab/emview/internal/logging"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove

// Watcher calls a function whenever one file changes.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *logging.Logger
	fs       *fsnotify.Watcher
}

// New watches path. The parent directory is watched rather than the file so
// that editors which save by rename keep being followed.
func New(path string, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if logger == nil {
		logger = logging.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, debounce: debounce, logger: logger, fs: fsw}, nil
}

// Run blocks until ctx is done, calling onChange once per debounced burst of
// events on the watched file.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer func() {
		if err := w.fs.Close(); err != nil {
			w.logger.Warn("closing watcher", "error", err)
		}
	}()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || event.Op&relevantOps == 0 {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			// Reset discards a pending fire on Go 1.23+ timers.
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify watcher error", "error", err)
		case <-timer.C:
			onChange()
		}
	}
}
