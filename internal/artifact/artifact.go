// Package artifact owns the lifecycle of files produced by download and
// extraction steps: every tracked path is deleted exactly once after the
// owning job reaches a terminal state.
package artifact

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Tracker collects artifact paths and deletes them all on release. It is
// safe for concurrent use and implements media.Sink.
type Tracker struct {
	mu    sync.Mutex
	paths []string
	log   *slog.Logger
}

// NewTracker returns an empty Tracker. A nil logger falls back to the
// default slog logger.
func NewTracker(log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{log: log}
}

// Track records path for later deletion. Tracking the same path twice is
// harmless; deletion is idempotent.
func (t *Tracker) Track(path string) {
	if path == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, path)
}

// ReleaseAll deletes every tracked path. Paths are removed in reverse
// tracking order so files inside a tracked directory go before the
// directory itself. A tracked directory is removed recursively: partial
// downloads a failed producer never reported still live inside it and
// must not outlive the job. Missing paths are logged, never errors; a
// second call is a no-op.
func (t *Tracker) ReleaseAll() {
	t.mu.Lock()
	paths := t.paths
	t.paths = nil
	t.mu.Unlock()

	for i := len(paths) - 1; i >= 0; i-- {
		p := paths[i]
		err := remove(p)
		switch {
		case err == nil:
			t.log.Debug("artifact removed", "path", p)
		case errors.Is(err, fs.ErrNotExist):
			t.log.Debug("artifact already gone", "path", p)
		default:
			t.log.Warn("removing artifact", "path", p, "error", err)
		}
	}
}

func remove(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// Workdir hands out per-request directories under a common root, so
// concurrent requests for the same title can never collide on file names.
type Workdir struct {
	root string
}

// NewWorkdir creates root if needed and returns a Workdir over it.
func NewWorkdir(root string) (*Workdir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Workdir{root: root}, nil
}

// JobDir creates and returns a fresh directory for one download job.
func (w *Workdir) JobDir() (string, error) {
	dir := filepath.Join(w.root, uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
