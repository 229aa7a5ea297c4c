// Package ingest keeps the engine's folder list in sync with an inbox
// directory on disk.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rjcompany/nfmailer/pkg/folder"
	"github.com/rjcompany/nfmailer/pkg/logger"
)

// DefaultDebounce is the quiet period after the last change before a reload.
const DefaultDebounce = 500 * time.Millisecond

// ErrWatch is returned when the inbox cannot be watched.
var ErrWatch = errors.New("ingest: failed to watch inbox")

// Target receives freshly read folder lists.
type Target interface {
	Ingest(folders []folder.Folder) error
}

// Watcher reloads an inbox directory into a Target whenever it changes.
type Watcher struct {
	dir      string
	target   Target
	debounce time.Duration
	logger   *slog.Logger
	onReload func(n int, err error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithReloadHook is called after every reload attempt with the number of
// folders read and the ingest error, if any.
func WithReloadHook(fn func(n int, err error)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// New creates a Watcher for dir.
func New(dir string, target Target, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		target:   target,
		debounce: DefaultDebounce,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load reads the inbox once and ingests it.
// An empty inbox is not an error.
func (w *Watcher) Load() error {
	folders, err := folder.FromDir(w.dir)
	if errors.Is(err, folder.ErrNoFolders) {
		folders, err = nil, nil
	}
	if err == nil {
		err = w.target.Ingest(folders)
	}
	if w.onReload != nil {
		w.onReload(len(folders), err)
	}
	if err != nil {
		return err
	}

	w.logger.Info("inbox loaded",
		slog.String("dir", w.dir),
		slog.Int("folders", len(folders)),
	)
	return nil
}

// Run watches the inbox and its customer folders until ctx ends.
// Changes are coalesced; a reload rejected because a run is active is
// logged and retried on the next change.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(ErrWatch, err)
	}
	defer fw.Close()

	if err := w.addTree(fw); err != nil {
		return err
	}
	w.logger.Info("watching inbox", slog.String("dir", w.dir))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			if event.Has(fsnotify.Create) && w.isFolder(event.Name) {
				if err := fw.Add(event.Name); err != nil {
					w.logger.Warn("failed to watch folder",
						slog.String("path", event.Name),
						slog.String("error", err.Error()),
					)
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			if err := w.Load(); err != nil {
				w.logger.Warn("inbox reload skipped", slog.String("error", err.Error()))
			}
		}
	}
}

// addTree watches the inbox and its first-level subdirectories.
func (w *Watcher) addTree(fw *fsnotify.Watcher) error {
	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWatch, w.dir, err)
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWatch, w.dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if err := fw.Add(filepath.Join(w.dir, e.Name())); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWatch, e.Name(), err)
		}
	}
	return nil
}

// isFolder reports whether path is a direct, visible subdirectory of the inbox.
func (w *Watcher) isFolder(path string) bool {
	if filepath.Dir(path) != filepath.Clean(w.dir) || strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
