// Package watch re-validates share documents as they change on disk.
//
// A Watcher follows the shares/ tree with fsnotify and debounces bursts
// of filesystem events (editor save dances, atomic renames) into one
// validation per share, delivered on the Events channel.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shareful-ai/shareful/internal/errors"
	"github.com/shareful-ai/shareful/internal/logging"
	"github.com/shareful-ai/shareful/internal/paths"
	"github.com/shareful-ai/shareful/internal/repo"
	"github.com/shareful-ai/shareful/internal/share/validator"
	"github.com/shareful-ai/shareful/pkg/fileutil"
)

// DefaultDebounce is the quiet period a share must reach before it is
// re-validated.
const DefaultDebounce = 250 * time.Millisecond

// Event is one debounced validation outcome for a share.
type Event struct {
	// Slug is the share directory name the event belongs to.
	Slug string

	// Path is the share document the outcome refers to.
	Path string

	// Removed marks a share whose directory is gone.
	Removed bool

	// Err reports a read or parse level failure. Result is nil then.
	Err error

	// Result holds the validation outcome for a readable document.
	Result *validator.Result
}

// Watcher re-validates shares as their files change.
type Watcher struct {
	repo      *repo.Repository
	logger    *slog.Logger
	debounce  time.Duration
	validator *validator.Validator
	events    chan Event
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for watcher lifecycle and skip messages.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce overrides the quiet period before re-validation.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a Watcher for the repository.
func New(r *repo.Repository, opts ...Option) *Watcher {
	w := &Watcher{
		repo:      r,
		logger:    logging.NewDiscard(),
		debounce:  DefaultDebounce,
		validator: validator.New(),
		events:    make(chan Event, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events returns the channel validation outcomes are delivered on. The
// channel is closed when Watch returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Watch follows the shares tree until the context is cancelled. It
// blocks; run it in a goroutine and consume Events concurrently.
func (w *Watcher) Watch(ctx context.Context) error {
	defer close(w.events)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer fsw.Close()

	sharesDir := w.repo.SharesDir()
	if err := addRecursive(fsw, sharesDir); err != nil {
		return errors.Wrap(err, "watching shares directory")
	}

	w.logger.Info("watching for share changes", "dir", sharesDir)

	// Debounce: batch rapid events into a single validation per share.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("fsnotify events channel closed unexpectedly")
			}
			if shouldIgnore(event.Name) {
				continue
			}

			// A new share directory needs its own watch so the
			// SHARE.md created inside it is seen.
			if event.Has(fsnotify.Create) {
				if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(fsw, event.Name); err != nil {
						w.logger.Warn("watching new directory", "path", event.Name, "error", err)
					}
				}
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// Harmless when the path was not a watched directory.
				_ = fsw.Remove(event.Name)
			}

			if slug := slugFor(sharesDir, event.Name); slug != "" {
				pending[slug] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("fsnotify errors channel closed unexpectedly")
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ticker.C:
			now := time.Now()
			for slug, at := range pending {
				if now.Sub(at) < w.debounce {
					continue
				}
				delete(pending, slug)
				w.emit(ctx, slug)
			}
		}
	}
}

// emit validates one share and delivers the outcome.
func (w *Watcher) emit(ctx context.Context, slug string) {
	ev := Event{
		Slug: slug,
		Path: paths.ShareFile(w.repo.Root(), slug),
	}

	shareDir := filepath.Join(w.repo.SharesDir(), slug)
	info, err := os.Stat(shareDir)
	switch {
	case os.IsNotExist(err):
		ev.Removed = true
	case err != nil:
		ev.Err = errors.Wrapf(err, "stat %s", shareDir)
	case !info.IsDir():
		// A stray file directly under shares/ is a structure problem,
		// not a share; the doctor reports it.
		return
	default:
		data, err := fileutil.ReadFileWithLimit(ev.Path)
		switch {
		case os.IsNotExist(err):
			ev.Err = errors.Wrapf(errors.ErrNotFound, "%s", ev.Path)
		case err != nil:
			ev.Err = errors.Wrapf(err, "reading %s", ev.Path)
		default:
			ev.Result, ev.Err = w.validator.Validate(data)
		}
	}

	select {
	case w.events <- ev:
	case <-ctx.Done():
	}
}

// slugFor maps an absolute event path to the share it belongs to. The
// empty string means the path is outside the shares tree or is the tree
// itself.
func slugFor(sharesDir, path string) string {
	rel, err := filepath.Rel(sharesDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	rel = filepath.ToSlash(rel)
	slug, _, _ := strings.Cut(rel, "/")
	return slug
}

// addRecursive walks dir and adds every non-hidden directory to the
// watcher.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && shouldIgnore(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

// shouldIgnore reports whether a path is editor or tooling noise.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)

	// Hidden files and directories.
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Temp files from editors.
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return true
	}

	return false
}
