// Package lock provides advisory file locking for commands that mutate a
// share repository.
package lock

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/shareful-ai/shareful/internal/errors"
)

// ErrAlreadyLocked is returned when another shareful process holds the
// repository lock.
var ErrAlreadyLocked = errors.New("another shareful command is already running in this repository")

// Flocker abstracts the subset of flock.Flock used for advisory locking.
type Flocker interface {
	TryLock() (bool, error)
	Unlock() error
}

// Lock wraps a Flocker to provide fail-fast advisory locking.
type Lock struct {
	flocker Flocker
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f}
}

// NewFromPath creates a Lock backed by a file at the given path. The
// parent directory is created when absent so a bare clone without a
// .shareful directory can still be locked.
func NewFromPath(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating lock directory")
	}
	return New(flock.New(path)), nil
}

// TryLock attempts a non-blocking lock acquisition. It returns
// ErrAlreadyLocked if the lock is held by another process, or wraps any
// underlying error from the Flocker.
func (l *Lock) TryLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := l.flocker.TryLock()
	if err != nil {
		return errors.Wrap(err, "acquiring repository lock")
	}
	if !ok {
		return ErrAlreadyLocked
	}
	return nil
}

// Unlock releases the advisory lock.
func (l *Lock) Unlock() error {
	return errors.Wrap(l.flocker.Unlock(), "releasing repository lock")
}
