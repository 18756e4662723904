package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Process exit codes. Validation violations in content are user errors,
// not system ones.
const (
	ExitSuccess = 0
	ExitUser    = 1
	ExitSystem  = 2
)

// Sentinels matched with Is across package boundaries.
var (
	// ErrMissingTitle reports share creation without a title.
	ErrMissingTitle = crdb.New("title is required")

	// ErrNotFound reports a slug with no share behind it.
	ErrNotFound = crdb.New("share not found")

	// ErrNotInRepo reports a working directory outside any share
	// repository.
	ErrNotInRepo = crdb.New("not inside a share repository")

	// ErrShareExists reports a create colliding with an existing slug.
	ErrShareExists = crdb.New("share already exists")
)

// The constructors below re-export cockroachdb/errors so the rest of
// the codebase imports one errors package. crdb carries stack traces
// and wraps compatibly with the stdlib Is/As.

// New returns an error with the supplied message.
func New(msg string) error { return crdb.New(msg) }

// Newf returns an error from a format string.
func Newf(format string, args ...any) error { return crdb.Newf(format, args...) }

// Wrap annotates err with msg, returning nil for a nil err.
func Wrap(err error, msg string) error { return crdb.Wrap(err, msg) }

// Wrapf annotates err with a formatted message, returning nil for a nil err.
func Wrapf(err error, format string, args ...any) error {
	return crdb.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches reference.
func Is(err, reference error) bool { return crdb.Is(err, reference) }

// As finds the first error in err's chain matching target.
func As(err error, target any) bool { return crdb.As(err, target) }

// ExitError pairs an error with the process exit code it should produce
// and an optional next step to print for the user.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

// NewExitError wraps err with an exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError marks err as the user's to fix, with a suggested next step.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError marks err as environmental, with a suggested next step.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// NewConfigError marks err as a configuration problem and points the
// user at doctor.
func NewConfigError(err error) *ExitError {
	return NewUserError(err, "Run: shareful doctor")
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap exposes the underlying error to Is and As.
func (e *ExitError) Unwrap() error { return e.Err }
