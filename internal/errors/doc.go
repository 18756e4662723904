// Package errors is the single error import for the shareful codebase.
//
// It re-exports the cockroachdb/errors constructors (New, Newf, Wrap,
// Wrapf, Is, As) so every error carries a stack trace and wraps
// compatibly with the standard library, and adds the CLI-side pieces:
// sentinel errors for conditions callers branch on, and [ExitError] for
// mapping failures to process exit codes.
//
// Commands classify failures when they occur rather than at the top:
//
//	if errors.Is(err, errors.ErrNotFound) {
//		return errors.NewUserError(err, "Run: shareful list")
//	}
//	return errors.NewSystemError(err, "")
//
// The root command unwraps the outermost *ExitError with As, prints the
// suggestion if any, and exits with its Code: 0 success, 1 user error
// (including validation violations), 2 system error.
package errors
