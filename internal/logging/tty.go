package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fder is satisfied by *os.File and by wrappers that expose the
// underlying descriptor.
type fder interface{ Fd() uintptr }

// IsTTY reports whether w is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI color output is appropriate for w:
// the writer must be a terminal, NO_COLOR must be unset
// (https://no-color.org), and TERM must not be "dumb".
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(_ io.Writer, isTTY bool) bool {
	if !isTTY {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
