package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format selects how log records are rendered.
type Format string

const (
	// FormatText renders one human-readable line per record.
	FormatText Format = "text"
	// FormatJSON renders one JSON object per record.
	FormatJSON Format = "json"
)

// LevelTrace sits below slog.LevelDebug for very chatty output such as
// per-file scan records. Reached with -vvv.
const LevelTrace = slog.LevelDebug - 4

// Config describes a logger to construct.
type Config struct {
	// Level is the minimum level written.
	Level slog.Level
	// Format selects text or JSON rendering. Unrecognized values fall
	// back to text.
	Format Format
	// Output receives the records. Nil means os.Stderr.
	Output io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(NewHandler(out, opts))
}

// Default returns the logger used when a command has no configured one:
// Info-level text to stderr.
func Default() *slog.Logger {
	return New(Config{Level: slog.LevelInfo, Format: FormatText})
}

// NewDiscard returns a logger that drops everything, for --quiet and
// for library consumers that pass no logger.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromVerbosity maps a -v flag count to a level: warnings only by
// default, then info, debug, and trace as -v repeats.
func LevelFromVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	}
	return LevelTrace
}

// ForTest returns a Debug-level logger routed through t.Log, so records
// surface only on failure or under go test -v.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{
		Level:  slog.LevelDebug,
		Format: FormatText,
		Output: testWriter{t},
	})
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	// t.Log appends its own newline.
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
