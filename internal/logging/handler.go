package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/shareful-ai/shareful/internal/redact"
)

var (
	timeColor  = color.New(color.FgHiBlack)
	traceColor = color.New(color.FgHiBlack)
	debugColor = color.New(color.FgMagenta)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	keyColor   = color.New(color.FgCyan)
)

// Handler renders slog records as single-line text for terminals:
// kitchen-clock timestamp, padded level, message, then key=value pairs.
// Output is colorized when the writer supports it and secret-looking
// attribute values are masked before they reach the screen.
type Handler struct {
	min   slog.Leveler
	out   io.Writer
	mu    *sync.Mutex
	color bool

	attrs []slog.Attr
	// prefix is the accumulated group path, "a.b." form, applied to
	// attribute keys. slog's text handler nests groups; a flat dotted
	// key reads better on one line.
	prefix string
}

// NewHandler creates a text handler writing to out. A nil opts enables
// records at Info and above.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{
		out:   out,
		mu:    &sync.Mutex{},
		color: SupportsColor(out),
	}
	if opts != nil {
		h.min = opts.Level
	}
	return h
}

// Enabled reports whether records at the given level would be written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.min != nil {
		min = h.min.Level()
	}
	return level >= min
}

// Handle formats one record and writes it in a single call, so lines
// from concurrent loggers sharing this handler never interleave.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		buf.WriteString(h.paint(timeColor, r.Time.Format(time.Kitchen)))
		buf.WriteByte(' ')
	}

	level := r.Level.String()
	pad := 5 - len(level)
	buf.WriteString(h.paint(h.levelColor(r.Level), level))
	for range pad {
		buf.WriteByte(' ')
	}
	buf.WriteByte(' ')

	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&buf, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.prefix + a.Key
		h.writeAttr(&buf, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return errorColor
	case l >= slog.LevelWarn:
		return warnColor
	case l >= slog.LevelInfo:
		return infoColor
	case l >= slog.LevelDebug:
		return debugColor
	default:
		return traceColor
	}
}

func (h *Handler) paint(c *color.Color, s string) string {
	if !h.color {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, member := range a.Value.Group() {
			if a.Key != "" {
				member.Key = a.Key + "." + member.Key
			}
			h.writeAttr(buf, member)
		}
		return
	}

	value := fmt.Sprint(a.Value.Any())
	switch {
	case redact.ShouldMask(a.Key):
		value = redact.MaskValue(value)
	case redact.ContainsTokenPrefix(value):
		value = redact.MaskValue(value)
	}

	buf.WriteByte(' ')
	buf.WriteString(h.paint(keyColor, a.Key))
	buf.WriteByte('=')
	buf.WriteString(value)
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup returns a handler that qualifies subsequent attribute keys
// with the group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
