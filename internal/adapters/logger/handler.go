package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

var _ slog.Handler = (*Handler)(nil)

// Handler renders records as single styled lines: a level glyph for
// warnings and errors, the message, then key=value attrs. Attr keys
// are qualified with their group path.
type Handler struct {
	out    *termenv.Output
	min    slog.Level
	attrs  []slog.Attr
	groups []string
}

func newHandler(w io.Writer, min slog.Level) *Handler {
	return &Handler{out: output.Terminal(w, output.Detected()), min: min}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *Handler) Handle(_ context.Context, rec slog.Record) error {
	var parts []string
	switch {
	case rec.Level >= slog.LevelError:
		parts = append(parts, h.tint(style.Cross, style.Red))
	case rec.Level >= slog.LevelWarn:
		parts = append(parts, h.tint(style.Warning, style.Yellow))
	}
	parts = append(parts, rec.Message)

	for _, attr := range h.attrs {
		parts = h.appendAttr(parts, "", attr)
	}
	prefix := strings.Join(h.groups, ".")
	rec.Attrs(func(attr slog.Attr) bool {
		parts = h.appendAttr(parts, prefix, attr)
		return true
	})

	_, err := fmt.Fprintln(h.out, strings.Join(parts, " "))
	return err
}

// appendAttr flattens group attrs into dotted keys.
func (h *Handler) appendAttr(parts []string, prefix string, attr slog.Attr) []string {
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	val := attr.Value.Resolve()
	if val.Kind() == slog.KindGroup {
		for _, member := range val.Group() {
			parts = h.appendAttr(parts, key, member)
		}
		return parts
	}
	pair := fmt.Sprintf("%s=%v", key, val.Any())
	return append(parts, h.tint(pair, style.Slate))
}

func (h *Handler) tint(s string, color lipgloss.Color) string {
	return h.out.String(s).Foreground(termenv.RGBColor(color)).String()
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	prefix := strings.Join(h.groups, ".")
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, attr := range attrs {
		if prefix != "" {
			attr.Key = prefix + "." + attr.Key
		}
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(clone.groups[:len(clone.groups):len(clone.groups)], name)
	return &clone
}
