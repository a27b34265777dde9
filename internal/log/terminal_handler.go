package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	dim   = color.New(color.Faint)
	bold  = color.New(color.Bold)
	debug = color.New(color.FgCyan)
	info  = color.New(color.FgGreen)
	warn  = color.New(color.FgYellow)
	fail  = color.New(color.FgRed)
)

// TerminalHandler writes one human-readable line per record:
//
//	15:04:05.000 INF reports written dir=reports/2024-01-01~2024-01-31 authors=3
//
// Colours follow color.NoColor, so they disappear when stderr is not a terminal.
type TerminalHandler struct {
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
}

func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions) *TerminalHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &TerminalHandler{writer: w, level: level, mu: &sync.Mutex{}}
}

// Enabled implements slog.Handler.
func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	buf.Grow(256)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(dim.Sprint(ts.Format("15:04:05.000")))
	buf.WriteByte(' ')

	style, label := levelStyle(r.Level)
	buf.WriteString(style.Sprint(label))
	buf.WriteByte(' ')
	buf.WriteString(bold.Sprint(r.Message))

	for _, a := range h.attrs {
		appendAttr(&buf, a, nil)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, a, h.groups)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

// WithAttrs implements slog.Handler.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	for _, a := range attrs {
		merged = append(merged, qualify(a, h.groups)...)
	}
	return &TerminalHandler{writer: h.writer, level: h.level, attrs: merged, groups: h.groups, mu: h.mu}
}

// WithGroup implements slog.Handler.
func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, len(h.groups), len(h.groups)+1)
	copy(groups, h.groups)
	groups = append(groups, name)
	return &TerminalHandler{writer: h.writer, level: h.level, attrs: h.attrs, groups: groups, mu: h.mu}
}

// qualify resolves a and prefixes its key with the groups open when it was
// attached. Groups opened later must not apply to it.
func qualify(a slog.Attr, groups []string) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return nil
	}
	if a.Value.Kind() == slog.KindGroup && a.Key == "" {
		var out []slog.Attr
		for _, ga := range a.Value.Group() {
			out = append(out, qualify(ga, groups)...)
		}
		return out
	}
	if len(groups) > 0 {
		a.Key = strings.Join(groups, ".") + "." + a.Key
	}
	return []slog.Attr{a}
}

func levelStyle(level slog.Level) (*color.Color, string) {
	switch {
	case level < slog.LevelInfo:
		return debug, "DBG"
	case level < slog.LevelWarn:
		return info, "INF"
	case level < slog.LevelError:
		return warn, "WRN"
	default:
		return fail, "ERR"
	}
}

func appendAttr(buf *bytes.Buffer, a slog.Attr, groups []string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		prefix := groups
		if a.Key != "" {
			prefix = append(append([]string{}, groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			appendAttr(buf, ga, prefix)
		}
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	buf.WriteByte(' ')
	buf.WriteString(dim.Sprint(key + "="))
	buf.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	s := v.String()
	if (v.Kind() == slog.KindString && s == "") || strings.ContainsAny(s, " \t\n\"\\=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
