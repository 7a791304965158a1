package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "2006-01-02 15:04:05.000"

// passIDWidth is how much of a pass ID the console header shows.
const passIDWidth = 8

// consoleHandler writes one line per record:
//
//	2026-10-19 14:03:07.412 WARN  [diskstate load_queue#1f0c9a2e] file entry dropped file_id=7
//
// Component, operation and pass ID are lifted out of the attributes into the
// bracketed header. Everything else follows the message as key=value.
type consoleHandler struct {
	out       *lockedWriter
	level     slog.Leveler
	addSource bool
	header    consoleHeader
	attrs     []byte
	prefix    string
}

type consoleHeader struct {
	component string
	operation string
	passID    string
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	hdr := h.header
	var tail []byte
	r.Attrs(func(a slog.Attr) bool {
		tail = appendConsoleAttr(tail, &hdr, h.prefix, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf := make([]byte, 0, 96+len(h.attrs)+len(tail))
	buf = ts.Local().AppendFormat(buf, consoleTimeLayout)
	buf = append(buf, ' ')
	buf = append(buf, levelLabel(r.Level)...)
	buf = hdr.append(buf)
	buf = append(buf, ' ')
	if msg := strings.TrimSpace(r.Message); msg != "" {
		buf = append(buf, msg...)
	} else {
		buf = append(buf, "(no message)"...)
	}
	if h.addSource {
		if src := r.Source(); src != nil {
			buf = fmt.Appendf(buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	buf = append(buf, h.attrs...)
	buf = append(buf, tail...)
	buf = append(buf, '\n')

	_, err := h.out.Write(buf)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = appendConsoleAttr(clone.attrs, &clone.header, clone.prefix, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// lift takes the header keys out of the attribute stream. The first
// component wins so nested component loggers keep the outer name.
func (hd *consoleHeader) lift(a slog.Attr) bool {
	switch a.Key {
	case FieldComponent:
		if hd.component == "" {
			hd.component = a.Value.String()
		}
	case FieldOperation:
		hd.operation = a.Value.String()
	case FieldPassID:
		hd.passID = a.Value.String()
	default:
		return false
	}
	return true
}

func (hd *consoleHeader) append(buf []byte) []byte {
	var parts []string
	if hd.component != "" {
		parts = append(parts, hd.component)
	}
	if hd.operation != "" {
		op := hd.operation
		if hd.passID != "" {
			op += "#" + hd.passID[:min(passIDWidth, len(hd.passID))]
		}
		parts = append(parts, op)
	}
	if len(parts) == 0 {
		return buf
	}
	buf = append(buf, " ["...)
	buf = append(buf, strings.Join(parts, " ")...)
	return append(buf, ']')
}

func appendConsoleAttr(buf []byte, hdr *consoleHeader, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if prefix == "" && hdr.lift(a) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, member := range a.Value.Group() {
			buf = appendConsoleAttr(buf, hdr, prefix, member)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return appendConsoleValue(buf, a.Value)
}

func appendConsoleValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return appendText(buf, v.String())
	case slog.KindTime:
		return v.Time().Local().AppendFormat(buf, consoleTimeLayout)
	case slog.KindDuration:
		return append(buf, v.Duration().Round(time.Microsecond).String()...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return appendText(buf, err.Error())
		}
		return appendText(buf, fmt.Sprint(v.Any()))
	default:
		return append(buf, v.String()...)
	}
}

// appendText quotes s when it would not read back as a single token.
func appendText(buf []byte, s string) []byte {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}
