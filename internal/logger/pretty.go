package logger

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

const (
	ansiReset = "\033[0m"
	ansiDim   = "\033[2m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiAmber = "\033[33m"
	ansiCyan  = "\033[36m"
)

// PrettyOptions configures PrettyHandler.
type PrettyOptions struct {
	Level slog.Leveler
	// NoColor drops ANSI escapes, for output that is not a terminal.
	NoColor bool
}

// PrettyHandler writes one line per record for terminals:
//
//	15:04:05.000 INF message key=value group.key="two words"
type PrettyHandler struct {
	w       io.Writer
	mu      *sync.Mutex
	level   slog.Leveler
	noColor bool
	prefix  string // group path for attributes added later, with trailing dot
	pre     []byte // attributes from WithAttrs, already rendered
}

func NewPrettyHandler(w io.Writer, opts *PrettyOptions) *PrettyHandler {
	h := &PrettyHandler{w: w, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.noColor = opts.NoColor
	}
	return h
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 128+len(h.pre))
	if !r.Time.IsZero() {
		buf = h.paint(buf, ansiDim, r.Time.AppendFormat(nil, "15:04:05.000"))
		buf = append(buf, ' ')
	}
	code, tag := levelTag(r.Level)
	buf = h.paint(buf, code, []byte(tag))
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.pre...)
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.prefix, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := h.clone()
	for _, a := range attrs {
		c.pre = h.appendAttr(c.pre, h.prefix, a)
	}
	return c
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.prefix = h.prefix + name + "."
	return c
}

func (h *PrettyHandler) clone() *PrettyHandler {
	c := *h
	c.pre = append([]byte(nil), h.pre...)
	return &c
}

func (h *PrettyHandler) paint(buf []byte, code string, b []byte) []byte {
	if h.noColor {
		return append(buf, b...)
	}
	buf = append(buf, code...)
	buf = append(buf, b...)
	return append(buf, ansiReset...)
}

// appendAttr renders " key=value". Group attributes flatten into dotted keys
// and empty attributes are dropped, as slog handlers are expected to do.
func (h *PrettyHandler) appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return buf
		}
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range attrs {
			buf = h.appendAttr(buf, prefix, ga)
		}
		return buf
	}

	buf = append(buf, ' ')
	buf = h.paint(buf, ansiCyan, []byte(prefix+a.Key+"="))
	if a.Value.Kind() == slog.KindTime {
		return a.Value.Time().AppendFormat(buf, time.RFC3339)
	}
	return appendString(buf, a.Value.String())
}

func appendString(buf []byte, s string) []byte {
	if needsQuoting(s) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func levelTag(l slog.Level) (string, string) {
	switch {
	case l >= slog.LevelError:
		return ansiRed, "ERR"
	case l >= slog.LevelWarn:
		return ansiAmber, "WRN"
	case l >= slog.LevelInfo:
		return ansiGreen, "INF"
	default:
		return ansiDim, "DBG"
	}
}

// needsQuoting reports whether s would break the key=value layout. FCS
// keyword values often carry spaces and control-character delimiters.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for _, c := range s {
		if c <= ' ' || c == '"' || c == '=' || c == 0x7f {
			return true
		}
	}
	return false
}
