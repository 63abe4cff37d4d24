// Package logger wraps log/slog behind the small interface the rest of
// flowfairy logs through.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is satisfied by the values this package returns. It is a superset
// of fcs.Logger, so decoder diagnostics share the CLI and server handler.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

// Format selects the record layout.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatPlain  Format = "plain"
	FormatJSON   Format = "json"
	FormatText   Format = "text"
)

// ParseFormat accepts the Format names case-insensitively. Empty means pretty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPretty, nil
	case FormatPretty, FormatPlain, FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want pretty, plain, json or text)", s)
	}
}

type Options struct {
	Level  slog.Level
	Format Format
	// AddSource records the caller in json and text output.
	AddSource bool
}

// New returns a Logger writing records to w.
func New(w io.Writer, opts Options) Logger {
	hopts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}
	var h slog.Handler
	switch opts.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, hopts)
	case FormatText:
		h = slog.NewTextHandler(w, hopts)
	case FormatPlain:
		h = NewPrettyHandler(w, &PrettyOptions{Level: opts.Level, NoColor: true})
	default:
		h = NewPrettyHandler(w, &PrettyOptions{Level: opts.Level})
	}
	return FromSlog(slog.New(h))
}

// FromSlog adapts an existing slog.Logger.
func FromSlog(l *slog.Logger) Logger {
	return slogLogger{l: l}
}

// Nop returns a Logger that drops everything.
func Nop() Logger {
	return FromSlog(slog.New(slog.DiscardHandler))
}

// FromContext returns the Logger stored by WithContext, or an info-level
// text logger on stderr.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return New(os.Stderr, Options{Level: slog.LevelInfo, Format: FormatText})
}

func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

type ctxKey struct{}

// ParseLevel accepts slog level names (debug, info, warn, error, with an
// optional +N/-N offset) and "warning".
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s slogLogger) With(args ...any) Logger {
	return slogLogger{l: s.l.With(args...)}
}

func (s slogLogger) WithGroup(name string) Logger {
	return slogLogger{l: s.l.WithGroup(name)}
}
