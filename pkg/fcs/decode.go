package fcs

import (
	"context"
	"io"
)

// Decode stages, as reported in DecodeError.Stage.
const (
	StageHeader     = "header"
	StageText       = "text"
	StageKeywords   = "keywords"
	StageData       = "data"
	StageParameters = "parameters"
)

// Logger receives per-stage diagnostics. internal/logger.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

type options struct {
	log     Logger
	lenient bool
}

// Option configures Decode.
type Option func(*options)

// WithLogger sends stage diagnostics to l.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithLenientKeywords logs keywords outside the known vocabulary instead of
// rejecting the data set. Required keywords are still enforced.
func WithLenientKeywords() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// Decode reads one data set from src. name identifies the source in errors
// and logs. src is read from offset 0 and left at an unspecified position.
//
// Errors are *DecodeError values wrapping one of the Err* kinds; no partial
// result is returned.
func Decode(src io.ReadSeeker, name string, opts ...Option) (*FlowData, error) {
	return DecodeContext(context.Background(), src, name, opts...)
}

// DecodeContext is Decode with a context that is checked between stages.
// Abandoning a read in progress requires closing src.
func DecodeContext(ctx context.Context, src io.ReadSeeker, name string, opts ...Option) (*FlowData, error) {
	o := options{log: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	d := decoder{ctx: ctx, src: src, name: name, opts: o}
	return d.decode()
}

type decoder struct {
	ctx  context.Context
	src  io.ReadSeeker
	name string
	opts options
}

func (d *decoder) fail(stage string, err error) error {
	return &DecodeError{Name: d.name, Stage: stage, Err: err}
}

func (d *decoder) decode() (*FlowData, error) {
	log := d.opts.log

	if _, err := d.src.Seek(0, io.SeekStart); err != nil {
		return nil, d.fail(StageHeader, ioError("seek start", err))
	}
	h, err := ReadHeader(d.src)
	if err != nil {
		return nil, d.fail(StageHeader, err)
	}
	log.Debug("fcs header",
		"name", d.name,
		"version", h.Version,
		"text_start", h.TextStart,
		"text_end", h.TextEnd,
		"data_start", h.DataStart,
		"data_end", h.DataEnd,
	)
	if err := d.ctx.Err(); err != nil {
		return nil, d.fail(StageText, err)
	}

	md, err := ReadMetadata(d.src, h)
	if err != nil {
		return nil, d.fail(StageText, err)
	}
	log.Debug("fcs text", "name", d.name, "keywords", len(md.Keywords), "delimiter", md.Delimiter)

	var unknown func(string)
	if d.opts.lenient {
		unknown = func(kw string) {
			log.Warn("fcs unknown keyword", "name", d.name, "keyword", kw)
		}
	}
	if err := validateKeywords(&md, unknown); err != nil {
		return nil, d.fail(StageKeywords, err)
	}
	if err := d.ctx.Err(); err != nil {
		return nil, d.fail(StageData, err)
	}

	layout, err := layoutFor(&md)
	if err != nil {
		return nil, d.fail(StageData, err)
	}
	if layout.begin != h.DataStart {
		log.Debug("fcs data offset differs from header", "name", d.name,
			"begindata", layout.begin, "header_data_start", h.DataStart)
	}
	flat, err := readData(d.src, layout)
	if err != nil {
		return nil, d.fail(StageData, err)
	}
	log.Debug("fcs data", "name", d.name, "parameters", layout.params, "events", layout.events)

	params, err := assembleParameters(flat, &md, layout)
	if err != nil {
		return nil, d.fail(StageParameters, err)
	}

	return &FlowData{
		Metadata:   md,
		Parameters: params,
	}, nil
}
