package fcs

import (
	"errors"
	"fmt"
)

// Error classes. Every kind below matches exactly one class with errors.Is.
var (
	ErrIO         = errors.New("fcs: i/o error")
	ErrFormat     = errors.New("fcs: format error")
	ErrValidation = errors.New("fcs: validation error")
)

var (
	ErrUnsupportedVersion = &kindError{class: ErrFormat, msg: "unsupported FCS version"}
	ErrMalformedHeader    = &kindError{class: ErrFormat, msg: "malformed header"}
	ErrInvalidOffset      = &kindError{class: ErrFormat, msg: "invalid segment offset"}
	ErrTruncatedSegment   = &kindError{class: ErrFormat, msg: "truncated TEXT segment"}

	ErrMissingKeyword       = &kindError{class: ErrValidation, msg: "missing keyword"}
	ErrUnknownKeyword       = &kindError{class: ErrValidation, msg: "unknown keyword"}
	ErrUnsupportedMode      = &kindError{class: ErrValidation, msg: "unsupported data mode"}
	ErrUnsupportedDataType  = &kindError{class: ErrValidation, msg: "unsupported data type"}
	ErrUnsupportedByteOrder = &kindError{class: ErrValidation, msg: "unsupported byte order"}
	ErrEmptyData            = &kindError{class: ErrValidation, msg: "no event data"}
)

type kindError struct {
	class error
	msg   string
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.class
}

// KeywordError reports a keyword that is missing from, or not allowed in, the TEXT segment.
type KeywordError struct {
	Keyword string
	Err     error
}

func (e *KeywordError) Error() string {
	return fmt.Sprintf("%v %q", e.Err, e.Keyword)
}

func (e *KeywordError) Unwrap() error {
	return e.Err
}

func missingKeyword(kw string) error {
	return &KeywordError{Keyword: kw, Err: ErrMissingKeyword}
}

func unknownKeyword(kw string) error {
	return &KeywordError{Keyword: kw, Err: ErrUnknownKeyword}
}

// DecodeError records the source name and pipeline stage of a failed decode.
type DecodeError struct {
	Name  string
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("fcs: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("fcs: %s: %s: %v", e.Name, e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ioError tags a read or seek failure with ErrIO while keeping the cause reachable.
func ioError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

// Class returns ErrIO, ErrFormat or ErrValidation for errors produced by this package,
// and nil for anything else.
func Class(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrFormat):
		return ErrFormat
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, ErrIO):
		return ErrIO
	default:
		return nil
	}
}
