package fcs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// errEndOfText marks trailing padding after the last keyword/value pair.
var errEndOfText = errors.New("end of TEXT segment")

// ReadMetadata reads the TEXT segment located by h and returns its keywords.
// The keywords are not validated.
func ReadMetadata(src io.ReadSeeker, h Header) (Metadata, error) {
	if _, err := src.Seek(int64(h.TextStart), io.SeekStart); err != nil {
		return Metadata{}, ioError("seek TEXT segment", err)
	}

	size := h.TextEnd - h.TextStart + 1
	var seg bytes.Buffer
	n, err := seg.ReadFrom(io.LimitReader(src, int64(size)))
	if err != nil {
		return Metadata{}, ioError("read TEXT segment", err)
	}
	if n == 0 {
		return Metadata{}, ioError("read delimiter", io.ErrUnexpectedEOF)
	}
	if uint64(n) < size && !endsOneShort(seg.Bytes(), size) {
		return Metadata{}, fmt.Errorf("%w: read %d of %d bytes", ErrTruncatedSegment, n, size)
	}

	md := Metadata{Version: h.Version}
	if err := parseText(seg.Bytes(), h.TextStart, &md); err != nil {
		return Metadata{}, err
	}
	return md, nil
}

// endsOneShort reports whether seg stops one byte before TextEnd on a closing
// delimiter, as written by tools that treat TextEnd as exclusive.
func endsOneShort(seg []byte, size uint64) bool {
	n := uint64(len(seg))
	return n > 1 && n+1 == size && seg[n-1] == seg[0]
}

// parseText fills md's delimiter and keywords from a TEXT segment that starts
// at byte offset base in the source.
func parseText(seg []byte, base uint64, md *Metadata) error {
	if len(seg) == 0 {
		return ioError("read delimiter", io.ErrUnexpectedEOF)
	}
	sc := newTextScanner(seg)
	md.Delimiter = sc.delim
	md.Values = make(map[string]string)
	for sc.more() {
		kw, val, err := sc.next()
		if errors.Is(err, errEndOfText) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w at offset %d", err, base+uint64(sc.pos))
		}
		if kw == "" {
			continue
		}
		md.Keywords = append(md.Keywords, kw)
		md.Values[kw] = val
	}
	return nil
}

type scanState int

const (
	// stateAccumulating: the value so far ended on an escaped delimiter and continues.
	stateAccumulating scanState = iota
	// stateTerminated: the last chunk ended on a real delimiter.
	stateTerminated
)

// textScanner splits a TEXT segment into keyword/value pairs. seg[0] is the
// delimiter; a doubled delimiter inside a value stands for one literal
// delimiter byte.
type textScanner struct {
	seg   []byte
	pos   int
	delim byte
}

func newTextScanner(seg []byte) *textScanner {
	return &textScanner{seg: seg, pos: 1, delim: seg[0]}
}

// more reports whether unread pairs may remain. The final byte of the
// segment is the closing delimiter, so reading stops one short of it.
func (s *textScanner) more() bool {
	return s.pos < len(s.seg)-1
}

// next returns the cleaned keyword and value of the next pair.
func (s *textScanner) next() (string, string, error) {
	kw, ok := s.chunk()
	if !ok {
		if isPadding(kw) {
			return "", "", errEndOfText
		}
		return "", "", fmt.Errorf("%w: unterminated keyword", ErrTruncatedSegment)
	}
	val, err := s.value()
	if err != nil {
		return "", "", err
	}
	return cleanText(kw), cleanText(val), nil
}

// chunk returns the bytes before the next delimiter and moves past it. When
// the segment ends first it returns the remainder and false.
func (s *textScanner) chunk() ([]byte, bool) {
	rest := s.seg[s.pos:]
	i := bytes.IndexByte(rest, s.delim)
	if i < 0 {
		s.pos = len(s.seg)
		return rest, false
	}
	s.pos += i + 1
	return rest[:i], true
}

func (s *textScanner) value() ([]byte, error) {
	var val []byte
	state := stateAccumulating
	for state == stateAccumulating {
		part, ok := s.chunk()
		if !ok {
			return nil, fmt.Errorf("%w: unterminated value", ErrTruncatedSegment)
		}
		val = append(val, part...)
		state = s.transition()
		if state == stateAccumulating {
			val = append(val, s.delim)
		}
	}
	return val, nil
}

// transition inspects the byte after a chunk. A second delimiter is consumed
// as an escape and keeps the value open.
func (s *textScanner) transition() scanState {
	if s.pos < len(s.seg) && s.seg[s.pos] == s.delim {
		s.pos++
		return stateAccumulating
	}
	return stateTerminated
}

func cleanText(b []byte) string {
	if !utf8.Valid(b) {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func isPadding(b []byte) bool {
	for _, c := range b {
		if c != 0 && c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return false
		}
	}
	return true
}
