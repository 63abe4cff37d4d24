package fcs

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

const (
	versionLen   = 6
	spacerLen    = 4
	offsetLen    = 8
	offsetFields = 6
)

// ReadHeader parses the HEADER preamble from r, which must be positioned at
// the start of the data set.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:versionLen]); err != nil {
		return Header{}, ioError("read version", err)
	}
	tag := buf[:versionLen]
	if !isASCII(tag) || !supportedVersion(string(tag)) {
		return Header{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, tag)
	}

	if _, err := io.ReadFull(r, buf[versionLen:versionLen+spacerLen]); err != nil {
		return Header{}, ioError("read header spacer", err)
	}
	if spacer := buf[versionLen : versionLen+spacerLen]; !bytes.Equal(spacer, []byte("    ")) {
		return Header{}, fmt.Errorf("%w: expected four spaces after version, got %q", ErrMalformedHeader, spacer)
	}

	var offsets [offsetFields]uint64
	for i := range offsets {
		start := versionLen + spacerLen + i*offsetLen
		field := buf[start : start+offsetLen]
		if _, err := io.ReadFull(r, field); err != nil {
			return Header{}, ioError(fmt.Sprintf("read offset field %d", i), err)
		}
		v, err := parseOffset(field)
		if err != nil {
			return Header{}, fmt.Errorf("%w: field %d (%s): %q", ErrInvalidOffset, i, offsetNames[i], field)
		}
		offsets[i] = v
	}

	h := Header{
		Version:       string(tag),
		TextStart:     offsets[0],
		TextEnd:       offsets[1],
		DataStart:     offsets[2],
		DataEnd:       offsets[3],
		AnalysisStart: offsets[4],
		AnalysisEnd:   offsets[5],
	}
	if h.TextEnd < h.TextStart {
		return Header{}, fmt.Errorf("%w: TEXT end %d before start %d", ErrMalformedHeader, h.TextEnd, h.TextStart)
	}
	return h, nil
}

var offsetNames = [offsetFields]string{
	"text start", "text end", "data start", "data end", "analysis start", "analysis end",
}

func parseOffset(field []byte) (uint64, error) {
	s := string(bytes.TrimSpace(field))
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseUint(s, 10, 64)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 0x7f {
			return false
		}
	}
	return true
}
