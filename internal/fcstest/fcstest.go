// Package fcstest builds synthetic FCS data sets for tests.
//
// It only covers what the decoder reads: a HEADER, one TEXT segment and a
// list-mode DATA segment. It does not import pkg/fcs so that package's own
// tests can use it.
package fcstest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Pair is one TEXT keyword and its unescaped value.
type Pair struct {
	Key   string
	Value string
}

// Image is an in-memory FCS data set. $BEGINDATA and $ENDDATA values are
// replaced with zero-padded offsets so the TEXT length does not depend on
// them.
type Image struct {
	Version        string
	Delim          byte
	Keywords       []Pair
	Data           []byte
	TextStart      int
	ZeroHeaderData bool
}

// Bytes lays out the HEADER, TEXT and DATA segments.
func (im Image) Bytes() []byte {
	version := im.Version
	if version == "" {
		version = "FCS3.1"
	}
	textStart := im.TextStart
	if textStart == 0 {
		textStart = 64
	}

	textLen := len(im.text(0, 0))
	textEnd := textStart + textLen - 1
	dataStart := textEnd + 1
	dataEnd := dataStart + max(len(im.Data)-1, 0)
	text := im.text(dataStart, dataEnd)

	hdrData, hdrDataEnd := dataStart, dataEnd
	if im.ZeroHeaderData {
		hdrData, hdrDataEnd = 0, 0
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%-6s    %8d%8d%8d%8d%8d%8d", version, textStart, textEnd, hdrData, hdrDataEnd, 0, 0)
	for buf.Len() < textStart {
		buf.WriteByte(' ')
	}
	buf.Write(text)
	buf.Write(im.Data)
	return buf.Bytes()
}

func (im Image) text(dataStart, dataEnd int) []byte {
	d := im.Delim
	if d == 0 {
		d = '/'
	}
	ds := string(d)
	var b bytes.Buffer
	b.WriteByte(d)
	for _, p := range im.Keywords {
		v := p.Value
		switch p.Key {
		case "$BEGINDATA":
			v = fmt.Sprintf("%010d", dataStart)
		case "$ENDDATA":
			v = fmt.Sprintf("%010d", dataEnd)
		}
		b.WriteString(p.Key)
		b.WriteByte(d)
		b.WriteString(strings.ReplaceAll(v, ds, ds+ds))
		b.WriteByte(d)
	}
	return b.Bytes()
}

// ListMode returns the required keywords, five attribute keywords per
// parameter ($PnN $PnB $PnE $PnR $PnS) and a few acquisition keywords.
func ListMode(dataType, byteOrder string, names []string, events int) []Pair {
	bits := "32"
	if dataType == "D" {
		bits = "64"
	}
	kws := []Pair{
		{"$BEGINANALYSIS", "0"},
		{"$ENDANALYSIS", "0"},
		{"$BEGINSTEXT", "0"},
		{"$ENDSTEXT", "0"},
		{"$BEGINDATA", ""},
		{"$ENDDATA", ""},
		{"$MODE", "L"},
		{"$DATATYPE", dataType},
		{"$BYTEORD", byteOrder},
		{"$PAR", strconv.Itoa(len(names))},
		{"$NEXTDATA", "0"},
		{"$TOT", strconv.Itoa(events)},
	}
	for i, name := range names {
		n := strconv.Itoa(i + 1)
		kws = append(kws,
			Pair{"$P" + n + "N", name},
			Pair{"$P" + n + "B", bits},
			Pair{"$P" + n + "E", "0,0"},
			Pair{"$P" + n + "R", "262144"},
			Pair{"$P" + n + "S", name + " stain"},
		)
	}
	return append(kws,
		Pair{"$BTIM", "10:15:00"},
		Pair{"$ETIM", "10:16:30"},
		Pair{"$CYT", "FACSCanto II"},
		Pair{"$DATE", "19-OCT-2026"},
	)
}

// Set returns a copy of kws with key set to value, appending it when absent.
func Set(kws []Pair, key, value string) []Pair {
	out := make([]Pair, len(kws))
	copy(out, kws)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Pair{key, value})
}

// Drop returns a copy of kws without key.
func Drop(kws []Pair, key string) []Pair {
	out := make([]Pair, 0, len(kws))
	for _, p := range kws {
		if p.Key != key {
			out = append(out, p)
		}
	}
	return out
}

// Encode writes vals as dataType ("I", "F" or "D") in the given $BYTEORD.
func Encode(dataType, byteOrder string, vals []float64) ([]byte, error) {
	var order binary.AppendByteOrder
	switch byteOrder {
	case "1,2,3,4", "1,2,3,4,5,6,7,8":
		order = binary.LittleEndian
	case "4,3,2,1", "8,7,6,5,4,3,2,1":
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("fcstest: unsupported byte order %q", byteOrder)
	}

	out := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		switch dataType {
		case "I":
			out = order.AppendUint32(out, uint32(int32(v)))
		case "F":
			out = order.AppendUint32(out, math.Float32bits(float32(v)))
		case "D":
			out = order.AppendUint64(out, math.Float64bits(v))
		default:
			return nil, fmt.Errorf("fcstest: unsupported data type %q", dataType)
		}
	}
	return out, nil
}

// ParameterMajor concatenates per-parameter columns in DATA order.
func ParameterMajor(cols [][]float64) []float64 {
	var out []float64
	for _, c := range cols {
		out = append(out, c...)
	}
	return out
}

// Float builds a float32 little-endian list-mode image from columns.
func Float(tb testing.TB, names []string, cols [][]float64) Image {
	tb.Helper()
	if len(names) != len(cols) {
		tb.Fatalf("fcstest: %d names for %d columns", len(names), len(cols))
	}
	events := 0
	if len(cols) > 0 {
		events = len(cols[0])
	}
	data, err := Encode("F", "1,2,3,4", ParameterMajor(cols))
	if err != nil {
		tb.Fatalf("fcstest: %v", err)
	}
	return Image{Keywords: ListMode("F", "1,2,3,4", names, events), Data: data}
}

// WriteFile writes b to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name string, b []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		tb.Fatalf("fcstest: write %s: %v", path, err)
	}
	return path
}
