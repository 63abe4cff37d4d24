package fcstest

import (
	"bytes"
	"testing"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dataType  string
		byteOrder string
		want      []byte
	}{
		{"I", "1,2,3,4", []byte{1, 0, 0, 0}},
		{"I", "4,3,2,1", []byte{0, 0, 0, 1}},
		{"F", "1,2,3,4", []byte{0, 0, 0x80, 0x3f}},
		{"F", "4,3,2,1", []byte{0x3f, 0x80, 0, 0}},
		{"D", "8,7,6,5,4,3,2,1", []byte{0x3f, 0xf0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		got, err := Encode(tt.dataType, tt.byteOrder, []float64{1})
		if err != nil {
			t.Fatalf("%s %s: %v", tt.dataType, tt.byteOrder, err)
		}
		if !bytes.Equal(got, tt.want) {
			t.Fatalf("%s %s: got % x want % x", tt.dataType, tt.byteOrder, got, tt.want)
		}
	}

	if _, err := Encode("F", "2,1", []float64{1}); err == nil {
		t.Fatalf("expected error for unknown byte order")
	}
	if _, err := Encode("A", "1,2,3,4", []float64{1}); err == nil {
		t.Fatalf("expected error for unknown data type")
	}
}
