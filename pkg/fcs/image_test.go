package fcs

import (
	"testing"

	"github.com/samcharles93/flowfairy/internal/fcstest"
)

type (
	kv    = fcstest.Pair
	image = fcstest.Image
)

var (
	listModeKeywords = fcstest.ListMode
	setKeyword       = fcstest.Set
	dropKeyword      = fcstest.Drop
	parameterMajor   = fcstest.ParameterMajor
)

func encodeValues(t *testing.T, dataType, byteOrder string, vals []float64) []byte {
	t.Helper()
	b, err := fcstest.Encode(dataType, byteOrder, vals)
	if err != nil {
		t.Fatalf("encode values: %v", err)
	}
	return b
}
