package summary

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Value is a float64 that encodes NaN and ±Inf as JSON null.
type Value float64

func (v Value) MarshalJSON() ([]byte, error) {
	return appendValue(nil, float64(v)), nil
}

// Values is a list of events that encodes non-finite entries as null.
type Values []float64

func (vs Values) MarshalJSON() ([]byte, error) {
	if vs == nil {
		return []byte("null"), nil
	}
	b := make([]byte, 0, 2+len(vs)*8)
	b = append(b, '[')
	for i, v := range vs {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendValue(b, v)
	}
	return append(b, ']'), nil
}

func (s Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count  int   `json:"count"`
		NaN    int   `json:"nan,omitempty"`
		Min    Value `json:"min"`
		Max    Value `json:"max"`
		Mean   Value `json:"mean"`
		StdDev Value `json:"stddev"`
	}{s.Count, s.NaN, Value(s.Min), Value(s.Max), Value(s.Mean), Value(s.StdDev)})
}

func appendValue(b []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(b, "null"...)
	}
	return strconv.AppendFloat(b, f, 'g', -1, 64)
}
