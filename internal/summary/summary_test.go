package summary

import (
	"math"
	"reflect"
	"testing"

	"github.com/goccy/go-json"

	"github.com/samcharles93/flowfairy/pkg/fcs"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		events []float64
		want   Stats
	}{
		{"empty", nil, Stats{}},
		{"single", []float64{-3}, Stats{Count: 1, Min: -3, Max: -3, Mean: -3}},
		{"population stddev", []float64{2, 4, 4, 4, 5, 5, 7, 9}, Stats{Count: 8, Min: 2, Max: 9, Mean: 5, StdDev: 2}},
		{"nan skipped", []float64{math.NaN(), 1, 3}, Stats{Count: 2, NaN: 1, Min: 1, Max: 3, Mean: 2, StdDev: 1}},
		{"all nan", []float64{math.NaN()}, Stats{NaN: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Compute(tt.events)
			if got != tt.want {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestParameters(t *testing.T) {
	t.Parallel()

	fd := &fcs.FlowData{Parameters: []fcs.Parameter{
		{ID: "FSC-A", Events: []float64{1, 3}},
		{ID: "SSC-A", Events: []float64{10}},
	}}
	got := Parameters(fd)
	want := []Parameter{
		{Index: 1, ID: "FSC-A", Stats: Stats{Count: 2, Min: 1, Max: 3, Mean: 2, StdDev: 1}},
		{Index: 2, ID: "SSC-A", Stats: Stats{Count: 1, Min: 10, Max: 10, Mean: 10}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if Parameters(nil) != nil {
		t.Fatalf("nil data should give nil summary")
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	md := &fcs.Metadata{
		Keywords: []string{"$PAR", "$P1N", "$CYT", "$P1N", "$p2n"},
		Values:   map[string]string{"$PAR": "1", "$P1N": "FSC-A", "$CYT": "Aria", "$p2n": "x"},
	}

	all := Keywords(md, "")
	if len(all) != 4 {
		t.Fatalf("expected duplicates collapsed, got %+v", all)
	}
	if all[1] != (Keyword{Key: "$P1N", Value: "FSC-A"}) {
		t.Fatalf("unexpected second row: %+v", all[1])
	}

	got := Keywords(md, " $p ")
	want := []Keyword{{"$PAR", "1"}, {"$P1N", "FSC-A"}, {"$p2n", "x"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filtered: got %+v want %+v", got, want)
	}
	if Keywords(nil, "") != nil {
		t.Fatalf("nil metadata should give nil rows")
	}
}

func TestNonFiniteJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    any
		want string
	}{
		{"values", Values{1, math.NaN(), math.Inf(1), math.Inf(-1), 0.5}, `[1,null,null,null,0.5]`},
		{"empty values", Values{}, `[]`},
		{"nil values", Values(nil), `null`},
		{"value", Value(math.Inf(-1)), `null`},
		{"stats", Compute([]float64{1, math.Inf(1)}), `{"count":2,"min":1,"max":null,"mean":null,"stddev":null}`},
		{"finite stats", Compute([]float64{math.NaN(), 1, 3}), `{"count":2,"nan":1,"min":1,"max":3,"mean":2,"stddev":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Fatalf("got %s want %s", b, tt.want)
			}
		})
	}
}
