// Package summary reduces decoded FCS data to per-parameter statistics and
// keyword listings for display.
package summary

import (
	"math"
	"strings"

	"github.com/samcharles93/flowfairy/pkg/fcs"
)

// Stats describes one parameter's events. NaN events are counted separately
// and excluded from the other fields.
type Stats struct {
	Count  int     `json:"count"`
	NaN    int     `json:"nan,omitempty"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Compute returns statistics for events. StdDev is the population standard
// deviation.
func Compute(events []float64) Stats {
	var s Stats
	var sum float64
	for _, v := range events {
		if math.IsNaN(v) {
			s.NaN++
			continue
		}
		if s.Count == 0 || v < s.Min {
			s.Min = v
		}
		if s.Count == 0 || v > s.Max {
			s.Max = v
		}
		sum += v
		s.Count++
	}
	if s.Count == 0 {
		return s
	}
	s.Mean = sum / float64(s.Count)

	var sq float64
	for _, v := range events {
		if math.IsNaN(v) {
			continue
		}
		d := v - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(s.Count))
	return s
}

// Parameter is a parameter's position, name and statistics.
type Parameter struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Stats Stats  `json:"summary"`
}

// Parameters summarizes every parameter of fd in DATA order. Index is
// 1-based to match $PnN numbering.
func Parameters(fd *fcs.FlowData) []Parameter {
	if fd == nil {
		return nil
	}
	out := make([]Parameter, len(fd.Parameters))
	for i, p := range fd.Parameters {
		out[i] = Parameter{Index: i + 1, ID: p.ID, Stats: Compute(p.Events)}
	}
	return out
}

// Keyword is one TEXT keyword and its value.
type Keyword struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Keywords lists the keywords of md in file order. A non-empty filter keeps
// only keywords starting with it, compared case-insensitively. Duplicate
// keywords appear once, at their first position, with the stored value.
func Keywords(md *fcs.Metadata, filter string) []Keyword {
	if md == nil {
		return nil
	}
	filter = strings.ToUpper(strings.TrimSpace(filter))
	seen := make(map[string]struct{}, len(md.Keywords))
	out := make([]Keyword, 0, len(md.Keywords))
	for _, k := range md.Keywords {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		if filter != "" && !strings.HasPrefix(strings.ToUpper(k), filter) {
			continue
		}
		out = append(out, Keyword{Key: k, Value: md.Values[k]})
	}
	return out
}
