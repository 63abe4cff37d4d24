// Package fcs decodes Flow Cytometry Standard (FCS 3.0 and 3.1) data sets.
//
// A data set is read in three passes over one seekable source: the fixed
// HEADER, the delimiter-separated TEXT segment holding the keywords, and the
// DATA segment holding list-mode events. The result is a FlowData value with
// one event sequence per declared parameter.
//
// Writing FCS files, the ANALYSIS segment, the supplemental TEXT segment and
// $NEXTDATA chaining are not supported.
package fcs

// Supported version tags. The tag occupies the first six bytes of a file.
const (
	Version30 = "FCS3.0"
	Version31 = "FCS3.1"
)

// HeaderSize is the length of the fixed HEADER preamble in bytes.
const HeaderSize = 58

// Keyword names the decoder reads directly.
const (
	KeyBeginData = "$BEGINDATA"
	KeyByteOrder = "$BYTEORD"
	KeyDataType  = "$DATATYPE"
	KeyMode      = "$MODE"
	KeyPar       = "$PAR"
	KeyTot       = "$TOT"
)

// Values of $MODE and $DATATYPE.
const (
	ModeList = "L"

	DataTypeInt    = "I"
	DataTypeFloat  = "F"
	DataTypeDouble = "D"
)

// Header holds the version tag and the segment byte offsets from the HEADER.
// End offsets point at the last byte of their segment.
type Header struct {
	Version       string `json:"version"`
	TextStart     uint64 `json:"text_start"`
	TextEnd       uint64 `json:"text_end"`
	DataStart     uint64 `json:"data_start"`
	DataEnd       uint64 `json:"data_end"`
	AnalysisStart uint64 `json:"analysis_start"`
	AnalysisEnd   uint64 `json:"analysis_end"`
}

// HasAnalysis reports whether the header declares an ANALYSIS segment.
func (h Header) HasAnalysis() bool {
	return h.AnalysisStart != 0 || h.AnalysisEnd != 0
}

// Consistent reports whether the TEXT and DATA offsets are ordered as
// TextStart <= TextEnd <= DataStart <= DataEnd. FCS 3.x writers may leave the
// DATA offsets zero when they do not fit in eight digits, so a false result
// is not an error on its own.
func (h Header) Consistent() bool {
	return h.TextStart <= h.TextEnd && h.TextEnd <= h.DataStart && h.DataStart <= h.DataEnd
}

// Metadata is the parsed TEXT segment.
//
// Keywords keeps file order and repeats duplicate keywords; Values keeps the
// last value seen for each keyword.
type Metadata struct {
	Version   string
	Delimiter byte
	Keywords  []string
	Values    map[string]string
}

// Parameter is one measured channel and its events in acquisition order.
type Parameter struct {
	ID     string
	Events []float64
}

// FlowData is a fully decoded data set.
type FlowData struct {
	Metadata   Metadata
	Parameters []Parameter
}

// Parameter returns the first parameter with the given ID.
func (d *FlowData) Parameter(id string) (*Parameter, bool) {
	for i := range d.Parameters {
		if d.Parameters[i].ID == id {
			return &d.Parameters[i], true
		}
	}
	return nil, false
}

// EventCount is the number of events per parameter.
func (d *FlowData) EventCount() int {
	if len(d.Parameters) == 0 {
		return 0
	}
	return len(d.Parameters[0].Events)
}

func supportedVersion(tag string) bool {
	return tag == Version30 || tag == Version31
}
