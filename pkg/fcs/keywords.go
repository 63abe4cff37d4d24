package fcs

import (
	"strconv"
	"strings"
)

type keywordSet map[string]struct{}

func newKeywordSet(kws ...string) keywordSet {
	s := make(keywordSet, len(kws))
	for _, kw := range kws {
		s[kw] = struct{}{}
	}
	return s
}

func (s keywordSet) has(kw string) bool {
	_, ok := s[kw]
	return ok
}

// RequiredKeywords must be present in every data set, in this order of checking.
var RequiredKeywords = []string{
	"$BEGINANALYSIS",
	"$BEGINDATA",
	"$BEGINSTEXT",
	"$BYTEORD",
	"$DATATYPE",
	"$ENDANALYSIS",
	"$ENDDATA",
	"$ENDSTEXT",
	"$MODE",
	"$NEXTDATA",
	"$PAR",
	"$TOT",
}

// OptionalKeywords are the acquisition keywords accepted besides the required
// and per-parameter ones.
var OptionalKeywords = []string{
	"$ABRT",
	"$BTIM",
	"$CELLS",
	"$COM",
	"$CSMODE",
	"$CSVBITS",
	"$CYT",
	"$CYTSN",
	"$DATE",
	"$ETIM",
	"$EXP",
	"$FIL",
	"$GATE",
	"$GATING",
	"$INST",
	"$LAST_MODIFIED",
	"$LAST_MODIFIER",
	"$LOST",
	"$OP",
	"$ORIGINALITY",
	"$PLATEID",
	"$PLATENAME",
	"$PROJ",
	"$SMNO",
	"$SPILLOVER",
	"$SRC",
	"$SYS",
	"$TIMESTEP",
	"$TR",
	"$VOL",
	"$WELLID",
}

var (
	requiredSet = newKeywordSet(RequiredKeywords...)
	optionalSet = newKeywordSet(OptionalKeywords...)
)

// Per-parameter keyword parts: $P1N is parameter 1's name, $R2I region 2's
// instructions, and so on.
const (
	paramPrefix       = 'P'
	regionPrefix      = 'R'
	parameterSuffixes = "BENRDFGLOPSTVIW"
)

// ValidateKeywords checks md against the keyword vocabulary. It stops at the
// first problem and does not modify md.
func ValidateKeywords(md *Metadata) error {
	return validateKeywords(md, nil)
}

// validateKeywords is ValidateKeywords with an optional hook for unknown
// keywords; a nil hook makes them fatal.
func validateKeywords(md *Metadata, unknown func(kw string)) error {
	present := newKeywordSet(md.Keywords...)
	for _, kw := range RequiredKeywords {
		if !present.has(kw) {
			return missingKeyword(kw)
		}
	}

	digits, err := parameterDigits(md)
	if err != nil {
		return err
	}

	for _, kw := range md.Keywords {
		if requiredSet.has(kw) || optionalSet.has(kw) || isParameterKeyword(kw, digits) {
			continue
		}
		if unknown == nil {
			return unknownKeyword(kw)
		}
		unknown(kw)
	}
	return nil
}

// parameterDigits is the number of decimal digits in $PAR, which bounds the
// index width of per-parameter keywords.
func parameterDigits(md *Metadata) (int, error) {
	raw, ok := md.Values[KeyPar]
	if !ok {
		return 0, missingKeyword(KeyPar)
	}
	raw = strings.TrimSpace(raw)
	if _, err := strconv.ParseUint(raw, 10, 64); err != nil {
		return 0, missingKeyword(KeyPar)
	}
	return len(raw), nil
}

// isParameterKeyword reports whether kw contains a <P|R><index><suffix> run
// with an index of 1 to maxDigits decimal digits. The run may sit anywhere in
// the keyword, so vendor forms such as "P1N" and "$P1DISPLAY" match.
func isParameterKeyword(kw string, maxDigits int) bool {
	for i := 0; i < len(kw); i++ {
		if kw[i] != paramPrefix && kw[i] != regionPrefix {
			continue
		}
		j := i + 1
		for j < len(kw) && kw[j] >= '0' && kw[j] <= '9' {
			j++
		}
		digits := j - i - 1
		if digits == 0 || digits > maxDigits || j == len(kw) {
			continue
		}
		if strings.IndexByte(parameterSuffixes, kw[j]) >= 0 {
			return true
		}
	}
	return false
}

// ParameterKeyword returns the keyword for attribute suffix of parameter n,
// e.g. ParameterKeyword(3, 'N') == "$P3N".
func ParameterKeyword(n int, suffix byte) string {
	return "$P" + strconv.Itoa(n) + string(suffix)
}
