package fcs

import (
	"strconv"
	"strings"
)

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (string, bool) {
	v, ok := m.Values[key]
	return v, ok
}

// GetUint parses the value under key as a non-negative decimal integer.
func (m *Metadata) GetUint(key string) (uint64, bool) {
	v, ok := m.Values[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetFloat parses the value under key as a decimal floating point number.
func (m *Metadata) GetFloat(key string) (float64, bool) {
	v, ok := m.Values[key]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// MustGetUint is GetUint that reports a missing or non-numeric value as
// ErrMissingKeyword.
func (m *Metadata) MustGetUint(key string) (uint64, error) {
	if n, ok := m.GetUint(key); ok {
		return n, nil
	}
	return 0, missingKeyword(key)
}

// ParameterCount is the value of $PAR.
func (m *Metadata) ParameterCount() (int, error) {
	n, err := m.MustGetUint(KeyPar)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// EventCount is the value of $TOT.
func (m *Metadata) EventCount() (int, error) {
	n, err := m.MustGetUint(KeyTot)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ParameterName returns $PnN for the 1-based parameter index n.
func (m *Metadata) ParameterName(n int) (string, bool) {
	return m.Get(ParameterKeyword(n, 'N'))
}
