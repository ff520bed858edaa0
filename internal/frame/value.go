// Package frame provides a small ordered, column-named table of parsed cells.
package frame

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a Value holds.
type Kind uint8

// Value kinds.
const (
	KindNA Kind = iota
	KindNumber
	KindString
)

// naTokens are raw cells that mean "no value" in Census and spreadsheet exports.
var naTokens = map[string]bool{
	"":    true,
	"na":  true,
	"n/a": true,
	"nan": true,
	"(x)": true,
	"-":   true,
	"--":  true,
}

// Value is a single cell: NA, a number, or a string.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// NA returns the missing value.
func NA() Value { return Value{} }

// Num returns a numeric value. NaN and infinities become NA.
func Num(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NA()
	}
	return Value{kind: KindNumber, num: f}
}

// Str returns a string value. Empty strings become NA.
func Str(s string) Value {
	if s == "" {
		return NA()
	}
	return Value{kind: KindString, str: s}
}

// Parse interprets a raw cell. NA tokens become NA, numbers (optionally with
// thousands separators, a leading '+', or a trailing '%') become numbers and
// everything else is kept as a string. A trailing '%' is stripped, not rescaled.
func Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	if naTokens[strings.ToLower(s)] {
		return NA()
	}
	if f, ok := parseNumber(s); ok {
		return Num(f)
	}
	return Str(s)
}

// ParseText interprets a raw cell that must stay textual (identifiers with
// leading zeros, names that look numeric).
func ParseText(raw string) Value {
	s := strings.TrimSpace(raw)
	if naTokens[strings.ToLower(s)] {
		return NA()
	}
	return Str(s)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", "")
	}
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Kind reports what the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNA reports whether the value is missing.
func (v Value) IsNA() bool { return v.kind == KindNA }

// Float returns the numeric value and whether the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the string value and whether the value is a string.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// String renders the value; NA renders as "NA".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return "NA"
	}
}
