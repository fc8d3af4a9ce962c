package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the type of a single cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is one cell of a Dataset. The zero Value is null.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
}

// Null returns an absent cell.
func Null() Value { return Value{} }

// Number returns a numeric cell. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{Kind: KindNumber, Num: f}
}

// String returns a string cell.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

func (v Value) IsNull() bool   { return v.Kind == KindNull }
func (v Value) IsNumber() bool { return v.Kind == KindNumber }
func (v Value) IsString() bool { return v.Kind == KindString }

// Text renders the cell for prompts and debug output. Nulls render as "".
func (v Value) Text() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindString:
		return v.Str
	default:
		return ""
	}
}

// Strings is a convenience for building string columns in code and tests.
func Strings(ss ...string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

// Numbers is the numeric counterpart of Strings.
func Numbers(fs ...float64) []Value {
	out := make([]Value, len(fs))
	for i, f := range fs {
		out[i] = Number(f)
	}
	return out
}

// ParseNumber reports whether s, after trimming, is an integer or floating-point
// literal (optional sign, digits with an optional fraction, optional exponent).
// Words such as "nan" or "inf", hex forms and literals that overflow float64
// are not accepted.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if !isNumericLiteral(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isNumericLiteral(s string) bool {
	i, n := 0, len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < n && isDigit(s[i]) {
		i++
		digits++
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < n && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
