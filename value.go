// FILE: lixenwraith/typedconf/value.go
package typedconf

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies which typed table a key belongs to
type Kind int

const (
	// KindNone marks a key present without a value
	KindNone Kind = iota
	// KindInteger marks a base-10 signed integer within 128 bits
	KindInteger
	// KindFloat marks a decimal floating-point literal
	KindFloat
	// KindBoolean marks the literals "true" and "false"
	KindBoolean
	// KindString marks any other value, kept verbatim
	KindString
)

var kindNames = [...]string{
	KindNone:    "none",
	KindInteger: "integer",
	KindFloat:   "float",
	KindBoolean: "boolean",
	KindString:  "string",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Bounds of the signed 128-bit integer range.
var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Value is a classified configuration value. Exactly one payload is
// meaningful, selected by Kind.
type Value struct {
	kind Kind
	i    *big.Int
	f    float64
	b    bool
	s    string
}

// NoValue returns the value of a key present without a value.
func NoValue() Value {
	return Value{kind: KindNone}
}

// Classify infers the type of a raw value. Parses are attempted in the
// order integer, float, boolean, and the first full-string match wins.
// Anything else is a string, so classification never fails.
func Classify(raw string) Value {
	if i, ok := parseInteger(raw); ok {
		return Value{kind: KindInteger, i: i}
	}
	if f, ok := parseFloat(raw); ok {
		return Value{kind: KindFloat, f: f}
	}
	if b, ok := parseBool(raw); ok {
		return Value{kind: KindBoolean, b: b}
	}
	return Value{kind: KindString, s: raw}
}

// parseInteger accepts an optional sign followed by decimal digits only.
func parseInteger(s string) (*big.Int, bool) {
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 || digits == "" {
		return nil, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return nil, false
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Cmp(minInt128) < 0 || n.Cmp(maxInt128) > 0 {
		return nil, false
	}
	return n, true
}

// parseFloat accepts decimal literals plus inf/infinity/nan. Values out of
// the float64 range still count as floats.
func parseFloat(s string) (float64, bool) {
	// strconv also accepts hex mantissas and digit separators
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// parseBool is deliberately narrower than strconv.ParseBool.
func parseBool(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Kind returns the classification of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns a copy of the integer payload.
func (v Value) Int() (*big.Int, bool) {
	if v.kind != KindInteger {
		return nil, false
	}
	return new(big.Int).Set(v.i), true
}

// Float returns the float payload.
func (v Value) Float() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// Text returns the string payload.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

// String renders the value in canonical text form. KindNone renders empty.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return v.i.String()
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and payload.
// NaN floats compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.i.Cmp(o.i) == 0
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindBoolean:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	}
	return true
}
