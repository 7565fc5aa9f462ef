package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the storage representation of a cell.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "missing"
	}
}

// Value is a dynamically-typed cell. Comparison rules are defined per pair of
// kinds rather than by ad hoc coercion; Missing never equals anything and
// never satisfies an ordering comparison.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Missing returns the null cell value.
func Missing() Value {
	return Value{kind: KindMissing}
}

// Number creates a numeric value.
func Number(v float64) Value {
	return Value{kind: KindNumber, num: v}
}

// Text creates a text value.
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

// Bool creates a boolean value.
func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// Parse infers a cell value from raw text the way CSV ingestion does:
// empty becomes Missing, then number, then boolean, else literal text.
func Parse(s string) Value {
	if s == "" {
		return Missing()
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return Number(v)
	}
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return Text(s)
}

// Kind reports the value's kind tag.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is null.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsFloat coerces the value to a float for arithmetic. Text is re-parsed so
// numeric data stored as strings still participates in numeric operations.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String returns the canonical text form: integers render without a decimal
// point, other numbers use the shortest round-trippable form.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal reports whether two values are equal under the dual comparison rule:
// numeric equality when both sides coerce to numbers, otherwise equality of
// canonical text forms. Missing equals only Missing.
func (v Value) Equal(o Value) bool {
	if v.kind == KindMissing || o.kind == KindMissing {
		return v.kind == o.kind
	}
	a, aok := v.AsFloat()
	b, bok := o.AsFloat()
	if aok && bok {
		return a == b
	}
	return v.String() == o.String()
}
