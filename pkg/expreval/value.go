package expreval

import "fmt"

// Kind tags the dynamic type carried by a Value, per the tagged-union
// design note in spec.md §9 (Value = Number | String | Bool | Nil).
type Kind int

const (
	KindNil Kind = iota
	KindNumber
	KindString
	KindBool
)

// Value is the result of evaluating an expression or looking up a
// variable: a small tagged union, never a pointer-typed interface{}.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
}

// Nil is the "not a value" result.
var Nil = Value{Kind: KindNil}

// NumberValue wraps a float64 as a Value.
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// StringValue wraps a string as a Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// BoolValue wraps a bool as a Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// CanConvertToFloat reports whether the value has a numeric interpretation.
func (v Value) CanConvertToFloat() bool {
	return v.Kind == KindNumber || v.Kind == KindBool
}

// ToFloat converts the value to float64, with bools mapping to 0/1 and
// non-numeric values mapping to 0, mirroring can_convert_to_double/
// to_double in the original expression parser.
func (v Value) ToFloat() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ToBool converts the value to bool: nil is false, numbers are compared
// against zero, bools pass through, strings are true unless empty.
func (v Value) ToBool() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num != 0
	case KindString:
		return v.Str != ""
	default:
		return false
	}
}

// Equal implements the "==" operator's comparison semantics: numeric
// comparison when both sides convert to float, else string comparison.
func (v Value) Equal(o Value) bool {
	if v.CanConvertToFloat() && o.CanConvertToFloat() {
		return v.ToFloat() == o.ToFloat()
	}
	return v.String() == o.String()
}

// Less implements the "<" operator's comparison semantics.
func (v Value) Less(o Value) bool {
	if v.CanConvertToFloat() && o.CanConvertToFloat() {
		return v.ToFloat() < o.ToFloat()
	}
	return v.String() < o.String()
}

// String renders the value for diagnostics and for non-numeric "==".
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return ""
	case KindNumber:
		return fmt.Sprintf("%g", v.Num)
	case KindString:
		return v.Str
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}
