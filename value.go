package kdl

import (
	"math"
	"math/big"

	"github.com/KimNorgaard/go-kdl/internal/number"
)

// Kind identifies which scalar a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInteger
	KindFloat
	KindBool
)

var kindNames = [...]string{
	KindNull:    "null",
	KindString:  "string",
	KindInteger: "integer",
	KindFloat:   "float",
	KindBool:    "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is a scalar argument or property value with an optional type
// annotation. The zero Value is an unannotated null.
//
// Integers that do not fit in an int64 are held as a *big.Int. Integer and
// float values never compare equal, even when numerically identical.
type Value struct {
	kind Kind
	typ  string
	s    string
	i    int64
	big  *big.Int
	f    float64
	b    bool
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// BigInt returns an integer value of arbitrary size. b is copied.
func BigInt(b *big.Int) Value {
	if b.IsInt64() {
		return Int(b.Int64())
	}
	return Value{kind: KindInteger, big: new(big.Int).Set(b)}
}

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Null returns the null value.
func Null() Value { return Value{} }

func valueFromNumber(n number.Number) Value {
	switch {
	case n.IsFloat:
		return Float(n.Float)
	case n.Big != nil:
		return Value{kind: KindInteger, big: n.Big}
	}
	return Int(n.Int)
}

// Kind returns the kind of scalar held by v.
func (v Value) Kind() Kind { return v.kind }

// Type returns the type annotation, or "" if there is none.
func (v Value) Type() string { return v.typ }

// WithType returns a copy of v annotated with t. An empty t removes the
// annotation. No range check is performed; see ApplyTypeAnnotation.
func (v Value) WithType(t string) Value {
	v.typ = t
	return v
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsInt returns the integer held by v. It fails for integers that need
// more than 64 bits.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInteger && v.big == nil
}

// AsBigInt returns any integer held by v as a new *big.Int.
func (v Value) AsBigInt() (*big.Int, bool) {
	if v.kind != KindInteger {
		return nil, false
	}
	if v.big != nil {
		return new(big.Int).Set(v.big), true
	}
	return big.NewInt(v.i), true
}

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Any returns the scalar as a Go value: string, int64, *big.Int, float64,
// bool or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInteger:
		if v.big != nil {
			return new(big.Int).Set(v.big)
		}
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	}
	return nil
}

// Equal reports whether v and o have the same kind, annotation and
// payload. NaN equals NaN; 0.0 and -0.0 differ.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.typ != o.typ {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInteger:
		if v.big != nil || o.big != nil {
			return v.big != nil && o.big != nil && v.big.Cmp(o.big) == 0
		}
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case KindBool:
		return v.b == o.b
	}
	return true
}

func (v Value) number() (number.Number, bool) {
	switch v.kind {
	case KindInteger:
		return number.Number{Int: v.i, Big: v.big}, true
	case KindFloat:
		return number.Number{IsFloat: true, Float: v.f}, true
	}
	return number.Number{}, false
}

// ApplyTypeAnnotation annotates v with annotation. Numeric width
// annotations such as i8, u32 or f32 are checked against the value and
// fail with a *RangeError; any other annotation is accepted as is.
func ApplyTypeAnnotation(v Value, annotation string) (Value, error) {
	if !number.IsRangeAnnotation(annotation) {
		return v.WithType(annotation), nil
	}
	if n, ok := v.number(); ok {
		if err := number.CheckRange(annotation, n); err != nil {
			return v, err
		}
	}
	return v.WithType(annotation), nil
}
