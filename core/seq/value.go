// core/seq/value.go
package seq

import "strconv"

// Kind discriminates the types an attribute value can hold.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// Value is a typed attribute value: string, integer or float.
// The zero Value is the empty string.
type Value struct {
	kind Kind
	s    string
	n    int64
	f    float64
}

func StringValue(v string) Value { return Value{kind: KindString, s: v} }
func IntValue(v int64) Value     { return Value{kind: KindInt, n: v} }
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

func (v Value) Kind() Kind { return v.kind }

// String renders the value as text. Every writer path ends up here, so
// the coercion is total: no kind fails to render.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// Float converts best-effort: numeric kinds convert directly, string
// values are parsed, anything unparsable is 0.
func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.n)
	case KindFloat:
		return v.f
	default:
		f, _ := strconv.ParseFloat(v.s, 64)
		return f
	}
}

// Int converts best-effort, truncating floats and parsing strings.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.n
	case KindFloat:
		return int64(v.f)
	default:
		n, _ := strconv.ParseInt(v.s, 10, 64)
		return n
	}
}
