package lang

import (
	"fmt"
	"strconv"
)

// Value is one of String, Number, List, or Nil. Function is
// represented separately (FunctionRecord, in call.go) and is never a
// first-class Value in the core dialect.
type Value interface {
	Type() string
	String() string
}

type Nil struct{}

func (Nil) Type() string   { return "nil" }
func (Nil) String() string { return "nil" }

func IsNil(v Value) bool {
	_, ok := v.(Nil)
	return ok
}

type Number struct {
	Value float64
}

func NewNumber(v float64) Value { return Number{Value: v} }

func (Number) Type() string { return "number" }

// String renders a bare float: 42.5, not 42.5000 and not 42.500000.
func (n Number) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

type String struct {
	Value string
}

func NewString(v string) Value { return String{Value: v} }

func (String) Type() string     { return "string" }
func (s String) String() string { return s.Value }

type List struct {
	Items []Value
}

func NewList(items []Value) Value { return List{Items: items} }

func (List) Type() string { return "list" }

func (l List) String() string {
	out := "["
	for i, it := range l.Items {
		if i > 0 {
			out += ", "
		}
		out += it.String()
	}
	return out + "]"
}

// Equal is structural equality: numbers compare by exact float value,
// strings by codepoints, lists elementwise. There is no cross-type
// coercion; comparing a Number to a String is always unequal, never
// an error.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		bn, ok := b.(Number)
		return ok && a.Value == bn.Value
	case String:
		bs, ok := b.(String)
		return ok && a.Value == bs.Value
	case List:
		bl, ok := b.(List)
		if !ok || len(a.Items) != len(bl.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], bl.Items[i]) {
				return false
			}
		}
		return true
	case Nil:
		_, ok := b.(Nil)
		return ok
	default:
		return false
	}
}

func coerceNumber(v Value) (float64, error) {
	switch v := v.(type) {
	case Number:
		return v.Value, nil
	case String:
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", v.Value, ErrLogic)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s: %w", v.Type(), ErrLogic)
	}
}
