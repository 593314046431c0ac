package lox

import (
	"fmt"
	"strconv"
)

// Value is any Lox runtime value: Nil, Bool, Number, String, or a Callable
// (*LoxFunction, *NativeFunction, *LoxClass) or *LoxInstance.
type Value interface {
	isValue()
}

// Nil is the Lox nil value. There is exactly one: NilValue.
type Nil struct{}

func (Nil) isValue() {}

// NilValue is the singleton Lox nil.
var NilValue = Nil{}

// Bool is a Lox boolean.
type Bool bool

func (Bool) isValue() {}

// Number is a Lox number: an IEEE-754 double, never an integer type.
type Number float64

func (Number) isValue() {}

// String is a Lox string.
type String string

func (String) isValue() {}

// IsTruthy applies Lox's truthiness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// IsEqual is Lox's structural `==`: nil equals only nil; values of differing
// runtime variants are unequal; numbers/strings/bools compare by value;
// callables and instances compare by identity (Go interface equality, which
// for pointers is pointer equality).
func IsEqual(a, b Value) bool {
	switch a := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Number:
		bb, ok := b.(Number)
		return ok && a == bb
	case String:
		bb, ok := b.(String)
		return ok && a == bb
	default:
		return a == b
	}
}

// Stringify renders a Value the way `print` and string concatenation do.
func Stringify(v Value) string {
	switch v := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case Number:
		return formatNumber(float64(v))
	case String:
		return string(v)
	case *LoxClass:
		return v.Name
	case *LoxInstance:
		return v.Class.Name + " instance"
	case *LoxFunction:
		return fmt.Sprintf("<fn %s>", v.Declaration.Name.Lexeme)
	case *NativeFunction:
		return fmt.Sprintf("<native fn %s>", v.Name)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatNumber renders f in plain (never scientific) decimal notation with
// the shortest digit sequence that round-trips, which for a whole double
// naturally comes out without a trailing ".0" (3.0 -> "3", 3.5 -> "3.5").
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
