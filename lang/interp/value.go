package interp

import (
	"math"
	"strconv"
)

// Value is a Lox runtime value. The concrete Go type carries the tag:
//
//	nil        -> Lox nil
//	bool       -> Lox boolean
//	float64    -> Lox number
//	string     -> Lox string
//	Callable   -> builtin, user function or class
//	*Instance  -> an object
type Value any

// Callable is implemented by every value that can appear in call position:
// user-defined functions, bound methods, classes (which construct an
// instance when called) and native builtins.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	// String returns the value's printed form, per the Callable display
	// rules in the print stringification table.
	String() string
}

// IsTruthy implements Lox's truthiness rule: false and nil are falsy, every
// other value (including 0, "" and instances) is truthy.
func IsTruthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// IsEqual implements Lox's equality rule: same-typed values compare by
// value for numbers, strings and bools; nil == nil is true; any cross-type
// comparison (including against nil) is false; callables and instances
// compare by identity.
func IsEqual(a, b Value) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	switch a := a.(type) {
	case float64:
		b, ok := b.(float64)
		return ok && a == b
	case string:
		b, ok := b.(string)
		return ok && a == b
	case bool:
		b, ok := b.(bool)
		return ok && a == b
	default:
		return a == b
	}
}

// Stringify renders v the way the `print` statement and the `evaluate`
// command do.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(v)
	case string:
		return v
	case Callable:
		return v.String()
	case *Instance:
		return v.String()
	default:
		return "?"
	}
}

// formatNumber is the canonical double-printing rule resolving the spec's
// Open Question on edge values: integer-valued doubles drop their decimal
// part, -0 keeps its sign, and NaN/Inf print as "NaN"/"inf"/"-inf".
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	if n == math.Trunc(n) && !math.Signbit(n) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if n == math.Trunc(n) && math.Signbit(n) {
		return "-" + strconv.FormatFloat(-n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// TypeName returns the Lox-facing type name of v.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Instance:
		return "instance"
	case Callable:
		return "callable"
	default:
		return "value"
	}
}
