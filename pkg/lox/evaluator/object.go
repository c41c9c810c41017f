package evaluator

import (
	"math"
	"strconv"
)

// ObjectType represents the type of objects in our language
type ObjectType string

const (
	NUMBER_OBJ   = "NUMBER"
	STRING_OBJ   = "STRING"
	BOOLEAN_OBJ  = "BOOLEAN"
	NIL_OBJ      = "NIL"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	CLASS_OBJ    = "CLASS"
	INSTANCE_OBJ = "INSTANCE"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Number represents numeric objects. All numbers are float64.
type Number struct {
	Value float64
}

func (n *Number) Inspect() string  { return formatNumber(n.Value) }
func (n *Number) Type() ObjectType { return NUMBER_OBJ }

// formatNumber renders a number in its shortest form: 3, 2.5, inf, NaN.
func formatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String represents string objects
type String struct {
	Value string
}

func (s *String) Inspect() string  { return s.Value }
func (s *String) Type() ObjectType { return STRING_OBJ }

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }

// Nil represents the nil value
type Nil struct{}

func (n *Nil) Inspect() string  { return "nil" }
func (n *Nil) Type() ObjectType { return NIL_OBJ }

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// isTruthy reports whether obj counts as true. Only nil and false are falsy.
func isTruthy(obj Object) bool {
	switch o := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return o.Value
	default:
		return true
	}
}

// objectsEqual compares numbers, strings, booleans and nil by value and
// everything else by identity. Values of different kinds are never equal.
func objectsEqual(a, b Object) bool {
	switch av := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Value == bv.Value
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	default:
		return a == b
	}
}

// typeName returns the user-facing name of obj's type for error messages.
func typeName(obj Object) string {
	switch obj.(type) {
	case *Number:
		return "number"
	case *String:
		return "string"
	case *Boolean:
		return "boolean"
	case *Nil:
		return "nil"
	case *Function, *Builtin:
		return "function"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	}
	return "unknown"
}
