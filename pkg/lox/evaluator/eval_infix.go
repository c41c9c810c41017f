package evaluator

import (
	"github.com/sambeau/lox/pkg/lox/ast"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
)

// Binary operator evaluation. Both operands are evaluated left to right
// before the operator is applied.

func (in *Interpreter) evalBinary(e *ast.Binary) (Object, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right)), nil
	case "!=":
		return nativeBoolToBooleanObject(!objectsEqual(left, right)), nil
	case "+":
		return in.evalPlus(e, left, right)
	}

	l, lok := left.(*Number)
	r, rok := right.(*Number)
	if !lok || !rok {
		return nil, in.newError(perrors.ExpectedNumberOperands, e.Token, map[string]any{
			"Operator": e.Operator,
			"Left":     typeName(left),
			"Right":    typeName(right),
		})
	}
	return in.evalNumberInfix(e, l.Value, r.Value)
}

// evalPlus adds two numbers or concatenates two strings.
func (in *Interpreter) evalPlus(e *ast.Binary, left, right Object) (Object, error) {
	switch l := left.(type) {
	case *Number:
		if r, ok := right.(*Number); ok {
			return &Number{Value: l.Value + r.Value}, nil
		}
	case *String:
		if r, ok := right.(*String); ok {
			return &String{Value: l.Value + r.Value}, nil
		}
	}
	return nil, in.newError(perrors.ExpectedAddableOperands, e.Token, map[string]any{
		"Left":  typeName(left),
		"Right": typeName(right),
	})
}

// evalNumberInfix applies an arithmetic or comparison operator. Division
// follows IEEE 754, so dividing by zero yields inf or NaN.
func (in *Interpreter) evalNumberInfix(e *ast.Binary, l, r float64) (Object, error) {
	switch e.Operator {
	case "-":
		return &Number{Value: l - r}, nil
	case "*":
		return &Number{Value: l * r}, nil
	case "/":
		return &Number{Value: l / r}, nil
	case ">":
		return nativeBoolToBooleanObject(l > r), nil
	case ">=":
		return nativeBoolToBooleanObject(l >= r), nil
	case "<":
		return nativeBoolToBooleanObject(l < r), nil
	case "<=":
		return nativeBoolToBooleanObject(l <= r), nil
	}
	return nil, in.newError(perrors.UnreachableCode, e.Token, map[string]any{"Detail": "unknown operator " + e.Operator})
}
