package evaluator

import (
	"github.com/sambeau/lox/pkg/lox/ast"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lexer"
)

func (in *Interpreter) evaluate(expr ast.Expression) (Object, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalObject(e.Value), nil

	case *ast.Grouping:
		return in.evaluate(e.Expression)

	case *ast.Unary:
		return in.evalUnary(e)

	case *ast.Binary:
		return in.evalBinary(e)

	case *ast.Logical:
		return in.evalLogical(e)

	case *ast.Variable:
		return in.lookupVariable(e.Name, e.Token, e)

	case *ast.Assign:
		return in.evalAssign(e)

	case *ast.Call:
		return in.evalCall(e)

	case *ast.Get:
		return in.evalGet(e)

	case *ast.Set:
		return in.evalSet(e)

	case *ast.This:
		return in.lookupVariable("this", e.Token, e)
	}

	return nil, perrors.New(perrors.UnreachableCode, map[string]any{"Detail": "unknown expression"})
}

func literalObject(value any) Object {
	switch v := value.(type) {
	case float64:
		return &Number{Value: v}
	case string:
		return &String{Value: v}
	case bool:
		return nativeBoolToBooleanObject(v)
	}
	return NIL
}

func (in *Interpreter) evalUnary(e *ast.Unary) (Object, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(right)), nil
	case "-":
		n, ok := right.(*Number)
		if !ok {
			return nil, in.newError(perrors.ExpectedNumberOperand, e.Token, map[string]any{
				"Operator": e.Operator,
				"Got":      typeName(right),
			})
		}
		return &Number{Value: -n.Value}, nil
	}

	return nil, in.newError(perrors.UnreachableCode, e.Token, map[string]any{"Detail": "unknown unary operator " + e.Operator})
}

// evalLogical short-circuits and yields the deciding operand itself.
func (in *Interpreter) evalLogical(e *ast.Logical) (Object, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Operator == "or" {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}

	return in.evaluate(e.Right)
}

// lookupVariable reads a resolved local at its recorded distance, or a
// global when the resolver recorded nothing.
func (in *Interpreter) lookupVariable(name string, tok lexer.Token, expr ast.Expression) (Object, error) {
	if distance, ok := in.locals[expr]; ok {
		value, found := in.env.GetAt(distance, name)
		if !found {
			return nil, in.newError(perrors.UnreachableCode, tok, map[string]any{
				"Detail": "'" + name + "' is not bound at its resolved distance",
			})
		}
		return value, nil
	}

	if value, ok := in.globals.Get(name); ok {
		return value, nil
	}
	return nil, in.undefinedVariable(name, tok)
}

func (in *Interpreter) evalAssign(e *ast.Assign) (Object, error) {
	value, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := in.locals[e]; ok {
		if !in.env.AssignAt(distance, e.Name, value) {
			return nil, in.newError(perrors.UnreachableCode, e.Token, map[string]any{
				"Detail": "'" + e.Name + "' is not bound at its resolved distance",
			})
		}
		return value, nil
	}

	if !in.globals.Assign(e.Name, value) {
		return nil, in.undefinedVariable(e.Name, e.Token)
	}
	return value, nil
}

func (in *Interpreter) undefinedVariable(name string, tok lexer.Token) error {
	err := perrors.NewUndefinedVariable(name, in.env.AllIdentifiers())
	err.Line, err.Column, err.Offset, err.Lexeme = tok.Line, tok.Column, tok.Start, tok.Lexeme
	return err
}

func (in *Interpreter) evalCall(e *ast.Call) (Object, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Object, 0, len(e.Arguments))
	for _, argExpr := range e.Arguments {
		arg, err := in.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, in.newError(perrors.InvalidCallObjectType, e.Token, map[string]any{"Got": typeName(callee)})
	}
	if len(args) != fn.Arity() {
		return nil, in.newError(perrors.InvalidArgsCount, e.Token, map[string]any{
			"Want": fn.Arity(),
			"Got":  len(args),
		})
	}

	in.callDepth++
	defer func() { in.callDepth-- }()
	if in.maxCallDepth > 0 && in.callDepth > in.maxCallDepth {
		return nil, in.newError(perrors.StackOverflow, e.Token, map[string]any{"Max": in.maxCallDepth})
	}

	result, err := fn.Call(in, args)
	if err != nil {
		return nil, locate(err, e.Token)
	}
	return result, nil
}

func (in *Interpreter) evalGet(e *ast.Get) (Object, error) {
	object, err := in.evaluate(e.Object)
	if err != nil {
		return nil, err
	}

	inst, ok := object.(*Instance)
	if !ok {
		return nil, in.newError(perrors.InvalidObjectProperty, e.Token, map[string]any{"Got": typeName(object)})
	}

	value, found := inst.Get(e.Name)
	if !found {
		return nil, in.newError(perrors.UndefinedProperty, e.Token, map[string]any{"Name": e.Name})
	}
	return value, nil
}

func (in *Interpreter) evalSet(e *ast.Set) (Object, error) {
	object, err := in.evaluate(e.Object)
	if err != nil {
		return nil, err
	}

	inst, ok := object.(*Instance)
	if !ok {
		return nil, in.newError(perrors.InvalidObjectProperty, e.Token, map[string]any{"Got": typeName(object)})
	}

	value, err := in.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name, value)
	return value, nil
}
