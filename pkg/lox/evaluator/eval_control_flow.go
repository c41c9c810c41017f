package evaluator

import (
	"github.com/sambeau/lox/pkg/lox/ast"
)

// Statement execution: declarations, blocks, branches and loops

func (in *Interpreter) execute(stmt ast.Statement) error {
	if err := in.step(stmt); err != nil {
		return err
	}

	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		_, err := in.evaluate(s.Expression)
		return err

	case *ast.PrintStatement:
		value, err := in.evaluate(s.Expression)
		if err != nil {
			return err
		}
		in.logger.LogLine(value.Inspect())
		return nil

	case *ast.VarStatement:
		var value Object = NIL
		if s.Value != nil {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		in.env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.BlockStatement:
		return in.executeBlock(s.Statements, NewEnclosedEnvironment(in.env))

	case *ast.IfStatement:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return in.execute(s.Consequence)
		}
		if s.Alternative != nil {
			return in.execute(s.Alternative)
		}
		return nil

	case *ast.WhileStatement:
		return in.executeWhile(s)

	case *ast.FunctionStatement:
		in.env.Define(s.Name.Lexeme, &Function{Declaration: s, Closure: in.env})
		return nil

	case *ast.ClassStatement:
		return in.executeClass(s)

	case *ast.ReturnStatement:
		var value Object = NIL
		if s.Value != nil {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &ReturnValue{Value: value}
	}

	return nil
}

// executeBlock runs stmts with env as the current environment and restores
// the previous environment however the block exits.
func (in *Interpreter) executeBlock(stmts []ast.Statement, env *Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) executeWhile(s *ast.WhileStatement) error {
	for {
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if !isTruthy(cond) {
			return nil
		}

		if s.PerIteration {
			err = in.executeIteration(s)
		} else {
			err = in.execute(s.Body)
		}
		if err != nil {
			return err
		}
	}
}

// executeIteration runs one pass of a 'for' loop that declares its loop
// variable. in.env is the loop scope. After the body the loop scope is
// replaced by a copy, so closures created during this pass keep the values
// of this pass while the increment and later passes update the copy.
func (in *Interpreter) executeIteration(s *ast.WhileStatement) error {
	if !s.HasIncrement {
		if err := in.execute(s.Body); err != nil {
			return err
		}
		in.env = in.env.Copy()
		return nil
	}

	// The desugared body is { body; increment; }. Its scope declares nothing,
	// so running the two halves in separate block environments keeps every
	// resolved distance intact.
	block := s.Body.(*ast.BlockStatement)
	n := len(block.Statements)

	if err := in.executeBlock(block.Statements[:n-1], NewEnclosedEnvironment(in.env)); err != nil {
		return err
	}
	in.env = in.env.Copy()
	return in.executeBlock(block.Statements[n-1:], NewEnclosedEnvironment(in.env))
}

// executeClass binds the class name first so methods can refer to it, then
// builds the method table over the current environment.
func (in *Interpreter) executeClass(s *ast.ClassStatement) error {
	name := s.Name.Lexeme
	in.env.Define(name, NIL)

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Declaration:   m,
			Closure:       in.env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	in.env.Assign(name, &Class{Name: name, Methods: methods})
	return nil
}
