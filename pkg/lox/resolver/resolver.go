// Package resolver performs static scope analysis.
//
// It walks the AST once before evaluation, reports scope errors, and tells
// the interpreter how many environments separate each local variable
// reference from its declaration. References it cannot match to a local
// scope are left unannotated and are looked up as globals at run time.
package resolver

import (
	"github.com/sambeau/lox/pkg/lox/ast"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lexer"
)

// Binder receives binding distances. expr is always an *ast.Variable,
// *ast.Assign or *ast.This.
type Binder interface {
	Resolve(expr ast.Expression, depth int)
}

// FunctionType tracks what kind of function body is being resolved.
type FunctionType int

const (
	FunctionNone FunctionType = iota
	FunctionPlain
	FunctionMethod
	FunctionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
)

// Resolver holds the scope stack for one resolution pass.
type Resolver struct {
	binder Binder

	// scopes holds the non-global lexical scopes, innermost last. Each maps
	// a name to whether its initializer has finished.
	scopes []map[string]bool

	currentFunction FunctionType
	currentClass    classType

	// pendingGlobal is the global being declared while its initializer is
	// resolved.
	pendingGlobal string

	errors perrors.List
}

// New creates a resolver that reports distances to b.
func New(b Binder) *Resolver {
	return &Resolver{binder: b}
}

// Resolve resolves every statement and returns all errors found as an
// errors.List, or nil.
func Resolve(stmts []ast.Statement, b Binder) error {
	r := New(b)
	r.ResolveStatements(stmts)
	return r.errors.Err()
}

// Errors returns the errors collected so far.
func (r *Resolver) Errors() perrors.List {
	return r.errors
}

func (r *Resolver) addError(code string, tok lexer.Token, data map[string]any) {
	r.errors = append(r.errors, perrors.NewAt(code, tok.Line, tok.Column, tok.Start, tok.Lexeme, data))
}

// ResolveStatements resolves stmts in the current scope.
func (r *Resolver) ResolveStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		r.beginScope()
		r.ResolveStatements(s.Statements)
		r.endScope()

	case *ast.VarStatement:
		r.declare(s.Name)
		if s.Value != nil {
			if len(r.scopes) == 0 {
				prev := r.pendingGlobal
				r.pendingGlobal = s.Name.Lexeme
				r.resolveExpression(s.Value)
				r.pendingGlobal = prev
			} else {
				r.resolveExpression(s.Value)
			}
		}
		r.define(s.Name)

	case *ast.FunctionStatement:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, FunctionPlain)

	case *ast.ClassStatement:
		enclosingClass := r.currentClass
		r.currentClass = classClass

		r.declare(s.Name)
		r.define(s.Name)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["this"] = true
		for _, method := range s.Methods {
			kind := FunctionMethod
			if method.Name.Lexeme == "init" {
				kind = FunctionInitializer
			}
			r.resolveFunction(method, kind)
		}
		r.endScope()

		r.currentClass = enclosingClass

	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)

	case *ast.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Consequence)
		if s.Alternative != nil {
			r.resolveStatement(s.Alternative)
		}

	case *ast.PrintStatement:
		r.resolveExpression(s.Expression)

	case *ast.ReturnStatement:
		if r.currentFunction == FunctionNone {
			r.addError(perrors.TopLevelReturn, s.Token, nil)
		}
		if s.Value != nil {
			r.resolveExpression(s.Value)
		}

	case *ast.WhileStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStatement, kind FunctionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Parameters {
		r.declare(param)
		r.define(param)
	}
	r.ResolveStatements(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name]; ok && !defined {
				r.addError(perrors.VariableNotInitialized, e.Token, map[string]any{"Name": e.Name})
			}
		} else if e.Name == r.pendingGlobal {
			r.addError(perrors.VariableNotInitialized, e.Token, map[string]any{"Name": e.Name})
		}
		r.resolveLocal(e, e.Name)

	case *ast.Assign:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Binary:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)

	case *ast.Logical:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)

	case *ast.Call:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}

	case *ast.Get:
		r.resolveExpression(e.Object)

	case *ast.Set:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)

	case *ast.Grouping:
		r.resolveExpression(e.Expression)

	case *ast.Unary:
		r.resolveExpression(e.Right)

	case *ast.This:
		if r.currentClass == classNone {
			r.addError(perrors.InvalidThis, e.Token, nil)
			return
		}
		r.resolveLocal(e, "this")

	case *ast.Literal:
	}
}

// resolveLocal records the distance to the innermost scope declaring name.
// Nothing is recorded for globals.
func (r *Resolver) resolveLocal(expr ast.Expression, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.binder.Resolve(expr, len(r.scopes)-1-i)
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare adds name to the innermost scope as not yet initialized.
// Redeclaring a name in the same local scope is an error; globals may be
// redeclared.
func (r *Resolver) declare(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, exists := scope[name.Lexeme]; exists {
		r.addError(perrors.VariableAlreadyExists, name, map[string]any{"Name": name.Lexeme})
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name lexer.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}
