// Package lox provides a public API for embedding the Lox interpreter.
//
// Source runs through four passes in order: scan, parse, resolve and
// interpret. Errors from the first three are static and stop the run before
// any statement executes.
package lox

import (
	"os"

	"github.com/sambeau/lox/pkg/lox/ast"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/evaluator"
	"github.com/sambeau/lox/pkg/lox/lexer"
	"github.com/sambeau/lox/pkg/lox/parser"
	"github.com/sambeau/lox/pkg/lox/resolver"
)

// Interpreter is an alias for evaluator.Interpreter for convenience
type Interpreter = evaluator.Interpreter

// Option is an alias for evaluator.Option for convenience
type Option = evaluator.Option

// New creates an interpreter. See the evaluator package for options.
func New(opts ...Option) *Interpreter {
	return evaluator.NewInterpreter(opts...)
}

// Parse scans and parses source. All parse errors are collected and
// returned together as an errors.List.
func Parse(source string) ([]ast.Statement, error) {
	tokens, err := lexer.Scan(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}

// Compile parses source and resolves it against in, leaving the statements
// ready for in.Interpret.
func Compile(source string, in *Interpreter) ([]ast.Statement, error) {
	stmts, err := Parse(source)
	if err != nil {
		return nil, err
	}
	if err := resolver.Resolve(stmts, in); err != nil {
		return nil, err
	}
	return stmts, nil
}

// Run executes source with in. Globals defined by earlier runs stay visible.
func Run(source string, in *Interpreter) error {
	stmts, err := Compile(source, in)
	if err != nil {
		return err
	}
	return in.Interpret(stmts)
}

// Check reports static errors in source without running it.
func Check(source string) error {
	_, err := Compile(source, New(evaluator.WithLogger(NullLogger())))
	return err
}

// RunFile reads and runs the script at path. Every error returned is
// tagged with path.
func RunFile(path string, in *Interpreter) error {
	source, err := ReadSource(path)
	if err != nil {
		return err
	}
	return WithFile(Run(source, in), path)
}

// CheckFile reads the script at path and reports its static errors.
func CheckFile(path string) error {
	source, err := ReadSource(path)
	if err != nil {
		return err
	}
	return WithFile(Check(source), path)
}

// ReadSource reads a script, reporting failure as an IO-0001 error.
func ReadSource(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", perrors.New(perrors.ReadFailure, map[string]any{
			"Path":    path,
			"GoError": err.Error(),
		}).WithFile(path)
	}
	return string(content), nil
}

// WithFile tags every LoxError in err with file. Other errors pass through.
func WithFile(err error, file string) error {
	if err == nil {
		return nil
	}
	errs := perrors.All(err)
	if len(errs) == 0 {
		return err
	}

	tagged := make(perrors.List, len(errs))
	for i, e := range errs {
		tagged[i] = e.WithFile(file)
	}
	if len(tagged) == 1 {
		return tagged[0]
	}
	return tagged
}
