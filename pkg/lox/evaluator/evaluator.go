// Package evaluator is the tree-walking interpreter for Lox.
//
// An Interpreter owns the global environment, the current environment and
// the binding distances computed by the resolver. Statements must be
// resolved against the same Interpreter before they are interpreted.
package evaluator

import (
	"fmt"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sambeau/lox/pkg/lox/ast"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lexer"
)

// DefaultMaxCallDepth bounds recursion when no WithMaxCallDepth option is given.
const DefaultMaxCallDepth = 1024

// Logger receives the output of print statements, one line per call,
// without the trailing newline.
type Logger interface {
	LogLine(line string)
}

// LoggerFunc adapts a function to a Logger.
type LoggerFunc func(line string)

func (f LoggerFunc) LogLine(line string) { f(line) }

// DefaultLogger writes print output to stdout.
var DefaultLogger Logger = LoggerFunc(func(line string) {
	fmt.Println(line)
})

// ReturnValue carries a 'return' out of a function body. It travels the
// error channel and is caught at the call boundary; it never reaches users.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Error() string { return "return outside of a function call" }

// Interpreter executes resolved statements.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  map[ast.Expression]int

	logger Logger

	maxCallDepth int
	callDepth    int

	stepLimit int
	steps     int
	stepHook  func(steps int) error

	locale     language.Tag
	printer    *message.Printer
	dateLocale monday.Locale
	now        func() time.Time
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sends print output to l.
func WithLogger(l Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithMaxCallDepth limits nested calls. Exceeding the limit raises a
// StackOverflow error. Zero or less disables the limit.
func WithMaxCallDepth(n int) Option {
	return func(in *Interpreter) { in.maxCallDepth = n }
}

// WithStepLimit limits the number of statements one Interpret call may
// execute. Zero or less means unlimited.
func WithStepLimit(n int) Option {
	return func(in *Interpreter) { in.stepLimit = n }
}

// WithStepHook calls fn before every statement with the running step count.
// A non-nil error aborts the run.
func WithStepHook(fn func(steps int) error) Option {
	return func(in *Interpreter) { in.stepHook = fn }
}

// WithLocale sets the locale used by formatNumber and formatDate.
func WithLocale(tag language.Tag) Option {
	return func(in *Interpreter) { in.locale = tag }
}

// WithClock replaces the time source used by clock().
func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) {
		if now != nil {
			in.now = now
		}
	}
}

// NewInterpreter creates an interpreter with the native functions defined
// in its global environment.
func NewInterpreter(opts ...Option) *Interpreter {
	globals := NewEnvironment()
	in := &Interpreter{
		globals:      globals,
		env:          globals,
		locals:       make(map[ast.Expression]int),
		logger:       DefaultLogger,
		maxCallDepth: DefaultMaxCallDepth,
		locale:       language.English,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	in.printer = message.NewPrinter(in.locale)
	in.dateLocale = dateLocale(in.locale)
	registerBuiltins(in)
	return in
}

// Globals returns the global environment.
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// DefineNative adds a Go function to the global environment.
func (in *Interpreter) DefineNative(name string, arity int, fn BuiltinFunction) {
	in.globals.Define(name, &Builtin{Name: name, Params: arity, Fn: fn})
}

// Resolve records that expr refers to a binding depth environments out from
// where it is evaluated. It is called by the resolver.
func (in *Interpreter) Resolve(expr ast.Expression, depth int) {
	in.locals[expr] = depth
}

// Interpret executes statements in order and stops at the first runtime
// error. The interpreter stays usable afterwards.
func (in *Interpreter) Interpret(stmts []ast.Statement) error {
	in.steps = 0
	in.callDepth = 0
	in.env = in.globals

	for _, stmt := range stmts {
		if err := in.execute(stmt); err != nil {
			if _, ok := err.(*ReturnValue); ok {
				return in.newError(perrors.UnreachableCode, statementToken(stmt),
					map[string]any{"Detail": "return outside of a function"})
			}
			return err
		}
	}
	return nil
}

// newError creates a runtime error located at tok.
func (in *Interpreter) newError(code string, tok lexer.Token, data map[string]any) *perrors.LoxError {
	return perrors.NewAt(code, tok.Line, tok.Column, tok.Start, tok.Lexeme, data)
}

// locate fills in the position of a LoxError raised without one, such as
// an error returned by a native function.
func locate(err error, tok lexer.Token) error {
	if lerr, ok := err.(*perrors.LoxError); ok && lerr.Line == 0 {
		lerr.Line, lerr.Column, lerr.Offset, lerr.Lexeme = tok.Line, tok.Column, tok.Start, tok.Lexeme
	}
	return err
}

// step counts one executed statement against the configured limits.
func (in *Interpreter) step(stmt ast.Statement) error {
	in.steps++
	if in.stepHook != nil {
		if err := in.stepHook(in.steps); err != nil {
			return err
		}
	}
	if in.stepLimit > 0 && in.steps > in.stepLimit {
		return in.newError(perrors.StepLimitExceeded, statementToken(stmt), map[string]any{"Max": in.stepLimit})
	}
	return nil
}

func statementToken(stmt ast.Statement) lexer.Token {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return s.Token
	case *ast.PrintStatement:
		return s.Token
	case *ast.VarStatement:
		return s.Token
	case *ast.BlockStatement:
		return s.Token
	case *ast.IfStatement:
		return s.Token
	case *ast.WhileStatement:
		return s.Token
	case *ast.FunctionStatement:
		return s.Token
	case *ast.ClassStatement:
		return s.Token
	case *ast.ReturnStatement:
		return s.Token
	}
	return lexer.Token{}
}
