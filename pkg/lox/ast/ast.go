package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/sambeau/lox/pkg/lox/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	lines := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

// Expressions

// Literal represents number, string, boolean and nil literals.
// Value is float64, string, bool or nil.
type Literal struct {
	Token lexer.Token
	Value any
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return `"` + v + `"`
	}
	return l.Token.Lexeme
}

// Grouping represents a parenthesized expression
type Grouping struct {
	Token      lexer.Token // the '(' token
	Expression Expression
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return g.Token.Lexeme }
func (g *Grouping) String() string       { return "(" + g.Expression.String() + ")" }

// Unary represents prefix operator expressions like -x or !x
type Unary struct {
	Token    lexer.Token // the operator token
	Operator string
	Right    Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Token.Lexeme }
func (u *Unary) String() string {
	return "(" + u.Operator + u.Right.String() + ")"
}

// Binary represents arithmetic, comparison and equality expressions
type Binary struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Token.Lexeme }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// Logical represents the short-circuiting 'and' and 'or' operators
type Logical struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (l *Logical) expressionNode()      {}
func (l *Logical) TokenLiteral() string { return l.Token.Lexeme }
func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}

// Variable represents a reference to a named binding
type Variable struct {
	Token lexer.Token // the identifier token
	Name  string
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Token.Lexeme }
func (v *Variable) String() string       { return v.Name }

// Assign represents assignment to a variable like 'x = 5'
type Assign struct {
	Token lexer.Token // the identifier token
	Name  string
	Value Expression
}

func (a *Assign) expressionNode()      {}
func (a *Assign) TokenLiteral() string { return a.Token.Lexeme }
func (a *Assign) String() string       { return a.Name + " = " + a.Value.String() }

// Call represents a call like 'f(a, b)'
type Call struct {
	Token     lexer.Token // the closing ')' token
	Callee    Expression
	Arguments []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Token.Lexeme }
func (c *Call) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// Get represents property access like 'obj.name'
type Get struct {
	Token  lexer.Token // the property name token
	Object Expression
	Name   string
}

func (g *Get) expressionNode()      {}
func (g *Get) TokenLiteral() string { return g.Token.Lexeme }
func (g *Get) String() string       { return g.Object.String() + "." + g.Name }

// Set represents property assignment like 'obj.name = value'
type Set struct {
	Token  lexer.Token // the property name token
	Object Expression
	Name   string
	Value  Expression
}

func (s *Set) expressionNode()      {}
func (s *Set) TokenLiteral() string { return s.Token.Lexeme }
func (s *Set) String() string {
	return s.Object.String() + "." + s.Name + " = " + s.Value.String()
}

// This represents the 'this' keyword inside a method
type This struct {
	Token lexer.Token
}

func (t *This) expressionNode()      {}
func (t *This) TokenLiteral() string { return t.Token.Lexeme }
func (t *This) String() string       { return "this" }

// Statements

// ExpressionStatement represents an expression evaluated for its effect
type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) String() string       { return es.Expression.String() + ";" }

// PrintStatement represents 'print expr;'
type PrintStatement struct {
	Token      lexer.Token // the 'print' token
	Expression Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Lexeme }
func (ps *PrintStatement) String() string {
	return "print " + ps.Expression.String() + ";"
}

// VarStatement represents 'var x;' or 'var x = value;'
type VarStatement struct {
	Token lexer.Token // the 'var' token
	Name  lexer.Token
	Value Expression // nil when there is no initializer
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Lexeme }
func (vs *VarStatement) String() string {
	if vs.Value == nil {
		return "var " + vs.Name.Lexeme + ";"
	}
	return "var " + vs.Name.Lexeme + " = " + vs.Value.String() + ";"
}

// BlockStatement represents '{ ... }', which opens its own scope
type BlockStatement struct {
	Token      lexer.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	out.WriteString("{")
	for _, s := range bs.Statements {
		out.WriteString(" ")
		out.WriteString(s.String())
	}
	out.WriteString(" }")

	return out.String()
}

// IfStatement represents 'if (cond) stmt' with an optional else branch
type IfStatement struct {
	Token       lexer.Token // the 'if' token
	Condition   Expression
	Consequence Statement
	Alternative Statement // nil without else
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.Consequence.String())

	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}

	return out.String()
}

// WhileStatement represents 'while (cond) body'. 'for' loops are desugared
// into a block holding the initializer and a WhileStatement.
type WhileStatement struct {
	Token     lexer.Token // the 'while' or 'for' token
	Condition Expression
	Body      Statement

	// PerIteration is set for 'for' loops that declare their loop variable.
	// Each iteration then runs with its own copy of the loop scope.
	PerIteration bool
	// HasIncrement is set when the last statement of Body is the 'for'
	// increment clause.
	HasIncrement bool
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Lexeme }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// FunctionStatement represents 'fun name(params) { body }' and class methods
type FunctionStatement struct {
	Token      lexer.Token // the 'fun' token, or the name token for methods
	Name       lexer.Token
	Parameters []lexer.Token
	Body       []Statement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *FunctionStatement) String() string {
	return "fun " + fs.signature()
}

func (fs *FunctionStatement) signature() string {
	var out bytes.Buffer

	params := make([]string, len(fs.Parameters))
	for i, p := range fs.Parameters {
		params[i] = p.Lexeme
	}

	out.WriteString(fs.Name.Lexeme)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") {")
	for _, s := range fs.Body {
		out.WriteString(" ")
		out.WriteString(s.String())
	}
	out.WriteString(" }")

	return out.String()
}

// ClassStatement represents 'class Name { methods }'
type ClassStatement struct {
	Token   lexer.Token // the 'class' token
	Name    lexer.Token
	Methods []*FunctionStatement
}

func (cs *ClassStatement) statementNode()       {}
func (cs *ClassStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *ClassStatement) String() string {
	var out bytes.Buffer

	out.WriteString("class ")
	out.WriteString(cs.Name.Lexeme)
	out.WriteString(" {")
	for _, m := range cs.Methods {
		out.WriteString(" ")
		out.WriteString(m.signature())
	}
	out.WriteString(" }")

	return out.String()
}

// ReturnStatement represents 'return;' or 'return value;'
type ReturnStatement struct {
	Token lexer.Token // the 'return' token
	Value Expression  // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}
