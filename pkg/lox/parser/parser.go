// Package parser builds an AST from a token stream by recursive descent.
package parser

import (
	"fmt"
	"strings"

	"github.com/sambeau/lox/pkg/lox/ast"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lexer"
)

// MaxArgs caps the number of call arguments and function parameters.
const MaxArgs = 255

// Parser represents the parser
type Parser struct {
	tokens []lexer.Token
	pos    int

	prevToken lexer.Token
	curToken  lexer.Token

	errors perrors.List
}

// New creates a parser over tokens. An EOF token is appended if the slice
// does not already end with one.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		eof := lexer.Token{Type: lexer.EOF, Line: 1, Column: 1}
		if n := len(tokens); n > 0 {
			last := tokens[n-1]
			eof.Line, eof.Column, eof.Start, eof.End = last.Line, last.Column+len(last.Lexeme), last.End, last.End
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}
	p := &Parser{tokens: tokens}
	p.curToken = tokens[0]
	return p
}

// Parse parses tokens into statements. When any error was collected the
// statements that did parse are returned together with an errors.List.
func Parse(tokens []lexer.Token) ([]ast.Statement, error) {
	p := New(tokens)
	program := p.ParseProgram()
	return program.Statements, p.errors.Err()
}

// Errors returns the errors collected while parsing.
func (p *Parser) Errors() perrors.List {
	return p.errors
}

// addError records an error located at tok.
func (p *Parser) addError(code string, tok lexer.Token, data map[string]any) *perrors.LoxError {
	err := perrors.NewAt(code, tok.Line, tok.Column, tok.Start, tok.Lexeme, data)
	p.errors = append(p.errors, err)
	return err
}

// ParseProgram parses the program and returns the AST. After an error the
// parser synchronizes on the next statement boundary and keeps going.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseDeclaration()
		if stmt == nil {
			p.synchronize()
			continue
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program
}

// nextToken advances prevToken and curToken. It never moves past EOF.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	if p.pos+1 >= len(p.tokens) {
		return t == lexer.EOF
	}
	return p.tokens[p.pos+1].Type == t
}

// match consumes the current token if it has one of the given types.
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.curTokenIs(t) {
			p.nextToken()
			return true
		}
	}
	return false
}

// expect consumes a token of type t or records InvalidConsumeType.
// what describes the expected token in the error message.
func (p *Parser) expect(t lexer.TokenType, what string) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(perrors.InvalidConsumeType, p.curToken, map[string]any{
		"Expected": what,
		"Got":      describe(p.curToken),
	})
	return false
}

// expectIdent consumes an identifier and returns it.
func (p *Parser) expectIdent(what string) (lexer.Token, bool) {
	tok := p.curToken
	if !p.expect(lexer.IDENT, what) {
		return tok, false
	}
	return tok, true
}

// synchronize discards tokens until the start of the next statement.
func (p *Parser) synchronize() {
	p.nextToken()

	for !p.curTokenIs(lexer.EOF) {
		if p.prevToken.Type == lexer.SEMICOLON {
			return
		}

		switch p.curToken.Type {
		case lexer.CLASS, lexer.FUN, lexer.VAR, lexer.FOR, lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}

		p.nextToken()
	}
}

// Declarations

func (p *Parser) parseDeclaration() ast.Statement {
	switch p.curToken.Type {
	case lexer.CLASS:
		return p.parseClassStatement()
	case lexer.FUN:
		tok := p.curToken
		p.nextToken()
		fn := p.parseFunction(tok, "function")
		if fn == nil {
			return nil
		}
		return fn
	case lexer.VAR:
		v := p.parseVarStatement()
		if v == nil {
			return nil
		}
		return v
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseClassStatement() ast.Statement {
	stmt := &ast.ClassStatement{Token: p.curToken}
	p.nextToken()

	name, ok := p.expectIdent("class name")
	if !ok {
		return nil
	}
	stmt.Name = name

	if !p.expect(lexer.LBRACE, "'{' before class body") {
		return nil
	}

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		method := p.parseFunction(p.curToken, "method")
		if method == nil {
			return nil
		}
		stmt.Methods = append(stmt.Methods, method)
	}

	if !p.expect(lexer.RBRACE, "'}' after class body") {
		return nil
	}
	return stmt
}

// parseFunction parses a function or method after any 'fun' keyword.
// kind is "function" or "method" and only shapes error messages.
func (p *Parser) parseFunction(tok lexer.Token, kind string) *ast.FunctionStatement {
	fn := &ast.FunctionStatement{Token: tok}

	name, ok := p.expectIdent(kind + " name")
	if !ok {
		return nil
	}
	fn.Name = name

	if !p.expect(lexer.LPAREN, "'(' after "+kind+" name") {
		return nil
	}

	if !p.curTokenIs(lexer.RPAREN) {
		for {
			if len(fn.Parameters) >= MaxArgs {
				p.addError(perrors.MaxArgNumber, p.curToken, map[string]any{"Max": MaxArgs, "What": "parameters"})
			}
			param, ok := p.expectIdent("parameter name")
			if !ok {
				return nil
			}
			fn.Parameters = append(fn.Parameters, param)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	if !p.expect(lexer.RPAREN, "')' after parameters") {
		return nil
	}
	if !p.expect(lexer.LBRACE, "'{' before "+kind+" body") {
		return nil
	}

	body, ok := p.parseBlockStatements()
	if !ok {
		return nil
	}
	fn.Body = body
	return fn
}

func (p *Parser) parseVarStatement() *ast.VarStatement {
	stmt := &ast.VarStatement{Token: p.curToken}
	p.nextToken()

	name, ok := p.expectIdent("variable name")
	if !ok {
		return nil
	}
	stmt.Name = name

	if p.match(lexer.ASSIGN) {
		stmt.Value = p.parseExpression()
		if stmt.Value == nil {
			return nil
		}
	}

	if !p.expect(lexer.SEMICOLON, "';' after variable declaration") {
		return nil
	}
	return stmt
}

// Statements

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.PRINT:
		return p.parsePrintStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseForStatement desugars 'for (init; cond; incr) body' into
//
//	{ init; while (cond) { body; incr; } }
func (p *Parser) parseForStatement() ast.Statement {
	forTok := p.curToken
	p.nextToken()

	if !p.expect(lexer.LPAREN, "'(' after 'for'") {
		return nil
	}

	var init ast.Statement
	perIteration := false
	switch {
	case p.match(lexer.SEMICOLON):
	case p.curTokenIs(lexer.VAR):
		v := p.parseVarStatement()
		if v == nil {
			return nil
		}
		init = v
		perIteration = true
	default:
		es := p.parseExpressionStatement()
		if es == nil {
			return nil
		}
		init = es
	}

	var condition ast.Expression
	if !p.curTokenIs(lexer.SEMICOLON) {
		if condition = p.parseExpression(); condition == nil {
			return nil
		}
	}
	if !p.expect(lexer.SEMICOLON, "';' after loop condition") {
		return nil
	}

	var increment ast.Expression
	incrTok := p.curToken
	if !p.curTokenIs(lexer.RPAREN) {
		if increment = p.parseExpression(); increment == nil {
			return nil
		}
	}
	if !p.expect(lexer.RPAREN, "')' after for clauses") {
		return nil
	}

	body := p.parseStatement()
	if body == nil {
		return nil
	}

	if increment != nil {
		body = &ast.BlockStatement{
			Token: forTok,
			Statements: []ast.Statement{
				body,
				&ast.ExpressionStatement{Token: incrTok, Expression: increment},
			},
		}
	}

	if condition == nil {
		condition = &ast.Literal{Token: forTok, Value: true}
	}

	loop := &ast.WhileStatement{
		Token:        forTok,
		Condition:    condition,
		Body:         body,
		PerIteration: perIteration,
		HasIncrement: increment != nil,
	}

	if init == nil {
		return loop
	}
	return &ast.BlockStatement{Token: forTok, Statements: []ast.Statement{init, loop}}
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken()

	if !p.expect(lexer.LPAREN, "'(' after 'if'") {
		return nil
	}
	if stmt.Condition = p.parseExpression(); stmt.Condition == nil {
		return nil
	}
	if !p.expect(lexer.RPAREN, "')' after if condition") {
		return nil
	}

	if stmt.Consequence = p.parseStatement(); stmt.Consequence == nil {
		return nil
	}
	if p.match(lexer.ELSE) {
		if stmt.Alternative = p.parseStatement(); stmt.Alternative == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	p.nextToken()

	if stmt.Expression = p.parseExpression(); stmt.Expression == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON, "';' after value") {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	p.nextToken()

	if !p.curTokenIs(lexer.SEMICOLON) {
		if stmt.Value = p.parseExpression(); stmt.Value == nil {
			return nil
		}
	}
	if !p.expect(lexer.SEMICOLON, "';' after return value") {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()

	if !p.expect(lexer.LPAREN, "'(' after 'while'") {
		return nil
	}
	if stmt.Condition = p.parseExpression(); stmt.Condition == nil {
		return nil
	}
	if !p.expect(lexer.RPAREN, "')' after condition") {
		return nil
	}
	if stmt.Body = p.parseStatement(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseBlockStatement() ast.Statement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()

	statements, ok := p.parseBlockStatements()
	if !ok {
		return nil
	}
	block.Statements = statements
	return block
}

// parseBlockStatements parses declarations up to and including the closing
// '}'. Errors inside the block are recorded and skipped so the rest of the
// block is still checked.
func (p *Parser) parseBlockStatements() ([]ast.Statement, bool) {
	statements := []ast.Statement{}

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseDeclaration()
		if stmt == nil {
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}

	if !p.expect(lexer.RBRACE, "'}' after block") {
		return nil, false
	}
	return statements, true
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curToken

	if p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.IDENT) {
		if hint := keywordTypo(tok.Lexeme); hint != "" {
			p.nextToken()
			err := p.addError(perrors.InvalidConsumeType, p.curToken, map[string]any{
				"Expected": "';' after expression",
				"Got":      describe(p.curToken),
			})
			err.Hints = append(err.Hints, hint)
			return nil
		}
	}

	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON, "';' after expression") {
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// Expressions, from lowest to highest precedence:
//
//	assignment → or → and → equality → comparison → term → factor → unary → call → primary

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expression {
	expr := p.parseOr()
	if expr == nil {
		return nil
	}

	if !p.curTokenIs(lexer.ASSIGN) {
		return expr
	}

	equals := p.curToken
	p.nextToken()
	value := p.parseAssignment()
	if value == nil {
		return nil
	}

	switch target := expr.(type) {
	case *ast.Variable:
		return &ast.Assign{Token: target.Token, Name: target.Name, Value: value}
	case *ast.Get:
		return &ast.Set{Token: target.Token, Object: target.Object, Name: target.Name, Value: value}
	}

	// Reported without unwinding: the rest of the statement is still well formed.
	p.addError(perrors.InvalidAssignTarget, equals, nil)
	return expr
}

func (p *Parser) parseOr() ast.Expression {
	return p.parseLogical(p.parseAnd, lexer.OR)
}

func (p *Parser) parseAnd() ast.Expression {
	return p.parseLogical(p.parseEquality, lexer.AND)
}

func (p *Parser) parseLogical(next func() ast.Expression, op lexer.TokenType) ast.Expression {
	left := next()
	for left != nil && p.curTokenIs(op) {
		tok := p.curToken
		p.nextToken()
		right := next()
		if right == nil {
			return nil
		}
		left = &ast.Logical{Token: tok, Left: left, Operator: tok.Lexeme, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	return p.parseBinary(p.parseComparison, lexer.EQ, lexer.NOT_EQ)
}

func (p *Parser) parseComparison() ast.Expression {
	return p.parseBinary(p.parseTerm, lexer.GT, lexer.GT_EQ, lexer.LT, lexer.LT_EQ)
}

func (p *Parser) parseTerm() ast.Expression {
	return p.parseBinary(p.parseFactor, lexer.MINUS, lexer.PLUS)
}

func (p *Parser) parseFactor() ast.Expression {
	return p.parseBinary(p.parseUnary, lexer.SLASH, lexer.ASTERISK)
}

// parseBinary parses a left-associative level of binary operators.
func (p *Parser) parseBinary(next func() ast.Expression, ops ...lexer.TokenType) ast.Expression {
	left := next()
	for left != nil && p.match(ops...) {
		tok := p.prevToken
		right := next()
		if right == nil {
			return nil
		}
		left = &ast.Binary{Token: tok, Left: left, Operator: tok.Lexeme, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.match(lexer.BANG, lexer.MINUS) {
		tok := p.prevToken
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		return &ast.Unary{Token: tok, Operator: tok.Lexeme, Right: right}
	}
	return p.parseCall()
}

func (p *Parser) parseCall() ast.Expression {
	expr := p.parsePrimary()

	for expr != nil {
		switch {
		case p.match(lexer.LPAREN):
			expr = p.finishCall(expr)
		case p.match(lexer.DOT):
			name, ok := p.expectIdent("property name after '.'")
			if !ok {
				return nil
			}
			expr = &ast.Get{Token: name, Object: expr, Name: name.Lexeme}
		default:
			return expr
		}
	}
	return nil
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	call := &ast.Call{Callee: callee, Arguments: []ast.Expression{}}

	if !p.curTokenIs(lexer.RPAREN) {
		for {
			if len(call.Arguments) >= MaxArgs {
				p.addError(perrors.MaxArgNumber, p.curToken, map[string]any{"Max": MaxArgs, "What": "arguments"})
			}
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			call.Arguments = append(call.Arguments, arg)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	if !p.expect(lexer.RPAREN, "')' after arguments") {
		return nil
	}
	call.Token = p.prevToken
	return call
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.curToken

	switch tok.Type {
	case lexer.FALSE:
		p.nextToken()
		return &ast.Literal{Token: tok, Value: false}
	case lexer.TRUE:
		p.nextToken()
		return &ast.Literal{Token: tok, Value: true}
	case lexer.NIL:
		p.nextToken()
		return &ast.Literal{Token: tok, Value: nil}
	case lexer.NUMBER, lexer.STRING:
		p.nextToken()
		return &ast.Literal{Token: tok, Value: tok.Literal}
	case lexer.THIS:
		p.nextToken()
		return &ast.This{Token: tok}
	case lexer.IDENT:
		p.nextToken()
		return &ast.Variable{Token: tok, Name: tok.Lexeme}
	case lexer.LPAREN:
		p.nextToken()
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		if !p.expect(lexer.RPAREN, "')' after expression") {
			return nil
		}
		return &ast.Grouping{Token: tok, Expression: inner}
	}

	p.addError(perrors.ExpectedExpression, tok, map[string]any{"Got": describe(tok)})
	return nil
}

// describe names a token for error messages.
func describe(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of input"
	}
	return tok.Lexeme
}

// keywordTypo checks if an identifier at the start of a statement is a
// misspelled keyword or a keyword borrowed from another language.
// Returns a hint, or "" if the identifier is not a known typo.
func keywordTypo(ident string) string {
	lower := strings.ToLower(ident)

	varTypos := map[string]bool{
		"let": true, "const": true, "val": true, "local": true, "auto": true,
		"vra": true, "avr": true, "varr": true,
	}
	if varTypos[lower] {
		return fmt.Sprintf("unknown keyword '%s'. Did you mean 'var'? Variables are declared with: var x = 5;", ident)
	}

	funTypos := map[string]bool{
		"fn": true, "func": true, "function": true, "def": true, "fnu": true,
		"funn": true, "fucntion": true, "funtion": true,
	}
	if funTypos[lower] {
		return fmt.Sprintf("unknown keyword '%s'. Did you mean 'fun'? Functions are declared with: fun name(a, b) { ... }", ident)
	}

	returnTypos := map[string]bool{
		"retrun": true, "reutrn": true, "retrn": true, "retunr": true,
		"rerturn": true, "returm": true, "retutn": true, "ret": true,
	}
	if returnTypos[lower] {
		return fmt.Sprintf("unknown keyword '%s'. Did you mean 'return'?", ident)
	}

	printTypos := map[string]bool{
		"pritn": true, "prnt": true, "pirnt": true, "prin": true, "echo": true, "puts": true,
	}
	if printTypos[lower] {
		return fmt.Sprintf("unknown keyword '%s'. Did you mean 'print'?", ident)
	}

	classTypos := map[string]bool{
		"calss": true, "clas": true, "klass": true, "struct": true,
	}
	if classTypos[lower] {
		return fmt.Sprintf("unknown keyword '%s'. Did you mean 'class'?", ident)
	}

	return ""
}
