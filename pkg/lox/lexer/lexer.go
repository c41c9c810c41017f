// Package lexer turns Lox source text into tokens.
package lexer

import (
	"strconv"
	"unicode/utf8"

	perrors "github.com/sambeau/lox/pkg/lox/errors"
)

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
}

// New creates a new lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// Scan tokenizes the whole input. It stops at the first error; on success the
// result always ends with exactly one EOF token.
func Scan(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents EOF
		l.position = l.readPosition
		return
	}

	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// NextToken scans the input and returns the next token.
//
// On error the offending input has been consumed, so the caller may keep
// asking for tokens. After EOF every further call returns EOF again.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespaceAndComments()

	start, line, column := l.position, l.line, l.column

	if l.atEnd() {
		return Token{Type: EOF, Line: line, Column: column + 1, Start: len(l.input), End: len(l.input)}, nil
	}

	tok := Token{Line: line, Column: column, Start: start}

	switch l.ch {
	case '(':
		tok.Type = LPAREN
	case ')':
		tok.Type = RPAREN
	case '{':
		tok.Type = LBRACE
	case '}':
		tok.Type = RBRACE
	case ',':
		tok.Type = COMMA
	case '.':
		tok.Type = DOT
	case '-':
		tok.Type = MINUS
	case '+':
		tok.Type = PLUS
	case ';':
		tok.Type = SEMICOLON
	case '/':
		tok.Type = SLASH
	case '*':
		tok.Type = ASTERISK
	case '!':
		tok.Type = l.either('=', NOT_EQ, BANG)
	case '=':
		tok.Type = l.either('=', EQ, ASSIGN)
	case '<':
		tok.Type = l.either('=', LT_EQ, LT)
	case '>':
		tok.Type = l.either('=', GT_EQ, GT)
	case '"':
		return l.readString(tok)
	default:
		if isDigit(l.ch) {
			return l.readNumber(tok), nil
		}
		if isLetter(l.ch) {
			return l.readIdentifier(tok), nil
		}
		return l.illegal(tok)
	}

	l.readChar()
	tok.End = l.position
	tok.Lexeme = l.input[start:tok.End]
	return tok, nil
}

// either consumes the next character if it is want and returns match,
// otherwise it returns single.
func (l *Lexer) either(want byte, match, single TokenType) TokenType {
	if l.peekChar() == want {
		l.readChar()
		return match
	}
	return single
}

// illegal consumes one (possibly multi-byte) character and reports it.
func (l *Lexer) illegal(tok Token) (Token, error) {
	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	for i := 0; i < size; i++ {
		l.readChar()
	}
	tok.Type = ILLEGAL
	tok.End = tok.Start + size
	tok.Lexeme = l.input[tok.Start:tok.End]
	err := perrors.NewAt(perrors.InvalidCharacter, tok.Line, tok.Column, tok.Start, tok.Lexeme,
		map[string]any{"Char": string(r)})
	return tok, err
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(tok Token) Token {
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	tok.End = l.position
	tok.Lexeme = l.input[tok.Start:tok.End]
	tok.Type = LookupIdent(tok.Lexeme)
	return tok
}

// readNumber reads a number. A trailing '.' without a digit after it is left
// for the next token.
func (l *Lexer) readNumber(tok Token) Token {
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume the '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	tok.Type = NUMBER
	tok.End = l.position
	tok.Lexeme = l.input[tok.Start:tok.End]
	// A run of digits with an optional fraction always parses.
	tok.Literal, _ = strconv.ParseFloat(tok.Lexeme, 64)
	return tok
}

// readString reads a double-quoted string. Strings may span lines and have
// no escape sequences.
func (l *Lexer) readString(tok Token) (Token, error) {
	l.readChar() // skip opening quote

	for l.ch != '"' && !l.atEnd() {
		l.readChar()
	}

	if l.atEnd() {
		tok.Type = ILLEGAL
		tok.End = len(l.input)
		tok.Lexeme = l.input[tok.Start:tok.End]
		return tok, perrors.NewAt(perrors.UnterminatedString, tok.Line, tok.Column, tok.Start, tok.Lexeme, nil)
	}

	l.readChar() // skip closing quote
	tok.Type = STRING
	tok.End = l.position
	tok.Lexeme = l.input[tok.Start:tok.End]
	tok.Literal = l.input[tok.Start+1 : tok.End-1]
	return tok, nil
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		switch l.ch {
		case ' ', '\t', '\r', '\n':
			l.readChar()
		case '/':
			if l.peekChar() != '/' {
				return
			}
			for l.ch != '\n' && !l.atEnd() {
				l.readChar()
			}
		default:
			return
		}
	}
}

// isLetter checks if a byte starts or continues an identifier
func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
