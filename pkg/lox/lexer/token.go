package lexer

import "fmt"

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers and literals
	IDENT  // add, foobar, x, y, ...
	NUMBER // 1343456, 3.14159
	STRING // "foobar"

	// Single-character tokens
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	MINUS     // -
	PLUS      // +
	SEMICOLON // ;
	SLASH     // /
	ASTERISK  // *

	// One or two character tokens
	BANG   // !
	NOT_EQ // !=
	ASSIGN // =
	EQ     // ==
	GT     // >
	GT_EQ  // >=
	LT     // <
	LT_EQ  // <=

	// Keywords
	AND    // "and"
	CLASS  // "class"
	ELSE   // "else"
	FALSE  // "false"
	FOR    // "for"
	FUN    // "fun"
	IF     // "if"
	NIL    // "nil"
	OR     // "or"
	PRINT  // "print"
	RETURN // "return"
	SUPER  // "super"
	THIS   // "this"
	TRUE   // "true"
	VAR    // "var"
	WHILE  // "while"
)

var tokenNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	MINUS:     "-",
	PLUS:      "+",
	SEMICOLON: ";",
	SLASH:     "/",
	ASTERISK:  "*",
	BANG:      "!",
	NOT_EQ:    "!=",
	ASSIGN:    "=",
	EQ:        "==",
	GT:        ">",
	GT_EQ:     ">=",
	LT:        "<",
	LT_EQ:     "<=",
	AND:       "and",
	CLASS:     "class",
	ELSE:      "else",
	FALSE:     "false",
	FOR:       "for",
	FUN:       "fun",
	IF:        "if",
	NIL:       "nil",
	OR:        "or",
	PRINT:     "print",
	RETURN:    "return",
	SUPER:     "super",
	THIS:      "this",
	TRUE:      "true",
	VAR:       "var",
	WHILE:     "while",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if tt >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsKeyword reports whether the token type is a reserved word.
func (tt TokenType) IsKeyword() bool {
	return tt >= AND && tt <= WHILE
}

var keywords = map[string]TokenType{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words in alphabetical order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for tt := AND; tt <= WHILE; tt++ {
		words = append(words, tt.String())
	}
	return words
}

// Token represents a single token.
//
// Start and End are byte offsets into the source (End is exclusive). Line and
// Column are 1-based and refer to the first character of the lexeme.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any // float64 for NUMBER, string for STRING, nil otherwise
	Line    int
	Column  int
	Start   int
	End     int
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case NUMBER, STRING:
		return fmt.Sprintf("%s(%v)", t.Type, t.Literal)
	case IDENT:
		return fmt.Sprintf("IDENT(%s)", t.Lexeme)
	}
	return t.Type.String()
}

// Equal compares tokens by type and lexeme only. Position and literal value
// are ignored, so two occurrences of the same name compare equal.
func (t Token) Equal(o Token) bool {
	return t.Type == o.Type && t.Lexeme == o.Lexeme
}
