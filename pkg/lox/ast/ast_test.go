package ast

import (
	"testing"

	"github.com/sambeau/lox/pkg/lox/lexer"
)

func ident(name string) lexer.Token {
	return lexer.Token{Type: lexer.IDENT, Lexeme: name}
}

func num(v float64) *Literal {
	return &Literal{Token: lexer.Token{Type: lexer.NUMBER}, Value: v}
}

func TestString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&VarStatement{
				Token: lexer.Token{Type: lexer.VAR, Lexeme: "var"},
				Name:  ident("x"),
				Value: &Binary{
					Left:     num(1),
					Operator: "+",
					Right:    &Binary{Left: num(2), Operator: "*", Right: num(3.5)},
				},
			},
			&PrintStatement{
				Expression: &Logical{
					Left:     &Unary{Operator: "!", Right: &Literal{Value: true}},
					Operator: "or",
					Right:    &Literal{Value: nil},
				},
			},
			&VarStatement{Name: ident("y")},
		},
	}

	want := "var x = (1 + (2 * 3.5));\nprint ((!true) or nil);\nvar y;"
	if got := program.String(); got != want {
		t.Errorf("program.String() wrong.\n got=%q\nwant=%q", got, want)
	}
}

func TestStatementStrings(t *testing.T) {
	body := []Statement{
		&ReturnStatement{Value: &Variable{Name: "a"}},
	}
	fn := &FunctionStatement{
		Name:       ident("f"),
		Parameters: []lexer.Token{ident("a"), ident("b")},
		Body:       body,
	}

	tests := []struct {
		name string
		node Node
		want string
	}{
		{"function", fn, "fun f(a, b) { return a; }"},
		{"class", &ClassStatement{Name: ident("C"), Methods: []*FunctionStatement{fn}}, "class C { f(a, b) { return a; } }"},
		{"bare return", &ReturnStatement{}, "return;"},
		{
			"if else",
			&IfStatement{
				Condition:   &Variable{Name: "c"},
				Consequence: &PrintStatement{Expression: &Literal{Value: "yes"}},
				Alternative: &BlockStatement{},
			},
			`if (c) print "yes"; else { }`,
		},
		{
			"while",
			&WhileStatement{
				Condition: &Literal{Value: false},
				Body:      &BlockStatement{Statements: []Statement{&ExpressionStatement{Expression: &Assign{Name: "i", Value: num(1)}}}},
			},
			"while (false) { i = 1; }",
		},
		{
			"call get set",
			&Set{
				Object: &Call{Callee: &Get{Object: &This{}, Name: "m"}, Arguments: []Expression{num(1), &Grouping{Expression: num(2)}}},
				Name:   "x",
				Value:  &Literal{Value: "s"},
			},
			`this.m(1, (2)).x = "s"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
