package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestLoxError_String(t *testing.T) {
	tests := []struct {
		name     string
		err      *LoxError
		expected string
	}{
		{
			name:     "message only",
			err:      &LoxError{Message: "something went wrong"},
			expected: "something went wrong",
		},
		{
			name: "with line and column",
			err: &LoxError{
				Message: "unterminated string",
				Line:    5,
				Column:  10,
			},
			expected: "line 5, column 10 -> unterminated string",
		},
		{
			name: "with lexeme",
			err: &LoxError{
				Message: "invalid assignment target",
				Line:    1,
				Column:  7,
				Lexeme:  "=",
			},
			expected: "line 1, column 7 near '=' -> invalid assignment target",
		},
		{
			name: "with file",
			err: &LoxError{
				Message: "expected expression, got ';'",
				File:    "test.lox",
				Line:    3,
				Column:  1,
			},
			expected: "test.lox: line 3, column 1 -> expected expression, got ';'",
		},
		{
			name: "with hints",
			err: &LoxError{
				Message: "undefined variable 'cont'",
				Line:    1,
				Column:  1,
				Hints:   []string{"Did you mean `count`?"},
			},
			expected: "line 1, column 1 -> undefined variable 'cont'\n  Did you mean `count`?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.String()
			if got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLoxError_PrettyString(t *testing.T) {
	tests := []struct {
		name     string
		err      *LoxError
		contains []string
	}{
		{
			name: "scanner error",
			err: &LoxError{
				Class:   ClassScan,
				Message: "unexpected character '@'",
				Line:    2,
				Column:  4,
			},
			contains: []string{"Scanner error", "line 2, column 4", "unexpected character '@'"},
		},
		{
			name: "resolver error with file",
			err: &LoxError{
				Class:   ClassResolve,
				Message: "can't return from top-level code",
				File:    "main.lox",
				Line:    1,
				Column:  1,
			},
			contains: []string{"Resolver error", "in: main.lox", "at: line 1, column 1"},
		},
		{
			name: "runtime error with hint",
			err: &LoxError{
				Class:   ClassUndefined,
				Message: "undefined variable 'x'",
				Hints:   []string{"Did you mean `y`?"},
			},
			contains: []string{"Runtime error", "undefined variable 'x'", "hint: Did you mean `y`?"},
		},
		{
			name: "io error",
			err: &LoxError{
				Class:   ClassIO,
				Message: "failed to read 'x.lox'",
			},
			contains: []string{"I/O error", "failed to read 'x.lox'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.PrettyString()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("PrettyString() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestLoxError_ToJSON(t *testing.T) {
	err := NewAt(UnknownVariable, 3, 5, 20, "foo", map[string]any{"Name": "foo"})

	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON() error: %v", jerr)
	}

	var decoded map[string]any
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("invalid JSON: %v", jerr)
	}

	if decoded["code"] != UnknownVariable {
		t.Errorf("code = %v, want %s", decoded["code"], UnknownVariable)
	}
	if decoded["class"] != string(ClassUndefined) {
		t.Errorf("class = %v, want %s", decoded["class"], ClassUndefined)
	}
	if decoded["line"] != float64(3) {
		t.Errorf("line = %v, want 3", decoded["line"])
	}
	if decoded["lexeme"] != "foo" {
		t.Errorf("lexeme = %v, want foo", decoded["lexeme"])
	}
	if _, ok := decoded["file"]; ok {
		t.Errorf("empty file should be omitted")
	}
}

func TestNew_WithCatalog(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		data        map[string]any
		wantClass   ErrorClass
		wantMessage string
		wantHints   int
	}{
		{
			name:        "invalid character",
			code:        InvalidCharacter,
			data:        map[string]any{"Char": "#"},
			wantClass:   ClassScan,
			wantMessage: "unexpected character '#'",
		},
		{
			name:        "consume with expectation",
			code:        InvalidConsumeType,
			data:        map[string]any{"Expected": "';' after value", "Got": "}"},
			wantClass:   ClassParse,
			wantMessage: "expected ';' after value, got '}'",
		},
		{
			name:        "argument cap",
			code:        MaxArgNumber,
			data:        map[string]any{"Max": 255, "What": "arguments"},
			wantClass:   ClassParse,
			wantMessage: "can't have more than 255 arguments",
		},
		{
			name:        "assign target has hint",
			code:        InvalidAssignTarget,
			wantClass:   ClassParse,
			wantMessage: "invalid assignment target",
			wantHints:   1,
		},
		{
			name:        "arity",
			code:        InvalidArgsCount,
			data:        map[string]any{"Want": 2, "Got": 3},
			wantClass:   ClassArity,
			wantMessage: "expected 2 arguments but got 3",
		},
		{
			name:        "addable operands",
			code:        ExpectedAddableOperands,
			data:        map[string]any{"Left": "number", "Right": "string"},
			wantClass:   ClassType,
			wantMessage: "operands of '+' must be two numbers or two strings, got number and string",
		},
		{
			name:        "unknown code falls back to message",
			code:        "CUSTOM-0001",
			data:        map[string]any{"message": "custom failure"},
			wantClass:   ClassState,
			wantMessage: "custom failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.data)
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
			if err.Class != tt.wantClass {
				t.Errorf("Class = %q, want %q", err.Class, tt.wantClass)
			}
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if len(err.Hints) != tt.wantHints {
				t.Errorf("len(Hints) = %d, want %d", len(err.Hints), tt.wantHints)
			}
		})
	}
}

func TestNewAt(t *testing.T) {
	err := NewAt(ExpectedExpression, 4, 9, 42, ")", map[string]any{"Got": ")"})
	if err.Line != 4 || err.Column != 9 || err.Offset != 42 {
		t.Errorf("position = %d:%d@%d, want 4:9@42", err.Line, err.Column, err.Offset)
	}
	if err.Lexeme != ")" {
		t.Errorf("Lexeme = %q, want %q", err.Lexeme, ")")
	}
	if err.Message != "expected expression, got ')'" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestLoxError_WithFile(t *testing.T) {
	original := &LoxError{Message: "boom", Line: 1, Column: 1}
	withFile := original.WithFile("script.lox")

	if withFile.File != "script.lox" {
		t.Errorf("File = %q, want %q", withFile.File, "script.lox")
	}
	if original.File != "" {
		t.Errorf("original was modified: File = %q", original.File)
	}
}

func TestLoxError_IsStatic(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ClassScan, true},
		{ClassParse, true},
		{ClassResolve, true},
		{ClassType, false},
		{ClassLimit, false},
		{ClassIO, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			err := &LoxError{Class: tt.class}
			if got := err.IsStatic(); got != tt.want {
				t.Errorf("IsStatic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	var empty List
	if empty.Err() != nil {
		t.Errorf("empty list Err() should be nil")
	}

	list := List{
		NewAt(InvalidCharacter, 3, 1, 0, "#", map[string]any{"Char": "#"}),
		NewAt(UnterminatedString, 1, 5, 0, "\"abc", nil),
	}
	list.Sort()
	if list[0].Code != UnterminatedString {
		t.Errorf("Sort() first = %s, want %s", list[0].Code, UnterminatedString)
	}

	err := list.Err()
	if err == nil {
		t.Fatal("non-empty list Err() should not be nil")
	}
	if got := strings.Count(err.Error(), "\n"); got < 2 {
		t.Errorf("Error() should list every error, got %q", err.Error())
	}

	var lerr *LoxError
	if !stderrors.As(err, &lerr) {
		t.Fatal("errors.As should find a *LoxError inside a List")
	}
}

func TestHasCode(t *testing.T) {
	single := New(TopLevelReturn, nil)
	list := List{New(VariableAlreadyExists, map[string]any{"Name": "a"}), single}
	wrapped := fmt.Errorf("running: %w", single)

	if !HasCode(single, TopLevelReturn) {
		t.Error("HasCode(single) = false")
	}
	if !HasCode(list, VariableAlreadyExists) {
		t.Error("HasCode(list) = false")
	}
	if !HasCode(wrapped, TopLevelReturn) {
		t.Error("HasCode(wrapped) = false")
	}
	if HasCode(list, StackOverflow) {
		t.Error("HasCode(list, StackOverflow) = true")
	}
	if HasCode(nil, TopLevelReturn) {
		t.Error("HasCode(nil) = true")
	}
	if HasCode(stderrors.New("plain"), TopLevelReturn) {
		t.Error("HasCode(plain) = true")
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"print", "prnt", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFindClosestMatch(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
	}{
		{"close match", "cont", []string{"count", "total"}, "count"},
		{"exact match is not a suggestion", "count", []string{"count"}, ""},
		{"too far", "x", []string{"counter"}, ""},
		{"case insensitive", "Clock", []string{"clock"}, ""},
		{"no candidates", "x", nil, ""},
		{"empty input", "", []string{"a"}, ""},
		{"long word", "formatNumbr", []string{"formatNumber", "parseDate"}, "formatNumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindClosestMatch(tt.input, tt.candidates); got != tt.want {
				t.Errorf("FindClosestMatch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewUndefinedVariable(t *testing.T) {
	err := NewUndefinedVariable("cont", []string{"count", "clock"})
	if err.Code != UnknownVariable {
		t.Errorf("Code = %q, want %q", err.Code, UnknownVariable)
	}
	if err.Message != "undefined variable 'cont'" {
		t.Errorf("Message = %q", err.Message)
	}
	if len(err.Hints) != 1 || err.Hints[0] != "Did you mean `count`?" {
		t.Errorf("Hints = %v", err.Hints)
	}

	none := NewUndefinedVariable("zzzzzz", []string{"clock"})
	if len(none.Hints) != 0 {
		t.Errorf("unexpected hints: %v", none.Hints)
	}
}
