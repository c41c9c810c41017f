package resolver

import (
	"reflect"
	"testing"

	"github.com/sambeau/lox/pkg/lox/ast"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/lexer"
	"github.com/sambeau/lox/pkg/lox/parser"
)

// recorder collects distances by site: "x" for a read of x, "=x" for an
// assignment to x and "this" for this.
type recorder struct {
	depths map[string][]int
	nodes  map[ast.Expression]int
}

func newRecorder() *recorder {
	return &recorder{depths: map[string][]int{}, nodes: map[ast.Expression]int{}}
}

func (r *recorder) Resolve(expr ast.Expression, depth int) {
	var key string
	switch e := expr.(type) {
	case *ast.Variable:
		key = e.Name
	case *ast.Assign:
		key = "=" + e.Name
	case *ast.This:
		key = "this"
	default:
		panic("unexpected expression bound")
	}
	r.depths[key] = append(r.depths[key], depth)
	r.nodes[expr] = depth
}

func parse(t *testing.T, input string) []ast.Statement {
	t.Helper()
	tokens, err := lexer.Scan(input)
	if err != nil {
		t.Fatalf("Scan(%q) error: %v", input, err)
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", input, err)
	}
	return stmts
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   string
		line   int
		column int
	}{
		{"global self initializer", "var a = a;", perrors.VariableNotInitialized, 1, 9},
		{"global self initializer in expression", "var a = 1 + a;", perrors.VariableNotInitialized, 1, 13},
		{"local self initializer", "{ var a = a; }", perrors.VariableNotInitialized, 1, 11},
		{"shadowing self initializer", "var a = 1; { var a = a; }", perrors.VariableNotInitialized, 1, 22},
		{"redeclared local", "fun f(){ var x=1; var x=2; }", perrors.VariableAlreadyExists, 1, 23},
		{"duplicate parameter", "fun f(a, a) {}", perrors.VariableAlreadyExists, 1, 10},
		{"top level return", "return 1;", perrors.TopLevelReturn, 1, 1},
		{"return in top level block", "{ return; }", perrors.TopLevelReturn, 1, 3},
		{"this at top level", "print this;", perrors.InvalidThis, 1, 7},
		{"this in plain function", "fun f() { return this; }", perrors.InvalidThis, 1, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Resolve(parse(t, tt.input), newRecorder())
			if err == nil {
				t.Fatalf("expected %s for %q", tt.code, tt.input)
			}
			errs := perrors.All(err)
			if errs[0].Code != tt.code {
				t.Fatalf("Code = %s, want %s (%v)", errs[0].Code, tt.code, err)
			}
			if errs[0].Class != perrors.ClassResolve {
				t.Errorf("Class = %s, want resolve", errs[0].Class)
			}
			if errs[0].Line != tt.line || errs[0].Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", errs[0].Line, errs[0].Column, tt.line, tt.column)
			}
		})
	}
}

func TestResolveValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"shadowing in nested block", "fun f(){ var x=1; { var x=2; } }"},
		{"global redeclaration", "var x = 1; var x = 2;"},
		{"global reads other global", "var a = 1; var b = a;"},
		{"global initializer reads outer global in function", "var a = 1; fun f() { var a = 2; return a; }"},
		{"return in function", "fun f() { return 1; }"},
		{"bare return in initializer", "class C { init() { return; } }"},
		{"return value in initializer", "class C { init() { return 1; } }"},
		{"this in method", "class C { m() { return this; } }"},
		{"this in nested function inside method", "class C { m() { fun g() { return this; } return g; } }"},
		{"recursive function", "fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }"},
		{"class referencing itself", "class C { make() { return C(); } }"},
		{"undeclared global", "print undefinedSoFar;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Resolve(parse(t, tt.input), newRecorder()); err != nil {
				t.Errorf("unexpected error for %q: %v", tt.input, err)
			}
		})
	}
}

func TestResolveCollectsAllErrors(t *testing.T) {
	err := Resolve(parse(t, "return 1;\nprint this;\nfun f(){ var x; var x; }"), newRecorder())

	errs := perrors.All(err)
	want := []string{perrors.TopLevelReturn, perrors.InvalidThis, perrors.VariableAlreadyExists}
	if len(errs) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(errs), len(want), err)
	}
	for i, code := range want {
		if errs[i].Code != code {
			t.Errorf("errs[%d].Code = %s, want %s", i, errs[i].Code, code)
		}
	}
}

func TestDistances(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string][]int
	}{
		{
			"globals are not recorded",
			"var g = 1; print g; g = 2;",
			map[string][]int{},
		},
		{
			"nested blocks",
			"var g = 1; { var a = 1; { print a; print g; a = 2; } }",
			map[string][]int{"a": {1}, "=a": {1}},
		},
		{
			"closure",
			"fun outer() { var x = 1; fun inner() { return x; } return inner; }",
			map[string][]int{"x": {1}, "inner": {0}},
		},
		{
			"parameters",
			"fun add(a, b) { return a + b; }",
			map[string][]int{"a": {0}, "b": {0}},
		},
		{
			"this in method",
			"class C { m() { return this; } n() { { return this; } } }",
			map[string][]int{"this": {1, 2}},
		},
		{
			"for loop",
			"for (var i = 0; i < 3; i = i + 1) { print i; }",
			map[string][]int{"i": {0, 2, 1}, "=i": {1}},
		},
		{
			"local function is visible to itself",
			"{ fun f(n) { return f(n); } }",
			map[string][]int{"f": {1}, "n": {0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			if err := Resolve(parse(t, tt.input), rec); err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if !reflect.DeepEqual(rec.depths, tt.want) {
				t.Errorf("depths = %v, want %v", rec.depths, tt.want)
			}
		})
	}
}

func TestDistancesKeyedByNode(t *testing.T) {
	// Two reads of the same name at different depths must not collide.
	rec := newRecorder()
	if err := Resolve(parse(t, "{ var x = 1; print x; { print x; } }"), rec); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(rec.nodes) != 2 {
		t.Fatalf("got %d bound nodes, want 2", len(rec.nodes))
	}
	if got := rec.depths["x"]; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("x depths = %v, want [0 1]", got)
	}
}
