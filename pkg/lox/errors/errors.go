// Package errors provides structured error types for the Lox interpreter.
//
// Every pass of the pipeline (scanner, parser, resolver, interpreter) reports
// failures as a LoxError: a single error type carrying a class, a stable code,
// a rendered message, optional hints and the source location of the token
// that caused it. Static passes that collect several errors return a List.
package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassScan      ErrorClass = "scan"      // Scanner errors
	ClassParse     ErrorClass = "parse"     // Parser/syntax errors
	ClassResolve   ErrorClass = "resolve"   // Static scope errors
	ClassType      ErrorClass = "type"      // Operand/type mismatches
	ClassArity     ErrorClass = "arity"     // Wrong argument count
	ClassUndefined ErrorClass = "undefined" // Unknown variable or property
	ClassState     ErrorClass = "state"     // Interpreter invariant violations
	ClassLimit     ErrorClass = "limit"     // Step and call-depth limits
	ClassNative    ErrorClass = "native"    // Native function failures
	ClassIO        ErrorClass = "io"        // Reading source
)

// Error codes. The prefix names the pass that raises the error.
const (
	InvalidCharacter   = "SCAN-0001"
	UnterminatedString = "SCAN-0002"

	ExpectedExpression  = "PARSE-0001"
	InvalidConsumeType  = "PARSE-0002"
	InvalidAssignTarget = "PARSE-0003"
	MaxArgNumber        = "PARSE-0004"

	VariableNotInitialized = "RESOLVE-0001"
	VariableAlreadyExists  = "RESOLVE-0002"
	TopLevelReturn         = "RESOLVE-0003"
	InvalidThis            = "RESOLVE-0004"

	UnreachableCode         = "RUNTIME-0001"
	ExpectedNumberOperand   = "RUNTIME-0002"
	ExpectedNumberOperands  = "RUNTIME-0003"
	ExpectedAddableOperands = "RUNTIME-0004"
	InvalidCallObjectType   = "RUNTIME-0005"
	InvalidArgsCount        = "RUNTIME-0006"
	InvalidObjectProperty   = "RUNTIME-0007"
	UndefinedProperty       = "RUNTIME-0008"
	StackOverflow           = "RUNTIME-0009"
	StepLimitExceeded       = "RUNTIME-0010"
	NativeFailure           = "RUNTIME-0011"

	UnknownVariable = "ENV-0001"

	ReadFailure = "IO-0001"
)

// LoxError represents any error from scanning, parsing, resolving or evaluation.
type LoxError struct {
	Class   ErrorClass     `json:"class"`            // Error category
	Code    string         `json:"code"`             // Error code (e.g., "PARSE-0003")
	Message string         `json:"message"`          // Human-readable message
	Hints   []string       `json:"hints,omitempty"`  // Suggestions for fixing
	Line    int            `json:"line"`             // 1-based line (0 if unknown)
	Column  int            `json:"column"`           // 1-based column (0 if unknown)
	Offset  int            `json:"offset"`           // 0-based byte offset of the token
	Lexeme  string         `json:"lexeme,omitempty"` // Source text of the offending token
	File    string         `json:"file,omitempty"`   // File path (if known)
	Data    map[string]any `json:"data,omitempty"`   // Template variables
}

// Error implements the error interface.
func (e *LoxError) Error() string {
	return e.String()
}

// String renders the error as "<location> -> <message>".
func (e *LoxError) String() string {
	var sb strings.Builder

	if loc := e.Location(); loc != "" {
		sb.WriteString(loc)
		sb.WriteString(" -> ")
	}
	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// Location returns the location part of the error, or "" when unknown.
func (e *LoxError) Location() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, e.File)
	}
	if e.Line > 0 {
		loc := fmt.Sprintf("line %d, column %d", e.Line, e.Column)
		if e.Lexeme != "" {
			loc += fmt.Sprintf(" near '%s'", e.Lexeme)
		}
		parts = append(parts, loc)
	}
	return strings.Join(parts, ": ")
}

// PrettyString returns a multi-line formatted string for display.
func (e *LoxError) PrettyString() string {
	var sb strings.Builder

	sb.WriteString(e.Header())

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// Header names the pass that produced the error.
func (e *LoxError) Header() string {
	switch e.Class {
	case ClassScan:
		return "Scanner error"
	case ClassParse:
		return "Parser error"
	case ClassResolve:
		return "Resolver error"
	case ClassIO:
		return "I/O error"
	default:
		return "Runtime error"
	}
}

// ToJSON returns the error as JSON bytes.
func (e *LoxError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *LoxError) WithFile(file string) *LoxError {
	cp := *e
	cp.File = file
	return &cp
}

// IsStatic reports whether the error was raised before any code ran.
func (e *LoxError) IsStatic() bool {
	switch e.Class {
	case ClassScan, ClassParse, ClassResolve:
		return true
	}
	return false
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Scanner
	InvalidCharacter: {
		Class:    ClassScan,
		Template: "unexpected character '{{.Char}}'",
	},
	UnterminatedString: {
		Class:    ClassScan,
		Template: "unterminated string",
		Hints:    []string{"strings must be closed with '\"' before the end of the input"},
	},

	// Parser
	ExpectedExpression: {
		Class:    ClassParse,
		Template: "expected expression, got '{{.Got}}'",
	},
	InvalidConsumeType: {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	InvalidAssignTarget: {
		Class:    ClassParse,
		Template: "invalid assignment target",
		Hints:    []string{"only variables and properties can be assigned: x = 1, obj.field = 1"},
	},
	MaxArgNumber: {
		Class:    ClassParse,
		Template: "can't have more than {{.Max}} {{.What}}",
	},

	// Resolver
	VariableNotInitialized: {
		Class:    ClassResolve,
		Template: "can't read variable '{{.Name}}' in its own initializer",
	},
	VariableAlreadyExists: {
		Class:    ClassResolve,
		Template: "variable '{{.Name}}' already declared in this scope",
	},
	TopLevelReturn: {
		Class:    ClassResolve,
		Template: "can't return from top-level code",
	},
	InvalidThis: {
		Class:    ClassResolve,
		Template: "can't use 'this' outside of a class",
	},

	// Runtime
	UnreachableCode: {
		Class:    ClassState,
		Template: "unreachable code: {{.Detail}}",
	},
	ExpectedNumberOperand: {
		Class:    ClassType,
		Template: "operand of '{{.Operator}}' must be a number, got {{.Got}}",
	},
	ExpectedNumberOperands: {
		Class:    ClassType,
		Template: "operands of '{{.Operator}}' must be numbers, got {{.Left}} and {{.Right}}",
	},
	ExpectedAddableOperands: {
		Class:    ClassType,
		Template: "operands of '+' must be two numbers or two strings, got {{.Left}} and {{.Right}}",
	},
	InvalidCallObjectType: {
		Class:    ClassType,
		Template: "can only call functions and classes, got {{.Got}}",
	},
	InvalidArgsCount: {
		Class:    ClassArity,
		Template: "expected {{.Want}} arguments but got {{.Got}}",
	},
	InvalidObjectProperty: {
		Class:    ClassType,
		Template: "only instances have properties, got {{.Got}}",
	},
	UndefinedProperty: {
		Class:    ClassUndefined,
		Template: "undefined property '{{.Name}}'",
	},
	StackOverflow: {
		Class:    ClassLimit,
		Template: "stack overflow: call depth exceeded {{.Max}}",
	},
	StepLimitExceeded: {
		Class:    ClassLimit,
		Template: "step limit of {{.Max}} statements exceeded",
	},
	NativeFailure: {
		Class:    ClassNative,
		Template: "{{.Function}}: {{.Detail}}",
	},

	// Environment
	UnknownVariable: {
		Class:    ClassUndefined,
		Template: "undefined variable '{{.Name}}'",
	},

	// I/O
	ReadFailure: {
		Class:    ClassIO,
		Template: "failed to read '{{.Path}}': {{.GoError}}",
	},
}

// New creates a LoxError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *LoxError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &LoxError{
			Class:   ClassState,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &LoxError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewAt creates a LoxError located at a token.
func NewAt(code string, line, column, offset int, lexeme string, data map[string]any) *LoxError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	err.Offset = offset
	err.Lexeme = lexeme
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Option("missingkey=zero").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// List is an ordered collection of errors reported by one pass.
type List []*LoxError

// Error implements the error interface, one error per line.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	lines := make([]string, len(l))
	for i, err := range l {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, err := range l {
		errs[i] = err
	}
	return errs
}

// Err returns nil for an empty list and the list itself otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Sort orders the list by source position.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Line != l[j].Line {
			return l[i].Line < l[j].Line
		}
		return l[i].Column < l[j].Column
	})
}

// All flattens err into its LoxErrors. Errors of other types are ignored.
func All(err error) []*LoxError {
	if err == nil {
		return nil
	}
	var list List
	if stderrors.As(err, &list) {
		return list
	}
	var lerr *LoxError
	if stderrors.As(err, &lerr) {
		return []*LoxError{lerr}
	}
	return nil
}

// HasCode reports whether err is, or contains, a LoxError with the given code.
func HasCode(err error, code string) bool {
	for _, e := range All(err) {
		if e.Code == code {
			return true
		}
	}
	return false
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns the best match if the distance is within the threshold, otherwise "".
// Short words (1-3) allow 1 edit, medium words (4-6) 2 edits, longer words 3.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)
	bestMatch := ""
	bestDistance := -1

	// Sorted so ties resolve the same way on every run.
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	for _, candidate := range sorted {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}

	return bestMatch
}

// NewUndefinedVariable creates an UnknownVariable error with an optional
// "Did you mean" hint drawn from the visible identifiers.
func NewUndefinedVariable(name string, available []string) *LoxError {
	err := New(UnknownVariable, map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}
