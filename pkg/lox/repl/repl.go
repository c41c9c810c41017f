package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/lox/pkg/lox/ast"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/evaluator"
	"github.com/sambeau/lox/pkg/lox/lexer"
	"github.com/sambeau/lox/pkg/lox/lox"
	"github.com/sambeau/lox/pkg/lox/parser"
	"github.com/sambeau/lox/pkg/lox/resolver"
)

const PROMPT = "> "
const CONTINUATION_PROMPT = ". "

const LOX_LOGO = `
█░░ █▀█ ▀▄▀
█▄▄ █▄█ █░█ `

// Options configures a REPL.
type Options struct {
	Prompt       string             // Main prompt (default "> ")
	HistoryFile  string             // History path; "" uses a file in the temp dir
	HistoryLimit int                // Entries kept when history is saved; 0 keeps all
	ErrorFormat  string             // "text" (default) or "json"
	Interpreter  []evaluator.Option // Options for every interpreter the REPL creates

	// Interrupt returns the context a single input runs under. The input
	// stops at its next statement once that context is done, and the next
	// input gets a new one. Setting it replaces any step hook in Interpreter.
	Interrupt func() (context.Context, context.CancelFunc)
}

// Start starts the REPL with line editing, history, and tab completion.
// Output from print statements and all diagnostics go to out.
func Start(out io.Writer, version string, opts Options) {
	session := NewSession(out, opts)

	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)
	line.SetCompleter(session.Complete)

	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".lox_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		var buf bytes.Buffer
		if _, err := line.WriteHistory(&buf); err != nil {
			fmt.Fprintf(out, "Error saving history: %v\n", err)
			return
		}
		if err := saveHistory(historyFile, buf.String(), opts.HistoryLimit); err != nil {
			fmt.Fprintf(out, "Error saving history: %v\n", err)
		}
	}()

	fmt.Fprintf(out, "%s", LOX_LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	for {
		input, err := line.Prompt(session.Prompt())
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C - clear any buffered input and return to main prompt
				if session.Pending() {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				session.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		complete, exit := session.Feed(input)
		if complete != "" {
			line.AppendHistory(complete)
		}
		if exit {
			fmt.Fprintln(out, "Goodbye!")
			return
		}
	}
}

// saveHistory writes at most limit of the newest entries of history, one
// per line, to path.
func saveHistory(path, history string, limit int) error {
	return os.WriteFile(path, []byte(trimHistory(history, limit)), 0o600)
}

// trimHistory keeps the last limit lines of history. A limit of 0 or less
// keeps everything.
func trimHistory(history string, limit int) string {
	entries := strings.SplitAfter(history, "\n")
	if entries[len(entries)-1] == "" {
		entries = entries[:len(entries)-1]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return strings.Join(entries, "")
}

// Session is the line-at-a-time state of a REPL: one interpreter shared by
// every input, plus any incomplete multi-line input.
type Session struct {
	out     io.Writer
	opts    Options
	in      *evaluator.Interpreter
	buffer  strings.Builder
	showAST bool

	// ctx is the interrupt context of the input being executed.
	ctx context.Context
}

// NewSession creates a session whose output goes to out.
func NewSession(out io.Writer, opts Options) *Session {
	if opts.Prompt == "" {
		opts.Prompt = PROMPT
	}
	s := &Session{out: out, opts: opts}
	s.in = s.newInterpreter()
	return s
}

func (s *Session) newInterpreter() *evaluator.Interpreter {
	opts := append([]evaluator.Option{evaluator.WithLogger(lox.WriterLogger(s.out))}, s.opts.Interpreter...)
	if s.opts.Interrupt != nil {
		opts = append(opts, evaluator.WithStepHook(s.checkInterrupt))
	}
	return evaluator.NewInterpreter(opts...)
}

func (s *Session) checkInterrupt(int) error {
	if s.ctx == nil {
		return nil
	}
	return s.ctx.Err()
}

// Interpreter returns the interpreter inputs run in.
func (s *Session) Interpreter() *evaluator.Interpreter {
	return s.in
}

// Prompt returns the prompt for the next line.
func (s *Session) Prompt() string {
	if s.Pending() {
		return CONTINUATION_PROMPT
	}
	return s.opts.Prompt
}

// Pending reports whether a multi-line input is waiting for more lines.
func (s *Session) Pending() bool {
	return s.buffer.Len() > 0
}

// Reset discards any buffered input.
func (s *Session) Reset() {
	s.buffer.Reset()
}

// Feed handles one line of input. Once the buffered input is complete it
// is run and returned, for history. exit is true when the user asked to quit.
func (s *Session) Feed(input string) (complete string, exit bool) {
	trimmed := strings.TrimSpace(input)

	if !s.Pending() {
		switch {
		case trimmed == "exit" || trimmed == "quit":
			return "", true
		case strings.HasPrefix(trimmed, ":"):
			s.handleCommand(trimmed)
			return "", false
		case trimmed == "":
			return "", false
		}
	}

	if s.Pending() {
		s.buffer.WriteString("\n")
	}
	s.buffer.WriteString(input)

	full := s.buffer.String()
	if needsMoreInput(full) {
		return "", false
	}
	s.buffer.Reset()

	s.Execute(full)
	return full, false
}

// Execute runs one complete input. Errors are reported to the session's
// output and never end the session.
func (s *Session) Execute(source string) {
	stmts, err := s.compile(source)
	if err != nil {
		s.printError(err)
		return
	}

	if s.showAST {
		for _, stmt := range stmts {
			fmt.Fprintln(s.out, stmt.String())
		}
	}

	if s.opts.Interrupt != nil {
		ctx, cancel := s.opts.Interrupt()
		s.ctx = ctx
		defer func() {
			cancel()
			s.ctx = nil
		}()
	}

	if err := s.in.Interpret(stmts); err != nil {
		s.printError(err)
	}
}

// compile parses and resolves source. An input that fails to parse only
// for want of a trailing ';' and holds a single expression is echoed, so
// "1 + 2" prints 3.
func (s *Session) compile(source string) ([]ast.Statement, error) {
	stmts, err := lox.Parse(source)
	if err != nil && !strings.HasSuffix(strings.TrimSpace(source), ";") {
		if echo, ok := parseEcho(source); ok {
			stmts, err = echo, nil
		}
	}
	if err != nil {
		return nil, err
	}

	if err := resolver.Resolve(stmts, s.in); err != nil {
		return nil, err
	}
	return stmts, nil
}

func parseEcho(source string) ([]ast.Statement, bool) {
	tokens, err := lexer.Scan(source + ";")
	if err != nil {
		return nil, false
	}
	stmts, err := parser.Parse(tokens)
	if err != nil || len(stmts) != 1 {
		return nil, false
	}
	es, ok := stmts[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}
	return []ast.Statement{&ast.PrintStatement{Token: es.Token, Expression: es.Expression}}, true
}

func (s *Session) printError(err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(s.out, "interrupted")
		return
	}

	errs := perrors.All(err)
	if len(errs) == 0 {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	for _, e := range errs {
		if s.opts.ErrorFormat == "json" {
			data, jerr := e.ToJSON()
			if jerr == nil {
				s.out.Write(append(data, '\n'))
				continue
			}
		}
		io.WriteString(s.out, e.PrettyString())
		io.WriteString(s.out, "\n")
	}
}

// handleCommand handles REPL meta-commands that start with ':'
func (s *Session) handleCommand(cmd string) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(s.out, "  :env            Show global variables")
		fmt.Fprintln(s.out, "  :clear          Forget all user definitions")
		fmt.Fprintln(s.out, "  :ast            Toggle printing of parsed input")
		fmt.Fprintln(s.out, "  exit, quit      Exit the REPL")
		fmt.Fprintln(s.out, "")
		fmt.Fprintln(s.out, "An expression without a trailing ';' prints its value.")

	case ":env":
		s.printEnvironment()

	case ":clear":
		s.in = s.newInterpreter()
		fmt.Fprintln(s.out, "Environment cleared")

	case ":ast":
		s.showAST = !s.showAST
		if s.showAST {
			fmt.Fprintln(s.out, "AST output ON")
		} else {
			fmt.Fprintln(s.out, "AST output OFF")
		}

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// printEnvironment lists the user-defined globals.
func (s *Session) printEnvironment() {
	globals := s.in.Globals()
	printed := 0
	for _, name := range globals.Names() {
		value, _ := globals.Get(name)
		if _, native := value.(*evaluator.Builtin); native {
			continue
		}

		inspect := value.Inspect()
		if strings.Contains(inspect, "\n") {
			inspect = strings.ReplaceAll(inspect, "\n", "\n  ")
		} else if len(inspect) > 60 {
			inspect = inspect[:57] + "..."
		}
		fmt.Fprintf(s.out, "  %s: %s = %s\n", name, strings.ToLower(string(value.Type())), inspect)
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(s.out, "(no user variables)")
	}
}

// Complete returns completions for the word at the end of line, drawn from
// the keywords and the current globals.
func (s *Session) Complete(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if last := line[len(line)-1]; !isIdentChar(last) {
		return nil
	}

	start := len(line)
	for start > 0 && isIdentChar(line[start-1]) {
		start--
	}
	head, word := line[:start], line[start:]

	candidates := append(lexer.Keywords(), s.in.Globals().Names()...)
	seen := make(map[string]bool)
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) && !seen[c] {
			seen[c] = true
			matches = append(matches, head+c)
		}
	}
	return matches
}

func isIdentChar(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// needsMoreInput reports whether input has unclosed braces or parentheses,
// or an unterminated string. Comments are skipped.
func needsMoreInput(input string) bool {
	braces, parens := 0, 0
	inString := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inString {
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '/':
			if i+1 < len(input) && input[i+1] == '/' {
				for i < len(input) && input[i] != '\n' {
					i++
				}
			}
		case '{':
			braces++
		case '}':
			braces--
		case '(':
			parens++
		case ')':
			parens--
		}
	}

	return inString || braces > 0 || parens > 0
}
