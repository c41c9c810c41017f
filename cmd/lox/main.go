package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sambeau/lox/config"
	perrors "github.com/sambeau/lox/pkg/lox/errors"
	"github.com/sambeau/lox/pkg/lox/evaluator"
	"github.com/sambeau/lox/pkg/lox/lox"
	"github.com/sambeau/lox/pkg/lox/repl"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// exitError carries the exit status of a failure that has already been
// reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errScript = &exitError{code: 1}

func main() {
	ctx := context.Background()
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode maps run's result to a process status: 0 on success, 1 for
// errors in the script, 2 for usage, configuration and I/O problems.
func exitCode(err error, stderr io.Writer) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 2
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("lox", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr) }

	var (
		evalFlag        = flags.String("e", "", "Run code string")
		evalLongFlag    = flags.String("eval", "", "Run code string")
		checkFlag       = flags.Bool("check", false, "Check files without running them")
		astFlag         = flags.Bool("ast", false, "Print the parsed program")
		watchFlag       = flags.Bool("watch", false, "Re-run the script when it changes")
		configPath      = flags.String("config", "", "Path to config file")
		versionFlag     = flags.Bool("V", false, "Show version")
		versionLongFlag = flags.Bool("version", false, "Show version")
		helpFlag        = flags.Bool("h", false, "Show help")
		helpLongFlag    = flags.Bool("help", false, "Show help")
	)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &exitError{code: 2}
	}

	if *helpFlag || *helpLongFlag {
		printUsage(stdout)
		return nil
	}

	if *versionFlag || *versionLongFlag {
		fmt.Fprintf(stdout, "lox version %s\n", Version)
		return nil
	}

	cfg, err := config.Load(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := &cli{
		ctx:    ctx,
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
	}

	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}
	files := flags.Args()

	switch {
	case evalCode != "":
		return c.runSource("<eval>", evalCode)
	case *checkFlag:
		if len(files) == 0 {
			return errors.New("--check requires at least one file")
		}
		return c.checkFiles(files)
	case *astFlag:
		if len(files) != 1 {
			return errors.New("--ast requires exactly one file")
		}
		return c.printAST(files[0])
	case *watchFlag:
		if len(files) != 1 {
			return errors.New("--watch requires exactly one file")
		}
		return c.watch(files[0])
	case len(files) > 1:
		return fmt.Errorf("too many arguments: %s", strings.Join(files[1:], " "))
	case len(files) == 1:
		return c.runFile(files[0])
	default:
		repl.Start(stdout, Version, c.replOptions())
		return nil
	}
}

// cli holds what every mode needs: configuration, output and the context
// that interrupts a running script.
type cli struct {
	ctx    context.Context
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

// interpreterOptions translates the configuration into interpreter options.
func (c *cli) interpreterOptions() []evaluator.Option {
	return []evaluator.Option{
		evaluator.WithMaxCallDepth(c.cfg.Interpreter.MaxCallDepth),
		evaluator.WithStepLimit(c.cfg.Interpreter.MaxSteps),
		evaluator.WithLocale(c.cfg.Interpreter.LocaleTag()),
	}
}

// newInterpreter creates the interpreter for one script run. The script
// stops at the next statement once the CLI context is cancelled.
func (c *cli) newInterpreter() *evaluator.Interpreter {
	ctx := c.ctx
	opts := append([]evaluator.Option{evaluator.WithLogger(lox.WriterLogger(c.stdout))}, c.interpreterOptions()...)
	opts = append(opts, evaluator.WithStepHook(func(int) error { return ctx.Err() }))
	return lox.New(opts...)
}

// replOptions configures the REPL. The REPL outlives any one interrupt, so
// each input listens for Ctrl-C on its own context rather than the CLI's.
func (c *cli) replOptions() repl.Options {
	return repl.Options{
		Prompt:       c.cfg.REPL.Prompt,
		HistoryFile:  c.cfg.REPL.HistoryFile,
		HistoryLimit: c.cfg.REPL.HistoryLimit,
		ErrorFormat:  c.cfg.Output.Errors,
		Interpreter:  c.interpreterOptions(),
		Interrupt:    interruptContext,
	}
}

// interruptContext is cancelled by the next SIGINT.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// runSource runs source in a fresh interpreter and reports any error.
func (c *cli) runSource(name, source string) error {
	err := lox.Run(source, c.newInterpreter())
	if err == nil {
		return nil
	}
	if name != "<eval>" {
		err = lox.WithFile(err, name)
	}
	return c.report(err, source)
}

func (c *cli) runFile(path string) error {
	source, err := lox.ReadSource(path)
	if err != nil {
		return c.report(err, "")
	}
	return c.runSource(path, source)
}

// checkFiles scans, parses and resolves each file without running it.
func (c *cli) checkFiles(files []string) error {
	failed := false
	for _, path := range files {
		source, err := lox.ReadSource(path)
		if err != nil {
			return c.report(err, "")
		}
		if err := lox.WithFile(lox.Check(source), path); err != nil {
			c.report(err, source)
			failed = true
		}
	}
	if failed {
		return errScript
	}
	return nil
}

// printAST prints the program as the interpreter sees it, with 'for'
// loops already desugared.
func (c *cli) printAST(path string) error {
	source, err := lox.ReadSource(path)
	if err != nil {
		return c.report(err, "")
	}
	stmts, err := lox.Parse(source)
	if err != nil {
		return c.report(lox.WithFile(err, path), source)
	}
	for _, stmt := range stmts {
		fmt.Fprintln(c.stdout, stmt.String())
	}
	return nil
}

// report writes err to stderr and returns the matching exit error.
func (c *cli) report(err error, source string) error {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(c.stderr, "interrupted")
		return errScript
	}

	errs := perrors.All(err)
	if len(errs) == 0 {
		return err
	}

	lines := strings.Split(source, "\n")
	code := 1
	for _, e := range errs {
		if e.Class == perrors.ClassIO {
			code = 2
		}
		if c.cfg.Output.Errors == "json" {
			if data, jerr := e.ToJSON(); jerr == nil {
				fmt.Fprintln(c.stderr, string(data))
				continue
			}
		}
		fmt.Fprintln(c.stderr, e.PrettyString())
		printSourceContext(c.stderr, lines, e.Line, e.Column)
	}
	return &exitError{code: code}
}

// printSourceContext prints the source line and error pointer
func printSourceContext(w io.Writer, lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := lines[lineNum-1]

	// Calculate how many columns to trim from the left
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == ' ' {
			trimCount++
		} else if sourceLine[i] == '\t' {
			trimCount += 8
		} else {
			break
		}
	}

	fmt.Fprintf(w, "    %s\n", strings.TrimLeft(sourceLine, " \t"))

	if colNum > 0 {
		// Visual column, counting tabs as 8
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}

		adjustedCol := max(visualCol-trimCount, 0)
		fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", adjustedCol))
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `lox - Lox language interpreter version %s

Usage:
  lox [options] [script]
  lox -e "code"
  lox --check <file>...

Options:
  -e, --eval CODE    Run a code string
  --check            Check files for scan, parse and scope errors without running them
  --ast              Print the parsed program
  --watch            Re-run the script whenever it changes
  --config PATH      Path to config file (default: auto-detect)
  -V, --version      Show version information
  -h, --help         Show this help

Config Resolution:
  1. --config flag
  2. LOX_CONFIG environment variable
  3. ./lox.yaml
  4. ~/.config/lox/lox.yaml

Exit Status:
  0  success
  1  error in the script
  2  usage, configuration or I/O error

Examples:
  lox                       Start interactive REPL
  lox script.lox            Run a script
  lox -e 'print 1 + 2;'     Run inline code (prints 3)
  lox --check *.lox         Check several files
  lox --watch script.lox    Re-run script.lox on every save
`, Version)
}
