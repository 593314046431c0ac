// Command glox is a tree-walking interpreter for Lox. With no arguments it
// starts an interactive REPL; with one argument it runs that file once.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/sdecook/glox/internal/lox"
)

const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
)

func main() {
	debug := flag.Bool("debug", false, "trace pipeline stages (scan/parse/resolve/evaluate) to stderr")
	flag.Parse()

	trace := newTracer(*debug, os.Stderr)

	cfg, err := lox.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "glox: reading .gloxrc.yaml: %v\n", err)
	}

	args := flag.Args()
	switch len(args) {
	case 0:
		os.Exit(runREPL(cfg, trace))
	case 1:
		os.Exit(runFile(args[0], cfg, trace))
	default:
		fmt.Fprintln(os.Stderr, "Usage: glox [script]")
		os.Exit(exitUsage)
	}
}

// newTracer returns a slog.Logger that is silent unless debug is set, in
// which case every line is tagged with a per-process run id so interleaved
// REPL output and trace lines stay attributable to one run when read back
// from a terminal.
func newTracer(debug bool, w io.Writer) *slog.Logger {
	level := slog.LevelError + 1 // effectively disabled
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run", uuid.NewString())
}

func runFile(path string, cfg lox.Config, trace *slog.Logger) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glox: %v\n", err)
		return exitUsage
	}

	diags := lox.NewDiagnostics(os.Stderr)
	cfg.ApplyColor(diags)
	interp := lox.NewInterpreter(diags)

	lox.Run(string(source), interp, diags, trace)

	switch {
	case diags.HadStaticError:
		return exitStatic
	case diags.HadRuntimeError:
		return exitRuntime
	default:
		return 0
	}
}

func runREPL(cfg lox.Config, trace *slog.Logger) int {
	diags := lox.NewDiagnostics(os.Stderr)
	cfg.ApplyColor(diags)
	interp := lox.NewInterpreter(diags)

	hist, err := openHistory(cfg.HistoryFile, trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glox: opening history file: %v\n", err)
	}
	defer hist.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		diags.ResetForREPLLine()
		stmts, locals := lox.Prepare(line, diags, trace)
		if diags.HadStaticError {
			continue
		}
		hist.record(line)
		interp.Resolve(locals)

		if exprStmt, ok := soleExpressionStatement(stmts); ok {
			if v, err := interp.InterpretExpression(exprStmt.Expression); err == nil {
				fmt.Println(lox.Stringify(v))
			}
			continue
		}
		interp.Interpret(stmts)
	}

	if diags.HadRuntimeError {
		return exitRuntime
	}
	return 0
}

// history appends every statically-accepted REPL line to the file named by
// the .gloxrc.yaml historyFile setting. glox has no line-editing, so this
// buys a persistent record across sessions rather than interactive recall.
// A nil *history is valid and records nothing, so callers don't need to
// branch on whether the setting was set.
type history struct {
	f *os.File
}

// openHistory loads path's existing line count (traced under -debug) and
// opens it for appending, creating it if it doesn't exist. An empty path
// disables history entirely.
func openHistory(path string, trace *slog.Logger) (*history, error) {
	if path == "" {
		return nil, nil
	}

	if existing, err := os.ReadFile(path); err == nil {
		trace.Debug("history loaded", "path", path, "lines", strings.Count(string(existing), "\n"))
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &history{f: f}, nil
}

// record appends line to the history file, skipping blank lines so the file
// doesn't fill up with empty prompts.
func (h *history) record(line string) {
	if h == nil || strings.TrimSpace(line) == "" {
		return
	}
	fmt.Fprintln(h.f, line)
}

func (h *history) Close() error {
	if h == nil {
		return nil
	}
	return h.f.Close()
}

// soleExpressionStatement reports whether stmts is a single bare expression
// statement, the REPL convenience case where the expression's value is
// printed instead of discarded. This is the one place the driver peeks into
// AST shape.
func soleExpressionStatement(stmts []lox.Stmt) (*lox.ExpressionStmt, bool) {
	if len(stmts) != 1 {
		return nil, false
	}
	exprStmt, ok := stmts[0].(*lox.ExpressionStmt)
	return exprStmt, ok
}
