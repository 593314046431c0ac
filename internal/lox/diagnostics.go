package lox

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Stage identifies which pipeline phase produced a Diagnostic.
type Stage int

const (
	StageScan Stage = iota
	StageSyntax
	StageStatic
	StageRuntime
)

// Diagnostic is a single structured error record produced by any pipeline
// stage.
type Diagnostic struct {
	Stage   Stage
	Line    int
	Token   Token
	AtEnd   bool
	Message string
}

// Diagnostics is the sink every pipeline stage reports into. It tracks two
// sticky flags (one per error class) and renders each record to a writer in
// a fixed wire format.
type Diagnostics struct {
	HadStaticError  bool
	HadRuntimeError bool

	Records []Diagnostic
	out     io.Writer
	color   *color.Color
}

// NewDiagnostics creates a sink that writes formatted diagnostics to out.
// Color is disabled unless out is an *os.File that go-isatty reports as a
// terminal; for a terminal, fatih/color's own defaults (including NO_COLOR)
// decide.
func NewDiagnostics(out io.Writer) *Diagnostics {
	c := color.New(color.FgRed)
	f, ok := out.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		c.DisableColor()
	}
	return &Diagnostics{out: out, color: c}
}

// SetColor forces color rendering on or off, overriding TTY auto-detection.
// Used by the .gloxrc.yaml `color:` setting.
func (d *Diagnostics) SetColor(enabled bool) {
	if enabled {
		d.color.EnableColor()
	} else {
		d.color.DisableColor()
	}
}

// ResetForREPLLine clears the static-error flag between REPL lines. The
// runtime-error flag is left alone: it only affects the process exit code.
func (d *Diagnostics) ResetForREPLLine() {
	d.HadStaticError = false
}

func (d *Diagnostics) record(diag Diagnostic) {
	d.Records = append(d.Records, diag)
	switch diag.Stage {
	case StageScan, StageSyntax, StageStatic:
		d.HadStaticError = true
		d.color.Fprintf(d.out, "[line %d] Error%s: %s\n", diag.Line, d.where(diag), diag.Message)
	case StageRuntime:
		d.HadRuntimeError = true
		d.color.Fprintf(d.out, "%s\n[line %d]\n", diag.Message, diag.Line)
	}
}

func (d *Diagnostics) where(diag Diagnostic) string {
	if diag.Token.Type == 0 && diag.Token.Lexeme == "" && !diag.AtEnd {
		return ""
	}
	if diag.AtEnd {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", diag.Token.Lexeme)
}

// Error reports a scan-stage error tied only to a line number.
func (d *Diagnostics) Error(line int, message string) {
	d.record(Diagnostic{Stage: StageScan, Line: line, Message: message})
}

// ErrorAtToken reports a syntax- or static-stage error tied to a token.
func (d *Diagnostics) ErrorAtToken(stage Stage, tok Token, message string) {
	d.record(Diagnostic{
		Stage:   stage,
		Line:    tok.Line,
		Token:   tok,
		AtEnd:   tok.Type == EOF,
		Message: message,
	})
}

// RuntimeError reports an interpreter-stage error tied to the token that
// triggered it.
func (d *Diagnostics) RuntimeError(tok Token, message string) {
	d.record(Diagnostic{Stage: StageRuntime, Line: tok.Line, Token: tok, Message: message})
}
