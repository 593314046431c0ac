package lox

import "log/slog"

// Prepare scans, parses, and resolves one source unit (a whole file, or a
// single REPL line), reporting errors to diags. Scanning and parsing always
// both run; if either reported an error, resolution is skipped and nil is
// returned, as it is after a resolver error. It returns the parsed statement
// list and the resolver's
// locals side-table; callers should check diags.HadStaticError before
// interpreting the result — a static error suppresses execution entirely.
func Prepare(source string, diags *Diagnostics, trace *slog.Logger) ([]Stmt, map[Expr]int) {
	trace.Debug("scan")
	scanner := NewScanner(source, diags)
	tokens := scanner.ScanTokens()

	trace.Debug("parse")
	parser := NewParser(tokens, diags)
	stmts := parser.Parse()
	if diags.HadStaticError {
		return nil, nil
	}

	trace.Debug("resolve")
	resolver := NewResolver(diags)
	locals := resolver.Resolve(stmts)
	if diags.HadStaticError {
		return nil, nil
	}

	return stmts, locals
}

// Run prepares source and, if it resolved cleanly, interprets it against
// interp. It is the straight-line pipeline used by file-mode execution; the
// REPL uses Prepare directly so it can special-case a bare expression
// statement instead of always calling Interpret.
func Run(source string, interp *Interpreter, diags *Diagnostics, trace *slog.Logger) []Stmt {
	stmts, locals := Prepare(source, diags, trace)
	if diags.HadStaticError {
		return nil
	}
	trace.Debug("evaluate")
	interp.Resolve(locals)
	interp.Interpret(stmts)
	return stmts
}
