package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiagnostics() (*Diagnostics, *bytes.Buffer) {
	var buf bytes.Buffer
	d := NewDiagnostics(&buf)
	d.SetColor(false) // pin output regardless of whether tests run under a TTY
	return d, &buf
}

func TestDiagnosticsScanErrorWireFormat(t *testing.T) {
	d, buf := newTestDiagnostics()
	d.Error(3, "Unexpected character: @")
	assert.Equal(t, "[line 3] Error: Unexpected character: @\n", buf.String())
	assert.True(t, d.HadStaticError)
}

func TestDiagnosticsSyntaxErrorAtTokenWireFormat(t *testing.T) {
	d, buf := newTestDiagnostics()
	d.ErrorAtToken(StageSyntax, Token{Type: IDENTIFIER, Lexeme: "foo", Line: 5}, "Expect ';' after value.")
	assert.Equal(t, "[line 5] Error at 'foo': Expect ';' after value.\n", buf.String())
}

func TestDiagnosticsErrorAtEndWireFormat(t *testing.T) {
	d, buf := newTestDiagnostics()
	d.ErrorAtToken(StageSyntax, Token{Type: EOF, Line: 9}, "Expect expression.")
	assert.Equal(t, "[line 9] Error at end: Expect expression.\n", buf.String())
}

func TestDiagnosticsRuntimeErrorWireFormat(t *testing.T) {
	d, buf := newTestDiagnostics()
	d.RuntimeError(Token{Lexeme: "+", Line: 2}, "Operands must be two numbers or two strings.")
	assert.Equal(t, "Operands must be two numbers or two strings.\n[line 2]\n", buf.String())
	assert.True(t, d.HadRuntimeError)
}

func TestDiagnosticsResetForREPLLineClearsOnlyStaticFlag(t *testing.T) {
	d, _ := newTestDiagnostics()
	d.Error(1, "boom")
	d.RuntimeError(Token{Line: 1}, "boom")
	require.True(t, d.HadStaticError)
	require.True(t, d.HadRuntimeError)

	d.ResetForREPLLine()
	assert.False(t, d.HadStaticError)
	assert.True(t, d.HadRuntimeError, "runtime flag only affects the process exit code and is never reset mid-process")
}

func TestDiagnosticsRecordsEveryReport(t *testing.T) {
	d, _ := newTestDiagnostics()
	d.Error(1, "a")
	d.ErrorAtToken(StageStatic, Token{Line: 2}, "b")
	d.RuntimeError(Token{Line: 3}, "c")
	require.Len(t, d.Records, 3)
	assert.Equal(t, StageScan, d.Records[0].Stage)
	assert.Equal(t, StageStatic, d.Records[1].Stage)
	assert.Equal(t, StageRuntime, d.Records[2].Stage)
}
