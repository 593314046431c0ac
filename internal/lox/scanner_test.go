package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, source string) ([]Token, *Diagnostics) {
	t.Helper()
	var buf bytes.Buffer
	diags := NewDiagnostics(&buf)
	toks := NewScanner(source, diags).ScanTokens()
	return toks, diags
}

func TestScannerPunctuatorsAndOperators(t *testing.T) {
	toks, diags := scanAll(t, "(){},.-+;*!=!<=<>=> ==")
	require.False(t, diags.HadStaticError)

	want := []TokenType{
		LEFT_PAREN, RIGHT_PAREN, LEFT_BRACE, RIGHT_BRACE, COMMA, DOT, MINUS,
		PLUS, SEMICOLON, STAR, BANG_EQUAL, BANG, LESS_EQUAL, LESS,
		GREATER_EQUAL, GREATER, EQUAL_EQUAL, EOF,
	}
	got := make([]TokenType, len(toks))
	for i, tok := range toks {
		got[i] = tok.Type
	}
	assert.Equal(t, want, got)
}

func TestScannerLineComment(t *testing.T) {
	toks, diags := scanAll(t, "// a whole line\nvar")
	require.False(t, diags.HadStaticError)
	require.Len(t, toks, 2)
	assert.Equal(t, VAR, toks[0].Type)
	assert.Equal(t, 2, toks[0].Line)
}

func TestScannerBlockCommentStrictTermination(t *testing.T) {
	// "*/" split by an intervening token must not be treated as closing the
	// comment: a scanner that only checks for '*' would stop here one
	// character early and start re-lexing "code */" as real tokens.
	toks, diags := scanAll(t, "/* comment with a * then code */ var")
	require.False(t, diags.HadStaticError)
	require.Len(t, toks, 2)
	assert.Equal(t, VAR, toks[0].Type)
}

func TestScannerUnterminatedBlockComment(t *testing.T) {
	_, diags := scanAll(t, "/* never closed")
	assert.True(t, diags.HadStaticError)
}

func TestScannerStringLiteral(t *testing.T) {
	toks, diags := scanAll(t, `"hello, world"`)
	require.False(t, diags.HadStaticError)
	require.Len(t, toks, 2)
	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "hello, world", toks[0].Literal)
}

func TestScannerUnterminatedString(t *testing.T) {
	_, diags := scanAll(t, `"never closed`)
	assert.True(t, diags.HadStaticError)
}

func TestScannerMultilineStringTracksLine(t *testing.T) {
	toks, diags := scanAll(t, "\"line one\nline two\"\nvar")
	require.False(t, diags.HadStaticError)
	require.Len(t, toks, 3)
	assert.Equal(t, 3, toks[1].Line)
}

func TestScannerNumberLiteral(t *testing.T) {
	toks, diags := scanAll(t, "123 45.67 0.5")
	require.False(t, diags.HadStaticError)
	require.Len(t, toks, 4)
	assert.Equal(t, 123.0, toks[0].Literal)
	assert.Equal(t, 45.67, toks[1].Literal)
	assert.Equal(t, 0.5, toks[2].Literal)
}

func TestScannerKeywordsAndIdentifiers(t *testing.T) {
	toks, diags := scanAll(t, "class orClass breakfast break")
	require.False(t, diags.HadStaticError)
	require.Len(t, toks, 5)
	assert.Equal(t, CLASS, toks[0].Type)
	assert.Equal(t, IDENTIFIER, toks[1].Type)
	assert.Equal(t, IDENTIFIER, toks[2].Type)
	assert.Equal(t, BREAK, toks[3].Type)
}

func TestScannerUnexpectedCharacter(t *testing.T) {
	_, diags := scanAll(t, "var a = 1 @ 2;")
	assert.True(t, diags.HadStaticError)
	require.Len(t, diags.Records, 1)
	assert.Equal(t, StageScan, diags.Records[0].Stage)
}
