package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", Number(1))

	v, err := env.Get(Token{Lexeme: "a"})
	require.NoError(t, err)
	assert.Equal(t, Number(1), v)
}

func TestEnvironmentGetUndefinedIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(Token{Lexeme: "missing", Line: 7})
	require.Error(t, err)
	rerr, ok := err.(*RuntimeError)
	require.True(t, ok)
	assert.Equal(t, 7, rerr.Token.Line)
}

func TestEnvironmentWalksEnclosingChain(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", String("outer"))
	inner := NewEnvironment(outer)

	v, err := inner.Get(Token{Lexeme: "a"})
	require.NoError(t, err)
	assert.Equal(t, String("outer"), v)
}

func TestEnvironmentAssignRequiresExistingBinding(t *testing.T) {
	env := NewEnvironment(nil)
	err := env.Assign(Token{Lexeme: "a"}, Number(1))
	assert.Error(t, err)
}

func TestEnvironmentAssignWritesThroughEnclosing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", Number(1))
	inner := NewEnvironment(outer)

	require.NoError(t, inner.Assign(Token{Lexeme: "a"}, Number(2)))

	v, err := outer.Get(Token{Lexeme: "a"})
	require.NoError(t, err)
	assert.Equal(t, Number(2), v)
}

func TestEnvironmentGetAtAndAssignAt(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", Number(0))
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	assert.Equal(t, Number(0), inner.GetAt(2, "a"))

	inner.AssignAt(2, "a", Number(5))
	v, err := global.Get(Token{Lexeme: "a"})
	require.NoError(t, err)
	assert.Equal(t, Number(5), v)
}
