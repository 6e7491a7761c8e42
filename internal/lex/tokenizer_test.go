package lex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojensen/lexforge/internal/lex"
)

func TestTokenizeOperators(t *testing.T) {
	toks, err := lex.Tokenize("a*b+(.)-|")
	require.NoError(t, err)

	want := []lex.Kind{
		lex.KindChar, lex.KindKleene,
		lex.KindChar, lex.KindPlus,
		lex.KindOpen, lex.KindDot, lex.KindClose,
		lex.KindDash, lex.KindPipe,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestTokenizeEscapes(t *testing.T) {
	toks, err := lex.Tokenize(`\n\s\\\*`)
	require.NoError(t, err)

	require.Len(t, toks, 4)
	assert.Equal(t, "\x0a", toks[0].Lexeme)
	assert.Equal(t, "\x20", toks[1].Lexeme)
	assert.Equal(t, "\\", toks[2].Lexeme)
	assert.Equal(t, "*", toks[3].Lexeme)
	for _, tok := range toks {
		assert.Equal(t, lex.KindChar, tok.Kind)
	}
}

func TestTokenizeTrailingBackslashIsFatal(t *testing.T) {
	_, err := lex.Tokenize(`a\`)
	assert.Error(t, err)
}

func TestStreamPeekDoesNotConsume(t *testing.T) {
	toks, err := lex.Tokenize("ab")
	require.NoError(t, err)
	s := lex.NewStream(toks)

	first, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, "a", first.Lexeme)

	again, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, "a", again.Lexeme)

	consumed, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "a", consumed.Lexeme)

	next, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, "b", next.Lexeme)

	s.Next()
	_, ok = s.Peek()
	assert.False(t, ok)
}
