package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojensen/lexforge/internal/config"
)

func TestParseLexerConfigBasic(t *testing.T) {
	src := "abc\nb TOK_B letter\nc TOK_C\n"
	cfg, err := config.ParseLexerConfig(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []byte("abc"), cfg.Alphabet)
	require.Len(t, cfg.Patterns, 2)
	assert.Equal(t, config.PatternSpec{Regex: "b", ID: "TOK_B", Category: "letter"}, cfg.Patterns[0])
	assert.Equal(t, config.PatternSpec{Regex: "c", ID: "TOK_C", Category: ""}, cfg.Patterns[1])
}

func TestParseLexerConfigDedupesAndSortsAlphabet(t *testing.T) {
	cfg, err := config.ParseLexerConfig(strings.NewReader("cbac\nb TOK_B\n"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), cfg.Alphabet)
}

func TestParseLexerConfigSkipsBlankLines(t *testing.T) {
	src := "abc\n\nb TOK_B\n\n\nc TOK_C\n"
	cfg, err := config.ParseLexerConfig(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, cfg.Patterns, 2)
}

func TestParseLexerConfigRejectsEmptyFile(t *testing.T) {
	_, err := config.ParseLexerConfig(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParseLexerConfigRejectsMalformedPatternLine(t *testing.T) {
	_, err := config.ParseLexerConfig(strings.NewReader("abc\nb TOK_B letter extra\n"))
	assert.Error(t, err)
}

func TestParseLexerConfigRejectsAlphabetEscape(t *testing.T) {
	_, err := config.ParseLexerConfig(strings.NewReader("xZZ\nb TOK_B\n"))
	assert.Error(t, err)
}
