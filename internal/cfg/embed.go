package cfg

import (
	_ "embed"
	"strings"
)

// regexGrammarSource is the fixed grammar resource spec.md §6 describes as
// "shipped alongside the tool": the regex metalanguage of spec.md §4.6,
// expressed in this package's own textual format (loader.go) rather than
// the host language's literal informal grammar notation.
//
// Embedding a resource this way follows the teacher pack's own use of
// go:embed for fixed grammar/lexer-spec data (nihei9-vartan's
// spec/lexer.go embeds clexspec.json the same way).
//
//go:embed regex_grammar.txt
var regexGrammarSource string

// DefaultGrammar returns the CFG for the regex metalanguage every lexforge
// invocation compiles patterns against.
func DefaultGrammar() (*CFG, error) {
	return Load(strings.NewReader(regexGrammarSource))
}

// GrammarSource returns the embedded grammar's raw text, for callers that
// need a stable content key (internal/cache) rather than the parsed CFG.
func GrammarSource() string {
	return regexGrammarSource
}
