package config

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// PatternSpec is one pattern line of a lexer configuration file: a regex
// source, the pattern identifier it compiles to, and an optional token
// category.
type PatternSpec struct {
	Regex    string
	ID       string
	Category string // empty if the line omitted it
}

// LexerConfig is a fully parsed lexer configuration file: the input
// alphabet (deduplicated, ascending) and the ordered list of patterns to
// compile.
type LexerConfig struct {
	Alphabet []byte
	Patterns []PatternSpec
}

// ParseLexerConfig reads a lexer configuration file per spec.md §6: line 1
// is the alphabet, every following non-blank line is
// "<regex> <identifier> [<category>]".
func ParseLexerConfig(r io.Reader) (*LexerConfig, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("config: empty lexer configuration file")
	}
	alphabet, err := DecodeAlphabetLine(scanner.Text())
	if err != nil {
		return nil, fmt.Errorf("config: alphabet line: %w", err)
	}
	alphabet = dedupeSorted(alphabet)

	cfg := &LexerConfig{Alphabet: alphabet}
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("config: line %d: expected '<regex> <identifier> [<category>]', got %d fields", lineNo, len(fields))
		}
		spec := PatternSpec{Regex: fields[0], ID: fields[1]}
		if len(fields) == 3 {
			spec.Category = fields[2]
		}
		cfg.Patterns = append(cfg.Patterns, spec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func dedupeSorted(b []byte) []byte {
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	out := b[:0]
	var last byte
	haveLast := false
	for _, c := range b {
		if haveLast && c == last {
			continue
		}
		out = append(out, c)
		last, haveLast = c, true
	}
	return out
}
