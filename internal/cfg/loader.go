package cfg

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arlojensen/lexforge/internal/symbol"
)

// Load reads a grammar in the textual format of spec.md §4.2 and returns
// the resulting CFG. One logical line per production; empty lines are
// ignored. Two line forms are recognized:
//
//	NT -> S1 S2 … Sn     begins a new rule; NT becomes the current non-terminal
//	| S1 S2 … Sn         another alternative for the current non-terminal
//
// The first non-empty line must be an "NT -> …" line; its NT becomes the
// grammar's start symbol.
//
// This is the data-driven counterpart of internal/tunascript/grammar.go's
// mustParseGrammar/parseRule, which parse a similar but semicolon- and
// pipe-delimited single-line format; loader.go instead follows spec.md's
// multi-line "| " continuation form, which is closer in spirit to how a
// human would typeset a grammar in a text file.
func Load(r io.Reader) (*CFG, error) {
	g := New()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current symbol.Symbol
	var haveCurrent bool
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "|") {
			if !haveCurrent {
				return nil, fmt.Errorf("cfg: line %d: continuation ('|') before any rule was started", lineNo)
			}
			rhs, err := parseSymbols(strings.TrimSpace(line[1:]))
			if err != nil {
				return nil, fmt.Errorf("cfg: line %d: %w", lineNo, err)
			}
			g.AddProduction(current, rhs)
			continue
		}

		nt, rhs, err := parseRuleLine(line)
		if err != nil {
			return nil, fmt.Errorf("cfg: line %d: %w", lineNo, err)
		}

		if !haveCurrent {
			g.SetStart(nt)
			haveCurrent = true
		}
		current = nt
		g.AddProduction(current, rhs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cfg: reading grammar: %w", err)
	}
	if !haveCurrent {
		return nil, fmt.Errorf("cfg: grammar file contains no rules")
	}

	return g, nil
}

// parseRuleLine parses one "NT -> S1 S2 … Sn" line into its left-hand side
// non-terminal and right-hand side production.
func parseRuleLine(line string) (symbol.Symbol, Production, error) {
	sides := strings.SplitN(line, "->", 2)
	if len(sides) != 2 {
		return symbol.Symbol{}, nil, fmt.Errorf("not a rule of form 'NT -> SYMBOL ...': %q", line)
	}

	ntTok := strings.TrimSpace(sides[0])
	nt, err := symbol.ParseSymbol(ntTok)
	if err != nil {
		return symbol.Symbol{}, nil, err
	}
	if !nt.IsNonTerminal() {
		return symbol.Symbol{}, nil, fmt.Errorf("left-hand side must be a non-terminal, got %q", ntTok)
	}

	rhs, err := parseSymbols(strings.TrimSpace(sides[1]))
	if err != nil {
		return symbol.Symbol{}, nil, err
	}

	return nt, rhs, nil
}

// parseSymbols splits a whitespace-separated list of symbol tokens and
// classifies each one. A right-hand side of exactly "lambda" becomes the
// sole-lambda production.
func parseSymbols(rhs string) (Production, error) {
	fields := strings.Fields(rhs)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty right-hand side")
	}

	prod := make(Production, 0, len(fields))
	for _, tok := range fields {
		s, err := symbol.ParseSymbol(tok)
		if err != nil {
			return nil, err
		}
		prod = append(prod, s)
	}

	if len(prod) > 1 {
		for _, s := range prod {
			if s.IsLambda() {
				return nil, fmt.Errorf("lambda production may only appear alone: %q", rhs)
			}
		}
	}

	return prod, nil
}
