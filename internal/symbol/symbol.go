// Package symbol implements the grammar atoms shared by every stage of the
// pipeline: terminals, non-terminals, and the lambda (ε) marker.
//
// Symbol identity is name equality, matching the teacher grammar's
// convention of treating terminals and non-terminals as plain strings
// classified by case (internal/tunascript/grammar.go), except here the case
// classification is made explicit as a tagged value so that a terminal
// named the same as a non-terminal can never alias it by accident.
package symbol

import (
	"fmt"
	"regexp"
)

// Kind tags which variant of Symbol a value holds.
type Kind int

const (
	KindTerminal Kind = iota
	KindNonTerminal
	KindLambda
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindNonTerminal:
		return "non-terminal"
	case KindLambda:
		return "lambda"
	default:
		return "unknown"
	}
}

// Symbol is a single grammar atom: a Terminal, a NonTerminal, or the
// distinguished Lambda (ε) marker. The zero value is not a valid Symbol;
// use Lambda, Terminal, or NonTerminal to construct one.
//
// Symbol is comparable and can be used directly as a map key or as an
// element of an ordered set.
type Symbol struct {
	kind Kind
	name string
}

// Lambda is the distinguished ε symbol.
var Lambda = Symbol{kind: KindLambda, name: "lambda"}

// EndOfInput is the sentinel terminal "$" denoting end-of-input.
var EndOfInput = Symbol{kind: KindTerminal, name: "$"}

// Terminal returns the Terminal symbol with the given name. It panics if
// name is not a valid terminal name (see ParseSymbol for the accepted
// lexical forms); callers that need error handling should go through
// ParseSymbol instead.
func Terminal(name string) Symbol {
	s, err := ParseSymbol(name)
	if err != nil || s.kind != KindTerminal {
		panic(fmt.Sprintf("invalid terminal name %q", name))
	}
	return s
}

// NonTerminal returns the NonTerminal symbol with the given name. It panics
// under the same conditions described for Terminal.
func NonTerminal(name string) Symbol {
	s, err := ParseSymbol(name)
	if err != nil || s.kind != KindNonTerminal {
		panic(fmt.Sprintf("invalid non-terminal name %q", name))
	}
	return s
}

var (
	nonTerminalPattern = regexp.MustCompile(`^[A-Z][A-Za-z_]*$`)
	terminalPattern    = regexp.MustCompile(`^[a-z][a-z_]*$`)
)

// ParseSymbol classifies a bare token string into a Symbol per the four
// lexical forms of spec.md §4.1:
//
//	"lambda"           -> Lambda
//	[A-Z][A-Za-z_]*    -> NonTerminal
//	[a-z][a-z_]*        -> Terminal
//	"$"                -> Terminal("$")
//
// Any other token is a parse error.
func ParseSymbol(tok string) (Symbol, error) {
	switch {
	case tok == "lambda":
		return Lambda, nil
	case tok == "$":
		return EndOfInput, nil
	case nonTerminalPattern.MatchString(tok):
		return Symbol{kind: KindNonTerminal, name: tok}, nil
	case terminalPattern.MatchString(tok):
		return Symbol{kind: KindTerminal, name: tok}, nil
	default:
		return Symbol{}, fmt.Errorf("symbol: not a valid terminal, non-terminal, lambda, or $: %q", tok)
	}
}

// Kind returns which variant of Symbol this value is.
func (s Symbol) Kind() Kind { return s.kind }

// Name returns the symbol's identity string, e.g. "char" or "Atom".
func (s Symbol) Name() string { return s.name }

// IsTerminal reports whether s is a Terminal (including the "$" sentinel).
func (s Symbol) IsTerminal() bool { return s.kind == KindTerminal }

// IsNonTerminal reports whether s is a NonTerminal.
func (s Symbol) IsNonTerminal() bool { return s.kind == KindNonTerminal }

// IsLambda reports whether s is the Lambda (ε) marker.
func (s Symbol) IsLambda() bool { return s.kind == KindLambda }

func (s Symbol) String() string {
	if s.kind == KindLambda {
		return "ε"
	}
	return s.name
}

// Less gives a total order over symbols: NonTerminal < Terminal < Lambda,
// then by name. It is used to seed gods' treeset comparators so that CFG
// set analyses (spec.md §4.3) iterate deterministically.
func Less(a, b Symbol) bool {
	if a.kind != b.kind {
		rank := [...]int{KindNonTerminal: 0, KindTerminal: 1, KindLambda: 2}
		return rank[a.kind] < rank[b.kind]
	}
	return a.name < b.name
}

// Compare implements the three-way comparator signature gods' treeset.NewWith
// expects (github.com/emirpasic/gods/utils.Comparator).
func Compare(a, b interface{}) int {
	sa, sb := a.(Symbol), b.(Symbol)
	switch {
	case Less(sa, sb):
		return -1
	case Less(sb, sa):
		return 1
	default:
		return 0
	}
}
