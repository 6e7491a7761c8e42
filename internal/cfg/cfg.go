// Package cfg implements the grammar model and context-free-grammar
// analyses of spec.md §3 and §4.1-§4.4: Production and CFG themselves
// (this file), the textual loader (loader.go), and the nullability/
// first/follow/predict/LL(1)-table analyses (sets.go).
//
// The aggregate shape mirrors internal/tunascript/grammar.go's Grammar/
// Rule/Production trio from the teacher repo, generalized from tunascript's
// fixed, hardcoded language grammar to a CFG loaded from data, and from
// string-slice productions to symbol.Symbol sequences so terminals,
// non-terminals, and lambda can never be confused by raw string case alone.
package cfg

import (
	"fmt"
	"strings"

	"github.com/arlojensen/lexforge/internal/symbol"
)

// Production is the right-hand side of one grammar rule: an ordered
// sequence of Symbols.
type Production []symbol.Symbol

// OnlyLambda reports whether this production is the sole-lambda production,
// i.e. length 1 with its only symbol being Lambda.
func (p Production) OnlyLambda() bool {
	return len(p) == 1 && p[0].IsLambda()
}

// ContainsTerminal reports whether any Terminal symbol appears in p.
func (p Production) ContainsTerminal() bool {
	for _, s := range p {
		if s.IsTerminal() {
			return true
		}
	}
	return false
}

func (p Production) String() string {
	if p.OnlyLambda() {
		return "lambda"
	}
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// Equal reports whether p and o have the same symbols in the same order.
func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Rule is one non-terminal's full set of alternative Productions, in the
// order they were declared.
type Rule struct {
	NonTerminal symbol.Symbol
	Productions []Production
}

// CFG is the aggregate grammar: the Terminal and NonTerminal vocabularies,
// the start symbol, the full ordered Production list, and the mapping from
// each NonTerminal to the indices of the Productions it owns.
//
// Every Production belongs to exactly one NonTerminal's index list; CFG's
// own methods are the only way to mutate it, so that invariant always
// holds (spec.md §3, CFG invariant).
type CFG struct {
	terminals    map[symbol.Symbol]bool
	nonTerminals map[symbol.Symbol]bool
	start        symbol.Symbol

	productions []Production
	owner       []symbol.Symbol // owner[i] is the NonTerminal that owns productions[i]

	byNonTerminal map[symbol.Symbol][]int
	order         []symbol.Symbol // declaration order of non-terminals, for deterministic iteration
}

// New returns an empty CFG with no rules, terminals, or start symbol.
func New() *CFG {
	return &CFG{
		terminals:     map[symbol.Symbol]bool{},
		nonTerminals:  map[symbol.Symbol]bool{},
		byNonTerminal: map[symbol.Symbol][]int{},
	}
}

// Start returns the grammar's designated start non-terminal.
func (g *CFG) Start() symbol.Symbol { return g.start }

// SetStart designates A as the start symbol. A need not already be a known
// non-terminal; SetStart does not validate.
func (g *CFG) SetStart(a symbol.Symbol) { g.start = a }

// AddProduction appends rhs as a new alternative production for nt. The
// first call for a given nt establishes its declaration order; nt is added
// to the NonTerminal vocabulary automatically. Every Terminal symbol
// appearing in rhs is added to the Terminal vocabulary automatically.
func (g *CFG) AddProduction(nt symbol.Symbol, rhs Production) {
	if !nt.IsNonTerminal() {
		panic(fmt.Sprintf("cfg: left-hand side must be a non-terminal, got %q", nt))
	}

	if _, ok := g.nonTerminals[nt]; !ok {
		g.nonTerminals[nt] = true
		g.order = append(g.order, nt)
	}

	for _, s := range rhs {
		if s.IsTerminal() {
			g.terminals[s] = true
		}
	}

	idx := len(g.productions)
	g.productions = append(g.productions, rhs)
	g.owner = append(g.owner, nt)
	g.byNonTerminal[nt] = append(g.byNonTerminal[nt], idx)
}

// Production returns the production at the given global index.
func (g *CFG) Production(idx int) Production { return g.productions[idx] }

// ProductionCount returns the total number of productions in the grammar.
func (g *CFG) ProductionCount() int { return len(g.productions) }

// Owner returns the non-terminal that owns the production at idx.
func (g *CFG) Owner(idx int) symbol.Symbol { return g.owner[idx] }

// ProductionsOf returns the indices of the productions belonging to nt, in
// declaration order. It returns nil if nt is not a known non-terminal.
func (g *CFG) ProductionsOf(nt symbol.Symbol) []int {
	return g.byNonTerminal[nt]
}

// NonTerminals returns every non-terminal in the grammar, in the order each
// was first introduced via AddProduction.
func (g *CFG) NonTerminals() []symbol.Symbol {
	out := make([]symbol.Symbol, len(g.order))
	copy(out, g.order)
	return out
}

// IsNonTerminal reports whether s is a non-terminal known to this grammar.
func (g *CFG) IsNonTerminal(s symbol.Symbol) bool { return g.nonTerminals[s] }

// Terminals returns every terminal discovered on a production right-hand
// side, sorted by name, plus the "$" end-of-input sentinel. "$" is included
// exactly once whether or not a production's right-hand side already
// mentions it explicitly (spec.md's augmenting-production reading of the
// start symbol's production does).
func (g *CFG) Terminals() []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(g.terminals)+1)
	for t := range g.terminals {
		out = append(out, t)
	}
	if !g.terminals[symbol.EndOfInput] {
		out = append(out, symbol.EndOfInput)
	}
	sortSymbols(out)
	return out
}

// IsTerminal reports whether s is a terminal known to this grammar (or the
// end-of-input sentinel, which is always known).
func (g *CFG) IsTerminal(s symbol.Symbol) bool {
	return s == symbol.EndOfInput || g.terminals[s]
}

func sortSymbols(s []symbol.Symbol) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && symbol.Less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// Validate checks the structural invariants a CFG must hold before it can
// be analyzed: at least one production, a start symbol with at least one
// production, and every symbol referenced on a right-hand side defined
// somewhere (as a non-terminal with productions, or as a known terminal).
func (g *CFG) Validate() error {
	if len(g.productions) == 0 {
		return fmt.Errorf("cfg: grammar has no productions")
	}
	if _, ok := g.byNonTerminal[g.start]; !ok {
		return fmt.Errorf("cfg: no productions defined for start symbol %q", g.start)
	}

	var errs []string
	for i, p := range g.productions {
		if p.OnlyLambda() {
			continue
		}
		for _, s := range p {
			if s.IsNonTerminal() {
				if _, ok := g.byNonTerminal[s]; !ok {
					errs = append(errs, fmt.Sprintf("production %d (%s -> %s): undefined non-terminal %q", i, g.owner[i], p, s))
				}
			} else if s.IsTerminal() && s != symbol.EndOfInput {
				if !g.terminals[s] {
					errs = append(errs, fmt.Sprintf("production %d (%s -> %s): undefined terminal %q", i, g.owner[i], p, s))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("cfg: invalid grammar:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
