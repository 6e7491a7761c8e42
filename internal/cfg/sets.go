package cfg

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/arlojensen/lexforge/internal/symbol"
)

// orderedSymbols converts a terminal-set produced by the analyses below into
// a deterministically-ordered slice, via a gods treeset keyed by
// symbol.Compare. spec.md §4.3 requires "All four analyses operate over
// ordered sets to produce deterministic output"; the teacher's own
// first/follow implementation (internal/tunascript/grammar.go FIRST/FOLLOW)
// gets this indirectly from Go map iteration plus util.OrderedKeys at the
// call site, but here the ordering is pushed down into the set type itself
// using the same ordered-set library npillmayer-gorgo wires for its own
// grammar-analysis sets (github.com/emirpasic/gods/sets/treeset).
func orderedSymbols(set map[symbol.Symbol]bool) []symbol.Symbol {
	ts := treeset.NewWith(symbol.Compare)
	for s := range set {
		ts.Add(s)
	}
	out := make([]symbol.Symbol, 0, ts.Size())
	for _, v := range ts.Values() {
		out = append(out, v.(symbol.Symbol))
	}
	return out
}

// dtlKey guards recursion in DerivesToLambda: it names the production of a
// non-terminal currently "in progress", per spec.md §4.3's "stack of
// (Production, NonTerminal) pairs".
type dtlKey struct {
	prodIdx int
	nt      symbol.Symbol
}

// DerivesToLambda reports whether some derivation from A reaches the empty
// string. It is pure: the guard against infinite recursion on a cyclic
// grammar is a map local to the top-level call, pushed and popped exactly
// like the stack spec.md §4.3 describes.
func DerivesToLambda(g *CFG, A symbol.Symbol) bool {
	return derivesToLambda(g, A, map[dtlKey]bool{})
}

func derivesToLambda(g *CFG, A symbol.Symbol, visiting map[dtlKey]bool) bool {
	for _, idx := range g.ProductionsOf(A) {
		p := g.Production(idx)
		if p.OnlyLambda() {
			return true
		}
		if p.ContainsTerminal() {
			continue
		}

		key := dtlKey{prodIdx: idx, nt: A}
		if visiting[key] {
			// already on the stack for this occurrence: treated as false
			continue
		}
		visiting[key] = true

		allDerive := true
		for _, s := range p {
			if !s.IsNonTerminal() {
				allDerive = false
				break
			}
			if !derivesToLambda(g, s, visiting) {
				allDerive = false
				break
			}
		}
		delete(visiting, key)

		if allDerive {
			return true
		}
	}
	return false
}

// First computes first(seq, T) as defined in spec.md §4.3: the set of
// terminals that can begin some string derivable from seq, given an
// already-visited set T used to break cycles through non-terminals. It
// returns the (possibly extended) visited set alongside the first set, as
// the spec's pair return value describes.
func First(g *CFG, seq Production, T map[symbol.Symbol]bool) (map[symbol.Symbol]bool, map[symbol.Symbol]bool) {
	if len(seq) == 0 {
		return map[symbol.Symbol]bool{}, T
	}

	X := seq[0]
	tail := seq[1:]

	if X.IsTerminal() {
		return map[symbol.Symbol]bool{X: true}, T
	}
	if X.IsLambda() {
		return map[symbol.Symbol]bool{}, T
	}

	// X is a NonTerminal.
	f := map[symbol.Symbol]bool{}
	if T[X] {
		// f starts empty; skip the production-recursion step.
	} else {
		T[X] = true
		for _, idx := range g.ProductionsOf(X) {
			pf, _ := First(g, g.Production(idx), T)
			for s := range pf {
				f[s] = true
			}
		}
	}

	if DerivesToLambda(g, X) {
		tf, _ := First(g, tail, T)
		for s := range tf {
			f[s] = true
		}
	}

	return f, T
}

// FirstSet computes first-set(A): the union over every production of A of
// First(rhs(p), ∅).
func FirstSet(g *CFG, A symbol.Symbol) map[symbol.Symbol]bool {
	out := map[symbol.Symbol]bool{}
	for _, idx := range g.ProductionsOf(A) {
		f, _ := First(g, g.Production(idx), map[symbol.Symbol]bool{})
		for s := range f {
			out[s] = true
		}
	}
	return out
}

// Follow computes follow(A, T) as defined in spec.md §4.3.
func Follow(g *CFG, A symbol.Symbol, T map[symbol.Symbol]bool) (map[symbol.Symbol]bool, map[symbol.Symbol]bool) {
	if T[A] {
		return map[symbol.Symbol]bool{}, T
	}
	T[A] = true

	f := map[symbol.Symbol]bool{}
	for idx := 0; idx < g.ProductionCount(); idx++ {
		lhs := g.Owner(idx)
		p := g.Production(idx)

		for i, s := range p {
			if s != A {
				continue
			}
			rest := p[i+1:]

			if len(rest) > 0 {
				rf, _ := First(g, rest, map[symbol.Symbol]bool{})
				for t := range rf {
					f[t] = true
				}
			}

			restIsNullableOrEmpty := true
			for _, r := range rest {
				if r.IsTerminal() {
					restIsNullableOrEmpty = false
					break
				}
				if r.IsLambda() {
					continue
				}
				if !DerivesToLambda(g, r) {
					restIsNullableOrEmpty = false
					break
				}
			}

			if len(rest) == 0 || restIsNullableOrEmpty {
				ff, _ := Follow(g, lhs, T)
				for t := range ff {
					f[t] = true
				}
			}
		}
	}

	return f, T
}

// FollowSet computes the full follow set of A, seeding "$" into the start
// symbol's follow set per spec.md §4.3's contract note. The teacher's own
// analyses do this by checking "X == g.StartSymbol()" directly inside the
// recursive walk (internal/tunascript/grammar.go
// recursiveFindFollowSet); the same effect is produced here, applied once
// at the public entry point rather than on every recursive occurrence,
// since FOLLOW(start) is the only set that needs the seed and Follow may be
// called recursively on the start symbol many times during one FollowSet
// computation.
func FollowSet(g *CFG, A symbol.Symbol) map[symbol.Symbol]bool {
	f, _ := Follow(g, A, map[symbol.Symbol]bool{})
	if A == g.Start() {
		f[symbol.EndOfInput] = true
	}
	return f
}

// Predict computes predict(A, p): follow(A) if p is the sole-lambda
// production, else first(rhs(p), ∅).
func Predict(g *CFG, A symbol.Symbol, prodIdx int) map[symbol.Symbol]bool {
	p := g.Production(prodIdx)
	if p.OnlyLambda() {
		return FollowSet(g, A)
	}
	f, _ := First(g, p, map[symbol.Symbol]bool{})
	return f
}

// LLTable is an LL(1) parse table: (NonTerminal, Terminal) -> production
// index. Every non-terminal has an entry for every terminal in the
// grammar plus "$"; an absent entry means the cell has no matching
// production.
type LLTable struct {
	g     *CFG
	cells map[symbol.Symbol]map[symbol.Symbol]int
}

// Cells returns every populated (NonTerminal, Terminal) -> production-index
// entry, for callers that need to serialize the table (internal/cache)
// rather than just look cells up.
func (t *LLTable) Cells() map[symbol.Symbol]map[symbol.Symbol]int {
	return t.cells
}

// NewLLTableFromCells reconstructs an LLTable for g from a previously
// serialized cell map, without recomputing predict sets. It performs no
// collision detection: the cells are assumed to have already passed
// BuildLLTable once.
func NewLLTableFromCells(g *CFG, cells map[symbol.Symbol]map[symbol.Symbol]int) *LLTable {
	return &LLTable{g: g, cells: cells}
}

// Lookup returns the production index predicted for (A, term), and whether
// the cell was populated at all.
func (t *LLTable) Lookup(A, term symbol.Symbol) (int, bool) {
	row, ok := t.cells[A]
	if !ok {
		return 0, false
	}
	idx, ok := row[term]
	return idx, ok
}

// String renders the table for diagnostics, via the same rosed table
// helper the teacher uses for LL1Table.String() in
// internal/tunascript/grammar.go.
func (t *LLTable) String() string {
	nts := t.g.NonTerminals()
	terms := t.g.Terminals()

	data := make([][]string, 0, len(nts)+1)
	header := make([]string, 0, len(terms)+1)
	header = append(header, "")
	for _, term := range terms {
		header = append(header, term.String())
	}
	data = append(data, header)

	for _, A := range nts {
		row := make([]string, 0, len(terms)+1)
		row = append(row, A.String())
		for _, term := range terms {
			if idx, ok := t.Lookup(A, term); ok {
				row = append(row, t.g.Production(idx).String())
			} else {
				row = append(row, "")
			}
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableBorders: true,
		}).
		String()
}

// BuildLLTable builds the LL(1) parse table for g following spec.md §4.4:
// for each non-terminal A and each production p of A, compute predict(A,
// p); for each terminal t in that set, assign (A, t) -> p. A collision (two
// distinct productions claiming the same cell) is a fatal grammar error.
func BuildLLTable(g *CFG) (*LLTable, error) {
	table := &LLTable{g: g, cells: map[symbol.Symbol]map[symbol.Symbol]int{}}

	for _, A := range g.NonTerminals() {
		table.cells[A] = map[symbol.Symbol]int{}
	}

	for _, A := range g.NonTerminals() {
		for _, idx := range g.ProductionsOf(A) {
			for _, t := range orderedSymbols(Predict(g, A, idx)) {
				if existing, ok := table.cells[A][t]; ok && existing != idx {
					return nil, fmt.Errorf("cfg: not LL(1): cell (%s, %s) claimed by both production %d (%s) and production %d (%s)",
						A, t, existing, g.Production(existing), idx, g.Production(idx))
				}
				table.cells[A][t] = idx
			}
		}
	}

	return table, nil
}
