// Package automaton implements the syntax-directed NFA construction of
// spec.md §4.7: a Thompson-style walk over a simplified AST that emits
// letter transitions and ε-transitions keyed by integer states, state 0
// always the start and state 1 always the accept state of the root
// pattern.
//
// The data-model shape (explicit letter/ε transition maps over integer
// states, rather than named states) follows spec.md §3 directly; its
// texture — small transition-table types with deterministic iteration —
// is grounded on the teacher's internal/tunascript/automaton.go NFA/DFA
// pair, generalized from that file's string-named LR-item states to the
// monotonically-allocated integer states this design requires.
package automaton

import (
	"fmt"
	"sort"

	"github.com/arlojensen/lexforge/internal/ast"
)

const (
	// StartState is the universal start state of every pattern's NFA.
	StartState = 0
	// AcceptState is the universal accept state of the root pattern.
	AcceptState = 1
)

type letterKey struct {
	state int
	char  byte
}

type epsilonKey struct {
	from, to int
}

// NFA accumulates the letter and ε transitions of one compiled pattern.
type NFA struct {
	letter  map[letterKey]int
	epsilon map[epsilonKey]bool
	next    int
}

// New returns an NFA with no transitions yet, its state counter seeded at
// 2 per spec.md §4.7 (0 and 1 are reserved).
func New() *NFA {
	return &NFA{
		letter:  map[letterKey]int{},
		epsilon: map[epsilonKey]bool{},
		next:    2,
	}
}

func (n *NFA) allocState() int {
	s := n.next
	n.next++
	return s
}

// StateCount returns the number of distinct states allocated so far
// (including the two reserved states).
func (n *NFA) StateCount() int { return n.next }

// Build runs the syntax-directed construction over root (the output of
// ast.Simplify) against alphabet, starting add(root, 0, 1).
func Build(root *ast.Node, alphabet []byte) (*NFA, error) {
	n := New()
	if err := n.add(root, StartState, AcceptState, alphabet); err != nil {
		return nil, err
	}
	return n, nil
}

// add implements spec.md §4.7's combinator table.
func (n *NFA) add(node *ast.Node, this, next int, alphabet []byte) error {
	switch node.Kind {
	case ast.KindRegex:
		if len(node.Children) != 1 {
			return fmt.Errorf("automaton: malformed Regex node reaching generator")
		}
		return n.add(node.Children[0], this, next, alphabet)

	case ast.KindChar:
		n.letter[letterKey{this, node.Char}] = next
		return nil

	case ast.KindDot:
		for _, c := range alphabet {
			n.letter[letterKey{this, c}] = next
		}
		return nil

	case ast.KindLambda:
		n.epsilon[epsilonKey{this, next}] = true
		return nil

	case ast.KindAlt:
		for _, child := range node.Children {
			if err := n.add(child, this, next, alphabet); err != nil {
				return err
			}
		}
		return nil

	case ast.KindKleene:
		if len(node.Children) != 1 {
			return fmt.Errorf("automaton: malformed Kleene node reaching generator")
		}
		n.epsilon[epsilonKey{this, next}] = true
		if err := n.add(node.Children[0], this, next, alphabet); err != nil {
			return err
		}
		n.epsilon[epsilonKey{next, this}] = true
		return nil

	case ast.KindSeq:
		return n.addSeq(node.Children, this, next, alphabet)

	case ast.KindAtom, ast.KindNucleus:
		if len(node.Children) != 1 {
			return fmt.Errorf("automaton: malformed %s node reaching generator", node.Kind)
		}
		return n.add(node.Children[0], this, next, alphabet)

	default:
		return fmt.Errorf("automaton: unexpected AstKind %s reaching generator", node.Kind)
	}
}

func (n *NFA) addSeq(children []*ast.Node, this, next int, alphabet []byte) error {
	k := len(children)
	switch {
	case k == 0:
		n.epsilon[epsilonKey{this, next}] = true
		return nil
	case k == 1:
		return n.add(children[0], this, next, alphabet)
	}

	mids := make([]int, k-1)
	for i := range mids {
		mids[i] = n.allocState()
	}

	if err := n.add(children[0], this, mids[0], alphabet); err != nil {
		return err
	}
	for i := 1; i < k-1; i++ {
		if err := n.add(children[i], mids[i-1], mids[i], alphabet); err != nil {
			return err
		}
	}
	return n.add(children[k-1], mids[k-2], next, alphabet)
}

// Pair is one (from, to) state pair together with every alphabet
// character carrying a letter transition between them, and whether an
// ε-transition also connects them.
type Pair struct {
	From, To int
	Chars    []byte
	Epsilon  bool
}

// Pairs returns every (from, to) pair carrying a transition, grouped and
// ordered deterministically: ascending by (From, To), each pair's Chars
// ascending. This is the grouping the NFA file writer (internal/output)
// needs directly, per spec.md §6's "each (from, to) pair is emitted once
// with all characters it carries".
func (n *NFA) Pairs() []Pair {
	type key struct{ from, to int }

	chars := map[key][]byte{}
	for lk, to := range n.letter {
		k := key{lk.state, to}
		chars[k] = append(chars[k], lk.char)
	}

	eps := map[key]bool{}
	for ek := range n.epsilon {
		eps[key{ek.from, ek.to}] = true
	}

	all := map[key]bool{}
	for k := range chars {
		all[k] = true
	}
	for k := range eps {
		all[k] = true
	}

	out := make([]Pair, 0, len(all))
	for k := range all {
		cs := append([]byte(nil), chars[k]...)
		sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
		out = append(out, Pair{From: k.from, To: k.to, Chars: cs, Epsilon: eps[k]})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
