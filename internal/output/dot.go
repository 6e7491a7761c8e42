package output

import (
	"fmt"
	"io"

	"github.com/arlojensen/lexforge/internal/automaton"
	"github.com/arlojensen/lexforge/internal/config"
)

// WriteDot renders nfa as a Graphviz "dot" graph, for the command-line
// front end's debugging flag. This has no counterpart in spec.md's core;
// spec.md §1 names Graphviz export as one of the pieces "specified only
// by their interface to the core", so its implementation is free-form.
func WriteDot(w io.Writer, name string, nfa *automaton.NFA) error {
	fmt.Fprintf(w, "digraph %s {\n", name)
	fmt.Fprintf(w, "  rankdir=LR;\n")
	fmt.Fprintf(w, "  node [shape=circle];\n")
	fmt.Fprintf(w, "  %d [shape=doublecircle];\n", automaton.AcceptState)

	for _, p := range nfa.Pairs() {
		label := ""
		for i, c := range p.Chars {
			if i > 0 {
				label += ","
			}
			label += config.EncodeByte(c)
		}
		if p.Epsilon {
			if label != "" {
				label += ","
			}
			label += "ε"
		}
		fmt.Fprintf(w, "  %d -> %d [label=%q];\n", p.From, p.To, label)
	}

	fmt.Fprintf(w, "}\n")
	return nil
}
