package ast

import (
	"fmt"
	"io"
)

// WriteDot renders n as a Graphviz "dot" graph, one node per AstKind/Char
// value, for the command-line front end's --dot-tree debugging flag. This
// has no counterpart in spec.md's core; spec.md §1 names Graphviz export
// as one of the pieces "specified only by their interface to the core",
// so its implementation is free-form. It supplements internal/output's
// NFA-level --dot flag with a view of the tree one stage earlier, the way
// the reference implementation's AstNode::export_graph rendered the parse
// tree before NFA generation.
func WriteDot(w io.Writer, name string, n *Node) error {
	fmt.Fprintf(w, "digraph %s {\n", name)
	fmt.Fprintf(w, "  node [shape=box];\n")

	next := 0
	var walk func(*Node) int
	walk = func(node *Node) int {
		id := next
		next++

		label := "<nil>"
		if node != nil {
			label = node.Kind.String()
			if node.Kind == KindChar {
				label = fmt.Sprintf("Char(%q)", rune(node.Char))
			}
		}
		fmt.Fprintf(w, "  n%d [label=%q];\n", id, label)

		if node != nil {
			for _, c := range node.Children {
				childID := walk(c)
				fmt.Fprintf(w, "  n%d -> n%d;\n", id, childID)
			}
		}
		return id
	}
	walk(n)

	fmt.Fprintf(w, "}\n")
	return nil
}
