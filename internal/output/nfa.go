// Package output implements the two output file formats of spec.md §6:
// the per-pattern NFA file (nfa.go) and the index file (index.go), plus
// an optional Graphviz export (dot.go) used only by the command-line
// front end's debugging flag — spec.md §1 names Graphviz export as
// out-of-scope for the core, specified only by its interface.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/arlojensen/lexforge/internal/automaton"
	"github.com/arlojensen/lexforge/internal/config"
)

// ChooseLambdaChar picks the NFA file's reserved ε-symbol: the first
// unused ASCII letter in the closed range A..z (spec.md §4.7, §6), which
// spans 'A'-'Z', the six punctuation bytes between 'Z' and 'a', and
// 'a'-'z'. It returns an error if alphabet saturates the entire range.
func ChooseLambdaChar(alphabet []byte) (byte, error) {
	in := make(map[byte]bool, len(alphabet))
	for _, c := range alphabet {
		in[c] = true
	}
	for c := byte('A'); c <= 'z'; c++ {
		if !in[c] {
			return c, nil
		}
	}
	return 0, fmt.Errorf("output: alphabet saturates A..z, leaving no lambda-char")
}

// WriteNFA writes nfa's text representation to w, per spec.md §6's NFA
// file format.
func WriteNFA(w io.Writer, nfa *automaton.NFA, alphabet []byte) error {
	lambda, err := ChooseLambdaChar(alphabet)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	pairs := nfa.Pairs()

	fmt.Fprintf(bw, "%d %c", len(pairs), lambda)
	for _, c := range alphabet {
		fmt.Fprintf(bw, " %s", config.EncodeByte(c))
	}
	fmt.Fprint(bw, "\n")

	for _, p := range pairs {
		marker := '-'
		if p.From == 1 {
			marker = '+'
		}
		fmt.Fprintf(bw, "%c %d %d", marker, p.From, p.To)
		for _, c := range p.Chars {
			fmt.Fprintf(bw, " %s", config.EncodeByte(c))
		}
		if p.Epsilon {
			fmt.Fprintf(bw, " %c", lambda)
		}
		fmt.Fprint(bw, "\n")
	}

	return bw.Flush()
}
