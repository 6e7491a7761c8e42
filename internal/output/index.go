package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/arlojensen/lexforge/internal/config"
)

// IndexEntry is one compiled pattern's line in the index file: its
// identifier and optional token category (the NFA filename is always
// "<identifier>.tt").
type IndexEntry struct {
	ID       string
	Category string
}

// WriteIndex writes the index file per spec.md §6: the alphabet header
// line, then one "<identifier>.tt<TAB><identifier><TAB><category>" line
// per pattern, in the order given.
func WriteIndex(w io.Writer, alphabet []byte, entries []IndexEntry) error {
	bw := bufio.NewWriter(w)

	for _, c := range alphabet {
		fmt.Fprint(bw, config.EncodeByteHex(c))
	}
	fmt.Fprint(bw, "\n")

	for _, e := range entries {
		fmt.Fprintf(bw, "%s.tt\t%s\t%s\n", e.ID, e.ID, e.Category)
	}

	return bw.Flush()
}
