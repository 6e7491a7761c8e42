// Package cache memoizes the LL(1) table build across invocations. The
// grammar embedded in internal/cfg never changes at runtime, so the
// nullability/first/follow/predict analysis of spec.md §4.3-§4.4 is pure
// overhead after the first run against a given grammar source; this
// package lets cmd/lexforge skip straight to a serialized table keyed by
// a content hash of the grammar text.
//
// Serialization goes through github.com/dekarrin/rezi, the binary codec
// the teacher uses for its own persisted game state
// (server/dao/sqlite/sqlite.go's rezi.EncBinary/DecBinary calls); the
// hash key uses golang.org/x/crypto/blake2b, following the rest of the
// pack's preference for a real cryptographic hash package over rolling
// one's own.
package cache

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"
	"golang.org/x/crypto/blake2b"

	"github.com/arlojensen/lexforge/internal/cfg"
	"github.com/arlojensen/lexforge/internal/symbol"
)

// Key returns the content-addressed cache key for a grammar source: the
// hex-encoded BLAKE2b-256 digest of its bytes.
func Key(grammarSource string) string {
	sum := blake2b.Sum256([]byte(grammarSource))
	return hex.EncodeToString(sum[:])
}

// Entry is the serializable snapshot of a built CFG and LLTable.
type Entry struct {
	NonTerminals     []string
	Terminals        []string
	Start            string
	ProductionOwners []string
	ProductionRHS    [][]string
	Cells            map[string]map[string]int
}

// FromTable snapshots g and t into a serializable Entry.
func FromTable(g *cfg.CFG, t *cfg.LLTable) *Entry {
	e := &Entry{Start: g.Start().Name()}

	for _, nt := range g.NonTerminals() {
		e.NonTerminals = append(e.NonTerminals, nt.Name())
	}
	for _, term := range g.Terminals() {
		e.Terminals = append(e.Terminals, term.Name())
	}

	for i := 0; i < g.ProductionCount(); i++ {
		e.ProductionOwners = append(e.ProductionOwners, g.Owner(i).Name())
		p := g.Production(i)
		rhs := make([]string, len(p))
		for j, s := range p {
			rhs[j] = s.Name()
			if s.IsLambda() {
				rhs[j] = "lambda"
			}
		}
		e.ProductionRHS = append(e.ProductionRHS, rhs)
	}

	e.Cells = map[string]map[string]int{}
	for nt, row := range t.Cells() {
		r := map[string]int{}
		for term, idx := range row {
			key := term.Name()
			if term == symbol.EndOfInput {
				key = "$"
			}
			r[key] = idx
		}
		e.Cells[nt.Name()] = r
	}

	return e
}

// ToTable rebuilds a CFG and LLTable from a deserialized Entry, without
// re-running the nullability/first/follow/predict analysis.
func ToTable(e *Entry) (*cfg.CFG, *cfg.LLTable, error) {
	g := cfg.New()
	g.SetStart(symbol.NonTerminal(e.Start))

	for i, owner := range e.ProductionOwners {
		rhsToks := e.ProductionRHS[i]
		rhs := make(cfg.Production, len(rhsToks))
		for j, tok := range rhsToks {
			s, err := symbol.ParseSymbol(tok)
			if err != nil {
				return nil, nil, fmt.Errorf("cache: decoding production %d: %w", i, err)
			}
			rhs[j] = s
		}
		nt, err := symbol.ParseSymbol(owner)
		if err != nil {
			return nil, nil, fmt.Errorf("cache: decoding production %d owner: %w", i, err)
		}
		g.AddProduction(nt, rhs)
	}

	cells := map[symbol.Symbol]map[symbol.Symbol]int{}
	for ntName, row := range e.Cells {
		nt, err := symbol.ParseSymbol(ntName)
		if err != nil {
			return nil, nil, fmt.Errorf("cache: decoding cell row %q: %w", ntName, err)
		}
		r := map[symbol.Symbol]int{}
		for termName, idx := range row {
			t, err := symbol.ParseSymbol(termName)
			if err != nil {
				return nil, nil, fmt.Errorf("cache: decoding cell %q: %w", termName, err)
			}
			r[t] = idx
		}
		cells[nt] = r
	}

	return g, cfg.NewLLTableFromCells(g, cells), nil
}

// MarshalBinary implements encoding.BinaryMarshaler with a simple
// length-prefixed encoding, so rezi.EncBinary can wrap it with its own
// framing the way the teacher's sqlite DAO wraps its state structs.
func (e *Entry) MarshalBinary() ([]byte, error) {
	var w lengthPrefixedWriter

	w.writeStrings(e.NonTerminals)
	w.writeStrings(e.Terminals)
	w.writeString(e.Start)
	w.writeStrings(e.ProductionOwners)

	w.writeUint(uint64(len(e.ProductionRHS)))
	for _, rhs := range e.ProductionRHS {
		w.writeStrings(rhs)
	}

	w.writeUint(uint64(len(e.Cells)))
	for nt, row := range e.Cells {
		w.writeString(nt)
		w.writeUint(uint64(len(row)))
		for term, idx := range row {
			w.writeString(term)
			w.writeUint(uint64(idx))
		}
	}

	return w.buf, nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (e *Entry) UnmarshalBinary(data []byte) error {
	r := &lengthPrefixedReader{buf: data}

	var err error
	if e.NonTerminals, err = r.readStrings(); err != nil {
		return err
	}
	if e.Terminals, err = r.readStrings(); err != nil {
		return err
	}
	if e.Start, err = r.readString(); err != nil {
		return err
	}
	if e.ProductionOwners, err = r.readStrings(); err != nil {
		return err
	}

	n, err := r.readUint()
	if err != nil {
		return err
	}
	e.ProductionRHS = make([][]string, n)
	for i := range e.ProductionRHS {
		if e.ProductionRHS[i], err = r.readStrings(); err != nil {
			return err
		}
	}

	nCells, err := r.readUint()
	if err != nil {
		return err
	}
	e.Cells = make(map[string]map[string]int, nCells)
	for i := uint64(0); i < nCells; i++ {
		nt, err := r.readString()
		if err != nil {
			return err
		}
		nRow, err := r.readUint()
		if err != nil {
			return err
		}
		row := make(map[string]int, nRow)
		for j := uint64(0); j < nRow; j++ {
			term, err := r.readString()
			if err != nil {
				return err
			}
			idx, err := r.readUint()
			if err != nil {
				return err
			}
			row[term] = int(idx)
		}
		e.Cells[nt] = row
	}

	return r.err
}

// Save encodes e with rezi.EncBinary and writes it to dir/<key>.cache.
func Save(dir, key string, e *Entry) error {
	data := rezi.EncBinary(e)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, key+".cache"), data, 0o644)
}

// Load reads and decodes dir/<key>.cache. It returns os.ErrNotExist
// (wrapped) when the key has never been cached.
func Load(dir, key string) (*Entry, error) {
	data, err := os.ReadFile(filepath.Join(dir, key+".cache"))
	if err != nil {
		return nil, err
	}
	var e Entry
	if _, err := rezi.DecBinary(data, &e); err != nil {
		return nil, fmt.Errorf("cache: decoding: %w", err)
	}
	return &e, nil
}

type lengthPrefixedWriter struct {
	buf []byte
}

func (w *lengthPrefixedWriter) writeUint(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *lengthPrefixedWriter) writeString(s string) {
	w.writeUint(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *lengthPrefixedWriter) writeStrings(ss []string) {
	w.writeUint(uint64(len(ss)))
	for _, s := range ss {
		w.writeString(s)
	}
}

type lengthPrefixedReader struct {
	buf []byte
	pos int
	err error
}

func (r *lengthPrefixedReader) readUint() (uint64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.pos+8 > len(r.buf) {
		r.err = io.ErrUnexpectedEOF
		return 0, r.err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *lengthPrefixedReader) readString() (string, error) {
	n, err := r.readUint()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.buf) {
		r.err = io.ErrUnexpectedEOF
		return "", r.err
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *lengthPrefixedReader) readStrings() ([]string, error) {
	n, err := r.readUint()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.readString(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
