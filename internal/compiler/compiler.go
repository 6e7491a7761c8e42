// Package compiler orchestrates the per-pattern pipeline of spec.md §2:
// regex text -> token stream -> (CFG + table) -> concrete tree -> AST ->
// NFA, plus the file-writing side of spec.md §6. It owns the propagation
// policy of spec.md §7: grammar and I/O errors abort the whole run;
// lexical, parse, simplification, and generator errors abort only the
// offending pattern.
package compiler

import (
	"log"
	"os"
	"path/filepath"

	"github.com/arlojensen/lexforge/internal/ast"
	"github.com/arlojensen/lexforge/internal/automaton"
	"github.com/arlojensen/lexforge/internal/cache"
	"github.com/arlojensen/lexforge/internal/cfg"
	"github.com/arlojensen/lexforge/internal/config"
	"github.com/arlojensen/lexforge/internal/lex"
	"github.com/arlojensen/lexforge/internal/lexerrors"
	"github.com/arlojensen/lexforge/internal/output"
	"github.com/arlojensen/lexforge/internal/parse"
)

// Compiler holds the CFG and LL(1) table built once per process
// (spec.md §5: "The CFG and table are built once per process") and the
// alphabet every pattern in this run compiles against.
type Compiler struct {
	Grammar  *cfg.CFG
	Table    *cfg.LLTable
	Alphabet []byte
}

// New builds a Compiler by loading and analyzing the embedded regex
// grammar from scratch.
func New(alphabet []byte) (*Compiler, error) {
	g, err := cfg.DefaultGrammar()
	if err != nil {
		return nil, lexerrors.GrammarWrap(err, "loading grammar")
	}
	if err := g.Validate(); err != nil {
		return nil, lexerrors.GrammarWrap(err, "validating grammar")
	}
	table, err := cfg.BuildLLTable(g)
	if err != nil {
		return nil, lexerrors.GrammarWrap(err, "building LL(1) table")
	}
	return &Compiler{Grammar: g, Table: table, Alphabet: alphabet}, nil
}

// NewCached is New, but consults dir for a previously cached LL(1) table
// keyed by the grammar's content hash before recomputing one, and saves
// whatever it builds back to dir.
func NewCached(dir string, alphabet []byte) (*Compiler, error) {
	key := cache.Key(cfg.GrammarSource())

	if entry, err := cache.Load(dir, key); err == nil {
		g, table, err := cache.ToTable(entry)
		if err == nil {
			return &Compiler{Grammar: g, Table: table, Alphabet: alphabet}, nil
		}
	}

	c, err := New(alphabet)
	if err != nil {
		return nil, err
	}
	_ = cache.Save(dir, key, cache.FromTable(c.Grammar, c.Table))
	return c, nil
}

// CompilePattern runs one pattern through the full pipeline and returns
// its NFA.
func (c *Compiler) CompilePattern(spec config.PatternSpec) (*automaton.NFA, error) {
	toks, err := lex.Tokenize(spec.Regex)
	if err != nil {
		return nil, lexerrors.Lexical(spec.ID, "%v", err)
	}

	tree, err := parse.Parse(lex.NewStream(toks), c.Grammar, c.Table)
	if err != nil {
		return nil, lexerrors.Parse(spec.ID, "%v", err)
	}

	simplified, err := ast.Simplify(tree)
	if err != nil {
		return nil, lexerrors.Simplify(spec.ID, "%v", err)
	}

	nfa, err := automaton.Build(simplified, c.Alphabet)
	if err != nil {
		return nil, lexerrors.Generate(spec.ID, "%v", err)
	}
	if _, err := output.ChooseLambdaChar(c.Alphabet); err != nil {
		return nil, lexerrors.Generate(spec.ID, "%v", err)
	}

	return nfa, nil
}

// CompileAll compiles every pattern in patterns, writing one NFA file per
// pattern into outDir. A per-pattern error is logged to logger and the
// pattern is skipped; an I/O error aborts the whole run immediately.
func (c *Compiler) CompileAll(patterns []config.PatternSpec, outDir string, logger *log.Logger) ([]output.IndexEntry, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, lexerrors.IOWrap(err, "creating output directory")
	}

	entries := make([]output.IndexEntry, 0, len(patterns))
	for _, p := range patterns {
		nfa, err := c.CompilePattern(p)
		if err != nil {
			logger.Printf("skipping pattern %q: %v", p.ID, err)
			continue
		}

		if err := writeNFAFile(outDir, p.ID, nfa, c.Alphabet); err != nil {
			return nil, err
		}

		entries = append(entries, output.IndexEntry{ID: p.ID, Category: p.Category})
	}

	return entries, nil
}

func writeNFAFile(outDir, id string, nfa *automaton.NFA, alphabet []byte) error {
	f, err := os.Create(filepath.Join(outDir, id+".tt"))
	if err != nil {
		return lexerrors.IOWrap(err, "creating NFA file")
	}
	writeErr := output.WriteNFA(f, nfa, alphabet)
	closeErr := f.Close()
	if writeErr != nil {
		return lexerrors.IOWrap(writeErr, "writing NFA file")
	}
	if closeErr != nil {
		return lexerrors.IOWrap(closeErr, "closing NFA file")
	}
	return nil
}
