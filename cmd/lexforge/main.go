// Command lexforge compiles a set of regular-expression patterns, each
// tagged with an identifier, into per-pattern NFA files and an index file
// mapping identifiers to their automaton files and token categories
// (spec.md §1, §6).
//
// Usage:
//
//	lexforge -config patterns.cfg -out build/
//	lexforge -manifest project.toml
//
// A single lexer configuration file compiles with -config; a TOML
// manifest batches several configuration files, each into its own
// subdirectory of the manifest's output_dir, with -manifest.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/arlojensen/lexforge/internal/ast"
	"github.com/arlojensen/lexforge/internal/cfg"
	"github.com/arlojensen/lexforge/internal/compiler"
	"github.com/arlojensen/lexforge/internal/config"
	"github.com/arlojensen/lexforge/internal/lex"
	"github.com/arlojensen/lexforge/internal/output"
	"github.com/arlojensen/lexforge/internal/parse"
	"github.com/arlojensen/lexforge/internal/version"
)

// Exit codes, grounded on the teacher's cmd/tqi/main.go const block.
const (
	ExitSuccess = iota
	ExitConfigError
	ExitCompileError
)

func main() {
	os.Exit(run())
}

type job struct {
	configPath string
	outDir     string
}

func run() int {
	var (
		configPath   = pflag.StringP("config", "c", "", "path to a lexer configuration file")
		manifestPath = pflag.StringP("manifest", "m", "", "path to a TOML project manifest batching multiple configuration files")
		outDir       = pflag.StringP("out", "o", "build", "directory to write NFA and index files into (ignored with -manifest)")
		cacheDir     = pflag.String("cache-dir", filepath.Join(os.TempDir(), "lexforge-cache"), "directory for the cached LL(1) table")
		noCache      = pflag.Bool("no-cache", false, "rebuild the LL(1) table instead of reusing a cached one")
		dotOut       = pflag.Bool("dot", false, "also emit a Graphviz .dot file of the compiled NFA per pattern")
		dotTreeOut   = pflag.Bool("dot-tree", false, "also emit a Graphviz .dot file of the simplified AST per pattern")
		dumpTable    = pflag.Bool("dump-table", false, "print the regex grammar's LL(1) parse table to stderr before compiling")
		showVersion  = pflag.BoolP("version", "v", false, "print the lexforge version and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Println("lexforge " + version.Current)
		return ExitSuccess
	}

	buildID := uuid.New().String()
	logger := log.New(os.Stderr, fmt.Sprintf("lexforge[%s] ", buildID[:8]), log.LstdFlags)

	if *configPath == "" && *manifestPath == "" {
		fmt.Fprintln(os.Stderr, "lexforge: one of -config or -manifest is required")
		pflag.Usage()
		return ExitConfigError
	}

	if *dumpTable {
		if err := dumpLLTable(os.Stderr); err != nil {
			logger.Println(err)
			return ExitConfigError
		}
	}

	jobs, err := resolveJobs(*configPath, *manifestPath, *outDir)
	if err != nil {
		logger.Println(err)
		return ExitConfigError
	}

	exitCode := ExitSuccess
	for _, j := range jobs {
		if err := compileJob(j, *cacheDir, *noCache, *dotOut, *dotTreeOut, logger); err != nil {
			logger.Println(err)
			exitCode = ExitCompileError
		}
	}
	return exitCode
}

func resolveJobs(configPath, manifestPath, outDir string) ([]job, error) {
	if manifestPath == "" {
		return []job{{configPath: configPath, outDir: outDir}}, nil
	}

	m, err := config.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(manifestPath)
	outBase := m.OutputDir
	if !filepath.IsAbs(outBase) {
		outBase = filepath.Join(base, outBase)
	}

	jobs := make([]job, 0, len(m.Configs))
	for _, entry := range m.Configs {
		p := entry.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		jobs = append(jobs, job{configPath: p, outDir: filepath.Join(outBase, name)})
	}
	return jobs, nil
}

func compileJob(j job, cacheDir string, noCache, dotOut, dotTreeOut bool, logger *log.Logger) error {
	f, err := os.Open(j.configPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", j.configPath, err)
	}
	defer f.Close()

	lc, err := config.ParseLexerConfig(f)
	if err != nil {
		return fmt.Errorf("%s: %w", j.configPath, err)
	}

	var c *compiler.Compiler
	if noCache {
		c, err = compiler.New(lc.Alphabet)
	} else {
		c, err = compiler.NewCached(cacheDir, lc.Alphabet)
	}
	if err != nil {
		return err
	}

	entries, err := c.CompileAll(lc.Patterns, j.outDir, logger)
	if err != nil {
		return err
	}

	idxFile, err := os.Create(filepath.Join(j.outDir, "index"))
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	defer idxFile.Close()
	if err := output.WriteIndex(idxFile, lc.Alphabet, entries); err != nil {
		return fmt.Errorf("writing index file: %w", err)
	}

	if dotOut {
		emitDotFiles(c, lc.Patterns, j.outDir, logger)
	}
	if dotTreeOut {
		emitTreeDotFiles(c, lc.Patterns, j.outDir, logger)
	}

	logger.Printf("compiled %d pattern(s) from %s into %s", len(entries), j.configPath, j.outDir)
	return nil
}

// dumpLLTable prints the regex grammar's LL(1) parse table, the way the
// reference implementation's debug binary printed its First/Follow/Predict
// sets and table grid before parsing a sample regex.
func dumpLLTable(w io.Writer) error {
	g, err := cfg.DefaultGrammar()
	if err != nil {
		return fmt.Errorf("dump-table: %w", err)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("dump-table: %w", err)
	}
	table, err := cfg.BuildLLTable(g)
	if err != nil {
		return fmt.Errorf("dump-table: %w", err)
	}
	fmt.Fprintln(w, table.String())
	return nil
}

// emitTreeDotFiles writes one Graphviz .dot file per pattern rendering its
// simplified AST, the way the reference implementation's AstNode::
// export_graph rendered a parse tree before NFA generation.
func emitTreeDotFiles(c *compiler.Compiler, patterns []config.PatternSpec, outDir string, logger *log.Logger) {
	for _, p := range patterns {
		toks, err := lex.Tokenize(p.Regex)
		if err != nil {
			continue
		}
		tree, err := parse.Parse(lex.NewStream(toks), c.Grammar, c.Table)
		if err != nil {
			continue
		}
		simplified, err := ast.Simplify(tree)
		if err != nil {
			continue
		}

		df, err := os.Create(filepath.Join(outDir, p.ID+".tree.dot"))
		if err != nil {
			logger.Printf("pattern %q: creating tree dot file: %v", p.ID, err)
			continue
		}
		if err := ast.WriteDot(df, p.ID, simplified); err != nil {
			logger.Printf("pattern %q: writing tree dot file: %v", p.ID, err)
		}
		df.Close()
	}
}

func emitDotFiles(c *compiler.Compiler, patterns []config.PatternSpec, outDir string, logger *log.Logger) {
	for _, p := range patterns {
		nfa, err := c.CompilePattern(p)
		if err != nil {
			continue
		}
		df, err := os.Create(filepath.Join(outDir, p.ID+".dot"))
		if err != nil {
			logger.Printf("pattern %q: creating dot file: %v", p.ID, err)
			continue
		}
		if err := output.WriteDot(df, p.ID, nfa); err != nil {
			logger.Printf("pattern %q: writing dot file: %v", p.ID, err)
		}
		df.Close()
	}
}
