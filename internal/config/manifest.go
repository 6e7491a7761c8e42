package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ConfigEntry names one lexer configuration file a Manifest batches into a
// single compiler run, and (mirroring the teacher's FileInfo.Format field
// in internal/tqw/tqw.go) the format it's written in — reserved for a
// future alternative to spec.md §6's line-oriented format, always "text"
// today.
type ConfigEntry struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

// Manifest is a TOML project file batching several lexer configuration
// files into one compiler invocation, sharing a single output directory.
// It has no counterpart in spec.md; it exists so cmd/lexforge can compile
// a whole project in one invocation the way the teacher's tqw.Manifest
// batches a game world's resource files.
type Manifest struct {
	Name      string        `toml:"name"`
	OutputDir string        `toml:"output_dir"`
	Configs   []ConfigEntry `toml:"config"`
}

// LoadManifest reads and decodes a project manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("config: loading manifest %s: %w", path, err)
	}
	if m.OutputDir == "" {
		m.OutputDir = "."
	}
	for _, c := range m.Configs {
		if c.Format != "" && c.Format != "text" {
			return nil, fmt.Errorf("config: manifest %s: unsupported config format %q", path, c.Format)
		}
	}
	return &m, nil
}
