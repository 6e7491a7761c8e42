package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojensen/lexforge/internal/config"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "project.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadManifestBasic(t *testing.T) {
	path := writeManifest(t, `
name = "demo"
output_dir = "build"

[[config]]
path = "keywords.lexconf"
format = "text"

[[config]]
path = "operators.lexconf"
`)

	m, err := config.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)
	assert.Equal(t, "build", m.OutputDir)
	require.Len(t, m.Configs, 2)
	assert.Equal(t, "keywords.lexconf", m.Configs[0].Path)
	assert.Equal(t, "text", m.Configs[0].Format)
	assert.Equal(t, "operators.lexconf", m.Configs[1].Path)
}

func TestLoadManifestDefaultsOutputDirToCurrentDir(t *testing.T) {
	path := writeManifest(t, `name = "demo"`)
	m, err := config.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, ".", m.OutputDir)
}

func TestLoadManifestRejectsUnsupportedFormat(t *testing.T) {
	path := writeManifest(t, `
name = "demo"
[[config]]
path = "x.lexconf"
format = "binary"
`)
	_, err := config.LoadManifest(path)
	assert.Error(t, err)
}

func TestLoadManifestRejectsMissingFile(t *testing.T) {
	_, err := config.LoadManifest(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
