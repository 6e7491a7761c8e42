package output_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojensen/lexforge/internal/output"
)

func TestWriteIndexHeaderAndRows(t *testing.T) {
	entries := []output.IndexEntry{
		{ID: "TOK_B", Category: "letter"},
		{ID: "TOK_C", Category: ""},
	}

	var sb strings.Builder
	require.NoError(t, output.WriteIndex(&sb, []byte("bc"), entries))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "x62x63", lines[0])
	assert.Equal(t, "TOK_B.tt\tTOK_B\tletter", lines[1])
	assert.Equal(t, "TOK_C.tt\tTOK_C\t", lines[2])
}

func TestWriteIndexEmptyEntries(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, output.WriteIndex(&sb, []byte("a"), nil))
	assert.Equal(t, "x61\n", sb.String())
}
