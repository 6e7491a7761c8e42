package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojensen/lexforge/internal/ast"
)

func TestWriteDotRendersNodesAndEdges(t *testing.T) {
	tree := ast.New(ast.KindSeq, ast.NewChar('a'), ast.NewChar('b'))

	var sb strings.Builder
	err := ast.WriteDot(&sb, "p1", tree)
	require.NoError(t, err)

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "digraph p1 {\n"))
	assert.Contains(t, out, `n0 [label="Seq"];`)
	assert.Contains(t, out, `n1 [label="Char('a')"];`)
	assert.Contains(t, out, `n2 [label="Char('b')"];`)
	assert.Contains(t, out, "n0 -> n1;")
	assert.Contains(t, out, "n0 -> n2;")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestWriteDotHandlesNilNode(t *testing.T) {
	var sb strings.Builder
	err := ast.WriteDot(&sb, "empty", nil)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), `n0 [label="<nil>"];`)
}
