package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlojensen/lexforge/internal/ast"
)

// concrete builds a concrete-tree node the way the parser driver would:
// only symbols with an AST contribution become children.
func concrete(kind ast.Kind, children ...*ast.Node) *ast.Node {
	return &ast.Node{Kind: kind, Children: children}
}

func lambda() *ast.Node { return ast.New(ast.KindLambda) }

// concreteSingleChar builds a minimal "Regex -> Alt" concrete tree around a
// single Seq of one Char, with no alternation and no trailing modifier:
// effectively the concrete tree for the single-character pattern "b".
func concreteSingleChar(c byte) *ast.Node {
	nucleus := concrete(ast.KindNucleus, ast.NewChar(c), concrete(ast.KindCharRng, lambda()))
	atomMod := concrete(ast.KindAtomMod, lambda())
	atom := concrete(ast.KindAtom, nucleus, atomMod)
	seqList := concrete(ast.KindSeqList, lambda())
	seq := concrete(ast.KindSeq, atom, seqList)
	altList := concrete(ast.KindAltList, lambda())
	alt := concrete(ast.KindAlt, seq, altList)
	return concrete(ast.KindRegex, alt)
}

func TestSimplifySingleChar(t *testing.T) {
	tree := concreteSingleChar('b')
	result, err := ast.Simplify(tree)
	require.NoError(t, err)

	// Single char collapses through Alt (one alternative); the Atom's
	// children are flattened into the Seq, leaving Seq[Char b].
	want := ast.New(ast.KindSeq, ast.NewChar('b'))
	assert.True(t, want.Equal(result), "got %s", result)
}

func TestSimplifyKleene(t *testing.T) {
	nucleus := concrete(ast.KindNucleus, ast.NewChar('b'), concrete(ast.KindCharRng, lambda()))
	atomMod := concrete(ast.KindAtomMod, ast.New(ast.KindKleene))
	atom := concrete(ast.KindAtom, nucleus, atomMod)
	seqList := concrete(ast.KindSeqList, lambda())
	seq := concrete(ast.KindSeq, atom, seqList)
	altList := concrete(ast.KindAltList, lambda())
	alt := concrete(ast.KindAlt, seq, altList)
	tree := concrete(ast.KindRegex, alt)

	result, err := ast.Simplify(tree)
	require.NoError(t, err)

	want := ast.New(ast.KindSeq, ast.New(ast.KindKleene, ast.NewChar('b')))
	assert.True(t, want.Equal(result), "got %s", result)
}

func TestSimplifyPlusDesugarsToSeqOfXAndKleeneX(t *testing.T) {
	nucleus := concrete(ast.KindNucleus, ast.NewChar('b'), concrete(ast.KindCharRng, lambda()))
	atomMod := concrete(ast.KindAtomMod, ast.New(ast.KindPlus))
	atom := concrete(ast.KindAtom, nucleus, atomMod)
	seqList := concrete(ast.KindSeqList, lambda())
	seq := concrete(ast.KindSeq, atom, seqList)
	altList := concrete(ast.KindAltList, lambda())
	alt := concrete(ast.KindAlt, seq, altList)
	tree := concrete(ast.KindRegex, alt)

	result, err := ast.Simplify(tree)
	require.NoError(t, err)

	want := ast.New(ast.KindSeq,
		ast.New(ast.KindSeq, ast.NewChar('b'), ast.New(ast.KindKleene, ast.NewChar('b'))))
	assert.True(t, want.Equal(result), "got %s", result)
}

func TestSimplifyCharRangeExpandsInclusive(t *testing.T) {
	rng := concrete(ast.KindCharRng, ast.NewChar('d'))
	nucleus := concrete(ast.KindNucleus, ast.NewChar('a'), rng)

	result, err := callSimplifyNucleus(nucleus)
	require.NoError(t, err)

	// simplify_atom's Lambda-modifier branch strips the Nucleus wrapper,
	// so the range's expansion surfaces directly as an Alt of Chars.
	want := ast.New(ast.KindAlt,
		ast.NewChar('a'), ast.NewChar('b'), ast.NewChar('c'), ast.NewChar('d'))
	assert.True(t, want.Equal(result), "got %s", result)
}

func TestSimplifyAltCollapsesSingleAlternative(t *testing.T) {
	tree := concreteSingleChar('c')
	result, err := ast.Simplify(tree)
	require.NoError(t, err)
	assert.Equal(t, ast.KindSeq, result.Kind, "a single alternative must not produce a wrapping Alt")
}

func TestSimplifyAltWithTwoAlternatives(t *testing.T) {
	seqB := concrete(ast.KindSeq,
		concrete(ast.KindAtom,
			concrete(ast.KindNucleus, ast.NewChar('b'), concrete(ast.KindCharRng, lambda())),
			concrete(ast.KindAtomMod, lambda())),
		concrete(ast.KindSeqList, lambda()))

	seqC := concrete(ast.KindSeq,
		concrete(ast.KindAtom,
			concrete(ast.KindNucleus, ast.NewChar('c'), concrete(ast.KindCharRng, lambda())),
			concrete(ast.KindAtomMod, lambda())),
		concrete(ast.KindSeqList, lambda()))

	innerAltList := concrete(ast.KindAltList, lambda())
	altListWithC := concrete(ast.KindAltList, seqC, innerAltList)
	alt := concrete(ast.KindAlt, seqB, altListWithC)
	tree := concrete(ast.KindRegex, alt)

	result, err := ast.Simplify(tree)
	require.NoError(t, err)

	assert.Equal(t, ast.KindAlt, result.Kind)
	require.Len(t, result.Children, 2)
	assert.Equal(t, ast.KindSeq, result.Children[0].Kind)
	assert.Equal(t, ast.KindSeq, result.Children[1].Kind)
}

// callSimplifyNucleus exercises simplify_nucleus indirectly through a
// minimal Atom/Seq/Alt/Regex wrapper, since the rule itself is
// unexported.
func callSimplifyNucleus(nucleus *ast.Node) (*ast.Node, error) {
	atom := concrete(ast.KindAtom, nucleus, concrete(ast.KindAtomMod, lambda()))
	seq := concrete(ast.KindSeq, atom, concrete(ast.KindSeqList, lambda()))
	alt := concrete(ast.KindAlt, seq, concrete(ast.KindAltList, lambda()))
	tree := concrete(ast.KindRegex, alt)

	result, err := ast.Simplify(tree)
	if err != nil {
		return nil, err
	}
	// result is Seq[...]: the Atom and Nucleus wrappers are flattened away,
	// so the first child is what the Nucleus held.
	return result.Children[0], nil
}
