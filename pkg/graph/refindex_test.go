package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildSimpleGraphWithReferences(t *testing.T) (*Arena, *LineStore) {
	t.Helper()
	a := NewArena()
	lines := NewLineStore()

	docA := a.NewNodeID()
	sectionA := a.NewNodeID()
	refNode := a.NewNodeID()
	leafWithInline := a.NewNodeID()

	inlineLine := lines.AddLine(Line{
		Str("see "),
		{Kind: InlineLink, Target: "docs/b", IsRefLink: true, RefKey: "docs/b", Children: []Inline{Str("b")}},
	})

	a.SetNode(docA, GraphNode{Kind: KindDocument, Key: "docs/a", Child: sectionA})
	a.SetNode(sectionA, GraphNode{Kind: KindSection, Prev: docA, Child: refNode})
	a.SetNode(refNode, GraphNode{Kind: KindReference, Prev: sectionA, RefKey: "docs/c", Next: leafWithInline})
	a.SetNode(leafWithInline, GraphNode{Kind: KindLeaf, Prev: refNode, Line: inlineLine})

	return a, lines
}

func TestRefIndexRebuildBlockAndInline(t *testing.T) {
	a, lines := buildSimpleGraphWithReferences(t)
	idx := NewRefIndex()
	idx.Rebuild(a, lines)

	assert.Len(t, idx.BlockReferencesTo(a, "docs/c"), 1)
	assert.Len(t, idx.InlineReferencesTo(a, "docs/b"), 1)
	assert.Empty(t, idx.BlockReferencesTo(a, "docs/unknown"))
}

func TestRefIndexFiltersTombstonedNodes(t *testing.T) {
	a, lines := buildSimpleGraphWithReferences(t)
	idx := NewRefIndex()
	idx.Rebuild(a, lines)

	require := idx.BlockReferencesTo(a, "docs/c")
	assert.Len(t, require, 1)

	a.DeleteBranch(require[0])
	assert.Empty(t, idx.BlockReferencesTo(a, "docs/c"))
}
