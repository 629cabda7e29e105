package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/graph"
)

// buildTwoDocGraph wires:
//
//	docs/a (root, no incoming refs)
//	  # Intro            (leaf-only Section, no descendant)
//	  -> [[docs/b]]       (block Reference, Next of Intro)
//	docs/b (has an incoming block reference, so it is not a root)
//	  # B page            (leaf-only Section)
func buildTwoDocGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(graph.Options{})
	a := g.Arena()
	lines := g.Lines()

	introLine := lines.AddLine(graph.Line{graph.Str("Intro")})
	bPageLine := lines.AddLine(graph.Line{graph.Str("B page")})

	rootA := a.NewNodeID()
	introSection := a.NewNodeID()
	ref := a.NewNodeID()

	a.SetNode(rootA, graph.GraphNode{Kind: graph.KindDocument, Key: "docs/a", Child: introSection})
	a.SetNode(introSection, graph.GraphNode{Kind: graph.KindSection, Prev: rootA, Line: introLine, Next: ref})
	a.SetNode(ref, graph.GraphNode{Kind: graph.KindReference, Prev: introSection, RefKey: "docs/b", RefText: "See B"})

	g.RegisterDocument("docs/a", rootA, nil, "Intro")

	rootB := a.NewNodeID()
	bSection := a.NewNodeID()
	a.SetNode(rootB, graph.GraphNode{Kind: graph.KindDocument, Key: "docs/b", Child: bSection})
	a.SetNode(bSection, graph.GraphNode{Kind: graph.KindSection, Prev: rootB, Line: bPageLine})

	g.RegisterDocument("docs/b", rootB, nil, "B page")

	g.RefIndex().Rebuild(a, lines)
	return g
}

func TestEnumerateRootsOnlyDocsWithNoIncomingReference(t *testing.T) {
	g := buildTwoDocGraph(t)

	roots := sortedRootKeys(g)
	require.Len(t, roots, 1)
	assert.Equal(t, graph.Key("docs/a"), roots[0])
}

func TestEnumerateFollowsReferenceWithinDepth(t *testing.T) {
	g := buildTwoDocGraph(t)

	got := Enumerate(g, 1)
	require.Len(t, got, 2)
	assert.Equal(t, "Intro", got[0].String())
	assert.Equal(t, "See B • B page", got[1].String())
}

func TestEnumerateDoesNotFollowReferenceAtDepthZero(t *testing.T) {
	g := buildTwoDocGraph(t)

	got := Enumerate(g, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "Intro", got[0].String())
	assert.Equal(t, "See B", got[1].String())
}

func TestEnumerateIsDeterministicallySortedAndDeduped(t *testing.T) {
	g := buildTwoDocGraph(t)

	first := Enumerate(g, 1)
	second := Enumerate(g, 1)
	assert.Equal(t, first, second)

	seen := map[string]bool{}
	for _, p := range first {
		assert.False(t, seen[p.String()], "duplicate path %q", p.String())
		seen[p.String()] = true
	}
}

func TestEnumerateBreaksCyclesBetweenDocuments(t *testing.T) {
	g := graph.New(graph.Options{})
	a := g.Arena()
	lines := g.Lines()

	aLine := lines.AddLine(graph.Line{graph.Str("A")})
	bLine := lines.AddLine(graph.Line{graph.Str("B")})

	rootA := a.NewNodeID()
	sectionA := a.NewNodeID()
	refToB := a.NewNodeID()
	a.SetNode(rootA, graph.GraphNode{Kind: graph.KindDocument, Key: "a", Child: sectionA})
	a.SetNode(sectionA, graph.GraphNode{Kind: graph.KindSection, Prev: rootA, Line: aLine, Child: refToB})
	a.SetNode(refToB, graph.GraphNode{Kind: graph.KindReference, Prev: sectionA, RefKey: "b"})
	g.RegisterDocument("a", rootA, nil, "A")

	rootB := a.NewNodeID()
	sectionB := a.NewNodeID()
	refToA := a.NewNodeID()
	a.SetNode(rootB, graph.GraphNode{Kind: graph.KindDocument, Key: "b", Child: sectionB})
	a.SetNode(sectionB, graph.GraphNode{Kind: graph.KindSection, Prev: rootB, Line: bLine, Child: refToA})
	a.SetNode(refToA, graph.GraphNode{Kind: graph.KindReference, Prev: sectionB, RefKey: "a"})
	g.RegisterDocument("b", rootB, nil, "B")

	g.RefIndex().Rebuild(a, lines)

	// Both documents have an incoming block reference from the other, so
	// the forest has no root to start from at all; Enumerate must still
	// terminate (not hang scanning for a root that doesn't exist) and
	// return nothing.
	got := Enumerate(g, 5)
	assert.Empty(t, got)
}
