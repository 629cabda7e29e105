package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown/mdwriter"
)

// buildBulletListDoc builds a document whose sole top-level content is a
// BulletList of two plain-text items ("x", "y"). Returns the graph and the
// first item's node id.
func buildBulletListDoc(t *testing.T) (*graph.Graph, graph.NodeID) {
	t.Helper()
	g := newTestGraph()
	a := g.Arena()

	root := a.NewNodeID()
	list := a.NewNodeID()
	item1 := a.NewNodeID()
	item2 := a.NewNodeID()

	a.SetNode(root, graph.GraphNode{Kind: graph.KindDocument, Key: "1", Child: list})
	a.SetNode(list, graph.GraphNode{Kind: graph.KindBulletList, Prev: root, Child: item1})
	a.SetNode(item1, graph.GraphNode{Kind: graph.KindSection, Prev: list, Next: item2, Line: addLine(g, "x")})
	a.SetNode(item2, graph.GraphNode{Kind: graph.KindSection, Prev: item1, Line: addLine(g, "y")})
	registerAndIndex(t, g, "1", root, "")

	return g, item1
}

func TestResolveRewriteListSectionUnwrapsItemsIntoSections(t *testing.T) {
	g, item1 := buildBulletListDoc(t)
	changes, err := ResolveRewriteListSection(context.Background(), g, mdwriter.New(), Request{TargetID: item1})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "# x\n\n# y\n", changes[0].Markdown)
}

func TestResolveRewriteListTypeTogglesToOrdered(t *testing.T) {
	g, item1 := buildBulletListDoc(t)
	changes, err := ResolveRewriteListType(context.Background(), g, mdwriter.New(), Request{TargetID: item1})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "1. x\n2. y\n", changes[0].Markdown)
}

func TestApplicableRewriteListTypeRejectsOutsideList(t *testing.T) {
	g := newTestGraph()
	a := g.Arena()
	root := a.NewNodeID()
	section := a.NewNodeID()
	a.SetNode(root, graph.GraphNode{Kind: graph.KindDocument, Key: "1", Child: section})
	a.SetNode(section, graph.GraphNode{Kind: graph.KindSection, Prev: root, Line: addLine(g, "a")})
	registerAndIndex(t, g, "1", root, "a")

	_, ok := ApplicableRewriteListType(g, Request{TargetID: section})
	assert.False(t, ok)
}

func TestResolveRewriteSectionListWrapsSubsectionInList(t *testing.T) {
	g := newTestGraph()
	a := g.Arena()
	root := a.NewNodeID()
	sectionA := a.NewNodeID()
	sectionSub := a.NewNodeID()
	a.SetNode(root, graph.GraphNode{Kind: graph.KindDocument, Key: "1", Child: sectionA})
	a.SetNode(sectionA, graph.GraphNode{Kind: graph.KindSection, Prev: root, Line: addLine(g, "a"), Child: sectionSub})
	a.SetNode(sectionSub, graph.GraphNode{Kind: graph.KindSection, Prev: sectionA, Line: addLine(g, "sub")})
	registerAndIndex(t, g, "1", root, "a")

	changes, err := ResolveRewriteSectionList(context.Background(), g, mdwriter.New(), Request{TargetID: sectionSub})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "# a\n\n- sub\n", changes[0].Markdown)
}
