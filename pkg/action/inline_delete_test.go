package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown/mdwriter"
	"github.com/jlrickert/noteweave/pkg/patch"
)

// buildS2Graph reproduces spec.md S2: "1" = "# a\n\n[b](2)\n" (a block
// Reference to "2" in 1's pre-header zone), "2" = "# b\n\ntext\n". Returns
// the graph and the Reference node's id.
func buildS2Graph(t *testing.T) (*graph.Graph, graph.NodeID) {
	t.Helper()
	g := newTestGraph()
	a := g.Arena()

	root1 := a.NewNodeID()
	sectionA := a.NewNodeID()
	ref := a.NewNodeID()
	a.SetNode(root1, graph.GraphNode{Kind: graph.KindDocument, Key: "1", Child: sectionA})
	a.SetNode(sectionA, graph.GraphNode{Kind: graph.KindSection, Prev: root1, Line: addLine(g, "a"), Child: ref})
	a.SetNode(ref, graph.GraphNode{Kind: graph.KindReference, Prev: sectionA, RefKey: "2", RefText: "b"})
	registerAndIndex(t, g, "1", root1, "a")

	root2 := a.NewNodeID()
	sectionB := a.NewNodeID()
	leaf := a.NewNodeID()
	a.SetNode(root2, graph.GraphNode{Kind: graph.KindDocument, Key: "2", Child: sectionB})
	a.SetNode(sectionB, graph.GraphNode{Kind: graph.KindSection, Prev: root2, Line: addLine(g, "b"), Child: leaf})
	a.SetNode(leaf, graph.GraphNode{Kind: graph.KindLeaf, Prev: sectionB, Line: addLine(g, "text")})
	registerAndIndex(t, g, "2", root2, "b")

	return g, ref
}

func TestApplicableInlineReferenceSectionAcceptsBlockReference(t *testing.T) {
	g, ref := buildS2Graph(t)
	h, ok := ApplicableInlineReferenceSection(g, Request{TargetID: ref})
	require.True(t, ok)
	assert.Equal(t, KindInlineReferenceSection, h.Kind)
}

func TestResolveInlineReferenceSectionMatchesWorkedExample(t *testing.T) {
	g, ref := buildS2Graph(t)
	changes, err := ResolveInlineReferenceSection(context.Background(), g, mdwriter.New(), Request{TargetID: ref})
	require.NoError(t, err)
	require.Len(t, changes, 2)

	byKind := map[patch.ChangeKind]patch.Change{}
	for _, c := range changes {
		byKind[c.Kind] = c
	}
	require.Contains(t, byKind, patch.Update)
	require.Contains(t, byKind, patch.Remove)
	assert.Equal(t, graph.Key("1"), byKind[patch.Update].Key)
	assert.Equal(t, "# a\n\ntext\n", byKind[patch.Update].Markdown)
	assert.Equal(t, graph.Key("2"), byKind[patch.Remove].Key)
}

func TestResolveInlineReferenceQuoteWrapsContent(t *testing.T) {
	g, ref := buildS2Graph(t)
	changes, err := ResolveInlineReferenceQuote(context.Background(), g, mdwriter.New(), Request{TargetID: ref})
	require.NoError(t, err)
	require.Len(t, changes, 2)

	var update patch.Change
	for _, c := range changes {
		if c.Kind == patch.Update {
			update = c
		}
	}
	assert.Equal(t, "# a\n\n> text\n", update.Markdown)
}

func TestApplicableInlineReferenceListRejectsNonListReference(t *testing.T) {
	g, ref := buildS2Graph(t)
	_, ok := ApplicableInlineReferenceList(g, Request{TargetID: ref})
	assert.False(t, ok)
}

// buildS6Graph reproduces spec.md S6: "1" = "# a\n\n[b](2)\n" (block
// reference), "2" = "# b\n", "3" = "# c\n\nsee [b](2)\n" (inline link).
// Deleting "2" from the "1" referrer must remove the block reference and
// degrade the "3" referrer's inline link to plain text.
func buildS6Graph(t *testing.T) (*graph.Graph, graph.NodeID) {
	t.Helper()
	g := newTestGraph()
	a := g.Arena()

	root1 := a.NewNodeID()
	sectionA := a.NewNodeID()
	ref := a.NewNodeID()
	a.SetNode(root1, graph.GraphNode{Kind: graph.KindDocument, Key: "1", Child: sectionA})
	a.SetNode(sectionA, graph.GraphNode{Kind: graph.KindSection, Prev: root1, Line: addLine(g, "a"), Child: ref})
	a.SetNode(ref, graph.GraphNode{Kind: graph.KindReference, Prev: sectionA, RefKey: "2", RefText: "b"})
	registerAndIndex(t, g, "1", root1, "a")

	root2 := a.NewNodeID()
	sectionB := a.NewNodeID()
	a.SetNode(root2, graph.GraphNode{Kind: graph.KindDocument, Key: "2", Child: sectionB})
	a.SetNode(sectionB, graph.GraphNode{Kind: graph.KindSection, Prev: root2, Line: addLine(g, "b")})
	registerAndIndex(t, g, "2", root2, "b")

	root3 := a.NewNodeID()
	sectionC := a.NewNodeID()
	leaf := a.NewNodeID()
	a.SetNode(root3, graph.GraphNode{Kind: graph.KindDocument, Key: "3", Child: sectionC})
	a.SetNode(sectionC, graph.GraphNode{Kind: graph.KindSection, Prev: root3, Line: addLine(g, "c"), Child: leaf})
	link := graph.Inline{Kind: graph.InlineLink, Target: "2", RefKey: "2", IsRefLink: true, Children: []graph.Inline{graph.Str("b")}}
	seeLine := g.Lines().AddLine(graph.Line{graph.Str("see "), link})
	a.SetNode(leaf, graph.GraphNode{Kind: graph.KindLeaf, Prev: sectionC, Line: seeLine})
	registerAndIndex(t, g, "3", root3, "c")

	return g, ref
}

func TestResolveDeleteMatchesWorkedExample(t *testing.T) {
	g, ref := buildS6Graph(t)
	changes, err := ResolveDelete(context.Background(), g, mdwriter.New(), Request{TargetID: ref})
	require.NoError(t, err)

	byKey := map[graph.Key]patch.Change{}
	for _, c := range changes {
		if c.Kind == patch.Update {
			byKey[c.Key] = c
		}
	}
	require.Contains(t, byKey, graph.Key("1"))
	require.Contains(t, byKey, graph.Key("3"))
	assert.Equal(t, "# a\n", byKey["1"].Markdown)
	assert.Equal(t, "# c\n\nsee b\n", byKey["3"].Markdown)

	var removed bool
	for _, c := range changes {
		if c.Kind == patch.Remove && c.Key == "2" {
			removed = true
		}
	}
	assert.True(t, removed)
}
