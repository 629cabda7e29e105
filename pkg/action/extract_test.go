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

// buildS1Graph reproduces spec.md S1: "1" = "# a\n\n## b\n", cursor on the
// nested "## b" header.
func buildS1Graph(t *testing.T) (*graph.Graph, graph.NodeID) {
	t.Helper()
	g := newTestGraph()
	a := g.Arena()

	root := a.NewNodeID()
	sectionA := a.NewNodeID()
	sectionB := a.NewNodeID()
	a.SetNode(root, graph.GraphNode{Kind: graph.KindDocument, Key: "1", Child: sectionA})
	a.SetNode(sectionA, graph.GraphNode{Kind: graph.KindSection, Prev: root, Line: addLine(g, "a"), Child: sectionB})
	a.SetNode(sectionB, graph.GraphNode{Kind: graph.KindSection, Prev: sectionA, Line: addLine(g, "b")})
	registerAndIndex(t, g, "1", root, "a")

	return g, sectionB
}

func TestApplicableExtractSectionAcceptsNestedHeader(t *testing.T) {
	g, sectionB := buildS1Graph(t)
	h, ok := ApplicableExtractSection(g, Request{TargetID: sectionB})
	require.True(t, ok)
	assert.Equal(t, KindExtractSection, h.Kind)
}

func TestResolveExtractSectionMatchesWorkedExample(t *testing.T) {
	g, sectionB := buildS1Graph(t)
	changes, err := ResolveExtractSection(context.Background(), g, mdwriter.New(), Request{TargetID: sectionB})
	require.NoError(t, err)
	require.Len(t, changes, 3)

	assert.Equal(t, patch.Create, changes[0].Kind)
	assert.Equal(t, graph.Key("2"), changes[0].Key)
	assert.Equal(t, patch.Update, changes[1].Kind)
	assert.Equal(t, graph.Key("2"), changes[1].Key)
	assert.Equal(t, "# b\n", changes[1].Markdown)
	assert.Equal(t, patch.Update, changes[2].Kind)
	assert.Equal(t, graph.Key("1"), changes[2].Key)
	assert.Equal(t, "# a\n\n[b](2)\n", changes[2].Markdown)
}

// buildS3Graph reproduces spec.md S3: "1" = "# root\n\n## s1\n\nt1\n\n##
// s2\n\nt2\n", cursor on the root section.
func buildS3Graph(t *testing.T) (*graph.Graph, graph.NodeID) {
	t.Helper()
	g := newTestGraph()
	a := g.Arena()

	root := a.NewNodeID()
	sectionRoot := a.NewNodeID()
	s1 := a.NewNodeID()
	s2 := a.NewNodeID()
	leaf1 := a.NewNodeID()
	leaf2 := a.NewNodeID()

	a.SetNode(root, graph.GraphNode{Kind: graph.KindDocument, Key: "1", Child: sectionRoot})
	a.SetNode(sectionRoot, graph.GraphNode{Kind: graph.KindSection, Prev: root, Line: addLine(g, "root"), Child: s1})
	a.SetNode(s1, graph.GraphNode{Kind: graph.KindSection, Prev: sectionRoot, Next: s2, Line: addLine(g, "s1"), Child: leaf1})
	a.SetNode(leaf1, graph.GraphNode{Kind: graph.KindLeaf, Prev: s1, Line: addLine(g, "t1")})
	a.SetNode(s2, graph.GraphNode{Kind: graph.KindSection, Prev: s1, Line: addLine(g, "s2"), Child: leaf2})
	a.SetNode(leaf2, graph.GraphNode{Kind: graph.KindLeaf, Prev: s2, Line: addLine(g, "t2")})
	registerAndIndex(t, g, "1", root, "root")

	return g, sectionRoot
}

func TestApplicableExtractSubsectionsRequiresSectionChildren(t *testing.T) {
	g, sectionRoot := buildS3Graph(t)
	h, ok := ApplicableExtractSubsections(g, Request{TargetID: sectionRoot})
	require.True(t, ok)
	assert.Equal(t, KindExtractSubsections, h.Kind)
}

func TestResolveExtractSubsectionsMatchesWorkedExample(t *testing.T) {
	g, sectionRoot := buildS3Graph(t)
	changes, err := ResolveExtractSubsections(context.Background(), g, mdwriter.New(), Request{TargetID: sectionRoot})
	require.NoError(t, err)

	byKey := map[graph.Key][]patch.Change{}
	for _, c := range changes {
		byKey[c.Key] = append(byKey[c.Key], c)
	}
	require.Contains(t, byKey, graph.Key("2"))
	require.Contains(t, byKey, graph.Key("3"))

	require.Len(t, byKey["2"], 2)
	assert.Equal(t, patch.Create, byKey["2"][0].Kind)
	assert.Equal(t, "# s1\n\nt1\n", byKey["2"][1].Markdown)

	require.Len(t, byKey["3"], 2)
	assert.Equal(t, patch.Create, byKey["3"][0].Kind)
	assert.Equal(t, "# s2\n\nt2\n", byKey["3"][1].Markdown)

	require.Len(t, byKey["1"], 1)
	assert.Equal(t, "# root\n\n[s1](2)\n\n[s2](3)\n", byKey["1"][0].Markdown)
}
