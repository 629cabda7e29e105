package rename

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown/mdwriter"
	"github.com/jlrickert/noteweave/pkg/patch"
)

func newTestGraph() *graph.Graph {
	return graph.New(graph.Options{})
}

func addLine(g *graph.Graph, text string) graph.LineID {
	return g.Lines().AddLine(graph.Line{graph.Str(text)})
}

// buildS4Graph reproduces spec.md S4: "1" = "# a\n\n[b](2)\n" (a block
// Reference to "2" in 1's pre-header zone), "2" = "# b\n".
func buildS4Graph(t *testing.T) *graph.Graph {
	t.Helper()
	g := newTestGraph()
	a := g.Arena()

	root1 := a.NewNodeID()
	sectionA := a.NewNodeID()
	ref := a.NewNodeID()
	a.SetNode(root1, graph.GraphNode{Kind: graph.KindDocument, Key: "1", Child: sectionA})
	a.SetNode(sectionA, graph.GraphNode{Kind: graph.KindSection, Prev: root1, Line: addLine(g, "a"), Child: ref})
	a.SetNode(ref, graph.GraphNode{Kind: graph.KindReference, Prev: sectionA, RefKey: "2", RefText: "b"})
	g.RegisterDocument("1", root1, nil, "a")

	root2 := a.NewNodeID()
	sectionB := a.NewNodeID()
	a.SetNode(root2, graph.GraphNode{Kind: graph.KindDocument, Key: "2", Child: sectionB})
	a.SetNode(sectionB, graph.GraphNode{Kind: graph.KindSection, Prev: root2, Line: addLine(g, "b")})
	g.RegisterDocument("2", root2, nil, "b")

	g.RefIndex().Rebuild(a, g.Lines())
	return g
}

func TestRenameMatchesWorkedExample(t *testing.T) {
	g := buildS4Graph(t)

	changes, err := Rename(context.Background(), g, mdwriter.New(), "2", "target")
	require.NoError(t, err)

	byKey := map[graph.Key][]patch.Change{}
	for _, c := range changes {
		byKey[c.Key] = append(byKey[c.Key], c)
	}

	require.Len(t, byKey["2"], 1)
	assert.Equal(t, patch.Remove, byKey["2"][0].Kind)

	require.Len(t, byKey["target"], 2)
	assert.Equal(t, patch.Create, byKey["target"][0].Kind)
	assert.Equal(t, patch.Update, byKey["target"][1].Kind)
	assert.Equal(t, "# b\n", byKey["target"][1].Markdown)

	require.Len(t, byKey["1"], 1)
	assert.Equal(t, patch.Update, byKey["1"][0].Kind)
	assert.Equal(t, "# a\n\n[b](target)\n", byKey["1"][0].Markdown)
}

func TestRenameFailsWhenTargetKeyAlreadyTaken(t *testing.T) {
	g := buildS4Graph(t)

	_, err := Rename(context.Background(), g, mdwriter.New(), "2", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrKeyTaken)
}

func TestRenameFailsWhenSourceKeyUnknown(t *testing.T) {
	g := buildS4Graph(t)

	_, err := Rename(context.Background(), g, mdwriter.New(), "missing", "new-name")
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrKeyUnknown)
}

func TestAffectedKeysExcludesSelfAndDedupesReferrers(t *testing.T) {
	g := buildS4Graph(t)

	affected := AffectedKeys(g, "2")
	assert.Equal(t, []graph.Key{"1"}, affected)
}
