package export

import (
	"testing"

	"github.com/jlrickert/noteweave/pkg/graph"
)

func newTestGraph() *graph.Graph {
	return graph.New(graph.Options{})
}

func addLine(g *graph.Graph, text string) graph.LineID {
	return g.Lines().AddLine(graph.Line{graph.Str(text)})
}

// buildS5Graph reproduces spec.md S5: "1" = "# a\n\n[b](2)\n" (a block
// Reference to "2"), "2" = "# b\n\ntext\n".
func buildS5Graph(t *testing.T) *graph.Graph {
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
	leaf := a.NewNodeID()
	a.SetNode(root2, graph.GraphNode{Kind: graph.KindDocument, Key: "2", Child: sectionB})
	a.SetNode(sectionB, graph.GraphNode{Kind: graph.KindSection, Prev: root2, Line: addLine(g, "b"), Child: leaf})
	a.SetNode(leaf, graph.GraphNode{Kind: graph.KindLeaf, Prev: sectionB, Line: addLine(g, "text")})
	g.RegisterDocument("2", root2, nil, "b")

	g.RefIndex().Rebuild(a, g.Lines())
	return g
}

// buildThreeDocGraph builds three standalone single-section documents with
// no cross-references: "1"="# one\n", "2"="# two\n", "3"="# three\n".
func buildThreeDocGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := newTestGraph()
	a := g.Arena()

	for key, title := range map[graph.Key]string{"1": "one", "2": "two", "3": "three"} {
		root := a.NewNodeID()
		section := a.NewNodeID()
		a.SetNode(root, graph.GraphNode{Kind: graph.KindDocument, Key: key, Child: section})
		a.SetNode(section, graph.GraphNode{Kind: graph.KindSection, Prev: root, Line: addLine(g, title)})
		g.RegisterDocument(key, root, nil, title)
	}
	g.RefIndex().Rebuild(a, g.Lines())
	return g
}
