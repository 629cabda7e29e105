package action

import (
	"testing"

	"github.com/jlrickert/noteweave/pkg/graph"
)

// newTestGraph returns an empty graph ready for manual arena construction,
// the same low-level style pkg/graph's own tests and pkg/patch's tests use.
func newTestGraph() *graph.Graph {
	return graph.New(graph.Options{})
}

// addLine interns a single-inline Str line and returns its LineID.
func addLine(g *graph.Graph, text string) graph.LineID {
	return g.Lines().AddLine(graph.Line{graph.Str(text)})
}

// rebuildIndex refreshes the RefIndex after manual arena surgery, mirroring
// what pkg/patch.PutTree does automatically for patch-built documents.
func rebuildIndex(g *graph.Graph) {
	g.RefIndex().Rebuild(g.Arena(), g.Lines())
}

func registerAndIndex(t *testing.T, g *graph.Graph, key graph.Key, root graph.NodeID, title string) {
	t.Helper()
	g.RegisterDocument(key, root, nil, title)
	rebuildIndex(g)
}
