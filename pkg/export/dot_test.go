package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jlrickert/noteweave/pkg/graph"
)

func TestDOTNilKeyIncludesEveryDocument(t *testing.T) {
	g := buildThreeDocGraph(t)

	out := DOT(g, nil, 0)

	assert.Contains(t, out, "digraph G {")
	assert.Contains(t, out, `label="one"`)
	assert.Contains(t, out, `label="two"`)
	assert.Contains(t, out, `label="three"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestDOTScopedToKeyFollowsOutgoingReferences(t *testing.T) {
	g := buildS5Graph(t)
	key := graph.Key("1")

	out := DOT(g, &key, 1)

	assert.Contains(t, out, `label="a"`)
	assert.Contains(t, out, `label="b"`)
	assert.Contains(t, out, "style=dashed")
}

func TestDOTScopedToKeyAtDepthZeroExcludesReferencedDocument(t *testing.T) {
	g := buildS5Graph(t)
	key := graph.Key("1")

	out := DOT(g, &key, 0)

	assert.Contains(t, out, `label="a"`)
	assert.NotContains(t, out, `label="b"`)
}

func TestDOTUnknownKeyProducesEmptyGraph(t *testing.T) {
	g := buildThreeDocGraph(t)
	key := graph.Key("missing")

	out := DOT(g, &key, 1)

	assert.Contains(t, out, "digraph G {")
	assert.NotContains(t, out, "label=")
}
