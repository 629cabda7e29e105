package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown/mdwriter"
)

func TestSquashMatchesWorkedExample(t *testing.T) {
	g := buildS5Graph(t)

	out, err := Squash(context.Background(), g, mdwriter.New(), "1", 1)
	require.NoError(t, err)
	assert.Equal(t, "# a\n\n# b\n\ntext\n", out)
}

func TestSquashLeavesReferenceIntactAtDepthZero(t *testing.T) {
	g := buildS5Graph(t)

	out, err := Squash(context.Background(), g, mdwriter.New(), "1", 0)
	require.NoError(t, err)
	assert.Equal(t, "# a\n\n[b](2)\n", out)
}

func TestSquashUnknownKeyErrors(t *testing.T) {
	g := buildS5Graph(t)

	_, err := Squash(context.Background(), g, mdwriter.New(), "missing", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrKeyUnknown)
}
