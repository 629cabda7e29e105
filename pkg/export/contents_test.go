package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/markdown/mdwriter"
)

func TestContentsListsEveryDocumentSortedByTitle(t *testing.T) {
	g := buildThreeDocGraph(t)

	out, err := Contents(context.Background(), g, mdwriter.New())
	require.NoError(t, err)
	assert.Equal(t, "- [one](1)\n- [three](3)\n- [two](2)\n", out)
}

func TestContentsEmptyGraphRendersEmptyList(t *testing.T) {
	g := newTestGraph()

	out, err := Contents(context.Background(), g, mdwriter.New())
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}
