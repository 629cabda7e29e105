package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/config"
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown/goldmarkreader"
	"github.com/jlrickert/noteweave/pkg/sections"
	"github.com/jlrickert/noteweave/pkg/workspace"
)

func newTestServer(t *testing.T, docs map[graph.Key]string) *Server {
	t.Helper()
	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	g := graph.New(cfg.GraphOptions())
	reader := goldmarkreader.New()
	for key, src := range docs {
		doc, err := reader.Parse(context.Background(), []byte(src))
		require.NoError(t, err)
		sections.Build(g, key, doc)
	}
	g.RefIndex().Rebuild(g.Arena(), g.Lines())

	return New(workspace.NewInMemory(cfg, g, nil))
}

func TestHandleContentsListsRegisteredDocuments(t *testing.T) {
	s := newTestServer(t, map[graph.Key]string{
		"alpha": "# Alpha\n",
		"beta":  "# Beta\n",
	})
	res, _, err := s.handleContents(context.Background(), nil, ContentsArgs{})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "Alpha")
	require.Contains(t, text.Text, "Beta")
}

func TestHandleSquashUnknownKeyErrors(t *testing.T) {
	s := newTestServer(t, map[graph.Key]string{})
	_, _, err := s.handleSquash(context.Background(), nil, SquashArgs{Key: "missing", Depth: 1})
	require.Error(t, err)
}

func TestHandleActionsListsApplicable(t *testing.T) {
	s := newTestServer(t, map[graph.Key]string{
		"alpha": "# Alpha\n\n## One\n\nBody one.\n\n## Two\n\nBody two.\n",
	})
	res, _, err := s.handleActions(context.Background(), nil, ActionsArgs{Key: "alpha"})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
}

func TestHandleActionsUnknownKeyErrors(t *testing.T) {
	s := newTestServer(t, map[graph.Key]string{})
	_, _, err := s.handleActions(context.Background(), nil, ActionsArgs{Key: "missing"})
	require.Error(t, err)
}

func TestHandleStatsRendersOverview(t *testing.T) {
	s := newTestServer(t, map[graph.Key]string{
		"alpha": "# Alpha\n",
	})
	res, _, err := s.handleStats(context.Background(), nil, StatsArgs{})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
}
