package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/config"
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown/goldmarkreader"
	"github.com/jlrickert/noteweave/pkg/sections"
	"github.com/jlrickert/noteweave/pkg/workspace"
)

// newTestDeps builds Deps around an in-memory workspace, the subcommands'
// own unit-test seam: every command here reads deps.Workspace rather than
// re-deriving it, so PersistentPreRunE's filesystem-backed Open never runs.
func newTestDeps(t *testing.T, docs map[graph.Key]string) *Deps {
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

	return &Deps{Workspace: workspace.NewInMemory(cfg, g, nil)}
}

func TestContentsCmdListsDocuments(t *testing.T) {
	deps := newTestDeps(t, map[graph.Key]string{
		"alpha": "# Alpha\n",
		"beta":  "# Beta\n",
	})
	cmd := NewContentsCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Alpha")
	require.Contains(t, out.String(), "Beta")
}

func TestPathsCmdListsRoots(t *testing.T) {
	deps := newTestDeps(t, map[graph.Key]string{
		"alpha": "# Alpha\n\nIntro.\n",
	})
	cmd := NewPathsCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Alpha")
}

func TestSquashCmdRendersReferencedContent(t *testing.T) {
	deps := newTestDeps(t, map[graph.Key]string{
		"alpha": "# Alpha\n\n[[beta]]\n",
		"beta":  "# Beta\n\nBeta body.\n",
	})
	cmd := NewSquashCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"alpha"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Beta body")
}

func TestSquashCmdRequiresExactlyOneArg(t *testing.T) {
	deps := newTestDeps(t, map[graph.Key]string{})
	cmd := NewSquashCmd(deps)
	cmd.SetArgs(nil)
	require.Error(t, cmd.Execute())
}

func TestStatsCmdRendersOverview(t *testing.T) {
	deps := newTestDeps(t, map[graph.Key]string{
		"alpha": "# Alpha\n",
	})
	cmd := NewStatsCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	require.NotEmpty(t, out.String())
}

func TestExportCmdRendersDOT(t *testing.T) {
	deps := newTestDeps(t, map[graph.Key]string{
		"alpha": "# Alpha\n",
	})
	cmd := NewExportCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "digraph")
}

func TestNewCmdCreatesDocumentInGraph(t *testing.T) {
	deps := newTestDeps(t, map[graph.Key]string{})
	cmd := NewNewCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--title", "Hello World", "--content", "body text"})
	require.NoError(t, cmd.Execute())
	require.True(t, deps.Workspace.Graph().HasKey("hello-world"))
}

func TestNewCmdRequiresTitle(t *testing.T) {
	deps := newTestDeps(t, map[graph.Key]string{})
	cmd := NewNewCmd(deps)
	cmd.SetArgs(nil)
	require.Error(t, cmd.Execute())
}
