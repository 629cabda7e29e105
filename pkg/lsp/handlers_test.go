package lsp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/config"
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown/goldmarkreader"
	"github.com/jlrickert/noteweave/pkg/sections"
	"github.com/jlrickert/noteweave/pkg/workspace"
)

// newTestAdapter builds an in-memory workspace from a set of key->markdown
// source documents, parsed and built the same way Workspace.reload does.
func newTestAdapter(t *testing.T, docs map[graph.Key]string) *Adapter {
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

	ws := workspace.NewInMemory(cfg, g, nil)
	return New(ws)
}

func TestNormalizeRangeHelixSingleChar(t *testing.T) {
	r := Range{Start: Position{Line: 1, Character: 4}, End: Position{Line: 1, Character: 5}}
	got := NormalizeRange(ClientNameHelix, r)
	require.Equal(t, Position{Line: 1, Character: 4}, got.End)

	untouched := NormalizeRange("vscode", r)
	require.Equal(t, r, untouched)
}

func TestFormattingRoundTripsNormalizedMarkdown(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Alpha\n\nSome body text.\n",
	})
	edit, err := a.Formatting(context.Background(), "alpha")
	require.NoError(t, err)
	require.Contains(t, edit.NewText, "Alpha")
}

func TestFormattingUnknownKeyErrors(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{})
	_, err := a.Formatting(context.Background(), "missing")
	require.Error(t, err)
}

func TestDocumentSymbolNestsSections(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Alpha\n\nIntro.\n\n## Child\n\nNested body.\n",
	})
	symbols := a.DocumentSymbol("alpha")
	require.Len(t, symbols, 1)
	require.Equal(t, "Alpha", symbols[0].Name)
	require.Len(t, symbols[0].Children, 1)
	require.Equal(t, "Child", symbols[0].Children[0].Name)
}

func TestReferencesFindsBlockReferrer(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Alpha\n\n[[beta]]\n",
		"beta":  "# Beta\n\nBeta body.\n",
	})
	refs := a.References("beta", Position{Line: 0})
	require.NotEmpty(t, refs)
}

func TestCompletionListsAllKeysSortedByTitle(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Zebra\n",
		"beta":  "# Apple\n",
	})
	items := a.Completion("")
	require.Len(t, items, 2)
	require.Equal(t, "Apple", items[0].Label)
	require.Equal(t, "Zebra", items[1].Label)
}

func TestCompletionResolveFillsSquashedPreview(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Zebra\n\ntext\n",
	})
	items := a.Completion("")
	require.Len(t, items, 1)
	require.Empty(t, items[0].Documentation)

	resolved, err := a.CompletionResolve(context.Background(), items[0])
	require.NoError(t, err)
	require.Contains(t, resolved.Documentation, "Zebra")
	require.Contains(t, resolved.Documentation, "text")
}

func TestCompletionResolveUnknownKeyIsNoop(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{"alpha": "# Zebra\n"})
	item := CompletionItem{Key: "missing", Label: "Missing"}

	resolved, err := a.CompletionResolve(context.Background(), item)
	require.NoError(t, err)
	require.Empty(t, resolved.Documentation)
}

func TestWorkspaceSymbolFiltersByQuery(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Zebra\n",
		"beta":  "# Apple\n",
	})
	items := a.WorkspaceSymbol("zeb")
	require.Len(t, items, 1)
	require.Equal(t, "Zebra", items[0].Label)
}

func TestDidChangeReparsesDocument(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Alpha\n",
	})
	err := a.DidChange(context.Background(), "alpha", []byte("# Alpha\n\n## Nested\n\nBody.\n"))
	require.NoError(t, err)
	symbols := a.DocumentSymbol("alpha")
	require.Len(t, symbols[0].Children, 1)
}

func TestDidChangeWatchedFilesRemoved(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Alpha\n",
	})
	err := a.DidChangeWatchedFiles(context.Background(), "alpha", nil, true)
	require.NoError(t, err)
	require.False(t, a.ws.Graph().HasKey("alpha"))
}

func TestCodeActionListsApplicableActions(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Alpha\n\n## One\n\nBody one.\n\n## Two\n\nBody two.\n",
	})
	r := Range{Start: Position{Line: 2}, End: Position{Line: 2}}
	actions := a.CodeAction("alpha", r)
	require.NotEmpty(t, actions)
}

func TestPrepareRenameRejectsNonLinkTarget(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Alpha\n\nplain body\n",
	})
	_, err := a.PrepareRename("alpha", Position{Line: 2})
	require.ErrorIs(t, err, graph.ErrTargetNotLink)
}

func TestPrepareRenameAcceptsReferenceTarget(t *testing.T) {
	a := newTestAdapter(t, map[graph.Key]string{
		"alpha": "# Alpha\n\n[[beta]]\n",
		"beta":  "# Beta\n",
	})
	key, err := a.PrepareRename("alpha", Position{Line: 2})
	require.NoError(t, err)
	require.Equal(t, graph.Key("beta"), key)
}
