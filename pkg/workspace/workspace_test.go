package workspace

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/config"
	"github.com/jlrickert/noteweave/pkg/graph"
)

// newTestWorkspace builds a Workspace around an in-memory graph only,
// exercising the pure-Go helpers (NoteKey, RenderNote, ResolveNewKey) that
// don't need a real toolkit.Runtime/filesystem.
func newTestWorkspace(t *testing.T, cfg config.Config) *Workspace {
	t.Helper()
	return &Workspace{
		cfg: cfg,
		g:   graph.New(cfg.GraphOptions()),
	}
}

func TestNoteKeyWithoutLibraryPath(t *testing.T) {
	w := newTestWorkspace(t, config.Config{})
	require.Equal(t, graph.Key("hello-world"), w.NoteKey("Hello World"))
}

func TestNoteKeyWithLibraryPath(t *testing.T) {
	cfg := config.Config{}
	cfg.Library.Path = "library"
	w := newTestWorkspace(t, cfg)
	require.Equal(t, graph.Key("library/hello-world"), w.NoteKey("Hello World"))
}

func TestRenderNoteWithoutTemplate(t *testing.T) {
	w := newTestWorkspace(t, config.Config{})
	md, err := w.RenderNote("Hello World", "", "")
	require.NoError(t, err)
	require.Equal(t, "# Hello World\n", md)
}

func TestRenderNoteWithContentNoTemplate(t *testing.T) {
	w := newTestWorkspace(t, config.Config{})
	md, err := w.RenderNote("Hello World", "some body", "")
	require.NoError(t, err)
	require.Equal(t, "# Hello World\n\nsome body\n", md)
}

func TestRenderNoteWithTemplate(t *testing.T) {
	w := newTestWorkspace(t, config.Config{})
	md, err := w.RenderNote("Hello", "body text", "# {{.Title}}\n\n{{.Content}}\n")
	require.NoError(t, err)
	require.Equal(t, "# Hello\n\nbody text\n", md)
}

func TestResolveNewKeyDisambiguates(t *testing.T) {
	w := newTestWorkspace(t, config.Config{})
	w.g.RegisterDocument("idea", 1, nil, "Idea")
	require.Equal(t, graph.Key("idea-1"), w.ResolveNewKey("idea"))

	w.g.RegisterDocument("idea-1", 2, nil, "Idea 1")
	require.Equal(t, graph.Key("idea-2"), w.ResolveNewKey("idea"))
}

func TestResolveNewKeyPassesThroughFreeKey(t *testing.T) {
	w := newTestWorkspace(t, config.Config{})
	require.Equal(t, graph.Key("fresh"), w.ResolveNewKey("fresh"))
}
