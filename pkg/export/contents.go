package export

import (
	"context"
	"sort"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// contentsScratchKey is a synthetic document key used only to drive the
// patch machinery's tree-to-markdown rendering; it never touches g, the
// same scratch-document convention pkg/action's custom.transform uses for
// its marked-context render.
const contentsScratchKey = graph.Key("__contents__")

// Contents renders a bullet list linking to every document in g, sorted by
// rendered title (spec.md §6.2 `contents`).
func Contents(ctx context.Context, g *graph.Graph, w markdown.Writer) (string, error) {
	keys := g.Keys()
	sort.Slice(keys, func(i, j int) bool { return g.RefText(keys[i]) < g.RefText(keys[j]) })

	items := make([]*tree.Tree, 0, len(keys))
	for _, k := range keys {
		title := g.RefText(k)
		link := graph.NewLink(title, string(k), "", graph.LinkRegular)
		link.IsRefLink = true
		link.RefKey = k
		items = append(items, &tree.Tree{Kind: graph.KindSection, Line: graph.Line{link}})
	}

	doc := &tree.Tree{
		Kind: graph.KindDocument,
		Key:  contentsScratchKey,
		Children: []*tree.Tree{
			{Kind: graph.KindBulletList, Children: items},
		},
	}

	p := patch.New(g, w)
	p.PutTree(contentsScratchKey, doc)
	return p.ExportKey(ctx, contentsScratchKey)
}
