package export

import (
	"context"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/tree"
	"github.com/jlrickert/noteweave/pkg/visitor"
)

// Squash renders key's document with every Reference recursively
// substituted by the content of the document it points at, up to depth
// levels of indirection (spec.md §4.4 Squash, §6.2 `squash --key K --depth
// N`, S5 worked example). A Reference beyond depth is left intact.
// Unknown key is spec.md §6.2's fatal KeyUnknown condition, reported via
// the existing graph.KeyUnknownError rather than a package-local sentinel.
func Squash(ctx context.Context, g *graph.Graph, w markdown.Writer, key graph.Key, depth int) (string, error) {
	rootID, ok := g.DocumentID(key)
	if !ok {
		return "", &graph.KeyUnknownError{Key: key}
	}

	resolve := func(k graph.Key) *tree.Tree {
		id, ok := g.DocumentID(k)
		if !ok {
			return nil
		}
		return tree.Collect(g, id)
	}

	squashed := visitor.Squash(tree.Collect(g, rootID), depth, resolve)

	p := patch.New(g, w)
	p.PutTree(key, squashed)
	return p.ExportKey(ctx, key)
}
