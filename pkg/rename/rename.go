// Package rename implements C14: given a key and a new name, produce the
// full set of file operations that re-key the target document and rewrite
// every document that refers to it, block or inline (spec.md §4.9).
package rename

import (
	"context"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// Rename builds the change set for renaming key to newName against base. It
// never mutates base: the result is a []patch.Change the caller applies to
// the real workspace files (or discards).
//
// Per spec.md §4.9: fail with graph.ErrKeyTaken if newName already resolves
// to a document; otherwise compute affected_keys as the union of block- and
// inline-referrers to key, build a patch containing newName (key's tree
// with all self-references rewritten) and each affected key (its own tree
// with key→newName rewritten), and emit delete key / create newName /
// override newName / override each affected key. A key that does not
// resolve to any document is spec.md §4.9's TargetNotFound: a recoverable
// no-op, reported via graph.ErrKeyUnknown.
func Rename(ctx context.Context, base *graph.Graph, w markdown.Writer, key, newName graph.Key) ([]patch.Change, error) {
	if !base.HasKey(key) {
		return nil, &graph.KeyUnknownError{Key: key}
	}
	if base.HasKey(newName) {
		return nil, &graph.KeyTakenError{Key: newName}
	}

	p := patch.New(base, w)

	targetTree := p.LoadKey(key)
	renamed := tree.ChangeKey(targetTree, key, newName)
	renamed.Key = newName
	p.PutTree(newName, renamed)
	p.MarkRemoved(key)

	for _, affected := range AffectedKeys(base, key) {
		if affected == key {
			continue
		}
		affectedTree := p.LoadKey(affected)
		if affectedTree == nil {
			continue
		}
		p.PutTree(affected, tree.ChangeKey(affectedTree, key, newName))
	}

	return p.Changes(ctx)
}

// AffectedKeys returns every document key, other than key itself, that
// holds a block Reference or an inline Link resolving to key, in
// deterministic (sorted) order.
func AffectedKeys(g *graph.Graph, key graph.Key) []graph.Key {
	idx := g.RefIndex()
	arena := g.Arena()

	seen := make(map[graph.Key]bool)
	var out []graph.Key
	add := func(id graph.NodeID) {
		doc, ok := g.SurroundingDocument(id)
		if !ok || doc == key || seen[doc] {
			return
		}
		seen[doc] = true
		out = append(out, doc)
	}
	for _, id := range idx.BlockReferencesTo(arena, key) {
		add(id)
	}
	for _, id := range idx.InlineReferencesTo(arena, key) {
		add(id)
	}

	sortKeys(out)
	return out
}

func sortKeys(keys []graph.Key) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}
