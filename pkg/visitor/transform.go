package visitor

import (
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// Resolver fetches the materialized Tree for a document key, used by the
// substitution visitors (Inline, InlineQuote, Squash). It returns nil for
// an unknown key, which every visitor here treats as a dangling
// reference (spec.md §4.11), never panicked on: Inline and InlineQuote
// drop the Reference and contribute no content in its place, while Squash
// leaves the Reference as it is.
type Resolver func(key graph.Key) *tree.Tree

// Inline replaces every Reference node reachable in t with the children
// of the document it references, flattened as sibling content in its
// place (spec.md §4.4 Inline).
func Inline(t *tree.Tree, resolve Resolver) *tree.Tree {
	return inlineChildren(t.Clone(), resolve)
}

func inlineChildren(t *tree.Tree, resolve Resolver) *tree.Tree {
	var out []*tree.Tree
	for _, c := range t.Children {
		if c.Kind == graph.KindReference {
			if ref := resolve(c.Key); ref != nil {
				out = append(out, ref.Children...)
			}
			continue
		}
		out = append(out, inlineChildren(c, resolve))
	}
	t.Children = out
	return t
}

// InlineQuote replaces every Reference node with a Quote wrapping the
// referenced document's children (spec.md §4.4 InlineQuote).
func InlineQuote(t *tree.Tree, resolve Resolver) *tree.Tree {
	return inlineQuoteChildren(t.Clone(), resolve)
}

func inlineQuoteChildren(t *tree.Tree, resolve Resolver) *tree.Tree {
	var out []*tree.Tree
	for _, c := range t.Children {
		if c.Kind == graph.KindReference {
			if ref := resolve(c.Key); ref != nil {
				out = append(out, &tree.Tree{Kind: graph.KindQuote, Children: ref.Children})
			}
			continue
		}
		out = append(out, inlineQuoteChildren(c, resolve))
	}
	t.Children = out
	return t
}

// Squash recursively substitutes each Reference with the content of its
// referenced document up to depth levels of indirection; at depth 0 a
// Reference is left intact (spec.md §4.4 Squash).
func Squash(t *tree.Tree, depth int, resolve Resolver) *tree.Tree {
	return squash(t.Clone(), depth, resolve)
}

func squash(t *tree.Tree, depth int, resolve Resolver) *tree.Tree {
	if depth <= 0 {
		return t
	}
	var out []*tree.Tree
	for _, c := range t.Children {
		if c.Kind == graph.KindReference {
			ref := resolve(c.Key)
			if ref == nil {
				out = append(out, c)
				continue
			}
			expanded := squash(ref.Clone(), depth-1, resolve)
			out = append(out, expanded.Children...)
			continue
		}
		out = append(out, squash(c, depth, resolve))
	}
	t.Children = out
	return t
}

// Extract replaces every node whose id appears in keys with a Reference
// to the mapped key, preserving the node's original text (spec.md §4.4
// Extract). This is the visitor-protocol name for tree.ExtractSections,
// which implements the identical operation as a Tree op (C9); both exist
// per spec.md's component table, so Extract is kept as a thin alias
// rather than a second implementation.
func Extract(t *tree.Tree, keys map[graph.NodeID]graph.Key) *tree.Tree {
	return tree.ExtractSections(t, keys)
}

// Wrap is the visitor-protocol alias for tree.WrapIntoList.
func Wrap(t *tree.Tree, id graph.NodeID) *tree.Tree { return tree.WrapIntoList(t, id) }

// Unwrap is the visitor-protocol alias for tree.UnwrapList.
func Unwrap(t *tree.Tree, id graph.NodeID) *tree.Tree { return tree.UnwrapList(t, id) }

// ChangeListType is the visitor-protocol alias for tree.ChangeListType.
func ChangeListType(t *tree.Tree, id graph.NodeID) *tree.Tree { return tree.ChangeListType(t, id) }

// ChangeKey is the visitor-protocol alias for tree.ChangeKey.
func ChangeKey(t *tree.Tree, target, updated graph.Key) *tree.Tree {
	return tree.ChangeKey(t, target, updated)
}
