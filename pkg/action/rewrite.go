package action

import (
	"context"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// ApplicableRewriteListSection implements refactor.rewrite.list.section's
// applicability: the cursor is in a top-level list.
func ApplicableRewriteListSection(g *graph.Graph, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	listID, ok := docTree.GetTopLevelSurroundingListID(req.TargetID)
	if !ok {
		if t := docTree.Find(req.TargetID); t == nil || !t.IsList() {
			return Handle{}, false
		}
		listID = req.TargetID
	}
	return Handle{Kind: KindRewriteListSection, Title: "Unwrap list into sections", TargetID: listID}, true
}

// ResolveRewriteListSection unwraps the list: each item becomes a sibling
// section in the list's former position.
func ResolveRewriteListSection(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	listID, ok := docTree.GetTopLevelSurroundingListID(req.TargetID)
	if !ok {
		if t := docTree.Find(req.TargetID); t == nil || !t.IsList() {
			return nil, nil
		}
		listID = req.TargetID
	}
	updated := tree.UnwrapList(docTree, listID)
	p := patch.New(g, w)
	p.PutTree(key, updated)
	return p.Changes(ctx)
}

// ApplicableRewriteListType implements refactor.rewrite.list.type's
// applicability: the cursor is in a list (any nesting depth).
func ApplicableRewriteListType(g *graph.Graph, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	listID, ok := resolveListID(docTree, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	return Handle{Kind: KindRewriteListType, Title: "Toggle bullet/ordered list", TargetID: listID}, true
}

// ResolveRewriteListType toggles BulletList<->OrderedList.
func ResolveRewriteListType(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	listID, ok := resolveListID(docTree, req.TargetID)
	if !ok {
		return nil, nil
	}
	updated := tree.ChangeListType(docTree, listID)
	p := patch.New(g, w)
	p.PutTree(key, updated)
	return p.Changes(ctx)
}

// ApplicableRewriteSectionList implements refactor.rewrite.section.list's
// applicability: the cursor is on a header.
func ApplicableRewriteSectionList(g *graph.Graph, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok || !docTree.IsHeader(req.TargetID) {
		return Handle{}, false
	}
	return Handle{Kind: KindRewriteSectionList, Title: "Wrap section in list", TargetID: req.TargetID}, true
}

// ResolveRewriteSectionList wraps the target section inside a new bullet
// list at its former position.
func ResolveRewriteSectionList(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	if t := docTree.Find(req.TargetID); t == nil || !t.IsSection() {
		return nil, nil
	}
	updated := tree.WrapIntoList(docTree, req.TargetID)
	p := patch.New(g, w)
	p.PutTree(key, updated)
	return p.Changes(ctx)
}

// resolveListID returns id itself if it is a list, else the nearest
// enclosing list.
func resolveListID(docTree *tree.Tree, id graph.NodeID) (graph.NodeID, bool) {
	if t := docTree.Find(id); t != nil && t.IsList() {
		return id, true
	}
	return docTree.GetSurroundingListID(id)
}
