package action

import (
	"context"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// ApplicableExtractSection implements refactor.extract.section's
// applicability: the cursor must be on a header that is not the
// document's own primary (title) section.
func ApplicableExtractSection(g *graph.Graph, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok || !docTree.IsHeader(req.TargetID) {
		return Handle{}, false
	}
	if parent := docTree.ParentOf(req.TargetID); parent != nil && parent.Kind == graph.KindDocument {
		if docTree.Position(req.TargetID) == 0 {
			return Handle{}, false
		}
	}
	return Handle{Kind: KindExtractSection, Title: "Extract section", TargetID: req.TargetID}, true
}

// ResolveExtractSection creates a new document from the target section,
// keyed by the next free numeric key, and replaces the section with a
// Reference to it (spec.md S1).
func ResolveExtractSection(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	return resolveExtractSectionWithKey(ctx, g, w, req, "", graph.RefRegular)
}

// resolveExtractSectionWithKey is ResolveExtractSection parameterized by a
// caller-supplied key and link type (custom.extract's user-defined key
// template and link type); keyOverride="" falls back to the default
// numeric allocator.
func resolveExtractSectionWithKey(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request, keyOverride graph.Key, rt graph.ReferenceType) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	target := docTree.Find(req.TargetID)
	if target == nil || !target.IsSection() {
		return nil, nil
	}

	p := patch.New(g, w)
	newKey := keyOverride
	if newKey == "" {
		newKey = nextFreeNumericKey(g, p)
	} else {
		newKey = disambiguate(g, p, newKey)
	}

	newDoc := &tree.Tree{Kind: graph.KindDocument, Key: newKey, Children: []*tree.Tree{target.Clone()}}
	p.PutTree(newKey, newDoc)

	updated := replaceWithReference(docTree, req.TargetID, newKey, refTextOrFallback(target, string(newKey)), rt)
	p.PutTree(key, updated)

	return p.Changes(ctx)
}

// ApplicableExtractSubsections implements refactor.extract.subsections's
// applicability: the cursor is on a section with at least one section
// child.
func ApplicableExtractSubsections(g *graph.Graph, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	target := docTree.Find(req.TargetID)
	if target == nil || !target.IsSection() {
		return Handle{}, false
	}
	if len(docTree.GetSubSections(req.TargetID)) == 0 {
		return Handle{}, false
	}
	return Handle{Kind: KindExtractSubsections, Title: "Extract subsections", TargetID: req.TargetID}, true
}

// ResolveExtractSubsections extracts every section child of the target
// section as its own document, in document order, replacing each with a
// Reference (spec.md S3).
func ResolveExtractSubsections(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	subs := docTree.GetSubSections(req.TargetID)
	if len(subs) == 0 {
		return nil, nil
	}

	p := patch.New(g, w)
	keys := make(map[graph.NodeID]graph.Key, len(subs))
	for _, s := range subs {
		newKey := nextFreeNumericKey(g, p)
		keys[*s.ID] = newKey
		p.PutTree(newKey, &tree.Tree{Kind: graph.KindDocument, Key: newKey, Children: []*tree.Tree{s.Clone()}})
	}

	updated := tree.ExtractSections(docTree, keys)
	p.PutTree(key, updated)

	return p.Changes(ctx)
}

// ApplicableExtractList implements refactor.extract.list's applicability:
// the cursor is inside a top-level list.
func ApplicableExtractList(g *graph.Graph, req Request) (Handle, bool) {
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
	return Handle{Kind: KindExtractList, Title: "Extract list", TargetID: listID}, true
}

// ResolveExtractList moves the top-level list containing the cursor into a
// new document as its sole content, replacing it with a Reference.
func ResolveExtractList(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	listID, ok := docTree.GetTopLevelSurroundingListID(req.TargetID)
	if !ok {
		if t := docTree.Find(req.TargetID); t != nil && t.IsList() {
			listID = req.TargetID
		} else {
			return nil, nil
		}
	}
	list := docTree.Find(listID)
	if list == nil {
		return nil, nil
	}

	p := patch.New(g, w)
	newKey := nextFreeNumericKey(g, p)
	p.PutTree(newKey, &tree.Tree{Kind: graph.KindDocument, Key: newKey, Children: []*tree.Tree{list.Clone()}})

	updated := replaceWithReference(docTree, listID, newKey, refTextOrFallback(list, string(newKey)), graph.RefRegular)
	p.PutTree(key, updated)

	return p.Changes(ctx)
}
