package action

import (
	"context"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// inlinedContent returns the nodes to splice in for the document refDoc
// refers to. When refDoc's entire top-level content is a single Section
// (the common "# title\n\nbody" shape every extract.* action produces),
// the section's own heading is redundant with the reference's link text,
// so inlining substitutes the heading's children instead of the heading
// itself (spec.md S2: inlining a Reference to "2.md = # b\n\ntext\n"
// yields "text", not "## b\n\ntext"). Anything else is spliced in as-is.
func inlinedContent(refDoc *tree.Tree) []*tree.Tree {
	if len(refDoc.Children) == 1 && refDoc.Children[0].IsSection() {
		return refDoc.Children[0].Children
	}
	return refDoc.Children
}

// resolveReferenceTarget loads the Tree for the document a Reference node
// points at, returning its content and key.
func resolveReferenceTarget(g *graph.Graph, ref *tree.Tree) (*tree.Tree, graph.Key, bool) {
	refKey := ref.Key
	root, ok := g.DocumentID(refKey)
	if !ok {
		return nil, "", false
	}
	return tree.Collect(g, root), refKey, true
}

// ApplicableInlineReferenceSection implements
// refactor.inline.reference.section's applicability: the cursor is on a
// block Reference node sitting directly in a section's pre-header zone
// (i.e. not inside a list).
func ApplicableInlineReferenceSection(g *graph.Graph, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	target := docTree.Find(req.TargetID)
	if target == nil || target.Kind != graph.KindReference {
		return Handle{}, false
	}
	if _, ok := docTree.GetSurroundingListID(req.TargetID); ok {
		return Handle{}, false
	}
	return Handle{Kind: KindInlineReferenceSection, Title: "Inline reference", TargetID: req.TargetID}, true
}

// ResolveInlineReferenceSection replaces the Reference with the referenced
// document's content at the reference's former position and deletes the
// referenced document (spec.md S2).
func ResolveInlineReferenceSection(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	target := docTree.Find(req.TargetID)
	if target == nil || target.Kind != graph.KindReference {
		return nil, nil
	}
	refDoc, refKey, ok := resolveReferenceTarget(g, target)
	if !ok {
		return nil, nil
	}

	p := patch.New(g, w)
	updated := tree.ReplaceMany(docTree, req.TargetID, inlinedContent(refDoc))
	p.PutTree(key, updated)
	p.MarkRemoved(refKey)

	return p.Changes(ctx)
}

// ApplicableInlineReferenceQuote implements
// refactor.inline.reference.quote's applicability: same shape as
// refactor.inline.reference.section.
func ApplicableInlineReferenceQuote(g *graph.Graph, req Request) (Handle, bool) {
	h, ok := ApplicableInlineReferenceSection(g, req)
	if !ok {
		return Handle{}, false
	}
	h.Kind = KindInlineReferenceQuote
	h.Title = "Inline reference as quote"
	return h, true
}

// ResolveInlineReferenceQuote replaces the Reference with a Quote wrapping
// the referenced document's content, and deletes the referenced document.
func ResolveInlineReferenceQuote(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	target := docTree.Find(req.TargetID)
	if target == nil || target.Kind != graph.KindReference {
		return nil, nil
	}
	refDoc, refKey, ok := resolveReferenceTarget(g, target)
	if !ok {
		return nil, nil
	}

	p := patch.New(g, w)
	quote := &tree.Tree{Kind: graph.KindQuote, Children: inlinedContent(refDoc)}
	updated := tree.Replace(docTree, req.TargetID, quote)
	p.PutTree(key, updated)
	p.MarkRemoved(refKey)

	return p.Changes(ctx)
}

// ApplicableInlineReferenceList implements refactor.inline.reference.list's
// applicability: the cursor is on a Reference node inside a list.
func ApplicableInlineReferenceList(g *graph.Graph, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	target := docTree.Find(req.TargetID)
	if target == nil || target.Kind != graph.KindReference {
		return Handle{}, false
	}
	if _, ok := docTree.GetSurroundingListID(req.TargetID); !ok {
		return Handle{}, false
	}
	return Handle{Kind: KindInlineReferenceList, Title: "Inline reference into list", TargetID: req.TargetID}, true
}

// ResolveInlineReferenceList replaces the Reference list item with the
// referenced document's content, spliced in as one or more sibling items,
// and deletes the referenced document.
func ResolveInlineReferenceList(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, key, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	target := docTree.Find(req.TargetID)
	if target == nil || target.Kind != graph.KindReference {
		return nil, nil
	}
	if _, ok := docTree.GetSurroundingListID(req.TargetID); !ok {
		return nil, nil
	}
	refDoc, refKey, ok := resolveReferenceTarget(g, target)
	if !ok {
		return nil, nil
	}

	p := patch.New(g, w)
	updated := tree.ReplaceMany(docTree, req.TargetID, inlinedContent(refDoc))
	p.PutTree(key, updated)
	p.MarkRemoved(refKey)

	return p.Changes(ctx)
}

// ApplicableDelete implements refactor.delete's applicability: the cursor
// is on a block Reference node.
func ApplicableDelete(g *graph.Graph, req Request) (Handle, bool) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return Handle{}, false
	}
	target := docTree.Find(req.TargetID)
	if target == nil || target.Kind != graph.KindReference {
		return Handle{}, false
	}
	return Handle{Kind: KindDelete, Title: "Delete referenced document", TargetID: req.TargetID}, true
}

// ResolveDelete deletes the document the cursor's Reference points at and
// rewrites every referrer: a referring block Reference is removed outright,
// a referring inline Link degrades to plain text (spec.md S6).
func ResolveDelete(ctx context.Context, g *graph.Graph, w markdown.Writer, req Request) ([]patch.Change, error) {
	docTree, _, ok := documentTree(g, req.TargetID)
	if !ok {
		return nil, nil
	}
	target := docTree.Find(req.TargetID)
	if target == nil || target.Kind != graph.KindReference {
		return nil, nil
	}
	deletedKey := target.Key

	p := patch.New(g, w)

	nodesByDoc := map[graph.Key][]graph.NodeID{}
	for _, id := range g.RefIndex().BlockReferencesTo(g.Arena(), deletedKey) {
		if docKey, ok := g.SurroundingDocument(id); ok {
			nodesByDoc[docKey] = append(nodesByDoc[docKey], id)
		}
	}
	for docKey, ids := range nodesByDoc {
		t := p.LoadKey(docKey)
		if t == nil {
			continue
		}
		for _, id := range ids {
			t = tree.RemoveNode(t, id)
		}
		p.PutTree(docKey, t)
	}

	inlineDocs := map[graph.Key]bool{}
	for _, id := range g.RefIndex().InlineReferencesTo(g.Arena(), deletedKey) {
		if docKey, ok := g.SurroundingDocument(id); ok {
			inlineDocs[docKey] = true
		}
	}
	for docKey := range inlineDocs {
		t := p.LoadKey(docKey)
		if t == nil {
			continue
		}
		p.PutTree(docKey, tree.DegradeLinksToText(t, deletedKey))
	}

	p.MarkRemoved(deletedKey)

	return p.Changes(ctx)
}
