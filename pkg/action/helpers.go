package action

import (
	"strconv"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// documentTree collects the full Tree for the document containing id, the
// "Tree rooted at the cursor's surrounding document" scoping SPEC_FULL.md
// documents for the Action Engine: an action never materializes more than
// the one document it touches, except refactor.delete's referrer rewrites.
func documentTree(g *graph.Graph, id graph.NodeID) (*tree.Tree, graph.Key, bool) {
	key, ok := g.SurroundingDocument(id)
	if !ok {
		return nil, "", false
	}
	root, ok := g.DocumentID(key)
	if !ok {
		return nil, "", false
	}
	return tree.Collect(g, root), key, true
}

// nextFreeNumericKey returns the smallest positive integer key not already
// registered in g or in p's own patch graph, the default key template
// refactor.* actions use when no user template is configured (spec.md S1/
// S3's "2", "2"/"3" keys).
func nextFreeNumericKey(g *graph.Graph, p *patch.Patch) graph.Key {
	n := 1
	for {
		k := graph.Key(strconv.Itoa(n))
		if !g.HasKey(k) && !p.Graph().HasKey(k) {
			return k
		}
		n++
	}
}

// replaceWithReference substitutes the node at id with a Reference to
// newKey carrying an explicit text/type, used wherever the default
// tree.ExtractSections behavior (plain-text-derived, always Regular) isn't
// what the action needs.
func replaceWithReference(root *tree.Tree, id graph.NodeID, newKey graph.Key, text string, rt graph.ReferenceType) *tree.Tree {
	return tree.Replace(root, id, &tree.Tree{Kind: graph.KindReference, Key: newKey, RefText: text, RefType: rt})
}

// refTextOrFallback returns t's plain text, or fallback if t carries none
// (e.g. a list or quote, which has no Line of its own).
func refTextOrFallback(t *tree.Tree, fallback string) string {
	if txt := t.PlainText(); txt != "" {
		return txt
	}
	return fallback
}

// disambiguate appends "-1", "-2", … to base until the result is free in
// both g and p's patch graph (spec.md §4.8 "on template collision, append
// -1, -2, … until a free key is found").
func disambiguate(g *graph.Graph, p *patch.Patch, base graph.Key) graph.Key {
	if !g.HasKey(base) && !p.Graph().HasKey(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := graph.Key(string(base) + "-" + strconv.Itoa(i))
		if !g.HasKey(candidate) && !p.Graph().HasKey(candidate) {
			return candidate
		}
	}
}
