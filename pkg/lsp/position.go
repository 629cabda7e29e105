package lsp

import (
	"github.com/jlrickert/noteweave/pkg/graph"
)

// NormalizeRange corrects Helix's single-character selection range
// (spec.md §6.3, SPEC_FULL's SUPPLEMENTED FEATURES note on
// router/server/extensions.rs): Helix reports a cursor as a one-character
// range starting at the cursor rather than a zero-width point; every other
// client's range already collapses Start==End at the cursor. clientName is
// the LSP `initialize` request's `clientInfo.name`, lowercased by the
// transport layer before it reaches here.
func NormalizeRange(clientName string, r Range) Range {
	if clientName != ClientNameHelix {
		return r
	}
	if r.Start.Line == r.End.Line && r.End.Character == r.Start.Character+1 {
		r.End.Character = r.Start.Character
	}
	return r
}

// NodeAt resolves a cursor position within key to the innermost node whose
// recorded LineRange contains the position's line, per SPEC_FULL's
// LineRange resolution (§9 Open Question (b)): a Section's range covers its
// own heading and pre-header body only, so the innermost (latest-starting,
// containing) range found among key's LineRanges is always the most
// specific node — nested sections, being later in source order and
// narrower, win over their ancestors.
func NodeAt(g *graph.Graph, key graph.Key, pos Position) (graph.NodeID, bool) {
	ranges := g.LineRanges(key)
	best := graph.NoNode
	bestWidth := -1
	found := false
	for _, kr := range ranges {
		if pos.Line < kr.Range.Start || pos.Line >= kr.Range.End {
			continue
		}
		width := kr.Range.End - kr.Range.Start
		if !found || width < bestWidth {
			best = kr.Node
			bestWidth = width
			found = true
		}
	}
	if found {
		return best, true
	}
	// Fall back to the document root so a cursor anywhere in an otherwise
	// unindexed document (e.g. before its first node) still resolves to
	// something actions can test applicability against.
	if root, ok := g.DocumentID(key); ok {
		return root, true
	}
	return graph.NoNode, false
}

// rangeOf converts a NodeID's recorded LineRange to an LSP Range covering
// whole lines (character 0 through end of line is left to the caller's
// document text; this package only has line granularity from the graph).
func rangeOf(g *graph.Graph, id graph.NodeID) (Range, bool) {
	r, ok := g.GlobalRange(id)
	if !ok {
		return Range{}, false
	}
	return Range{
		Start: Position{Line: r.Start},
		End:   Position{Line: r.End},
	}, true
}
