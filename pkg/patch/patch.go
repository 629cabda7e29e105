// Package patch implements C13: a detached graph a single action builds its
// target state into before any change is emitted back to the caller. A
// Patch owns its own graph.Graph, separate from the live workspace graph,
// so an action can be computed, inspected, and discarded without ever
// mutating the graph the LSP adapter serves reads from (spec.md §4.8, §9
// "Patches are whole small graphs").
package patch

import (
	"context"
	"sort"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/jlrickert/noteweave/pkg/projector"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// ChangeKind tags one file-level effect a patch produces.
type ChangeKind int

const (
	Create ChangeKind = iota
	Update
	Remove
)

func (k ChangeKind) String() string {
	switch k {
	case Create:
		return "Create"
	case Update:
		return "Update"
	case Remove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// Change is one emitted effect: spec.md §4.8's Create{key}/Update{key,
// markdown}/Remove{key}.
type Change struct {
	Kind     ChangeKind
	Key      graph.Key
	Markdown string
}

// Patch builds the post-state of one action. base is read-only: the patch
// never writes into it. Keys not written into the patch still resolve
// reads against base, so an action only needs to touch the keys it
// actually changes.
type Patch struct {
	base   *graph.Graph
	g      *graph.Graph
	writer markdown.Writer

	touched map[graph.Key]bool
	created map[graph.Key]bool
	removed map[graph.Key]bool
}

// New returns an empty Patch reading through to base and rendering via w.
func New(base *graph.Graph, w markdown.Writer) *Patch {
	return &Patch{
		base:    base,
		g:       graph.New(base.Options),
		writer:  w,
		touched: make(map[graph.Key]bool),
		created: make(map[graph.Key]bool),
		removed: make(map[graph.Key]bool),
	}
}

// Graph returns the patch's own detached graph.
func (p *Patch) Graph() *graph.Graph { return p.g }

// Base returns the read-only graph the patch reads through to.
func (p *Patch) Base() *graph.Graph { return p.base }

// LoadKey returns a Tree for key's current content: from the patch's own
// graph if key has already been written this patch, otherwise collected
// fresh from base. It returns nil if key resolves nowhere.
func (p *Patch) LoadKey(key graph.Key) *tree.Tree {
	if root, ok := p.g.DocumentID(key); ok {
		return tree.Collect(p.g, root)
	}
	if p.removed[key] {
		return nil
	}
	root, ok := p.base.DocumentID(key)
	if !ok {
		return nil
	}
	return tree.Collect(p.base, root)
}

// PutTree materializes t (a Document-kind Tree) into the patch's own
// graph under key, replacing any prior registration for key in this patch,
// and marks key touched. Its reference index is rebuilt so subsequently
// loaded keys in the same patch see up-to-date block/inline reference
// entries.
func (p *Patch) PutTree(key graph.Key, t *tree.Tree) {
	if p.g.HasKey(key) {
		p.g.RemoveDocument(key)
	}
	root := materialize(p.g, t)
	p.g.RegisterDocument(key, root, nil, firstSectionText(t))
	p.g.RefIndex().Rebuild(p.g.Arena(), p.g.Lines())

	delete(p.removed, key)
	p.touched[key] = true
	if !p.base.HasKey(key) {
		p.created[key] = true
	}
}

// MarkRemoved records key as deleted by this patch.
func (p *Patch) MarkRemoved(key graph.Key) {
	if p.g.HasKey(key) {
		p.g.RemoveDocument(key)
	}
	delete(p.touched, key)
	delete(p.created, key)
	p.removed[key] = true
}

// ExportKey renders key's markdown from the patch's own graph (spec.md
// §4.8's `export_key`).
func (p *Patch) ExportKey(ctx context.Context, key graph.Key) (string, error) {
	return projector.ProjectDocument(ctx, p.g, key, p.writer)
}

// Changes computes the file-level change set: a Create then an Update for
// every newly introduced key, an Update for every touched existing key
// whose projection differs from its projection in base, and a Remove for
// every key marked removed. Order is Create/Update pairs (sorted by key)
// followed by Removes (sorted by key), matching spec.md §4.8's "Create
// precedes Update" ordering.
func (p *Patch) Changes(ctx context.Context) ([]Change, error) {
	keys := make([]graph.Key, 0, len(p.touched))
	for k := range p.touched {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var out []Change
	for _, k := range keys {
		newMD, err := p.ExportKey(ctx, k)
		if err != nil {
			return nil, err
		}
		if p.created[k] {
			out = append(out, Change{Kind: Create, Key: k})
			out = append(out, Change{Kind: Update, Key: k, Markdown: newMD})
			continue
		}
		oldMD, err := projector.ProjectDocument(ctx, p.base, k, p.writer)
		if err != nil {
			return nil, err
		}
		if oldMD != newMD {
			out = append(out, Change{Kind: Update, Key: k, Markdown: newMD})
		}
	}

	removedKeys := make([]graph.Key, 0, len(p.removed))
	for k := range p.removed {
		removedKeys = append(removedKeys, k)
	}
	sort.Slice(removedKeys, func(i, j int) bool { return removedKeys[i] < removedKeys[j] })
	for _, k := range removedKeys {
		out = append(out, Change{Kind: Remove, Key: k})
	}

	return out, nil
}

func firstSectionText(t *tree.Tree) string {
	for _, c := range t.Children {
		if c.Kind == graph.KindSection {
			return c.Line.PlainText()
		}
	}
	return ""
}

// materialize allocates a fresh arena branch from t and returns its root
// id. It is the inverse of tree.Collect: where Collect flattens an arena
// Child/Next chain into a Tree's Children slice, materialize expands a
// Children slice back into linked Prev/Next/Child node ids.
func materialize(g *graph.Graph, t *tree.Tree) graph.NodeID {
	id := g.Arena().NewNodeID()
	materializeInto(g, id, t, graph.NoNode, graph.NoNode)
	return id
}

func materializeInto(g *graph.Graph, id graph.NodeID, t *tree.Tree, prev, next graph.NodeID) {
	switch t.Kind {
	case graph.KindDocument:
		child := materializeChain(g, t.Children, id)
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindDocument, Key: t.Key, Metadata: t.Metadata, Child: child})
	case graph.KindSection:
		lineID := g.Lines().AddLine(t.Line)
		child := materializeChain(g, t.Children, id)
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindSection, Line: lineID, Child: child, Prev: prev, Next: next})
	case graph.KindQuote, graph.KindBulletList, graph.KindOrderedList:
		child := materializeChain(g, t.Children, id)
		g.Arena().SetNode(id, graph.GraphNode{Kind: t.Kind, Child: child, Prev: prev, Next: next})
	case graph.KindLeaf:
		lineID := g.Lines().AddLine(t.Line)
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindLeaf, Line: lineID, Prev: prev, Next: next})
	case graph.KindRaw:
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindRaw, Lang: t.Lang, Content: t.Content, Prev: prev, Next: next})
	case graph.KindHorizontalRule:
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindHorizontalRule, Prev: prev, Next: next})
	case graph.KindReference:
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindReference, RefKey: t.Key, RefText: t.RefText, RefType: t.RefType, Prev: prev, Next: next})
	case graph.KindTable:
		header := internLines(g, t.TableHeader)
		rows := make([][]graph.LineID, len(t.TableRows))
		for i, row := range t.TableRows {
			rows[i] = internLines(g, row)
		}
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindTable, HeaderLines: header, Alignment: t.TableAlign, RowLines: rows, Prev: prev, Next: next})
	default:
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindEmpty})
	}
}

func materializeChain(g *graph.Graph, children []*tree.Tree, parentID graph.NodeID) graph.NodeID {
	if len(children) == 0 {
		return graph.NoNode
	}
	ids := make([]graph.NodeID, len(children))
	for i := range children {
		ids[i] = g.Arena().NewNodeID()
	}
	for i, c := range children {
		prev := parentID
		if i > 0 {
			prev = ids[i-1]
		}
		next := graph.NoNode
		if i+1 < len(children) {
			next = ids[i+1]
		}
		materializeInto(g, ids[i], c, prev, next)
	}
	return ids[0]
}

func internLines(g *graph.Graph, lines []graph.Line) []graph.LineID {
	out := make([]graph.LineID, len(lines))
	for i, l := range lines {
		out[i] = g.Lines().AddLine(l)
	}
	return out
}
