// Package tree implements C9: a materialized, owned snapshot of a graph
// sub-tree (spec.md §3 Tree) supporting pure functional edits. A Tree's
// Children slice flattens the arena's linked Child/Next chain into a plain
// slice at each level, so siblings of a node are adjacent entries in its
// parent's Children rather than a Next pointer.
package tree

import "github.com/jlrickert/noteweave/pkg/graph"

// Tree is one node of a detached, owned snapshot. ID is nil for nodes
// synthesized by an edit (no underlying arena identity); preserved nodes
// keep the ID of the arena node they were collected from.
type Tree struct {
	ID   *graph.NodeID
	Kind graph.NodeKind

	Key      graph.Key // Document, Reference
	Metadata string    // Document

	Line graph.Line // Section, Leaf

	RefText string
	RefType graph.ReferenceType

	Lang    string // Raw
	Content string // Raw

	TableHeader []graph.Line
	TableAlign  []graph.ColumnAlignment
	TableRows   [][]graph.Line

	Children []*Tree
}

func idPtr(id graph.NodeID) *graph.NodeID {
	v := id
	return &v
}

// Collect materializes the node at id, including everything reachable
// through Child, as a Tree. It is the "Node" visitor (C8) realized
// eagerly: since every consumer walks a Tree exactly once before
// re-serializing or mutating it, eager collection is behaviorally
// identical to a lazy stream here and is considerably simpler to get
// right in Go than a borrow-checked iterator chain would be.
func Collect(g *graph.Graph, id graph.NodeID) *Tree {
	n := g.Arena().Node(id)
	if n.IsEmpty() {
		return nil
	}
	return collectNode(g, id, n)
}

// CollectChain materializes the sibling chain starting at firstID into a
// flat slice, used for a container's Children.
func CollectChain(g *graph.Graph, firstID graph.NodeID) []*Tree {
	var out []*Tree
	id := firstID
	for id.Valid() {
		n := g.Arena().Node(id)
		if n.IsEmpty() {
			break
		}
		out = append(out, collectNode(g, id, n))
		id = n.Next
	}
	return out
}

func collectNode(g *graph.Graph, id graph.NodeID, n graph.GraphNode) *Tree {
	t := &Tree{ID: idPtr(id), Kind: n.Kind}
	switch n.Kind {
	case graph.KindDocument:
		t.Key = n.Key
		t.Metadata = n.Metadata
		t.Children = CollectChain(g, n.Child)
	case graph.KindSection:
		t.Line = g.Lines().GetLine(n.Line)
		t.Children = CollectChain(g, n.Child)
	case graph.KindQuote, graph.KindBulletList, graph.KindOrderedList:
		t.Children = CollectChain(g, n.Child)
	case graph.KindLeaf:
		t.Line = g.Lines().GetLine(n.Line)
	case graph.KindRaw:
		t.Lang = n.Lang
		t.Content = n.Content
	case graph.KindReference:
		t.Key = n.RefKey
		t.RefText = n.RefText
		t.RefType = n.RefType
	case graph.KindTable:
		t.TableHeader = linesOf(g, n.HeaderLines)
		t.TableAlign = n.Alignment
		t.TableRows = make([][]graph.Line, len(n.RowLines))
		for i, row := range n.RowLines {
			t.TableRows[i] = linesOf(g, row)
		}
	}
	return t
}

func linesOf(g *graph.Graph, ids []graph.LineID) []graph.Line {
	out := make([]graph.Line, len(ids))
	for i, id := range ids {
		out[i] = g.Lines().GetLine(id)
	}
	return out
}

// Clone returns a deep copy of t, used before any in-place-looking mutation
// so every op in this package stays pure (returns a new Tree, the original
// untouched).
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := *t
	if t.ID != nil {
		c.ID = idPtr(*t.ID)
	}
	c.Children = cloneChildren(t.Children)
	return &c
}

func cloneChildren(in []*Tree) []*Tree {
	if in == nil {
		return nil
	}
	out := make([]*Tree, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// IsContainer reports whether t may legally carry Children.
func (t *Tree) IsContainer() bool {
	switch t.Kind {
	case graph.KindDocument, graph.KindSection, graph.KindQuote, graph.KindBulletList, graph.KindOrderedList:
		return true
	default:
		return false
	}
}

// IsList reports whether t is a bullet or ordered list.
func (t *Tree) IsList() bool {
	return t.Kind == graph.KindBulletList || t.Kind == graph.KindOrderedList
}

// IsSection reports whether t is a Section node.
func (t *Tree) IsSection() bool { return t.Kind == graph.KindSection }

// HasID reports whether t carries an original arena identity.
func (t *Tree) HasID() bool { return t.ID != nil }

// SameID reports whether t was collected from arena node id.
func (t *Tree) SameID(id graph.NodeID) bool {
	return t.ID != nil && *t.ID == id
}

// PlainText returns the Section/Leaf line's flattened text, or the empty
// string for other kinds.
func (t *Tree) PlainText() string {
	return t.Line.PlainText()
}
