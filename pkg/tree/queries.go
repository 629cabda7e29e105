package tree

import "github.com/jlrickert/noteweave/pkg/graph"

// Find returns the sub-tree rooted at id, or nil if id is not present.
func (root *Tree) Find(id graph.NodeID) *Tree {
	if root.SameID(id) {
		return root
	}
	return find(root, id)
}

func find(t *Tree, id graph.NodeID) *Tree {
	for _, c := range t.Children {
		if c.SameID(id) {
			return c
		}
		if r := find(c, id); r != nil {
			return r
		}
	}
	return nil
}

// Get is an alias for Find, matching spec.md §4.5's query list.
func (root *Tree) Get(id graph.NodeID) *Tree { return root.Find(id) }

// Contains reports whether id is present anywhere in root.
func (root *Tree) Contains(id graph.NodeID) bool {
	return root.Find(id) != nil
}

// ParentOf returns the tree whose Children directly contains id, or nil if
// id is root's own id or is absent.
func (root *Tree) ParentOf(id graph.NodeID) *Tree {
	return parentOf(root, id)
}

func parentOf(t *Tree, id graph.NodeID) *Tree {
	for _, c := range t.Children {
		if c.SameID(id) {
			return t
		}
		if r := parentOf(c, id); r != nil {
			return r
		}
	}
	return nil
}

// Position returns id's index within its parent's Children, or -1 if id
// has no parent in root.
func (root *Tree) Position(id graph.NodeID) int {
	p := root.ParentOf(id)
	if p == nil {
		return -1
	}
	for i, c := range p.Children {
		if c.SameID(id) {
			return i
		}
	}
	return -1
}

// PreSubHeaderPosition returns the index, within parentID's Children, of
// the first Section-kind child — the position new pre-header content is
// inserted at (spec.md §4.5, GLOSSARY "Pre-header position").
func (root *Tree) PreSubHeaderPosition(parentID graph.NodeID) int {
	p := root.Find(parentID)
	if p == nil {
		return 0
	}
	for i, c := range p.Children {
		if c.IsSection() {
			return i
		}
	}
	return len(p.Children)
}

// IsHeader reports whether id is a heading Section, i.e. a Section node
// whose parent is not a list container (a list-item Section is not a
// heading — see pkg/sections's package doc for the shared-shape decision).
func (root *Tree) IsHeader(id graph.NodeID) bool {
	t := root.Find(id)
	if t == nil || !t.IsSection() {
		return false
	}
	p := root.ParentOf(id)
	if p == nil {
		return true
	}
	return !p.IsList()
}

// GetSurroundingSectionID climbs id's ancestors until it finds a Section,
// returning its id, or ok=false if none exists.
func (root *Tree) GetSurroundingSectionID(id graph.NodeID) (graph.NodeID, bool) {
	cur := id
	for {
		p := root.ParentOf(cur)
		if p == nil || p.ID == nil {
			return graph.NoNode, false
		}
		if p.IsSection() {
			return *p.ID, true
		}
		cur = *p.ID
	}
}

// GetSurroundingListID climbs id's ancestors until it finds the nearest
// enclosing list container.
func (root *Tree) GetSurroundingListID(id graph.NodeID) (graph.NodeID, bool) {
	cur := id
	for {
		p := root.ParentOf(cur)
		if p == nil || p.ID == nil {
			return graph.NoNode, false
		}
		if p.IsList() {
			return *p.ID, true
		}
		cur = *p.ID
	}
}

// GetTopLevelSurroundingListID returns the outermost list containing id,
// climbing past any nested lists.
func (root *Tree) GetTopLevelSurroundingListID(id graph.NodeID) (graph.NodeID, bool) {
	listID, ok := root.GetSurroundingListID(id)
	if !ok {
		return graph.NoNode, false
	}
	for {
		outer, ok := root.GetSurroundingListID(listID)
		if !ok {
			return listID, true
		}
		listID = outer
	}
}

// GetSubSections returns id's Section-kind children in order.
func (root *Tree) GetSubSections(id graph.NodeID) []*Tree {
	t := root.Find(id)
	if t == nil {
		return nil
	}
	var out []*Tree
	for _, c := range t.Children {
		if c.IsSection() {
			out = append(out, c)
		}
	}
	return out
}
