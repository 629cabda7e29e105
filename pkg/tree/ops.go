package tree

import "github.com/jlrickert/noteweave/pkg/graph"

// Replace substitutes the sub-tree at id with newTree. If id is root's own
// id, newTree is returned directly.
func Replace(root *Tree, id graph.NodeID, newTree *Tree) *Tree {
	if root.SameID(id) {
		return newTree
	}
	clone := root.Clone()
	replaceIn(clone, id, newTree)
	return clone
}

func replaceIn(t *Tree, id graph.NodeID, newTree *Tree) bool {
	for i, c := range t.Children {
		if c.SameID(id) {
			t.Children[i] = newTree
			return true
		}
		if replaceIn(c, id, newTree) {
			return true
		}
	}
	return false
}

// RemoveNode deletes the node at id from its parent's Children.
func RemoveNode(root *Tree, id graph.NodeID) *Tree {
	clone := root.Clone()
	removeIn(clone, id)
	return clone
}

func removeIn(t *Tree, id graph.NodeID) bool {
	for i, c := range t.Children {
		if c.SameID(id) {
			t.Children = append(append([]*Tree{}, t.Children[:i]...), t.Children[i+1:]...)
			return true
		}
		if removeIn(c, id) {
			return true
		}
	}
	return false
}

func insertAt(children []*Tree, pos int, t *Tree) []*Tree {
	if pos < 0 || pos > len(children) {
		pos = len(children)
	}
	out := make([]*Tree, 0, len(children)+1)
	out = append(out, children[:pos]...)
	out = append(out, t)
	out = append(out, children[pos:]...)
	return out
}

// AppendPreHeader inserts newTree as a child of parentID at the first
// position after parentID's contiguous prefix of non-Section children
// (spec.md §4.5's "pre-header position").
func AppendPreHeader(root *Tree, parentID graph.NodeID, newTree *Tree) *Tree {
	clone := root.Clone()
	p := clone.Find(parentID)
	if p == nil {
		return clone
	}
	pos := clone.PreSubHeaderPosition(parentID)
	p.Children = insertAt(p.Children, pos, newTree)
	return clone
}

// AppendAfter inserts newTree as the sibling immediately following
// targetID.
func AppendAfter(root *Tree, targetID graph.NodeID, newTree *Tree) *Tree {
	clone := root.Clone()
	p := clone.ParentOf(targetID)
	if p == nil {
		return clone
	}
	pos := -1
	for i, c := range p.Children {
		if c.SameID(targetID) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return clone
	}
	p.Children = insertAt(p.Children, pos+1, newTree)
	return clone
}

// ReplaceMany substitutes the node at id with the ordered sequence
// newNodes, spliced in at id's former sibling position. Used by the action
// engine's reference-inlining operations, which replace one Reference
// child with the (possibly multi-node) content of the document it points
// at — the same "flatten in place" shape as the Inline visitor, but
// targeted at a single node instead of every Reference in the tree.
func ReplaceMany(root *Tree, id graph.NodeID, newNodes []*Tree) *Tree {
	clone := root.Clone()
	replaceManyIn(clone, id, newNodes)
	return clone
}

func replaceManyIn(t *Tree, id graph.NodeID, newNodes []*Tree) bool {
	for i, c := range t.Children {
		if c.SameID(id) {
			out := make([]*Tree, 0, len(t.Children)-1+len(newNodes))
			out = append(out, t.Children[:i]...)
			out = append(out, newNodes...)
			out = append(out, t.Children[i+1:]...)
			t.Children = out
			return true
		}
		if replaceManyIn(c, id, newNodes) {
			return true
		}
	}
	return false
}

// ExtractSections substitutes, for every node id present in keys, a
// Reference node pointing at the mapped key and preserving the node's
// original plain text (spec.md §4.5).
func ExtractSections(root *Tree, keys map[graph.NodeID]graph.Key) *Tree {
	clone := root.Clone()
	for id, k := range keys {
		replaceWithReference(clone, id, k)
	}
	return clone
}

func replaceWithReference(t *Tree, id graph.NodeID, newKey graph.Key) bool {
	for i, c := range t.Children {
		if c.SameID(id) {
			t.Children[i] = &Tree{Kind: graph.KindReference, Key: newKey, RefText: c.PlainText(), RefType: graph.RefRegular}
			return true
		}
		if replaceWithReference(c, id, newKey) {
			return true
		}
	}
	return false
}

// ChangeListType toggles BulletList<->OrderedList at id.
func ChangeListType(root *Tree, id graph.NodeID) *Tree {
	clone := root.Clone()
	t := clone.Find(id)
	if t == nil || !t.IsList() {
		return clone
	}
	if t.Kind == graph.KindBulletList {
		t.Kind = graph.KindOrderedList
	} else {
		t.Kind = graph.KindBulletList
	}
	return clone
}

// toListItem converts an arbitrary node into the section-shaped list-item
// form pkg/sections builds (see its package doc): a leaf/section's own
// line becomes the item's lead line; anything else becomes the item's
// sole child.
func toListItem(t *Tree) *Tree {
	switch t.Kind {
	case graph.KindLeaf:
		return &Tree{Kind: graph.KindSection, Line: t.Line}
	case graph.KindSection:
		return &Tree{Kind: graph.KindSection, Line: t.Line, Children: t.Children}
	default:
		return &Tree{Kind: graph.KindSection, Children: []*Tree{t}}
	}
}

// WrapIntoList wraps the target node inside a new BulletList at its
// former position (spec.md §4.4 Wrap).
func WrapIntoList(root *Tree, id graph.NodeID) *Tree {
	target := root.Find(id)
	if target == nil {
		return root.Clone()
	}
	item := toListItem(target.Clone())
	list := &Tree{Kind: graph.KindBulletList, Children: []*Tree{item}}
	return Replace(root, id, list)
}

// UnwrapList replaces the list at id with the sequence of its item
// sub-trees at the list's former position (spec.md §4.4 Unwrap). Each item
// is already section-shaped (pkg/sections's list-item convention), so no
// further conversion is needed.
func UnwrapList(root *Tree, id graph.NodeID) *Tree {
	clone := root.Clone()
	if clone.SameID(id) {
		return clone
	}
	p := clone.ParentOf(id)
	if p == nil {
		return clone
	}
	list := clone.Find(id)
	if list == nil || !list.IsList() {
		return clone
	}
	pos := -1
	for i, c := range p.Children {
		if c.SameID(id) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return clone
	}
	out := make([]*Tree, 0, len(p.Children)-1+len(list.Children))
	out = append(out, p.Children[:pos]...)
	out = append(out, list.Children...)
	out = append(out, p.Children[pos+1:]...)
	p.Children = out
	return clone
}

// UpdateNode replaces the inline content of a Section/Leaf node.
func UpdateNode(root *Tree, id graph.NodeID, newInlines graph.Line) *Tree {
	clone := root.Clone()
	t := clone.Find(id)
	if t == nil {
		return clone
	}
	t.Line = newInlines
	return clone
}

// MarkNode surrounds parentID's children in [start, end) with two
// synthetic Leaf marker nodes carrying startText/endText, used by
// custom.transform to bound the {{context}} region an LLM prompt edits
// (spec.md §4.5).
func MarkNode(root *Tree, parentID graph.NodeID, start, end int, startText, endText string) *Tree {
	clone := root.Clone()
	p := clone.Find(parentID)
	if p == nil {
		return clone
	}
	if start < 0 {
		start = 0
	}
	if end > len(p.Children) {
		end = len(p.Children)
	}
	if start > end {
		start = end
	}
	startMarker := &Tree{Kind: graph.KindLeaf, Line: graph.Line{graph.Str(startText)}}
	endMarker := &Tree{Kind: graph.KindLeaf, Line: graph.Line{graph.Str(endText)}}
	out := make([]*Tree, 0, len(p.Children)+2)
	out = append(out, p.Children[:start]...)
	out = append(out, startMarker)
	out = append(out, p.Children[start:end]...)
	out = append(out, endMarker)
	out = append(out, p.Children[end:]...)
	p.Children = out
	return clone
}

// ChangeKey rewrites every inline link and every Reference whose key
// equals target to updated, throughout the whole tree (spec.md §4.4
// ChangeKey visitor, realized here as the Tree-op twin the rename engine
// builds its patches with).
func ChangeKey(root *Tree, target, updated graph.Key) *Tree {
	clone := root.Clone()
	changeKeyIn(clone, target, updated)
	return clone
}

func changeKeyIn(t *Tree, target, updated graph.Key) {
	if t.Kind == graph.KindReference && t.Key == target {
		t.Key = updated
	}
	if len(t.Line) > 0 {
		t.Line = t.Line.ChangeKey(target, updated)
	}
	for i := range t.TableHeader {
		t.TableHeader[i] = t.TableHeader[i].ChangeKey(target, updated)
	}
	for r := range t.TableRows {
		for c := range t.TableRows[r] {
			t.TableRows[r][c] = t.TableRows[r][c].ChangeKey(target, updated)
		}
	}
	for _, c := range t.Children {
		changeKeyIn(c, target, updated)
	}
}

// DegradeLinksToText rewrites every inline Link whose key equals target
// into plain Str content, preserving its visible text but dropping the
// link — used by refactor.delete (spec.md S6: "inline link degrades to
// plain text").
func DegradeLinksToText(root *Tree, target graph.Key) *Tree {
	clone := root.Clone()
	degradeIn(clone, target)
	return clone
}

func degradeIn(t *Tree, target graph.Key) {
	if len(t.Line) > 0 {
		t.Line = degradeLine(t.Line, target)
	}
	for _, c := range t.Children {
		degradeIn(c, target)
	}
}

func degradeLine(l graph.Line, target graph.Key) graph.Line {
	out := make(graph.Line, 0, len(l))
	for _, in := range l {
		out = append(out, degradeInline(in, target))
	}
	return out
}

func degradeInline(in graph.Inline, target graph.Key) graph.Inline {
	if in.Kind == graph.InlineLink && in.IsRefLink && in.RefKey == target {
		return graph.Str(flattenPlain(in.Children))
	}
	if len(in.Children) > 0 {
		children := make([]graph.Inline, len(in.Children))
		for i, c := range in.Children {
			children[i] = degradeInline(c, target)
		}
		in.Children = children
	}
	return in
}

func flattenPlain(children []graph.Inline) string {
	return graph.Line(children).PlainText()
}
