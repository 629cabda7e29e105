package graph

// RefIndex is the bidirectional reference index (C7): for a given key, which
// nodes point at it, split by whether the pointer is a block-level
// Reference node or an inline Link embedded in a Section/Leaf line. It plays
// the same role the reference CLI's Dex plays for its links/backlinks
// tables, but keyed by document Key instead of numeric NodeID and rebuilt
// from the arena rather than parsed from a TSV index.
type RefIndex struct {
	blockRefs  map[Key][]NodeID
	inlineRefs map[Key][]NodeID
}

// NewRefIndex returns an empty index.
func NewRefIndex() *RefIndex {
	return &RefIndex{
		blockRefs:  make(map[Key][]NodeID),
		inlineRefs: make(map[Key][]NodeID),
	}
}

// Rebuild scans every node in the arena once and replaces the index's
// contents, used on a full import.
func (idx *RefIndex) Rebuild(a *Arena, lines *LineStore) {
	idx.blockRefs = make(map[Key][]NodeID)
	idx.inlineRefs = make(map[Key][]NodeID)
	idx.scan(a, lines, NodeID(0), len(a.Nodes()))
}

// scan walks every slot in [1, limit) without following links, since a full
// rebuild only needs to classify each node once regardless of structure.
func (idx *RefIndex) scan(a *Arena, lines *LineStore, _ NodeID, limit int) {
	for i := 1; i < limit; i++ {
		id := NodeID(i)
		n := a.Node(id)
		idx.indexNode(lines, id, n)
	}
}

func (idx *RefIndex) indexNode(lines *LineStore, id NodeID, n GraphNode) {
	switch n.Kind {
	case KindReference:
		idx.blockRefs[n.RefKey] = append(idx.blockRefs[n.RefKey], id)
	case KindSection, KindLeaf:
		for _, target := range inlineRefTargets(lines.GetLine(n.Line)) {
			idx.inlineRefs[target] = append(idx.inlineRefs[target], id)
		}
	}
}

func inlineRefTargets(line Line) []Key {
	var out []Key
	var walk func(in Inline)
	walk = func(in Inline) {
		if in.Kind == InlineLink && in.IsRefLink {
			out = append(out, in.RefKey)
		}
		for _, c := range in.Children {
			walk(c)
		}
	}
	for _, in := range line {
		walk(in)
	}
	return out
}

// MergeKey removes every entry for nodes belonging to key's previous branch
// and re-indexes the freshly rebuilt node range [lo, hi), used after a
// single document is re-parsed so the rest of the index need not be
// recomputed.
func (idx *RefIndex) MergeKey(a *Arena, lines *LineStore, lo, hi NodeID) {
	idx.purgeRange(lo, hi)
	for i := int(lo); i < int(hi); i++ {
		id := NodeID(i)
		idx.indexNode(lines, id, a.Node(id))
	}
}

func (idx *RefIndex) purgeRange(lo, hi NodeID) {
	inRange := func(id NodeID) bool { return id >= lo && id < hi }
	for k, ids := range idx.blockRefs {
		idx.blockRefs[k] = filterOut(ids, inRange)
	}
	for k, ids := range idx.inlineRefs {
		idx.inlineRefs[k] = filterOut(ids, inRange)
	}
}

func filterOut(ids []NodeID, drop func(NodeID) bool) []NodeID {
	out := ids[:0]
	for _, id := range ids {
		if !drop(id) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// BlockReferencesTo returns the live (non-Empty) block Reference nodes that
// resolve to k.
func (idx *RefIndex) BlockReferencesTo(a *Arena, k Key) []NodeID {
	return liveOnly(a, idx.blockRefs[k])
}

// InlineReferencesTo returns the live nodes whose line contains at least one
// inline link resolving to k.
func (idx *RefIndex) InlineReferencesTo(a *Arena, k Key) []NodeID {
	return liveOnly(a, idx.inlineRefs[k])
}

func liveOnly(a *Arena, ids []NodeID) []NodeID {
	var out []NodeID
	for _, id := range ids {
		if !a.Node(id).IsEmpty() {
			out = append(out, id)
		}
	}
	return out
}
