package graph

// LineRange is the half-open source-line span [Start, End) a node was
// parsed from. A node's LineRange covers only its own content: for a
// Section this is its heading line through the end of its pre-header body,
// excluding any nested sub-sections — sub-sections get their own entries.
// This choice (rather than a Section's range swallowing its descendants) is
// what every consumer of LineRange — the sections builder, the paths
// enumerator's hover text, and the LSP documentSymbol/inlayHint handlers —
// relies on.
type LineRange struct {
	Start int
	End   int
}

// Options configures graph-wide parsing/resolution behavior.
type Options struct {
	// RefsExtension is stripped from a link URL (after any ".md" suffix)
	// before the remainder is tested for being a relative document
	// reference, e.g. ".html" for a published site that externally serves
	// notes as "key.html".
	RefsExtension string
}

// Graph is the in-memory aggregate: every parsed document's structural
// nodes, interned inline content, per-document source-line bookkeeping, and
// the cross-document reference index.
type Graph struct {
	Options Options

	arena *Arena
	lines *LineStore

	// keys maps a document Key to the NodeID of its Document root.
	keys map[Key]NodeID

	// perKeyRanges records (NodeID, LineRange) pairs in source order for
	// each key, rebuilt wholesale whenever that key is reparsed.
	perKeyRanges map[Key][]KeyedRange

	// globalRanges maps a NodeID straight to its LineRange, covering every
	// node that originated from parsing; synthesized nodes (built by
	// actions/patches) may have no entry here.
	globalRanges map[NodeID]LineRange

	// keysToRefText is the plain text of the first section child of each
	// document, used as the human-facing label wherever a key is rendered
	// (link text, path titles, DOT node labels).
	keysToRefText map[Key]string

	refIndex *RefIndex
}

// KeyedRange pairs a node with the source span it was parsed from, in the
// order the sections builder emitted it.
type KeyedRange struct {
	Node  NodeID
	Range LineRange
}

// New returns an empty Graph ready to accept documents via Build.
func New(opts Options) *Graph {
	return &Graph{
		Options:       opts,
		arena:         NewArena(),
		lines:         NewLineStore(),
		keys:          make(map[Key]NodeID),
		perKeyRanges:  make(map[Key][]KeyedRange),
		globalRanges:  make(map[NodeID]LineRange),
		keysToRefText: make(map[Key]string),
		refIndex:      NewRefIndex(),
	}
}

// Arena returns the graph's node arena.
func (g *Graph) Arena() *Arena { return g.arena }

// Lines returns the graph's interned line store.
func (g *Graph) Lines() *LineStore { return g.lines }

// RefIndex returns the graph's reference index.
func (g *Graph) RefIndex() *RefIndex { return g.refIndex }

// HasKey reports whether a document is registered under k.
func (g *Graph) HasKey(k Key) bool {
	_, ok := g.keys[k]
	return ok
}

// DocumentID returns the NodeID of the Document root registered under k.
func (g *Graph) DocumentID(k Key) (NodeID, bool) {
	id, ok := g.keys[k]
	return id, ok
}

// Keys returns every document key currently registered, in no particular
// order; callers that need a stable order should sort the result.
func (g *Graph) Keys() []Key {
	out := make([]Key, 0, len(g.keys))
	for k := range g.keys {
		out = append(out, k)
	}
	return out
}

// RefText returns the rendered label for key: the plain text of its first
// section child, or the key itself if the document has no sections yet.
func (g *Graph) RefText(k Key) string {
	if text, ok := g.keysToRefText[k]; ok && text != "" {
		return text
	}
	return k.String()
}

// LineRanges returns the (node, range) pairs recorded for key in source
// order, or nil if key is unknown.
func (g *Graph) LineRanges(k Key) []KeyedRange {
	return g.perKeyRanges[k]
}

// GlobalRange returns the LineRange recorded for id, if any.
func (g *Graph) GlobalRange(id NodeID) (LineRange, bool) {
	r, ok := g.globalRanges[id]
	return r, ok
}

// SurroundingDocument chases Prev until it reaches a Document node and
// returns its key. It returns the zero Key if id does not resolve to any
// live document.
func (g *Graph) SurroundingDocument(id NodeID) (Key, bool) {
	seen := make(map[NodeID]bool)
	cur := id
	for cur.Valid() && !seen[cur] {
		seen[cur] = true
		n := g.arena.Node(cur)
		if n.IsEmpty() {
			return "", false
		}
		if n.IsDocument() {
			return n.Key, true
		}
		cur = n.Prev
	}
	return "", false
}

// ParentOf reports whether a is the parent of b, i.e. a.Child == b. This is
// the only reliable way to distinguish "Prev is my parent" from "Prev is my
// previous sibling", since GraphNode carries no flag for it.
func (g *Graph) ParentOf(a, b NodeID) bool {
	return g.arena.Node(a).Child == b
}

// RegisterDocument records a freshly built Document root and its ranges,
// replacing any previous registration for the same key. Used by the
// sections builder (C5) after it finishes materializing a parse into the
// arena.
func (g *Graph) RegisterDocument(k Key, root NodeID, ranges []KeyedRange, refText string) {
	g.keys[k] = root
	g.perKeyRanges[k] = ranges
	if refText != "" {
		g.keysToRefText[k] = refText
	} else {
		delete(g.keysToRefText, k)
	}
	for _, kr := range ranges {
		g.globalRanges[kr.Node] = kr.Range
	}
}

// RemoveDocument deletes key's branch from the arena and clears its
// bookkeeping, but leaves the reference index untouched — callers must
// follow with a RefIndex rebuild/merge once the replacement (if any) is
// registered.
func (g *Graph) RemoveDocument(k Key) {
	root, ok := g.keys[k]
	if ok {
		g.arena.DeleteBranch(root)
	}
	for _, kr := range g.perKeyRanges[k] {
		delete(g.globalRanges, kr.Node)
	}
	delete(g.keys, k)
	delete(g.perKeyRanges, k)
	delete(g.keysToRefText, k)
}
