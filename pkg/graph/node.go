package graph

// NodeKind tags which GraphNode variant a slot holds.
type NodeKind uint8

const (
	KindEmpty NodeKind = iota
	KindDocument
	KindSection
	KindQuote
	KindBulletList
	KindOrderedList
	KindLeaf
	KindRaw
	KindHorizontalRule
	KindReference
	KindTable
)

func (k NodeKind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindDocument:
		return "Document"
	case KindSection:
		return "Section"
	case KindQuote:
		return "Quote"
	case KindBulletList:
		return "BulletList"
	case KindOrderedList:
		return "OrderedList"
	case KindLeaf:
		return "Leaf"
	case KindRaw:
		return "Raw"
	case KindHorizontalRule:
		return "HorizontalRule"
	case KindReference:
		return "Reference"
	case KindTable:
		return "Table"
	default:
		return "Unknown"
	}
}

// ReferenceType distinguishes the markdown link syntax a Reference or inline
// Link node was parsed from, so the writer can reproduce it.
type ReferenceType uint8

const (
	RefRegular ReferenceType = iota
	RefWikiLink
	RefWikiLinkPiped
)

// ColumnAlignment is a table column's alignment, parsed from its header
// separator row (":---", "---:", ":---:", or plain "---").
type ColumnAlignment uint8

const (
	AlignNone ColumnAlignment = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// GraphNode is a single arena slot. It is represented as one flat struct
// tagged by Kind rather than as per-variant types, so the arena can store a
// plain slice of them; only the fields relevant to Kind are meaningful, the
// rest are zero. Every non-Document node carries Prev, which is either its
// parent (if it is the parent's Child) or its previous sibling (if it is
// that sibling's Next) — callers distinguish the two by comparing against
// the candidate parent's Child field, never by any flag on the node itself.
type GraphNode struct {
	Kind NodeKind

	Prev  NodeID
	Next  NodeID
	Child NodeID

	// Document
	Key      Key
	Metadata string // raw YAML front-matter text, empty if none

	// Section, Leaf
	Line LineID

	// Raw
	Lang    string
	Content string

	// Reference
	RefKey  Key
	RefText string
	RefType ReferenceType

	// Table
	HeaderLines []LineID
	Alignment   []ColumnAlignment
	RowLines    [][]LineID
}

// IsEmpty reports whether the slot is a tombstone.
func (n GraphNode) IsEmpty() bool { return n.Kind == KindEmpty }

// IsDocument reports whether the node is a Document root.
func (n GraphNode) IsDocument() bool { return n.Kind == KindDocument }

// IsSection reports whether the node is a Section.
func (n GraphNode) IsSection() bool { return n.Kind == KindSection }

// IsReference reports whether the node is a block-level Reference.
func (n GraphNode) IsReference() bool { return n.Kind == KindReference }

// IsLeaf reports whether the node is a plain paragraph leaf.
func (n GraphNode) IsLeaf() bool { return n.Kind == KindLeaf }

// IsList reports whether the node is a bullet or ordered list container.
func (n GraphNode) IsList() bool {
	return n.Kind == KindBulletList || n.Kind == KindOrderedList
}

// IsContainer reports whether the node may legally have a Child: Document,
// Section, Quote, and the two list kinds. Table carries its cell content
// inline rather than as child nodes, so it is not a container here.
func (n GraphNode) IsContainer() bool {
	switch n.Kind {
	case KindDocument, KindSection, KindQuote, KindBulletList, KindOrderedList:
		return true
	default:
		return false
	}
}

// HasLine reports whether the node carries a single interned Line (Section
// heading text or Leaf paragraph text).
func (n GraphNode) HasLine() bool {
	return n.Kind == KindSection || n.Kind == KindLeaf
}

// NewDocument builds a Document root node for key. Document is the only
// kind whose Prev is meaningless; it is left at NoNode.
func NewDocument(key Key) GraphNode {
	return GraphNode{Kind: KindDocument, Key: key}
}

// NewSection builds a Section node whose heading text is line.
func NewSection(line LineID) GraphNode {
	return GraphNode{Kind: KindSection, Line: line}
}

// NewQuote builds an empty blockquote container.
func NewQuote() GraphNode { return GraphNode{Kind: KindQuote} }

// NewBulletList builds an empty bullet-list container.
func NewBulletList() GraphNode { return GraphNode{Kind: KindBulletList} }

// NewOrderedList builds an empty ordered-list container.
func NewOrderedList() GraphNode { return GraphNode{Kind: KindOrderedList} }

// NewLeaf builds a paragraph/plain block node from line.
func NewLeaf(line LineID) GraphNode {
	return GraphNode{Kind: KindLeaf, Line: line}
}

// NewRaw builds a fenced code/raw block node.
func NewRaw(lang, content string) GraphNode {
	return GraphNode{Kind: KindRaw, Lang: lang, Content: content}
}

// NewHorizontalRule builds a thematic-break node.
func NewHorizontalRule() GraphNode { return GraphNode{Kind: KindHorizontalRule} }

// NewReference builds a block-level Reference node, the sole content of a
// paragraph that is nothing but a link to another document.
func NewReference(key Key, text string, rt ReferenceType) GraphNode {
	return GraphNode{Kind: KindReference, RefKey: key, RefText: text, RefType: rt}
}

// NewTable builds a Table node from its header row, per-column alignment,
// and body rows.
func NewTable(header []LineID, alignment []ColumnAlignment, rows [][]LineID) GraphNode {
	return GraphNode{Kind: KindTable, HeaderLines: header, Alignment: alignment, RowLines: rows}
}
