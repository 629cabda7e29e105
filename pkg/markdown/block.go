// Package markdown defines the pluggable reader/writer contract (C4/C10)
// between source text and the block tree the sections builder consumes.
// The concrete goldmark-backed reader lives in goldmarkreader; the
// concrete writer lives in mdwriter. The core graph packages depend only
// on the Block type and the Reader/Writer interfaces declared here, never
// on goldmark directly.
package markdown

import "github.com/jlrickert/noteweave/pkg/graph"

// BlockKind tags a Block's variant.
type BlockKind uint8

const (
	BlockHeader BlockKind = iota
	BlockParagraph
	BlockQuote
	BlockBulletList
	BlockOrderedList
	BlockListItem
	BlockCodeBlock
	BlockThematicBreak
	BlockTable
)

// Block is one element of the reader's output tree: a flat, pre-structural
// rendition of the source that the sections builder turns into arena
// nodes. Quote/List/ListItem carry Children; CodeBlock carries Lang/
// Content; Table carries its own header/rows; everything else carries a
// single Inlines line.
type Block struct {
	Kind  BlockKind
	Level int // BlockHeader: 1-based source header depth, unused elsewhere

	Inlines graph.Line // Header, Paragraph

	Children []Block // Quote, BulletList, OrderedList, ListItem

	Lang    string // CodeBlock
	Content string // CodeBlock

	TableHeader []graph.Line // one inline sequence per column
	TableAlign  []graph.ColumnAlignment
	TableRows   [][]graph.Line // one row of per-column inline sequences each

	// StartLine/EndLine is the half-open [start, end) source-line span the
	// block was parsed from, 0-based. Used by the sections builder to
	// populate graph.LineRange.
	StartLine int
	EndLine   int
}

// Document is the reader's full output: an optional raw YAML front-matter
// block plus the body's block sequence.
type Document struct {
	Metadata string // front-matter text with its --- delimiters stripped
	Blocks   []Block
}

// IsParagraphClass reports whether a block counts toward list-sparsity
// (§4.6: "a list is sparse iff any item contains more than one
// paragraph-class block").
func (b Block) IsParagraphClass() bool {
	switch b.Kind {
	case BlockParagraph, BlockCodeBlock, BlockQuote, BlockTable:
		return true
	default:
		return false
	}
}
