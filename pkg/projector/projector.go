// Package projector implements C10: it walks a graph sub-tree and builds
// the markdown.Block tree a markdown.Writer serializes back to text.
// Headers are renumbered by nesting depth, never by the original source
// level (spec.md §4.2 "headers ... are normalized to depth-by-nesting").
package projector

import (
	"context"
	"strings"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
)

// ProjectDocument renders the whole document registered under key,
// including its front-matter if present, terminated by a trailing
// newline.
func ProjectDocument(ctx context.Context, g *graph.Graph, key graph.Key, w markdown.Writer) (string, error) {
	root, ok := g.DocumentID(key)
	if !ok {
		return "", &graph.KeyUnknownError{Key: key}
	}
	n := g.Arena().Node(root)
	blocks := BlocksFromChain(g, n.Child, 0)
	body, err := w.Write(ctx, blocks)
	if err != nil {
		return "", err
	}
	if n.Metadata != "" {
		return "---\n" + n.Metadata + "\n---\n\n" + body + "\n", nil
	}
	return body + "\n", nil
}

// ProjectNode renders a single node (and everything reachable from it via
// Child) as a standalone document-shaped fragment. depth is the heading-nesting depth
// to render id's own header at, if id is a Section.
func ProjectNode(ctx context.Context, g *graph.Graph, id graph.NodeID, depth int, w markdown.Writer) (string, error) {
	n := g.Arena().Node(id)
	if n.IsEmpty() {
		return "", nil
	}
	blocks := blocksForNode(g, id, n, depth)
	body, err := w.Write(ctx, blocks)
	if err != nil {
		return "", err
	}
	return body + "\n", nil
}

// BlocksFromChain flattens the sibling chain starting at id into a block
// sequence; a Section contributes a Header block followed by its own
// body's blocks flattened into the same sequence, since markdown headings
// are not a nested construct the way the graph's Section nodes are.
func BlocksFromChain(g *graph.Graph, id graph.NodeID, depth int) []markdown.Block {
	var out []markdown.Block
	for id.Valid() {
		n := g.Arena().Node(id)
		if n.IsEmpty() {
			break
		}
		out = append(out, blocksForNode(g, id, n, depth)...)
		id = n.Next
	}
	return out
}

func blocksForNode(g *graph.Graph, id graph.NodeID, n graph.GraphNode, depth int) []markdown.Block {
	switch n.Kind {
	case graph.KindSection:
		level := depth + 1
		header := markdown.Block{Kind: markdown.BlockHeader, Level: level, Inlines: g.Lines().GetLine(n.Line)}
		body := BlocksFromChain(g, n.Child, level)
		return append([]markdown.Block{header}, body...)
	case graph.KindQuote:
		return []markdown.Block{{Kind: markdown.BlockQuote, Children: BlocksFromChain(g, n.Child, depth)}}
	case graph.KindBulletList:
		return []markdown.Block{{Kind: markdown.BlockBulletList, Children: listItemBlocks(g, n.Child, depth)}}
	case graph.KindOrderedList:
		return []markdown.Block{{Kind: markdown.BlockOrderedList, Children: listItemBlocks(g, n.Child, depth)}}
	case graph.KindLeaf:
		return []markdown.Block{{Kind: markdown.BlockParagraph, Inlines: g.Lines().GetLine(n.Line)}}
	case graph.KindRaw:
		return []markdown.Block{{Kind: markdown.BlockCodeBlock, Lang: n.Lang, Content: n.Content}}
	case graph.KindHorizontalRule:
		return []markdown.Block{{Kind: markdown.BlockThematicBreak}}
	case graph.KindReference:
		return []markdown.Block{referenceBlock(g, n)}
	case graph.KindTable:
		return []markdown.Block{tableBlock(g, n)}
	default:
		return nil
	}
}

// listItemBlocks renders the chain of section-like item nodes under a list
// container as BlockListItem values (see pkg/sections's package doc for
// why list items reuse the Section node shape).
func listItemBlocks(g *graph.Graph, firstItem graph.NodeID, depth int) []markdown.Block {
	var out []markdown.Block
	id := firstItem
	for id.Valid() {
		n := g.Arena().Node(id)
		if n.IsEmpty() {
			break
		}
		var children []markdown.Block
		if n.Line.Valid() {
			children = append(children, markdown.Block{Kind: markdown.BlockParagraph, Inlines: g.Lines().GetLine(n.Line)})
		}
		children = append(children, BlocksFromChain(g, n.Child, depth)...)
		out = append(out, markdown.Block{Kind: markdown.BlockListItem, Children: children})
		id = n.Next
	}
	return out
}

func referenceBlock(g *graph.Graph, n graph.GraphNode) markdown.Block {
	return markdown.Block{Kind: markdown.BlockParagraph, Inlines: graph.Line{referenceLinkInline(n, g.Options.RefsExtension)}}
}

// referenceLinkInline builds the single link inline a Reference node
// renders as, per spec.md §4.6's reference_type table. IsRefLink is always
// set so the autolink-folding rule in mdwriter never fires for an
// explicit document Reference.
func referenceLinkInline(n graph.GraphNode, refsExt string) graph.Inline {
	switch n.RefType {
	case graph.RefWikiLink:
		return graph.Inline{Kind: graph.InlineLink, Target: string(n.RefKey), LinkType: graph.LinkWiki, IsRefLink: true, RefKey: n.RefKey}
	case graph.RefWikiLinkPiped:
		return graph.Inline{
			Kind: graph.InlineLink, Target: string(n.RefKey), LinkType: graph.LinkWikiPiped,
			IsRefLink: true, RefKey: n.RefKey, Children: []graph.Inline{graph.Str(n.RefText)},
		}
	default:
		url := string(n.RefKey) + refsExt
		return graph.Inline{
			Kind: graph.InlineLink, Target: url, LinkType: graph.LinkRegular,
			IsRefLink: true, RefKey: n.RefKey, Children: []graph.Inline{graph.Str(n.RefText)},
		}
	}
}

func tableBlock(g *graph.Graph, n graph.GraphNode) markdown.Block {
	header := make([]graph.Line, len(n.HeaderLines))
	for i, lid := range n.HeaderLines {
		header[i] = g.Lines().GetLine(lid)
	}
	rows := make([][]graph.Line, len(n.RowLines))
	for i, row := range n.RowLines {
		cells := make([]graph.Line, len(row))
		for j, lid := range row {
			cells[j] = g.Lines().GetLine(lid)
		}
		rows[i] = cells
	}
	return markdown.Block{Kind: markdown.BlockTable, TableHeader: header, TableAlign: n.Alignment, TableRows: rows}
}

// Normalize re-renders key's whole document; used by the CLI `normalize`
// command and by the round-trip law in spec.md §8.
func Normalize(ctx context.Context, g *graph.Graph, key graph.Key, w markdown.Writer) (string, error) {
	out, err := ProjectDocument(ctx, g, key, w)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
