// Package sections implements the Sections Builder (C5): it converts a
// parsed markdown.Document's flat block tree into the graph's linked-node
// representation, recording (NodeID, LineRange) pairs as it goes per
// spec.md §4.2.
//
// Decision (list items, Open Question not covered by spec.md §3's node
// kind table): a BulletList/OrderedList's children are "section-like"
// (spec.md §3) but no distinct ListItem NodeKind exists. This builder
// reuses the Section node shape for list items: Line holds the item's
// lead paragraph text when the item's first block is a paragraph, Child
// holds everything else (additional blocks, including nested lists),
// chained the same way a Section's body is. An item whose sole or first
// block is not a paragraph (e.g. a nested list as the entire item) gets
// Line = graph.NoLine and Child pointing directly at that block. The
// projector distinguishes a "list item Section" from a "heading Section"
// by checking whether its parent is a list container, never by a flag on
// the node itself.
package sections

import (
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
)

// Build parses doc into the graph under key, replacing any prior
// registration for that key. It is the sole entry point used by
// workspace document updates (didChange/didSave) and bulk import.
func Build(g *graph.Graph, key graph.Key, doc *markdown.Document) {
	rootID := g.Arena().NewNodeID()
	var ranges []graph.KeyedRange
	childID := buildSiblings(g, rootID, doc.Blocks, key, g.Options.RefsExtension, &ranges)
	g.Arena().SetNode(rootID, graph.GraphNode{
		Kind: graph.KindDocument, Key: key, Child: childID, Metadata: doc.Metadata,
	})
	refText := firstSectionText(g, childID)
	g.RegisterDocument(key, rootID, ranges, refText)
}

func firstSectionText(g *graph.Graph, firstChild graph.NodeID) string {
	id := firstChild
	for id.Valid() {
		n := g.Arena().Node(id)
		if n.IsEmpty() {
			return ""
		}
		if n.IsSection() {
			return g.Lines().GetLine(n.Line).PlainText()
		}
		id = n.Next
	}
	return ""
}

// chainLinker accumulates a sibling chain, wiring each node's Prev to
// either parent (the first node) or the previous sibling, and each
// predecessor's Next to the node that follows it.
type chainLinker struct {
	g      *graph.Graph
	parent graph.NodeID
	first  graph.NodeID
	prev   graph.NodeID
}

func (c *chainLinker) add(id graph.NodeID) {
	if !c.first.Valid() {
		c.first = id
	} else {
		c.g.Arena().NodeMut(c.prev).Next = id
	}
	if !c.prev.Valid() {
		c.g.Arena().NodeMut(id).Prev = c.parent
	} else {
		c.g.Arena().NodeMut(id).Prev = c.prev
	}
	c.prev = id
}

// buildSiblings builds a chain of nodes from a flat block list under
// parent, per spec.md §4.2: non-header blocks form a pre-header prefix,
// then header blocks at the shallowest level present in the remainder are
// grouped into Section nodes whose bodies are recursed into.
func buildSiblings(g *graph.Graph, parent graph.NodeID, blocks []markdown.Block, key graph.Key, refsExt string, ranges *[]graph.KeyedRange) graph.NodeID {
	chain := &chainLinker{g: g, parent: parent}

	i := 0
	for i < len(blocks) && blocks[i].Kind != markdown.BlockHeader {
		chain.add(emitBlock(g, blocks[i], key, refsExt, ranges))
		i++
	}
	if i >= len(blocks) {
		return chain.first
	}

	minLevel := blocks[i].Level
	for j := i; j < len(blocks); j++ {
		if blocks[j].Kind == markdown.BlockHeader && blocks[j].Level < minLevel {
			minLevel = blocks[j].Level
		}
	}

	for i < len(blocks) {
		if blocks[i].Kind != markdown.BlockHeader || blocks[i].Level != minLevel {
			chain.add(emitBlock(g, blocks[i], key, refsExt, ranges))
			i++
			continue
		}
		h := blocks[i]
		j := i + 1
		for j < len(blocks) && !(blocks[j].Kind == markdown.BlockHeader && blocks[j].Level <= minLevel) {
			j++
		}
		body := blocks[i+1 : j]

		lineID := g.Lines().AddLine(resolveLinks(h.Inlines, key, refsExt))
		secID := g.Arena().NewNodeID()
		end := h.EndLine
		for _, bb := range body {
			if bb.Kind == markdown.BlockHeader {
				break
			}
			end = bb.EndLine
		}
		*ranges = append(*ranges, graph.KeyedRange{Node: secID, Range: graph.LineRange{Start: h.StartLine, End: end}})
		childID := buildSiblings(g, secID, body, key, refsExt, ranges)
		g.Arena().SetNode(secID, graph.GraphNode{Kind: graph.KindSection, Line: lineID, Child: childID})
		chain.add(secID)
		i = j
	}
	return chain.first
}

func emitBlock(g *graph.Graph, b markdown.Block, key graph.Key, refsExt string, ranges *[]graph.KeyedRange) graph.NodeID {
	switch b.Kind {
	case markdown.BlockParagraph:
		if rk, rtext, rt, ok := referenceFromParagraph(b, key, refsExt); ok {
			id := g.Arena().NewNodeID()
			*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(b)})
			g.Arena().SetNode(id, graph.NewReference(rk, rtext, rt))
			return id
		}
		lineID := g.Lines().AddLine(resolveLinks(b.Inlines, key, refsExt))
		id := g.Arena().NewNodeID()
		*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(b)})
		g.Arena().SetNode(id, graph.NewLeaf(lineID))
		return id

	case markdown.BlockQuote:
		id := g.Arena().NewNodeID()
		*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(b)})
		childID := buildSiblings(g, id, b.Children, key, refsExt, ranges)
		g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindQuote, Child: childID})
		return id

	case markdown.BlockBulletList, markdown.BlockOrderedList:
		id := g.Arena().NewNodeID()
		*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(b)})
		childID := buildListItems(g, id, b.Children, key, refsExt, ranges)
		kind := graph.KindBulletList
		if b.Kind == markdown.BlockOrderedList {
			kind = graph.KindOrderedList
		}
		g.Arena().SetNode(id, graph.GraphNode{Kind: kind, Child: childID})
		return id

	case markdown.BlockCodeBlock:
		id := g.Arena().NewNodeID()
		*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(b)})
		g.Arena().SetNode(id, graph.NewRaw(b.Lang, b.Content))
		return id

	case markdown.BlockThematicBreak:
		id := g.Arena().NewNodeID()
		*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(b)})
		g.Arena().SetNode(id, graph.NewHorizontalRule())
		return id

	case markdown.BlockTable:
		id := g.Arena().NewNodeID()
		*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(b)})
		header := make([]graph.LineID, len(b.TableHeader))
		for i, cell := range b.TableHeader {
			header[i] = g.Lines().AddLine(resolveLinks(cell, key, refsExt))
		}
		rows := make([][]graph.LineID, len(b.TableRows))
		for i, row := range b.TableRows {
			cellIDs := make([]graph.LineID, len(row))
			for j, cell := range row {
				cellIDs[j] = g.Lines().AddLine(resolveLinks(cell, key, refsExt))
			}
			rows[i] = cellIDs
		}
		g.Arena().SetNode(id, graph.NewTable(header, b.TableAlign, rows))
		return id

	default:
		id := g.Arena().NewNodeID()
		*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(b)})
		g.Arena().SetNode(id, graph.NewHorizontalRule())
		return id
	}
}

func buildListItems(g *graph.Graph, parent graph.NodeID, items []markdown.Block, key graph.Key, refsExt string, ranges *[]graph.KeyedRange) graph.NodeID {
	chain := &chainLinker{g: g, parent: parent}
	for _, item := range items {
		chain.add(buildListItem(g, item, key, refsExt, ranges))
	}
	return chain.first
}

// buildListItem builds the section-like node for one list item (see the
// package doc comment for the modeling decision).
func buildListItem(g *graph.Graph, item markdown.Block, key graph.Key, refsExt string, ranges *[]graph.KeyedRange) graph.NodeID {
	id := g.Arena().NewNodeID()
	*ranges = append(*ranges, graph.KeyedRange{Node: id, Range: blockRange(item)})

	body := item.Children
	lineID := graph.NoLine
	if len(body) > 0 && body[0].Kind == markdown.BlockParagraph {
		lineID = g.Lines().AddLine(resolveLinks(body[0].Inlines, key, refsExt))
		body = body[1:]
	}
	childID := buildSiblings(g, id, body, key, refsExt, ranges)
	g.Arena().SetNode(id, graph.GraphNode{Kind: graph.KindSection, Line: lineID, Child: childID})
	return id
}

func blockRange(b markdown.Block) graph.LineRange {
	return graph.LineRange{Start: b.StartLine, End: b.EndLine}
}

// referenceFromParagraph reports whether b is a paragraph whose only
// content is a single link to a reference URL (spec.md §4.2 step 5).
func referenceFromParagraph(b markdown.Block, key graph.Key, refsExt string) (graph.Key, string, graph.ReferenceType, bool) {
	inlines := trimBreaks(b.Inlines)
	if len(inlines) != 1 || inlines[0].Kind != graph.InlineLink {
		return "", "", 0, false
	}
	link := inlines[0]
	if !graph.IsReferenceURL(link.Target, refsExt) {
		return "", "", 0, false
	}
	rk := graph.KeyFromRelLinkURL(link.Target, key, refsExt)
	text := graph.Line(link.Children).PlainText()
	rt := refTypeFromLinkType(link.LinkType)
	return rk, text, rt, true
}

func trimBreaks(l graph.Line) graph.Line {
	var out graph.Line
	for _, in := range l {
		if in.Kind == graph.InlineSoftBreak || in.Kind == graph.InlineLineBreak {
			continue
		}
		out = append(out, in)
	}
	return out
}

func refTypeFromLinkType(lt graph.LinkType) graph.ReferenceType {
	switch lt {
	case graph.LinkWiki:
		return graph.RefWikiLink
	case graph.LinkWikiPiped:
		return graph.RefWikiLinkPiped
	default:
		return graph.RefRegular
	}
}

// resolveLinks walks line and resolves each Link inline's RefKey/IsRefLink
// against key's parent directory, the data the reference index scans for
// (spec.md §3 Inline, §4.3).
func resolveLinks(line graph.Line, key graph.Key, refsExt string) graph.Line {
	if len(line) == 0 {
		return line
	}
	out := make(graph.Line, len(line))
	for i, in := range line {
		out[i] = resolveLinksInline(in, key, refsExt)
	}
	return out
}

func resolveLinksInline(in graph.Inline, key graph.Key, refsExt string) graph.Inline {
	out := in
	if in.Kind == graph.InlineLink && graph.IsReferenceURL(in.Target, refsExt) {
		out.IsRefLink = true
		out.RefKey = graph.KeyFromRelLinkURL(in.Target, key, refsExt)
	}
	if len(in.Children) > 0 {
		children := make([]graph.Inline, len(in.Children))
		for i, c := range in.Children {
			children[i] = resolveLinksInline(c, key, refsExt)
		}
		out.Children = children
	}
	return out
}
