// Package goldmarkreader is the concrete, pluggable markdown.Reader (C4)
// backed by github.com/yuin/goldmark. It turns source bytes into the flat
// markdown.Document block tree the sections builder consumes, including a
// front-matter pre-extraction pass and a wikilink pre-normalization pass,
// following the same "scan raw bytes before handing off to the parser"
// shape the reference CLI's pkg/keg/content.go uses for its own
// frontmatter extraction.
package goldmarkreader

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Reader is the default markdown.Reader.
type Reader struct {
	md goldmark.Markdown
}

// New returns a Reader configured with the table extension and automatic
// heading IDs, mirroring what the reference CLI's content parsing enables.
func New() *Reader {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &Reader{md: md}
}

var frontMatterRe = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n?`)

// wikiLinkRe matches [[key]] or [[key|text]], rewritten before parsing into
// a regular markdown link with a reserved "wikilink:" / "wikilinkpiped:"
// scheme so goldmark's normal link machinery produces the AST node; the
// inline converter strips the marker back off.
var wikiLinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]*))?\]\]`)

const (
	wikiScheme      = "wikilink:"
	wikiPipedScheme = "wikilinkpiped:"
)

// Parse implements markdown.Reader.
func (r *Reader) Parse(ctx context.Context, source []byte) (*markdown.Document, error) {
	meta, body := extractFrontMatter(source)
	normalized := normalizeWikiLinks(body)

	reader := text.NewReader(normalized)
	root := r.md.Parser().Parse(reader)

	blocks := convertChildren(root, normalized)
	return &markdown.Document{Metadata: meta, Blocks: blocks}, nil
}

func extractFrontMatter(source []byte) (string, []byte) {
	m := frontMatterRe.FindSubmatch(source)
	if m == nil {
		return "", source
	}
	rest := source[len(m[0]):]
	return normalizeFrontMatter(m[1]), rest
}

// normalizeFrontMatter round-trips raw through a yaml.Node, the same
// comment/formatting-preserving approach the reference CLI's
// pkg/keg/meta.go ParseMeta uses, before storing it as the document's
// opaque metadata text. Front-matter spec.md §8 calls "preserved verbatim"
// that isn't valid YAML is kept exactly as written rather than rejected —
// the engine's own concern is markdown structure, not config validation.
func normalizeFrontMatter(raw []byte) string {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return string(raw)
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return string(raw)
	}
	return strings.TrimRight(string(out), "\n")
}

func normalizeWikiLinks(source []byte) []byte {
	return wikiLinkRe.ReplaceAllFunc(source, func(match []byte) []byte {
		sub := wikiLinkRe.FindSubmatch(match)
		key := string(sub[1])
		if len(sub[2]) > 0 || bytes.Contains(match, []byte("|")) {
			text := string(sub[2])
			return []byte("[" + text + "](" + wikiPipedScheme + key + ")")
		}
		return []byte("[" + key + "](" + wikiScheme + key + ")")
	})
}

func lineOf(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte("\n"))
}

func nodeRange(n gast.Node, source []byte) (int, int) {
	lines := n.Lines()
	if lines.Len() == 0 {
		return 0, 0
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return lineOf(source, first.Start), lineOf(source, last.Stop) + 1
}

func convertChildren(parent gast.Node, source []byte) []markdown.Block {
	var out []markdown.Block
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if b, ok := convertBlock(c, source); ok {
			out = append(out, b)
		}
	}
	return out
}

func convertBlock(n gast.Node, source []byte) (markdown.Block, bool) {
	start, end := nodeRange(n, source)
	switch v := n.(type) {
	case *gast.Heading:
		return markdown.Block{
			Kind: markdown.BlockHeader, Level: v.Level,
			Inlines: convertInlines(v, source), StartLine: start, EndLine: end,
		}, true
	case *gast.Paragraph:
		return markdown.Block{
			Kind: markdown.BlockParagraph, Inlines: convertInlines(v, source),
			StartLine: start, EndLine: end,
		}, true
	case *gast.TextBlock:
		return markdown.Block{
			Kind: markdown.BlockParagraph, Inlines: convertInlines(v, source),
			StartLine: start, EndLine: end,
		}, true
	case *gast.Blockquote:
		return markdown.Block{
			Kind: markdown.BlockQuote, Children: convertChildren(v, source),
			StartLine: start, EndLine: end,
		}, true
	case *gast.List:
		kind := markdown.BlockBulletList
		if v.IsOrdered() {
			kind = markdown.BlockOrderedList
		}
		return markdown.Block{
			Kind: kind, Children: convertChildren(v, source),
			StartLine: start, EndLine: end,
		}, true
	case *gast.ListItem:
		return markdown.Block{
			Kind: markdown.BlockListItem, Children: convertChildren(v, source),
			StartLine: start, EndLine: end,
		}, true
	case *gast.FencedCodeBlock:
		lang := string(v.Language(source))
		return markdown.Block{
			Kind: markdown.BlockCodeBlock, Lang: lang, Content: codeBlockText(v, source),
			StartLine: start, EndLine: end,
		}, true
	case *gast.CodeBlock:
		return markdown.Block{
			Kind: markdown.BlockCodeBlock, Content: codeBlockText(v, source),
			StartLine: start, EndLine: end,
		}, true
	case *gast.ThematicBreak:
		return markdown.Block{Kind: markdown.BlockThematicBreak, StartLine: start, EndLine: end}, true
	case *extast.Table:
		return convertTable(v, source, start, end), true
	default:
		return markdown.Block{}, false
	}
}

func codeBlockText(n gast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func convertTable(t *extast.Table, source []byte, start, end int) markdown.Block {
	var header []graph.Line
	var align []graph.ColumnAlignment
	var rows [][]graph.Line

	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *extast.TableHeader:
			header = cellsOf(row, source)
			align = alignmentsOf(row)
		case *extast.TableRow:
			rows = append(rows, cellsOf(row, source))
		}
	}
	return markdown.Block{
		Kind: markdown.BlockTable, TableHeader: header, TableAlign: align, TableRows: rows,
		StartLine: start, EndLine: end,
	}
}

func alignmentsOf(row gast.Node) []graph.ColumnAlignment {
	var out []graph.ColumnAlignment
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cell, ok := c.(*extast.TableCell)
		if !ok {
			continue
		}
		switch cell.Alignment {
		case extast.AlignLeft:
			out = append(out, graph.AlignLeft)
		case extast.AlignRight:
			out = append(out, graph.AlignRight)
		case extast.AlignCenter:
			out = append(out, graph.AlignCenter)
		default:
			out = append(out, graph.AlignNone)
		}
	}
	return out
}

// cellsOf returns one Line per table cell, matching graph.GraphNode's
// HeaderLines/RowLines shape (one LineID per column, §3 Table).
func cellsOf(row gast.Node, source []byte) []graph.Line {
	var out []graph.Line
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, convertInlineChildren(c, source))
	}
	return out
}

func convertInlines(n gast.Node, source []byte) graph.Line {
	return convertInlineChildren(n, source)
}

func convertInlineChildren(parent gast.Node, source []byte) graph.Line {
	var out graph.Line
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, convertInline(c, source)...)
	}
	return out
}

func convertInline(n gast.Node, source []byte) []graph.Inline {
	switch v := n.(type) {
	case *gast.Text:
		txt := string(v.Segment.Value(source))
		var out []graph.Inline
		if txt != "" {
			out = append(out, graph.Str(txt))
		}
		if v.SoftLineBreak() {
			out = append(out, graph.Inline{Kind: graph.InlineSoftBreak})
		}
		if v.HardLineBreak() {
			out = append(out, graph.Inline{Kind: graph.InlineLineBreak})
		}
		return out
	case *gast.String:
		return []graph.Inline{graph.Str(string(v.Value))}
	case *extast.Strikethrough:
		return []graph.Inline{{Kind: graph.InlineStrikeout, Children: convertInlineChildren(v, source)}}
	case *gast.Emphasis:
		kind := graph.InlineEmph
		if v.Level >= 2 {
			kind = graph.InlineStrong
		}
		return []graph.Inline{{Kind: kind, Children: convertInlineChildren(v, source)}}
	case *gast.CodeSpan:
		return []graph.Inline{{Kind: graph.InlineCode, Text: string(v.Text(source))}}
	case *gast.Link:
		return []graph.Inline{convertLink(v, source)}
	case *gast.AutoLink:
		url := string(v.URL(source))
		return []graph.Inline{{Kind: graph.InlineLink, Target: url, LinkType: graph.LinkRegular,
			Children: []graph.Inline{graph.Str(url)}}}
	case *gast.Image:
		return []graph.Inline{{
			Kind: graph.InlineImage, Target: string(v.Destination), Title: string(v.Title),
			Children: convertInlineChildren(v, source),
		}}
	case *gast.RawHTML:
		var b strings.Builder
		segs := v.Segments
		for i := 0; i < segs.Len(); i++ {
			b.Write(segs.At(i).Value(source))
		}
		return []graph.Inline{{Kind: graph.InlineRaw, Text: b.String()}}
	default:
		return convertInlineChildren(n, source)
	}
}

func convertLink(v *gast.Link, source []byte) graph.Inline {
	dest := string(v.Destination)
	lt := graph.LinkRegular
	switch {
	case strings.HasPrefix(dest, wikiPipedScheme):
		lt = graph.LinkWikiPiped
		dest = strings.TrimPrefix(dest, wikiPipedScheme)
	case strings.HasPrefix(dest, wikiScheme):
		lt = graph.LinkWiki
		dest = strings.TrimPrefix(dest, wikiScheme)
	}
	return graph.Inline{
		Kind: graph.InlineLink, Target: dest, Title: string(v.Title), LinkType: lt,
		Children: convertInlineChildren(v, source),
	}
}
