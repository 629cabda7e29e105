// Package mdwriter is the concrete, pluggable markdown.Writer (C10's
// collaborator): it serializes a markdown.Block tree to canonical markdown
// text, implementing the rendering rules from spec.md §4.6 (list hanging
// indent/sparsity, quote prefixing, table grid, autolink folding).
package mdwriter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
)

// Writer is the default markdown.Writer.
type Writer struct{}

// New returns a Writer.
func New() *Writer { return &Writer{} }

// Write implements markdown.Writer.
func (w *Writer) Write(ctx context.Context, blocks []markdown.Block) (string, error) {
	parts := renderBlocks(blocks)
	return strings.Join(parts, "\n\n"), nil
}

func renderBlocks(blocks []markdown.Block) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, renderBlock(b))
	}
	return out
}

func renderBlock(b markdown.Block) string {
	switch b.Kind {
	case markdown.BlockHeader:
		return strings.Repeat("#", max(b.Level, 1)) + " " + renderLine(b.Inlines)
	case markdown.BlockParagraph:
		return renderLine(b.Inlines)
	case markdown.BlockQuote:
		return renderQuote(b)
	case markdown.BlockBulletList:
		return renderList(b, false)
	case markdown.BlockOrderedList:
		return renderList(b, true)
	case markdown.BlockCodeBlock:
		return "```" + b.Lang + "\n" + b.Content + "\n```"
	case markdown.BlockThematicBreak:
		return "---"
	case markdown.BlockTable:
		return renderTable(b)
	default:
		return ""
	}
}

func renderQuote(b markdown.Block) string {
	body := strings.Join(renderBlocks(b.Children), "\n\n")
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + l
		}
	}
	return strings.Join(lines, "\n")
}

func renderList(b markdown.Block, ordered bool) string {
	sparse := false
	for _, item := range b.Children {
		count := 0
		for _, c := range item.Children {
			if c.IsParagraphClass() {
				count++
			}
		}
		if count > 1 {
			sparse = true
		}
	}

	width := len(strconv.Itoa(len(b.Children)))
	var lines []string
	for i, item := range b.Children {
		var marker string
		if ordered {
			marker = fmt.Sprintf("%*d. ", width, i+1)
		} else {
			marker = "- "
		}
		body := strings.Join(renderBlocks(item.Children), "\n\n")
		lines = append(lines, indentItem(marker, body))
	}
	sep := "\n"
	if sparse {
		sep = "\n\n"
	}
	return strings.Join(lines, sep)
}

func indentItem(marker, body string) string {
	pad := strings.Repeat(" ", len(marker))
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		if i == 0 {
			lines[i] = marker + l
		} else if l == "" {
			lines[i] = ""
		} else {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

func renderTable(b markdown.Block) string {
	cols := renderCells(b.TableHeader)
	rows := make([][]string, len(b.TableRows))
	for i, r := range b.TableRows {
		rows[i] = renderCells(r)
	}

	n := len(cols)
	widths := make([]int, n)
	for i, c := range cols {
		widths[i] = max(widths[i], len(c))
	}
	for _, r := range rows {
		for i, c := range r {
			if i < n {
				widths[i] = max(widths[i], len(c))
			}
		}
	}
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	var b2 strings.Builder
	b2.WriteString(gridRow(cols, widths))
	b2.WriteString("\n")
	b2.WriteString(sepRow(b.TableAlign, widths))
	for _, r := range rows {
		b2.WriteString("\n")
		b2.WriteString(gridRow(r, widths))
	}
	return b2.String()
}

func renderCells(cells []graph.Line) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = renderLine(c)
	}
	return out
}

func gridRow(cells []string, widths []int) string {
	var b strings.Builder
	b.WriteString("|")
	for i, c := range cells {
		w := 3
		if i < len(widths) {
			w = widths[i]
		}
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(strings.Repeat(" ", max(0, w-len(c))))
		b.WriteString(" |")
	}
	return b.String()
}

func sepRow(align []graph.ColumnAlignment, widths []int) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range widths {
		a := graph.AlignNone
		if i < len(align) {
			a = align[i]
		}
		b.WriteString(" ")
		b.WriteString(alignCell(a, w))
		b.WriteString(" |")
	}
	return b.String()
}

func alignCell(a graph.ColumnAlignment, w int) string {
	switch a {
	case graph.AlignLeft:
		return ":" + strings.Repeat("-", max(1, w-1))
	case graph.AlignRight:
		return strings.Repeat("-", max(1, w-1)) + ":"
	case graph.AlignCenter:
		if w < 2 {
			return "::"
		}
		return ":" + strings.Repeat("-", max(0, w-2)) + ":"
	default:
		return strings.Repeat("-", w)
	}
}

// renderLine renders a single inline sequence to markdown text.
func renderLine(l graph.Line) string {
	var b strings.Builder
	for _, in := range l {
		b.WriteString(renderInline(in))
	}
	return b.String()
}

func renderInline(in graph.Inline) string {
	switch in.Kind {
	case graph.InlineStr:
		return in.Text
	case graph.InlineCode:
		return "`" + in.Text + "`"
	case graph.InlineMath:
		return "$" + in.Text + "$"
	case graph.InlineRaw:
		return in.Text
	case graph.InlineSpace:
		return " "
	case graph.InlineSoftBreak:
		return "\n"
	case graph.InlineLineBreak:
		return "  \n"
	case graph.InlineEmph:
		return "*" + renderChildren(in) + "*"
	case graph.InlineStrong:
		return "**" + renderChildren(in) + "**"
	case graph.InlineUnderline:
		return "__" + renderChildren(in) + "__"
	case graph.InlineStrikeout:
		return "~~" + renderChildren(in) + "~~"
	case graph.InlineSuperscript:
		return "^" + renderChildren(in) + "^"
	case graph.InlineSubscript:
		return "~" + renderChildren(in) + "~"
	case graph.InlineSmallCaps:
		return renderChildren(in)
	case graph.InlineLink:
		return renderLink(in)
	case graph.InlineImage:
		return "![" + renderChildren(in) + "](" + in.Target + ")"
	default:
		return renderChildren(in)
	}
}

func renderChildren(in graph.Inline) string {
	var b strings.Builder
	for _, c := range in.Children {
		b.WriteString(renderInline(c))
	}
	return b.String()
}

// renderLink applies the link-type-specific serialization from spec.md
// §4.6: Regular links whose text equals the URL, ASCII case-insensitively,
// render as an autolink; wikilinks use "[[key]]"/"[[key|text]]".
func renderLink(in graph.Inline) string {
	text := renderChildren(in)
	switch in.LinkType {
	case graph.LinkWiki:
		return "[[" + in.Target + "]]"
	case graph.LinkWikiPiped:
		return "[[" + in.Target + "|" + text + "]]"
	default:
		same := !in.IsRefLink && len(text) == len(in.Target)
		for i := 0; same && i < len(text); i++ {
			a, b := text[i], in.Target[i]
			if a != b && !(a|0x20 == b|0x20 && 'a' <= a|0x20 && a|0x20 <= 'z') {
				same = false
			}
		}
		if same {
			return "<" + in.Target + ">"
		}
		title := ""
		if in.Title != "" {
			title = ` "` + in.Title + `"`
		}
		return "[" + text + "](" + in.Target + title + ")"
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
