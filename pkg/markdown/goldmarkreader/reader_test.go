package goldmarkreader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/markdown"
)

func TestParseExtractsAndNormalizesFrontMatter(t *testing.T) {
	src := "---\ntitle:   hello\ntags: [a, b]\n---\n# Heading\n"
	doc, err := New().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	require.Contains(t, doc.Metadata, "title: hello")
	require.Contains(t, doc.Metadata, "tags:")
	require.NotContains(t, doc.Metadata, "---")

	require.Len(t, doc.Blocks, 1)
	require.Equal(t, markdown.BlockHeader, doc.Blocks[0].Kind)
}

func TestParseFallsBackVerbatimOnMalformedFrontMatter(t *testing.T) {
	src := "---\n: : not: valid: yaml: [\n---\nbody\n"
	doc, err := New().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Equal(t, ": : not: valid: yaml: [", doc.Metadata)
	require.Len(t, doc.Blocks, 1)
}

func TestParseWithoutFrontMatter(t *testing.T) {
	doc, err := New().Parse(context.Background(), []byte("plain body\n"))
	require.NoError(t, err)
	require.Empty(t, doc.Metadata)
	require.Len(t, doc.Blocks, 1)
	require.Equal(t, markdown.BlockParagraph, doc.Blocks[0].Kind)
}

func TestParseConvertsWikiLinks(t *testing.T) {
	doc, err := New().Parse(context.Background(), []byte("see [[other-note]] and [[other-note|custom text]]\n"))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)

	var links []graph.Inline
	for _, in := range doc.Blocks[0].Inlines {
		if in.Kind == graph.InlineLink {
			links = append(links, in)
		}
	}
	require.Len(t, links, 2)

	require.Equal(t, graph.LinkWiki, links[0].LinkType)
	require.Equal(t, "other-note", links[0].Target)

	require.Equal(t, graph.LinkWikiPiped, links[1].LinkType)
	require.Equal(t, "other-note", links[1].Target)
	require.Len(t, links[1].Children, 1)
	require.Equal(t, "custom text", links[1].Children[0].Text)
}

func TestParseRegularLinkIsUnaffected(t *testing.T) {
	doc, err := New().Parse(context.Background(), []byte("see [example](https://example.com)\n"))
	require.NoError(t, err)

	var link graph.Inline
	for _, in := range doc.Blocks[0].Inlines {
		if in.Kind == graph.InlineLink {
			link = in
		}
	}
	require.Equal(t, graph.LinkRegular, link.LinkType)
	require.Equal(t, "https://example.com", link.Target)
}

func TestParseCodeBlockAndTable(t *testing.T) {
	src := "```go\nfmt.Println(1)\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	doc, err := New().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	require.Equal(t, markdown.BlockCodeBlock, doc.Blocks[0].Kind)
	require.Equal(t, "go", doc.Blocks[0].Lang)
	require.Equal(t, "fmt.Println(1)", doc.Blocks[0].Content)

	require.Equal(t, markdown.BlockTable, doc.Blocks[1].Kind)
	require.Len(t, doc.Blocks[1].TableHeader, 2)
	require.Len(t, doc.Blocks[1].TableRows, 1)
}

func TestParseListMarksSparsityInput(t *testing.T) {
	src := "- one\n- two\n"
	doc, err := New().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	require.Equal(t, markdown.BlockBulletList, doc.Blocks[0].Kind)
	require.Len(t, doc.Blocks[0].Children, 2)
	for _, item := range doc.Blocks[0].Children {
		require.Equal(t, markdown.BlockListItem, item.Kind)
	}
}
