package export

import (
	"sort"
	"strings"
	"text/template"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/paths"
)

// docStat is one entry in a "top N documents by X" table.
type docStat struct {
	Name  string
	Count int
}

// Statistics is the per-graph breakdown spec.md §6.2's `stats` command
// renders, reproducing the original implementation's stats.rs node-kind
// histogram / fan-out / fan-in / orphan breakdown (SPEC_FULL.md
// SUPPLEMENTED FEATURES) rather than a single line count.
type Statistics struct {
	TotalDocuments int
	TotalNodes     int
	TotalPaths     int

	TotalSections     int
	AvgSectionsPerDoc float64
	TopDocsBySections []docStat

	BlockReferences    int
	InlineReferences   int
	TotalReferences    int
	OrphanedDocuments  int
	OrphanedPercentage float64
	LeafDocuments      int
	LeafPercentage     float64
	TopReferenced      []docStat

	BulletLists int
	OrderedLists int
	CodeBlocks   int
	Tables       int
	Quotes       int

	MaxPathDepth int
	AvgPathDepth float64

	AvgRefsPerDoc  float64
	MostConnected  []docStat
}

// Compute builds Statistics by scanning every node in g's arena once plus
// a single Paths.Enumerate call, grounded on the original implementation's
// GraphStatistics::from_graph.
func Compute(g *graph.Graph) Statistics {
	keys := g.Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	totalDocuments := len(keys)

	allPaths := paths.Enumerate(g, 0)

	var totalNodes, totalSections int
	var blockReferences, inlineReferences int
	var bulletLists, orderedLists, codeBlocks, tables, quotes int
	docSections := map[graph.Key]int{}

	for id, n := range g.Arena().Nodes() {
		if n.IsEmpty() {
			continue
		}
		totalNodes++
		switch n.Kind {
		case graph.KindSection:
			totalSections++
			if doc, ok := g.SurroundingDocument(graph.NodeID(id)); ok {
				docSections[doc]++
			}
		case graph.KindReference:
			blockReferences++
		case graph.KindBulletList:
			bulletLists++
		case graph.KindOrderedList:
			orderedLists++
		case graph.KindRaw:
			codeBlocks++
		case graph.KindTable:
			tables++
		case graph.KindQuote:
			quotes++
		}
		if n.HasLine() {
			inlineReferences += countInlineRefs(g.Lines().GetLine(n.Line))
		}
	}

	incoming := map[graph.Key]int{}
	outgoing := map[graph.Key]int{}
	for _, k := range keys {
		in := len(g.RefIndex().BlockReferencesTo(g.Arena(), k)) + len(g.RefIndex().InlineReferencesTo(g.Arena(), k))
		if in > 0 {
			incoming[k] = in
		}
		if out := len(outgoingBlockRefKeys(g, k)); out > 0 {
			outgoing[k] = out
		}
	}

	orphaned := totalDocuments - len(incoming)
	leaf := totalDocuments - len(outgoing)

	connected := map[graph.Key]int{}
	for _, k := range keys {
		total := incoming[k] + outgoing[k]
		if total > 0 {
			connected[k] = total
		}
	}

	maxDepth, sumDepth := 0, 0
	for _, p := range allPaths {
		d := len(p.Nodes)
		if d > maxDepth {
			maxDepth = d
		}
		sumDepth += d
	}

	avg := func(n, d int) float64 {
		if d == 0 {
			return 0
		}
		return float64(n) / float64(d)
	}

	return Statistics{
		TotalDocuments: totalDocuments,
		TotalNodes:     totalNodes,
		TotalPaths:     len(allPaths),

		TotalSections:     totalSections,
		AvgSectionsPerDoc: avg(totalSections, totalDocuments),
		TopDocsBySections: topN(g, docSections, 10),

		BlockReferences:    blockReferences,
		InlineReferences:   inlineReferences,
		TotalReferences:    blockReferences + inlineReferences,
		OrphanedDocuments:  orphaned,
		OrphanedPercentage: avg(orphaned*100, totalDocuments),
		LeafDocuments:      leaf,
		LeafPercentage:     avg(leaf*100, totalDocuments),
		TopReferenced:      topN(g, incoming, 10),

		BulletLists:  bulletLists,
		OrderedLists: orderedLists,
		CodeBlocks:   codeBlocks,
		Tables:       tables,
		Quotes:       quotes,

		MaxPathDepth: maxDepth,
		AvgPathDepth: avg(sumDepth, len(allPaths)),

		AvgRefsPerDoc: avg(blockReferences+inlineReferences, totalDocuments),
		MostConnected: topN(g, connected, 10),
	}
}

// countInlineRefs counts the reference-resolved Link inlines in line,
// descending into nested inline children (emphasis, strong, etc.), the
// same traversal graph.RefIndex's inlineRefTargets uses.
func countInlineRefs(line graph.Line) int {
	var n int
	var walk func(in graph.Inline)
	walk = func(in graph.Inline) {
		if in.Kind == graph.InlineLink && in.IsRefLink {
			n++
		}
		for _, c := range in.Children {
			walk(c)
		}
	}
	for _, in := range line {
		walk(in)
	}
	return n
}

func topN(g *graph.Graph, counts map[graph.Key]int, n int) []docStat {
	var keys []graph.Key
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	out := make([]docStat, len(keys))
	for i, k := range keys {
		out[i] = docStat{Name: g.RefText(k), Count: counts[k]}
	}
	return out
}

const statsTemplate = `# Graph Statistics

## Overview

- **Total documents:** {{.TotalDocuments}}
- **Total nodes:** {{.TotalNodes}}
- **Total paths:** {{.TotalPaths}}

## Document Statistics

- **Total sections:** {{.TotalSections}}
- **Average sections/doc:** {{printf "%.2f" .AvgSectionsPerDoc}}
{{if .TopDocsBySections}}
### Top Documents by Sections
{{range $i, $e := .TopDocsBySections}}
{{add1 $i}}. **{{$e.Name}}** ({{$e.Count}} sections){{end}}
{{end}}
## Reference Statistics

- **Block references:** {{.BlockReferences}}
- **Inline references:** {{.InlineReferences}}
- **Total references:** {{.TotalReferences}}
- **Orphaned documents:** {{.OrphanedDocuments}} ({{printf "%.1f" .OrphanedPercentage}}%)
- **Leaf documents:** {{.LeafDocuments}} ({{printf "%.1f" .LeafPercentage}}%)
{{if .TopReferenced}}
### Top Referenced Documents
{{range $i, $e := .TopReferenced}}
{{add1 $i}}. **{{$e.Name}}** ({{$e.Count}}){{end}}
{{end}}
## Structure Statistics

- **Bullet lists:** {{.BulletLists}}
- **Ordered lists:** {{.OrderedLists}}
- **Code blocks:** {{.CodeBlocks}}
- **Tables:** {{.Tables}}
- **Quotes:** {{.Quotes}}
- **Maximum path depth:** {{.MaxPathDepth}}
- **Average path depth:** {{printf "%.2f" .AvgPathDepth}}

## Network Analysis

- **Average references/doc:** {{printf "%.2f" .AvgRefsPerDoc}}
{{if .MostConnected}}
### Most Connected Documents
{{range $i, $e := .MostConnected}}
{{add1 $i}}. **{{$e.Name}}** ({{$e.Count}} connections){{end}}
{{end}}`

var statsTmpl = template.Must(template.New("stats").Funcs(template.FuncMap{
	"add1": func(i int) int { return i + 1 },
}).Parse(statsTemplate))

// Render renders s as markdown (spec.md §6.2's `stats`).
func (s Statistics) Render() (string, error) {
	var b strings.Builder
	if err := statsTmpl.Execute(&b, s); err != nil {
		return "", err
	}
	return b.String(), nil
}
