package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/tree"
)

// dotSection is one graphviz node: a Section somewhere in the scoped
// document set, tagged with the document it belongs to and the
// reference-hop budget that was left when that document was first reached
// (the full depth for the focus key itself, one less per hop, and 0 for
// every document when no focus key is given).
type dotSection struct {
	id       graph.NodeID
	title    string
	key      graph.Key
	keyDepth int
}

type dotEdge struct {
	from, to graph.NodeID
}

// DOT renders graphviz source for g (spec.md §6.2 `export`). key, when
// non-nil, scopes the export to its neighborhood: documents reachable by
// following outgoing block references up to depth hops; key == nil exports
// every document at depth 0. Node-kind-sensitive styling follows the
// original implementation's export_dot.rs (documents as filled box
// clusters, sections as plain labeled nodes, references as dashed edges)
// per SPEC_FULL.md's SUPPLEMENTED FEATURES.
func DOT(g *graph.Graph, key *graph.Key, depth int) string {
	scope := scopeKeys(g, key, depth)

	sections := map[graph.NodeID]dotSection{}
	subsections := []dotEdge{}
	references := []dotEdge{}
	clusters := map[graph.Key][]graph.NodeID{}

	var keys []graph.Key
	for k := range scope {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		rootID, ok := g.DocumentID(k)
		if !ok {
			continue
		}
		doc := tree.Collect(g, rootID)
		collectSections(g, doc, k, scope[k], &sections, &subsections, &references, clusters)
	}

	var b strings.Builder
	b.WriteString(dotOpening)
	writeNodes(&b, sections)
	writeClusters(&b, keys, clusters)
	writeEdges(&b, subsections, false)
	writeEdges(&b, references, true)
	b.WriteString("}\n")
	return b.String()
}

const dotOpening = `digraph G {
  graph [rankdir=LR fontname="Verdana" fontsize=13 nodesep=0.7 splines=polyline overlap=false];
  node [style="filled,rounded" fillcolor="#ffffff" fontname="Verdana" fontsize=11 shape=box color="#b3b3b3" penwidth=1.5];
  edge [color="#38546c66" arrowhead=normal penwidth=1.2];

`

// scopeKeys returns the set of document keys in scope for the export and
// the reference-hop budget left when each was first reached (depth for the
// focus key, one less per hop). A nil key exports every document at depth 0.
func scopeKeys(g *graph.Graph, key *graph.Key, depth int) map[graph.Key]int {
	out := map[graph.Key]int{}
	if key == nil {
		for _, k := range g.Keys() {
			out[k] = 0
		}
		return out
	}
	if !g.HasKey(*key) {
		return out
	}
	var walk func(k graph.Key, d int)
	walk = func(k graph.Key, d int) {
		if _, seen := out[k]; seen {
			return
		}
		out[k] = d
		if d <= 0 {
			return
		}
		for _, rk := range outgoingBlockRefKeys(g, k) {
			if g.HasKey(rk) {
				walk(rk, d-1)
			}
		}
	}
	walk(*key, depth)
	return out
}

func outgoingBlockRefKeys(g *graph.Graph, k graph.Key) []graph.Key {
	rootID, ok := g.DocumentID(k)
	if !ok {
		return nil
	}
	var out []graph.Key
	var walk func(t *tree.Tree)
	walk = func(t *tree.Tree) {
		if t.Kind == graph.KindReference {
			out = append(out, t.Key)
			return
		}
		for _, c := range t.Children {
			walk(c)
		}
	}
	walk(tree.Collect(g, rootID))
	return out
}

func collectSections(
	g *graph.Graph,
	t *tree.Tree,
	key graph.Key,
	keyDepth int,
	sections *map[graph.NodeID]dotSection,
	subsections *[]dotEdge,
	references *[]dotEdge,
	clusters map[graph.Key][]graph.NodeID,
) {
	for _, c := range t.Children {
		if c.IsList() {
			continue
		}
		if c.IsSection() && c.ID != nil {
			(*sections)[*c.ID] = dotSection{id: *c.ID, title: c.PlainText(), key: key, keyDepth: keyDepth}
			clusters[key] = append(clusters[key], *c.ID)
			if t.ID != nil {
				*subsections = append(*subsections, dotEdge{from: *t.ID, to: *c.ID})
			}
			collectSections(g, c, key, keyDepth, sections, subsections, references, clusters)
		}
		if c.Kind == graph.KindReference && t.ID != nil {
			if targetRoot, ok := targetFirstNode(g, c.Key); ok {
				*references = append(*references, dotEdge{from: *t.ID, to: targetRoot})
			}
		}
	}
}

// targetFirstNode returns the first content node under key's document root,
// the same node export_dot.rs's reference edges point at (the referenced
// section itself, not its owning document root).
func targetFirstNode(g *graph.Graph, key graph.Key) (graph.NodeID, bool) {
	root, ok := g.DocumentID(key)
	if !ok {
		return graph.NoNode, false
	}
	child := g.Arena().Node(root).Child
	if !child.Valid() {
		return graph.NoNode, false
	}
	return child, true
}

func writeNodes(b *strings.Builder, sections map[graph.NodeID]dotSection) {
	var ids []graph.NodeID
	for id := range sections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s := sections[id]
		fmt.Fprintf(b, "  n%d [label=%q];\n", id, escapeDotLabel(s.title))
	}
	b.WriteString("\n")
}

func writeClusters(b *strings.Builder, keys []graph.Key, clusters map[graph.Key][]graph.NodeID) {
	for i, k := range keys {
		nodes := clusters[k]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(b, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(b, "    label=%q; style=\"filled,rounded\"; labeljust=\"l\";\n", k)
		for _, id := range nodes {
			fmt.Fprintf(b, "    n%d;\n", id)
		}
		b.WriteString("  }\n")
	}
	b.WriteString("\n")
}

func writeEdges(b *strings.Builder, edges []dotEdge, dashed bool) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	for _, e := range edges {
		if dashed {
			fmt.Fprintf(b, "  n%d -> n%d [style=dashed];\n", e.from, e.to)
		} else {
			fmt.Fprintf(b, "  n%d -> n%d;\n", e.from, e.to)
		}
	}
}

func escapeDotLabel(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", " ", "\r", " ", "\t", " ")
	return r.Replace(s)
}
