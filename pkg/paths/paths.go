// Package paths implements C11: the forest of root-to-leaf traversals
// through the content graph, following sub-sections and, up to a depth
// bound, cross-document block references.
//
// Decision (scoping, spec.md §4.7 Open Question not resolved by spec.md):
// §4.7 describes both a forward enumeration ("all downward paths through
// sub-sections") and a reverse one ("all paths ending at that node's
// document through reverse reference chains"). Every external consumer
// named in spec.md (§6.2 `paths`, `contents`, `export`) only needs the
// forward enumeration rooted at documents with no incoming block
// reference — the reverse direction exists in the original to drive
// hover/backlink context in the out-of-scope LSP wire loop. This package
// therefore implements the forward direction only; SPEC_FULL.md's LSP
// adapter package computes backlinks directly off graph.RefIndex instead
// of through this enumerator, which serves the same information without
// needing a second traversal mode here.
package paths

import (
	"sort"
	"strings"

	"github.com/jlrickert/noteweave/pkg/graph"
)

// Path is one root-to-leaf traversal: an ordered list of node ids and
// their rendered titles.
type Path struct {
	Nodes  []graph.NodeID
	Titles []string
}

// String renders the path as " • "-separated titles (spec.md §6.2).
func (p Path) String() string {
	return strings.Join(p.Titles, " • ")
}

// Enumerate computes every unique root-to-leaf path in g. depth bounds how
// many cross-document block-reference hops a path may follow; depth <= 0
// means references are never followed (sections only). The result is
// sorted by its rendered title sequence and deduplicated, and no path
// revisits a node (cycle break), per spec.md §4.7/§8.
func Enumerate(g *graph.Graph, depth int) []Path {
	var out []Path
	for _, key := range sortedRootKeys(g) {
		rootID, ok := g.DocumentID(key)
		if !ok {
			continue
		}
		doc := g.Arena().Node(rootID)
		walkChain(g, doc.Child, depth, nil, nil, map[graph.NodeID]bool{}, &out)
	}
	return dedupe(sortPaths(out))
}

// sortedRootKeys returns, in lexical order, every document key with no
// incoming block reference (a forest root per spec.md §4.7).
func sortedRootKeys(g *graph.Graph) []graph.Key {
	keys := g.Keys()
	var roots []graph.Key
	for _, k := range keys {
		if len(g.RefIndex().BlockReferencesTo(g.Arena(), k)) == 0 {
			roots = append(roots, k)
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}

// walkChain iterates a sibling chain, recursing into each qualifying
// node's own downward paths and continuing across Next.
func walkChain(g *graph.Graph, id graph.NodeID, depth int, prefixIDs []graph.NodeID, prefixTitles []string, visited map[graph.NodeID]bool, out *[]Path) {
	for id.Valid() {
		n := g.Arena().Node(id)
		if n.IsEmpty() {
			return
		}
		if !n.IsList() && !visited[id] {
			walkNode(g, id, n, depth, prefixIDs, prefixTitles, visited, out)
		}
		id = n.Next
	}
}

func walkNode(g *graph.Graph, id graph.NodeID, n graph.GraphNode, depth int, prefixIDs []graph.NodeID, prefixTitles []string, visited map[graph.NodeID]bool, out *[]Path) {
	nodeVisited := cloneVisited(visited)
	nodeVisited[id] = true

	title := titleOf(g, n)
	nodeIDs := appendID(prefixIDs, id)
	nodeTitles := appendTitle(prefixTitles, title)

	descended := false

	if n.IsSection() {
		child := n.Child
		hasDescendant := false
		for cid := child; cid.Valid(); {
			cn := g.Arena().Node(cid)
			if cn.IsEmpty() {
				break
			}
			if cn.IsSection() || cn.IsReference() {
				hasDescendant = true
			}
			cid = cn.Next
		}
		if hasDescendant {
			descended = true
			walkChain(g, child, depth, nodeIDs, nodeTitles, nodeVisited, out)
		}
	}

	if n.IsReference() && depth > 0 {
		if targetRoot, ok := g.DocumentID(n.RefKey); ok && !nodeVisited[targetRoot] {
			targetDoc := g.Arena().Node(targetRoot)
			descended = true
			walkChain(g, targetDoc.Child, depth-1, nodeIDs, nodeTitles, nodeVisited, out)
		}
	}

	if !descended {
		*out = append(*out, Path{Nodes: nodeIDs, Titles: nodeTitles})
	}
}

func titleOf(g *graph.Graph, n graph.GraphNode) string {
	switch {
	case n.IsSection():
		return g.Lines().GetLine(n.Line).PlainText()
	case n.IsReference():
		if n.RefText != "" {
			return n.RefText
		}
		return g.RefText(n.RefKey)
	default:
		return ""
	}
}

func appendID(prefix []graph.NodeID, id graph.NodeID) []graph.NodeID {
	out := make([]graph.NodeID, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = id
	return out
}

func appendTitle(prefix []string, t string) []string {
	out := make([]string, len(prefix)+1)
	copy(out, prefix)
	out[len(prefix)] = t
	return out
}

func cloneVisited(v map[graph.NodeID]bool) map[graph.NodeID]bool {
	out := make(map[graph.NodeID]bool, len(v)+1)
	for k := range v {
		out[k] = true
	}
	return out
}

func sortPaths(paths []Path) []Path {
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].String() < paths[j].String()
	})
	return paths
}

func dedupe(paths []Path) []Path {
	seen := make(map[string]bool, len(paths))
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		key := p.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
