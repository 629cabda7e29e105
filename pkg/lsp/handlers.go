package lsp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jlrickert/noteweave/pkg/action"
	"github.com/jlrickert/noteweave/pkg/export"
	"github.com/jlrickert/noteweave/pkg/graph"
	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/projector"
	"github.com/jlrickert/noteweave/pkg/workspace"
)

// Adapter is the thin shell over pkg/workspace the LSP's request routing
// calls into (spec.md §1, §5: "The LSP adapter and CLI are thin shells
// above C12/C14/C15"). One Adapter serves one workspace.
type Adapter struct {
	ws *workspace.Workspace
}

// New wraps ws for LSP-shaped requests.
func New(ws *workspace.Workspace) *Adapter {
	return &Adapter{ws: ws}
}

// DidChange implements textDocument/didChange: spec.md §4.10's
// `update_document(key, text)`, taking the workspace's exclusive borrow per
// §5/§9 Open Question (a).
func (a *Adapter) DidChange(ctx context.Context, key graph.Key, text []byte) error {
	return a.ws.UpdateDocument(ctx, key, text)
}

// DidSave is, for this engine, a no-op beyond whatever didChange already
// applied: the graph is already current and nothing besides markdown files
// is persisted (spec.md §6.4).
func (a *Adapter) DidSave(context.Context, graph.Key) error { return nil }

// DidChangeWatchedFiles re-reads key from disk and folds it into the
// graph — the non-editor-driven counterpart of DidChange, used when
// pkg/workspace.Watch's own fsnotify loop isn't running (e.g. a test
// harness driving the adapter directly).
func (a *Adapter) DidChangeWatchedFiles(ctx context.Context, key graph.Key, text []byte, removed bool) error {
	if removed {
		return a.ws.Apply(ctx, []patch.Change{{Kind: patch.Remove, Key: key}})
	}
	return a.ws.UpdateDocument(ctx, key, text)
}

// Formatting implements textDocument/formatting: spec.md §8's round-trip
// law `project(parse(c)) = normalize(c)`, returning a single edit replacing
// the whole document with its canonical projection.
func (a *Adapter) Formatting(ctx context.Context, key graph.Key) (*TextEdit, error) {
	g := a.ws.Graph()
	if !g.HasKey(key) {
		return nil, fmt.Errorf("lsp: %w: %s", graph.ErrKeyUnknown, key)
	}
	normalized, err := projector.Normalize(ctx, g, key, a.ws.Writer())
	if err != nil {
		return nil, err
	}
	return &TextEdit{NewText: normalized}, nil
}

// Definition implements textDocument/definition: the node at pos must be a
// block Reference, and the result is the target document's root range.
// Inline links inside a line are not resolved; such a position reports
// false.
func (a *Adapter) Definition(pos Position, key graph.Key) (graph.Key, Range, bool) {
	g := a.ws.Graph()
	id, ok := NodeAt(g, key, pos)
	if !ok {
		return "", Range{}, false
	}
	n := g.Arena().Node(id)
	target := graph.Key("")
	switch {
	case n.IsReference():
		target = n.RefKey
	default:
		return "", Range{}, false
	}
	root, ok := g.DocumentID(target)
	if !ok {
		return target, Range{}, false // dangling: spec.md §4.11
	}
	r, _ := rangeOf(g, root)
	return target, r, true
}

// References implements textDocument/references: every block and inline
// referrer of the document at key (or, when pos resolves to a Reference
// node itself, of that reference's own target).
func (a *Adapter) References(key graph.Key, pos Position) []graph.NodeID {
	g := a.ws.Graph()
	target := key
	if id, ok := NodeAt(g, key, pos); ok {
		if n := g.Arena().Node(id); n.IsReference() {
			target = n.RefKey
		}
	}
	out := g.RefIndex().BlockReferencesTo(g.Arena(), target)
	out = append(out, g.RefIndex().InlineReferencesTo(g.Arena(), target)...)
	return out
}

// PrepareRename validates that pos resolves to a renameable key, returning
// the resolvable key's current name, or ErrTargetNotLink when pos resolves
// to no node (an unknown key included) or to a node that is neither the
// document nor a Reference (spec.md §4.10 "TargetNotFound and TargetNotALink are recoverable
// (no-op)").
func (a *Adapter) PrepareRename(key graph.Key, pos Position) (graph.Key, error) {
	g := a.ws.Graph()
	id, ok := NodeAt(g, key, pos)
	if !ok {
		return "", graph.ErrTargetNotLink
	}
	n := g.Arena().Node(id)
	if n.IsDocument() {
		return n.Key, nil
	}
	if n.IsReference() {
		return n.RefKey, nil
	}
	return "", graph.ErrTargetNotLink
}

// Rename implements textDocument/rename: C14 run against the live graph,
// returned as a WorkspaceEdit. It does not apply the edit; the caller
// (transport layer) is responsible for confirming with the client and then
// calling Apply.
func (a *Adapter) Rename(ctx context.Context, key, newName graph.Key) (WorkspaceEdit, error) {
	changes, err := a.ws.Rename(ctx, key, newName)
	if err != nil {
		return WorkspaceEdit{}, err
	}
	return toWorkspaceEdit(changes), nil
}

// CodeAction implements textDocument/codeAction: every action applicable
// at (key, range) is surfaced as a CodeAction whose Data round-trips to
// codeAction/resolve, per spec.md §6.3.
func (a *Adapter) CodeAction(key graph.Key, r Range) []CodeAction {
	g := a.ws.Graph()
	id, ok := NodeAt(g, key, r.Start)
	if !ok {
		return nil
	}
	req := action.Request{Key: key, TargetID: id}
	handles := a.ws.Applicable(req)
	out := make([]CodeAction, 0, len(handles))
	for _, h := range handles {
		out = append(out, CodeAction{
			Title: h.Title,
			Kind:  string(h.Kind),
			Data:  CodeActionData{Key: key, Range: r},
		})
	}
	return out
}

// CodeActionResolve implements codeAction/resolve: re-derives the same
// cursor node from the round-tripped Data and produces the edit.
func (a *Adapter) CodeActionResolve(ctx context.Context, kind string, data CodeActionData) (WorkspaceEdit, error) {
	g := a.ws.Graph()
	id, ok := NodeAt(g, data.Key, data.Range.Start)
	if !ok {
		return WorkspaceEdit{}, graph.ErrTargetNotLink
	}
	req := action.Request{Key: data.Key, TargetID: id}
	changes, err := a.ws.Resolve(ctx, kind, req)
	if err != nil {
		return WorkspaceEdit{}, err
	}
	return toWorkspaceEdit(changes), nil
}

// Apply persists a previously computed WorkspaceEdit (from Rename or
// CodeActionResolve) by converting it back to patch.Change and delegating
// to the workspace.
func (a *Adapter) Apply(ctx context.Context, edit WorkspaceEdit) error {
	return a.ws.Apply(ctx, fromWorkspaceEdit(edit))
}

// DocumentSymbol implements textDocument/documentSymbol: every Section in
// key reachable through Section nesting, nested by containment, per
// SPEC_FULL's LineRange resolution. Sections inside lists or quotes are not
// listed.
func (a *Adapter) DocumentSymbol(key graph.Key) []DocumentSymbol {
	g := a.ws.Graph()
	root, ok := g.DocumentID(key)
	if !ok {
		return nil
	}
	return sectionSymbols(g, g.Arena().Node(root).Child)
}

func sectionSymbols(g *graph.Graph, id graph.NodeID) []DocumentSymbol {
	var out []DocumentSymbol
	for id.Valid() {
		n := g.Arena().Node(id)
		if n.IsSection() {
			r, _ := rangeOf(g, id)
			out = append(out, DocumentSymbol{
				Name:     lineText(g, n.Line),
				Kind:     "Section",
				Range:    r,
				Children: sectionSymbols(g, n.Child),
			})
		}
		id = n.Next
	}
	return out
}

func lineText(g *graph.Graph, lid graph.LineID) string {
	if !lid.Valid() {
		return ""
	}
	return g.Lines().GetLine(lid).PlainText()
}

// InlayHint implements textDocument/inlayHint: every live Reference in key
// gets a hint showing its resolved title when it differs from the link
// text rendered in source (e.g. the target's heading changed since the
// link was written).
func (a *Adapter) InlayHint(key graph.Key) []InlayHint {
	g := a.ws.Graph()
	root, ok := g.DocumentID(key)
	if !ok {
		return nil
	}
	var hints []InlayHint
	walkReferences(g, root, func(id graph.NodeID, n graph.GraphNode) {
		title := g.RefText(n.RefKey)
		if title == "" || title == n.RefText {
			return
		}
		r, ok := rangeOf(g, id)
		if !ok {
			return
		}
		hints = append(hints, InlayHint{Position: r.Start, Label: title})
	})
	return hints
}

// InlineValue implements textDocument/inlineValue: the squashed (depth 1)
// preview of each Reference, a quick "what does this link to" hover-style
// hint distinct from InlayHint's title correction.
func (a *Adapter) InlineValue(ctx context.Context, key graph.Key) ([]InlayHint, error) {
	g := a.ws.Graph()
	root, ok := g.DocumentID(key)
	if !ok {
		return nil, fmt.Errorf("lsp: %w: %s", graph.ErrKeyUnknown, key)
	}
	var hints []InlayHint
	var walkErr error
	walkReferences(g, root, func(id graph.NodeID, n graph.GraphNode) {
		if walkErr != nil {
			return
		}
		preview, err := export.Squash(ctx, g, a.ws.Writer(), n.RefKey, 1)
		if err != nil {
			walkErr = err
			return
		}
		r, ok := rangeOf(g, id)
		if !ok {
			return
		}
		hints = append(hints, InlayHint{Position: r.Start, Label: firstLine(preview)})
	})
	return hints, walkErr
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func walkReferences(g *graph.Graph, id graph.NodeID, visit func(graph.NodeID, graph.GraphNode)) {
	for id.Valid() {
		n := g.Arena().Node(id)
		if n.IsReference() {
			visit(id, n)
		}
		if n.IsContainer() && n.Child.Valid() {
			walkReferences(g, n.Child, visit)
		}
		id = n.Next
	}
}

// Completion implements textDocument/completion's "+" key list (spec.md
// §6.1 prompt_key_prefix): every key beginning with prefix, sorted by
// title. An empty prefix (after stripping the configured
// PromptKeyPrefix's own marker) lists every key.
func (a *Adapter) Completion(prefix string) []CompletionItem {
	g := a.ws.Graph()
	cfg := a.ws.Config()
	rest := prefix
	if cfg.PromptKeyPrefix != "" {
		if !strings.HasPrefix(prefix, cfg.PromptKeyPrefix) {
			return nil
		}
		rest = strings.TrimPrefix(prefix, cfg.PromptKeyPrefix)
	}
	keys := g.Keys()
	sort.Slice(keys, func(i, j int) bool { return g.RefText(keys[i]) < g.RefText(keys[j]) })
	out := make([]CompletionItem, 0, len(keys))
	for _, k := range keys {
		if !strings.HasPrefix(string(k), rest) {
			continue
		}
		out = append(out, CompletionItem{
			Label:  g.RefText(k),
			Detail: string(k),
			Key:    k,
		})
	}
	return out
}

// CompletionResolve implements completionItem/resolve: fills in Documentation
// with a depth-1 squashed preview of the target key, computed lazily so the
// initial completion list stays cheap.
func (a *Adapter) CompletionResolve(ctx context.Context, item CompletionItem) (CompletionItem, error) {
	g := a.ws.Graph()
	if !g.HasKey(item.Key) {
		return item, nil
	}
	preview, err := export.Squash(ctx, g, a.ws.Writer(), item.Key, 1)
	if err != nil {
		return item, err
	}
	item.Documentation = preview
	return item, nil
}

// WorkspaceSymbol implements workspace/symbol: every document key matching
// query (substring, case-insensitive against its rendered title).
func (a *Adapter) WorkspaceSymbol(query string) []CompletionItem {
	all := a.Completion(a.ws.Config().PromptKeyPrefix)
	if query == "" {
		return all
	}
	q := strings.ToLower(query)
	out := make([]CompletionItem, 0, len(all))
	for _, item := range all {
		if strings.Contains(strings.ToLower(item.Label), q) {
			out = append(out, item)
		}
	}
	return out
}

// ExecuteCommand implements workspace/executeCommand, dispatching on
// CommandType (spec.md §6.3). CommandGenerate invokes custom.transform's
// resolution directly for the named action id at req, bypassing the
// codeAction list/resolve round trip.
func (a *Adapter) ExecuteCommand(ctx context.Context, cmd CommandType, actionID string, key graph.Key, pos Position) (WorkspaceEdit, error) {
	if cmd != CommandGenerate {
		return WorkspaceEdit{}, fmt.Errorf("lsp: unknown command %q", cmd)
	}
	g := a.ws.Graph()
	id, ok := NodeAt(g, key, pos)
	if !ok {
		return WorkspaceEdit{}, graph.ErrTargetNotLink
	}
	changes, err := a.ws.Resolve(ctx, actionID, action.Request{Key: key, TargetID: id})
	if err != nil {
		return WorkspaceEdit{}, err
	}
	return toWorkspaceEdit(changes), nil
}

func toWorkspaceEdit(changes []patch.Change) WorkspaceEdit {
	edit := WorkspaceEdit{Changes: make(map[graph.Key]DocumentEdit, len(changes))}
	for _, c := range changes {
		switch c.Kind {
		case patch.Remove:
			edit.Changes[c.Key] = DocumentEdit{Removed: true}
		case patch.Create:
			edit.Changes[c.Key] = DocumentEdit{Created: true, Edits: []TextEdit{{NewText: c.Markdown}}}
		case patch.Update:
			edit.Changes[c.Key] = DocumentEdit{Edits: []TextEdit{{NewText: c.Markdown}}}
		}
	}
	return edit
}

func fromWorkspaceEdit(edit WorkspaceEdit) []patch.Change {
	out := make([]patch.Change, 0, len(edit.Changes))
	for key, doc := range edit.Changes {
		switch {
		case doc.Removed:
			out = append(out, patch.Change{Kind: patch.Remove, Key: key})
		case doc.Created:
			md := ""
			if len(doc.Edits) > 0 {
				md = doc.Edits[0].NewText
			}
			out = append(out, patch.Change{Kind: patch.Create, Key: key, Markdown: md})
		default:
			md := ""
			if len(doc.Edits) > 0 {
				md = doc.Edits[0].NewText
			}
			out = append(out, patch.Change{Kind: patch.Update, Key: key, Markdown: md})
		}
	}
	return out
}
