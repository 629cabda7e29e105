// Package lsp is the language-server adapter (spec.md §1's "LSP wire loop
// and request routing ... an adapter that translates protocol messages
// into core operations" collaborator, §6.3). It does not speak the LSP
// wire protocol itself (that framing — JSON-RPC headers, the request
// dispatch table — is the out-of-scope wire loop spec.md names); it
// exposes one Go method per recognized method name, taking and returning
// plain Go types an actual transport layer (not part of this module)
// would marshal to/from the protocol's JSON shapes.
package lsp

import (
	"github.com/jlrickert/noteweave/pkg/graph"
)

// Position is a zero-based line/character pair, LSP's own convention.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open [Start, End) span of Positions.
type Range struct {
	Start Position
	End   Position
}

// TextDocumentIdentifier names the document a request targets by its
// workspace-relative key (already stripped of scheme/root by the transport
// layer before it reaches this package).
type TextDocumentIdentifier struct {
	Key graph.Key
}

// CodeActionData is the `data` payload spec.md §6.3 says "round-trips
// `{ key, range }` between the list and resolve phases": codeAction
// returns a CodeAction carrying this, and codeAction/resolve is handed it back
// unchanged by the client.
type CodeActionData struct {
	Key   graph.Key
	Range Range
}

// CodeAction is one entry in a textDocument/codeAction response: a title
// and the identifier codeAction/resolve needs to produce edits.
type CodeAction struct {
	Title string
	Kind  string // the catalog action.Kind string, reused as the LSP CodeActionKind
	Data  CodeActionData
}

// TextEdit is one replacement within a document, LSP's own edit shape.
type TextEdit struct {
	Range   Range
	NewText string
}

// WorkspaceEdit maps a key to the file-level effect resolving an action or
// a rename produced for it: a full-document replacement, a deletion, or a
// brand new file — the LSP counterpart of patch.Change.
type WorkspaceEdit struct {
	Changes map[graph.Key]DocumentEdit
}

// DocumentEdit is one key's effect within a WorkspaceEdit.
type DocumentEdit struct {
	Created bool
	Removed bool
	Edits   []TextEdit // a single whole-document replacement (its Range left zero) when Created/neither
}

// DocumentSymbol is one entry of textDocument/documentSymbol: a Section,
// nested the way Section containment nests.
type DocumentSymbol struct {
	Name     string
	Kind     string
	Range    Range
	Children []DocumentSymbol
}

// InlayHint is one hint textDocument/inlayHint attaches to a position —
// here, a reference's resolved title when it differs from its link text.
type InlayHint struct {
	Position Position
	Label    string
}

// CompletionItem is one entry of textDocument/completion's "+"
// completion-list (spec.md §6.1 `prompt_key_prefix`): a document key
// offered as a link target, labeled with its rendered title.
type CompletionItem struct {
	Label         string
	Detail        string
	Key           graph.Key
	Documentation string
}

// CommandType is workspace/executeCommand's dispatch tag (spec.md §6.3).
type CommandType string

// CommandGenerate is the one named CommandType spec.md's "dispatches on a
// CommandType enum (Generate, …)" calls out explicitly; it invokes
// custom.transform's LLM call-out directly (outside the code-action flow)
// against the given request.
const CommandGenerate CommandType = "Generate"

// ClientName values the editor detection in NormalizeRange switches on.
const ClientNameHelix = "helix"
