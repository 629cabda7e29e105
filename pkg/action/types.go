package action

import "github.com/jlrickert/noteweave/pkg/graph"

// Kind identifies one catalog entry (spec.md §4.8's identifier column).
type Kind string

const (
	KindExtractSection         Kind = "refactor.extract.section"
	KindExtractSubsections     Kind = "refactor.extract.subsections"
	KindExtractList            Kind = "refactor.extract.list"
	KindRewriteListSection     Kind = "refactor.rewrite.list.section"
	KindRewriteListType        Kind = "refactor.rewrite.list.type"
	KindRewriteSectionList     Kind = "refactor.rewrite.section.list"
	KindInlineReferenceSection Kind = "refactor.inline.reference.section"
	KindInlineReferenceQuote   Kind = "refactor.inline.reference.quote"
	KindInlineReferenceList    Kind = "refactor.inline.reference.list"
	KindDelete                 Kind = "refactor.delete"
	KindCustomAttach           Kind = "custom.attach"
	KindCustomSort             Kind = "custom.sort"
	KindCustomExtract          Kind = "custom.extract"
	KindCustomExtractAll       Kind = "custom.extract_all"
	KindCustomLink             Kind = "custom.link"
	KindCustomTransform        Kind = "custom.transform"
)

// Handle is what Applicable returns: spec.md §4.8's "Action handle (title,
// kind identifier, target id)".
type Handle struct {
	Kind     Kind
	Title    string
	TargetID graph.NodeID
}

// Request identifies the cursor/selection an action is queried or resolved
// at. TargetID is the node the LSP adapter's range-to-node mapping
// resolved the cursor to (that mapping is the adapter's concern, not the
// core's). Selected is the plain-text selection, used only by custom.link.
type Request struct {
	Key      graph.Key
	TargetID graph.NodeID
	Selected string
}
