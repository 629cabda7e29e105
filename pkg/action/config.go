package action

import "github.com/jlrickert/noteweave/pkg/graph"

// Config is one entry of the workspace's `actions.<id>` table (spec.md
// §6.1): an identifier, the catalog Kind it instantiates, and that kind's
// parameters. Only the fields a given Kind reads are meaningful; the rest
// are zero. Built at config-load time and injected into Catalog once, so
// the custom.* resolvers stay pure functions of (graph, config, request).
type Config struct {
	ID    string
	Kind  Kind
	Title string

	// KeyTemplate names the new document custom.extract/extract_all/link
	// create, and the attach target custom.attach appends into.
	KeyTemplate string

	// DocumentTemplate seeds a freshly created document's title when
	// custom.attach's target doesn't already exist.
	DocumentTemplate string

	// PromptTemplate is custom.transform's prompt, rendered with
	// {{.Context}}, {{.UpdateStart}}, {{.UpdateEnd}}.
	PromptTemplate string

	// Model names an entry in the catalog's model table, for
	// custom.transform.
	Model string

	// LinkType is the Reference link style custom.extract/extract_all/
	// link/attach create.
	LinkType graph.ReferenceType

	// Reverse sorts custom.sort descending instead of ascending.
	Reverse bool
}
