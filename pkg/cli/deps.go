// Package cli is the batch CLI (spec.md §6.2): one thin cobra shell over
// pkg/workspace, following the teacher's Deps + PersistentPreRunE pattern
// (pkg/cli/root_cmd.go) rather than its context-smuggled alternative
// (pkg/cli/root.go) — explicit dependency injection makes every command
// testable against a workspace built over an in-memory fs, the same
// reasoning the teacher's own Deps variant states in its doc comment.
package cli

import (
	"github.com/jlrickert/cli-toolkit/toolkit"

	"github.com/jlrickert/noteweave/pkg/llm"
	"github.com/jlrickert/noteweave/pkg/workspace"
)

// Version is stamped into the logger the same way the teacher's Deps.
var Version = "dev"

// Deps carries every external collaborator a command needs, resolved once
// in the root command's PersistentPreRunE and shared by every subcommand.
type Deps struct {
	Runtime *toolkit.Runtime
	LLM     llm.Func

	LogFile  string
	LogLevel string
	LogJSON  bool

	Workspace *workspace.Workspace
}
