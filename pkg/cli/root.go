package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/internal/obslog"
	"github.com/jlrickert/noteweave/pkg/llm"
	"github.com/jlrickert/noteweave/pkg/workspace"
)

// NewRootCmd builds the root cobra command and wires persistent flags,
// following the teacher's Deps + PersistentPreRunE pattern
// (pkg/cli/root_cmd.go): the workspace is opened once, here, and every
// subcommand reads it back off deps rather than re-resolving it.
func NewRootCmd(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = &Deps{}
	}
	if deps.LLM == nil {
		deps.LLM = llm.NewHTTPFunc(nil)
	}

	cmd := &cobra.Command{
		Use:           "noteweave",
		Short:         "query and refactor an interlinked-notes workspace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if deps.Runtime == nil {
				return fmt.Errorf("runtime is required")
			}

			var out *os.File = os.Stderr
			if deps.LogFile != "" {
				f, err := os.OpenFile(deps.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				out = f
			}
			lg := obslog.NewLogger(obslog.Config{
				Version: Version,
				Out:     out,
				Level:   obslog.ParseLevel(deps.LogLevel),
				JSON:    deps.LogJSON,
			})
			ctx := obslog.ContextWithLogger(cmd.Context(), lg)
			cmd.SetContext(ctx)

			// `init` runs before a workspace exists; every other command
			// needs one opened against the current directory.
			if cmd.Name() == "init" {
				return nil
			}
			wd, err := deps.Runtime.Getwd()
			if err != nil {
				return err
			}
			ws, err := workspace.Open(ctx, deps.Runtime, wd, deps.LLM)
			if err != nil {
				return err
			}
			deps.Workspace = ws
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&deps.LogFile, "log-file", "", "write logs to file (default stderr)")
	cmd.PersistentFlags().StringVar(&deps.LogLevel, "log-level", "info", "minimum log level")
	cmd.PersistentFlags().BoolVar(&deps.LogJSON, "log-json", false, "output logs as JSON")

	cmd.AddCommand(
		NewInitCmd(deps),
		NewNormalizeCmd(deps),
		NewPathsCmd(deps),
		NewContentsCmd(deps),
		NewSquashCmd(deps),
		NewExportCmd(deps),
		NewStatsCmd(deps),
		NewNewCmd(deps),
	)

	return cmd
}
