package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/pkg/export"
	"github.com/jlrickert/noteweave/pkg/graph"
)

// NewSquashCmd implements `noteweave squash <key>` (spec.md §6.2): renders
// key with its referenced documents inlined up to --depth levels.
func NewSquashCmd(deps *Deps) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "squash <key>",
		Short: "render a document with its references inlined",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := deps.Workspace
			out, err := export.Squash(cmd.Context(), ws.Graph(), ws.Writer(), graph.Key(args[0]), depth)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 1, "how many levels of referenced documents to inline")
	return cmd
}
