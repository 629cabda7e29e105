package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/pkg/paths"
)

// NewPathsCmd implements `noteweave paths` (spec.md §6.2): every
// root-to-leaf traversal through the note graph.
func NewPathsCmd(deps *Deps) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "list every root-to-leaf path through the note graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range paths.Enumerate(deps.Workspace.Graph(), depth) {
				fmt.Fprintln(cmd.OutOrStdout(), p.String())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "cross-document reference hop bound")
	return cmd
}
