package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/pkg/export"
)

// NewStatsCmd implements `noteweave stats` (spec.md §6.2): document,
// section, and reference counts, orphans, and the most-referenced
// documents.
func NewStatsCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "print workspace statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			rendered, err := export.Compute(deps.Workspace.Graph()).Render()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}
