package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/pkg/export"
	"github.com/jlrickert/noteweave/pkg/graph"
)

// NewExportCmd implements `noteweave export` (spec.md §6.2): renders
// graphviz DOT source for the whole graph, or the neighborhood of --key
// when given.
func NewExportCmd(deps *Deps) *cobra.Command {
	var key string
	var depth int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "render graphviz DOT source for the note graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			var k *graph.Key
			if key != "" {
				kk := graph.Key(key)
				k = &kk
			}
			fmt.Fprint(cmd.OutOrStdout(), export.DOT(deps.Workspace.Graph(), k, depth))
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "scope the export to this document's neighborhood")
	cmd.Flags().IntVar(&depth, "depth", 1, "outgoing reference hops to include when --key is set")
	return cmd
}
