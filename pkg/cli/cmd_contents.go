package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/pkg/export"
)

// NewContentsCmd implements `noteweave contents` (spec.md §6.2): the
// table of contents, every document key and its rendered title.
func NewContentsCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "contents",
		Short: "list every document key and its rendered title",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := deps.Workspace
			out, err := export.Contents(cmd.Context(), ws.Graph(), ws.Writer())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
