package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/pkg/patch"
)

// NewNewCmd implements `noteweave new` (spec.md §6.2): creates a note
// under the configured library path, disambiguating its key against
// existing documents.
func NewNewCmd(deps *Deps) *cobra.Command {
	var title, content, tmpl string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "create a new note",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := deps.Workspace
			md, err := ws.RenderNote(title, content, tmpl)
			if err != nil {
				return err
			}
			key := ws.ResolveNewKey(ws.NoteKey(title))
			if err := ws.Apply(cmd.Context(), []patch.Change{{Kind: patch.Create, Key: key, Markdown: md}}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title for the new note")
	cmd.Flags().StringVar(&content, "content", "", "body content for the new note")
	cmd.Flags().StringVar(&tmpl, "template", "", "document template, overriding the plain title/content rendering")
	cmd.MarkFlagRequired("title")
	return cmd
}
