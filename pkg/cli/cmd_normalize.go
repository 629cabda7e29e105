package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/pkg/patch"
	"github.com/jlrickert/noteweave/pkg/projector"
)

// NewNormalizeCmd implements `noteweave normalize` (spec.md §6.2, §8's
// round-trip law `project(parse(c)) = normalize(c)`): rewrites every
// document to its canonical projection in place.
func NewNormalizeCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "rewrite every document to its canonical projected form",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws := deps.Workspace
			g := ws.Graph()
			keys := g.Keys()
			sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

			changes := make([]patch.Change, 0, len(keys))
			for _, key := range keys {
				md, err := projector.Normalize(ctx, g, key, ws.Writer())
				if err != nil {
					return err
				}
				changes = append(changes, patch.Change{Kind: patch.Update, Key: key, Markdown: md})
			}
			return ws.Apply(ctx, changes)
		},
	}
}
