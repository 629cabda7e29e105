package cli

import (
	"github.com/spf13/cobra"

	"github.com/jlrickert/noteweave/pkg/workspace"
)

// NewInitCmd implements `noteweave init` (spec.md §6.2): writes a fresh
// `.iwe/config.toml` under the current directory with built-in defaults.
func NewInitCmd(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "write a fresh .iwe/config.toml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := deps.Runtime.Getwd()
			if err != nil {
				return err
			}
			return workspace.Init(deps.Runtime, wd)
		},
	}
}
