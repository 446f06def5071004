package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show the configured cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			advanced, _ := cmd.Flags().GetBool("advanced")

			code, err := c.app.Cache(cmd.Context(), app.CacheOptions{
				Selection: selectionFromFlags(cmd),
				Advanced:  advanced,
			})
			if err != nil {
				return err
			}
			return exitCode(code)
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().BoolP("advanced", "a", false, "Include advanced cache entries")
	return cmd
}
