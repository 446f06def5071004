package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reconfigure whenever a configure input changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputMode, _ := cmd.Flags().GetString("output-mode")

			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Selection:  selectionFromFlags(cmd),
				OutputMode: outputMode,
			})
		},
	}
	addSelectionFlags(cmd)
	addOutputModeFlag(cmd)
	return cmd
}
