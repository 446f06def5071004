package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
)

func (c *CLI) newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the project's tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outputMode, _ := cmd.Flags().GetString("output-mode")

			code, err := c.app.Test(cmd.Context(), app.TestOptions{
				Selection:  selectionFromFlags(cmd),
				OutputMode: outputMode,
			})
			if err != nil {
				return err
			}
			return exitCode(code)
		},
	}
	addSelectionFlags(cmd)
	addOutputModeFlag(cmd)
	return cmd
}
