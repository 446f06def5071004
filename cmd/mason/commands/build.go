package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build the project, configuring first when needed",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputMode, _ := cmd.Flags().GetString("output-mode")

			code, err := c.app.Build(cmd.Context(), app.BuildOptions{
				Selection:  selectionFromFlags(cmd),
				OutputMode: outputMode,
				Targets:    args,
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
