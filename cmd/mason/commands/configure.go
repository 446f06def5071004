package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
)

func (c *CLI) newConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure [-- cmake-args...]",
		Short: "Configure the project",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputMode, _ := cmd.Flags().GetString("output-mode")
			fromCache, _ := cmd.Flags().GetBool("from-cache")

			code, err := c.app.Configure(cmd.Context(), app.ConfigureOptions{
				Selection:  selectionFromFlags(cmd),
				OutputMode: outputMode,
				ExtraArgs:  args,
				FromCache:  fromCache,
			})
			if err != nil {
				return err
			}
			return exitCode(code)
		},
	}
	addSelectionFlags(cmd)
	addOutputModeFlag(cmd)
	cmd.Flags().Bool("from-cache", false, "Reuse an existing configuration instead of running the tool")
	return cmd
}
