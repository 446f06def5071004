package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
)

func (c *CLI) newKitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kits",
		Short: "List the kits defined for this project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identify, _ := cmd.Flags().GetBool("identify")

			code, err := c.app.Kits(cmd.Context(), app.KitsOptions{
				Identify: identify,
			})
			if err != nil {
				return err
			}
			return exitCode(code)
		},
	}
	cmd.Flags().BoolP("identify", "i", false, "Run each compiler once to report its family and version")
	return cmd
}
