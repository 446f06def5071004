// Package commands implements the CLI commands for the mason build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/build"
)

// CLI represents the command line interface for mason.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(ctx context.Context, opts app.ConfigureOptions) (int, error)
	Build(ctx context.Context, opts app.BuildOptions) (int, error)
	Test(ctx context.Context, opts app.TestOptions) (int, error)
	Watch(ctx context.Context, opts app.WatchOptions) error
	Cache(ctx context.Context, opts app.CacheOptions) (int, error)
	Kits(ctx context.Context, opts app.KitsOptions) (int, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "mason",
		Short:         "A configure and build front end for CMake projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newConfigureCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newTestCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newKitsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// addSelectionFlags registers the kit, variant and preset overrides shared by
// the session commands.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("kit", "k", "", "Override the active kit")
	cmd.Flags().String("variant", "", "Override the active variant")
	cmd.Flags().StringP("preset", "p", "", "Configure from the named preset")
}

func selectionFromFlags(cmd *cobra.Command) app.SelectionOptions {
	kit, _ := cmd.Flags().GetString("kit")
	variant, _ := cmd.Flags().GetString("variant")
	preset, _ := cmd.Flags().GetString("preset")
	return app.SelectionOptions{
		Kit:     kit,
		Variant: variant,
		Preset:  preset,
	}
}

func addOutputModeFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, rich, or plain")
}

// exitCode maps a nonzero operation status to an error for main.
func exitCode(code int) error {
	if code == 0 {
		return nil
	}
	return &app.ExitError{Code: code}
}
