// Package commands implements the CLI commands for the bob build tool.
package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/bob/internal/app"
	"go.trai.ch/bob/internal/build"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for bob.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bob",
		Short:         "An incremental, parallel build tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.PersistentFlags().StringP("directory", "C", "", "Change to this directory before doing anything")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "Number of parallel jobs (default: one per CPU)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log the discovered task list before building")

	// Registered after --verbose so the version flag stays long-only.
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("directory")
		if dir == "" {
			return nil
		}
		if err := os.Chdir(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to change directory"), "dir", dir)
		}
		return nil
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newRebuildCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	// Bare invocation builds the default target.
	rootCmd.RunE = c.newBuildCmd().RunE

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

func buildOptions(cmd *cobra.Command, args []string) app.BuildOptions {
	jobs, _ := cmd.Flags().GetInt("jobs")
	verbose, _ := cmd.Flags().GetBool("verbose")
	opts := app.BuildOptions{Jobs: jobs, Verbose: verbose}
	if len(args) > 0 {
		opts.Target = args[0]
	}
	return opts
}
