package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild [target]",
		Short: "Clean and build from scratch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Rebuild(cmd.Context(), buildOptions(cmd, args))
		},
	}
}
