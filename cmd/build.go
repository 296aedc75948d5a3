package cmd

import (
	"github.com/spf13/cobra"

	"foreman/pkg/orch"
)

var buildCmd = &cobra.Command{
	Use:   "build [unit]",
	Short: "Builds every unit, or just the named one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, args, orch.ActionBuild, false)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
