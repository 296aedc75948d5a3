package cmd

import (
	"github.com/spf13/cobra"

	"foreman/pkg/orch"
)

var lintCmd = &cobra.Command{
	Use:   "lint [unit]",
	Short: "Runs the static analysis pass with warnings promoted to errors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, args, orch.ActionLint, false)
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
