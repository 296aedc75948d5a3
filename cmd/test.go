package cmd

import (
	"github.com/spf13/cobra"

	"foreman/pkg/orch"
)

var testCmd = &cobra.Command{
	Use:   "test [unit]",
	Short: "Builds and tests every unit, or just the named one",
	Long: `Each unit is built first and its test suite only runs after a successful
build. Snapshot updates are disabled by default so automated runs never
rewrite checked-in reference output; pass --update-snapshots to regenerate
snapshots on purpose.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		update, err := cmd.Flags().GetBool("update-snapshots")
		if err != nil {
			return err
		}

		return runAction(cmd, args, orch.ActionTest, update)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
	testCmd.Flags().BoolP("update-snapshots", "u", false, "overwrite mismatched snapshots instead of failing")
}
