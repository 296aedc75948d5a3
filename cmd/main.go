package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "foreman",
	Short: "Build orchestration for multi-unit workspaces",
	Long: `This command discovers the independently buildable units below a workspace
root (one manifest file per subdirectory) and builds, tests or lints each of
them in isolation, stopping at the first failure.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("root", "r", ".", "workspace root to scan for units")
	rootCmd.PersistentFlags().IntP("jobs", "j", 1, "number of units to process concurrently")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "always run the toolchain even if a unit is unchanged")
	rootCmd.PersistentFlags().String("timeout", "", "per-unit timeout (e.g. 10m), overrides the configured value")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
