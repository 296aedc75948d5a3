package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"foreman/pkg/orch"
)

var logCmd = &cobra.Command{
	Use:   "log <unit> <action>",
	Short: "Prints the stored toolchain output for a unit and action",
	Long: `Logs are persisted per (unit, action) pair, so the full output of a failed
build, test or lint run can be inspected after the orchestration has
finished.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := cmd.Flags().GetString("root")
		if err != nil {
			return err
		}

		root, err = filepath.Abs(root)
		if err != nil {
			return err
		}

		cfg, err := orch.LoadConfig(root)
		if err != nil {
			return err
		}

		action := orch.Action(args[1])
		switch action {
		case orch.ActionBuild, orch.ActionTest, orch.ActionLint:
		default:
			return eris.Errorf("unknown action %s (expected build, test or lint)", args[1])
		}

		logs, err := orch.NewLogStore(filepath.Join(root, cfg.CacheDir))
		if err != nil {
			return err
		}

		content, err := logs.Get(args[0], action)
		if err != nil {
			return err
		}

		if info, err := logs.ReadRunInfo(); err == nil {
			fmt.Printf("run %s (%s, started %s)\n", info.ID, info.Action, info.Started.Format("2006-01-02 15:04:05"))
		}

		fmt.Print(content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
