package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"foreman/pkg/orch"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the units discovered below the workspace root",
	Args:  cobra.NoArgs,
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

		units, err := orch.DiscoverUnits(root, cfg)
		if err != nil {
			return err
		}

		if len(units) == 0 {
			fmt.Printf("No units found below %s\n", root)
			return nil
		}

		fmt.Println("Discovered units:")
		maxNameLen := 0
		for _, unit := range units {
			if len(unit.Name) > maxNameLen {
				maxNameLen = len(unit.Name)
			}
		}

		lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
		for _, unit := range units {
			details := ""
			if len(unit.Features) > 0 {
				details = "features: " + strings.Join(unit.Features, ", ")
			}
			fmt.Printf(lineFmt, unit.Name+":", details)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
