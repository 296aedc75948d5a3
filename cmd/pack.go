package cmd

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"foreman/pkg/archive"
	"foreman/pkg/orch"
)

var packCmd = &cobra.Command{
	Use:   "pack <unit>",
	Short: "Packages a unit's build artifacts into a compressed archive",
	Long: `Packs the artifact directory of a previously built unit into a tarball.
The compression is chosen by the output extension: .tar.br, .tar.xz or
.tar.gz. The unit has to be built first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := cmd.Flags().GetString("root")
		if err != nil {
			return err
		}

		out, err := cmd.Flags().GetString("out")
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

		unit := args[0]
		artifactDir := filepath.Join(root, cfg.CacheDir, "artifacts", unit, orch.ModeNormal.String())
		_, err = os.Stat(artifactDir)
		if err != nil {
			return eris.Wrapf(err, "No build artifacts for %s, run `foreman build %s` first", unit, unit)
		}

		if out == "" {
			out = filepath.Join(root, cfg.CacheDir, "dist", unit+".tar.br")
		}

		err = os.MkdirAll(filepath.Dir(out), 0o755)
		if err != nil {
			return eris.Wrapf(err, "Failed to create %s", filepath.Dir(out))
		}

		return archive.Pack(out, artifactDir)
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().StringP("out", "o", "", "archive destination (default <cache>/dist/<unit>.tar.br)")
}
