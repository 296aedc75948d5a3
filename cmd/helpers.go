package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/aidarkhanov/nanoid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"foreman/pkg/orch"
)

func newContext(debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug || os.Getenv("FOREMAN_DEBUG") != "" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(NewConsoleWriter()).Level(level)
	return orch.WithLogger(context.Background(), &logger)
}

func getProgressBar(length int64, desc string) *progressbar.ProgressBar {
	if os.Getenv("CI") == "true" {
		return progressbar.NewOptions64(length, progressbar.OptionSetVisibility(false))
	}

	return progressbar.Default(length, desc)
}

// setupOrchestrator resolves the workspace root, loads the configuration
// and wires the shell toolchain drivers together.
func setupOrchestrator(cmd *cobra.Command, updateSnapshots bool) (*orch.Orchestrator, context.Context, error) {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return nil, nil, err
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, nil, err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return nil, nil, err
	}

	timeoutRaw, err := cmd.Flags().GetString("timeout")
	if err != nil {
		return nil, nil, err
	}

	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, nil, err
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return nil, nil, eris.Wrap(err, "Failed to resolve workspace root")
	}

	cfg, err := orch.LoadConfig(root)
	if err != nil {
		return nil, nil, err
	}

	if timeoutRaw != "" {
		timeout, err := time.ParseDuration(timeoutRaw)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "invalid timeout %q", timeoutRaw)
		}
		cfg.Timeout = orch.Duration(timeout)
	}

	logs, err := orch.NewLogStore(filepath.Join(root, cfg.CacheDir))
	if err != nil {
		return nil, nil, err
	}

	runID := nanoid.New()
	orc := &orch.Orchestrator{
		Root:   root,
		Config: cfg,
		Builder: &orch.ShellBuilder{
			Root:   root,
			Config: cfg,
			Logs:   logs,
			RunID:  runID,
			Force:  force,
		},
		Tester: &orch.ShellTester{
			Root:   root,
			Config: cfg,
			Logs:   logs,
		},
		Logs:  logs,
		RunID: runID,
		Jobs:  jobs,
		Env: orch.EnvConfig{
			UpdateSnapshots: updateSnapshots,
			WorkspaceRoot:   root,
		},
	}

	var bar *progressbar.ProgressBar
	orc.OnStart = func(total int) {
		if total > 1 {
			bar = getProgressBar(int64(total), "units")
		}
	}
	orc.OnUnitDone = func(orch.Unit, bool) {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return orc, newContext(debug), nil
}

// runAction executes the given action over all units (or the one named as
// the first positional argument) and exits the process with the first
// nonzero exit code on failure.
func runAction(cmd *cobra.Command, args []string, action orch.Action, updateSnapshots bool) error {
	orc, ctx, err := setupOrchestrator(cmd, updateSnapshots)
	if err != nil {
		return err
	}

	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}

	code, err := orc.RunAll(ctx, action, filter)
	if err != nil {
		return err
	}

	if code != 0 {
		os.Exit(code)
	}
	return nil
}
