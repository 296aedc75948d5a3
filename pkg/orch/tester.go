package orch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Exit codes the shell reserves for "could not invoke the command"; those
// are execution errors rather than test failures.
const (
	exitNotExecutable = 126
	exitNotFound      = 127
)

// ShellTester runs a unit's test suite through the portable shell
// interpreter with the snapshot environment applied.
type ShellTester struct {
	Root   string
	Config Config
	Logs   *LogStore
}

// RunTests executes the unit's test command and captures exit code plus
// combined output. The snapshot variables are always set: with
// EnvConfig.UpdateSnapshots disabled a diverging snapshot fails the run
// instead of rewriting the stored reference. An error wrapping ErrExecution
// means the suite could not be invoked at all, which is distinct from a
// test failure (clean invocation, nonzero exit code).
func (t *ShellTester) RunTests(ctx context.Context, unit Unit, build BuildResult, env EnvConfig) (TestOutcome, error) {
	outcome := TestOutcome{Unit: unit, ExitCode: -1}

	if !build.Success {
		return outcome, eris.Errorf("unit %s has no successful build", unit.Name)
	}

	fixture := filepath.Join(t.Root, t.Config.InputsDir, unit.Name+".txt")
	_, err := os.Stat(fixture)
	if err != nil && !unit.HasFeature(t.Config.NoInputFeature) {
		// Not papered over: the suite is expected to fail without its
		// fixture unless the unit was built for that.
		log(ctx).Warn().
			Str("unit", unit.Name).
			Msgf("fixture %s is missing", fixture)
	}

	workspaceRoot := env.WorkspaceRoot
	if workspaceRoot == "" {
		workspaceRoot = t.Root
	}

	updateValue := t.Config.Snapshots.DisabledValue
	if env.UpdateSnapshots {
		updateValue = t.Config.Snapshots.EnabledValue
	}

	envVars := toolEnv(t.Config,
		fmt.Sprintf("%s=%s", t.Config.Snapshots.UpdateVar, updateValue),
		fmt.Sprintf("%s=%s", t.Config.Snapshots.WorkspaceVar, workspaceRoot),
		fmt.Sprintf("%s=%s", t.Config.Tools.ArtifactVar, build.ArtifactDir),
	)

	script := renderCommand(t.Config.Tools.Test, t.Config, unit)
	log(ctx).Info().
		Str("unit", unit.Name).
		Bool("command", true).
		Msg(script)

	exitCode, output, err := runScript(ctx, unit.Name+":test", unit.Path, script, envVars)
	outcome.ExitCode = exitCode
	outcome.Log = output

	if logErr := t.Logs.Put(unit.Name, ActionTest, output); logErr != nil {
		log(ctx).Warn().Err(logErr).Str("unit", unit.Name).Msg("failed to persist log")
	}

	if err != nil {
		return outcome, eris.Wrapf(err, "Failed to invoke test suite for %s", unit.Name)
	}

	if exitCode == exitNotFound || exitCode == exitNotExecutable {
		return outcome, eris.Wrapf(ErrExecution, "test command for %s exited with %d", unit.Name, exitCode)
	}

	return outcome, nil
}
