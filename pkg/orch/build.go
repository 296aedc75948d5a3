package orch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

// ShellBuilder drives the configured build toolchain through the portable
// shell interpreter. Artifacts land in a per-unit, per-mode directory under
// the cache dir so no two units ever share a cache key.
type ShellBuilder struct {
	Root   string
	Config Config
	Logs   *LogStore
	RunID  string
	// Force disables the stamp check and always reruns the toolchain.
	Force bool
}

func (b *ShellBuilder) artifactDir(unit Unit, mode Mode) string {
	return filepath.Join(b.Root, b.Config.CacheDir, "artifacts", unit.Name, mode.String())
}

// Build compiles the unit (ModeNormal) or runs the static analysis pass
// with warnings promoted to errors (ModeLint). Toolchain output is captured
// into the result and persisted in the log store keyed by (unit, action).
// A compile or lint failure is reported through BuildResult.Success; the
// error return is reserved for invocations that never completed.
func (b *ShellBuilder) Build(ctx context.Context, unit Unit, mode Mode) (BuildResult, error) {
	action := mode.Action()
	result := BuildResult{Unit: unit, Mode: mode}

	newest, err := newestSource(unit.Path)
	if err != nil {
		return result, err
	}

	stampFile := stampPath(filepath.Join(b.Root, b.Config.CacheDir), unit, mode)
	if !b.Force {
		stamp, err := readStamp(stampFile)
		if err == nil && !newest.After(stamp.NewestSource) {
			log(ctx).Info().
				Str("unit", unit.Name).
				Msgf("nothing to do (%s is up to date)", action)

			result.Success = true
			result.Cached = true
			if mode == ModeNormal {
				result.ArtifactDir = b.artifactDir(unit, mode)
			}
			return result, nil
		}
		if err != nil && !eris.Is(err, os.ErrNotExist) {
			return result, eris.Wrapf(err, "Failed to read stamp for %s", unit.Name)
		}
	}

	tmpl := b.Config.Tools.Build
	if mode == ModeLint {
		tmpl = b.Config.Tools.Lint
	}
	script := renderCommand(tmpl, b.Config, unit)

	log(ctx).Info().
		Str("unit", unit.Name).
		Bool("command", true).
		Msg(script)

	env := toolEnv(b.Config,
		fmt.Sprintf("%s=%s", b.Config.Tools.ArtifactVar, b.artifactDir(unit, mode)),
	)

	exitCode, output, err := runScript(ctx, unit.Name+":"+string(action), unit.Path, script, env)
	result.ExitCode = exitCode
	result.Log = output

	if logErr := b.Logs.Put(unit.Name, action, output); logErr != nil {
		log(ctx).Warn().Err(logErr).Str("unit", unit.Name).Msg("failed to persist log")
	}

	if err != nil {
		return result, eris.Wrapf(err, "Failed to run %s for %s", action, unit.Name)
	}

	result.Success = exitCode == 0
	if result.Success {
		err = writeStamp(stampFile, buildStamp{
			RunID:        b.RunID,
			Mode:         mode,
			NewestSource: newest,
			Completed:    time.Now(),
		})
		if err != nil {
			return result, eris.Wrapf(err, "Failed to write stamp for %s", unit.Name)
		}

		if mode == ModeNormal {
			result.ArtifactDir = b.artifactDir(unit, mode)
		}
	}

	return result, nil
}
