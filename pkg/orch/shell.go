package orch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// toolEnv builds the environment for a tool invocation: the process
// environment, then the workspace-level overrides, then the extra pairs for
// this specific call. Later entries win.
func toolEnv(cfg Config, extra ...string) []string {
	envVars := os.Environ()

	for name, value := range cfg.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", name, value))
	}

	return append(envVars, extra...)
}

// renderCommand fills the {unit} and {features} placeholders of a command
// template. A unit without features gets an empty {features} expansion.
func renderCommand(tmpl string, cfg Config, unit Unit) string {
	features := ""
	if len(unit.Features) > 0 {
		features = cfg.Tools.FeatureFlag + " " + strings.Join(unit.Features, ",")
	}

	rendered := strings.NewReplacer(
		"{unit}", unit.Name,
		"{features}", features,
	).Replace(tmpl)

	return strings.TrimSpace(rendered)
}

// runScript executes the given shell script in dir through the portable
// interpreter and returns the script's exit code together with the combined
// stdout/stderr output. A non-nil error means the script never ran to
// completion (parse error, cancelled context); a plain nonzero exit status
// is not an error.
func runScript(ctx context.Context, name, dir, script string, env []string) (int, string, error) {
	parser := syntax.NewParser()
	file, err := parser.Parse(strings.NewReader(script), name)
	if err != nil {
		return -1, "", eris.Wrapf(err, "failed to parse command %s", script)
	}

	buffer := bytes.Buffer{}
	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &buffer, &buffer),
		interp.Params("-e"),
	)
	if err != nil {
		return -1, "", eris.Wrap(err, "Failed to initialize runner")
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), buffer.String(), nil
		}

		return -1, buffer.String(), eris.Wrapf(err, "failed to run %s", name)
	}

	return 0, buffer.String(), nil
}
