package orch

import (
	"context"
	"fmt"
)

// Action names one of the orchestrated operations. It doubles as the key
// under which logs are persisted.
type Action string

const (
	ActionBuild Action = "build"
	ActionTest  Action = "test"
	ActionLint  Action = "lint"
)

// Mode selects the build variant.
type Mode int

const (
	// ModeNormal compiles the unit into an artifact.
	ModeNormal Mode = iota
	// ModeLint runs the static analysis tool with warnings promoted to
	// errors instead of the normal compiler.
	ModeLint
)

func (m Mode) String() string {
	if m == ModeLint {
		return "lint"
	}
	return "normal"
}

// Action returns the action the mode corresponds to.
func (m Mode) Action() Action {
	if m == ModeLint {
		return ActionLint
	}
	return ActionBuild
}

// Unit is an independently buildable component, identified by a manifest
// file in an immediate subdirectory of the workspace root. Units are
// immutable for the duration of one orchestration run.
type Unit struct {
	Name         string
	Path         string
	ManifestPath string
	Features     []string
}

func (u Unit) String() string {
	return fmt.Sprintf("<Unit %s>", u.Name)
}

// HasFeature reports whether the given capability flag is set for the unit.
func (u Unit) HasFeature(name string) bool {
	for _, item := range u.Features {
		if item == name {
			return true
		}
	}
	return false
}

// BuildResult is the outcome of building a unit in either mode. A failed
// build carries the captured toolchain output in Log; ArtifactDir is only
// set for successful normal-mode builds since lint produces no linked
// output.
type BuildResult struct {
	Unit        Unit
	Mode        Mode
	Success     bool
	Cached      bool
	ExitCode    int
	ArtifactDir string
	Log         string
}

// TestOutcome is the outcome of running a unit's test suite. ExitCode zero
// means every test passed; the runner does not parse individual test names
// out of the captured output.
type TestOutcome struct {
	Unit     Unit
	ExitCode int
	Log      string
}

// Builder abstracts the build toolchain so the orchestration loop can be
// exercised with in-memory fakes. A failed build is reported through
// BuildResult.Success, not through the error return; the error is reserved
// for infrastructure problems (the tool could not be invoked at all).
type Builder interface {
	Build(ctx context.Context, unit Unit, mode Mode) (BuildResult, error)
}

// Tester abstracts the test toolchain. A test failure is reported through
// TestOutcome.ExitCode; an error return means the suite could not be
// invoked (see ErrExecution).
type Tester interface {
	RunTests(ctx context.Context, unit Unit, build BuildResult, env EnvConfig) (TestOutcome, error)
}

// EnvConfig is the per-run environment applied to test invocations.
// UpdateSnapshots controls whether mismatched reference snapshots are
// rewritten in place or reported as failures; WorkspaceRoot anchors
// relative fixture lookups regardless of the unit's own directory.
type EnvConfig struct {
	UpdateSnapshots bool
	WorkspaceRoot   string
}
