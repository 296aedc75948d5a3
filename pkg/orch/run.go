package orch

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Orchestrator iterates discovered units and drives the Builder and Tester
// for each one. The run is fail-fast: the first failing unit halts further
// processing and its persisted log is surfaced for diagnosis.
type Orchestrator struct {
	Root    string
	Config  Config
	Builder Builder
	Tester  Tester
	Logs    *LogStore
	Env     EnvConfig
	RunID   string

	// Jobs > 1 processes units concurrently. Units are independent (each
	// owns its sources, cache namespace and artifact dir) but a unit's
	// tests still strictly follow that unit's build.
	Jobs int

	// Optional progress hooks, invoked from the processing goroutines.
	OnStart    func(total int)
	OnUnitDone func(unit Unit, ok bool)
}

// unitResult attributes an exit code to the unit and action it came from.
type unitResult struct {
	unit   Unit
	action Action
	code   int
}

// RunAll discovers units, applies the optional name filter and processes
// every unit for the given action. It returns 0 only if every unit
// succeeded, otherwise the first nonzero exit code encountered; processing
// stops at the first failure. The error return is reserved for
// orchestration-level problems (missing root, unknown filter) that prevent
// any unit from being judged.
func (o *Orchestrator) RunAll(ctx context.Context, action Action, filter string) (int, error) {
	units, err := DiscoverUnits(o.Root, o.Config)
	if err != nil {
		return 1, err
	}

	if filter != "" {
		found := false
		for _, unit := range units {
			if unit.Name == filter {
				units = []Unit{unit}
				found = true
				break
			}
		}
		if !found {
			return 1, eris.Wrapf(ErrUnitNotFound, "no unit named %s below %s", filter, o.Root)
		}
	}

	if len(units) == 0 {
		log(ctx).Warn().Msgf("no units found below %s", o.Root)
		return 0, nil
	}

	err = o.Logs.WriteRunInfo(RunInfo{ID: o.RunID, Action: action, Started: time.Now()})
	if err != nil {
		return 1, err
	}

	if o.OnStart != nil {
		o.OnStart(len(units))
	}

	if o.Jobs > 1 {
		return o.runParallel(ctx, action, units)
	}

	for _, unit := range units {
		result, err := o.processUnit(ctx, action, unit)
		o.unitDone(unit, err == nil && result.code == 0)

		if err != nil || result.code != 0 {
			o.surfaceFailure(ctx, result, err)
			return failCode(result.code), nil
		}
	}

	return 0, nil
}

func (o *Orchestrator) runParallel(ctx context.Context, action Action, units []Unit) (int, error) {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(o.Jobs)

	var (
		mutex      sync.Mutex
		failure    *unitResult
		failureErr error
	)

	for _, unit := range units {
		unit := unit
		group.Go(func() error {
			// once anything failed, drain instead of starting new units
			if gctx.Err() != nil {
				return gctx.Err()
			}

			result, err := o.processUnit(gctx, action, unit)
			o.unitDone(unit, err == nil && result.code == 0)

			if err != nil || result.code != 0 {
				mutex.Lock()
				if failure == nil {
					failure = &result
					failureErr = err
				}
				mutex.Unlock()
				return eris.Errorf("%s failed for %s", action, unit.Name)
			}

			return nil
		})
	}

	waitErr := group.Wait()
	if failure != nil {
		o.surfaceFailure(ctx, *failure, failureErr)
		return failCode(failure.code), nil
	}
	if waitErr != nil {
		return 1, waitErr
	}

	return 0, nil
}

// processUnit runs the action for a single unit and reports the exit code
// attributable to it. For the test action the unit is built first and the
// tests only run after a successful build.
func (o *Orchestrator) processUnit(ctx context.Context, action Action, unit Unit) (unitResult, error) {
	if timeout := time.Duration(o.Config.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	mode := ModeNormal
	if action == ActionLint {
		mode = ModeLint
	}

	build, err := o.Builder.Build(ctx, unit, mode)
	if err != nil {
		return unitResult{unit: unit, action: mode.Action(), code: failCode(build.ExitCode)}, err
	}
	if !build.Success {
		return unitResult{unit: unit, action: mode.Action(), code: failCode(build.ExitCode)}, nil
	}

	if action != ActionTest {
		return unitResult{unit: unit, action: action, code: 0}, nil
	}

	outcome, err := o.Tester.RunTests(ctx, unit, build, o.Env)
	if err != nil {
		return unitResult{unit: unit, action: ActionTest, code: failCode(outcome.ExitCode)}, err
	}

	return unitResult{unit: unit, action: ActionTest, code: outcome.ExitCode}, nil
}

func (o *Orchestrator) unitDone(unit Unit, ok bool) {
	if o.OnUnitDone != nil {
		o.OnUnitDone(unit, ok)
	}
}

// surfaceFailure reports the failing unit and fetches its persisted log so
// the full toolchain output is visible even when the failure happened in a
// subprocess whose output was captured rather than streamed.
func (o *Orchestrator) surfaceFailure(ctx context.Context, result unitResult, err error) {
	event := log(ctx).Error().Str("unit", result.unit.Name)
	if err != nil {
		event = event.Err(err)
	}
	event.Msgf("%s failed with exit code %d", result.action, failCode(result.code))

	stored, logErr := o.Logs.Get(result.unit.Name, result.action)
	if logErr == nil && stored != "" {
		log(ctx).Error().
			Str("unit", result.unit.Name).
			Msgf("captured output:\n%s", stored)
	}
}

// failCode normalizes an exit code for a failed action: tool exit codes are
// passed through, everything else becomes 1.
func failCode(code int) int {
	if code > 0 {
		return code
	}
	return 1
}
