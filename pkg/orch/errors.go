package orch

import "github.com/rotisserie/eris"

var (
	// ErrRootNotFound is returned by DiscoverUnits when the workspace root
	// does not exist. Nothing is processed in that case.
	ErrRootNotFound = eris.New("workspace root not found")

	// ErrExecution marks a tool invocation that never ran to completion
	// (missing binary, permission problem). It carries the same exit-code
	// consequences as a failed run but stays distinguishable in logs.
	ErrExecution = eris.New("tool could not be invoked")

	// ErrUnitNotFound is returned when a unit filter names a unit that
	// discovery did not produce.
	ErrUnitNotFound = eris.New("unit not found")
)
