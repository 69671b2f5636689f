package phase

import (
	"errors"
)

// Sentinel errors returned by Engine.Run.
var (
	ErrMissingInput     = errors.New("phase: missing input property")
	ErrOutputMismatch   = errors.New("phase: compute returned wrong number of outputs")
	ErrCheckFailed      = errors.New("phase: output validation failed")
	ErrDuplicatePhase   = errors.New("phase: duplicate phase name")
	ErrDuplicateOutput  = errors.New("phase: output property already produced")
)

// ComputeFunc runs a phase's logic over resolved input values, in the
// order Phase.Inputs declares, returning one value per Phase.Outputs entry
// in the same order.
type ComputeFunc func(inputs []any) ([]any, error)

// CheckFunc validates a phase's outputs before they are published to the
// property table. A nil Check always passes.
type CheckFunc func(outputs []any) error

// Phase is one node of the pipeline's dependency graph.
type Phase struct {
	// Name identifies the phase for dependency resolution (Inputs reference
	// other phases' Outputs by property name, not by Name).
	Name string

	// Description is folded into the cache key of every output this phase
	// produces; it should embed the chosen strategy and its parameters so
	// that changing either invalidates the cache.
	Description string

	Inputs  []string
	Outputs []string

	Compute ComputeFunc
	Check   CheckFunc

	// NewOutputs, if non-nil, supplies one zero-value factory per Outputs
	// entry (e.g. func() any { return new(model.SatPos) }), used to decode
	// a cached artifact back into its concrete type. Phases that never set
	// ReadCache may leave this nil.
	NewOutputs []func() any

	ReadCache  bool
	WriteCache bool
}
