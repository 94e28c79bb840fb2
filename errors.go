package partials

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned for invalid construction parameters, e.g. a zero perturbation step.
	ErrInvalidConfiguration = errors.New("partials: invalid configuration")
	// ErrDuplicateParameter is returned when two partial functions are registered for the same parameter.
	ErrDuplicateParameter = errors.New("partials: duplicate parameter registration")
	// ErrUnimplementedDependency is returned when a dependency exists which cannot be computed.
	ErrUnimplementedDependency = errors.New("partials: unimplemented state dependency")
	// ErrNotUpdated is returned when a partial is read before its first update.
	ErrNotUpdated = errors.New("partials: partial read before first update")
	// ErrStateChanged is returned when the state changed since the last update.
	ErrStateChanged = errors.New("partials: state changed since last update")
	// ErrEpochMismatch is returned when the cached epoch is not the requested one.
	ErrEpochMismatch = errors.New("partials: cached epoch does not match")
	// ErrBlockBounds is returned when a block does not fit in the output matrix.
	ErrBlockBounds = errors.New("partials: block out of output bounds")
	// ErrDimensionMismatch is returned for vectors or matrices of unexpected sizes.
	ErrDimensionMismatch = errors.New("partials: dimension mismatch")
	// ErrUndefinedFrame is returned when the aerodynamic frame cannot be built from the current state.
	ErrUndefinedFrame = errors.New("partials: aerodynamic frame undefined")
)

// StaleStateError is returned by the partial accessors when the cached block may not
// reflect the current state of the accelerated body.
type StaleStateError struct {
	Partial string  // accelerated <- accelerating
	Epoch   float64 // epoch of the cached block (NaT if never updated)
	Wrapped error
}

func (e *StaleStateError) Error() string {
	if IsNaT(e.Epoch) {
		return fmt.Sprintf("%s: %s", e.Partial, e.Wrapped)
	}
	return fmt.Sprintf("%s @ %f: %s", e.Partial, e.Epoch, e.Wrapped)
}

func (e *StaleStateError) Unwrap() error {
	return e.Wrapped
}
