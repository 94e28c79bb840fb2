package partials

import (
	"fmt"

	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/gonum/mat"
)

// NumericalAccelerationPartial computes the partials of any force model with respect to the state
// of the accelerated body by central differences. Each perturbed evaluation resets the time of the
// force model and of all the conditions models to NaT before and after it, so that no cached
// quantity is reused. The nominal state and model caches are restored before Update returns, even
// if an evaluation fails or panics.
type NumericalAccelerationPartial struct {
	partialCache
	force      ForceModel
	conditions []ConditionsModel
	state      StateAccessor
	steps      []float64
}

// NewNumericalAccelerationPartial returns a new finite difference acceleration partial.
// The conditions models are updated in order before the force model.
func NewNumericalAccelerationPartial(force ForceModel, conditions []ConditionsModel, state StateAccessor, accelerated, accelerating string, steps []float64, opts ...Option) (*NumericalAccelerationPartial, error) {
	return newNumericalAccelerationPartial("numerical", force, conditions, state, accelerated, accelerating, steps, opts)
}

func newNumericalAccelerationPartial(kind string, force ForceModel, conditions []ConditionsModel, state StateAccessor, accelerated, accelerating string, steps []float64, opts []Option) (*NumericalAccelerationPartial, error) {
	if force == nil || state == nil {
		return nil, fmt.Errorf("%w: %s partial requires a force model and a state accessor", ErrInvalidConfiguration, kind)
	}
	for i, cond := range conditions {
		if cond == nil {
			return nil, fmt.Errorf("%w: conditions model %d is nil", ErrInvalidConfiguration, i)
		}
	}
	if err := validateSteps(steps, 6); err != nil {
		return nil, err
	}
	p := &NumericalAccelerationPartial{
		force:      force,
		conditions: append([]ConditionsModel(nil), conditions...),
		state:      state,
		steps:      copyVec(steps),
	}
	p.partialCache = newPartialCache(kind, accelerated, accelerating, state.State, opts)
	return p, nil
}

// Steps returns a copy of the perturbation steps.
func (p *NumericalAccelerationPartial) Steps() []float64 {
	return copyVec(p.steps)
}

// Update computes the 3x6 partial block at time t by central differences.
func (p *NumericalAccelerationPartial) Update(t float64) (err error) {
	p.invalidate()
	nominal := copyVec(p.state.State())
	if len(nominal) != 6 {
		return fmt.Errorf("%w: state of size %d", ErrDimensionMismatch, len(nominal))
	}
	var block *mat.Dense
	defer func() {
		if rerr := p.restore(nominal, t); rerr != nil {
			level.Warn(p.logger).Log("msg", "could not restore nominal state", "t", t, "err", rerr)
			if err == nil {
				err = fmt.Errorf("%s: restoring nominal state: %w", &p.partialCache, rerr)
			}
		}
		if err == nil && block != nil {
			p.store(t, block, nominal)
		}
	}()
	block, err = CentralDifference(nominal, p.steps, func(x []float64) ([]float64, error) {
		return p.evaluate(t, x)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", &p.partialCache, err)
	}
	return nil
}

// evaluate returns the acceleration at time t for the state x, with fresh model caches.
func (p *NumericalAccelerationPartial) evaluate(t float64, x []float64) ([]float64, error) {
	p.resetModels()
	defer p.resetModels()
	p.state.SetState(x)
	if err := p.updateModels(t); err != nil {
		return nil, err
	}
	return copyVec(p.force.Acceleration()), nil
}

// restore sets the nominal state back and recomputes the models at time t.
func (p *NumericalAccelerationPartial) restore(nominal []float64, t float64) error {
	p.resetModels()
	p.state.SetState(nominal)
	return p.updateModels(t)
}

func (p *NumericalAccelerationPartial) resetModels() {
	for _, cond := range p.conditions {
		cond.ResetCurrentTime(NaT)
	}
	p.force.ResetTime(NaT)
}

func (p *NumericalAccelerationPartial) updateModels(t float64) error {
	for _, cond := range p.conditions {
		if err := cond.UpdateConditions(t); err != nil {
			return err
		}
	}
	return p.force.UpdateMembers(t)
}
