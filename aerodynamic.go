package partials

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// AerodynamicCoefficients are the drag, side force and lift coefficients, in the
// aerodynamic frame, of a vehicle.
type AerodynamicCoefficients struct {
	CD, CS, CL float64
}

// Vector returns [CD CS CL].
func (c AerodynamicCoefficients) Vector() []float64 {
	return []float64{c.CD, c.CS, c.CL}
}

// AerodynamicAcceleration is the aerodynamic acceleration a = -q S / m * R * [CD CS CL], where
// q is the dynamic pressure and R the rotation from the aerodynamic frame to the inertial frame.
type AerodynamicAcceleration struct {
	conditions   *FlightConditions
	coefficients *AerodynamicCoefficients
	mass         func() float64
	currentTime  float64
	acceleration []float64
}

// NewAerodynamicAcceleration returns a new aerodynamic acceleration. The coefficients are read at
// each update, so an estimator may change them in place.
func NewAerodynamicAcceleration(conditions *FlightConditions, coefficients *AerodynamicCoefficients, mass func() float64) (*AerodynamicAcceleration, error) {
	if conditions == nil || coefficients == nil || mass == nil {
		return nil, fmt.Errorf("%w: aerodynamic acceleration requires conditions, coefficients and a mass function", ErrInvalidConfiguration)
	}
	return &AerodynamicAcceleration{conditions: conditions, coefficients: coefficients, mass: mass, currentTime: NaT, acceleration: make([]float64, 3)}, nil
}

// UpdateMembers implements the ForceModel interface.
func (a *AerodynamicAcceleration) UpdateMembers(t float64) error {
	if SameEpoch(t, a.currentTime) {
		return nil
	}
	if err := a.conditions.UpdateConditions(t); err != nil {
		return err
	}
	factor, err := a.forceFactor()
	if err != nil {
		return err
	}
	C := a.coefficients.Vector()
	acc := MxV33(a.conditions.rotation, []float64{factor * C[0], factor * C[1], factor * C[2]})
	copy(a.acceleration, acc)
	a.currentTime = t
	return nil
}

// forceFactor returns -q S / m.
func (a *AerodynamicAcceleration) forceFactor() (float64, error) {
	m := a.mass()
	if !(m > 0) {
		return 0, fmt.Errorf("%w: vehicle mass must be positive (got %f)", ErrInvalidConfiguration, m)
	}
	return -a.conditions.DynamicPressure() * a.conditions.ReferenceArea() / m, nil
}

// ResetTime implements the ForceModel interface.
func (a *AerodynamicAcceleration) ResetTime(t float64) {
	a.currentTime = t
}

// Acceleration implements the ForceModel interface.
func (a *AerodynamicAcceleration) Acceleration() []float64 {
	return copyVec(a.acceleration)
}

// AerodynamicAccelerationPartial computes the partials of an aerodynamic acceleration: the state
// partials by central differences, and the partials w.r.t. the aerodynamic coefficients of the
// accelerated body analytically.
type AerodynamicAccelerationPartial struct {
	*NumericalAccelerationPartial
	acceleration *AerodynamicAcceleration
	conditions   *FlightConditions
}

// NewAerodynamicAccelerationPartial returns a new aerodynamic acceleration partial. The state
// accessor must be the one the flight conditions are computed from.
func NewAerodynamicAccelerationPartial(acceleration *AerodynamicAcceleration, conditions *FlightConditions, vehicle StateAccessor, accelerated, accelerating string, steps []float64, opts ...Option) (*AerodynamicAccelerationPartial, error) {
	if acceleration == nil || conditions == nil {
		return nil, fmt.Errorf("%w: aerodynamic partial requires an acceleration and flight conditions", ErrInvalidConfiguration)
	}
	numerical, err := newNumericalAccelerationPartial("aerodynamic", acceleration, []ConditionsModel{conditions}, vehicle, accelerated, accelerating, steps, opts)
	if err != nil {
		return nil, err
	}
	p := &AerodynamicAccelerationPartial{numerical, acceleration, conditions}
	if err := p.registry.Register(Parameter{ConstantDragCoefficient, accelerated}, p.wrtDragCoefficient); err != nil {
		return nil, err
	}
	if err := p.registry.Register(Parameter{ConstantAerodynamicCoefficients, accelerated}, p.wrtAerodynamicCoefficients); err != nil {
		return nil, err
	}
	return p, nil
}

// wrtDragCoefficient writes d a / d CD = -q S / m * x_aero for the current conditions.
func (p *AerodynamicAccelerationPartial) wrtDragCoefficient(out *mat.Dense) {
	factor := p.factor()
	sizedOutput(out, 3, 1)
	for i := 0; i < 3; i++ {
		out.Set(i, 0, factor*p.conditions.rotation.At(i, 0))
	}
}

// wrtAerodynamicCoefficients writes d a / d [CD CS CL] = -q S / m * R for the current conditions.
func (p *AerodynamicAccelerationPartial) wrtAerodynamicCoefficients(out *mat.Dense) {
	factor := p.factor()
	sizedOutput(out, 3, 3)
	out.Scale(factor, p.conditions.rotation)
}

// factor returns -q S / m for the conditions of the last update. The partial functions cannot
// return an error, so a stale partial or an invalid mass (already rejected by the last update)
// panics.
func (p *AerodynamicAccelerationPartial) factor() float64 {
	p.mustBeFresh()
	factor, err := p.acceleration.forceFactor()
	if err != nil {
		panic(err)
	}
	return factor
}
