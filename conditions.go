package partials

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/partials/atmosphere"
	"gonum.org/v1/gonum/mat"
)

// FlightConditions computes the atmospheric flight conditions of a vehicle about a rotating
// central body, and caches them per time.
type FlightConditions struct {
	vehicle       StateAccessor
	body          CelestialObject
	atmosphere    atmosphere.DensityModel
	referenceArea float64
	currentTime   float64
	altitude      float64
	density       float64
	airspeed      float64
	vAir          []float64
	rotation      *mat.Dense // aerodynamic to inertial
}

// NewFlightConditions returns new flight conditions. The reference area is in m^2.
func NewFlightConditions(vehicle StateAccessor, body CelestialObject, atm atmosphere.DensityModel, referenceArea float64) (*FlightConditions, error) {
	if vehicle == nil || atm == nil {
		return nil, fmt.Errorf("%w: flight conditions require a vehicle state and an atmosphere", ErrInvalidConfiguration)
	}
	if referenceArea <= 0 {
		return nil, fmt.Errorf("%w: reference area must be positive (got %f)", ErrInvalidConfiguration, referenceArea)
	}
	return &FlightConditions{vehicle: vehicle, body: body, atmosphere: atm, referenceArea: referenceArea, currentTime: NaT}, nil
}

// UpdateConditions implements the ConditionsModel interface.
func (c *FlightConditions) UpdateConditions(t float64) error {
	if SameEpoch(t, c.currentTime) {
		return nil
	}
	s := c.vehicle.State()
	if len(s) != 6 {
		return fmt.Errorf("%w: vehicle state of size %d", ErrDimensionMismatch, len(s))
	}
	R := s[0:3]
	// Airspeed w.r.t. an atmosphere co-rotating with the body.
	ωxR := cross([]float64{0, 0, c.body.RotationRate}, R)
	vAir := make([]float64, 3)
	for i := 0; i < 3; i++ {
		vAir[i] = s[i+3] - ωxR[i]
	}
	altitude := norm(R) - c.body.Radius
	ρ, err := c.atmosphere.Density(altitude)
	if err != nil {
		return fmt.Errorf("flight conditions at %f: %w", t, err)
	}
	rotation := AerodynamicToInertial(R, vAir)
	if rotation == nil {
		return fmt.Errorf("%w: R=%v Vair=%v", ErrUndefinedFrame, R, vAir)
	}
	c.altitude = altitude
	c.density = ρ
	c.vAir = vAir
	c.airspeed = norm(vAir)
	c.rotation = rotation
	c.currentTime = t
	return nil
}

// ResetCurrentTime implements the ConditionsModel interface.
func (c *FlightConditions) ResetCurrentTime(t float64) {
	c.currentTime = t
}

// CurrentTime returns the time of the cached conditions (NaT if invalidated).
func (c *FlightConditions) CurrentTime() float64 {
	return c.currentTime
}

// Altitude returns the altitude above the body radius in m.
func (c *FlightConditions) Altitude() float64 {
	return c.altitude
}

// Density returns the atmospheric density in kg/m^3.
func (c *FlightConditions) Density() float64 {
	return c.density
}

// Airspeed returns the norm of the airspeed in m/s.
func (c *FlightConditions) Airspeed() float64 {
	return c.airspeed
}

// AirspeedVector returns the inertial airspeed vector.
func (c *FlightConditions) AirspeedVector() []float64 {
	return copyVec(c.vAir)
}

// DynamicPressure returns ½ρV².
func (c *FlightConditions) DynamicPressure() float64 {
	return 0.5 * c.density * math.Pow(c.airspeed, 2)
}

// ReferenceArea returns the aerodynamic reference area in m^2.
func (c *FlightConditions) ReferenceArea() float64 {
	return c.referenceArea
}

// RotationToInertial returns the rotation from the aerodynamic frame to the inertial frame.
func (c *FlightConditions) RotationToInertial() *mat.Dense {
	if c.rotation == nil {
		return nil
	}
	return mat.DenseCopyOf(c.rotation)
}
