// Package atmosphere provides the density models used by the flight conditions: an exponential
// atmosphere and a tabulated atmosphere interpolated with monotone piecewise cubics.
package atmosphere

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChristopherRabotin/partials/tools"
)

var (
	// ErrOutOfDomain is returned when querying a model outside of its altitude domain.
	ErrOutOfDomain = errors.New("atmosphere: altitude out of domain")
	// ErrInvalidTable is returned for unusable atmosphere tables.
	ErrInvalidTable = errors.New("atmosphere: invalid table")
)

// DensityModel returns the atmospheric density (kg/m^3) at an altitude (m).
type DensityModel interface {
	Density(altitude float64) (float64, error)
}

// Exponential is an exponential atmosphere.
type Exponential struct {
	BaseAltitude float64 // m
	BaseDensity  float64 // kg/m^3
	ScaleHeight  float64 // m
}

// Density implements the DensityModel interface.
func (e Exponential) Density(altitude float64) (float64, error) {
	if e.ScaleHeight <= 0 {
		return math.NaN(), fmt.Errorf("exponential atmosphere: scale height must be positive (got %f)", e.ScaleHeight)
	}
	return e.BaseDensity * math.Exp(-(altitude-e.BaseAltitude)/e.ScaleHeight), nil
}

// AltitudeAtDensity returns the altitude in [lo, hi] at which the model has the provided density.
// The density profile must be monotone on that interval.
func AltitudeAtDensity(model DensityModel, density, lo, hi float64) (float64, error) {
	if density <= 0 {
		return math.NaN(), fmt.Errorf("density must be positive (got %g)", density)
	}
	if lo >= hi {
		return math.NaN(), fmt.Errorf("invalid altitude interval [%f, %f]", lo, hi)
	}
	target := math.Log(density)
	// The logarithm of the density is nearly linear in altitude.
	f := func(h float64) (float64, error) {
		ρ, err := model.Density(math.Min(math.Max(h, lo), hi))
		if err != nil {
			return math.NaN(), err
		}
		if ρ <= 0 {
			return math.NaN(), fmt.Errorf("non positive density %g at %f m", ρ, h)
		}
		return math.Log(ρ) - target, nil
	}
	h, err := tools.Secant(f, lo, hi, 1e-6*(hi-lo), 100)
	if err != nil {
		return math.NaN(), err
	}
	if h < lo || h > hi {
		return math.NaN(), fmt.Errorf("%w: density %g reached at %f m, outside [%f, %f]", ErrOutOfDomain, density, h, lo, hi)
	}
	return h, nil
}
