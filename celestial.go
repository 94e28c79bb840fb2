package partials

import (
	"fmt"
	"strings"
)

// CelestialObject defines a central body. All values are in SI units.
type CelestialObject struct {
	Name         string
	Radius       float64 // Equatorial radius (m)
	μ            float64 // Gravitational parameter (m^3/s^2)
	RotationRate float64 // Rotation rate about the body z axis (rad/s)
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialObject) GM() float64 {
	return c.μ
}

// WithGM returns a copy of this object with another gravitational parameter.
func (c CelestialObject) WithGM(μ float64) CelestialObject {
	c.μ = μ
	return c
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.μ == b.μ && c.RotationRate == b.RotationRate
}

// CelestialObjectFromString returns the object from its name
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(name) {
	case "earth":
		return Earth, nil
	case "venus":
		return Venus, nil
	case "mars":
		return Mars, nil
	default:
		return CelestialObject{}, fmt.Errorf("undefined body '%s'", name)
	}
}

/* Definitions */

// Venus is poisonous.
var Venus = CelestialObject{"Venus", 6051.8e3, 3.24858599e14, -2.99240e-7}

// Earth is home.
var Earth = CelestialObject{"Earth", 6378.1363e3, 3.986004415e14, 7.2921158553e-5}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 3396.19e3, 4.28283100e13, 7.088218e-5}
