package main

import (
	"fmt"
	"math"
	"time"

	"github.com/ChristopherRabotin/partials"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const dateTimeFormat = "2006-01-02 15:04:05"

// scenario is a vehicle about a central body at an epoch.
type scenario struct {
	epoch        time.Time
	body         partials.CelestialObject
	vehicle      *partials.Body
	area         float64
	coefficients partials.AerodynamicCoefficients
	conf         partials.Config
}

func (s scenario) String() string {
	return fmt.Sprintf("%s about %s at %s", s.vehicle, s.body.Name, s.epoch.Format(dateTimeFormat))
}

// readScenario reads the scenario TOML file. The partials, atmosphere and log sections are read
// as the library configuration.
func readScenario(path string) (scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return scenarioFromViper(v)
}

func scenarioFromViper(v *viper.Viper) (s scenario, err error) {
	if s.conf, err = partials.ConfigFromViper(v); err != nil {
		return
	}
	if s.epoch, err = readJDEorTime(v, "scenario.epoch"); err != nil {
		return
	}
	bodyName := v.GetString("scenario.body")
	if s.body, err = partials.CelestialObjectFromString(bodyName); err != nil {
		return s, fmt.Errorf("could not understand body `%s`: %w", bodyName, err)
	}
	if μ := v.GetFloat64("scenario.gm"); μ > 0 {
		s.body = s.body.WithGM(μ)
	}

	v.SetDefault("vehicle.name", "vehicle")
	name := v.GetString("vehicle.name")
	mass := v.GetFloat64("vehicle.mass")
	if mass <= 0 {
		return s, fmt.Errorf("vehicle.mass must be positive (got %f)", mass)
	}
	s.area = v.GetFloat64("vehicle.area")
	s.coefficients = partials.AerodynamicCoefficients{
		CD: v.GetFloat64("vehicle.cd"),
		CS: v.GetFloat64("vehicle.cs"),
		CL: v.GetFloat64("vehicle.cl"),
	}

	var R, V []float64
	if v.IsSet("orbit.altitude") {
		R, V = circularOrbit(s.body, v.GetFloat64("orbit.altitude"), v.GetFloat64("orbit.inc"), v.GetFloat64("orbit.raan"), v.GetFloat64("orbit.arglat"))
	} else {
		if R, err = vector3(v, "vehicle.r"); err != nil {
			return
		}
		if V, err = vector3(v, "vehicle.v"); err != nil {
			return
		}
	}
	s.vehicle = partials.NewBody(name, mass, R, V)
	return s, nil
}

// readJDEorTime reads either a JDE or a date time string.
func readJDEorTime(v *viper.Viper, key string) (time.Time, error) {
	if jde := v.GetFloat64(key); jde != 0 {
		return julian.JDToTime(jde), nil
	}
	dt, err := time.Parse(dateTimeFormat, v.GetString(key))
	if err != nil {
		return dt, fmt.Errorf("could not understand `%s`: %w", key, err)
	}
	return dt, nil
}

func vector3(v *viper.Viper, key string) ([]float64, error) {
	items, err := cast.ToSliceE(v.Get(key))
	if err != nil || len(items) != 3 {
		return nil, fmt.Errorf("`%s` must be an array of three values", key)
	}
	vec := make([]float64, 3)
	for i, item := range items {
		if vec[i], err = cast.ToFloat64E(item); err != nil {
			return nil, fmt.Errorf("`%s`: %w", key, err)
		}
	}
	return vec, nil
}

// circularOrbit returns the state of a circular orbit; angles are in degrees.
func circularOrbit(body partials.CelestialObject, altitude, inc, raan, argLat float64) (R, V []float64) {
	r := body.Radius + altitude
	v := math.Sqrt(body.GM() / r)
	su, cu := math.Sincos(argLat * math.Pi / 180)
	i := inc * math.Pi / 180
	Ω := raan * math.Pi / 180
	R = partials.PQW2ECI(i, 0, Ω, []float64{r * cu, r * su, 0})
	V = partials.PQW2ECI(i, 0, Ω, []float64{-v * su, v * cu, 0})
	return
}
