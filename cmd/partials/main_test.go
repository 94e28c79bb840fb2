package main

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/ChristopherRabotin/partials"
	"github.com/ChristopherRabotin/partials/atmosphere"
	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gopkg.in/yaml.v3"
)

func TestLEOScenario(t *testing.T) {
	s, err := readScenario("leo.toml")
	if err != nil {
		t.Fatal(err)
	}
	if !s.epoch.Equal(time.Date(2018, 3, 21, 16, 15, 0, 0, time.UTC)) {
		t.Fatalf("incorrect epoch %s", s.epoch)
	}
	r := partials.Earth.Radius + 400e3
	if !scalar.EqualWithinRel(floats.Norm(s.vehicle.R(), 2), r, 1e-12) {
		t.Fatalf("incorrect radius %f", floats.Norm(s.vehicle.R(), 2))
	}
	if !scalar.EqualWithinRel(floats.Norm(s.vehicle.V(), 2), math.Sqrt(partials.Earth.GM()/r), 1e-12) {
		t.Fatal("incorrect circular velocity")
	}
	// The orbit inclination is the angle between the angular momentum and Z.
	R, V := s.vehicle.R(), s.vehicle.V()
	hz := R[0]*V[1] - R[1]*V[0]
	if inc := math.Acos(hz/(r*floats.Norm(V, 2))) * 180 / math.Pi; !scalar.EqualWithinAbs(inc, 51.6, 1e-9) {
		t.Fatalf("incorrect inclination %f", inc)
	}

	res, err := computeJacobian(s, kitlog.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Blocks) != 2 || len(res.Parameters) != 3 {
		t.Fatalf("expected two blocks and three parameter partials, got %d and %d", len(res.Blocks), len(res.Parameters))
	}
	if !scalar.EqualWithinRel(floats.Norm(res.Acceleration, 2), partials.Earth.GM()/(r*r), 1e-6) {
		t.Fatalf("incorrect acceleration %v", res.Acceleration)
	}
	// Gravity does not depend on the velocity.
	for i := 0; i < 3; i++ {
		if !floats.Equal(res.Total.Velocity[i], res.Blocks[0].Velocity[i]) {
			t.Fatal("total velocity partial differs from the aerodynamic one")
		}
	}
	if !strings.Contains(res.String(), "total") {
		t.Fatal("total block missing from the output")
	}

	data, err := yaml.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	var back jacobianResult
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Epoch != res.Epoch || len(back.Parameters) != 3 || back.Parameters[2].Parameter != res.Parameters[2].Parameter {
		t.Fatalf("incorrect YAML output\n%s", data)
	}
}

func TestScenarioFromRV(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	err := v.ReadConfig(strings.NewReader(`
[scenario]
epoch = 2451545.0
body = "mars"
gm = 4.2828e13

[vehicle]
mass = 1000.0
area = 10.0
cd = 2.0
r = [3796190.0, 0.0, 0.0]
v = [0.0, 3300.0, 100.0]

[atmosphere]
base_altitude = 0.0
base_density = 0.02
scale_height = 11.1e3
`))
	if err != nil {
		t.Fatal(err)
	}
	s, err := scenarioFromViper(v)
	if err != nil {
		t.Fatal(err)
	}
	if s.body.Name != "Mars" || s.body.GM() != 4.2828e13 || s.vehicle.Name != "vehicle" {
		t.Fatalf("incorrect scenario %s", s)
	}
	if math.Abs(partials.J2000Seconds(s.epoch)) > 1e-3 {
		t.Fatalf("incorrect epoch %s", s.epoch)
	}
	if !floats.Equal(s.vehicle.V(), []float64{0, 3300, 100}) {
		t.Fatalf("incorrect velocity %v", s.vehicle.V())
	}
	if _, err := computeJacobian(s, kitlog.NewNopLogger()); err != nil {
		t.Fatal(err)
	}

	v.Set("vehicle.r", []interface{}{1.0, 2.0})
	if _, err := scenarioFromViper(v); err == nil {
		t.Fatal("expected an error for a two dimensional position")
	}
	v.Set("scenario.body", "Vulcan")
	if _, err := scenarioFromViper(v); err == nil {
		t.Fatal("expected an error for an undefined body")
	}
}

func TestDensityProfile(t *testing.T) {
	e := atmosphere.Exponential{BaseAltitude: 400e3, BaseDensity: 3.7e-12, ScaleHeight: 58.5e3}
	profile, err := densityProfile(e, 100e3, 1000e3, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(profile); i++ {
		if profile[i] >= profile[i-1] {
			t.Fatal("density profile should decrease")
		}
	}
	if !scalar.EqualWithinAbs(profile[0]-profile[1], 100e3/58.5e3/math.Ln10, 1e-12) {
		t.Fatal("incorrect log10 density step")
	}
	if _, err := densityProfile(e, 100e3, 1000e3, 1); err == nil {
		t.Fatal("expected an error for a single sample")
	}
}
