package main

import (
	"fmt"
	"strings"

	"github.com/ChristopherRabotin/partials"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/gonum/mat"
)

// blockResult is the 3x6 state partial of one acceleration.
type blockResult struct {
	Name     string      `yaml:"name"`
	Position [][]float64 `yaml:"position"`
	Velocity [][]float64 `yaml:"velocity"`
}

// parameterResult is the partial of one acceleration w.r.t. one parameter.
type parameterResult struct {
	Acceleration string      `yaml:"acceleration"`
	Parameter    string      `yaml:"parameter"`
	Partial      [][]float64 `yaml:"partial"`
}

type jacobianResult struct {
	Epoch        string            `yaml:"epoch"`
	J2000Seconds float64           `yaml:"j2000_seconds"`
	Acceleration []float64         `yaml:"acceleration"`
	Blocks       []blockResult     `yaml:"blocks"`
	Total        blockResult       `yaml:"total"`
	Parameters   []parameterResult `yaml:"parameters"`
}

type namedPartial struct {
	name    string
	partial partials.AccelerationPartial
}

// computeJacobian computes the aerodynamic and central gravity partials of the scenario vehicle.
func computeJacobian(s scenario, logger kitlog.Logger) (jacobianResult, error) {
	atm, err := s.conf.Atmosphere.DensityModel()
	if err != nil {
		return jacobianResult{}, err
	}
	name := s.vehicle.Name
	fc, err := partials.NewFlightConditions(s.vehicle, s.body, atm, s.area)
	if err != nil {
		return jacobianResult{}, err
	}
	coefficients := s.coefficients
	drag, err := partials.NewAerodynamicAcceleration(fc, &coefficients, s.vehicle.GetMass)
	if err != nil {
		return jacobianResult{}, err
	}
	aero, err := partials.NewAerodynamicAccelerationPartial(drag, fc, s.vehicle, name, s.body.Name, s.conf.Steps, partials.WithLogger(logger))
	if err != nil {
		return jacobianResult{}, err
	}
	gravity, err := partials.NewCentralGravity(s.vehicle, nil, s.body)
	if err != nil {
		return jacobianResult{}, err
	}
	grav, err := partials.NewCentralGravityPartial(gravity, name, s.body.Name, partials.WithLogger(logger))
	if err != nil {
		return jacobianResult{}, err
	}

	t := partials.J2000Seconds(s.epoch)
	level.Info(logger).Log("msg", "computing partials", "scenario", s, "t", t)
	if err := partials.UpdateAll(t, aero, grav); err != nil {
		return jacobianResult{}, err
	}

	res := jacobianResult{
		Epoch:        partials.TimeFromJ2000Seconds(t).Format(dateTimeFormat),
		J2000Seconds: t,
		Acceleration: drag.Acceleration(),
	}
	for i, a := range gravity.Acceleration() {
		res.Acceleration[i] += a
	}
	total := mat.NewDense(3, 6, nil)
	for _, np := range []namedPartial{{"aerodynamic", aero}, {"central gravity", grav}} {
		block := mat.NewDense(3, 6, nil)
		if err := np.partial.WrtPositionOfAcceleratedBody(block, true, 0, 0); err != nil {
			return res, err
		}
		if err := np.partial.WrtVelocityOfAcceleratedBody(block, true, 0, 3); err != nil {
			return res, err
		}
		total.Add(total, block)
		res.Blocks = append(res.Blocks, newBlockResult(np.name, block))
	}
	res.Total = newBlockResult("total", total)

	for _, np := range []struct {
		name     string
		registry *partials.ParameterPartialRegistry
	}{{"aerodynamic", aero.Registry()}, {"central gravity", grav.Registry()}} {
		for _, p := range np.registry.Parameters() {
			fn, _ := np.registry.ScalarPartial(p)
			if p.Kind.IsVector() {
				fn, _ = np.registry.VectorPartial(p)
			}
			var out mat.Dense
			fn(&out)
			res.Parameters = append(res.Parameters, parameterResult{np.name, p.String(), rows(&out)})
		}
	}
	return res, nil
}

func newBlockResult(name string, block *mat.Dense) blockResult {
	return blockResult{name, rows(block.Slice(0, 3, 0, 3)), rows(block.Slice(0, 3, 3, 6))}
}

func rows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func (b blockResult) dense() *mat.Dense {
	data := make([]float64, 0, 18)
	for i := 0; i < 3; i++ {
		data = append(data, b.Position[i]...)
		data = append(data, b.Velocity[i]...)
	}
	return mat.NewDense(3, 6, data)
}

func (r jacobianResult) String() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("Partials at %s (%.3f s past J2000)", r.Epoch, r.J2000Seconds)))
	fmt.Fprintf(&sb, "\nacceleration = %v m/s^2\n", r.Acceleration)
	blocks := make([]blockResult, 0, len(r.Blocks)+1)
	blocks = append(blocks, r.Blocks...)
	for _, b := range append(blocks, r.Total) {
		sb.WriteString(labelStyle.Render(b.Name) + "\n")
		fmt.Fprintf(&sb, "d a / d [R V] = %.6e\n", mat.Formatted(b.dense(), mat.Prefix("                "), mat.Squeeze()))
	}
	for _, p := range r.Parameters {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%s w.r.t. %s", p.Acceleration, p.Parameter)) + "\n")
		for _, row := range p.Partial {
			fmt.Fprintf(&sb, "  %v\n", row)
		}
	}
	return sb.String()
}
