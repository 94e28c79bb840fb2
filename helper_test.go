package partials

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

var errEvaluation = errors.New("evaluation failure")

// vectorsEqual returns whether both vectors are equal within a relative tolerance.
func vectorsEqual(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !scalar.EqualWithinAbsOrRel(a[i], b[i], tol, tol) {
			return false
		}
	}
	return true
}

// linearForce is a = M [R V] for the state of a body.
type linearForce struct {
	state        StateAccessor
	M            *mat.Dense
	currentTime  float64
	acceleration []float64
	updates      int
	resets       int
	panicAt      int // panics on this update if positive
}

func newLinearForce(state StateAccessor, M *mat.Dense) *linearForce {
	return &linearForce{state: state, M: M, currentTime: NaT, acceleration: make([]float64, 3)}
}

func (f *linearForce) UpdateMembers(t float64) error {
	if SameEpoch(t, f.currentTime) {
		return nil
	}
	f.updates++
	if f.panicAt > 0 && f.updates == f.panicAt {
		panic("linear force failure")
	}
	var a mat.VecDense
	a.MulVec(f.M, mat.NewVecDense(6, f.state.State()))
	for i := 0; i < 3; i++ {
		f.acceleration[i] = a.AtVec(i)
	}
	f.currentTime = t
	return nil
}

func (f *linearForce) ResetTime(t float64) {
	f.resets++
	f.currentTime = t
}

func (f *linearForce) Acceleration() []float64 {
	return copyVec(f.acceleration)
}

// mockConditions provides a fixed density and the inertial velocity as airspeed.
type mockConditions struct {
	state       StateAccessor
	density     float64
	currentTime float64
	airspeed    []float64
	updates     int
	resets      int
	failAt      int // returns an error on this update if positive
}

func newMockConditions(state StateAccessor, density float64) *mockConditions {
	return &mockConditions{state: state, density: density, currentTime: NaT}
}

func (c *mockConditions) UpdateConditions(t float64) error {
	if SameEpoch(t, c.currentTime) {
		return nil
	}
	c.updates++
	if c.failAt > 0 && c.updates == c.failAt {
		return errEvaluation
	}
	c.airspeed = c.state.State()[3:6]
	c.currentTime = t
	return nil
}

func (c *mockConditions) ResetCurrentTime(t float64) {
	c.resets++
	c.currentTime = t
}

// quadraticDrag is a = k V² d with k = ½ρS/m and d a fixed direction.
type quadraticDrag struct {
	conditions   *mockConditions
	area, mass   float64
	direction    []float64
	currentTime  float64
	acceleration []float64
}

func (q *quadraticDrag) k() float64 {
	return 0.5 * q.conditions.density * q.area / q.mass
}

func (q *quadraticDrag) UpdateMembers(t float64) error {
	if SameEpoch(t, q.currentTime) {
		return nil
	}
	v2 := dot(q.conditions.airspeed, q.conditions.airspeed)
	for i := 0; i < 3; i++ {
		q.acceleration[i] = q.k() * v2 * q.direction[i]
	}
	q.currentTime = t
	return nil
}

func (q *quadraticDrag) ResetTime(t float64) {
	q.currentTime = t
}

func (q *quadraticDrag) Acceleration() []float64 {
	return copyVec(q.acceleration)
}

// testM is an arbitrary full rank 3x6 matrix.
func testM() *mat.Dense {
	return mat.NewDense(3, 6, []float64{
		1, -2, 0.5, 3, 0, -1,
		0.25, 4, -3, 1e-3, 2, 7,
		-6, 0, 1, 0.1, -0.2, 5})
}

func leoBody() *Body {
	return NewBody("sat", 500, []float64{6778136.3, 0, 0}, []float64{0, 7668.56, 0})
}

// callPartial calls a parameter partial function and returns the error it panicked with, if any.
func callPartial(fn PartialFunc, out *mat.Dense) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if err, ok = r.(error); !ok {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	fn(out)
	return nil
}

func isZero(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) != 0 || math.IsNaN(m.At(i, j)) {
				return false
			}
		}
	}
	return true
}
