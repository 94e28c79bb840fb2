package partials

import "fmt"

// StateAccessor gets and sets the Cartesian state [R V] of a body.
type StateAccessor interface {
	State() []float64
	SetState(s []float64)
}

// StateFuncs adapts a getter and a setter to a StateAccessor.
type StateFuncs struct {
	Get func() []float64
	Set func([]float64)
}

// State implements the StateAccessor interface.
func (f StateFuncs) State() []float64 {
	return f.Get()
}

// SetState implements the StateAccessor interface.
func (f StateFuncs) SetState(s []float64) {
	f.Set(s)
}

// Body is a minimal body state container: a name, a mass and a Cartesian state.
type Body struct {
	Name  string
	Mass  float64 // kg
	state []float64
}

// NewBody returns a new body at the provided position and velocity.
func NewBody(name string, mass float64, R, V []float64) *Body {
	if len(R) != 3 || len(V) != 3 {
		panic(fmt.Errorf("body %s: R and V must be 3x1 (got %d and %d)", name, len(R), len(V)))
	}
	return &Body{name, mass, []float64{R[0], R[1], R[2], V[0], V[1], V[2]}}
}

// State returns a copy of the current state.
func (b *Body) State() []float64 {
	return copyVec(b.state)
}

// SetState overwrites the current state.
func (b *Body) SetState(s []float64) {
	if len(s) != 6 {
		panic(fmt.Errorf("body %s: state must be 6x1 (got %d)", b.Name, len(s)))
	}
	copy(b.state, s)
}

// R returns the position vector.
func (b *Body) R() []float64 {
	return copyVec(b.state[0:3])
}

// V returns the velocity vector.
func (b *Body) V() []float64 {
	return copyVec(b.state[3:6])
}

// GetMass returns the mass of this body, and is used as a mass function by the force models.
func (b *Body) GetMass() float64 {
	return b.Mass
}

func (b *Body) String() string {
	return fmt.Sprintf("%s (m=%.3f kg) R=%v V=%v", b.Name, b.Mass, b.state[0:3], b.state[3:6])
}
