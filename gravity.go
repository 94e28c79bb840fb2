package partials

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CentralGravity is the point mass gravity acceleration of a body: a = -μ r / |r|³ where r is the
// position of the accelerated body relative to the accelerating body.
type CentralGravity struct {
	accelerated  StateAccessor
	accelerating StateAccessor // nil if the accelerating body is the origin
	μ            float64
	currentTime  float64
	r            []float64
	acceleration []float64
}

// NewCentralGravity returns the gravity of the provided body. The accelerating state may be nil
// if the accelerating body is at the origin.
func NewCentralGravity(accelerated, accelerating StateAccessor, body CelestialObject) (*CentralGravity, error) {
	if accelerated == nil {
		return nil, fmt.Errorf("%w: central gravity requires the accelerated body state", ErrInvalidConfiguration)
	}
	if !(body.GM() > 0) {
		return nil, fmt.Errorf("%w: %s has no gravitational parameter", ErrInvalidConfiguration, body)
	}
	return &CentralGravity{accelerated: accelerated, accelerating: accelerating, μ: body.GM(), currentTime: NaT, r: make([]float64, 3), acceleration: make([]float64, 3)}, nil
}

// UpdateMembers implements the ForceModel interface.
func (g *CentralGravity) UpdateMembers(t float64) error {
	if SameEpoch(t, g.currentTime) {
		return nil
	}
	r := g.relativePosition()
	rNorm := norm(r)
	if rNorm == 0 {
		return fmt.Errorf("%w: bodies are co-located", ErrInvalidConfiguration)
	}
	bodyAcc := -g.μ / math.Pow(rNorm, 3)
	for i := 0; i < 3; i++ {
		g.acceleration[i] = bodyAcc * r[i]
	}
	copy(g.r, r)
	g.currentTime = t
	return nil
}

func (g *CentralGravity) relativePosition() []float64 {
	r := copyVec(g.accelerated.State()[0:3])
	if g.accelerating != nil {
		origin := g.accelerating.State()
		for i := 0; i < 3; i++ {
			r[i] -= origin[i]
		}
	}
	return r
}

// ResetTime implements the ForceModel interface.
func (g *CentralGravity) ResetTime(t float64) {
	g.currentTime = t
}

// Acceleration implements the ForceModel interface.
func (g *CentralGravity) Acceleration() []float64 {
	return copyVec(g.acceleration)
}

// GM returns the gravitational parameter currently used.
func (g *CentralGravity) GM() float64 {
	return g.μ
}

// SetGM sets the gravitational parameter, e.g. after an estimator iteration.
func (g *CentralGravity) SetGM(μ float64) {
	g.μ = μ
	g.currentTime = NaT
}

// CentralGravityPartial computes the partials of a central gravity acceleration analytically.
type CentralGravityPartial struct {
	partialCache
	gravity *CentralGravity
}

// NewCentralGravityPartial returns a new central gravity partial, which depends on the
// gravitational parameter of the accelerating body.
func NewCentralGravityPartial(gravity *CentralGravity, accelerated, accelerating string, opts ...Option) (*CentralGravityPartial, error) {
	if gravity == nil {
		return nil, fmt.Errorf("%w: nil central gravity", ErrInvalidConfiguration)
	}
	p := &CentralGravityPartial{gravity: gravity}
	snapshot := func() []float64 {
		s := copyVec(gravity.accelerated.State())
		if gravity.accelerating != nil {
			s = append(s, gravity.accelerating.State()...)
		}
		return append(s, gravity.μ)
	}
	p.partialCache = newPartialCache("central gravity", accelerated, accelerating, snapshot, opts)
	if err := p.registry.Register(Parameter{GravitationalParameter, accelerating}, p.wrtGravitationalParameter); err != nil {
		return nil, err
	}
	return p, nil
}

// Update computes the position partial
// d a / d r = μ (3 r rᵀ / |r|⁵ - I / |r|³); the velocity partial is zero.
func (p *CentralGravityPartial) Update(t float64) error {
	p.invalidate()
	p.gravity.ResetTime(NaT)
	if err := p.gravity.UpdateMembers(t); err != nil {
		return fmt.Errorf("%s: %w", &p.partialCache, err)
	}
	r := p.gravity.r
	μ := p.gravity.μ
	r2 := dot(r, r)
	r232 := math.Pow(r2, 3/2.)
	r252 := math.Pow(r2, 5/2.)
	block := mat.NewDense(3, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dAiDj := 3 * μ * r[i] * r[j] / r252
			if i == j {
				dAiDj -= μ / r232
			}
			block.Set(i, j, dAiDj)
		}
	}
	p.store(t, block, p.snapshot())
	return nil
}

// wrtGravitationalParameter writes d a / d μ = -r / |r|³ at the last update. It panics with a
// StaleStateError if there was none or if the state changed since.
func (p *CentralGravityPartial) wrtGravitationalParameter(out *mat.Dense) {
	p.mustBeFresh()
	sizedOutput(out, 3, 1)
	r := p.gravity.r
	r3 := math.Pow(norm(r), 3)
	for i := 0; i < 3; i++ {
		out.Set(i, 0, -r[i]/r3)
	}
}
