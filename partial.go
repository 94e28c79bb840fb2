package partials

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// PropagatedStateType defines the kind of propagated state an acceleration may depend on.
type PropagatedStateType uint8

const (
	// TranslationalState is the Cartesian position and velocity.
	TranslationalState PropagatedStateType = iota + 1
	// RotationalState is the attitude and angular velocity.
	RotationalState
	// BodyMassState is the mass of a body.
	BodyMassState
)

func (t PropagatedStateType) String() string {
	switch t {
	case TranslationalState:
		return "translational"
	case RotationalState:
		return "rotational"
	case BodyMassState:
		return "body mass"
	default:
		return fmt.Sprintf("unknown state type (%d)", uint8(t))
	}
}

// StateReference identifies the body (and point on the body) a propagated state belongs to.
type StateReference struct {
	Body  string
	Point string
}

// AccelerationPartial computes and caches the partials of an acceleration exerted by one body on
// another. Update must be called at each epoch before any of the accessors.
// Implementations are not safe for concurrent use, and updates of partials sharing a state
// accessor or models must not be interleaved.
type AccelerationPartial interface {
	AcceleratedBody() string
	AcceleratingBody() string
	// Update recomputes the partials for time t.
	Update(t float64) error
	// Epoch returns the time of the last successful update, and false if there was none.
	Epoch() (float64, bool)
	WrtPositionOfAcceleratedBody(out *mat.Dense, add bool, row, col int) error
	WrtVelocityOfAcceleratedBody(out *mat.Dense, add bool, row, col int) error
	WrtPositionOfAcceleratingBody(out *mat.Dense, add bool, row, col int) error
	WrtVelocityOfAcceleratingBody(out *mat.Dense, add bool, row, col int) error
	IsDependentOnNonTranslationalState(ref StateReference, kind PropagatedStateType) (bool, error)
	ScalarParameterPartial(p Parameter) (PartialFunc, int)
	VectorParameterPartial(p Parameter) (PartialFunc, int)
}

// Option configures an acceleration partial.
type Option func(*partialCache)

// WithLogger sets the logger of an acceleration partial.
func WithLogger(logger kitlog.Logger) Option {
	return func(c *partialCache) {
		c.logger = logger
	}
}

// partialCache stores the state partial block and implements the accessors shared by all
// acceleration partials.
type partialCache struct {
	accelerated, accelerating string
	block                     *mat.Dense // 3x6: d acceleration / d [R V] of the accelerated body
	epoch                     float64
	updated                   bool
	snapshot                  func() []float64 // state the block was computed from
	nominal                   []float64
	registry                  *ParameterPartialRegistry
	logger                    kitlog.Logger
}

func newPartialCache(kind, accelerated, accelerating string, snapshot func() []float64, opts []Option) partialCache {
	c := partialCache{
		accelerated:  accelerated,
		accelerating: accelerating,
		block:        mat.NewDense(3, 6, nil),
		epoch:        NaT,
		snapshot:     snapshot,
		registry:     NewParameterPartialRegistry(),
		logger:       kitlog.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	c.logger = kitlog.With(c.logger, "partial", kind, "accelerated", accelerated, "accelerating", accelerating)
	return c
}

func (c *partialCache) String() string {
	return c.accelerated + " <- " + c.accelerating
}

// AcceleratedBody returns the name of the body undergoing the acceleration.
func (c *partialCache) AcceleratedBody() string {
	return c.accelerated
}

// AcceleratingBody returns the name of the body exerting the acceleration.
func (c *partialCache) AcceleratingBody() string {
	return c.accelerating
}

// Epoch returns the time of the last successful update, and false if there was none.
func (c *partialCache) Epoch() (float64, bool) {
	return c.epoch, c.updated
}

// CheckEpoch returns a StaleStateError if the cached partials are not those of time t.
func (c *partialCache) CheckEpoch(t float64) error {
	if !c.updated {
		return &StaleStateError{c.String(), NaT, ErrNotUpdated}
	}
	if !SameEpoch(c.epoch, t) {
		return &StaleStateError{c.String(), c.epoch, fmt.Errorf("%w: requested %f", ErrEpochMismatch, t)}
	}
	return nil
}

// StatePartial returns a copy of the cached 3x6 block.
func (c *partialCache) StatePartial() (*mat.Dense, error) {
	if err := c.fresh(); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(c.block), nil
}

// Registry returns the parameter partial registry, which may be used to register additional partials.
func (c *partialCache) Registry() *ParameterPartialRegistry {
	return c.registry
}

// ScalarParameterPartial returns the partial function of a scalar parameter and its number of
// columns, or (nil, 0) if the acceleration does not depend on it.
func (c *partialCache) ScalarParameterPartial(p Parameter) (PartialFunc, int) {
	return c.registry.ScalarPartial(p)
}

// VectorParameterPartial returns the partial function of a vector parameter and its number of
// columns, or (nil, 0) if the acceleration does not depend on it.
func (c *partialCache) VectorParameterPartial(p Parameter) (PartialFunc, int) {
	return c.registry.VectorPartial(p)
}

// IsDependentOnNonTranslationalState returns whether the acceleration depends on a propagated
// state other than the translational state. No such dependency is supported: requesting the
// mass of either body returns ErrUnimplementedDependency rather than silently omitting it.
func (c *partialCache) IsDependentOnNonTranslationalState(ref StateReference, kind PropagatedStateType) (bool, error) {
	if kind == BodyMassState && (ref.Body == c.accelerated || ref.Body == c.accelerating) {
		return false, fmt.Errorf("%w: %s on %s state of %s", ErrUnimplementedDependency, c, kind, ref.Body)
	}
	return false, nil
}

// WrtPositionOfAcceleratedBody adds (or subtracts if add is false) the partial w.r.t. the
// position of the accelerated body into out at (row, col).
func (c *partialCache) WrtPositionOfAcceleratedBody(out *mat.Dense, add bool, row, col int) error {
	return c.addTo(out, 0, add, row, col)
}

// WrtVelocityOfAcceleratedBody adds (or subtracts if add is false) the partial w.r.t. the
// velocity of the accelerated body into out at (row, col).
func (c *partialCache) WrtVelocityOfAcceleratedBody(out *mat.Dense, add bool, row, col int) error {
	return c.addTo(out, 3, add, row, col)
}

// WrtPositionOfAcceleratingBody adds (or subtracts if add is false) the partial w.r.t. the
// position of the accelerating body into out at (row, col). It is the opposite of the
// accelerated body partial.
func (c *partialCache) WrtPositionOfAcceleratingBody(out *mat.Dense, add bool, row, col int) error {
	return c.addTo(out, 0, !add, row, col)
}

// WrtVelocityOfAcceleratingBody adds (or subtracts if add is false) the partial w.r.t. the
// velocity of the accelerating body into out at (row, col).
func (c *partialCache) WrtVelocityOfAcceleratingBody(out *mat.Dense, add bool, row, col int) error {
	return c.addTo(out, 3, !add, row, col)
}

func (c *partialCache) addTo(out *mat.Dense, stateCol int, add bool, row, col int) error {
	if err := c.fresh(); err != nil {
		return err
	}
	return AddBlock(out, c.block.Slice(0, 3, stateCol, stateCol+3), add, row, col)
}

// fresh returns a StaleStateError if the block was never computed or if the state changed since.
func (c *partialCache) fresh() error {
	if !c.updated {
		return &StaleStateError{c.String(), NaT, ErrNotUpdated}
	}
	if !floats.Equal(c.snapshot(), c.nominal) {
		return &StaleStateError{c.String(), c.epoch, ErrStateChanged}
	}
	return nil
}

// mustBeFresh panics with the StaleStateError of fresh. Parameter partial functions cannot return
// an error and must not write derivatives of a state other than the cached one.
func (c *partialCache) mustBeFresh() {
	if err := c.fresh(); err != nil {
		panic(err)
	}
}

// invalidate marks the cached block as unusable until the next store.
func (c *partialCache) invalidate() {
	c.updated = false
	c.epoch = NaT
}

// store caches the block computed at time t from the nominal state.
func (c *partialCache) store(t float64, block mat.Matrix, nominal []float64) {
	c.block.Copy(block)
	c.epoch = t
	c.nominal = copyVec(nominal)
	c.updated = true
	level.Debug(c.logger).Log("msg", "partials updated", "t", t)
}

// AddBlock adds (or subtracts if add is false) src into dst with its top left corner at (row, col).
func AddBlock(dst *mat.Dense, src mat.Matrix, add bool, row, col int) error {
	sr, sc := src.Dims()
	dr, dc := dst.Dims()
	if row < 0 || col < 0 || row+sr > dr || col+sc > dc {
		return fmt.Errorf("%w: %dx%d block at (%d, %d) in %dx%d matrix", ErrBlockBounds, sr, sc, row, col, dr, dc)
	}
	sign := 1.
	if !add {
		sign = -1
	}
	for i := 0; i < sr; i++ {
		for j := 0; j < sc; j++ {
			dst.Set(row+i, col+j, dst.At(row+i, col+j)+sign*src.At(i, j))
		}
	}
	return nil
}

// UpdateAll updates the provided partials in sequence, stopping at the first error.
func UpdateAll(t float64, partials ...AccelerationPartial) error {
	for _, p := range partials {
		if err := p.Update(t); err != nil {
			return fmt.Errorf("updating %s <- %s: %w", p.AcceleratedBody(), p.AcceleratingBody(), err)
		}
	}
	return nil
}
