package partials

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ParameterKind identifies an estimable parameter type.
type ParameterKind uint8

const (
	// ConstantDragCoefficient is the constant drag coefficient of a body.
	ConstantDragCoefficient ParameterKind = iota + 1
	// ConstantAerodynamicCoefficients are the constant [C_D, C_S, C_L] coefficients of a body.
	ConstantAerodynamicCoefficients
	// GravitationalParameter is the gravitational parameter μ of a body.
	GravitationalParameter
	// RadiationPressureCoefficient is the solar radiation pressure coefficient of a body.
	RadiationPressureCoefficient
)

// Size returns the dimensionality of this parameter, or zero for an unknown kind.
func (k ParameterKind) Size() int {
	switch k {
	case ConstantDragCoefficient, GravitationalParameter, RadiationPressureCoefficient:
		return 1
	case ConstantAerodynamicCoefficients:
		return 3
	default:
		return 0
	}
}

// IsVector returns whether this parameter is vector valued.
func (k ParameterKind) IsVector() bool {
	return k.Size() > 1
}

func (k ParameterKind) String() string {
	switch k {
	case ConstantDragCoefficient:
		return "constant drag coefficient"
	case ConstantAerodynamicCoefficients:
		return "constant aerodynamic coefficients"
	case GravitationalParameter:
		return "gravitational parameter"
	case RadiationPressureCoefficient:
		return "radiation pressure coefficient"
	default:
		return fmt.Sprintf("unknown parameter (%d)", uint8(k))
	}
}

// Parameter identifies an estimable parameter associated to a body.
type Parameter struct {
	Kind ParameterKind
	Body string
}

func (p Parameter) String() string {
	return fmt.Sprintf("%s of %s", p.Kind, p.Body)
}

// PartialFunc writes the partial of an acceleration with respect to a parameter in out, which
// must either be empty or of size 3 x Kind.Size(). The partial is that of the last update of the
// acceleration partial: it panics with a StaleStateError if there was none or if the state changed since.
type PartialFunc func(out *mat.Dense)

// ParameterPartialRegistry maps estimable parameters to the functions computing the partial
// of an acceleration with respect to them. A parameter without entry has no dependency.
type ParameterPartialRegistry struct {
	entries map[Parameter]PartialFunc
}

// NewParameterPartialRegistry returns an empty registry.
func NewParameterPartialRegistry() *ParameterPartialRegistry {
	return &ParameterPartialRegistry{make(map[Parameter]PartialFunc)}
}

// Register adds a partial function for the provided parameter.
// Registering the same parameter twice is a configuration error.
func (r *ParameterPartialRegistry) Register(p Parameter, fn PartialFunc) error {
	if p.Kind.Size() == 0 {
		return fmt.Errorf("%w: cannot register %s", ErrInvalidConfiguration, p)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil partial function for %s", ErrInvalidConfiguration, p)
	}
	if _, exists := r.entries[p]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateParameter, p)
	}
	r.entries[p] = fn
	return nil
}

// ScalarPartial returns the partial function and its number of columns for a scalar parameter.
// Returns (nil, 0) if there is no dependency.
func (r *ParameterPartialRegistry) ScalarPartial(p Parameter) (PartialFunc, int) {
	if p.Kind.IsVector() {
		return nil, 0
	}
	return r.lookup(p)
}

// VectorPartial returns the partial function and its number of columns for a vector parameter.
// Returns (nil, 0) if there is no dependency.
func (r *ParameterPartialRegistry) VectorPartial(p Parameter) (PartialFunc, int) {
	if !p.Kind.IsVector() {
		return nil, 0
	}
	return r.lookup(p)
}

func (r *ParameterPartialRegistry) lookup(p Parameter) (PartialFunc, int) {
	fn, ok := r.entries[p]
	if !ok {
		return nil, 0
	}
	return fn, p.Kind.Size()
}

// Len returns the number of registered parameters.
func (r *ParameterPartialRegistry) Len() int {
	return len(r.entries)
}

// Parameters returns the registered parameters sorted by kind and body.
func (r *ParameterPartialRegistry) Parameters() []Parameter {
	params := make([]Parameter, 0, len(r.entries))
	for p := range r.entries {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool {
		if params[i].Kind != params[j].Kind {
			return params[i].Kind < params[j].Kind
		}
		return params[i].Body < params[j].Body
	})
	return params
}

// sizedOutput prepares out to receive a rows x cols block.
func sizedOutput(out *mat.Dense, rows, cols int) {
	if out.IsEmpty() {
		out.ReuseAs(rows, cols)
		return
	}
	if r, c := out.Dims(); r != rows || c != cols {
		panic(fmt.Errorf("partial output is %dx%d, expected %dx%d", r, c, rows, cols))
	}
}
