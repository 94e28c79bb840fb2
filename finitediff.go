package partials

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// CentralDifference returns the central difference Jacobian of f about the nominal state, where
// column i is (f(x+e_i*h_i) - f(x-e_i*h_i)) / (2*h_i).
// The nominal slice is never modified: f is called with perturbed copies. Any side effect f has
// on other objects must be undone by the caller after this function returns.
func CentralDifference(nominal, steps []float64, f func(state []float64) ([]float64, error)) (*mat.Dense, error) {
	if len(nominal) == 0 {
		return nil, fmt.Errorf("%w: empty nominal state", ErrInvalidConfiguration)
	}
	if !isFinite(nominal) {
		return nil, fmt.Errorf("%w: non finite nominal state %v", ErrInvalidConfiguration, nominal)
	}
	if err := validateSteps(steps, len(nominal)); err != nil {
		return nil, err
	}
	var jac *mat.Dense
	perturbed := make([]float64, len(nominal))
	for i, h := range steps {
		copy(perturbed, nominal)
		perturbed[i] += h
		up, err := f(perturbed)
		if err != nil {
			return nil, fmt.Errorf("evaluation at +h[%d]: %w", i, err)
		}
		// f may retain or reuse its result, so take a copy before the next evaluation.
		up = copyVec(up)
		copy(perturbed, nominal)
		perturbed[i] -= h
		down, err := f(perturbed)
		if err != nil {
			return nil, fmt.Errorf("evaluation at -h[%d]: %w", i, err)
		}
		if jac == nil {
			if len(up) == 0 {
				return nil, fmt.Errorf("%w: empty function output", ErrDimensionMismatch)
			}
			jac = mat.NewDense(len(up), len(nominal), nil)
		}
		rows, _ := jac.Dims()
		if len(up) != rows || len(down) != rows {
			return nil, fmt.Errorf("%w: output of size %d and %d, expected %d", ErrDimensionMismatch, len(up), len(down), rows)
		}
		for j := 0; j < rows; j++ {
			jac.Set(j, i, (up[j]-down[j])/(2*h))
		}
	}
	return jac, nil
}

// validateSteps checks that there are n usable perturbation steps.
func validateSteps(steps []float64, n int) error {
	if len(steps) != n {
		return fmt.Errorf("%w: %d perturbation steps for a state of size %d", ErrInvalidConfiguration, len(steps), n)
	}
	for i, h := range steps {
		if h == 0 || !isFinite(steps[i:i+1]) {
			return fmt.Errorf("%w: perturbation step %d is %f", ErrInvalidConfiguration, i, h)
		}
	}
	return nil
}

// UniformSteps returns the perturbation steps using the same step for all position components
// and the same step for all velocity components.
func UniformSteps(positionStep, velocityStep float64) []float64 {
	return []float64{positionStep, positionStep, positionStep, velocityStep, velocityStep, velocityStep}
}
