package tools

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence is returned when a root finder exhausts its iterations or stalls.
var ErrNoConvergence = errors.New("tools: root finder did not converge")

// Secant finds a root of f with the secant method, starting from the two initial guesses.
// It stops when two successive iterates differ by less than tol (absolute), or when f is exactly
// zero, and returns ErrNoConvergence after maxIter iterations or if the secant slope vanishes.
func Secant(f func(x float64) (float64, error), x0, x1, tol float64, maxIter int) (float64, error) {
	if tol <= 0 || maxIter <= 0 {
		return math.NaN(), fmt.Errorf("secant: invalid tolerance %g or maximum iterations %d", tol, maxIter)
	}
	if x0 == x1 {
		return math.NaN(), fmt.Errorf("secant: initial guesses must differ (got %g twice)", x0)
	}
	f0, err := f(x0)
	if err != nil {
		return math.NaN(), err
	}
	if f0 == 0 {
		return x0, nil
	}
	f1, err := f(x1)
	if err != nil {
		return math.NaN(), err
	}
	for i := 0; i < maxIter; i++ {
		if f1 == 0 {
			return x1, nil
		}
		if f1 == f0 {
			return x1, fmt.Errorf("%w: zero slope after %d iterations at x=%g", ErrNoConvergence, i, x1)
		}
		x2 := x1 - f1*(x1-x0)/(f1-f0)
		if math.IsNaN(x2) || math.IsInf(x2, 0) {
			return x1, fmt.Errorf("%w: diverged after %d iterations", ErrNoConvergence, i)
		}
		if math.Abs(x2-x1) < tol {
			return x2, nil
		}
		x0, f0 = x1, f1
		x1 = x2
		if f1, err = f(x1); err != nil {
			return math.NaN(), err
		}
	}
	return x1, fmt.Errorf("%w: %d iterations exhausted at x=%g", ErrNoConvergence, maxIter, x1)
}
