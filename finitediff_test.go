package partials

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

func TestCentralDifferenceLinear(t *testing.T) {
	M := testM()
	linear := func(x []float64) ([]float64, error) {
		var a mat.VecDense
		a.MulVec(M, mat.NewVecDense(6, x))
		return a.RawVector().Data, nil
	}
	σ := mat.NewSymDense(6, nil)
	for i := 0; i < 6; i++ {
		σ.SetSym(i, i, 100)
	}
	states, ok := distmv.NewNormal(make([]float64, 6), σ, nil)
	if !ok {
		t.Fatal("could not build the state distribution")
	}
	steps := []float64{1e-3, 1e-3, 1e-3, 1e-3, 1e-3, 1e-3}
	for trial := 0; trial < 20; trial++ {
		nominal := states.Rand(nil)
		jac, err := CentralDifference(nominal, steps, linear)
		if err != nil {
			t.Fatalf("[%d] unexpected error: %s", trial, err)
		}
		if !mat.EqualApprox(jac, M, 1e-8) {
			t.Fatalf("[%d] incorrect Jacobian\n%v\nexpected\n%v", trial, mat.Formatted(jac), mat.Formatted(M))
		}
	}
}

func TestCentralDifferenceTruncationOrder(t *testing.T) {
	// For f(x) = x³ the central difference is exactly 3x² + h², so the error scales with h².
	cubic := func(x []float64) ([]float64, error) {
		return []float64{math.Pow(x[0], 3), math.Pow(x[1], 3)}, nil
	}
	nominal := []float64{1.5, -2}
	for _, h := range []float64{1e-1, 1e-2, 1e-3} {
		jac, err := CentralDifference(nominal, []float64{h, h}, cubic)
		if err != nil {
			t.Fatalf("h=%g: %s", h, err)
		}
		for i := 0; i < 2; i++ {
			exp := 3 * nominal[i] * nominal[i]
			if diff := math.Abs(jac.At(i, i) - exp); diff > 1.01*h*h+1e-9 {
				t.Fatalf("h=%g: error %g on column %d larger than h²", h, diff, i)
			}
			if jac.At(1-i, i) != 0 {
				t.Fatalf("h=%g: cross term (%d, %d) should be zero", h, 1-i, i)
			}
		}
	}
}

func TestCentralDifferenceInvalidSteps(t *testing.T) {
	f := func(x []float64) ([]float64, error) {
		return []float64{x[0]}, nil
	}
	nominal := []float64{1, 2, 3}
	for _, steps := range [][]float64{
		{1, 0, 1},
		{1, math.NaN(), 1},
		{1, 1, math.Inf(-1)},
		{1, 1},
		nil,
	} {
		if _, err := CentralDifference(nominal, steps, f); !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("steps %v: expected an invalid configuration error, got %v", steps, err)
		}
	}
	if _, err := CentralDifference(nil, nil, f); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("empty state: expected an invalid configuration error, got %v", err)
	}
	if _, err := CentralDifference([]float64{1, math.NaN(), 3}, []float64{1, 1, 1}, f); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("NaN state: expected an invalid configuration error, got %v", err)
	}
}

func TestCentralDifferenceNominalUntouched(t *testing.T) {
	nominal := []float64{1, 2, 3, 4, 5, 6}
	exp := copyVec(nominal)
	calls := 0
	f := func(x []float64) ([]float64, error) {
		calls++
		// Scribbling on the input must not leak into the nominal state.
		y := []float64{x[0] * x[3], x[1] + x[4], x[2] - x[5]}
		x[0] = 1e9
		return y, nil
	}
	if _, err := CentralDifference(nominal, UniformSteps(1e-2, 1e-2), f); err != nil {
		t.Fatal(err)
	}
	if calls != 12 {
		t.Fatalf("expected 12 evaluations, got %d", calls)
	}
	if !vectorsEqual(nominal, exp, 0) {
		t.Fatalf("nominal state modified: %v", nominal)
	}
}

func TestCentralDifferenceErrors(t *testing.T) {
	calls := 0
	failing := func(x []float64) ([]float64, error) {
		calls++
		if calls == 5 {
			return nil, errEvaluation
		}
		return []float64{x[0]}, nil
	}
	if _, err := CentralDifference([]float64{1, 2, 3}, []float64{1, 1, 1}, failing); !errors.Is(err, errEvaluation) {
		t.Fatalf("expected the evaluation error, got %v", err)
	}
	if calls != 5 {
		t.Fatalf("evaluations should stop at the first error, got %d calls", calls)
	}
	calls = 0
	varying := func(x []float64) ([]float64, error) {
		calls++
		return make([]float64, calls), nil
	}
	if _, err := CentralDifference([]float64{1, 2}, []float64{1, 1}, varying); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected a dimension mismatch, got %v", err)
	}
}
