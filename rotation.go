package partials

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// PQW2ECI rotates a vector from the perifocal frame to the inertial frame, given the inclination,
// the argument of periapsis and the right ascension of the ascending node in radians.
func PQW2ECI(i, ω, Ω float64, v []float64) []float64 {
	var m mat.Dense
	m.Mul(R3(-Ω), R1(-i))
	m.Mul(&m, R3(-ω))
	return MxV33(&m, v)
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v []float64) (o []float64) {
	vVec := mat.NewVecDense(len(v), v)
	var rVec mat.VecDense
	rVec.MulVec(m, vVec)
	return []float64{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}

// AerodynamicToInertial returns the rotation from the aerodynamic frame to the inertial frame
// for the provided inertial position and airspeed vectors. The x axis is along the airspeed,
// the z axis is along R x Vair and y completes the right handed frame.
// Returns nil if the airspeed is nil or parallel to the position.
func AerodynamicToInertial(R, Vair []float64) *mat.Dense {
	x := unit(Vair)
	z := unit(cross(R, Vair))
	if norm(x) == 0 || norm(z) == 0 {
		return nil
	}
	y := cross(z, x)
	// The frame unit vectors are the columns.
	return mat.NewDense(3, 3, []float64{
		x[0], y[0], z[0],
		x[1], y[1], z[1],
		x[2], y[2], z[2]})
}
