package moda

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Rot313Vec rotates a given vector via a 3-1-3 Euler rotation.
func Rot313Vec(θ1, θ2, θ3 float64, vI []float64) []float64 {
	return MxV33(R3R1R3(θ1, θ2, θ3), vI)
}

// R3R1R3 performs a 3-1-3 Euler parameter rotation.
// From Schaub and Junkins.
func R3R1R3(θ1, θ2, θ3 float64) *mat64.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat64.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// PQW2ECI converts a given vector from the perifocal frame to the inertial frame.
func PQW2ECI(i, ω, Ω float64, vI []float64) []float64 {
	var mulM mat64.Dense
	mulM.Mul(R3(-Ω), R1(-i))
	mulM.Mul(&mulM, R3(-ω))
	return MxV33(&mulM, vI)
}

// RTN2Inertial builds the rotation matrix from the radial-transverse-normal
// frame of the given position and velocity to the inertial frame. Its columns
// are the unit radial, transverse and orbit-normal directions expressed in
// inertial coordinates. Returns an ErrDegenerateGeometry error if either the
// position or the angular momentum vector is too small to define the frame.
func RTN2Inertial(R, V []float64) (*mat64.Dense, error) {
	if norm(R) < minGeometryNorm {
		return nil, degenerateGeometry("position", norm(R))
	}
	h := cross(R, V)
	if norm(h) < minGeometryNorm {
		return nil, degenerateGeometry("angular momentum", norm(h))
	}
	rHat := unit(R)
	nHat := unit(h)
	tHat := cross(nHat, rHat)
	return mat64.NewDense(3, 3, []float64{rHat[0], tHat[0], nHat[0],
		rHat[1], tHat[1], nHat[1],
		rHat[2], tHat[2], nHat[2]}), nil
}
