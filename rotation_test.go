package moda

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestR3Rotation(t *testing.T) {
	// A quarter turn about the third axis maps x onto -y in the rotated frame.
	v := MxV33(R3(math.Pi/2), []float64{1, 0, 0})
	if !floats.EqualWithinAbs(v[0], 0, 1e-14) || !floats.EqualWithinAbs(v[1], -1, 1e-14) {
		t.Fatalf("R3 quarter turn fail: %+v", v)
	}
}

func TestPQW2ECIIdentity(t *testing.T) {
	// With all angles zero, the perifocal frame is the inertial frame.
	v := PQW2ECI(0, 0, 0, []float64{1, 2, 3})
	if !vectorsEqual(v, []float64{1, 2, 3}) {
		t.Fatalf("PQW2ECI(0,0,0) not identity: %+v", v)
	}
}

func TestRTN2Inertial(t *testing.T) {
	R := []float64{6524.834, 6862.875, 6448.296}
	V := []float64{4.901327, 5.533756, -1.976341}
	dcm, err := RTN2Inertial(R, V)
	if err != nil {
		t.Fatal(err)
	}
	// First column is the unit radial direction.
	rHat := unit(R)
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(dcm.At(i, 0), rHat[i], 1e-14) {
			t.Fatal("radial column invalid")
		}
	}
	// Third column is along the angular momentum.
	nHat := unit(cross(R, V))
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(dcm.At(i, 2), nHat[i], 1e-14) {
			t.Fatal("normal column invalid")
		}
	}
	// Columns are orthonormal.
	for c1 := 0; c1 < 3; c1++ {
		for c2 := 0; c2 < 3; c2++ {
			d := dcm.At(0, c1)*dcm.At(0, c2) + dcm.At(1, c1)*dcm.At(1, c2) + dcm.At(2, c1)*dcm.At(2, c2)
			exp := 0.0
			if c1 == c2 {
				exp = 1.0
			}
			if !floats.EqualWithinAbs(d, exp, 1e-13) {
				t.Fatalf("columns %d and %d not orthonormal: %f", c1, c2, d)
			}
		}
	}
}

func TestRTN2InertialDegenerate(t *testing.T) {
	if _, err := RTN2Inertial([]float64{0, 0, 0}, []float64{1, 0, 0}); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatal("zero position should be degenerate")
	}
	// Radial velocity: no angular momentum, no frame.
	if _, err := RTN2Inertial([]float64{7000, 0, 0}, []float64{1, 0, 0}); !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatal("zero angular momentum should be degenerate")
	}
}
