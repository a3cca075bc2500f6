package moda

import (
	"errors"
	"math"
	"time"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinRel(a[i], b[i], 1e-3) {
			return false
		}
	}
	return true
}

// matricesEqualWithin compares element wise with max(absTol, relTol*|expected|).
func matricesEqualWithin(got, exp *mat64.Dense, absTol, relTol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			tol := absTol
			if rel := relTol * math.Abs(exp.At(i, j)); rel > tol {
				tol = rel
			}
			if math.Abs(got.At(i, j)-exp.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}

// fixedEphemeris serves positions from a map, standing in for the external
// ephemeris collaborator.
type fixedEphemeris struct {
	positions map[string][]float64
}

func (e fixedEphemeris) PositionOf(body, center CelestialBody, dt time.Time) ([]float64, error) {
	pos, found := e.positions[body.Name]
	if !found {
		return nil, missingEphemeris(body.Name, errNotConfigured)
	}
	return pos, nil
}

var errNotConfigured = errors.New("body not configured in test ephemeris")

// fdJacobianR estimates ∂a/∂r of a force model by centered differences.
func fdJacobianR(m ForceModel, R, V []float64, dt time.Time, ε float64) *mat64.Dense {
	J := mat64.NewDense(3, 3, nil)
	for j := 0; j < 3; j++ {
		Rp := append([]float64{}, R...)
		Rm := append([]float64{}, R...)
		Rp[j] += ε
		Rm[j] -= ε
		cp, err := m.Contribution(Rp, V, dt)
		if err != nil {
			panic(err)
		}
		cm, err := m.Contribution(Rm, V, dt)
		if err != nil {
			panic(err)
		}
		for i := 0; i < 3; i++ {
			J.Set(i, j, (cp.Accel[i]-cm.Accel[i])/(2*ε))
		}
	}
	return J
}

// fdJacobianV estimates ∂a/∂v of a force model by centered differences.
func fdJacobianV(m ForceModel, R, V []float64, dt time.Time, ε float64) *mat64.Dense {
	J := mat64.NewDense(3, 3, nil)
	for j := 0; j < 3; j++ {
		Vp := append([]float64{}, V...)
		Vm := append([]float64{}, V...)
		Vp[j] += ε
		Vm[j] -= ε
		cp, err := m.Contribution(R, Vp, dt)
		if err != nil {
			panic(err)
		}
		cm, err := m.Contribution(R, Vm, dt)
		if err != nil {
			panic(err)
		}
		for i := 0; i < 3; i++ {
			J.Set(i, j, (cp.Accel[i]-cm.Accel[i])/(2*ε))
		}
	}
	return J
}
