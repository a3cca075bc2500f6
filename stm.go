package moda

import (
	"github.com/ChristopherRabotin/gokalman"
	"github.com/gonum/matrix/mat64"
)

// The STM travels inside the integrator state vector as 36 trailing values.
// Packing is row-major: element (i,j) of Φ lives at offset i*6+j. Pack and
// Unpack are the only places where that convention exists; a mismatch between
// the two would silently transpose the STM, so they are kept as a single
// tested pair.

// PackSTM flattens the 6x6 STM into the trailing 36 slots of s, row-major.
func PackSTM(Φ *mat64.Dense, s []float64) {
	idx := len(s) - 36
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			s[idx] = Φ.At(i, j)
			idx++
		}
	}
}

// UnpackSTM rebuilds the 6x6 STM from the trailing 36 slots of s, row-major.
func UnpackSTM(s []float64) *mat64.Dense {
	Φ := mat64.NewDense(6, 6, nil)
	idx := len(s) - 36
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			Φ.Set(i, j, s[idx])
			idx++
		}
	}
	return Φ
}

// IdentitySTM returns the initial STM, the 6x6 identity.
func IdentitySTM() *mat64.Dense {
	return gokalman.DenseIdentity(6)
}

// SystemMatrix builds the 6x6 variational system matrix
// [[0, I], [∂a/∂r, ∂a/∂v]] from the summed force Jacobians. It is rebuilt at
// every derivative evaluation, never stored.
func SystemMatrix(total Contribution) *mat64.Dense {
	A := mat64.NewDense(6, 6, nil)
	A.Set(0, 3, 1)
	A.Set(1, 4, 1)
	A.Set(2, 5, 1)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A.Set(3+i, j, total.DadR.At(i, j))
			A.Set(3+i, 3+j, total.DadV.At(i, j))
		}
	}
	return A
}
