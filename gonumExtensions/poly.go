package gonumExtensions

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrConjugateRoots indicates a root set that is not closed under complex
// conjugation, so its monic polynomial has complex coefficients.
var ErrConjugateRoots = errors.New("gonumExtensions: roots are not closed under conjugation")

// PolyRoots returns the roots of the polynomial with the given coefficients
// in descending power order, computed as the eigenvalues of the companion
// matrix. Leading coefficients that are exactly zero are trimmed first. A
// constant polynomial has no roots.
func PolyRoots(coeffs []float64) []complex128 {
	start := 0
	for start < len(coeffs) && coeffs[start] == 0 {
		start++
	}
	coeffs = coeffs[start:]
	n := len(coeffs) - 1
	if n < 1 {
		return nil
	}

	// Companion matrix of the monic polynomial; its characteristic
	// polynomial is the input, so its eigenvalues are the roots.
	companion := mat.NewDense(n, n, nil)
	for row := 0; row < n-1; row++ {
		companion.Set(row, row+1, 1)
	}
	for col := 0; col < n; col++ {
		companion.Set(n-1, col, -coeffs[n-col]/coeffs[0])
	}

	var eig mat.Eigen
	if !eig.Factorize(companion, mat.EigenNone) {
		panic("gonumExtensions: eigenvalue factorization failed")
	}
	return eig.Values(nil)
}

// PolyFromRoots returns the real coefficients, in descending power order, of
// the monic polynomial with the given roots. Complex roots must appear in
// conjugate pairs, otherwise ErrConjugateRoots is returned; residual
// imaginary parts from rounding are dropped.
func PolyFromRoots(roots []complex128) ([]float64, error) {
	coeffs := make([]complex128, 1, len(roots)+1)
	coeffs[0] = 1
	for _, root := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * root
		}
		coeffs = next
	}
	res := make([]float64, len(coeffs))
	for i, c := range coeffs {
		if math.Abs(imag(c)) > 1e-9*(1+math.Abs(real(c))) {
			return nil, ErrConjugateRoots
		}
		res[i] = real(c)
	}
	return res, nil
}
