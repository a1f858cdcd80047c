package statespace

import (
	"fmt"
	"math"

	"github.com/hammal/control/gonumExtensions"
	"github.com/hammal/control/lti"
	"gonum.org/v1/gonum/mat"
)

// TransferPolynomials returns the numerator and denominator coefficients, in
// descending power order, of the transfer function of a SISO model,
//
//	G(s) = C adj(sI - A) B / det(sI - A) + D.
//
// The coefficients come from the Faddeev-LeVerrier recursion, which produces
// the characteristic polynomial and the adjugate expansion in one pass
// without a symbolic determinant.
func (sys *StateSpace) TransferPolynomials() (num, den []float64, err error) {
	if sys.Inputs() != 1 || sys.Outputs() != 1 {
		return nil, nil, fmt.Errorf("%w: transfer polynomials need a SISO model, have %d inputs and %d outputs",
			lti.ErrUnsupportedSystem, sys.Inputs(), sys.Outputs())
	}

	n := sys.Order()
	den = make([]float64, n+1)
	den[0] = 1
	num = make([]float64, n+1)
	num[0] = sys.d.At(0, 0)

	// Faddeev-LeVerrier: M_0 = I, d_k = -tr(A M_{k-1})/k,
	// M_k = A M_{k-1} + d_k I. The M_k are the descending coefficients of
	// adj(sI - A).
	M := mat.DenseCopyOf(gonumExtensions.Eye(n, n, 0))
	for k := 1; k <= n; k++ {
		var cm mat.Dense
		cm.Mul(sys.a, M)
		den[k] = -mat.Trace(&cm) / float64(k)

		var cb, cbm mat.Dense
		cb.Mul(sys.c, M)
		cbm.Mul(&cb, sys.b)
		num[k] = cbm.At(0, 0) + num[0]*den[k]

		if k < n {
			var scaled mat.Dense
			scaled.Scale(den[k], gonumExtensions.Eye(n, n, 0))
			cm.Add(&cm, &scaled)
			M = &cm
		}
	}
	return num, den, nil
}

// Zero returns the transmission zeros of a SISO model, the roots of the
// transfer-function numerator. Non-SISO models are rejected with
// lti.ErrUnsupportedSystem.
func (sys *StateSpace) Zero() ([]complex128, error) {
	num, _, err := sys.TransferPolynomials()
	if err != nil {
		return nil, err
	}
	return gonumExtensions.PolyRoots(trimLeading(num)), nil
}

// trimLeading drops numerically vanished leading coefficients so that
// rounding noise in the Faddeev recursion does not fabricate roots.
func trimLeading(coeffs []float64) []float64 {
	scale := 0.
	for _, c := range coeffs {
		scale = math.Max(scale, math.Abs(c))
	}
	tol := 1e-12 * (1 + scale)
	start := 0
	for start < len(coeffs) && math.Abs(coeffs[start]) <= tol {
		start++
	}
	return coeffs[start:]
}
