package statespace

import (
	"github.com/hammal/control/gonumExtensions"
	"gonum.org/v1/gonum/mat"
)

// Lyapunov solves the Lyapunov equation of the system for a symmetric X:
//
//	continuous:  A^T X + X A   = -I
//	discrete:    A^T X A - X   = -I
//
// The symmetric unknown has n(n+1)/2 distinct entries. Pushing each
// symmetric basis matrix through the Lyapunov operator yields a square
// linear system over those entries, solved through the SVD pseudo-inverse;
// a rank-deficient but consistent system yields the minimum-norm solution.
//
// A nil result means the equation has no solution, which happens when the
// spectrum of A makes the operator singular (e.g. eigenvalue pairs summing
// to zero). That is a legitimate outcome, not an error.
//
// The assembled system is dense in O(n^2) unknowns, so the solve is meant
// for small state orders.
func Lyapunov(sys *StateSpace) *mat.Dense {
	n := sys.Order()
	unknowns := n * (n + 1) / 2
	discrete := sys.st.IsDiscrete()

	// Column u of the operator matrix is L(E_u) read off at the upper
	// triangle, where E_u is the symmetric basis matrix of unknown u.
	op := mat.NewDense(unknowns, unknowns, nil)
	rhs := mat.NewVecDense(unknowns, nil)
	col := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			E := gonumExtensions.SymmetricBasis(n, i, j)
			var L mat.Dense
			if discrete {
				// A^T E A - E
				L.Mul(sys.a.T(), E)
				L.Mul(&L, sys.a)
				L.Sub(&L, E)
			} else {
				// A^T E + E A
				var ea mat.Dense
				ea.Mul(E, sys.a)
				L.Mul(sys.a.T(), E)
				L.Add(&L, &ea)
			}
			row := 0
			for r := 0; r < n; r++ {
				for c := r; c < n; c++ {
					op.Set(row, col, L.At(r, c))
					row++
				}
			}
			col++
		}
	}
	row := 0
	for r := 0; r < n; r++ {
		for c := r; c < n; c++ {
			if r == c {
				rhs.SetVec(row, -1)
			}
			row++
		}
	}

	x, ok := leastSquares(op, rhs)
	if !ok {
		return nil
	}

	X := mat.NewDense(n, n, nil)
	idx := 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			X.Set(i, j, x.AtVec(idx))
			X.Set(j, i, x.AtVec(idx))
			idx++
		}
	}
	return X
}

// leastSquares computes the minimum-norm solution of op x = rhs through the
// SVD pseudo-inverse. ok is false when the system is inconsistent, i.e. the
// residual of the best solution is not negligible.
func leastSquares(op *mat.Dense, rhs *mat.VecDense) (*mat.VecDense, bool) {
	var svd mat.SVD
	if !svd.Factorize(op, mat.SVDThin) {
		return nil, false
	}
	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	m, _ := op.Dims()
	tol := float64(m) * 2.220446049250313e-16 * values[0]

	// x = V Sigma^+ U^T rhs
	var utb mat.VecDense
	utb.MulVec(u.T(), rhs)
	scaled := mat.NewVecDense(utb.Len(), nil)
	for i := 0; i < utb.Len(); i++ {
		if values[i] > tol {
			scaled.SetVec(i, utb.AtVec(i)/values[i])
		}
	}
	x := mat.NewVecDense(m, nil)
	x.MulVec(&v, scaled)

	var residual mat.VecDense
	residual.MulVec(op, x)
	residual.SubVec(&residual, rhs)
	if mat.Norm(&residual, 2) > 1e-8*(1+mat.Norm(rhs, 2)) {
		return nil, false
	}
	return x, true
}
