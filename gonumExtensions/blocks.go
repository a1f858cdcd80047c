package gonumExtensions

import (
	"gonum.org/v1/gonum/mat"
)

// BlockDiag returns the block-diagonal composition
//
//	[a 0]
//	[0 b]
//
// of two matrices.
func BlockDiag(a, b mat.Matrix) *mat.Dense {
	ma, na := a.Dims()
	mb, nb := b.Dims()
	res := mat.NewDense(ma+mb, na+nb, nil)
	res.Slice(0, ma, 0, na).(*mat.Dense).Copy(a)
	res.Slice(ma, ma+mb, na, na+nb).(*mat.Dense).Copy(b)
	return res
}

// SymmetricBasis returns the (n by n) symmetric basis matrix with ones at
// (i, j) and (j, i) and zeros elsewhere.
func SymmetricBasis(n, i, j int) *mat.Dense {
	res := mat.NewDense(n, n, nil)
	res.Set(i, j, 1)
	res.Set(j, i, 1)
	return res
}

// Rank returns the numeric rank of a matrix, counting singular values above
// the conventional tolerance max(m, n) * eps * sigma_max.
func Rank(a mat.Matrix) int {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		panic("gonumExtensions: SVD factorization failed")
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[0] == 0 {
		return 0
	}
	m, n := a.Dims()
	size := m
	if n > size {
		size = n
	}
	tol := float64(size) * 2.220446049250313e-16 * values[0]
	rank := 0
	for _, sigma := range values {
		if sigma > tol {
			rank++
		}
	}
	return rank
}
