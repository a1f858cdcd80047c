// Package statespace implements the state-space representation of linear
// time-invariant systems
//
//	x'(t) = A x(t) + B u(t)
//	y(t)  = C x(t) + D u(t)
//
// together with the algebraic operations on it: parallel and series
// composition, feedback closure, pole placement, controllability and
// observability analysis and the Lyapunov equation.
//
// Models are immutable after construction. Every operator returns a fresh
// model and never mutates its operands.
package statespace

import (
	"fmt"
	"strings"

	"github.com/hammal/control/gonumExtensions"
	"github.com/hammal/control/lti"
	"gonum.org/v1/gonum/mat"
)

// StateSpace is an LTI system held as the matrix quadruple (A, B, C, D)
// and a sampling-time tag. The zero tag denotes continuous time.
type StateSpace struct {
	a, b, c, d *mat.Dense
	st         lti.SamplingTime
}

// New validates the quadruple and returns a model holding dense copies of
// the four matrices. The invariants are
//
//	A is square (n by n)
//	B has n rows
//	C has n columns
//	D is rows(C) by cols(B)
//
// and any violation is reported as ErrShapeMismatch naming the offending
// pair and the two shapes involved.
func New(A, B, C, D mat.Matrix, st lti.SamplingTime) (*StateSpace, error) {
	ma, na := A.Dims()
	mb, nb := B.Dims()
	mc, nc := C.Dims()
	md, nd := D.Dims()

	if ma != na {
		return nil, fmt.Errorf("%w: A is %dx%d, expected square", ErrShapeMismatch, ma, na)
	}
	if mb != ma {
		return nil, fmt.Errorf("%w: B is %dx%d, expected %dx%d to match A", ErrShapeMismatch, mb, nb, ma, nb)
	}
	if nc != na {
		return nil, fmt.Errorf("%w: C is %dx%d, expected %dx%d to match A", ErrShapeMismatch, mc, nc, mc, na)
	}
	if md != mc || nd != nb {
		return nil, fmt.Errorf("%w: D is %dx%d, expected %dx%d to match C and B", ErrShapeMismatch, md, nd, mc, nb)
	}
	for i, m := range []mat.Matrix{A, B, C, D} {
		if gonumExtensions.NANORINF(m) {
			return nil, fmt.Errorf("%w: %c", ErrNonFinite, "ABCD"[i])
		}
	}

	return &StateSpace{
		a:  mat.DenseCopyOf(A),
		b:  mat.DenseCopyOf(B),
		c:  mat.DenseCopyOf(C),
		d:  mat.DenseCopyOf(D),
		st: st,
	}, nil
}

// A returns the state-transition matrix. The returned matrix must not be
// mutated.
func (sys *StateSpace) A() mat.Matrix { return sys.a }

// B returns the input matrix. The returned matrix must not be mutated.
func (sys *StateSpace) B() mat.Matrix { return sys.b }

// C returns the output matrix. The returned matrix must not be mutated.
func (sys *StateSpace) C() mat.Matrix { return sys.c }

// D returns the feedthrough matrix. The returned matrix must not be mutated.
func (sys *StateSpace) D() mat.Matrix { return sys.d }

// Realization exposes the quadruple, implementing lti.StateRealization.
func (sys *StateSpace) Realization() (A, B, C, D mat.Matrix) {
	return sys.a, sys.b, sys.c, sys.d
}

// Order returns the number of states n.
func (sys *StateSpace) Order() int {
	n, _ := sys.a.Dims()
	return n
}

// Inputs returns the number of input channels.
func (sys *StateSpace) Inputs() int {
	_, m := sys.b.Dims()
	return m
}

// Outputs returns the number of output channels.
func (sys *StateSpace) Outputs() int {
	p, _ := sys.c.Dims()
	return p
}

// SamplingTime returns the sampling-time tag of the model.
func (sys *StateSpace) SamplingTime() lti.SamplingTime {
	return sys.st
}

// Equal reports whether the two models have element-wise equal quadruples.
// The comparison is exact and ignores the sampling-time tag, which keeps it
// reproducible across construction paths.
func (sys *StateSpace) Equal(other *StateSpace) bool {
	return mat.Equal(sys.a, other.a) &&
		mat.Equal(sys.b, other.b) &&
		mat.Equal(sys.c, other.c) &&
		mat.Equal(sys.d, other.d)
}

// Pole returns the poles of the system, the eigenvalues of A. Complex
// conjugate pairs appear for oscillatory real systems.
func (sys *StateSpace) Pole() []complex128 {
	var eig mat.Eigen
	if !eig.Factorize(sys.a, mat.EigenNone) {
		panic("statespace: eigenvalue factorization failed")
	}
	return eig.Values(nil)
}

// IsGain reports whether the model is a pure gain, i.e. A, B and C are all
// zero and the response is y = D u.
func (sys *StateSpace) IsGain() bool {
	zero := func(m *mat.Dense) bool {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if m.At(i, j) != 0 {
					return false
				}
			}
		}
		return true
	}
	return zero(sys.a) && zero(sys.b) && zero(sys.c)
}

// DualSystem returns the dual of sys, the quadruple (A^T, C^T, B^T, D^T)
// with the same time base. Applying it twice returns an equal model.
func DualSystem(sys *StateSpace) *StateSpace {
	dual, err := New(sys.a.T(), sys.c.T(), sys.b.T(), sys.d.T(), sys.st)
	if err != nil {
		// The transposed quadruple of a valid model is always valid.
		panic(err)
	}
	return dual
}

func (sys *StateSpace) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A:\n%v\n\n", mat.Formatted(sys.a))
	fmt.Fprintf(&sb, "B:\n%v\n\n", mat.Formatted(sys.b))
	fmt.Fprintf(&sb, "C:\n%v\n\n", mat.Formatted(sys.c))
	fmt.Fprintf(&sb, "D:\n%v\n\n", mat.Formatted(sys.d))
	sb.WriteString(sys.st.String())
	return sb.String()
}
