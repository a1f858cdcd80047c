package statespace

import (
	"fmt"

	"github.com/hammal/control/gonumExtensions"
	"github.com/hammal/control/lti"
	"gonum.org/v1/gonum/mat"
)

// Neg returns the model with its output sign flipped. Negating a system's
// output negates C and D only; the state dynamics are untouched.
func (sys *StateSpace) Neg() *StateSpace {
	var c, d mat.Dense
	c.Scale(-1, sys.c)
	d.Scale(-1, sys.d)
	res, err := New(sys.a, sys.b, &c, &d, sys.st)
	if err != nil {
		panic(err)
	}
	return res
}

// Add returns the parallel connection of the two systems: both are driven by
// the same input and the outputs are summed. The state vectors are stacked,
// so the result has order n1+n2.
func (sys *StateSpace) Add(other *StateSpace) (*StateSpace, error) {
	m1, n1 := sys.d.Dims()
	m2, n2 := other.d.Dims()
	if m1 != m2 || n1 != n2 {
		return nil, fmt.Errorf("%w: D shapes %dx%d and %dx%d are not equal", ErrShapeMismatch, m1, n1, m2, n2)
	}

	st, ok := sys.st.Merge(other.st)
	if !ok {
		return nil, fmt.Errorf("%w: %v and %v", ErrIncompatibleSamplingTime, sys.st, other.st)
	}

	A := gonumExtensions.BlockDiag(sys.a, other.a)

	rb1, _ := sys.b.Dims()
	rb2, _ := other.b.Dims()
	B := mat.NewDense(rb1+rb2, n1, nil)
	B.Stack(sys.b, other.b)

	cc1, nc1 := sys.c.Dims()
	_, nc2 := other.c.Dims()
	C := mat.NewDense(cc1, nc1+nc2, nil)
	C.Augment(sys.c, other.c)

	var D mat.Dense
	D.Add(sys.d, other.d)

	return New(A, B, C, &D, st)
}

// Mul returns the series connection sys after other: the input drives other
// and other's output drives sys, so the composite maps other's input space
// to sys's output space. It requires sys.Inputs() == other.Outputs().
func (sys *StateSpace) Mul(other *StateSpace) (*StateSpace, error) {
	if sys.Inputs() != other.Outputs() {
		return nil, fmt.Errorf("%w: %d inputs of the left factor, %d outputs of the right",
			ErrShapeMismatch, sys.Inputs(), other.Outputs())
	}

	st, ok := sys.st.Merge(other.st)
	if !ok {
		return nil, fmt.Errorf("%w: %v and %v", ErrIncompatibleSamplingTime, sys.st, other.st)
	}

	n1 := sys.Order()
	n2 := other.Order()

	// A is block upper triangular: other's output couples into sys's state
	// through sys.B.
	A := gonumExtensions.BlockDiag(sys.a, other.a)
	coupling := A.Slice(0, n1, n1, n1+n2).(*mat.Dense)
	coupling.Mul(sys.b, other.c)

	var bd mat.Dense
	bd.Mul(sys.b, other.d)
	B := mat.NewDense(n1+n2, other.Inputs(), nil)
	B.Stack(&bd, other.b)

	var dc mat.Dense
	dc.Mul(sys.d, other.c)
	C := mat.NewDense(sys.Outputs(), n1+n2, nil)
	C.Augment(sys.c, &dc)

	var D mat.Dense
	D.Mul(sys.d, other.d)

	return New(A, B, C, &D, st)
}

// NewGain returns a static-gain model with m inputs and m outputs whose
// response is y = k u. The single state is unreachable and unobserved; it
// only keeps the quadruple well formed.
func NewGain(k float64, m int) *StateSpace {
	A := mat.NewDense(1, 1, nil)
	B := mat.NewDense(1, m, nil)
	C := mat.NewDense(m, 1, nil)
	var D mat.Dense
	D.Scale(k, gonumExtensions.Eye(m, m, 0))
	res, err := New(A, B, C, &D, lti.Continuous())
	if err != nil {
		panic(err)
	}
	return res
}

// MulGain returns the series connection of sys after a scalar gain k applied
// to every input channel.
func (sys *StateSpace) MulGain(k float64) *StateSpace {
	res, err := sys.Mul(NewGain(k, sys.Inputs()))
	if err != nil {
		panic(err)
	}
	return res
}
