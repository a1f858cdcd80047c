package statespace

import (
	"fmt"

	"github.com/hammal/control/gonumExtensions"
	"github.com/hammal/control/lti"
	"gonum.org/v1/gonum/mat"
)

// Controllability returns the Krylov matrix
//
//	[B  A B  A^2 B ... A^(n-1) B]
//
// whose rank decides whether every state can be reached from the input.
func (sys *StateSpace) Controllability() *mat.Dense {
	n := sys.Order()
	m := sys.Inputs()
	res := mat.NewDense(n, n*m, nil)

	block := mat.DenseCopyOf(sys.b)
	for i := 0; i < n; i++ {
		res.Slice(0, n, i*m, (i+1)*m).(*mat.Dense).Copy(block)
		if i < n-1 {
			var next mat.Dense
			next.Mul(sys.a, block)
			block = &next
		}
	}
	return res
}

// Observability returns the Krylov matrix
//
//	[C      ]
//	[C A    ]
//	[...    ]
//	[C A^(n-1)]
//
// whose rank decides whether the state can be inferred from the output.
func (sys *StateSpace) Observability() *mat.Dense {
	n := sys.Order()
	p := sys.Outputs()
	res := mat.NewDense(n*p, n, nil)

	block := mat.DenseCopyOf(sys.c)
	for i := 0; i < n; i++ {
		res.Slice(i*p, (i+1)*p, 0, n).(*mat.Dense).Copy(block)
		if i < n-1 {
			var next mat.Dense
			next.Mul(block, sys.a)
			block = &next
		}
	}
	return res
}

// IsControllable reports whether the controllability matrix has full rank n.
func (sys *StateSpace) IsControllable() bool {
	return gonumExtensions.Rank(sys.Controllability()) == sys.Order()
}

// IsObservable reports whether the observability matrix has full rank n.
func (sys *StateSpace) IsObservable() bool {
	return gonumExtensions.Rank(sys.Observability()) == sys.Order()
}

// ToControllableForm returns the similarity transform T bringing the system
// to controllable companion form: T^-1 A T is a companion matrix and
// T^-1 B = [0 ... 0 1]^T. The construction takes the last row p of the
// inverted controllability matrix and builds T^-1 from the rows p A^i.
//
// The controllability matrix must be square and invertible, which restricts
// the transform to controllable single-input systems; otherwise
// ErrNotControllable is returned.
func (sys *StateSpace) ToControllableForm() (*mat.Dense, error) {
	n := sys.Order()
	ctrb := sys.Controllability()
	if _, cols := ctrb.Dims(); cols != n {
		return nil, fmt.Errorf("%w: controllability matrix is %dx%d, expected square",
			ErrNotControllable, n, cols)
	}
	if gonumExtensions.Rank(ctrb) < n {
		return nil, fmt.Errorf("%w: controllability matrix has rank %d of %d",
			ErrNotControllable, gonumExtensions.Rank(ctrb), n)
	}

	var ctrbInv mat.Dense
	if err := ctrbInv.Inverse(ctrb); err != nil {
		if _, cond := err.(mat.Condition); !cond {
			return nil, fmt.Errorf("%w: %v", ErrNotControllable, err)
		}
	}

	p := mat.NewDense(1, n, mat.Row(nil, n-1, &ctrbInv))
	Tinv := mat.NewDense(n, n, nil)
	row := mat.DenseCopyOf(p)
	for i := 0; i < n; i++ {
		Tinv.Slice(i, i+1, 0, n).(*mat.Dense).Copy(row)
		if i < n-1 {
			var next mat.Dense
			next.Mul(row, sys.a)
			row = &next
		}
	}

	var T mat.Dense
	if err := T.Inverse(Tinv); err != nil {
		if _, cond := err.(mat.Condition); !cond {
			return nil, fmt.Errorf("%w: %v", ErrNotControllable, err)
		}
	}
	return &T, nil
}

// Place computes the state-feedback gain K such that A - B K has the given
// poles. The system is transformed to companion form, where the gain is the
// difference between the desired and the actual characteristic-polynomial
// coefficients, and the result is mapped back through T^-1.
//
// The pole list must contain exactly n values, with complex poles in
// conjugate pairs, and the system must be controllable.
func (sys *StateSpace) Place(poles []complex128) (*mat.Dense, error) {
	n := sys.Order()
	if len(poles) != n {
		return nil, fmt.Errorf("%w: %d poles for an order-%d system", ErrShapeMismatch, len(poles), n)
	}

	T, err := sys.ToControllableForm()
	if err != nil {
		return nil, err
	}
	var Tinv mat.Dense
	if err := Tinv.Inverse(T); err != nil {
		if _, cond := err.(mat.Condition); !cond {
			return nil, fmt.Errorf("%w: %v", ErrNotControllable, err)
		}
	}

	// Companion form of A; its last row holds the negated characteristic
	// coefficients in ascending power order.
	var Acomp, tmp mat.Dense
	tmp.Mul(&Tinv, sys.a)
	Acomp.Mul(&tmp, T)

	// Desired characteristic coefficients, leading 1 dropped; indexed below
	// in ascending power order against the companion last row.
	coeffs, err := gonumExtensions.PolyFromRoots(poles)
	if err != nil {
		return nil, err
	}
	desired := coeffs[1:]

	Kcomp := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		Kcomp.Set(0, i, desired[n-1-i]+Acomp.At(n-1, i))
	}

	var K mat.Dense
	K.Mul(Kcomp, &Tinv)
	return &K, nil
}

// Place computes the state-feedback gain K placing the poles of A - B K,
// without requiring a full model: C and D are irrelevant to placement.
func Place(A, B mat.Matrix, poles []complex128) (*mat.Dense, error) {
	n, _ := A.Dims()
	_, m := B.Dims()
	sys, err := New(A, B, mat.NewDense(1, n, nil), mat.NewDense(1, m, nil), lti.Continuous())
	if err != nil {
		return nil, err
	}
	return sys.Place(poles)
}
