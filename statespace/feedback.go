package statespace

import (
	"fmt"

	"github.com/hammal/control/gonumExtensions"
	"gonum.org/v1/gonum/mat"
)

// Feedback loop signs.
const (
	PositiveFeedback = 1
	NegativeFeedback = -1
)

// Feedback closes sys in a feedback loop with the compensator k: the
// compensator is driven by sys's output and its response is added to
// (sign=+1) or subtracted from (sign=-1) the loop input. The compensator
// must map sys's output space back to its input space.
//
// The closure is only defined when F = I - sign*k.D*sys.D is invertible;
// otherwise ErrSingularFeedbackLoop is returned. The classic example is
// unity positive feedback around a unity gain.
//
// The result has order sys.Order()+k.Order() and carries the reconciled
// sampling time of the two operands, with the same rules as Add and Mul.
func (sys *StateSpace) Feedback(k *StateSpace, sign int) (*StateSpace, error) {
	if sign != PositiveFeedback && sign != NegativeFeedback {
		return nil, fmt.Errorf("statespace: feedback sign must be +1 or -1, got %d", sign)
	}
	if k.Inputs() != sys.Outputs() || k.Outputs() != sys.Inputs() {
		return nil, fmt.Errorf("%w: compensator is %dx%d, loop needs %dx%d",
			ErrShapeMismatch, k.Outputs(), k.Inputs(), sys.Inputs(), sys.Outputs())
	}

	st, ok := sys.st.Merge(k.st)
	if !ok {
		return nil, fmt.Errorf("%w: %v and %v", ErrIncompatibleSamplingTime, sys.st, k.st)
	}

	s := float64(sign)

	// F = I - sign k.D sys.D closes the algebraic loop through the two
	// feedthrough terms.
	var F mat.Dense
	F.Mul(k.d, sys.d)
	F.Scale(-s, &F)
	F.Add(gonumExtensions.Eye(sys.Inputs(), sys.Inputs(), 0), &F)

	if gonumExtensions.Rank(&F) < sys.Inputs() {
		return nil, fmt.Errorf("%w: I - sign*k.D*sys.D is rank deficient", ErrSingularFeedbackLoop)
	}
	var Finv mat.Dense
	if err := Finv.Inverse(&F); err != nil {
		if _, cond := err.(mat.Condition); !cond {
			return nil, fmt.Errorf("%w: %v", ErrSingularFeedbackLoop, err)
		}
	}

	// Intermediate loop-gain products shared by all blocks.
	var FinvD2, FinvC2, FinvD2C1, FinvD2D1 mat.Dense
	FinvD2.Mul(&Finv, k.d)
	FinvC2.Mul(&Finv, k.c)
	FinvD2C1.Mul(&FinvD2, sys.c)
	FinvD2D1.Mul(&FinvD2, sys.d)

	var signedB1, signedD1 mat.Dense
	signedB1.Scale(s, sys.b)
	signedD1.Scale(s, sys.d)

	n1 := sys.Order()
	n2 := k.Order()

	// A11 = A1 + sign B1 Finv D2 C1
	var A11 mat.Dense
	A11.Mul(&signedB1, &FinvD2C1)
	A11.Add(sys.a, &A11)
	// A12 = sign B1 Finv C2
	var A12 mat.Dense
	A12.Mul(&signedB1, &FinvC2)
	// A21 = B2 (C1 + sign D1 Finv D2 C1)
	var A21, tmp mat.Dense
	tmp.Mul(&signedD1, &FinvD2C1)
	tmp.Add(sys.c, &tmp)
	A21.Mul(k.b, &tmp)
	// A22 = A2 + sign B2 D1 Finv C2
	var A22, b2d1 mat.Dense
	b2d1.Mul(k.b, sys.d)
	A22.Mul(&b2d1, &FinvC2)
	A22.Scale(s, &A22)
	A22.Add(k.a, &A22)

	A := mat.NewDense(n1+n2, n1+n2, nil)
	A.Slice(0, n1, 0, n1).(*mat.Dense).Copy(&A11)
	A.Slice(0, n1, n1, n1+n2).(*mat.Dense).Copy(&A12)
	A.Slice(n1, n1+n2, 0, n1).(*mat.Dense).Copy(&A21)
	A.Slice(n1, n1+n2, n1, n1+n2).(*mat.Dense).Copy(&A22)

	// B1c = B1 + sign B1 Finv D2 D1
	var B1c mat.Dense
	B1c.Mul(&signedB1, &FinvD2D1)
	B1c.Add(sys.b, &B1c)
	// B2c = B2 D1 + sign B2 D1 Finv D2 D1
	var B2c mat.Dense
	B2c.Mul(&b2d1, &FinvD2D1)
	B2c.Scale(s, &B2c)
	B2c.Add(&b2d1, &B2c)

	B := mat.NewDense(n1+n2, sys.Inputs(), nil)
	B.Stack(&B1c, &B2c)

	// C1c = C1 + sign D1 Finv D2 C1
	var C1c mat.Dense
	C1c.Mul(&signedD1, &FinvD2C1)
	C1c.Add(sys.c, &C1c)
	// C2c = sign D1 Finv C2
	var C2c mat.Dense
	C2c.Mul(&signedD1, &FinvC2)

	C := mat.NewDense(sys.Outputs(), n1+n2, nil)
	C.Augment(&C1c, &C2c)

	// D = D1 + sign D1 Finv D2 D1
	var D mat.Dense
	D.Mul(&signedD1, &FinvD2D1)
	D.Add(sys.d, &D)

	return New(A, B, C, &D, st)
}
