package transferfunction

import (
	"fmt"

	"github.com/hammal/control/statespace"
	"gonum.org/v1/gonum/mat"
)

// Realize returns the controllable canonical realization of the transfer
// function: the companion A with the negated denominator coefficients in its
// last row, B = [0 ... 0 1]^T, C holding the strictly proper numerator
// coefficients in ascending order and D the direct term. The transfer
// function must be proper.
func (tf *TransferFunction) Realize() (*statespace.StateSpace, error) {
	n := tf.Order()
	if len(tf.num) > len(tf.den) {
		return nil, fmt.Errorf("%w: numerator degree %d, denominator degree %d",
			ErrImproper, len(tf.num)-1, n)
	}
	if n == 0 {
		// A pure gain still needs one state to carry a valid quadruple.
		gain := 0.
		if len(tf.num) == 1 {
			gain = tf.num[0]
		}
		return statespace.New(
			mat.NewDense(1, 1, nil),
			mat.NewDense(1, 1, nil),
			mat.NewDense(1, 1, nil),
			mat.NewDense(1, 1, []float64{gain}),
			tf.st,
		)
	}

	// Split off the direct term so the remaining numerator is strictly
	// proper: num = d*den + rem.
	d := 0.
	rem := append([]float64(nil), tf.num...)
	if len(tf.num) == len(tf.den) {
		d = tf.num[0]
		for i := range rem {
			rem[i] -= d * tf.den[i]
		}
		rem = rem[1:]
	}

	A := mat.NewDense(n, n, nil)
	for row := 0; row < n-1; row++ {
		A.Set(row, row+1, 1)
	}
	for col := 0; col < n; col++ {
		A.Set(n-1, col, -tf.den[n-col])
	}

	B := mat.NewDense(n, 1, nil)
	B.Set(n-1, 0, 1)

	C := mat.NewDense(1, n, nil)
	for i, c := range rem {
		// rem is descending of degree len(rem)-1; coefficient of s^j
		// lands at column j.
		C.Set(0, len(rem)-1-i, c)
	}

	D := mat.NewDense(1, 1, []float64{d})
	return statespace.New(A, B, C, D, tf.st)
}

// TF2SS converts a transfer function into its controllable canonical
// state-space realization.
func TF2SS(tf *TransferFunction) (*statespace.StateSpace, error) {
	return tf.Realize()
}

// SS2TF converts a SISO state-space model into its transfer function via
// the Faddeev-LeVerrier expansion of C adj(sI-A) B + D det(sI-A).
func SS2TF(sys *statespace.StateSpace) (*TransferFunction, error) {
	num, den, err := sys.TransferPolynomials()
	if err != nil {
		return nil, err
	}
	return New(num, den, sys.SamplingTime())
}
