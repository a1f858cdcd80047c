// Package transferfunction implements the SISO rational transfer-function
// representation of an LTI system and the bidirectional conversion to the
// state-space representation.
package transferfunction

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hammal/control/gonumExtensions"
	"github.com/hammal/control/lti"
)

// Sentinel errors for the transferfunction package.
var (
	// ErrZeroDenominator indicates an empty or all-zero denominator.
	ErrZeroDenominator = errors.New("transferfunction: denominator is zero")
	// ErrImproper indicates the numerator degree exceeds the denominator
	// degree, so no state-space realization exists.
	ErrImproper = errors.New("transferfunction: improper transfer function")
)

// TransferFunction is a SISO rational function of the Laplace (or z)
// variable, held as numerator and denominator coefficients in descending
// power order. Immutable after construction.
type TransferFunction struct {
	num, den []float64
	st       lti.SamplingTime
}

// New builds a transfer function from descending-order coefficients.
// Leading zero coefficients are trimmed and both polynomials are scaled so
// the denominator is monic, making equality independent of a common factor.
func New(num, den []float64, st lti.SamplingTime) (*TransferFunction, error) {
	num = trimLeadingZeros(num)
	den = trimLeadingZeros(den)
	if len(den) == 0 {
		return nil, ErrZeroDenominator
	}

	scale := den[0]
	normNum := make([]float64, len(num))
	for i, c := range num {
		normNum[i] = c / scale
	}
	normDen := make([]float64, len(den))
	for i, c := range den {
		normDen[i] = c / scale
	}
	return &TransferFunction{num: normNum, den: normDen, st: st}, nil
}

func trimLeadingZeros(coeffs []float64) []float64 {
	start := 0
	for start < len(coeffs) && coeffs[start] == 0 {
		start++
	}
	out := make([]float64, len(coeffs)-start)
	copy(out, coeffs[start:])
	return out
}

// Num returns a copy of the normalized numerator coefficients.
func (tf *TransferFunction) Num() []float64 {
	return append([]float64(nil), tf.num...)
}

// Den returns a copy of the normalized (monic) denominator coefficients.
func (tf *TransferFunction) Den() []float64 {
	return append([]float64(nil), tf.den...)
}

// Inputs returns 1; the representation is single-input.
func (tf *TransferFunction) Inputs() int { return 1 }

// Outputs returns 1; the representation is single-output.
func (tf *TransferFunction) Outputs() int { return 1 }

// SamplingTime returns the sampling-time tag.
func (tf *TransferFunction) SamplingTime() lti.SamplingTime { return tf.st }

// Order returns the denominator degree.
func (tf *TransferFunction) Order() int { return len(tf.den) - 1 }

// Pole returns the roots of the denominator.
func (tf *TransferFunction) Pole() []complex128 {
	return gonumExtensions.PolyRoots(tf.den)
}

// Zero returns the roots of the numerator.
func (tf *TransferFunction) Zero() ([]complex128, error) {
	return gonumExtensions.PolyRoots(tf.num), nil
}

// Equal reports whether the two normalized coefficient sets agree within a
// relative floating tolerance.
func (tf *TransferFunction) Equal(other *TransferFunction) bool {
	return coeffsEqual(tf.num, other.num) && coeffsEqual(tf.den, other.den)
}

func coeffsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9*(1+math.Abs(a[i])) {
			return false
		}
	}
	return true
}

func (tf *TransferFunction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "num: %v\nden: %v\n%v", tf.num, tf.den, tf.st)
	return sb.String()
}
