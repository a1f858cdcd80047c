package statespace_test

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hammal/control/lti"
	"github.com/hammal/control/statespace"
)

// The reference system 4/(s^2 + 0.5 s + 4) in state-space form.
func referenceSystem(t *testing.T) *statespace.StateSpace {
	t.Helper()
	sys, err := statespace.New(
		mat.NewDense(2, 2, []float64{0, 1, -4, -0.5}),
		mat.NewDense(2, 1, []float64{0, 1}),
		mat.NewDense(1, 2, []float64{4, 0}),
		mat.NewDense(1, 1, []float64{0}),
		lti.Continuous(),
	)
	require.NoError(t, err)
	return sys
}

func sortedPoles(poles []complex128) []complex128 {
	out := append([]complex128(nil), poles...)
	sort.Slice(out, func(i, j int) bool {
		if real(out[i]) != real(out[j]) {
			return real(out[i]) < real(out[j])
		}
		return imag(out[i]) < imag(out[j])
	})
	return out
}

func assertPolesEqual(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	w := sortedPoles(want)
	g := sortedPoles(got)
	for i := range w {
		assert.InDelta(t, real(w[i]), real(g[i]), tol)
		assert.InDelta(t, imag(w[i]), imag(g[i]), tol)
	}
}

func TestNewShapeInvariants(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{0, 1, -4, -0.5})
	B := mat.NewDense(2, 1, []float64{0, 1})
	C := mat.NewDense(1, 2, []float64{4, 0})
	D := mat.NewDense(1, 1, []float64{0})

	_, err := statespace.New(mat.NewDense(2, 3, nil), B, C, D, lti.Continuous())
	assert.ErrorIs(t, err, statespace.ErrShapeMismatch)

	// B and C swapped.
	_, err = statespace.New(A, C.T(), B.T(), D, lti.Continuous())
	assert.NoError(t, err) // transposes happen to fit

	_, err = statespace.New(A, C, B, D, lti.Continuous())
	assert.ErrorIs(t, err, statespace.ErrShapeMismatch)

	_, err = statespace.New(A, B, C, mat.NewDense(2, 2, nil), lti.Continuous())
	assert.ErrorIs(t, err, statespace.ErrShapeMismatch)

	_, err = statespace.New(A, mat.NewDense(3, 1, nil), C, D, lti.Continuous())
	assert.ErrorIs(t, err, statespace.ErrShapeMismatch)
}

func TestNewRejectsNonFinite(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{0, 1, -4, -0.5})
	B := mat.NewDense(2, 1, []float64{0, 1})
	C := mat.NewDense(1, 2, []float64{4, 0})
	D := mat.NewDense(1, 1, []float64{0})

	_, err := statespace.New(mat.NewDense(2, 2, []float64{0, 1, math.NaN(), -0.5}), B, C, D, lti.Continuous())
	assert.ErrorIs(t, err, statespace.ErrNonFinite)

	_, err = statespace.New(A, mat.NewDense(2, 1, []float64{0, math.Inf(1)}), C, D, lti.Continuous())
	assert.ErrorIs(t, err, statespace.ErrNonFinite)
}

func TestEqual(t *testing.T) {
	sys := referenceSystem(t)
	same := referenceSystem(t)
	assert.True(t, sys.Equal(same))
	assert.True(t, same.Equal(sys))

	other := same.Neg()
	assert.False(t, sys.Equal(other))
}

func TestNeg(t *testing.T) {
	sys := referenceSystem(t)
	neg := sys.Neg()

	assert.True(t, mat.Equal(sys.A(), neg.A()))
	assert.True(t, mat.Equal(sys.B(), neg.B()))
	assert.Equal(t, -4., neg.C().At(0, 0))
	assert.Equal(t, 0., neg.D().At(0, 0))

	// Negation is an involution.
	assert.True(t, sys.Equal(neg.Neg()))
}

func TestAddParallel(t *testing.T) {
	sys := referenceSystem(t)
	sum, err := sys.Add(sys)
	require.NoError(t, err)

	want, err := statespace.New(
		mat.NewDense(4, 4, []float64{
			0, 1, 0, 0,
			-4, -0.5, 0, 0,
			0, 0, 0, 1,
			0, 0, -4, -0.5,
		}),
		mat.NewDense(4, 1, []float64{0, 1, 0, 1}),
		mat.NewDense(1, 4, []float64{4, 0, 4, 0}),
		mat.NewDense(1, 1, []float64{0}),
		lti.Continuous(),
	)
	require.NoError(t, err)
	assert.True(t, sum.Equal(want))

	// The poles of the original system, each with multiplicity 2.
	poles := sys.Pole()
	assertPolesEqual(t, append(poles, poles...), sum.Pole(), 1e-9)
}

func TestAddShapeMismatch(t *testing.T) {
	sys := referenceSystem(t)
	wide := statespace.NewGain(1, 2)
	_, err := sys.Add(wide)
	assert.ErrorIs(t, err, statespace.ErrShapeMismatch)
}

func TestSamplingTimeReconciliation(t *testing.T) {
	A := mat.NewDense(1, 1, []float64{-1})
	B := mat.NewDense(1, 1, []float64{1})
	C := mat.NewDense(1, 1, []float64{1})
	D := mat.NewDense(1, 1, []float64{0})

	continuous, err := statespace.New(A, B, C, D, lti.Continuous())
	require.NoError(t, err)
	fast, err := statespace.New(A, B, C, D, lti.Discrete(0.1))
	require.NoError(t, err)
	slow, err := statespace.New(A, B, C, D, lti.Discrete(0.5))
	require.NoError(t, err)

	// Continuous is the wildcard: the discrete period wins.
	sum, err := continuous.Add(fast)
	require.NoError(t, err)
	assert.True(t, sum.SamplingTime().Equal(lti.Discrete(0.1)))

	sum, err = fast.Add(continuous)
	require.NoError(t, err)
	assert.True(t, sum.SamplingTime().Equal(lti.Discrete(0.1)))

	_, err = fast.Add(slow)
	assert.ErrorIs(t, err, statespace.ErrIncompatibleSamplingTime)

	_, err = fast.Mul(slow)
	assert.ErrorIs(t, err, statespace.ErrIncompatibleSamplingTime)

	// An explicit zero period never becomes a distinct discrete tag.
	assert.True(t, lti.Discrete(0).Equal(lti.Continuous()))
}

func TestMulSeries(t *testing.T) {
	first, err := statespace.New(
		mat.NewDense(1, 1, []float64{-1}),
		mat.NewDense(1, 1, []float64{1}),
		mat.NewDense(1, 1, []float64{2}),
		mat.NewDense(1, 1, []float64{1}),
		lti.Continuous(),
	)
	require.NoError(t, err)
	second, err := statespace.New(
		mat.NewDense(1, 1, []float64{-3}),
		mat.NewDense(1, 1, []float64{4}),
		mat.NewDense(1, 1, []float64{5}),
		mat.NewDense(1, 1, []float64{6}),
		lti.Continuous(),
	)
	require.NoError(t, err)

	series, err := second.Mul(first)
	require.NoError(t, err)

	// second after first:
	//   A = [A2 B2*C1; 0 A1], B = [B2*D1; B1], C = [C2 D2*C1], D = D2*D1
	want, err := statespace.New(
		mat.NewDense(2, 2, []float64{-3, 8, 0, -1}),
		mat.NewDense(2, 1, []float64{4, 1}),
		mat.NewDense(1, 2, []float64{5, 12}),
		mat.NewDense(1, 1, []float64{6}),
		lti.Continuous(),
	)
	require.NoError(t, err)
	assert.True(t, series.Equal(want))

	assert.Equal(t, 2, series.Order())
	assert.Equal(t, 1, series.Inputs())
	assert.Equal(t, 1, series.Outputs())
}

func TestMulShapeMismatch(t *testing.T) {
	siso := referenceSystem(t)
	mimo := statespace.NewGain(1, 2)
	_, err := siso.Mul(mimo)
	assert.ErrorIs(t, err, statespace.ErrShapeMismatch)
}

func TestGain(t *testing.T) {
	gain := statespace.NewGain(3, 2)
	assert.True(t, gain.IsGain())
	assert.Equal(t, 2, gain.Inputs())
	assert.Equal(t, 2, gain.Outputs())
	assert.Equal(t, 3., gain.D().At(0, 0))
	assert.Equal(t, 3., gain.D().At(1, 1))
	assert.Equal(t, 0., gain.D().At(0, 1))

	sys := referenceSystem(t)
	assert.False(t, sys.IsGain())

	scaled := sys.MulGain(2)
	// The feedthrough of the reference system is zero, so only the input
	// path scales.
	assert.Equal(t, 0., scaled.D().At(0, 0))
	assert.Equal(t, 1, scaled.Inputs())
}

func TestDualSystemInvolution(t *testing.T) {
	sys := referenceSystem(t)
	dual := statespace.DualSystem(sys)

	assert.True(t, mat.Equal(dual.A(), sys.A().T()))
	assert.True(t, mat.Equal(dual.B(), sys.C().T()))
	assert.True(t, mat.Equal(dual.C(), sys.B().T()))

	assert.True(t, statespace.DualSystem(dual).Equal(sys))
}

func TestPole(t *testing.T) {
	sys := referenceSystem(t)
	// s^2 + 0.5 s + 4 = 0 at -0.25 +/- i sqrt(4 - 1/16)
	im := math.Sqrt(4 - 1./16.)
	assertPolesEqual(t, []complex128{
		complex(-0.25, im),
		complex(-0.25, -im),
	}, sys.Pole(), 1e-9)
}

func TestTransferPolynomials(t *testing.T) {
	sys := referenceSystem(t)
	num, den, err := sys.TransferPolynomials()
	require.NoError(t, err)

	// 4 / (s^2 + 0.5 s + 4)
	wantDen := []float64{1, 0.5, 4}
	wantNum := []float64{0, 0, 4}
	require.Len(t, den, len(wantDen))
	require.Len(t, num, len(wantNum))
	for i := range wantDen {
		assert.InDelta(t, wantDen[i], den[i], 1e-9)
		assert.InDelta(t, wantNum[i], num[i], 1e-9)
	}

	zeros, err := sys.Zero()
	require.NoError(t, err)
	assert.Empty(t, zeros)
}

func TestSSFactory(t *testing.T) {
	A := mat.NewDense(2, 2, []float64{0, 1, -4, -0.5})
	B := mat.NewDense(2, 1, []float64{0, 1})
	C := mat.NewDense(1, 2, []float64{4, 0})
	D := mat.NewDense(1, 1, []float64{0})

	built, err := statespace.SS(A, B, C, D)
	require.NoError(t, err)
	assert.True(t, built.Equal(referenceSystem(t)))
	assert.True(t, built.SamplingTime().Equal(lti.Continuous()))

	tagged, err := statespace.SS(A, B, C, D, lti.Discrete(0.2))
	require.NoError(t, err)
	assert.True(t, tagged.SamplingTime().Equal(lti.Discrete(0.2)))

	copied, err := statespace.SS(built)
	require.NoError(t, err)
	assert.True(t, copied.Equal(built))

	_, err = statespace.SS(A, B)
	assert.ErrorIs(t, err, statespace.ErrWrongArgumentCount)

	_, err = statespace.SS(A, B, C, D, B)
	assert.ErrorIs(t, err, statespace.ErrWrongArgumentCount)

	_, err = statespace.SS("not a system")
	assert.True(t, errors.Is(err, lti.ErrUnsupportedSystem))
}

func TestFeedbackZeroGainCompensator(t *testing.T) {
	sys := referenceSystem(t)
	k := statespace.NewGain(0, 1)

	closed, err := sys.Feedback(k, statespace.NegativeFeedback)
	require.NoError(t, err)
	require.Equal(t, sys.Order()+k.Order(), closed.Order())

	n := sys.Order()
	// With k.D = 0 the loop matrix F is the identity and the plant blocks
	// survive unchanged.
	assert.True(t, mat.EqualApprox(sys.A(), closed.A().(*mat.Dense).Slice(0, n, 0, n), 1e-12))
	assert.True(t, mat.EqualApprox(sys.B(), closed.B().(*mat.Dense).Slice(0, n, 0, 1), 1e-12))
	assert.True(t, mat.EqualApprox(sys.C(), closed.C().(*mat.Dense).Slice(0, 1, 0, n), 1e-12))
	assert.True(t, mat.EqualApprox(sys.D(), closed.D(), 1e-12))
}

func TestFeedbackSingularLoop(t *testing.T) {
	plant := statespace.NewGain(1, 1)
	k := statespace.NewGain(1, 1)
	_, err := plant.Feedback(k, statespace.PositiveFeedback)
	assert.ErrorIs(t, err, statespace.ErrSingularFeedbackLoop)

	// Negative feedback around the same loop is fine: F = 2.
	closed, err := plant.Feedback(k, statespace.NegativeFeedback)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, closed.D().At(0, 0), 1e-12)
}

func TestFeedbackStabilizes(t *testing.T) {
	// Unstable first-order plant x' = x + u closed with gain 2 moves the
	// pole from +1 to -1.
	plant, err := statespace.New(
		mat.NewDense(1, 1, []float64{1}),
		mat.NewDense(1, 1, []float64{1}),
		mat.NewDense(1, 1, []float64{1}),
		mat.NewDense(1, 1, []float64{0}),
		lti.Continuous(),
	)
	require.NoError(t, err)

	closed, err := plant.Feedback(statespace.NewGain(2, 1), statespace.NegativeFeedback)
	require.NoError(t, err)

	poles := closed.Pole()
	var dynamic []complex128
	for _, p := range poles {
		// The gain model contributes an inert pole at the origin.
		if real(p) != 0 || imag(p) != 0 {
			dynamic = append(dynamic, p)
		}
	}
	require.Len(t, dynamic, 1)
	assert.InDelta(t, -1, real(dynamic[0]), 1e-9)
}
