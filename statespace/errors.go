package statespace

import "errors"

// Sentinel errors for the statespace package.
// Use errors.Is to check: errors.Is(err, statespace.ErrShapeMismatch)
var (
	// ErrShapeMismatch indicates matrix dimensions violate a model invariant.
	ErrShapeMismatch = errors.New("statespace: matrix shape mismatch")
	// ErrIncompatibleSamplingTime indicates two discrete systems with
	// different sampling periods were combined.
	ErrIncompatibleSamplingTime = errors.New("statespace: different sampling times")
	// ErrSingularFeedbackLoop indicates the feedback closure has no
	// well-defined solution.
	ErrSingularFeedbackLoop = errors.New("statespace: singular feedback loop")
	// ErrNotControllable indicates a canonical-form transform or pole
	// placement was attempted on a system that is not controllable.
	ErrNotControllable = errors.New("statespace: system is not controllable")
	// ErrWrongArgumentCount indicates the flexible factory was called with
	// neither 1 nor 4 matrix arguments.
	ErrWrongArgumentCount = errors.New("statespace: 1 or 4 arguments expected")
	// ErrNonFinite indicates a quadruple matrix carries a NaN or Inf entry.
	ErrNonFinite = errors.New("statespace: non-finite matrix entry")
)
