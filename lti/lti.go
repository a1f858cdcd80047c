// Package lti holds the capability interfaces shared by the different
// representations of linear time-invariant systems. A model advertises what
// it can do by implementing these interfaces instead of being probed for
// attributes at runtime.
package lti

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrUnsupportedSystem indicates that an analysis was requested on a system
// kind it is not defined for, e.g. pole-zero extraction on a MIMO model.
var ErrUnsupportedSystem = errors.New("lti: unsupported system kind")

// System is the minimal contract every LTI representation fulfills.
type System interface {
	// Inputs returns the number of input channels.
	Inputs() int
	// Outputs returns the number of output channels.
	Outputs() int
	// SamplingTime reports whether the system evolves in continuous or
	// discrete time, and with which period.
	SamplingTime() SamplingTime
}

// SISO is a single-input single-output system whose poles and zeros can be
// computed. Zero may fail on representations where the zeros are only
// defined for the single-channel case.
type SISO interface {
	System
	Pole() []complex128
	Zero() ([]complex128, error)
}

// StateRealization is a system that exposes its state-space quadruple
// directly. The statespace factory copies such systems instead of routing
// them through a converter.
type StateRealization interface {
	System
	// Realization returns the (A, B, C, D) quadruple. The returned
	// matrices must not be mutated by the caller.
	Realization() (A, B, C, D mat.Matrix)
}
