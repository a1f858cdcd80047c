package statespace

import (
	"fmt"

	"github.com/hammal/control/lti"
	"gonum.org/v1/gonum/mat"
)

// Realizer is a system of another representation that can convert itself to
// a state-space model, e.g. a transfer function realizing its controllable
// canonical form. It is the explicit counterpart of routing unknown model
// kinds through a converter.
type Realizer interface {
	Realize() (*StateSpace, error)
}

// SS is the flexible model factory. It accepts either
//
//	SS(A, B, C, D)          four matrices, continuous time
//	SS(A, B, C, D, st)      four matrices and a sampling-time tag
//	SS(sys)                 a system to copy or convert
//
// where sys is an lti.StateRealization (copied) or a Realizer (converted).
// Any other argument count fails with ErrWrongArgumentCount.
func SS(args ...any) (*StateSpace, error) {
	switch len(args) {
	case 1:
		switch sys := args[0].(type) {
		case lti.StateRealization:
			A, B, C, D := sys.Realization()
			return New(A, B, C, D, sys.SamplingTime())
		case Realizer:
			return sys.Realize()
		default:
			return nil, fmt.Errorf("%w: cannot build a state-space model from %T",
				lti.ErrUnsupportedSystem, args[0])
		}
	case 4, 5:
		st := lti.Continuous()
		if len(args) == 5 {
			tag, ok := args[4].(lti.SamplingTime)
			if !ok {
				return nil, fmt.Errorf("%w: fifth argument must be an lti.SamplingTime, got %T",
					ErrWrongArgumentCount, args[4])
			}
			st = tag
		}
		matrices := make([]mat.Matrix, 4)
		for i, arg := range args[:4] {
			m, ok := arg.(mat.Matrix)
			if !ok {
				return nil, fmt.Errorf("%w: argument %d must be a mat.Matrix, got %T",
					ErrWrongArgumentCount, i+1, arg)
			}
			matrices[i] = m
		}
		return New(matrices[0], matrices[1], matrices[2], matrices[3], st)
	default:
		return nil, fmt.Errorf("%w: got %d", ErrWrongArgumentCount, len(args))
	}
}
