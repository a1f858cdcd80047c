// Package pzmap extracts the pole and zero sets a pole-zero map plots. The
// rendering itself is left to the caller; this package only produces the
// two complex vectors.
package pzmap

import (
	"fmt"

	"github.com/hammal/control/lti"
)

// PZMap returns the poles and zeros of a SISO LTI system. Systems that are
// not single-input single-output, or that cannot compute their poles and
// zeros, are rejected with lti.ErrUnsupportedSystem.
func PZMap(sys lti.System) (poles, zeros []complex128, err error) {
	siso, ok := sys.(lti.SISO)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %T cannot compute poles and zeros",
			lti.ErrUnsupportedSystem, sys)
	}
	if sys.Inputs() != 1 || sys.Outputs() != 1 {
		return nil, nil, fmt.Errorf("%w: pole-zero map needs a SISO system, have %d inputs and %d outputs",
			lti.ErrUnsupportedSystem, sys.Inputs(), sys.Outputs())
	}

	zeros, err = siso.Zero()
	if err != nil {
		return nil, nil, err
	}
	return siso.Pole(), zeros, nil
}
