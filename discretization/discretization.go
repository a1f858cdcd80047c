// Package discretization converts continuous-time state-space models to
// discrete time under a zero-order hold on the input.
package discretization

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hammal/control/lti"
	"github.com/hammal/control/statespace"
	"gonum.org/v1/gonum/mat"
)

// ContinuousToDiscrete samples the model with period ts under a zero-order
// hold. The held dynamics come out of one matrix exponential of the
// augmented block matrix
//
//	exp([A B] ts) = [Ad Bd]
//	    ([0 0]   )   [0  I ]
//
// and C, D carry over unchanged.
//
// Calling it on an already-discrete model is almost always a mistake, so a
// warning is logged, but the call still re-discretizes the held matrices as
// if they were continuous, including when ts equals the current period.
func ContinuousToDiscrete(sys *statespace.StateSpace, ts float64) (*statespace.StateSpace, error) {
	if ts <= 0 {
		return nil, fmt.Errorf("discretization: sampling period must be positive, got %v", ts)
	}
	if st := sys.SamplingTime(); st.IsDiscrete() {
		log.Warn().
			Float64("period", st.Period()).
			Float64("requested", ts).
			Msg("discretizing an already-discrete system")
	}

	n := sys.Order()
	m := sys.Inputs()

	aug := mat.NewDense(n+m, n+m, nil)
	aug.Slice(0, n, 0, n).(*mat.Dense).Copy(sys.A())
	aug.Slice(0, n, n, n+m).(*mat.Dense).Copy(sys.B())
	aug.Scale(ts, aug)

	var expm mat.Dense
	expm.Exp(aug)

	Ad := expm.Slice(0, n, 0, n)
	Bd := expm.Slice(0, n, n, n+m)
	return statespace.New(Ad, Bd, sys.C(), sys.D(), lti.Discrete(ts))
}
