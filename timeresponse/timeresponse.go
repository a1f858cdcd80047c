// Package timeresponse computes time-domain responses of state-space
// models: forced response with arbitrary per-channel inputs, step response
// and impulse response, over a caller-supplied time grid.
package timeresponse

import (
	"fmt"

	"github.com/hammal/control/ode"
	"github.com/hammal/control/signal"
	"github.com/hammal/control/statespace"
	"gonum.org/v1/gonum/mat"
)

// rk4StepsPerSample controls how finely the integrator subdivides each grid
// interval of a continuous model.
const rk4StepsPerSample = 8

// propagator adapts a model and its forcing inputs to the ode integrator:
// x'(t) = A x(t) + sum_j b_j u_j(t).
type propagator struct {
	sys    *statespace.StateSpace
	inputs []signal.VectorFunction
}

func (p propagator) Derivative(t float64, state mat.Vector) mat.Vector {
	res := mat.NewVecDense(p.sys.Order(), nil)
	res.MulVec(p.sys.A(), state)
	for _, input := range p.inputs {
		res.AddVec(res, input.Value(t))
	}
	return res
}

// Forced returns the response y to the per-channel inputs u on the time
// grid t, as [output][sample]float64 with the state starting at zero.
// Continuous models are integrated with RK4 between grid points; discrete
// models step the recurrence once per grid point, ignoring the spacing of t.
func Forced(sys *statespace.StateSpace, u []func(float64) float64, t []float64) ([][]float64, error) {
	if len(u) != sys.Inputs() {
		return nil, fmt.Errorf("timeresponse: %d input functions for %d channels", len(u), sys.Inputs())
	}

	res := make([][]float64, sys.Outputs())
	for i := range res {
		res[i] = make([]float64, len(t))
	}
	if len(t) == 0 {
		return res, nil
	}

	inputs := signal.Channels(sys.B(), u)
	state := mat.NewVecDense(sys.Order(), nil)
	record := func(k int) {
		// y = C x + D u(t_k)
		y := mat.NewVecDense(sys.Outputs(), nil)
		y.MulVec(sys.C(), state)
		uVec := mat.NewVecDense(sys.Inputs(), nil)
		for j := range u {
			uVec.SetVec(j, u[j](t[k]))
		}
		var feed mat.VecDense
		feed.MulVec(sys.D(), uVec)
		y.AddVec(y, &feed)
		for i := 0; i < sys.Outputs(); i++ {
			res[i][k] = y.AtVec(i)
		}
	}

	record(0)
	if sys.SamplingTime().IsDiscrete() {
		for k := 1; k < len(t); k++ {
			next := mat.NewVecDense(sys.Order(), nil)
			next.MulVec(sys.A(), state)
			for _, input := range inputs {
				next.AddVec(next, input.Value(t[k-1]))
			}
			state.CopyVec(next)
			record(k)
		}
		return res, nil
	}

	integrator := ode.NewRK4()
	system := propagator{sys: sys, inputs: inputs}
	for k := 1; k < len(t); k++ {
		integrator.Integrate(t[k-1], t[k], rk4StepsPerSample, state, system)
		record(k)
	}
	return res, nil
}

// Step returns the response to a unit step applied to every input channel
// at t = 0.
func Step(sys *statespace.StateSpace, t []float64) ([][]float64, error) {
	u := make([]func(float64) float64, sys.Inputs())
	for j := range u {
		u[j] = signal.Step
	}
	return Forced(sys, u, t)
}

// Impulse returns the impulse response of a continuous model evaluated on
// the grid t,
//
//	y(t) = C e^(A t) B
//
// as [output][sample]float64 summed over the input channels. The D delta
// contribution at t = 0 is not representable on a sample grid and is
// omitted. Discrete models respond to a unit pulse in the first sample
// instead.
func Impulse(sys *statespace.StateSpace, t []float64) ([][]float64, error) {
	if sys.SamplingTime().IsDiscrete() {
		u := make([]func(float64) float64, sys.Inputs())
		for j := range u {
			u[j] = func(x float64) float64 {
				if len(t) > 0 && x == t[0] {
					return 1
				}
				return 0
			}
		}
		return Forced(sys, u, t)
	}

	res := make([][]float64, sys.Outputs())
	for i := range res {
		res[i] = make([]float64, len(t))
	}
	ones := mat.NewVecDense(sys.Inputs(), nil)
	for j := 0; j < sys.Inputs(); j++ {
		ones.SetVec(j, 1)
	}
	for k, time := range t {
		var at, expm mat.Dense
		at.Scale(time, sys.A())
		expm.Exp(&at)

		var ce mat.Dense
		ce.Mul(sys.C(), &expm)
		var ceb mat.Dense
		ceb.Mul(&ce, sys.B())

		y := mat.NewVecDense(sys.Outputs(), nil)
		y.MulVec(&ceb, ones)
		for i := 0; i < sys.Outputs(); i++ {
			res[i][k] = y.AtVec(i)
		}
	}
	return res, nil
}
