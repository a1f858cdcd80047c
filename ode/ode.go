// Package ode implements explicit Runge-Kutta methods,
// https://en.wikipedia.org/wiki/Runge–Kutta_methods, for integrating the
// state of a differentiable system forward in time.
package ode

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DifferentiableSystem is anything exposing a state derivative x'(t).
type DifferentiableSystem interface {
	Derivative(t float64, state mat.Vector) mat.Vector
}

// butcherTableau describes the approximate solution, see
// https://en.wikipedia.org/wiki/Runge–Kutta_methods.
type butcherTableau struct {
	stages           int
	weights          [][]float64
	nodes            []float64
	rungeKuttaMatrix [][]float64
}

// RungeKutta holds the butcherTableau which describes the Runge Kutta method.
type RungeKutta struct {
	description butcherTableau
}

// Stages returns the number of derivative evaluations per step.
func (rk RungeKutta) Stages() int {
	return rk.description.stages
}

// Step advances state from t = from to t = to in a single step and writes
// the result back into state. The returned vector is the embedded error
// estimate, zero for tableaus without one.
func (rk RungeKutta) Step(from, to float64, state *mat.VecDense, system DifferentiableSystem) *mat.VecDense {
	var tmp mat.VecDense

	M := state.Len()
	h := to - from
	K := make([]mat.Vector, rk.description.stages)
	for index := range K {
		tmp.CloneFromVec(state)
		// Combine the previously computed derivative points according to
		// the Butcher tableau row.
		for index2, a := range rk.description.rungeKuttaMatrix[index] {
			tmp.AddScaledVec(&tmp, h*a, K[index2])
		}
		K[index] = system.Derivative(from+h*rk.description.nodes[index], &tmp)
	}

	errEstimate := mat.NewVecDense(M, nil)
	for index, k := range K {
		state.AddScaledVec(state, h*rk.description.weights[0][index], k)
		// Tableaus with a second weight row allow an embedded error
		// estimate.
		if len(rk.description.weights) == 2 {
			errEstimate.AddScaledVec(errEstimate,
				h*(rk.description.weights[1][index]-rk.description.weights[0][index]), k)
		}
	}
	return errEstimate
}

// Integrate advances state from t = from to t = to in the given number of
// equally sized steps.
func (rk RungeKutta) Integrate(from, to float64, steps int, state *mat.VecDense, system DifferentiableSystem) {
	if steps < 1 {
		steps = 1
	}
	h := (to - from) / float64(steps)
	for i := 0; i < steps; i++ {
		rk.Step(from+float64(i)*h, from+float64(i+1)*h, state, system)
	}
}

// AdaptiveCompute advances state from t = from to t = to, recursively
// halving the step whenever the embedded error estimate exceeds tol, so the
// local error never exceeds the specification.
func (rk RungeKutta) AdaptiveCompute(from, to, tol float64, state *mat.VecDense, system DifferentiableSystem) error {
	const maxNumberOfIterations = 10000

	var (
		candidate    mat.VecDense
		tnow, tnext  float64
		currentError float64
		count        int
	)

	tnow = from
	for tnow < to {
		tnext = to
		for {
			candidate.CloneFromVec(state)
			errVector := rk.Step(tnow, tnext, &candidate, system)
			currentError = 0
			for index := 0; index < errVector.Len(); index++ {
				currentError += math.Abs(errVector.AtVec(index))
			}
			if currentError < tol {
				break
			}
			// Halve the integration interval and try again.
			tnext = (tnext-tnow)/2. + tnow

			count++
			if count >= maxNumberOfIterations {
				return errors.New("ode: maximum number of iterations reached, adaptive Runge-Kutta doesn't converge")
			}
		}
		state.CopyVec(&candidate)
		tnow = tnext
	}
	return nil
}

// NewRK4 function returns a forth order Runge-Kutta object
func NewRK4() *RungeKutta {
	var temp butcherTableau
	temp.stages = 4
	temp.nodes = []float64{0, 1. / 2., 1. / 2., 1}
	temp.weights = [][]float64{{1. / 6., 1. / 3., 1. / 3., 1. / 6.}}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 2.},
		{0, 1. / 2.},
		{0, 0, 1.},
	}
	return &RungeKutta{temp}
}

// NewEulerMethod returns a pointer to a Runge-Kutta that does the Euler method.
func NewEulerMethod() *RungeKutta {
	var temp butcherTableau
	temp.stages = 1
	temp.nodes = []float64{0}
	temp.weights = [][]float64{{1}}
	temp.rungeKuttaMatrix = [][]float64{nil}
	return &RungeKutta{temp}
}

// NewFehlberg45 implements https://en.wikipedia.org/wiki/Runge%E2%80%93Kutta%E2%80%93Fehlberg_method
func NewFehlberg45() *RungeKutta {
	var temp butcherTableau
	temp.stages = 6
	temp.nodes = []float64{0, 1. / 4., 3. / 8., 12. / 13., 1., 1. / 2.}
	temp.weights = [][]float64{
		{16. / 135., 0, 6656. / 12825., 28561. / 56430., -9. / 50., 2. / 55.},
		{25. / 216., 0, 1408. / 2565., 2197. / 4104., -1. / 5., 0},
	}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 4.},
		{3. / 32., 9. / 32.},
		{1932. / 2197., -7200. / 2197., 7296. / 2197.},
		{439. / 216., -8., 3680. / 513., -845. / 4104.},
		{-8. / 27., 2, -3544. / 2565., 1859. / 4104., -11. / 40.},
	}
	return &RungeKutta{temp}
}
