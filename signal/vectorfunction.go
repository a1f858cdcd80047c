package signal

import (
	"gonum.org/v1/gonum/mat"
)

// VectorFunction decomposes one forcing term of a state-space model into a
// scalar function of time and a constant input direction. In
//
//	x'(t) = A x(t) + B u(t)
//
// each input channel j contributes the vectorial function b_j u_j(t), where
// b_j is the j:th column of B.
type VectorFunction struct {
	U func(float64) float64
	B mat.Vector
}

// Value returns the vectorial function value B u(t).
func (vf VectorFunction) Value(t float64) mat.Vector {
	var res mat.VecDense
	res.CloneFromVec(vf.B)
	res.ScaleVec(vf.U(t), &res)
	return &res
}

// NewInput returns a VectorFunction initialised with u(t) and B.
func NewInput(u func(float64) float64, B mat.Vector) VectorFunction {
	return VectorFunction{u, B}
}

// Channels splits a dense input matrix B into one VectorFunction per input
// channel, pairing column j with u[j].
func Channels(B mat.Matrix, u []func(float64) float64) []VectorFunction {
	var dense mat.Dense
	dense.CloneFrom(B)
	inputs := make([]VectorFunction, len(u))
	for j := range u {
		inputs[j] = NewInput(u[j], dense.ColView(j))
	}
	return inputs
}
