package binarynet

import "github.com/neurlang/bnn/bipolar"

// Offloader computes the thresholded layer outside of the internal kernel.
// Compute must set out bit i to true iff the match count of neuron i
// against in reaches thresholds[i]. It must be synchronous and must not
// modify in, thresholds or weights.
type Offloader interface {
	Compute(in bipolar.Vector, thresholds []uint32, weights *bipolar.Matrix, out bipolar.Vector) error
}

// OffloadFunc adapts a function to the Offloader interface.
type OffloadFunc func(in bipolar.Vector, thresholds []uint32, weights *bipolar.Matrix, out bipolar.Vector) error

// Compute calls f.
func (f OffloadFunc) Compute(in bipolar.Vector, thresholds []uint32, weights *bipolar.Matrix, out bipolar.Vector) error {
	return f(in, thresholds, weights, out)
}
