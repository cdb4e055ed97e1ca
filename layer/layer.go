// Package layer defines the binarized layer interface shared by the dense and convolution variants
package layer

import "io"

// Layer is a binarized inference layer. Weights are read-only while any
// Forward call is in flight. PostUpdate and Load must only run between
// forward passes, the caller serializes them.
type Layer interface {

	// Forward computes the layer output for in using the buffers of the
	// worker slot. The returned slice is owned by the slot and overwritten
	// by the next Forward call on the same slot.
	Forward(in []float64, worker int) ([]float64, error)

	// Backward always fails with ErrNotImplemented.
	Backward(delta []float64, worker int) ([]float64, error)

	// Backward2nd always fails with ErrNotImplemented.
	Backward2nd(delta []float64) ([]float64, error)

	// InSize is the length of the input vector.
	InSize() int

	// OutSize is the length of the output vector.
	OutSize() int

	// FanIn is the number of incoming connections for each output unit.
	FanIn() int

	// FanOut is the number of outgoing connections for each input unit.
	FanOut() int

	// ConnectionSize is the number of connections (parameters) of the layer.
	ConnectionSize() int

	// Type names the layer kind.
	Type() string

	// Save writes the binarized parameters as newline separated text tokens.
	Save(w io.Writer) error

	// Load reads the parameters written by Save.
	Load(r io.Reader) error

	// PostUpdate re-binarizes the weights from real valued weights.
	PostUpdate(w []float64) error
}
