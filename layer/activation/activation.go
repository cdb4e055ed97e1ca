// Package activation implements the activation functions applied to the
// signed accumulators of the binarized fully connected layer
package activation

import (
	"math"

	"github.com/pkg/errors"
)

// Function computes output i from the accumulator vector a.
type Function interface {
	F(a []float64, i int) float64
	Name() string
}

// Identity passes the accumulator through.
type Identity struct{}

func (Identity) F(a []float64, i int) float64 { return a[i] }
func (Identity) Name() string                 { return "identity" }

// Sign maps the accumulator to +1 if it is non-negative, -1 otherwise.
type Sign struct{}

func (Sign) F(a []float64, i int) float64 {
	if a[i] >= 0 {
		return +1
	}
	return -1
}
func (Sign) Name() string { return "sign" }

// Tanh is the hyperbolic tangent.
type Tanh struct{}

func (Tanh) F(a []float64, i int) float64 { return math.Tanh(a[i]) }
func (Tanh) Name() string                 { return "tanh" }

// ByName returns the activation function called name.
func ByName(name string) (Function, error) {
	switch name {
	case "", "identity":
		return Identity{}, nil
	case "sign":
		return Sign{}, nil
	case "tanh":
		return Tanh{}, nil
	}
	return nil, errors.Errorf("unknown activation %q", name)
}
