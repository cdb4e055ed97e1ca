package layer

import "github.com/pkg/errors"

var (
	// ErrNotImplemented is returned by every backward propagation call.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInputSize is returned when the input length does not match the layer.
	ErrInputSize = errors.New("input size mismatch")

	// ErrWorker is returned when the worker slot does not exist.
	ErrWorker = errors.New("worker index out of range")

	// ErrWeightsSize is returned when PostUpdate gets the wrong number of weights.
	ErrWeightsSize = errors.New("weights size mismatch")
)
