// Package cpu is the host reference implementation of the binarynet
// offload hook
package cpu

import (
	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/parallel"
	"github.com/pkg/errors"
)

// ErrShape is returned when the vectors do not fit the weight matrix.
var ErrShape = errors.New("offload shape mismatch")

// Backend computes thresholded layers on the host.
type Backend struct {
	pfor parallel.For
}

// Option configures a Backend.
type Option func(*Backend)

// WithParallel sets the parallel for used to spread output words.
func WithParallel(p parallel.For) Option {
	return func(b *Backend) { b.pfor = p }
}

// WithWorkers spreads output words over n goroutines.
func WithWorkers(n int) Option {
	return WithParallel(parallel.Limit(n))
}

// New creates a serial backend unless configured otherwise.
func New(opts ...Option) *Backend {
	b := &Backend{pfor: parallel.Serial}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Compute sets out bit i iff the match count of neuron i reaches
// thresholds[i]. Each output word is owned by one body call, so
// neurons sharing a word are never written concurrently.
func (b *Backend) Compute(in bipolar.Vector, thresholds []uint32, weights *bipolar.Matrix, out bipolar.Vector) error {
	if in.Len() != weights.In() {
		return errors.Wrapf(ErrShape, "input %d weights %d", in.Len(), weights.In())
	}
	if len(thresholds) != weights.Out() || out.Len() != weights.Out() {
		return errors.Wrapf(ErrShape, "thresholds %d output %d neurons %d", len(thresholds), out.Len(), weights.Out())
	}
	words := out.Words()
	b.pfor(len(words), func(w int) {
		var word uint64
		for j := 0; j < 64; j++ {
			i := w*64 + j
			if i >= weights.Out() {
				break
			}
			if uint64(weights.MatchCount(i, in)) >= uint64(thresholds[i]) {
				word |= 1 << uint(j)
			}
		}
		words[w] = word
	})
	return nil
}
