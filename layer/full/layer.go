// Package full implements a binarized fully connected layer accumulating signed
// (+1/-1) products and handing the accumulator to an activation function
package full

import (
	"log"

	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/layer"
	"github.com/neurlang/bnn/layer/activation"
	"github.com/neurlang/bnn/parallel"
	"github.com/pkg/errors"
)

// Type is the layer type name.
const Type = "binarized-fully-connected"

// Full is a binarized fully connected layer.
type Full struct {
	in, out int
	w       *bipolar.Matrix

	act  activation.Function
	pfor parallel.For
	l    *log.Logger

	workers int
	bufs    layer.Buffers
	bin     []bipolar.Vector
}

// Option configures a Full layer.
type Option func(*Full)

// WithWorkers sets the number of worker slots.
func WithWorkers(n int) Option {
	return func(f *Full) { f.workers = n }
}

// WithParallel sets the parallel-for running the per neuron loop.
func WithParallel(p parallel.For) Option {
	return func(f *Full) { f.pfor = p }
}

// WithActivation sets the activation applied to the accumulators.
func WithActivation(a activation.Function) Option {
	return func(f *Full) { f.act = a }
}

// WithLogger logs every output vector to l.
func WithLogger(l *log.Logger) Option {
	return func(f *Full) { f.l = l }
}

// MustNew creates a new Full layer with in inputs and out outputs
func MustNew(in, out int, opts ...Option) *Full {
	o, err := New(in, out, opts...)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Full layer with in inputs and out outputs. All weights
// start in the negative state.
func New(in, out int, opts ...Option) (o *Full, err error) {
	if in <= 0 || out <= 0 {
		return nil, errors.Errorf("New Full: dimensions %dx%d must be positive", in, out)
	}
	o = &Full{
		in:      in,
		out:     out,
		w:       bipolar.NewMatrix(in, out),
		act:     activation.Identity{},
		pfor:    parallel.Serial,
		workers: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.bufs = layer.NewBuffers(o.workers, out, out)
	o.bin = make([]bipolar.Vector, o.bufs.Workers())
	for i := range o.bin {
		o.bin[i] = bipolar.NewVector(in)
	}
	return o, nil
}

func (f *Full) InSize() int         { return f.in }
func (f *Full) OutSize() int        { return f.out }
func (f *Full) FanIn() int          { return f.in }
func (f *Full) FanOut() int         { return f.out }
func (f *Full) ConnectionSize() int { return f.in * f.out }
func (f *Full) Type() string        { return Type }

// Weights returns the binarized weight matrix. It must not be modified
// while a forward pass is running.
func (f *Full) Weights() *bipolar.Matrix {
	return f.w
}

// Activation returns the activation function.
func (f *Full) Activation() activation.Function {
	return f.act
}

// PostUpdate re-binarizes the weights from real valued weights in flat
// [input][output] order.
func (f *Full) PostUpdate(w []float64) error {
	if len(w) != f.w.Len() {
		return errors.Wrapf(layer.ErrWeightsSize, "%s: got %d want %d", Type, len(w), f.w.Len())
	}
	f.w.Binarize(w)
	return nil
}
