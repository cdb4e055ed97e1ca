// Package binarynet implements a binarized fully connected layer with batch
// normalization folded into one integer threshold per neuron. Inference only.
//
// Use SetThresholdFromBatchnorm (or FoldBatchnorm) once per neuron after the
// weights are in place to absorb the learned batch normalization and sign
// activation. Forward then only counts matching bits and compares the count
// against the threshold.
package binarynet

import (
	"log"

	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/layer"
	"github.com/neurlang/bnn/parallel"
	"github.com/pkg/errors"
)

// Type is the layer type name.
const Type = "binarynet-fully-connected"

// BinaryNet is a thresholded binarized fully connected layer.
type BinaryNet struct {
	in, out int
	w       *bipolar.Matrix
	thr     []uint32

	off  Offloader
	pfor parallel.For
	l    *log.Logger

	workers int
	bufs    layer.Buffers
	bin     []bipolar.Vector
	res     []bipolar.Vector
}

// Option configures a BinaryNet layer.
type Option func(*BinaryNet)

// WithWorkers sets the number of worker slots.
func WithWorkers(n int) Option {
	return func(b *BinaryNet) { b.workers = n }
}

// WithParallel sets the parallel-for running the per neuron loop.
func WithParallel(p parallel.For) Option {
	return func(b *BinaryNet) { b.pfor = p }
}

// WithOffload replaces the internal kernel with o.
func WithOffload(o Offloader) Option {
	return func(b *BinaryNet) { b.off = o }
}

// WithLogger logs every output vector to l.
func WithLogger(l *log.Logger) Option {
	return func(b *BinaryNet) { b.l = l }
}

// MustNew creates a new BinaryNet layer with in inputs and out outputs
func MustNew(in, out int, opts ...Option) *BinaryNet {
	o, err := New(in, out, opts...)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new BinaryNet layer with in inputs and out outputs. All
// weights start in the negative state and all thresholds at zero.
func New(in, out int, opts ...Option) (o *BinaryNet, err error) {
	if in <= 0 || out <= 0 {
		return nil, errors.Errorf("New BinaryNet: dimensions %dx%d must be positive", in, out)
	}
	o = &BinaryNet{
		in:      in,
		out:     out,
		w:       bipolar.NewMatrix(in, out),
		thr:     make([]uint32, out),
		pfor:    parallel.Serial,
		workers: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.bufs = layer.NewBuffers(o.workers, out, out)
	o.bin = make([]bipolar.Vector, o.bufs.Workers())
	o.res = make([]bipolar.Vector, o.bufs.Workers())
	for i := range o.bin {
		o.bin[i] = bipolar.NewVector(in)
		o.res[i] = bipolar.NewVector(out)
	}
	return o, nil
}

func (b *BinaryNet) InSize() int  { return b.in }
func (b *BinaryNet) OutSize() int { return b.out }
func (b *BinaryNet) FanIn() int   { return b.in }
func (b *BinaryNet) FanOut() int  { return b.out }
func (b *BinaryNet) Type() string { return Type }

// ConnectionSize counts one parameter per weight, per threshold and per
// neuron flip indicator.
func (b *BinaryNet) ConnectionSize() int {
	return b.in*b.out + 2*b.out
}

// Weights returns the binarized weight matrix.
func (b *BinaryNet) Weights() *bipolar.Matrix {
	return b.w
}

// Thresholds returns the per neuron match count thresholds.
func (b *BinaryNet) Thresholds() []uint32 {
	return b.thr
}

// SetThreshold sets the threshold of neuron i directly.
func (b *BinaryNet) SetThreshold(i int, v uint32) {
	b.thr[i] = v
}

// Offload returns the offload hook, nil when the internal kernel is used.
func (b *BinaryNet) Offload() Offloader {
	return b.off
}

// PostUpdate re-binarizes the weights from real valued weights in flat
// [input][output] order. Thresholds are left alone.
func (b *BinaryNet) PostUpdate(w []float64) error {
	if len(w) != b.w.Len() {
		return errors.Wrapf(layer.ErrWeightsSize, "%s: got %d want %d", Type, len(w), b.w.Len())
	}
	b.w.Binarize(w)
	return nil
}
