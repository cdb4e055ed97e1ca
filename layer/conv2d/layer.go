// Package conv2d implements a binarized 2D convolution layer with valid
// padding, unit stride and no bias
package conv2d

import (
	"log"

	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/layer"
	"github.com/pkg/errors"
)

// Type is the layer type name.
const Type = "bnn_conv_layer"

// Policy selects how matching bits are accumulated.
type Policy int

const (
	// SignedSum adds +1 for a match and -1 for a mismatch.
	SignedSum Policy = iota
	// Popcount adds +1 for a match and nothing for a mismatch.
	Popcount
)

func (p Policy) String() string {
	if p == Popcount {
		return "popcount"
	}
	return "signed"
}

// Conv2D is a binarized convolution layer. Input is laid out
// [channel][y][x], output [out channel][y][x], weights
// [out channel][in channel][row][col].
type Conv2D struct {
	width, height, window   int
	inChannels, outChannels int
	outWidth, outHeight     int

	w      bipolar.Vector
	policy Policy
	l      *log.Logger

	workers int
	file    string
	bufs    layer.Buffers
	bin     []bipolar.Vector
}

// Option configures a Conv2D layer.
type Option func(*Conv2D)

// WithWorkers sets the number of worker slots. The kernel itself always
// runs on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *Conv2D) { c.workers = n }
}

// WithPopcount selects the match counting policy instead of the signed sum.
func WithPopcount(popcount bool) Option {
	return func(c *Conv2D) {
		if popcount {
			c.policy = Popcount
		} else {
			c.policy = SignedSum
		}
	}
}

// WithPolicy selects the accumulation policy.
func WithPolicy(p Policy) Option {
	return func(c *Conv2D) { c.policy = p }
}

// WithBinaryFile loads the weights from a binary weight file at construction.
func WithBinaryFile(name string) Option {
	return func(c *Conv2D) { c.file = name }
}

// WithLogger logs every output vector to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Conv2D) { c.l = l }
}

// MustNew creates a new Conv2D layer, see New
func MustNew(width, height, window, inChannels, outChannels int, opts ...Option) *Conv2D {
	o, err := New(width, height, window, inChannels, outChannels, opts...)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new Conv2D layer over a width x height input with
// inChannels channels, producing outChannels channels using a square
// window. All weights start in the negative state unless a binary weight
// file is given.
func New(width, height, window, inChannels, outChannels int, opts ...Option) (o *Conv2D, err error) {
	if window <= 0 || inChannels <= 0 || outChannels <= 0 {
		return nil, errors.Errorf("New Conv2D: window %d and channels %d/%d must be positive", window, inChannels, outChannels)
	}
	if width < window {
		return nil, errors.Errorf("New Conv2D: Width %d is lower than Window %d", width, window)
	}
	if height < window {
		return nil, errors.Errorf("New Conv2D: Height %d is lower than Window %d", height, window)
	}
	o = &Conv2D{
		width:       width,
		height:      height,
		window:      window,
		inChannels:  inChannels,
		outChannels: outChannels,
		outWidth:    width - window + 1,
		outHeight:   height - window + 1,
		w:           bipolar.NewVector(outChannels * inChannels * window * window),
		workers:     1,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.bufs = layer.NewBuffers(o.workers, 0, o.OutSize())
	o.bin = make([]bipolar.Vector, o.bufs.Workers())
	for i := range o.bin {
		o.bin[i] = bipolar.NewVector(o.InSize())
	}
	if o.file != "" {
		if err := o.LoadBinaryFile(o.file); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (c *Conv2D) InSize() int  { return c.width * c.height * c.inChannels }
func (c *Conv2D) OutSize() int { return c.outWidth * c.outHeight * c.outChannels }
func (c *Conv2D) FanIn() int   { return c.inChannels * c.window * c.window }
func (c *Conv2D) FanOut() int  { return c.outChannels * c.window * c.window }
func (c *Conv2D) Type() string { return Type }

// ConnectionSize is the number of connections over all output positions.
func (c *Conv2D) ConnectionSize() int {
	return c.outHeight * c.outWidth * c.FanIn()
}

// OutWidth returns the output width, input width - window + 1.
func (c *Conv2D) OutWidth() int { return c.outWidth }

// OutHeight returns the output height, input height - window + 1.
func (c *Conv2D) OutHeight() int { return c.outHeight }

// Window returns the window size.
func (c *Conv2D) Window() int { return c.window }

// Channels returns the input and output channel counts.
func (c *Conv2D) Channels() (in, out int) { return c.inChannels, c.outChannels }

// Policy returns the accumulation policy.
func (c *Conv2D) Policy() Policy { return c.policy }

// Weights returns the binarized weights.
func (c *Conv2D) Weights() bipolar.Vector {
	return c.w
}

// WeightIndex returns the position of a weight in Weights.
func (c *Conv2D) WeightIndex(oc, ic, ky, kx int) int {
	return ((oc*c.inChannels+ic)*c.window+ky)*c.window + kx
}

// PostUpdate re-binarizes the weights from real valued weights in
// [out channel][in channel][row][col] order.
func (c *Conv2D) PostUpdate(w []float64) error {
	if len(w) != c.w.Len() {
		return errors.Wrapf(layer.ErrWeightsSize, "%s: got %d want %d", Type, len(w), c.w.Len())
	}
	bipolar.Binarize(w, c.w)
	return nil
}
