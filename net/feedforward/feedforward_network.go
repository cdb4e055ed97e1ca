// Package feedforward implements a feedforward network type: an ordered
// list of layers where the output of layer k is the input of layer k+1
package feedforward

import (
	"log"

	"github.com/neurlang/bnn/layer"
	"github.com/pkg/errors"
)

// ErrGeometry is returned when a layer's input size does not match the
// output size of the layer before it.
var ErrGeometry = errors.New("layer geometry mismatch")

// FeedforwardNetwork is the feedforward network
type FeedforwardNetwork struct {
	layers []layer.Layer
	l      *log.Logger
}

// SetLogger logs each layer transition to l.
func (f *FeedforwardNetwork) SetLogger(l *log.Logger) {
	f.l = l
}

// NewLayer adds a layer to the end of network.
func (f *FeedforwardNetwork) NewLayer(l layer.Layer) error {
	if n := len(f.layers); n > 0 && f.layers[n-1].OutSize() != l.InSize() {
		return errors.Wrapf(ErrGeometry, "layer %d %s outputs %d, layer %d %s takes %d",
			n-1, f.layers[n-1].Type(), f.layers[n-1].OutSize(), n, l.Type(), l.InSize())
	}
	f.layers = append(f.layers, l)
	return nil
}

// MustNewLayer adds a layer to the end of network, see NewLayer.
func (f *FeedforwardNetwork) MustNewLayer(l layer.Layer) {
	if err := f.NewLayer(l); err != nil {
		panic(err.Error())
	}
}

// LenLayers returns the number of layers.
func (f FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer gets the n-th layer. Returns nil on failure.
func (f FeedforwardNetwork) GetLayer(n int) layer.Layer {
	if n < 0 || n >= len(f.layers) {
		return nil
	}
	return f.layers[n]
}

// InSize is the input size of the first layer, 0 for an empty network.
func (f FeedforwardNetwork) InSize() int {
	if len(f.layers) == 0 {
		return 0
	}
	return f.layers[0].InSize()
}

// OutSize is the output size of the last layer, 0 for an empty network.
func (f FeedforwardNetwork) OutSize() int {
	if len(f.layers) == 0 {
		return 0
	}
	return f.layers[len(f.layers)-1].OutSize()
}

// ConnectionSize sums the connections of all layers.
func (f FeedforwardNetwork) ConnectionSize() (o int) {
	for _, l := range f.layers {
		o += l.ConnectionSize()
	}
	return
}

// Forward runs all layers in order using the buffers of worker. The
// returned slice belongs to the last layer and is overwritten by the next
// call with the same worker. An empty network returns in.
func (f FeedforwardNetwork) Forward(in []float64, worker int) (out []float64, err error) {
	out = in
	for i, l := range f.layers {
		out, err = l.Forward(out, worker)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d %s", i, l.Type())
		}
		if f.l != nil {
			f.l.Printf("layer %d %s: %d -> %d", i, l.Type(), l.InSize(), l.OutSize())
		}
	}
	return out, nil
}

// Backward runs the layers in reverse order. None of the binarized layers
// support it, so it fails at the last layer.
func (f FeedforwardNetwork) Backward(delta []float64, worker int) (out []float64, err error) {
	out = delta
	for i := len(f.layers) - 1; i >= 0; i-- {
		out, err = f.layers[i].Backward(out, worker)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d %s", i, f.layers[i].Type())
		}
	}
	return out, nil
}
