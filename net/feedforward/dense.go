package feedforward

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ForwardDense runs the network over a dense tensor. A vector of InSize
// elements is one sample. A matrix of shape (batch, InSize) runs each row
// in turn and returns a (batch, OutSize) matrix. Float64 and Float32
// tensors are accepted, the result is always Float64.
func (f FeedforwardNetwork) ForwardDense(t *tensor.Dense, worker int) (*tensor.Dense, error) {
	if t.IsView() {
		t = t.Materialize().(*tensor.Dense)
	}
	shape := t.Shape()
	var batch int
	switch t.Dims() {
	case 1:
		batch = 1
	case 2:
		batch = shape[0]
	default:
		return nil, errors.Wrapf(ErrGeometry, "tensor of shape %v", shape)
	}
	width, out := f.InSize(), f.OutSize()
	if shape[len(shape)-1] != width {
		return nil, errors.Wrapf(ErrGeometry, "tensor of shape %v, network takes %d", shape, width)
	}

	var rows []float64
	switch data := t.Data().(type) {
	case []float64:
		rows = data
	case []float32:
		rows = make([]float64, len(data))
		for i, v := range data {
			rows[i] = float64(v)
		}
	default:
		return nil, errors.Errorf("ForwardDense: unsupported dtype %v", t.Dtype())
	}

	backing := make([]float64, batch*out)
	for b := 0; b < batch; b++ {
		o, err := f.Forward(rows[b*width:(b+1)*width], worker)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", b)
		}
		copy(backing[b*out:], o)
	}
	if t.Dims() == 1 {
		return tensor.New(tensor.WithShape(out), tensor.WithBacking(backing)), nil
	}
	return tensor.New(tensor.WithShape(batch, out), tensor.WithBacking(backing)), nil
}
