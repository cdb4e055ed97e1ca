package full

import (
	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/layer"
)

// Forward binarizes in and computes, for every neuron i, the accumulator
// a[i] = sum over inputs c of (+1 if W(c,i) == in(c) else -1), then
// out[i] = activation(a, i).
func (f *Full) Forward(in []float64, worker int) ([]float64, error) {
	if err := layer.CheckInput(Type, in, f.in); err != nil {
		return nil, err
	}
	a, out, err := f.bufs.Slot(worker)
	if err != nil {
		return nil, err
	}
	bin := f.bin[worker]
	bipolar.Binarize(in, bin)

	f.pfor(f.out, func(i int) {
		// equal bits multiply to +1, different bits to -1
		a[i] = float64(2*f.w.MatchCount(i, bin) - f.in)
	})
	f.pfor(f.out, func(i int) {
		out[i] = f.act.F(a, i)
	})
	layer.LogVector(f.l, out, "[bfc]forward")
	return out, nil
}

// Accumulators returns the signed accumulators of the last Forward on worker.
func (f *Full) Accumulators(worker int) ([]float64, error) {
	a, _, err := f.bufs.Slot(worker)
	return a, err
}

// Backward is not supported.
func (f *Full) Backward(delta []float64, worker int) ([]float64, error) {
	return nil, layer.NotImplemented(Type, "backward")
}

// Backward2nd is not supported.
func (f *Full) Backward2nd(delta []float64) ([]float64, error) {
	return nil, layer.NotImplemented(Type, "backward 2nd")
}
