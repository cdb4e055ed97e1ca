package binarynet

import (
	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/layer"
	"github.com/pkg/errors"
)

// Forward binarizes in and outputs, for every neuron i, +1 if the number of
// inputs equal to their weight reaches the threshold of i, -1 otherwise.
// The offload hook, when set, computes the decisions instead.
func (b *BinaryNet) Forward(in []float64, worker int) ([]float64, error) {
	if err := layer.CheckInput(Type, in, b.in); err != nil {
		return nil, err
	}
	a, out, err := b.bufs.Slot(worker)
	if err != nil {
		return nil, err
	}
	bin := b.bin[worker]
	bipolar.Binarize(in, bin)

	if b.off != nil {
		res := b.res[worker]
		res.Clear()
		if err := b.off.Compute(bin, b.thr, b.w, res); err != nil {
			return nil, errors.Wrapf(err, "%s: offload", Type)
		}
		for i := range out {
			out[i] = res.Sign(i)
		}
	} else {
		b.pfor(b.out, func(i int) {
			a[i] = float64(b.w.MatchCount(i, bin))
			if a[i] >= float64(b.thr[i]) {
				out[i] = +1
			} else {
				out[i] = -1
			}
		})
	}
	layer.LogVector(b.l, out, "[binarynet]forward")
	return out, nil
}

// Accumulators returns the match counts of the last internal Forward on
// worker. They are not updated when the offload hook is in use.
func (b *BinaryNet) Accumulators(worker int) ([]float64, error) {
	a, _, err := b.bufs.Slot(worker)
	return a, err
}

// Backward is not supported.
func (b *BinaryNet) Backward(delta []float64, worker int) ([]float64, error) {
	return nil, layer.NotImplemented(Type, "backward")
}

// Backward2nd is not supported.
func (b *BinaryNet) Backward2nd(delta []float64) ([]float64, error) {
	return nil, layer.NotImplemented(Type, "backward 2nd")
}
