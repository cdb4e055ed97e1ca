package binarynet

import (
	"math"

	"github.com/pkg/errors"
)

// ErrDegenerateScale is returned when gamma*invstd is zero or the crossover
// point is not a finite number, so no threshold exists.
var ErrDegenerateScale = errors.New("batchnorm scale gamma*invstd is degenerate")

// BatchnormParams are the learned batch normalization parameters of one neuron.
type BatchnormParams struct {
	Mean   float64
	Gamma  float64
	InvStd float64
	Beta   float64
}

// Crossover returns the signed dot product value s at which
// gamma*(s-mean)*invstd+beta changes sign.
func (p BatchnormParams) Crossover() float64 {
	return p.Mean - p.Beta/(p.Gamma*p.InvStd)
}

// Eval returns the sign activation of the batch normalized signed dot
// product s, without folding. Zero maps to +1.
func (p BatchnormParams) Eval(s float64) float64 {
	if p.Gamma*(s-p.Mean)*p.InvStd+p.Beta >= 0 {
		return +1
	}
	return -1
}

// Fold computes the match count threshold of a neuron with fan-in fanIn
// that reproduces sign(gamma*(s-mean)*invstd+beta) for every reachable
// signed dot product s = 2*matches - fanIn. When gamma*invstd is negative
// the decision inverts and flip reports that the weights of the neuron must
// be negated for the threshold to hold.
//
// The signed threshold t is the smallest reachable s at or past the
// crossover, which makes the integer division in (t + fanIn) / 2 exact.
// The result lies in [0, fanIn+1]: 0 always fires, fanIn+1 never does.
func Fold(p BatchnormParams, fanIn int) (threshold uint32, flip bool, err error) {
	scale := p.Gamma * p.InvStd
	if scale == 0 || math.IsNaN(scale) {
		return 0, false, errors.Wrapf(ErrDegenerateScale, "gamma %v invstd %v", p.Gamma, p.InvStd)
	}
	x := p.Crossover()
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false, errors.Wrapf(ErrDegenerateScale, "crossover %v", x)
	}
	if scale < 0 {
		// s <= x with weights negated is -s >= -x
		x = -x
		flip = true
	}

	n := float64(fanIn)
	t := math.Ceil(x)
	if t < -n {
		t = -n
	}
	if t > n+2 {
		t = n + 2
	}
	// s has the parity of fanIn
	if math.Mod(t+n, 2) != 0 {
		t++
	}
	return uint32((int(t) + fanIn) / 2), flip, nil
}

// SetThresholdFromBatchnorm absorbs the batch normalization parameters of
// neuron index into its threshold, negating the weights of the neuron when
// gamma*invstd is negative. On error the layer is left untouched.
func (b *BinaryNet) SetThresholdFromBatchnorm(index int, mean, gamma, invstd, beta float64) error {
	if index < 0 || index >= b.out {
		return errors.Errorf("%s: neuron %d of %d", Type, index, b.out)
	}
	thr, flip, err := Fold(BatchnormParams{Mean: mean, Gamma: gamma, InvStd: invstd, Beta: beta}, b.FanIn())
	if err != nil {
		return errors.Wrapf(err, "%s: neuron %d", Type, index)
	}
	if flip {
		b.w.FlipNeuron(index)
	}
	b.thr[index] = thr
	return nil
}

// FoldBatchnorm folds one BatchnormParams per neuron. It validates every
// neuron before changing any of them.
func (b *BinaryNet) FoldBatchnorm(params []BatchnormParams) error {
	if len(params) != b.out {
		return errors.Errorf("%s: %d batchnorm parameters for %d neurons", Type, len(params), b.out)
	}
	thr := make([]uint32, b.out)
	flip := make([]bool, b.out)
	for i, p := range params {
		var err error
		if thr[i], flip[i], err = Fold(p, b.FanIn()); err != nil {
			return errors.Wrapf(err, "%s: neuron %d", Type, i)
		}
	}
	for i := range params {
		if flip[i] {
			b.w.FlipNeuron(i)
		}
		b.thr[i] = thr[i]
	}
	return nil
}
