package conv2d

import (
	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/layer"
)

// Forward binarizes in and slides the window over every output position,
// comparing each input bit with the corresponding weight bit over all input
// channels. The raw accumulator is written to the output, no activation is
// applied. Runs single threaded, worker only selects the buffers.
func (c *Conv2D) Forward(in []float64, worker int) ([]float64, error) {
	if err := layer.CheckInput(Type, in, c.InSize()); err != nil {
		return nil, err
	}
	_, out, err := c.bufs.Slot(worker)
	if err != nil {
		return nil, err
	}
	bin := c.bin[worker]
	bipolar.Binarize(in, bin)

	miss := -1
	if c.policy == Popcount {
		miss = 0
	}
	k := c.window
	for oc := 0; oc < c.outChannels; oc++ {
		outputBase := oc * c.outHeight * c.outWidth
		for oy := 0; oy < c.outHeight; oy++ {
			for ox := 0; ox < c.outWidth; ox++ {
				acc := 0
				for ic := 0; ic < c.inChannels; ic++ {
					weightBase := (oc*c.inChannels + ic) * k * k
					inputBase := ic*c.width*c.height + oy*c.width + ox
					for ky := 0; ky < k; ky++ {
						for kx := 0; kx < k; kx++ {
							if c.w.Get(weightBase+ky*k+kx) == bin.Get(inputBase+ky*c.width+kx) {
								acc++
							} else {
								acc += miss
							}
						}
					}
				}
				out[outputBase+oy*c.outWidth+ox] = float64(acc)
			}
		}
	}
	layer.LogVector(c.l, out, "[bnn_conv_layer] forward")
	return out, nil
}

// Backward is not supported.
func (c *Conv2D) Backward(delta []float64, worker int) ([]float64, error) {
	return nil, layer.NotImplemented(Type, "backward")
}

// Backward2nd is not supported.
func (c *Conv2D) Backward2nd(delta []float64) ([]float64, error) {
	return nil, layer.NotImplemented(Type, "backward 2nd")
}
