package binarynet

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/codec"
	"github.com/neurlang/bnn/layer"
	"github.com/neurlang/bnn/parallel"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomLayer(t *testing.T, in, out int, opts ...Option) *BinaryNet {
	b := MustNew(in, out, opts...)
	w := make([]float64, in*out)
	for k := range w {
		w[k] = rand.Float64()*2 - 1
	}
	require.NoError(t, b.PostUpdate(w))
	for i := 0; i < out; i++ {
		b.SetThreshold(i, uint32(rand.Intn(in+2)))
	}
	return b
}

func TestForwardThreshold(t *testing.T) {
	b := MustNew(4, 2)
	// neuron 0: weights + + - -, neuron 1: all negative
	b.Weights().Set(0, 0, true)
	b.Weights().Set(1, 0, true)
	b.SetThreshold(0, 3)
	b.SetThreshold(1, 1)

	out, err := b.Forward([]float64{1, 1, -1, 1}, 0)
	require.NoError(t, err)
	// neuron 0 matches 3 >= 3, neuron 1 matches 1 >= 1
	assert.Equal(t, []float64{1, 1}, out)
	a, err := b.Accumulators(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, a)

	out, err = b.Forward([]float64{1, 1, 1, 1}, 0)
	require.NoError(t, err)
	// neuron 0 matches 2 < 3, neuron 1 matches 0 < 1
	assert.Equal(t, []float64{-1, -1}, out)
}

func TestZeroThresholdAlwaysFires(t *testing.T) {
	b := MustNew(5, 3)
	out, err := b.Forward([]float64{-1, 2, -3, 4, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, out)
}

func TestParallelMatchesSerial(t *testing.T) {
	serial := randomLayer(t, 130, 70)
	par := MustNew(130, 70, WithParallel(parallel.Chunked(5)))
	require.NoError(t, par.Restore(serial.Snapshot()))

	for trial := 0; trial < 10; trial++ {
		x := make([]float64, 130)
		for c := range x {
			x[c] = rand.NormFloat64()
		}
		want, err := serial.Forward(x, 0)
		require.NoError(t, err)
		got, err := par.Forward(x, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestOffloadReplacesKernel(t *testing.T) {
	var calls int
	var seenIn bipolar.Vector
	hook := OffloadFunc(func(in bipolar.Vector, thr []uint32, w *bipolar.Matrix, out bipolar.Vector) error {
		calls++
		seenIn = in.Clone()
		require.Equal(t, 2, len(thr))
		require.Equal(t, 3, w.In())
		out.Set(1, true)
		return nil
	})
	b := MustNew(3, 2, WithOffload(hook))
	// internal kernel would fire both neurons with zero thresholds
	out, err := b.Forward([]float64{1, -1, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []bool{true, false, true}, seenIn.Bools())
	assert.Equal(t, []float64{-1, 1}, out)
	assert.NotNil(t, b.Offload())

	// stale result bits are cleared before every call
	out, err = b.Forward([]float64{1, -1, 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 1}, out)
}

func TestOffloadError(t *testing.T) {
	boom := errors.New("device lost")
	b := MustNew(3, 2, WithOffload(OffloadFunc(func(bipolar.Vector, []uint32, *bipolar.Matrix, bipolar.Vector) error {
		return boom
	})))
	_, err := b.Forward([]float64{1, 2, 3}, 0)
	assert.True(t, errors.Is(err, boom), "got %v", err)
}

// an offload computing the reference decision agrees with the internal kernel
func TestOffloadAgreesWithKernel(t *testing.T) {
	ref := randomLayer(t, 50, 20)
	hook := OffloadFunc(func(in bipolar.Vector, thr []uint32, w *bipolar.Matrix, out bipolar.Vector) error {
		for i := 0; i < w.Out(); i++ {
			out.Set(i, uint32(w.MatchCount(i, in)) >= thr[i])
		}
		return nil
	})
	off := MustNew(50, 20, WithOffload(hook))
	require.NoError(t, off.Restore(ref.Snapshot()))

	x := make([]float64, 50)
	for c := range x {
		x[c] = rand.Float64() - 0.5
	}
	want, err := ref.Forward(x, 0)
	require.NoError(t, err)
	got, err := off.Forward(x, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := randomLayer(t, 9, 4)
	var buf bytes.Buffer
	require.NoError(t, b.Save(&buf))
	assert.Equal(t, 9*4+4, strings.Count(buf.String(), "\n"))

	c := MustNew(9, 4)
	require.NoError(t, c.Load(&buf))
	assert.True(t, b.Weights().Equal(c.Weights()))
	assert.Equal(t, b.Thresholds(), c.Thresholds())
}

func TestLoadTextFormat(t *testing.T) {
	b := MustNew(2, 2)
	// flat order c*out+i: W(0,0) W(0,1) W(1,0) W(1,1)
	require.NoError(t, b.Load(strings.NewReader("1\n0\n0\n1\n3\n1\n")))
	assert.True(t, b.Weights().At(0, 0))
	assert.False(t, b.Weights().At(0, 1))
	assert.False(t, b.Weights().At(1, 0))
	assert.True(t, b.Weights().At(1, 1))
	assert.Equal(t, []uint32{3, 1}, b.Thresholds())

	err := MustNew(2, 2).Load(strings.NewReader("1\n0\n0\n1\n3\n"))
	assert.True(t, errors.Is(err, codec.ErrShortRead), "got %v", err)
}

func TestLoadFailureKeepsLayer(t *testing.T) {
	for name, input := range map[string]string{
		"short thresholds": "0\n0\n0\n0\n7\n",
		"bad threshold":    "0\n0\n0\n0\n7\nx\n",
		"short weights":    "0\n0\n",
	} {
		t.Run(name, func(t *testing.T) {
			b := MustNew(2, 2)
			require.NoError(t, b.Load(strings.NewReader("1\n0\n0\n1\n3\n1\n")))
			weights := b.Weights().Clone()
			thresholds := append([]uint32(nil), b.Thresholds()...)

			err := b.Load(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, codec.ErrShortRead) || errors.Is(err, codec.ErrBadToken), "got %v", err)
			assert.True(t, weights.Equal(b.Weights()))
			if diff := cmp.Diff(thresholds, b.Thresholds()); diff != "" {
				t.Errorf("thresholds changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeometryAndErrors(t *testing.T) {
	var l layer.Layer = MustNew(6, 4)
	assert.Equal(t, 6, l.FanIn())
	assert.Equal(t, 4, l.FanOut())
	assert.Equal(t, 6*4+2*4, l.ConnectionSize())
	assert.Equal(t, "binarynet-fully-connected", l.Type())

	_, err := l.Forward(make([]float64, 5), 0)
	assert.True(t, errors.Is(err, layer.ErrInputSize))
	_, err = l.Forward(make([]float64, 6), 2)
	assert.True(t, errors.Is(err, layer.ErrWorker))
	_, err = l.Backward(nil, 0)
	assert.True(t, errors.Is(err, layer.ErrNotImplemented))
	_, err = l.Backward2nd(nil)
	assert.True(t, errors.Is(err, layer.ErrNotImplemented))
	assert.True(t, errors.Is(l.PostUpdate(nil), layer.ErrWeightsSize))

	_, err = New(-1, 2)
	assert.Error(t, err)
}
