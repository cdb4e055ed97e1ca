package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/codec"
	"github.com/neurlang/bnn/layer/binarynet"
	"github.com/neurlang/bnn/layer/conv2d"
	"github.com/neurlang/bnn/layer/full"
	"github.com/neurlang/bnn/net/feedforward"
	"github.com/neurlang/bnn/offload/cpu"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipeline = `
workers: 2
parallel: chunked
layers:
  - type: bnn_conv_layer
    width: 3
    height: 3
    window: 2
    in_channels: 1
    out_channels: 1
  - type: binarized-fully-connected
    in: 4
    out: 2
    activation: sign
  - type: binarynet-fully-connected
    in: 2
    out: 1
`

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader(pipeline))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Workers)
	require.Len(t, m.Layers, 3)
	assert.Equal(t, Layer{Type: conv2d.Type, Width: 3, Height: 3, Window: 2, InChannels: 1, OutChannels: 1}, m.Layers[0])
	assert.Equal(t, "sign", m.Layers[1].Activation)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("layers:\n  - type: x\n    bogus: 1\n"))
	assert.Error(t, err)
	_, err = Parse(strings.NewReader("workers: 1\n"))
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	m, err := Parse(strings.NewReader(pipeline))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))
	again, err := Parse(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(m, again, cmpopts.IgnoreUnexported(Manifest{})); diff != "" {
		t.Errorf("manifest changed (-want +got):\n%s", diff)
	}
}

func TestBuild(t *testing.T) {
	m, err := Parse(strings.NewReader(pipeline))
	require.NoError(t, err)
	net, err := m.Build()
	require.NoError(t, err)
	require.Equal(t, 3, net.LenLayers())
	assert.Equal(t, conv2d.Type, net.GetLayer(0).Type())
	assert.Equal(t, full.Type, net.GetLayer(1).Type())
	assert.Equal(t, binarynet.Type, net.GetLayer(2).Type())

	// both worker slots exist
	for w := 0; w < 2; w++ {
		out, err := net.Forward(make([]float64, 9), w)
		require.NoError(t, err)
		assert.Len(t, out, 1)
	}
}

func TestBuildErrors(t *testing.T) {
	for _, doc := range []string{
		"layers:\n  - type: nope\n",
		"layers:\n  - type: binarized-fully-connected\n    in: 0\n    out: 1\n",
		"layers:\n  - type: binarized-fully-connected\n    in: 2\n    out: 1\n    activation: relu\n",
		"parallel: many\nlayers:\n  - type: binarized-fully-connected\n    in: 2\n    out: 1\n",
		"offload: cuda\nlayers:\n  - type: binarynet-fully-connected\n    in: 2\n    out: 1\n",
		"layers:\n  - type: bnn_conv_layer\n    width: 2\n    height: 2\n    window: 3\n    in_channels: 1\n    out_channels: 1\n",
	} {
		m, err := Parse(strings.NewReader(doc))
		require.NoError(t, err, doc)
		_, err = m.Build()
		assert.Error(t, err, doc)
	}

	m, err := Parse(strings.NewReader("layers:\n" +
		"  - type: binarized-fully-connected\n    in: 2\n    out: 3\n" +
		"  - type: binarized-fully-connected\n    in: 2\n    out: 1\n"))
	require.NoError(t, err)
	_, err = m.Build()
	assert.True(t, errors.Is(err, feedforward.ErrGeometry))
}

func TestOffload(t *testing.T) {
	m, err := Parse(strings.NewReader("offload: cpu\nlayers:\n  - type: binarynet-fully-connected\n    in: 2\n    out: 1\n"))
	require.NoError(t, err)
	net, err := m.Build()
	require.NoError(t, err)
	assert.IsType(t, &cpu.Backend{}, net.GetLayer(0).(*binarynet.BinaryNet).Offload())

	m.Offload = "cuda"
	host := cpu.New()
	net, err = m.Build(WithOffloader(host))
	require.NoError(t, err)
	assert.Same(t, host, net.GetLayer(0).(*binarynet.BinaryNet).Offload())
}

func TestBatchnormFold(t *testing.T) {
	doc := `
layers:
  - type: binarynet-fully-connected
    in: 10
    out: 2
    batchnorm:
      - {mean: 2, gamma: 1, invstd: 1, beta: 0}
      - {mean: 2, gamma: -1, invstd: 1, beta: 0}
`
	m, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	net, err := m.Build()
	require.NoError(t, err)
	bn := net.GetLayer(0).(*binarynet.BinaryNet)
	assert.Equal(t, []uint32{6, 4}, bn.Thresholds())
	// the negative scale neuron had its weights flipped
	assert.Equal(t, 10, bn.Weights().Row(1).OnesCount())
	assert.Equal(t, 0, bn.Weights().Row(0).OnesCount())
}

func TestWeightsFile(t *testing.T) {
	dir := t.TempDir()
	doc := "weights: model.txt\nlayers:\n  - type: binarynet-fully-connected\n    in: 2\n    out: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.yaml"), []byte(doc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.txt"), []byte("1\n0\n2\n"), 0o644))

	m, err := ParseFile(filepath.Join(dir, "model.yaml"))
	require.NoError(t, err)
	net, err := m.Build()
	require.NoError(t, err)
	bn := net.GetLayer(0).(*binarynet.BinaryNet)
	assert.True(t, bn.Weights().Equal(func() *bipolar.Matrix {
		w := bipolar.NewMatrix(2, 1)
		w.Set(0, 0, true)
		return w
	}()))
	assert.Equal(t, []uint32{2}, bn.Thresholds())

	m.Weights = "missing.txt"
	_, err = m.Build()
	assert.True(t, errors.Is(err, codec.ErrUnavailable), "got %v", err)

	m.Weights, m.Snapshot = "", "missing.snap"
	_, err = m.Build()
	assert.True(t, errors.Is(err, codec.ErrUnavailable), "got %v", err)
}

func TestCompressedAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	m, err := Parse(strings.NewReader(pipeline))
	require.NoError(t, err)
	src, err := m.Build()
	require.NoError(t, err)
	src.GetLayer(2).(*binarynet.BinaryNet).SetThreshold(0, 2)
	require.NoError(t, src.WriteCompressedWeightsToFile(filepath.Join(dir, "w.lzw")))
	f, err := os.Create(filepath.Join(dir, "w.snap"))
	require.NoError(t, err)
	require.NoError(t, src.WriteSnapshot(f))
	require.NoError(t, f.Close())

	m.dir = dir
	m.Weights, m.Compressed = "w.lzw", true
	net, err := m.Build()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, net.GetLayer(2).(*binarynet.BinaryNet).Thresholds())

	m.Weights, m.Compressed, m.Snapshot = "", false, "w.snap"
	net, err = m.Build()
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, net.GetLayer(2).(*binarynet.BinaryNet).Thresholds())
}

func TestReadBatchnorm(t *testing.T) {
	params, err := ReadBatchnorm(strings.NewReader("- {mean: 1.5, gamma: 2, invstd: 0.5, beta: -1}\n"))
	require.NoError(t, err)
	assert.Equal(t, []Batchnorm{{Mean: 1.5, Gamma: 2, InvStd: 0.5, Beta: -1}}, params)
}
