package manifest

import (
	"log"

	"github.com/neurlang/bnn/codec"
	"github.com/neurlang/bnn/layer"
	"github.com/neurlang/bnn/layer/activation"
	"github.com/neurlang/bnn/layer/binarynet"
	"github.com/neurlang/bnn/layer/conv2d"
	"github.com/neurlang/bnn/layer/full"
	"github.com/neurlang/bnn/net/feedforward"
	"github.com/neurlang/bnn/offload/cpu"
	"github.com/neurlang/bnn/parallel"
	"github.com/pkg/errors"
)

// BuildOption configures Build.
type BuildOption func(*builder)

type builder struct {
	l         *log.Logger
	offloader binarynet.Offloader
}

// WithLogger hands l to every layer and to the network.
func WithLogger(l *log.Logger) BuildOption {
	return func(b *builder) { b.l = l }
}

// WithOffloader sets the offload hook of the thresholded layers, taking
// precedence over the offload field of the manifest.
func WithOffloader(o binarynet.Offloader) BuildOption {
	return func(b *builder) { b.offloader = o }
}

func (m *Manifest) parallelFor() (parallel.For, error) {
	switch m.Parallel {
	case "", "serial":
		return parallel.Serial, nil
	case "limit":
		return parallel.Limit(m.Workers), nil
	case "chunked":
		return parallel.Chunked(m.Workers), nil
	}
	return nil, errors.Errorf("manifest: unknown parallel %q", m.Parallel)
}

func (m *Manifest) offload(b *builder) (binarynet.Offloader, error) {
	if b.offloader != nil {
		return b.offloader, nil
	}
	switch m.Offload {
	case "":
		return nil, nil
	case "cpu":
		return cpu.New(cpu.WithWorkers(m.Workers)), nil
	}
	return nil, errors.Errorf("manifest: offload %q must be supplied by the caller", m.Offload)
}

func workers(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// Build constructs the network, loads the weights the manifest points to
// and folds batch normalization parameters into the thresholded layers,
// in that order.
func (m *Manifest) Build(opts ...BuildOption) (*feedforward.FeedforwardNetwork, error) {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}
	pfor, err := m.parallelFor()
	if err != nil {
		return nil, err
	}
	off, err := m.offload(&b)
	if err != nil {
		return nil, err
	}

	net := &feedforward.FeedforwardNetwork{}
	net.SetLogger(b.l)
	var folds []func() error
	for i, desc := range m.Layers {
		var l layer.Layer
		switch desc.Type {
		case full.Type:
			act, err := activation.ByName(desc.Activation)
			if err != nil {
				return nil, errors.Wrapf(err, "manifest: layer %d", i)
			}
			l, err = full.New(desc.In, desc.Out,
				full.WithWorkers(workers(m.Workers)),
				full.WithParallel(pfor),
				full.WithActivation(act),
				full.WithLogger(b.l))
			if err != nil {
				return nil, errors.Wrapf(err, "manifest: layer %d", i)
			}
		case binarynet.Type:
			bn, err := binarynet.New(desc.In, desc.Out,
				binarynet.WithWorkers(workers(m.Workers)),
				binarynet.WithParallel(pfor),
				binarynet.WithOffload(off),
				binarynet.WithLogger(b.l))
			if err != nil {
				return nil, errors.Wrapf(err, "manifest: layer %d", i)
			}
			if len(desc.Batchnorm) > 0 {
				params := make([]binarynet.BatchnormParams, len(desc.Batchnorm))
				for j, p := range desc.Batchnorm {
					params[j] = binarynet.BatchnormParams(p)
				}
				folds = append(folds, func() error {
					return errors.Wrapf(bn.FoldBatchnorm(params), "manifest: layer %d", i)
				})
			}
			l = bn
		case conv2d.Type:
			copts := []conv2d.Option{
				conv2d.WithWorkers(workers(m.Workers)),
				conv2d.WithPopcount(desc.Popcount),
				conv2d.WithLogger(b.l),
			}
			if desc.BinaryFile != "" {
				copts = append(copts, conv2d.WithBinaryFile(m.path(desc.BinaryFile)))
			}
			l, err = conv2d.New(desc.Width, desc.Height, desc.Window, desc.InChannels, desc.OutChannels, copts...)
			if err != nil {
				return nil, errors.Wrapf(err, "manifest: layer %d", i)
			}
		default:
			return nil, errors.Errorf("manifest: layer %d: unknown type %q", i, desc.Type)
		}
		if err := net.NewLayer(l); err != nil {
			return nil, errors.Wrap(err, "manifest")
		}
	}

	if err := m.load(net); err != nil {
		return nil, err
	}
	for _, fold := range folds {
		if err := fold(); err != nil {
			return nil, err
		}
	}
	return net, nil
}

func (m *Manifest) load(net *feedforward.FeedforwardNetwork) error {
	switch {
	case m.Snapshot != "":
		f, err := codec.OpenFile(m.path(m.Snapshot))
		if err != nil {
			return errors.Wrap(err, "manifest: snapshot")
		}
		defer f.Close()
		return errors.Wrap(net.ReadSnapshot(f), "manifest: snapshot")
	case m.Weights != "" && m.Compressed:
		return errors.Wrap(net.ReadCompressedWeightsFromFile(m.path(m.Weights)), "manifest: weights")
	case m.Weights != "":
		f, err := codec.OpenFile(m.path(m.Weights))
		if err != nil {
			return errors.Wrap(err, "manifest: weights")
		}
		defer f.Close()
		return errors.Wrap(net.ReadWeights(f), "manifest: weights")
	}
	return nil
}
