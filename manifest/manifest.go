// Package manifest describes a binarized network in YAML and builds the
// feedforward network it names.
//
// A manifest lists the layers in order, the worker and parallel settings
// shared by all layers and optionally where the trained weights live:
//
//	workers: 4
//	parallel: limit
//	offload: cpu
//	weights: model.txt.lzw
//	compressed: true
//	layers:
//	  - type: bnn_conv_layer
//	    width: 28
//	    height: 28
//	    window: 3
//	    in_channels: 1
//	    out_channels: 8
//	    popcount: true
//	  - type: binarynet-fully-connected
//	    in: 5408
//	    out: 10
//
// Relative paths are resolved against the directory of the manifest file.
package manifest

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Batchnorm holds the batch normalization parameters of one neuron.
type Batchnorm struct {
	Mean   float64 `yaml:"mean"`
	Gamma  float64 `yaml:"gamma"`
	InvStd float64 `yaml:"invstd"`
	Beta   float64 `yaml:"beta"`
}

// Layer describes one layer. Which fields apply depends on Type.
type Layer struct {
	Type string `yaml:"type"`

	// dense layers
	In         int    `yaml:"in,omitempty"`
	Out        int    `yaml:"out,omitempty"`
	Activation string `yaml:"activation,omitempty"`

	// thresholded dense layers, folded after the weights are loaded
	Batchnorm []Batchnorm `yaml:"batchnorm,omitempty"`

	// convolution layers
	Width       int    `yaml:"width,omitempty"`
	Height      int    `yaml:"height,omitempty"`
	Window      int    `yaml:"window,omitempty"`
	InChannels  int    `yaml:"in_channels,omitempty"`
	OutChannels int    `yaml:"out_channels,omitempty"`
	Popcount    bool   `yaml:"popcount,omitempty"`
	BinaryFile  string `yaml:"binary_file,omitempty"`
}

// Manifest describes a whole network.
type Manifest struct {
	Workers  int    `yaml:"workers,omitempty"`
	Parallel string `yaml:"parallel,omitempty"`
	Offload  string `yaml:"offload,omitempty"`

	Weights    string `yaml:"weights,omitempty"`
	Compressed bool   `yaml:"compressed,omitempty"`
	Snapshot   string `yaml:"snapshot,omitempty"`

	Layers []Layer `yaml:"layers"`

	dir string
}

// Parse decodes a manifest. Unknown fields are an error.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrap(err, "manifest")
	}
	if len(m.Layers) == 0 {
		return nil, errors.New("manifest: no layers")
	}
	return &m, nil
}

// ParseFile decodes the manifest stored in name.
func ParseFile(name string) (*Manifest, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	m.dir = filepath.Dir(name)
	return m, nil
}

// Write encodes m as YAML.
func (m *Manifest) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

func (m *Manifest) path(name string) string {
	if name == "" || filepath.IsAbs(name) || m.dir == "" {
		return name
	}
	return filepath.Join(m.dir, name)
}

// ReadBatchnorm decodes a YAML list of per neuron batch normalization parameters.
func ReadBatchnorm(r io.Reader) ([]Batchnorm, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var params []Batchnorm
	if err := dec.Decode(&params); err != nil {
		return nil, errors.Wrap(err, "batchnorm")
	}
	return params, nil
}
