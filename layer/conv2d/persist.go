package conv2d

import (
	"io"

	"github.com/neurlang/bnn/codec"
	"github.com/neurlang/bnn/layer"
	"github.com/pkg/errors"
)

// LoadBinary reads one 8 byte unsigned integer per weight, in
// [out channel][in channel][row][col] order. Value 1 is positive.
func (c *Conv2D) LoadBinary(r io.Reader) error {
	if err := codec.ReadUint64Bits(r, c.w.Len(), c.w.Set); err != nil {
		return errors.Wrapf(err, "%s: load binary", Type)
	}
	return nil
}

// LoadBinaryFile loads the weights from a binary weight file.
func (c *Conv2D) LoadBinaryFile(name string) error {
	f, err := codec.OpenFile(name)
	if err != nil {
		return errors.Wrapf(err, "%s: could not open file", Type)
	}
	defer f.Close()
	return c.LoadBinary(f)
}

// SaveBinary writes the weights in the format read by LoadBinary.
func (c *Conv2D) SaveBinary(w io.Writer) error {
	return codec.WriteUint64Bits(w, c.w.Len(), c.w.Get)
}

// Save writes the weight bits as text tokens.
func (c *Conv2D) Save(w io.Writer) error {
	cw := codec.NewWriter(w)
	if err := cw.Bits(c.w.Len(), c.w.Get); err != nil {
		return errors.Wrapf(err, "%s: save", Type)
	}
	return cw.Flush()
}

// Load reads exactly one text token per weight.
func (c *Conv2D) Load(r io.Reader) error {
	if err := codec.NewReader(r).Bits(c.w.Len(), c.w.Set); err != nil {
		return errors.Wrapf(err, "%s: load", Type)
	}
	return nil
}

func (c *Conv2D) geometry() []uint64 {
	return []uint64{uint64(c.width), uint64(c.height), uint64(c.window), uint64(c.inChannels), uint64(c.outChannels)}
}

// Snapshot returns the packed record of the layer.
func (c *Conv2D) Snapshot() codec.Record {
	return codec.Record{Type: Type, Geometry: c.geometry(), Weights: c.w.Clone()}
}

// Restore replaces the weights with those of rec.
func (c *Conv2D) Restore(rec codec.Record) error {
	if err := layer.CheckRecord(Type, rec, c.geometry()...); err != nil {
		return err
	}
	if rec.Weights.Len() != c.w.Len() || len(rec.Thresholds) != 0 {
		return errors.Wrapf(codec.ErrSnapshot, "%s: %d weights %d thresholds, want %d and 0",
			Type, rec.Weights.Len(), len(rec.Thresholds), c.w.Len())
	}
	copy(c.w.Words(), rec.Weights.Words())
	return nil
}
