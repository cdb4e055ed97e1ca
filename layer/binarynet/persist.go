package binarynet

import (
	"io"

	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/codec"
	"github.com/neurlang/bnn/layer"
	"github.com/pkg/errors"
)

// Save writes the in*out weight bits in flat order followed by the out thresholds.
func (b *BinaryNet) Save(w io.Writer) error {
	cw := codec.NewWriter(w)
	if err := cw.Bits(b.w.Len(), b.w.Flat); err != nil {
		return errors.Wrapf(err, "%s: save weights", Type)
	}
	if err := cw.Uints(b.thr); err != nil {
		return errors.Wrapf(err, "%s: save thresholds", Type)
	}
	return cw.Flush()
}

// Load reads exactly in*out weight bits and out thresholds. On error the
// layer is left untouched.
func (b *BinaryNet) Load(r io.Reader) error {
	cr := codec.NewReader(r)
	w := bipolar.NewMatrix(b.in, b.out)
	if err := cr.Bits(w.Len(), w.SetFlat); err != nil {
		return errors.Wrapf(err, "%s: load weights", Type)
	}
	thr := make([]uint32, b.out)
	if err := cr.Uints(thr); err != nil {
		return errors.Wrapf(err, "%s: load thresholds", Type)
	}
	for i := 0; i < b.out; i++ {
		copy(b.w.Row(i).Words(), w.Row(i).Words())
	}
	copy(b.thr, thr)
	return nil
}

// Snapshot returns the packed record of the layer.
func (b *BinaryNet) Snapshot() codec.Record {
	return layer.MatrixRecord(Type, b.w, b.thr)
}

// Restore replaces the weights and thresholds with those of rec.
func (b *BinaryNet) Restore(rec codec.Record) error {
	return layer.RestoreMatrix(Type, rec, b.w, b.thr)
}
