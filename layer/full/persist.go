package full

import (
	"io"

	"github.com/neurlang/bnn/codec"
	"github.com/neurlang/bnn/layer"
	"github.com/pkg/errors"
)

// Save writes the in*out weight bits in flat order.
func (f *Full) Save(w io.Writer) error {
	cw := codec.NewWriter(w)
	if err := cw.Bits(f.w.Len(), f.w.Flat); err != nil {
		return errors.Wrapf(err, "%s: save", Type)
	}
	return cw.Flush()
}

// Load reads exactly in*out weight bits.
func (f *Full) Load(r io.Reader) error {
	if err := codec.NewReader(r).Bits(f.w.Len(), f.w.SetFlat); err != nil {
		return errors.Wrapf(err, "%s: load", Type)
	}
	return nil
}

// Snapshot returns the packed record of the layer.
func (f *Full) Snapshot() codec.Record {
	return layer.MatrixRecord(Type, f.w, nil)
}

// Restore replaces the weights with those of rec.
func (f *Full) Restore(rec codec.Record) error {
	return layer.RestoreMatrix(Type, rec, f.w, nil)
}
