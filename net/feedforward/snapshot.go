package feedforward

import (
	"io"

	"github.com/neurlang/bnn/codec"
	"github.com/pkg/errors"
)

// Snapshotter is implemented by layers that can be stored in a snapshot.
type Snapshotter interface {
	Snapshot() codec.Record
	Restore(rec codec.Record) error
}

// WriteSnapshot writes one packed record per layer.
func (f FeedforwardNetwork) WriteSnapshot(w io.Writer) error {
	recs := make([]codec.Record, 0, len(f.layers))
	for i, l := range f.layers {
		s, ok := l.(Snapshotter)
		if !ok {
			return errors.Wrapf(codec.ErrSnapshot, "layer %d %s cannot be snapshotted", i, l.Type())
		}
		recs = append(recs, s.Snapshot())
	}
	return codec.WriteSnapshot(w, recs)
}

// ReadSnapshot restores every layer from a snapshot. The snapshot must
// hold exactly one matching record per layer.
func (f *FeedforwardNetwork) ReadSnapshot(r io.Reader) error {
	recs, err := codec.ReadSnapshot(r)
	if err != nil {
		return err
	}
	if len(recs) != len(f.layers) {
		return errors.Wrapf(codec.ErrSnapshot, "%d records for %d layers", len(recs), len(f.layers))
	}
	for i, l := range f.layers {
		s, ok := l.(Snapshotter)
		if !ok {
			return errors.Wrapf(codec.ErrSnapshot, "layer %d %s cannot be restored", i, l.Type())
		}
		if err := s.Restore(recs[i]); err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
	}
	return nil
}
