package layer

import (
	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/codec"
	"github.com/pkg/errors"
)

// MatrixRecord packs a dense layer into a snapshot record. The weights are
// stored in flat [input][output] order.
func MatrixRecord(kind string, m *bipolar.Matrix, thresholds []uint32) codec.Record {
	w := bipolar.NewVector(m.Len())
	for k := 0; k < m.Len(); k++ {
		w.Set(k, m.Flat(k))
	}
	rec := codec.Record{
		Type:     kind,
		Geometry: []uint64{uint64(m.In()), uint64(m.Out())},
		Weights:  w,
	}
	if len(thresholds) > 0 {
		rec.Thresholds = append([]uint32(nil), thresholds...)
	}
	return rec
}

// RestoreMatrix unpacks a record made by MatrixRecord into m and thresholds.
// The record must match the layer kind and geometry exactly.
func RestoreMatrix(kind string, rec codec.Record, m *bipolar.Matrix, thresholds []uint32) error {
	if err := CheckRecord(kind, rec, uint64(m.In()), uint64(m.Out())); err != nil {
		return err
	}
	if rec.Weights.Len() != m.Len() || len(rec.Thresholds) != len(thresholds) {
		return errors.Wrapf(codec.ErrSnapshot, "%s: %d weights %d thresholds, want %d and %d",
			kind, rec.Weights.Len(), len(rec.Thresholds), m.Len(), len(thresholds))
	}
	for k := 0; k < m.Len(); k++ {
		m.SetFlat(k, rec.Weights.Get(k))
	}
	copy(thresholds, rec.Thresholds)
	return nil
}

// CheckRecord verifies the type and geometry of a record.
func CheckRecord(kind string, rec codec.Record, geometry ...uint64) error {
	if rec.Type != kind {
		return errors.Wrapf(codec.ErrSnapshot, "layer type %q, want %q", rec.Type, kind)
	}
	if len(rec.Geometry) != len(geometry) {
		return errors.Wrapf(codec.ErrSnapshot, "%s: geometry %v, want %v", kind, rec.Geometry, geometry)
	}
	for i := range geometry {
		if rec.Geometry[i] != geometry[i] {
			return errors.Wrapf(codec.ErrSnapshot, "%s: geometry %v, want %v", kind, rec.Geometry, geometry)
		}
	}
	return nil
}
