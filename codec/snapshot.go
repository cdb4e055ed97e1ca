package codec

import (
	"io"
	"math"

	"github.com/neurlang/bnn/bipolar"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Record is the snapshot of one layer.
type Record struct {
	Type       string
	Geometry   []uint64
	Weights    bipolar.Vector // flat weight order of the layer
	Thresholds []uint32
}

const (
	fieldLayer = 1

	fieldType       = 1
	fieldGeometry   = 2
	fieldBits       = 3
	fieldWords      = 4
	fieldThresholds = 5
)

// AppendRecord appends the wire encoding of rec (without the enclosing layer tag).
func AppendRecord(b []byte, rec Record) []byte {
	b = protowire.AppendTag(b, fieldType, protowire.BytesType)
	b = protowire.AppendString(b, rec.Type)

	if len(rec.Geometry) > 0 {
		var packed []byte
		for _, g := range rec.Geometry {
			packed = protowire.AppendVarint(packed, g)
		}
		b = protowire.AppendTag(b, fieldGeometry, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}

	b = protowire.AppendTag(b, fieldBits, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rec.Weights.Len()))
	if words := rec.Weights.Words(); len(words) > 0 {
		packed := make([]byte, 0, 8*len(words))
		for _, w := range words {
			packed = protowire.AppendFixed64(packed, w)
		}
		b = protowire.AppendTag(b, fieldWords, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}

	if len(rec.Thresholds) > 0 {
		var packed []byte
		for _, t := range rec.Thresholds {
			packed = protowire.AppendVarint(packed, uint64(t))
		}
		b = protowire.AppendTag(b, fieldThresholds, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	return b
}

// WriteSnapshot writes every record to w.
func WriteSnapshot(w io.Writer, recs []Record) error {
	var b []byte
	for _, rec := range recs {
		b = protowire.AppendTag(b, fieldLayer, protowire.BytesType)
		b = protowire.AppendBytes(b, AppendRecord(nil, rec))
	}
	_, err := w.Write(b)
	return err
}

// ReadSnapshot reads all records from r.
func ReadSnapshot(r io.Reader) (recs []Record, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errors.Wrap(ErrSnapshot, protowire.ParseError(n).Error())
		}
		b = b[n:]
		if num != fieldLayer || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errors.Wrap(ErrSnapshot, protowire.ParseError(n).Error())
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, errors.Wrap(ErrSnapshot, protowire.ParseError(n).Error())
		}
		b = b[n:]
		rec, err := ParseRecord(v)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", len(recs))
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func consumePacked(v []byte, each func(x uint64)) error {
	for len(v) > 0 {
		x, n := protowire.ConsumeVarint(v)
		if n < 0 {
			return errors.Wrap(ErrSnapshot, protowire.ParseError(n).Error())
		}
		each(x)
		v = v[n:]
	}
	return nil
}

// ParseRecord decodes one record encoded by AppendRecord.
func ParseRecord(b []byte) (rec Record, err error) {
	var nbits uint64
	var words []uint64
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return rec, errors.Wrap(ErrSnapshot, protowire.ParseError(n).Error())
		}
		b = b[n:]
		switch {
		case num == fieldType && typ == protowire.BytesType:
			var s string
			s, n = protowire.ConsumeString(b)
			rec.Type = s
		case num == fieldGeometry && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				err = consumePacked(v, func(x uint64) { rec.Geometry = append(rec.Geometry, x) })
			}
		case num == fieldBits && typ == protowire.VarintType:
			nbits, n = protowire.ConsumeVarint(b)
		case num == fieldWords && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			for len(v) > 0 && n >= 0 {
				w, m := protowire.ConsumeFixed64(v)
				if m < 0 {
					return rec, errors.Wrap(ErrSnapshot, protowire.ParseError(m).Error())
				}
				words = append(words, w)
				v = v[m:]
			}
		case num == fieldThresholds && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				var overflow error
				err = consumePacked(v, func(x uint64) {
					if x > math.MaxUint32 && overflow == nil {
						overflow = errors.Wrapf(ErrSnapshot, "threshold %d overflows uint32", x)
					}
					rec.Thresholds = append(rec.Thresholds, uint32(x))
				})
				if err == nil {
					err = overflow
				}
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return rec, errors.Wrap(ErrSnapshot, protowire.ParseError(n).Error())
		}
		if err != nil {
			return rec, err
		}
		b = b[n:]
	}

	// the bit count must fit the words present before it sizes anything
	if nbits > uint64(len(words))*64 || (nbits+63)/64 != uint64(len(words)) {
		return rec, errors.Wrapf(ErrSnapshot, "%d weight bits in %d words", nbits, len(words))
	}
	rec.Weights = bipolar.NewVector(int(nbits))
	copy(rec.Weights.Words(), words)
	if n := len(words); n > 0 && nbits%64 != 0 {
		rec.Weights.Words()[n-1] &= (1 << (nbits % 64)) - 1
	}
	return rec, nil
}
