package codec

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// unavailable reports as ErrUnavailable while keeping the os error in the chain.
type unavailable struct {
	err error
}

func (u unavailable) Error() string        { return ErrUnavailable.Error() + ": " + u.err.Error() }
func (u unavailable) Unwrap() error        { return u.err }
func (u unavailable) Is(target error) bool { return target == ErrUnavailable }

// OpenFile opens name for reading. Failure matches both ErrUnavailable and
// the underlying os error, such as fs.ErrNotExist.
func OpenFile(name string) (*os.File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, unavailable{err: err}
	}
	return f, nil
}

// ReadUint64Bits reads n little endian 8 byte unsigned integers. Value 1 is
// the positive state, any other value is negative.
func ReadUint64Bits(r io.Reader, n int, set func(k int, v bool)) error {
	br := bufio.NewReader(r)
	var buf [8]byte
	for k := 0; k < n; k++ {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return errors.Wrapf(ErrShortRead, "weight %d of %d", k, n)
			}
			return err
		}
		set(k, binary.LittleEndian.Uint64(buf[:]) == 1)
	}
	return nil
}

// WriteUint64Bits writes n bits in the format read by ReadUint64Bits.
func WriteUint64Bits(w io.Writer, n int, bit func(k int) bool) error {
	bw := bufio.NewWriter(w)
	var buf [8]byte
	for k := 0; k < n; k++ {
		if bit(k) {
			binary.LittleEndian.PutUint64(buf[:], 1)
		} else {
			binary.LittleEndian.PutUint64(buf[:], 0)
		}
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
