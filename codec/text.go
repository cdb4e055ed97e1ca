package codec

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Writer writes newline terminated text tokens.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w. If w is already a *bufio.Writer it is used as is, so
// several layers can share one stream.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// Bits writes n bits, bit(k) for k in [0, n), as "1" or "0" tokens.
func (w *Writer) Bits(n int, bit func(k int) bool) error {
	for k := 0; k < n; k++ {
		var err error
		if bit(k) {
			_, err = w.bw.WriteString("1\n")
		} else {
			_, err = w.bw.WriteString("0\n")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Uints writes every value as a decimal token.
func (w *Writer) Uints(src []uint32) error {
	var buf [16]byte
	for _, v := range src {
		b := strconv.AppendUint(buf[:0], uint64(v), 10)
		b = append(b, '\n')
		if _, err := w.bw.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffered tokens to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Reader reads whitespace separated text tokens.
type Reader struct {
	br  *bufio.Reader
	buf []byte
}

// NewReader wraps r. If r is already a *bufio.Reader it is used as is and
// no input past the last token read is consumed.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\v' || c == '\f'
}

// token returns the next token. The returned slice is valid until the next call.
func (r *Reader) token() ([]byte, error) {
	r.buf = r.buf[:0]
	for {
		c, err := r.br.ReadByte()
		if err == io.EOF {
			if len(r.buf) > 0 {
				return r.buf, nil
			}
			return nil, ErrShortRead
		}
		if err != nil {
			return nil, err
		}
		if isSpace(c) {
			if len(r.buf) > 0 {
				return r.buf, nil
			}
			continue
		}
		r.buf = append(r.buf, c)
	}
}

// Bits reads exactly n bit tokens and passes them to set in order.
func (r *Reader) Bits(n int, set func(k int, v bool)) error {
	for k := 0; k < n; k++ {
		tok, err := r.token()
		if err != nil {
			return errors.Wrapf(err, "bit %d of %d", k, n)
		}
		switch string(tok) {
		case "1":
			set(k, true)
		case "0":
			set(k, false)
		default:
			return errors.Wrapf(ErrBadToken, "bit %d of %d: %q", k, n, tok)
		}
	}
	return nil
}

// Uints reads exactly len(dst) decimal tokens into dst.
func (r *Reader) Uints(dst []uint32) error {
	for i := range dst {
		tok, err := r.token()
		if err != nil {
			return errors.Wrapf(err, "integer %d of %d", i, len(dst))
		}
		v, err := strconv.ParseUint(string(tok), 10, 32)
		if err != nil {
			return errors.Wrapf(ErrBadToken, "integer %d of %d: %q", i, len(dst), tok)
		}
		dst[i] = uint32(v)
	}
	return nil
}
