package layer

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
)

// Buffers holds the per worker slot activation buffers of a layer. Slot n
// is exclusively owned by the caller using worker index n.
type Buffers struct {
	a   [][]float64
	out [][]float64
}

// NewBuffers allocates workers slots, each with an accumulator of size acc
// and an output of size out. acc may be zero.
func NewBuffers(workers, acc, out int) Buffers {
	if workers <= 0 {
		workers = 1
	}
	var b Buffers
	b.a = make([][]float64, workers)
	b.out = make([][]float64, workers)
	for i := 0; i < workers; i++ {
		b.a[i] = make([]float64, acc)
		b.out[i] = make([]float64, out)
	}
	return b
}

// Workers returns the number of slots.
func (b *Buffers) Workers() int {
	return len(b.out)
}

// Slot returns the accumulator and output buffers of worker.
func (b *Buffers) Slot(worker int) (a, out []float64, err error) {
	if worker < 0 || worker >= len(b.out) {
		return nil, nil, errors.Wrapf(ErrWorker, "worker %d of %d", worker, len(b.out))
	}
	return b.a[worker], b.out[worker], nil
}

// CheckInput verifies the input length of a layer.
func CheckInput(kind string, in []float64, size int) error {
	if len(in) != size {
		return errors.Wrapf(ErrInputSize, "%s: got %d want %d", kind, len(in), size)
	}
	return nil
}

// NotImplemented returns ErrNotImplemented annotated with the layer kind and operation.
func NotImplemented(kind, op string) error {
	return errors.Wrapf(ErrNotImplemented, "%s: %s", kind, op)
}

// LogVector prints a vector to l, if l is not nil.
func LogVector(l *log.Logger, v []float64, name string) {
	if l == nil {
		return
	}
	l.Println(name, fmt.Sprint(v))
}
