//go:build cuda

package cuda

import (
	"math/rand"
	"testing"

	"github.com/neurlang/bnn/bipolar"
	"github.com/neurlang/bnn/offload/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgreesWithHost(t *testing.T) {
	d, err := New(0, nil)
	if err != nil {
		t.Skipf("no cuda device: %v", err)
	}
	defer d.Close()

	const in, out = 300, 513
	w := bipolar.NewMatrix(in, out)
	for k := 0; k < w.Len(); k++ {
		w.SetFlat(k, rand.Intn(2) == 1)
	}
	thr := make([]uint32, out)
	for i := range thr {
		thr[i] = uint32(rand.Intn(in + 2))
	}
	x := bipolar.NewVector(in)
	for i := 0; i < in; i++ {
		x.Set(i, rand.Intn(2) == 1)
	}

	want := bipolar.NewVector(out)
	require.NoError(t, cpu.New().Compute(x, thr, w, want))
	got := bipolar.NewVector(out)
	require.NoError(t, d.Compute(x, thr, w, got))
	assert.Equal(t, want.Bools(), got.Bools())
}
