package bipolar

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinarizeBoundary(t *testing.T) {
	in := []float64{0, math.Copysign(0, -1), 1e-300, -1e-300, 0.5, -0.3, math.Inf(1), math.Inf(-1), math.NaN()}
	want := []bool{true, true, true, false, true, false, true, false, false}

	v := FromFloats(in)
	require.Equal(t, len(in), v.Len())
	if diff := cmp.Diff(want, v.Bools()); diff != "" {
		t.Errorf("binarized bits mismatch (-want +got):\n%s", diff)
	}
}

func TestBinarizeOverwrites(t *testing.T) {
	v := NewVector(70)
	for i := 0; i < v.Len(); i++ {
		v.Set(i, true)
	}
	in := make([]float64, 70)
	for i := range in {
		in[i] = -1
	}
	in[65] = 0
	Binarize(in, v)
	assert.Equal(t, 1, v.OnesCount())
	assert.True(t, v.Get(65))
}

func TestVectorSetFlip(t *testing.T) {
	v := NewVector(130)
	assert.Equal(t, 0, v.OnesCount())
	v.Set(0, true)
	v.Set(64, true)
	v.Set(129, true)
	assert.Equal(t, 3, v.OnesCount())
	v.Flip(64)
	assert.False(t, v.Get(64))
	assert.Equal(t, +1.0, v.Sign(129))
	assert.Equal(t, -1.0, v.Sign(128))

	c := v.Clone()
	assert.True(t, c.Equal(v))
	c.Flip(1)
	assert.False(t, c.Equal(v))
	assert.False(t, NewVector(3).Equal(NewVector(4)))
}

func TestFromBools(t *testing.T) {
	b := []bool{true, false, false, true, true}
	assert.Equal(t, b, FromBools(b).Bools())
}

func TestMatchCountKernels(t *testing.T) {
	t.Logf("kernel: %s", Kernel)
	for _, n := range []int{0, 1, 2, 63, 64, 65, 127, 128, 200, 256, 257, 320, 321, 640} {
		a := NewVector(n)
		b := NewVector(n)
		want := 0
		for i := 0; i < n; i++ {
			x, y := rand.Intn(2) == 1, rand.Intn(2) == 1
			a.Set(i, x)
			b.Set(i, y)
			if x == y {
				want++
			}
		}
		assert.Equal(t, want, matchCountPopcount(a.words, b.words, n), "popcount n=%d", n)
		assert.Equal(t, want, matchCountPopcount4(a.words, b.words, n), "popcount4 n=%d", n)
		assert.Equal(t, want, matchCountGeneric(a.words, b.words, n), "generic n=%d", n)
		assert.Equal(t, want, a.Matches(b), "dispatched n=%d", n)
	}
}

// every bit of the zero vector matches the zero vector, padding excluded
func TestMatchCountPadding(t *testing.T) {
	a := NewVector(3)
	b := NewVector(3)
	assert.Equal(t, 3, a.Matches(b))
}

// sanity check fuzz
func FuzzBinarize(f *testing.F) {
	f.Add(0.0, -1.0, 2.5)
	f.Fuzz(func(t *testing.T, x, y, z float64) {
		in := []float64{x, y, z}
		v := FromFloats(in)
		for i, e := range in {
			if v.Get(i) != (e >= 0) {
				t.Errorf("Binarize(%v)[%d] == %v", e, i, v.Get(i))
			}
		}
	})
}
