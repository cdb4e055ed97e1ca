// Package bipolar implements bit packed vectors and matrices of two-state (+1/-1) values
package bipolar

import "math/bits"

const wordBits = 64

// Vector is a fixed length vector of bipolar bits. Bit true is the positive
// state (+1), bit false is the negative state (-1).
type Vector struct {
	words []uint64
	n     int
}

// NewVector creates a vector of n bits, all in the negative state.
func NewVector(n int) Vector {
	if n < 0 {
		n = 0
	}
	return Vector{
		words: make([]uint64, (n+wordBits-1)/wordBits),
		n:     n,
	}
}

// FromBools creates a vector from booleans.
func FromBools(b []bool) Vector {
	v := NewVector(len(b))
	for i, x := range b {
		v.Set(i, x)
	}
	return v
}

// FromFloats binarizes in into a freshly allocated vector.
func FromFloats(in []float64) Vector {
	v := NewVector(len(in))
	Binarize(in, v)
	return v
}

// Binarize writes the sign of each element of in into out. Element i is
// positive iff in[i] >= 0, so zero is positive. Only min(len(in), out.Len())
// elements are written.
func Binarize(in []float64, out Vector) {
	n := len(in)
	if out.n < n {
		n = out.n
	}
	for w := range out.words {
		var word uint64
		base := w * wordBits
		for j := 0; j < wordBits && base+j < n; j++ {
			if in[base+j] >= 0 {
				word |= 1 << uint(j)
			}
		}
		out.words[w] = word
	}
}

// Len returns the number of bits.
func (v Vector) Len() int {
	return v.n
}

// Get returns bit n.
func (v Vector) Get(n int) bool {
	return v.words[n/wordBits]&(1<<uint(n%wordBits)) != 0
}

// Set sets bit n.
func (v Vector) Set(n int, b bool) {
	if b {
		v.words[n/wordBits] |= 1 << uint(n%wordBits)
	} else {
		v.words[n/wordBits] &^= 1 << uint(n%wordBits)
	}
}

// Flip negates bit n.
func (v Vector) Flip(n int) {
	v.words[n/wordBits] ^= 1 << uint(n%wordBits)
}

// Sign returns +1 or -1 for bit n.
func (v Vector) Sign(n int) float64 {
	if v.Get(n) {
		return +1
	}
	return -1
}

// Words exposes the packed storage. Bits past Len are always zero.
func (v Vector) Words() []uint64 {
	return v.words
}

// Clear puts all bits in the negative state.
func (v Vector) Clear() {
	for i := range v.words {
		v.words[i] = 0
	}
}

// Clone returns a deep copy.
func (v Vector) Clone() Vector {
	o := Vector{words: make([]uint64, len(v.words)), n: v.n}
	copy(o.words, v.words)
	return o
}

// Equal reports whether both vectors hold the same bits.
func (v Vector) Equal(o Vector) bool {
	if v.n != o.n {
		return false
	}
	for i := range v.words {
		if v.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Bools unpacks the vector.
func (v Vector) Bools() []bool {
	o := make([]bool, v.n)
	for i := range o {
		o[i] = v.Get(i)
	}
	return o
}

// OnesCount returns the number of positive bits.
func (v Vector) OnesCount() (o int) {
	for _, w := range v.words {
		o += bits.OnesCount64(w)
	}
	return
}

// Matches returns the number of positions where v and o hold the same bit.
// Both vectors must have the same length.
func (v Vector) Matches(o Vector) int {
	return MatchCount(v.words, o.words, v.n)
}

// tail returns the mask of valid bits in the last word of an n bit vector.
func tail(n int) uint64 {
	if n%wordBits == 0 {
		return ^uint64(0)
	}
	return (1 << uint(n%wordBits)) - 1
}
