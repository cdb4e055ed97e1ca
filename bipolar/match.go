package bipolar

import "math/bits"

// MatchCount counts the positions among the first n bits where a and b agree,
// the XNOR popcount of the two packed vectors. The implementation is chosen at
// init time depending on the CPU.
var MatchCount = matchCountPopcount

// Kernel names the MatchCount implementation in use.
var Kernel = "popcount"

func matchCountPopcount(a, b []uint64, n int) (o int) {
	if n == 0 {
		return 0
	}
	last := (n - 1) / wordBits
	for i := 0; i < last; i++ {
		o += bits.OnesCount64(^(a[i] ^ b[i]))
	}
	o += bits.OnesCount64(^(a[last] ^ b[last]) & tail(n))
	return
}

// matchCountPopcount4 handles four words per step with independent
// accumulators, so hardware POPCNT instructions can overlap.
func matchCountPopcount4(a, b []uint64, n int) int {
	if n == 0 {
		return 0
	}
	last := (n - 1) / wordBits
	var o0, o1, o2, o3 int
	i := 0
	for ; i+4 <= last; i += 4 {
		o0 += bits.OnesCount64(^(a[i] ^ b[i]))
		o1 += bits.OnesCount64(^(a[i+1] ^ b[i+1]))
		o2 += bits.OnesCount64(^(a[i+2] ^ b[i+2]))
		o3 += bits.OnesCount64(^(a[i+3] ^ b[i+3]))
	}
	for ; i < last; i++ {
		o0 += bits.OnesCount64(^(a[i] ^ b[i]))
	}
	o0 += bits.OnesCount64(^(a[last] ^ b[last]) & tail(n))
	return o0 + o1 + o2 + o3
}

// matchCountGeneric is the bit by bit reference kernel. It is never
// dispatched, tests check the word kernels against it.
func matchCountGeneric(a, b []uint64, n int) (o int) {
	for i := 0; i < n; i++ {
		x := a[i/wordBits] >> uint(i%wordBits)
		y := b[i/wordBits] >> uint(i%wordBits)
		if (x^y)&1 == 0 {
			o++
		}
	}
	return
}
