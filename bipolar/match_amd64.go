//go:build !noasm && amd64

package bipolar

import "github.com/klauspost/cpuid/v2"

func init() {
	// math/bits falls back to a software popcount without POPCNT, unrolling
	// only pays off with the instruction.
	if cpuid.CPU.Supports(cpuid.POPCNT) {
		MatchCount = matchCountPopcount4
		Kernel = "popcount4"
	} else {
		MatchCount = matchCountPopcount
		Kernel = "popcount"
	}
}
