package cost

import "math/bits"

// UE returns the size in bits of v as an unsigned Exp-Golomb code.
func UE(v uint32) int {
	return 2*(bits.Len32(v+1)-1) + 1
}

// SE returns the size in bits of v as a signed Exp-Golomb code.
func SE(v int) int {
	if v <= 0 {
		return UE(uint32(-v * 2))
	}
	return UE(uint32(v*2 - 1))
}

// TE returns the size of v as a truncated Exp-Golomb code with range max.
func TE(max, v int) int {
	switch {
	case max == 1:
		return 1
	case max > 1:
		return UE(uint32(v))
	}
	return 0
}
