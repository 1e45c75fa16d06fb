package styledtext

import "math"

// Value hashes feed memoization caches upstream, and cache identifiers
// derived from them cross the process boundary, so the scheme must be
// stable across runs. FNV-1a over the field bytes, combined in field
// order, satisfies that; Go's randomized map hashing does not.
const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211
)

func hashString(seed uint64, s string) uint64 {
	h := seed ^ fnvOffset64
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func hashUint64(seed, v uint64) uint64 {
	h := seed ^ fnvOffset64
	for i := 0; i < 8; i++ {
		h ^= (v >> (8 * i)) & 0xff
		h *= fnvPrime64
	}
	return h
}

func hashInt(seed uint64, v int) uint64 {
	return hashUint64(seed, uint64(int64(v)))
}

// hashFloat hashes the bit pattern, so the NaN sentinel hashes
// consistently and +0/-0 remain distinct.
func hashFloat(seed uint64, v float64) uint64 {
	return hashUint64(seed, math.Float64bits(v))
}

func hashBool(seed uint64, v bool) uint64 {
	if v {
		return hashUint64(seed, 1)
	}
	return hashUint64(seed, 0)
}
