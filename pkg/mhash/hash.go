package mhash

import (
	"crypto/rand"
	"encoding/binary"
)

// hasher produces up to four independent, ordered candidate page indices
// for a key, per spec §4.3. It holds its salts as table-owned state rather
// than a global hash-function object (spec §9 design note), and a portable
// multiply-xor-shift mix rather than any SIMD/intrinsic shortcut - the
// contract is behavioral, not intrinsic.
type hasher struct {
	salts [4]uint64
}

// newHasher seeds a fresh hasher from crypto/rand, matching the
// collision-resistant token generation pattern the teacher corpus uses when
// seeding per-instance identifiers.
func newHasher() hasher {
	var raw [32]byte
	if _, err := rand.Read(raw[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to fixed salts rather than leave the table
		// unseeded, trading away salt secrecy for availability.
		return newHasherFromSeed(0x9e3779b97f4a7c15)
	}

	var h hasher
	for i := range h.salts {
		h.salts[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}

	return h
}

// newHasherFromSeed builds a deterministic hasher from a single seed,
// useful for reproducible tests and fuzzing.
func newHasherFromSeed(seed uint64) hasher {
	var h hasher

	x := seed
	for i := range h.salts {
		// splitmix64, used only to decorrelate the four salts from a
		// single seed - not a cryptographic requirement here.
		x += 0x9e3779b97f4a7c15
		z := x
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z = z ^ (z >> 31)
		h.salts[i] = z | 1 // keep salts odd for better multiplicative mixing
	}

	return h
}

// mix64 is a 64-bit multiply-xor-shift finalizer (the murmur3/splitmix
// finalizer shape), used to turn key^salt into a well-distributed index.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33

	return x
}

// candidates returns the ordered tuple of up to four candidate page
// indices for key k modulo capacity. Index 0 is the cheap, well-distributed
// "home" index. If any later index collides with an earlier one, it is
// perturbed (bitwise complement) and re-masked; duplicates surviving that
// are tolerated (they simply reduce effective capacity for that key, per
// spec §4.3).
//
// capacity need not be a power of two; masking falls back to modulo.
func (h hasher) candidates(k uint64, capacity uint64) [4]uint64 {
	var idx [4]uint64

	for i := 0; i < 4; i++ {
		v := mix64(k ^ h.salts[i])
		idx[i] = indexFor(v, capacity)
	}

	for i := 1; i < 4; i++ {
		for j := 0; j < i; j++ {
			if idx[i] == idx[j] {
				idx[i] = indexFor(mix64(^idx[i]), capacity)

				break
			}
		}
	}

	return idx
}

// indexFor masks v into [0, capacity). capacity==0 is never passed by
// Table (capacity is always >=1), but is handled defensively.
func indexFor(v, capacity uint64) uint64 {
	if capacity == 0 {
		return 0
	}

	if capacity&(capacity-1) == 0 {
		return v & (capacity - 1)
	}

	return v % capacity
}
