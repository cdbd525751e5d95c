package mhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Hasher_Candidates_Are_Deterministic_For_Same_Seed(t *testing.T) {
	t.Parallel()

	h := newHasherFromSeed(1234)

	a := h.candidates(555, 64)
	b := h.candidates(555, 64)

	assert.Equal(t, a, b)
}

func Test_Hasher_Candidates_Stay_In_Capacity_Range(t *testing.T) {
	t.Parallel()

	h := newHasherFromSeed(7)

	for _, capacity := range []uint64{1, 2, 3, 7, 16, 1000} {
		for key := uint64(0); key < 200; key++ {
			idx := h.candidates(key, capacity)
			for _, i := range idx {
				assert.Lessf(t, i, capacity, "candidate index out of range for capacity %d", capacity)
			}
		}
	}
}

func Test_Hasher_Different_Seeds_Usually_Disagree(t *testing.T) {
	t.Parallel()

	a := newHasherFromSeed(1)
	b := newHasherFromSeed(2)

	mismatches := 0

	for key := uint64(0); key < 64; key++ {
		if a.candidates(key, 4096)[0] != b.candidates(key, 4096)[0] {
			mismatches++
		}
	}

	assert.Greater(t, mismatches, 0, "independent seeds should usually disagree on home index")
}

func Test_IndexFor_Masks_Power_Of_Two_And_Modulo_Capacities(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(5), indexFor(0b1101, 8))
	assert.Equal(t, uint64(1101%7), indexFor(1101, 7))
	assert.Equal(t, uint64(0), indexFor(42, 0))
}

func Test_Hasher_Key_Zero_Is_Not_Special(t *testing.T) {
	t.Parallel()

	h := newHasherFromSeed(99)

	idx := h.candidates(0, 128)
	for _, i := range idx {
		assert.Less(t, i, uint64(128))
	}
}
