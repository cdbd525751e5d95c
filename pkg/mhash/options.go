package mhash

import "fmt"

// defaultLoadFactorPerMille is the load factor (per spec.md §4.4.3's "700 ≡
// 70%") that rebuildOrRehash compares against to choose between rebuild and
// rehash. rehash falls back to rebuild, so the table grows either way.
const defaultLoadFactorPerMille = 700

// defaultMaxCapacityPages bounds pathological growth, mirroring spec §4.4.7's
// "hard ceiling (e.g., 5·10^7 buckets in one variant)". It is intentionally
// generous, in the register of pkg/slotcache's hardcoded implementation
// limits: it exists to keep runaway workloads from silently consuming all
// memory, not to constrain realistic ones.
const defaultMaxCapacityPages = 50_000_000

// maxIterationCuckoo bounds the number of displacement attempts per
// insert before falling back to an overflow page (spec §4.4.3 step 3; the
// bitmap-variant value of 5 per spec §4.4.3).
const maxIterationCuckoo = 5

// Options configures a new [Table].
type Options struct {
	// InitialCapacity is the number of pages to allocate up front. Must be
	// >= 1. Defaults to 2 (spec §4.4.1: "new(capacity=2)").
	InitialCapacity uint64

	// LoadFactorPerMille is the per-mille occupancy threshold that
	// rebuildOrRehash compares against to choose between rebuild and rehash
	// (spec §4.4.3 step 4). rehash falls back to rebuild, so the table grows
	// on either side of it. Must be in (0, 1000].
	// Defaults to 700.
	LoadFactorPerMille uint32

	// MaxCapacityPages is the hard ceiling on the page array size. Rebuild
	// that would exceed it panics with a [GrowthLimitError] instead of
	// growing further (spec §4.4.7, §7). Defaults to 50,000,000.
	MaxCapacityPages uint64
}

// withDefaults returns a copy of o with zero-valued fields replaced by
// their documented defaults, and validates the result.
func (o Options) withDefaults() (Options, error) {
	if o.InitialCapacity == 0 {
		o.InitialCapacity = 2
	}

	if o.LoadFactorPerMille == 0 {
		o.LoadFactorPerMille = defaultLoadFactorPerMille
	}

	if o.MaxCapacityPages == 0 {
		o.MaxCapacityPages = defaultMaxCapacityPages
	}

	if o.InitialCapacity < 1 {
		return Options{}, fmt.Errorf("initial capacity must be >= 1, got %d: %w", o.InitialCapacity, ErrInvalidCapacity)
	}

	if o.LoadFactorPerMille > 1000 {
		return Options{}, fmt.Errorf("load factor must be in (0, 1000], got %d: %w", o.LoadFactorPerMille, ErrInvalidLoadFactor)
	}

	if o.MaxCapacityPages < o.InitialCapacity {
		return Options{}, fmt.Errorf("max capacity pages %d is below initial capacity %d: %w", o.MaxCapacityPages, o.InitialCapacity, ErrInvalidGrowthLimit)
	}

	return o, nil
}
