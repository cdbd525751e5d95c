package mhash

import "runtime"

// Table is a page-oriented, open-addressed cuckoo hash map from uint64 to
// uint64. See the package doc for concurrency and error-handling
// semantics.
//
// A Table is single-writer, single-reader (spec §5) and must not be copied
// after first use.
type Table struct {
	pages    []page
	capacity uint64 // len(pages)

	numEntries          uint64
	numOverflowPages    uint64
	numOverflowElements uint64

	// overflowPages roots every overflow page allocated off of t.pages.
	// t.pages may live outside normal Go-heap memory (unix.Mmap, or a
	// manually aligned byte slice reinterpreted via unsafe), so the
	// garbage collector does not scan the overflow pointer chain stored
	// inside it. overflowPages is an ordinary, scanned slice field that
	// keeps every overflow page reachable for as long as the Table
	// itself is, independent of whether t.pages is scanned.
	overflowPages []*page

	hasher hasher

	loadFactorPerMille uint32
	maxCapacityPages   uint64
}

// New constructs a Table. A zero Options uses the documented defaults
// (initial capacity 2, 70% rebuild threshold, a 50,000,000-page growth
// ceiling).
func New(opts Options) (*Table, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	return &Table{
		pages:              allocPages(o.InitialCapacity),
		capacity:           o.InitialCapacity,
		hasher:             newHasher(),
		loadFactorPerMille: o.LoadFactorPerMille,
		maxCapacityPages:   o.MaxCapacityPages,
	}, nil
}

// Must is New, panicking on invalid Options. Intended for callers (tests,
// benchmarks, package init) that treat a bad Options literal as a
// programming error.
func Must(opts Options) *Table {
	t, err := New(opts)
	if err != nil {
		panic(err)
	}

	return t
}

// Size returns the number of live entries.
func (t *Table) Size() uint64 {
	return t.numEntries
}

// Capacity returns the table's capacity in entries (pages * N), not pages,
// per spec §6.
func (t *Table) Capacity() uint64 {
	return t.capacity * pageEntryCount
}

// Insert performs an idempotent insert-if-absent. If key is already
// present, Insert is a no-op - the first value written for a key is the
// one that sticks (spec §4.4.3 step 1). Insert always completes, or panics
// with a [GrowthLimitError] if satisfying it would require growing past
// Options.MaxCapacityPages.
func (t *Table) Insert(key, value uint64) {
	if t.Find(key).valid {
		return
	}

	t.numEntries++
	t.settle(entry{key: key, value: value})
}

// Find returns an iterator to key's entry, or [Table.End] if key is not
// present. The early-termination rule in the inner loop - stopping once a
// candidate page's foreign-placed counter is zero - is the central
// performance property described in spec §4.4.2 and depends on invariant 2
// being maintained by every mutating path.
func (t *Table) Find(key uint64) Iterator {
	candidates := t.hasher.candidates(key, t.capacity)

	for level := uint8(0); level < candidateLevels; level++ {
		pageIdx := candidates[level]
		p := &t.pages[pageIdx]

		if slot, ok := p.find(key); ok {
			return Iterator{valid: true, pageIdx: pageIdx, slot: slot, key: key, value: p.entries[slot].value}
		}

		depth := uint32(0)

		for op := p.overflow; op != nil; op = op.overflow {
			depth++

			if slot, ok := op.find(key); ok {
				return Iterator{valid: true, pageIdx: pageIdx, slot: slot, overflowDepth: depth, key: key, value: op.entries[slot].value}
			}
		}

		if level < candidateLevels-1 && p.foreignPlaced[level] == 0 {
			return t.End()
		}
	}

	return t.End()
}

// homeIndex returns key's level-0 candidate page index.
func (t *Table) homeIndex(key uint64) uint64 {
	return t.hasher.candidates(key, t.capacity)[0]
}

// settle gives e a home, growing the table as many times as necessary. e
// must not already be present. Unlike Insert, settle does not touch
// numEntries: callers (Insert, and rebuild's reinsertion loop) own that
// bookkeeping themselves, since settle is also used to relocate entries
// that are already counted.
func (t *Table) settle(e entry) {
	cur := e

	for {
		orphan, ok := t.placeOnce(cur)
		if ok {
			return
		}

		cur = orphan
		t.rebuildOrRehash()
	}
}

// placeOnce tries to give e a home at the table's current capacity: a
// free slot on one of e's own candidate pages (spec §4.4.3 step 2), then
// bounded cuckoo displacement among candidate pages (step 3), then the
// overflow page of the home page of whichever entry displacement left
// without a slot. If every avenue is exhausted it returns the
// entry still needing a home (e itself, or a descendant produced by
// displacement) and ok=false.
func (t *Table) placeOnce(e entry) (orphan entry, ok bool) {
	if t.tryPlaceFresh(e) {
		return entry{}, true
	}

	candidates := t.hasher.candidates(e.key, t.capacity)
	pageIdx := candidates[0] // both candidates are full; start eviction at home.
	cur := e
	curLevel := uint8(0)

	for iter := 0; iter < maxIterationCuckoo; iter++ {
		evicted, evictedWasForeign := t.pages[pageIdx].evict(cur, curLevel)

		if curLevel > 0 {
			t.pages[t.homeIndex(cur.key)].foreignPlaced[curLevel-1]++
		}

		evictedCandidates := t.hasher.candidates(evicted.key, t.capacity)
		evictedHomeIdx := evictedCandidates[0]

		var nextIdx uint64

		var nextLevel uint8

		if evictedWasForeign {
			// evicted was living at level 1 on pageIdx; its only other
			// candidate is its home page.
			t.pages[evictedHomeIdx].foreignPlaced[0]--
			nextIdx, nextLevel = evictedCandidates[0], 0
		} else {
			// evicted was home on pageIdx; displace it to its foreign
			// candidate.
			nextIdx, nextLevel = evictedCandidates[1], 1
		}

		if t.pages[nextIdx].insert(evicted, nextLevel) {
			if nextLevel > 0 {
				t.pages[evictedHomeIdx].foreignPlaced[0]++
			}

			return entry{}, true
		}

		cur, pageIdx, curLevel = evicted, nextIdx, nextLevel
	}

	if t.insertOverflow(cur) {
		return entry{}, true
	}

	return cur, false
}

// tryPlaceFresh inserts e into the lowest-level candidate page with a free
// slot, without any displacement. On success it bumps the home page's
// foreign-placed counter for every level below the one e landed on.
func (t *Table) tryPlaceFresh(e entry) bool {
	candidates := t.hasher.candidates(e.key, t.capacity)

	for level := uint8(0); level < candidateLevels; level++ {
		if t.pages[candidates[level]].insert(e, level) {
			if level > 0 {
				t.pages[candidates[0]].foreignPlaced[level-1]++
			}

			return true
		}
	}

	return false
}

// insertOverflow places e into its home page's overflow page, allocating
// one lazily if needed (spec §4.4.3 step 3).
func (t *Table) insertOverflow(e entry) bool {
	home := &t.pages[t.homeIndex(e.key)]

	if home.overflow == nil {
		home.overflow = &page{}
		t.overflowPages = append(t.overflowPages, home.overflow)
		t.numOverflowPages++
	}

	if home.overflow.insert(e, 0) {
		t.numOverflowElements++

		return true
	}

	return false
}

// rebuildOrRehash chooses between growing the table and rehashing in
// place without changing capacity (spec §4.4.3 step 4). An in-place
// rehash is a placeholder per spec §9 ("a future optimization, not a
// contract") and always falls back to a full grow+rebuild, matching spec's
// own description of the reference behavior.
func (t *Table) rebuildOrRehash() {
	if t.loadFactorPerMilleValue() > uint64(t.loadFactorPerMille) {
		t.rebuild()
		return
	}

	t.rehash()
}

// rehash is a placeholder for an in-place rehash that does not change
// capacity; per spec §9 it is not implemented and falls back to rebuild.
func (t *Table) rehash() {
	t.rebuild()
}

// rebuild doubles capacity at least once, and again until numEntries plus
// the overflow element count is below the new slot count, then reinserts every entry - from every page and every
// overflow chain - against the freshly sized array using the same
// settle/placeOnce machinery Insert uses.
//
// This is a simpler, fully-correct alternative to the shadow-foreign-placed-
// counter fast path spec §4.4.5 describes (which avoids recomputing hashes
// for entries whose candidate set still includes their old page): see
// DESIGN.md for why that optimization is dropped in favor of reusing one
// insertion path. Invariant 5 ("after rebuild, all foreign_placed reflect
// the new layout") holds trivially here because every counter is rebuilt
// from scratch by ordinary insertion bookkeeping.
//
// If reinserting an entry exhausts the freshly grown capacity (a bounded-
// cuckoo-iteration failure, not a capacity failure), settle grows again
// and retries, matching spec §4.4.5's "cuckoo failure triggers another
// rebuild, recursively bounded by the size increase".
func (t *Table) rebuild() {
	old := t.pages
	// old's overflow pages stay rooted by this local until they are drained
	// below, even though t.overflowPages starts over for the new array.
	oldOverflowPages := t.overflowPages
	oldOverflowElements := t.numOverflowElements

	newCapacity := t.capacity
	for {
		newCapacity *= 2

		if newCapacity > t.maxCapacityPages {
			panic(&GrowthLimitError{RequestedPages: newCapacity, LimitPages: t.maxCapacityPages})
		}

		if t.numEntries+oldOverflowElements < newCapacity*pageEntryCount {
			break
		}
	}

	t.pages = allocPages(newCapacity)
	t.capacity = newCapacity
	t.numEntries = 0
	t.numOverflowPages = 0
	t.numOverflowElements = 0
	t.overflowPages = nil

	for i := range old {
		old[i].forEachOccupied(func(slot uint8) {
			e := old[i].entries[slot]
			t.numEntries++
			t.settle(e)
		})

		for op := old[i].overflow; op != nil; {
			next := op.overflow

			op.forEachOccupied(func(slot uint8) {
				e := op.entries[slot]
				t.numEntries++
				t.settle(e)
			})

			op = next
		}
	}

	runtime.KeepAlive(oldOverflowPages)

	// The entry that was being settled when this rebuild was triggered
	// lives in none of old's pages - it is still in flight, held in the
	// calling settle's local variable - but it was already counted by
	// Insert (or by the reinsertion loop above, for a nested rebuild)
	// before settle was ever called. Account for it here so Size stays
	// exact once the caller's settle loop places it against the new
	// capacity.
	t.numEntries++

	freePagesAligned(old)
}
