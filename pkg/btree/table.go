package btree

import (
	"runtime"
	"sort"
)

// hasher and its index() method are deliberately simpler than mhash's:
// this engine never cuckoo-displaces, so a single home index per key is
// enough.
type hasher struct {
	salt uint64
}

func newHasherFromSeed(seed uint64) hasher {
	x := seed + 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x = x ^ (x >> 31)

	return hasher{salt: x | 1}
}

func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33

	return x
}

func (h hasher) index(k uint64, capacity uint64) uint64 {
	v := mix64(k ^ h.salt)
	if capacity&(capacity-1) == 0 {
		return v & (capacity - 1)
	}

	return v % capacity
}

// Table is the hashed-B-tree sibling engine's public handle: same surface
// as [mhash.Table] (New/Insert/Find/End/Size/Capacity), different internal
// overflow strategy (in-place promotion and splitting rather than cuckoo
// displacement).
type Table struct {
	pages      []page
	capacity   uint64
	numEntries uint64
	hasher     hasher

	// extents roots every leaf extent promotion/splitting has allocated.
	// t.pages is a plain make([]page, …) slice of a raw-byte-backed
	// struct, so the runtime treats its backing array as pointer-free
	// (noscan) and never traces the *extent values reinterpreted into it
	// via unsafe.Pointer. extents is an ordinary, scanned slice field
	// that keeps every live extent reachable for as long as the Table
	// itself is, independent of whether t.pages is scanned.
	extents []*extent
}

// New constructs an empty Table with the given initial page count; a
// count of 0 selects the default of 2 pages.
func New(initialCapacity uint64) *Table {
	if initialCapacity == 0 {
		initialCapacity = 2
	}

	return &Table{
		pages:    make([]page, initialCapacity),
		capacity: initialCapacity,
		hasher:   newHasherFromSeed(0x2545F4914F6CDD1D),
	}
}

// Size returns the number of live entries.
func (t *Table) Size() uint64 { return t.numEntries }

// Capacity reports capacity in entries: bucketEntryCount per unpromoted
// page, extrapolated from page count.
func (t *Table) Capacity() uint64 {
	return t.capacity * bucketEntryCount
}

// NumPage returns the table's current page count (spec §6, hashed-B-tree
// engine only).
func (t *Table) NumPage() uint64 {
	return t.capacity
}

// Resize forces the table to grow to double its current page count and
// reinserts every live entry against the new layout. Exposed so callers
// can exercise the resize path directly, without needing to overflow
// every page's local promotion/splitting capacity first.
func (t *Table) Resize() {
	t.grow(0)
}

// Insert performs an idempotent insert-if-absent.
func (t *Table) Insert(key, value uint64) {
	if t.Find(key).valid {
		return
	}

	t.numEntries++
	t.settle(entry{key: key, value: value})
}

func (t *Table) settle(e entry) {
	for {
		if t.placeOnce(e) {
			return
		}

		// e itself is the in-flight entry: placeOnce never placed it, so
		// it lives in none of the old pages grow is about to drain. It
		// was already counted by Insert (or by an enclosing grow's own
		// reinsertion loop) before settle was called, so grow must add
		// it back once its recount from the old pages is done.
		t.grow(1)
	}
}

// placeOnce inserts e into its home page, promoting a full hash bucket to
// a B-tree page, or splitting a full leaf extent, as needed. It returns
// false only when the home page's B-tree index is itself full (all
// btreeKeyCount separators used and the target leaf is full), signaling
// that the caller must grow the whole table.
func (t *Table) placeOnce(e entry) bool {
	idx := t.hasher.index(e.key, t.capacity)
	p := &t.pages[idx]

	switch p.kind() {
	case kindHash:
		h := p.asHash()
		if h.insert(e) {
			return true
		}

		leaf := p.promote()
		bp := p.asBTree()
		t.extents = append(t.extents, leaf)

		if leaf.insert(&bp.counts[0], e) {
			return true
		}

		return t.insertIntoLeafOrSplit(bp, 0, leaf, e)

	default:
		bp := p.asBTree()
		childIdx := bp.childFor(e.key)
		leaf := bp.children[childIdx]

		if leaf.insert(&bp.counts[childIdx], e) {
			return true
		}

		return t.insertIntoLeafOrSplit(bp, childIdx, leaf, e)
	}
}

// insertIntoLeafOrSplit is called once leaf (at bp.children[childIdx]) is
// already known full. It splits leaf in two and inserts a new separator
// key into bp, then places e into whichever half it belongs. Returns
// false if bp has no room left for another separator.
func (t *Table) insertIntoLeafOrSplit(bp *btreePage, childIdx int, leaf *extent, e entry) bool {
	if bp.numKeys >= btreeKeyCount {
		return false
	}

	all := make([]entry, 0, extentEntryCount+1)
	leaf.forEach(bp.counts[childIdx], func(v entry) { all = append(all, v) })
	all = append(all, e)

	sort.Slice(all, func(i, j int) bool { return all[i].key < all[j].key })

	mid := len(all) / 2
	separator := all[mid].key

	var leftCount, rightCount uint8

	left := &extent{}
	for _, v := range all[:mid] {
		left.insert(&leftCount, v)
	}

	right := &extent{}
	for _, v := range all[mid:] {
		right.insert(&rightCount, v)
	}

	t.extents = append(t.extents, left, right)

	// shift keys/children/counts right of childIdx to make room for the
	// new separator and right-hand child.
	for i := int(bp.numKeys); i > childIdx; i-- {
		bp.keys[i] = bp.keys[i-1]
		bp.children[i+1] = bp.children[i]
		bp.counts[i+1] = bp.counts[i]
	}

	bp.keys[childIdx] = separator
	bp.children[childIdx] = left
	bp.children[childIdx+1] = right
	bp.counts[childIdx] = leftCount
	bp.counts[childIdx+1] = rightCount
	bp.numKeys++

	return true
}

// grow doubles the table's page count and reinserts every live entry,
// mirroring mhash's rebuild - the response to an overflow that the local
// page-level promotion/splitting machinery could not absorb. pending is
// the number of already-counted entries that are in flight and so are
// not present in any old page - settle passes 1 for the entry it was
// trying to place when growth was triggered; Resize, called with no
// entry in flight, passes 0.
func (t *Table) grow(pending uint64) {
	old := t.pages
	// old's extents stay rooted by this local until they are drained below,
	// even though t.extents starts over for the new pages.
	oldExtents := t.extents

	t.pages = make([]page, t.capacity*2)
	t.capacity *= 2
	t.numEntries = 0
	t.extents = nil

	for i := range old {
		p := &old[i]

		switch p.kind() {
		case kindHash:
			p.asHash().forEach(func(e entry) {
				t.numEntries++
				t.settle(e)
			})
		default:
			bp := p.asBTree()
			for c := 0; c <= int(bp.numKeys); c++ {
				bp.children[c].forEach(bp.counts[c], func(e entry) {
					t.numEntries++
					t.settle(e)
				})
			}
		}
	}

	runtime.KeepAlive(oldExtents)

	t.numEntries += pending
}

// Find returns an iterator to key's entry, or [Table.End] on a miss.
func (t *Table) Find(key uint64) Iterator {
	idx := t.hasher.index(key, t.capacity)
	p := &t.pages[idx]

	switch p.kind() {
	case kindHash:
		h := p.asHash()
		if slot, ok := h.find(key); ok {
			return Iterator{valid: true, pageIdx: idx, slot: slot, key: key, value: h.entries[slot].value}
		}
	default:
		bp := p.asBTree()
		childIdx := bp.childFor(key)
		leaf := bp.children[childIdx]

		if slot, ok := leaf.find(bp.counts[childIdx], key); ok {
			return Iterator{valid: true, pageIdx: idx, slot: slot, childIdx: uint8(childIdx) + 1, key: key, value: leaf.entries[slot].value}
		}
	}

	return t.End()
}
