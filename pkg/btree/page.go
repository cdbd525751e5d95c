package btree

import "unsafe"

// pageKind tags which layout a page's 128 bytes currently hold. A page is
// born a hashBucket and is promoted to a btreePage in place, in its own
// memory, the first time a bucket insert finds no free slot.
type pageKind uint8

const (
	kindHash pageKind = iota
	kindBTree
)

// bucketEntryCount is the number of direct key/value slots in a fresh
// hash-bucket page, before any promotion.
const bucketEntryCount = 7

// btreeKeyCount is the number of separator keys a promoted B-tree index
// page holds; it therefore fans out to btreeKeyCount+1 extent children.
const btreeKeyCount = 6

// extentEntryCount is the number of key/value slots in a single extent
// (a B-tree leaf). 8 entries * 16 bytes/entry = 128 bytes exactly, with no
// header: an extent's identity is implicit from its parent pointer slot.
const extentEntryCount = 8

// entry is a single key/value slot, shared by hash buckets and extents.
type entry struct {
	key   uint64
	value uint64
}

// extent is a B-tree leaf: a flat array of entries with no header of its
// own - 8 entries * 16 bytes/entry = 128 bytes exactly. An extent never
// has entries removed (btree, like mhash, supports no deletion), so it
// always holds entries as a contiguous prefix; how many of its slots are
// live is tracked by its owning btreePage's counts field, not inside the
// extent itself, since there is no room left in the 128-byte budget for a
// header once all 8 slots are spoken for.
type extent struct {
	entries [extentEntryCount]entry
}

var _ [128]byte = [unsafe.Sizeof(extent{})]byte{}

func (e *extent) find(count uint8, k uint64) (slot uint8, ok bool) {
	for i := uint8(0); i < count; i++ {
		if e.entries[i].key == k {
			return i, true
		}
	}

	return 0, false
}

func (e *extent) full(count uint8) bool {
	return count >= extentEntryCount
}

// insert appends v at the next free slot, per *count, and advances it.
func (e *extent) insert(count *uint8, v entry) bool {
	if *count >= extentEntryCount {
		return false
	}

	e.entries[*count] = v
	*count++

	return true
}

func (e *extent) forEach(count uint8, fn func(entry)) {
	for i := uint8(0); i < count; i++ {
		fn(e.entries[i])
	}
}

// bitmap8 packs eight flags into one byte; identical in spirit to
// mhash's bitmap8, kept package-local so btree has no dependency on
// mhash's internals.
type bitmap8 uint8

func (b *bitmap8) set(i uint8) { *b |= bitmap8(1 << i) }
func (b bitmap8) test(i uint8) bool {
	return b&bitmap8(1<<i) != 0
}

// hashBucket is a page's initial, unpromoted layout: a 1-byte kind tag
// followed by bucketEntryCount direct key/value slots.
type hashBucket struct {
	tag        pageKind
	usedBitmap bitmap8
	_          [6]byte
	entries    [bucketEntryCount]entry
	_          [8]byte
}

var _ [128]byte = [unsafe.Sizeof(hashBucket{})]byte{}

func (h *hashBucket) find(k uint64) (slot uint8, ok bool) {
	for i := uint8(0); i < bucketEntryCount; i++ {
		if h.usedBitmap.test(i) && h.entries[i].key == k {
			return i, true
		}
	}

	return 0, false
}

func (h *hashBucket) insert(e entry) bool {
	for i := uint8(0); i < bucketEntryCount; i++ {
		if !h.usedBitmap.test(i) {
			h.entries[i] = e
			h.usedBitmap.set(i)

			return true
		}
	}

	return false
}

func (h *hashBucket) full() bool {
	return h.usedBitmap == bitmap8(1<<bucketEntryCount)-1
}

func (h *hashBucket) forEach(fn func(entry)) {
	for i := uint8(0); i < bucketEntryCount; i++ {
		if h.usedBitmap.test(i) {
			fn(h.entries[i])
		}
	}
}

// btreePage is a page's promoted layout: btreeKeyCount sorted separator
// keys and btreeKeyCount+1 pointers to extent leaves. Since an extent has
// no spare byte to track its own fill level, counts holds one fill count
// per child extent (0..extentEntryCount). sizeof(btreePage) must be
// exactly 128 bytes (asserted below).
type btreePage struct {
	tag      pageKind
	numKeys  uint8
	_        [6]byte
	keys     [btreeKeyCount]uint64
	children [btreeKeyCount + 1]*extent
	counts   [btreeKeyCount + 1]uint8
	_        [9]byte
}

var _ [128]byte = [unsafe.Sizeof(btreePage{})]byte{}

// childFor returns the index of the child extent key k belongs under,
// given p's current (sorted) separator keys.
func (p *btreePage) childFor(k uint64) int {
	for i := uint8(0); i < p.numKeys; i++ {
		if k < p.keys[i] {
			return int(i)
		}
	}

	return int(p.numKeys)
}

// page is the 128-byte, raw storage for one table slot. It is born
// holding a hashBucket and is reinterpreted in place as a btreePage once
// promote is called; the memory is never reallocated across that
// transition.
type page struct {
	raw [128]byte
}

var _ [128]byte = [unsafe.Sizeof(page{})]byte{}

func (p *page) kind() pageKind {
	return pageKind(p.raw[0])
}

func (p *page) asHash() *hashBucket {
	return (*hashBucket)(unsafe.Pointer(&p.raw[0]))
}

func (p *page) asBTree() *btreePage {
	return (*btreePage)(unsafe.Pointer(&p.raw[0]))
}

// promote converts p in place from a full hash bucket into a single-leaf
// B-tree page: every bucket entry is copied into one fresh extent, which
// becomes the new page's sole child (zero separator keys).
//
// Returns the extent so the caller can immediately insert the entry that
// triggered the promotion.
func (p *page) promote() *extent {
	old := *p.asHash()

	leaf := &extent{}

	var count uint8

	old.forEach(func(e entry) {
		leaf.insert(&count, e)
	})

	bp := p.asBTree()
	*bp = btreePage{}
	bp.tag = kindBTree
	bp.numKeys = 0
	bp.children[0] = leaf
	bp.counts[0] = count

	return leaf
}
