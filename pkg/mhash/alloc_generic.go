//go:build !unix

package mhash

import "unsafe"

// allocPagesAligned falls back to manual over-allocation and alignment on
// platforms without an anonymous-mmap primitive (spec §5: "On platforms
// where the allocator does not provide line alignment, the implementation
// must over-allocate and align manually").
//
// The backing byte slice is kept alive by the runtime via the interior
// pointer stored in the returned page slice; Go's garbage collector tracks
// heap objects by span, not by the particular pointer a slice header
// started from, so this is safe without retaining a separate reference.
func allocPagesAligned(n uint64) ([]page, error) {
	if n == 0 {
		return nil, nil
	}

	size := n * pageSize
	raw := make([]byte, size+pageSize-1)

	addr := uintptr(unsafe.Pointer(&raw[0]))
	offset := (pageSize - addr%pageSize) % pageSize

	return unsafe.Slice((*page)(unsafe.Pointer(&raw[offset])), n), nil
}

// freePagesAligned is a no-op: the generic path relies on ordinary garbage
// collection to reclaim the backing slice.
func freePagesAligned(_ []page) {}
