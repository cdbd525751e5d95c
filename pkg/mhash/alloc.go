package mhash

// allocPages allocates a zero-initialized array of n pages, cache-line
// (128-byte) aligned per spec §5 ("Each page occupies exactly one cache
// line... the implementation must over-allocate and align manually, or use
// an aligned-allocation primitive"). The platform-specific implementations
// live in alloc_unix.go (mmap-backed) and alloc_generic.go (manual
// over-allocation).
//
// It panics with an [AllocationError] on failure, per spec §7
// ("AllocationFailure: fatal; the table is unusable").
func allocPages(n uint64) []page {
	pages, err := allocPagesAligned(n)
	if err != nil {
		panic(&AllocationError{Pages: n, Cause: err})
	}

	return pages
}
