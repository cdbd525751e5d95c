//go:build unix

package mhash

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// allocPagesAligned requests anonymous, zero-filled memory directly from
// the kernel via mmap. Kernel page size (4096 on every supported target) is
// always a multiple of the 128-byte cache-line size, so the mapping is
// cache-line aligned for free - the aligned-allocation primitive spec §5
// calls for.
func allocPagesAligned(n uint64) ([]page, error) {
	if n == 0 {
		return nil, nil
	}

	size := n * pageSize

	buf, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}

	return unsafe.Slice((*page)(unsafe.Pointer(&buf[0])), n), nil
}

// freePagesAligned releases a page array obtained from allocPagesAligned.
// Safe to call with a nil/empty slice.
func freePagesAligned(pages []page) {
	if len(pages) == 0 {
		return
	}

	size := len(pages) * pageSize
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&pages[0])), size)
	_ = unix.Munmap(buf)
}
