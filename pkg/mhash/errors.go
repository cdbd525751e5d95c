package mhash

import (
	"errors"
	"strconv"
)

// Error classification codes for construction-time option validation.
//
// These are the only ordinary errors mhash returns. The hot insert/find
// path never allocates or returns an error; see [Table.Insert] and
// [Table.Find].
var (
	// ErrInvalidCapacity indicates a non-positive or otherwise out-of-range
	// initial capacity was requested.
	ErrInvalidCapacity = errors.New("mhash: invalid capacity")

	// ErrInvalidLoadFactor indicates a rebuild load-factor threshold outside
	// (0, 1000] per-mille was requested.
	ErrInvalidLoadFactor = errors.New("mhash: invalid load factor")

	// ErrInvalidGrowthLimit indicates a growth ceiling that is smaller than
	// the requested initial capacity.
	ErrInvalidGrowthLimit = errors.New("mhash: invalid growth limit")
)

// GrowthLimitError is panicked by [Table.Insert] when a rebuild would need to
// grow the page array past Options.MaxCapacityPages. This is the Go
// analogue of the fatal process-abort the source design calls for on
// pathological, unbounded growth (see spec §4.4.7, §7): a library cannot
// unilaterally terminate its host process, so it panics with a typed,
// recoverable value instead.
type GrowthLimitError struct {
	RequestedPages uint64
	LimitPages     uint64
}

func (e *GrowthLimitError) Error() string {
	return "mhash: growth limit exceeded: requested " +
		strconv.FormatUint(e.RequestedPages, 10) + " pages, limit " +
		strconv.FormatUint(e.LimitPages, 10)
}

// AllocationError is panicked if the underlying page array allocation
// fails. Per spec §7, this is fatal: the table becomes unusable.
type AllocationError struct {
	Pages uint64
	Cause error
}

func (e *AllocationError) Error() string {
	return "mhash: allocation failure for " + strconv.FormatUint(e.Pages, 10) + " pages: " + e.Cause.Error()
}

func (e *AllocationError) Unwrap() error { return e.Cause }
