// Package mhash provides a cache-line-sized, page-oriented, open-addressed
// cuckoo hash table for fixed-width uint64 keys and values.
//
// mhash is a throwaway, in-memory map optimized for predictable, bounded
// lookup cost. It is not durable and not safe for concurrent use - there is
// no persistence, no serialization, and no locking.
//
// # Basic Usage
//
//	t := mhash.Must(mhash.Options{})
//	t.Insert(5, 1000)
//
//	it := t.Find(5)
//	if it != t.End() {
//	    fmt.Println(it.Value())
//	}
//
// # Concurrency
//
// A *Table is single-writer, single-reader. Concurrent use from more than
// one goroutine, even read-only Find calls racing a Insert, is undefined.
// Callers needing concurrent access must provide their own external
// synchronization; mhash does not attempt to detect or prevent misuse.
//
// # Error Handling
//
// The public surface never returns an error from Insert or Find. Insert is
// idempotent and always completes (or panics with a [GrowthLimitError] under
// pathological, unbounded growth). Find returns an iterator equal to
// [Table.End] on a miss. Construction-time option validation is the only
// place ordinary errors appear; see [New].
package mhash
