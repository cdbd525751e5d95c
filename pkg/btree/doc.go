// Package btree provides the hashed-B-tree sibling engine described in
// spec §6: a uint64->uint64 map with the same public surface as
// [github.com/mhashlab/mhashmap/pkg/mhash], but where each page starts
// life as a plain 7-entry hash bucket and promotes in place to a 6-key
// B-tree index page with 8-entry extent children once a single bucket
// overflows, rather than ever cuckoo-displacing into a neighbor.
//
// Like mhash, btree is in-memory only, single-writer/single-reader, and
// supports no deletion and no ordered iteration.
package btree
