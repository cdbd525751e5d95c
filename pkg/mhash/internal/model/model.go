// Package model provides a deliberately simple reference implementation of
// the mhash contract, used by property- and metamorphic-style tests to
// check a real [..].Table against something obviously correct.
package model

// Map is a plain map[uint64]uint64 reference model: insert-if-absent
// semantics, no deletion, no ordering - matching the real table's public
// contract exactly, without any of its internal layout machinery.
type Map struct {
	entries map[uint64]uint64
	order   []uint64
}

// New returns an empty reference model.
func New() *Map {
	return &Map{entries: make(map[uint64]uint64)}
}

// Insert performs insert-if-absent, recording first-write-wins semantics
// identical to Table.Insert.
func (m *Map) Insert(key, value uint64) {
	if _, ok := m.entries[key]; ok {
		return
	}

	m.entries[key] = value
	m.order = append(m.order, key)
}

// Find reports the value for key and whether it is present.
func (m *Map) Find(key uint64) (uint64, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Size returns the number of entries.
func (m *Map) Size() int {
	return len(m.entries)
}

// Keys returns every inserted key in insertion order.
func (m *Map) Keys() []uint64 {
	out := make([]uint64, len(m.order))
	copy(out, m.order)

	return out
}

// Equal reports whether m and other hold the same key/value pairs,
// ignoring insertion order.
func (m *Map) Equal(other *Map) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}

	for k, v := range m.entries {
		ov, ok := other.entries[k]
		if !ok || ov != v {
			return false
		}
	}

	return true
}
