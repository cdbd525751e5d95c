package mhash

import "fmt"

// Stats is a point-in-time snapshot of a Table's internal layout, used by
// cmd/mhashbench and cmd/mhashrepl to report diagnostics (spec §6).
type Stats struct {
	Size               uint64
	CapacityEntries    uint64
	Pages              uint64
	OverflowPages      uint64
	OverflowElements   uint64
	LoadFactorPerMille uint64
	MemoryBytes        uint64
}

// Stats snapshots the table's current layout.
func (t *Table) Stats() Stats {
	return Stats{
		Size:               t.numEntries,
		CapacityEntries:    t.Capacity(),
		Pages:              t.capacity,
		OverflowPages:      t.numOverflowPages,
		OverflowElements:   t.numOverflowElements,
		LoadFactorPerMille: t.loadFactorPerMilleValue(),
		MemoryBytes:        (t.capacity + t.numOverflowPages) * pageSize,
	}
}

// LoadFactor reports occupancy as a per-mille value: entries per thousand
// available slots, counting overflow pages as part of the denominator.
func (t *Table) LoadFactor() uint64 {
	return t.loadFactorPerMilleValue()
}

func (t *Table) loadFactorPerMilleValue() uint64 {
	denom := pageEntryCount * (t.capacity + t.numOverflowPages)
	if denom == 0 {
		return 0
	}

	return t.numEntries * 1000 / denom
}

// OverflowRate reports, per mille, how many candidate pages currently hold
// at least one foreign-placed entry or own a non-empty overflow page. A
// healthy table keeps this low; a rate climbing over time across repeated
// inserts is the signal spec §8's long-running scenario watches for.
func (t *Table) OverflowRate() uint64 {
	if t.capacity == 0 {
		return 0
	}

	var busy uint64

	for i := range t.pages {
		p := &t.pages[i]
		if p.foreignBitmap != 0 || p.overflow != nil {
			busy++
		}
	}

	return busy * 1000 / t.capacity
}

// String renders the stats block printed by cmd/mhashbench.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Size            : %d\nCapacity        : %d\nPages           : %d\nOverflow Pages  : %d\nLoad Factor     : %d.%d%%\nMemory usage    : %.2f MB",
		s.Size, s.CapacityEntries, s.Pages, s.OverflowPages,
		s.LoadFactorPerMille/10, s.LoadFactorPerMille%10,
		float64(s.MemoryBytes)/(1024*1024),
	)
}
