package mhash

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Page_Size_Is_128_Bytes(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 128, unsafe.Sizeof(page{}))
}

func Test_Page_Insert_Fills_Slots_In_Order_Then_Reports_Full(t *testing.T) {
	t.Parallel()

	var p page

	for i := uint64(0); i < pageEntryCount; i++ {
		ok := p.insert(entry{key: i, value: i * 10}, 0)
		require.True(t, ok, "slot %d should accept an insert", i)
	}

	assert.True(t, p.full())

	ok := p.insert(entry{key: 999, value: 1}, 0)
	assert.False(t, ok, "insert into a full page must fail")
}

func Test_Page_Insert_Tags_Foreign_Level_In_Bitmap(t *testing.T) {
	t.Parallel()

	var p page

	require.True(t, p.insert(entry{key: 1, value: 1}, 0))
	require.True(t, p.insert(entry{key: 2, value: 2}, 1))

	assert.Equal(t, uint8(0), p.levelOf(0))
	assert.Equal(t, uint8(1), p.levelOf(1))
}

func Test_Page_Find_Locates_Occupied_Key(t *testing.T) {
	t.Parallel()

	var p page

	require.True(t, p.insert(entry{key: 42, value: 99}, 0))

	slot, ok := p.find(42)
	require.True(t, ok)
	assert.Equal(t, p.entries[slot].value, uint64(99))

	_, ok = p.find(7)
	assert.False(t, ok, "find should miss on an absent key")
}

func Test_Page_Evict_Prefers_Foreign_Slot(t *testing.T) {
	t.Parallel()

	var p page

	for i := uint64(0); i < pageEntryCount; i++ {
		require.True(t, p.insert(entry{key: i, value: i}, 0))
	}

	// retag slot 3 as foreign; evict must pick it over any home slot.
	p.foreignBitmap.set(3)

	evicted, wasForeign := p.evict(entry{key: 1000, value: 1000}, 0)

	assert.True(t, wasForeign)
	assert.Equal(t, uint64(3), evicted.key)

	slot, ok := p.find(1000)
	require.True(t, ok)
	assert.Equal(t, uint8(3), slot)
}

func Test_Page_Evict_Falls_Back_To_Rotation_When_No_Foreign_Slot(t *testing.T) {
	t.Parallel()

	var p page

	for i := uint64(0); i < pageEntryCount; i++ {
		require.True(t, p.insert(entry{key: i, value: i}, 0))
	}

	first, firstForeign := p.evict(entry{key: 100, value: 100}, 0)
	assert.False(t, firstForeign)
	assert.Equal(t, uint64(0), first.key, "rotation starts at slot 0")

	second, secondForeign := p.evict(entry{key: 101, value: 101}, 0)
	assert.False(t, secondForeign)
	assert.Equal(t, uint64(1), second.key, "rotation advances to slot 1")
}

func Test_Page_Erase_Frees_Slot(t *testing.T) {
	t.Parallel()

	var p page

	require.True(t, p.insert(entry{key: 5, value: 5}, 0))
	p.erase(0)

	_, ok := p.find(5)
	assert.False(t, ok)
	assert.True(t, p.usedBitmap.empty())
}

func Test_Page_ForEachOccupied_Visits_Only_Used_Slots(t *testing.T) {
	t.Parallel()

	var p page

	require.True(t, p.insert(entry{key: 1, value: 1}, 0))
	require.True(t, p.insert(entry{key: 2, value: 2}, 0))

	var seen []uint64

	p.forEachOccupied(func(slot uint8) {
		seen = append(seen, p.entries[slot].key)
	})

	assert.ElementsMatch(t, []uint64{1, 2}, seen)
}
