package btree

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func Test_Page_Layouts_Are_Exactly_128_Bytes(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 128, unsafe.Sizeof(page{}))
	assert.EqualValues(t, 128, unsafe.Sizeof(hashBucket{}))
	assert.EqualValues(t, 128, unsafe.Sizeof(btreePage{}))
	assert.EqualValues(t, 128, unsafe.Sizeof(extent{}))
}

func Test_Page_Header_Tag_Is_One_Byte(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 1, unsafe.Sizeof(pageKind(0)))
}

func Test_Page_Starts_As_Hash_Bucket(t *testing.T) {
	t.Parallel()

	var p page

	assert.Equal(t, kindHash, p.kind())
}

func Test_Page_Promote_Moves_Every_Entry_Into_One_Extent(t *testing.T) {
	t.Parallel()

	var p page

	h := p.asHash()
	for i := uint64(0); i < bucketEntryCount; i++ {
		require := assert.New(t)
		require.True(h.insert(entry{key: i, value: i}))
	}

	leaf := p.promote()
	bp := p.asBTree()

	assert.Equal(t, kindBTree, p.kind())
	assert.EqualValues(t, bucketEntryCount, bp.counts[0])

	for i := uint64(0); i < bucketEntryCount; i++ {
		slot, ok := leaf.find(bp.counts[0], i)
		assert.True(t, ok)
		assert.Equal(t, i, leaf.entries[slot].value)
	}
}
