package btree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Table_Find_On_Empty_Table_Returns_End(t *testing.T) {
	t.Parallel()

	tbl := New(2)

	assert.True(t, tbl.Find(1).Equal(tbl.End()))
}

func Test_Table_Insert_Then_Find_Roundtrips(t *testing.T) {
	t.Parallel()

	tbl := New(2)

	tbl.Insert(9, 900)

	it := tbl.Find(9)
	require.False(t, it.Equal(tbl.End()))
	assert.Equal(t, uint64(900), it.Value())
}

func Test_Table_Insert_Is_Idempotent(t *testing.T) {
	t.Parallel()

	tbl := New(2)

	tbl.Insert(1, 10)
	tbl.Insert(1, 20)

	assert.Equal(t, uint64(10), tbl.Find(1).Value())
	assert.EqualValues(t, 1, tbl.Size())
}

func Test_Table_Survives_Promotion_And_Splitting(t *testing.T) {
	t.Parallel()

	tbl := New(1)

	const n = 5000

	for i := uint64(0); i < n; i++ {
		tbl.Insert(i, i+1)
	}

	require.EqualValues(t, n, tbl.Size())

	for i := uint64(0); i < n; i++ {
		it := tbl.Find(i)
		require.Falsef(t, it.Equal(tbl.End()), "key %d lost after promotion/splitting/growth", i)
		assert.Equal(t, i+1, it.Value())
	}
}

func Test_Table_Capacity_Reported_In_Entries(t *testing.T) {
	t.Parallel()

	tbl := New(3)

	assert.EqualValues(t, 3*bucketEntryCount, tbl.Capacity())
}

func Test_Table_NumPage_Reports_Page_Count(t *testing.T) {
	t.Parallel()

	tbl := New(4)

	assert.EqualValues(t, 4, tbl.NumPage())
}

func Test_Table_Resize_Preserves_Every_Entry(t *testing.T) {
	t.Parallel()

	tbl := New(2)

	for i := uint64(1); i <= 20; i++ {
		tbl.Insert(i, i*10)
	}

	pagesBefore := tbl.NumPage()

	tbl.Resize()

	assert.Greater(t, tbl.NumPage(), pagesBefore)
	assert.EqualValues(t, 20, tbl.Size())

	for i := uint64(1); i <= 20; i++ {
		it := tbl.Find(i)
		require.Falsef(t, it.Equal(tbl.End()), "key %d lost across Resize", i)
		assert.Equal(t, i*10, it.Value())
	}
}
