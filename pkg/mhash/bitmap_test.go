package mhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Bitmap8_Set_Marks_Bit_Present(t *testing.T) {
	t.Parallel()

	var b bitmap8

	b.set(3)

	assert.True(t, b.test(3))
	assert.False(t, b.test(2))
	assert.False(t, b.empty())
}

func Test_Bitmap8_Clear_Removes_Bit(t *testing.T) {
	t.Parallel()

	var b bitmap8

	b.set(5)
	b.clear(5)

	assert.False(t, b.test(5))
	assert.True(t, b.empty())
}

func Test_Bitmap8_Assign_Toggles_By_Value(t *testing.T) {
	t.Parallel()

	var b bitmap8

	b.assign(1, true)
	assert.True(t, b.test(1))

	b.assign(1, false)
	assert.False(t, b.test(1))
}

func Test_Bitmap8_Empty_On_Zero_Value(t *testing.T) {
	t.Parallel()

	var b bitmap8

	assert.True(t, b.empty())
}
