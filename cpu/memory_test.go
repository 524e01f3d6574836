package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	cells := []int64{1, 2, 3}
	mem := &Memory{}
	mem.Load(cells)

	assert.Equal(3, mem.Len())
	assert.GreaterOrEqual(cap(mem.Cells), MEMORY_RESERVE)

	// Load copies.
	cells[0] = 100
	value, err := mem.Read(0)
	assert.NoError(err)
	assert.Equal(int64(1), value)
}

func TestMemory_Read_Unallocated(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.Load([]int64{7})

	value, err := mem.Read(1000)
	assert.NoError(err)
	assert.Equal(int64(0), value)
	assert.Equal(1, mem.Len())
}

func TestMemory_Write_Grow(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.Load([]int64{7})

	err := mem.Write(5, 42)
	assert.NoError(err)
	assert.Equal([]int64{7, 0, 0, 0, 0, 42}, mem.Cells)

	err = mem.Write(2, -1)
	assert.NoError(err)
	assert.Equal([]int64{7, 0, -1, 0, 0, 42}, mem.Cells)
}

func TestMemory_Negative(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}
	mem.Load([]int64{7})

	_, err := mem.Read(-1)
	assert.True(errors.Is(err, ErrAddress))
	assert.True(errors.Is(err, ErrAddressNegative))

	err = mem.Write(-5, 1)
	assert.True(errors.Is(err, ErrAddressNegative))
	assert.Equal(1, mem.Len())
}

func TestMemory_Limit(t *testing.T) {
	assert := assert.New(t)

	mem := &Memory{}

	err := mem.Write(MEMORY_LIMIT, 1)
	assert.True(errors.Is(err, ErrAddress))
	assert.True(errors.Is(err, ErrAddressLimit))
	assert.Equal(0, mem.Len())
}
