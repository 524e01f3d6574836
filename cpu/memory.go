package cpu

import (
	"errors"
)

const (
	MEMORY_RESERVE = 4096    // Cells of capacity reserved on load for growth.
	MEMORY_LIMIT   = 1 << 24 // Largest addressable cell count.
)

// Memory is the machine tape: a growable array of cells.
// Reads beyond the end yield zero without growing; writes beyond the end
// zero-fill up to and including the written cell.
type Memory struct {
	Cells []int64
}

// checkAddress validates a resolved address.
func checkAddress(addr int64) (err error) {
	switch {
	case addr < 0:
		err = errors.Join(ErrAddress, ErrAddressNegative)
	case addr >= MEMORY_LIMIT:
		err = errors.Join(ErrAddress, ErrAddressLimit)
	}

	return
}

// Load replaces the memory contents with a copy of cells.
func (mem *Memory) Load(cells []int64) {
	mem.Cells = make([]int64, len(cells), max(len(cells), MEMORY_RESERVE))
	copy(mem.Cells, cells)
}

// Len returns the number of allocated cells.
func (mem *Memory) Len() int {
	return len(mem.Cells)
}

// Read returns the value at addr.
func (mem *Memory) Read(addr int64) (value int64, err error) {
	err = checkAddress(addr)
	if err != nil {
		return
	}

	if addr < int64(len(mem.Cells)) {
		value = mem.Cells[addr]
	}

	return
}

// Write sets the value at addr, growing memory as needed.
func (mem *Memory) Write(addr int64, value int64) (err error) {
	err = checkAddress(addr)
	if err != nil {
		return
	}

	if addr >= int64(len(mem.Cells)) {
		mem.Cells = append(mem.Cells, make([]int64, addr+1-int64(len(mem.Cells)))...)
	}
	mem.Cells[addr] = value

	return
}
