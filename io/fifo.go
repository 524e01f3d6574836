package io

import (
	"iter"
)

const (
	FIFO_COMPACT = 64 // Consumed slots tolerated before the buffer is compacted.
)

// Fifo is an unbounded first-in first-out queue of values.
// Consumed values are reclaimed lazily, once more than FIFO_COMPACT of them
// have accumulated at the front of the buffer.
type Fifo struct {
	ReadIndex int
	Data      []int64
}

var _ Channel = (*Fifo)(nil)

// Rewind empties the queue.
func (fifo *Fifo) Rewind() {
	fifo.ReadIndex = 0
	fifo.Data = fifo.Data[:0]
}

// Send appends a value to the back of the queue.
func (fifo *Fifo) Send(value int64) {
	if fifo.ReadIndex > FIFO_COMPACT && fifo.ReadIndex*2 >= len(fifo.Data) {
		n := copy(fifo.Data, fifo.Data[fifo.ReadIndex:])
		fifo.Data = fifo.Data[:n]
		fifo.ReadIndex = 0
	}

	fifo.Data = append(fifo.Data, value)
}

// Receive pops the value at the front of the queue.
func (fifo *Fifo) Receive() (value int64, ok bool) {
	value, ok = fifo.Peek()
	if ok {
		fifo.ReadIndex++
		if fifo.ReadIndex == len(fifo.Data) {
			fifo.Rewind()
		}
	}

	return
}

// Peek returns the value at the front of the queue without consuming it.
func (fifo *Fifo) Peek() (value int64, ok bool) {
	if fifo.Len() == 0 {
		return
	}

	return fifo.Data[fifo.ReadIndex], true
}

// Last returns the most recently sent value still in the queue.
func (fifo *Fifo) Last() (value int64, ok bool) {
	if fifo.Len() == 0 {
		return
	}

	return fifo.Data[len(fifo.Data)-1], true
}

// Len returns the number of queued values.
func (fifo *Fifo) Len() int {
	return len(fifo.Data) - fifo.ReadIndex
}

// Values iterates over the queued values, front to back, without consuming them.
func (fifo *Fifo) Values() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for _, value := range fifo.Data[fifo.ReadIndex:] {
			if !yield(value) {
				return
			}
		}
	}
}
