// Package io provides the value channels that connect intcode machines to
// each other and to the outside world.
//
// A Fifo is the in-memory queue a machine reads its input from and writes its
// output to. Handing one machine's output Fifo to another machine as its input
// builds a pipeline. A Tape adapts a byte stream (stdin, a file) to a sequence
// of integer values for the stream emulator.
package io

// Channel defines the interface for a single-producer, single-consumer queue
// of machine values. Channels are not safe for concurrent use; machines are
// scheduled cooperatively from one goroutine.
type Channel interface {
	// Rewind discards all queued values.
	Rewind()
	// Send appends a value to the back of the channel. It never blocks.
	Send(value int64)
	// Receive removes and returns the value at the front of the channel.
	Receive() (value int64, ok bool)
	// Len returns the number of queued values.
	Len() int
}
