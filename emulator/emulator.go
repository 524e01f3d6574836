// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	goio "io"
	"log"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

// Emulator state. A single machine driven by a text tape.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the machine.

	Tape io.Tape // Tape supplying input and collecting output.

	Outputs int // Values written to the tape since creation.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
	}

	return
}

// flush moves all pending machine output to the tape.
func (emu *Emulator) flush() (err error) {
	for {
		value, popErr := emu.Cpu.PopOutput()
		if popErr != nil {
			return
		}
		err = emu.Tape.Send(value)
		if err != nil {
			return
		}
		emu.Outputs++
	}
}

// Tick runs the machine until it yields, then services the yield:
// output is written to the tape, and a waiting machine is fed the next tape
// value.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	defer func() {
		if err != nil {
			done = true
			err = &ErrRuntime{Pc: emu.Cpu.Pc, Err: err}
		}
	}()

	state := emu.Cpu.RunUntilYield()

	err = emu.flush()
	if err != nil {
		return
	}

	switch state {
	case cpu.STATE_HALTED:
		done = true
		err = emu.Cpu.LastError()
	case cpu.STATE_WAITING:
		var value int64
		value, err = emu.Tape.Next()
		if errors.Is(err, goio.EOF) {
			err = ErrInputExhausted
		}
		if err != nil {
			return
		}
		if emu.Verbose {
			log.Printf("%v> %v", emu.Cpu.Prefix, f("input: %d", value))
		}
		emu.Cpu.PushInput(value)
	}

	return
}

// Run ticks the emulator until the machine halts.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for done := false; !done; {
		err = ctx.Err()
		if err != nil {
			return
		}
		done, err = emu.Tick()
	}

	return
}
