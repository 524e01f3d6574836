package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"slices"

	"github.com/ezrec/intcode/io"
)

// Channel is an I/O channel interface.
type Channel io.Channel

// State is the scheduling state of a machine.
// A running machine can execute its next instruction, a waiting one is
// blocked on an empty input channel, and a halted one stopped on hlt or a
// fault.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_WAITING = State(1) // waiting
	STATE_HALTED  = State(2) // halted
)

// emptyProgram is the program of a freshly created machine.
var emptyProgram = Program{int64(OP_HALT)}

// Cpu is an intcode machine.
type Cpu struct {
	Verbose bool   // Set to enable per-instruction tracing.
	Prefix  string // Name of the machine in trace output.

	Memory       Memory      // Program and data tape.
	Pc           int64       // Address of the next instruction.
	RelativeBase int64       // Offset for relative mode arguments.
	Opcodes      OpcodeTable // Dispatch table.

	Input  Channel // Values consumed by 'in'.
	Output Channel // Values produced by 'out'.

	Ticks int // Instructions executed since load.

	halted  bool
	waiting bool
	err     error
}

// NewCpu creates a machine with the full instruction set, private input and
// output channels, and the one-cell halt program loaded.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Opcodes: OpcodesDefault.Clone(),
		Input:   &io.Fifo{},
		Output:  &io.Fifo{},
	}

	cpu.Load(emptyProgram)

	return
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 7s: %d\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 7s: %d\n", "base", cpu.RelativeBase)
	text += fmt.Sprintf("% 7s: %v\n", "state", cpu.State())
	text += fmt.Sprintf("% 7s: %d\n", "memory", cpu.Memory.Len())
	text += fmt.Sprintf("% 7s: %d\n", "input", cpu.Input.Len())
	text += fmt.Sprintf("% 7s: %d\n", "output", cpu.Output.Len())
	if cpu.err != nil {
		text += fmt.Sprintf("% 7s: %v\n", "error", cpu.err)
	}

	return
}

// Load replaces memory with prog and resets the registers and flags.
// The I/O channels are left untouched.
func (cpu *Cpu) Load(prog Program) {
	cpu.Memory.Load(prog)
	cpu.Pc = 0
	cpu.RelativeBase = 0
	cpu.Ticks = 0
	cpu.halted = false
	cpu.waiting = false
	cpu.err = nil

	if cpu.Verbose {
		log.Printf("%v> load %d cells", cpu.Prefix, len(prog))
	}
}

// Program returns a snapshot of memory.
func (cpu *Cpu) Program() Program {
	return slices.Clone(Program(cpu.Memory.Cells))
}

// SetOpcode installs op as the handler for code.
// An Operation with a nil Exec removes the opcode.
func (cpu *Cpu) SetOpcode(code int64, op Operation) {
	if cpu.Opcodes == nil {
		cpu.Opcodes = OpcodeTable{}
	}

	if op.Exec == nil {
		delete(cpu.Opcodes, code)
	} else {
		cpu.Opcodes[code] = op
	}
}

// PushInput appends a value to the input channel.
func (cpu *Cpu) PushInput(value int64) {
	cpu.Input.Send(value)
}

// PopOutput removes the oldest value from the output channel.
func (cpu *Cpu) PopOutput() (value int64, err error) {
	value, ok := cpu.Output.Receive()
	if !ok {
		err = ErrOutputEmpty
	}

	return
}

// IsHalted returns true once the machine has executed 'hlt' or faulted.
func (cpu *Cpu) IsHalted() bool {
	return cpu.halted
}

// IsWaiting returns true if the machine stalled on 'in' and no input has
// arrived since.
func (cpu *Cpu) IsWaiting() bool {
	return cpu.waiting && cpu.Input.Len() == 0
}

// LastError returns the fault that halted the machine, if any.
func (cpu *Cpu) LastError() error {
	return cpu.err
}

// State returns the scheduling state.
func (cpu *Cpu) State() State {
	switch {
	case cpu.IsHalted():
		return STATE_HALTED
	case cpu.IsWaiting():
		return STATE_WAITING
	}
	return STATE_RUNNING
}

// fault halts the machine on a failed instruction.
func (cpu *Cpu) fault(pc int64, code Code, err error) {
	cpu.err = &ErrInstruction{Pc: pc, Code: code, Err: err}
	cpu.halted = true

	if cpu.Verbose {
		log.Printf("%v> %v", cpu.Prefix, f("error: %v", cpu.err))
	}
}

// Address resolves argument n of code to a writable memory address.
func (cpu *Cpu) Address(code Code, n int) (addr int64, err error) {
	arg, err := cpu.Memory.Read(cpu.Pc + 1 + int64(n))
	if err != nil {
		return
	}

	switch mode := code.Mode(n); mode {
	case MODE_POSITION:
		addr = arg
	case MODE_IMMEDIATE:
		err = ErrWriteImmediate
		return
	case MODE_RELATIVE:
		addr = cpu.RelativeBase + arg
	default:
		err = errors.Join(ErrAddress, ErrMode(mode))
		return
	}

	err = checkAddress(addr)

	return
}

// Read returns the operand of argument n of code.
func (cpu *Cpu) Read(code Code, n int) (value int64, err error) {
	if code.Mode(n) == MODE_IMMEDIATE {
		return cpu.Memory.Read(cpu.Pc + 1 + int64(n))
	}

	addr, err := cpu.Address(code, n)
	if err != nil {
		return
	}

	return cpu.Memory.Read(addr)
}

// Write stores value to the destination of argument n of code.
func (cpu *Cpu) Write(code Code, n int, value int64) (err error) {
	addr, err := cpu.Address(code, n)
	if err != nil {
		return
	}

	return cpu.Memory.Write(addr, value)
}

// explain renders argument n of the instruction at pc.
func (cpu *Cpu) explain(pc int64, code Code, n int) string {
	arg, _ := cpu.Memory.Read(pc + 1 + int64(n))
	switch mode := code.Mode(n); mode {
	case MODE_POSITION:
		return fmt.Sprintf("[%d]", arg)
	case MODE_IMMEDIATE:
		return fmt.Sprintf("%d", arg)
	case MODE_RELATIVE:
		return fmt.Sprintf("rel:%d(%d)", arg, cpu.RelativeBase+arg)
	default:
		return fmt.Sprintf("?%d?%d", int(mode), arg)
	}
}

// Disassemble renders the instruction at pc.
func (cpu *Cpu) Disassemble(pc int64) string {
	cell, err := cpu.Memory.Read(pc)
	if err != nil {
		return "?"
	}

	code := Code(cell)
	op, ok := cpu.Opcodes[code.Opcode()]
	if !ok || op.Exec == nil {
		return fmt.Sprintf("data %d", cell)
	}

	return op.Disassemble(cpu, pc, code)
}

// Listing iterates over the disassembly of memory, by instruction address.
// Cells that do not decode to a known opcode are listed one at a time as data.
func (cpu *Cpu) Listing() iter.Seq2[int64, string] {
	return func(yield func(pc int64, text string) bool) {
		for pc := int64(0); pc < int64(cpu.Memory.Len()); {
			if !yield(pc, cpu.Disassemble(pc)) {
				return
			}
			op, ok := cpu.Opcodes[Code(cpu.Memory.Cells[pc]).Opcode()]
			if !ok || op.Exec == nil {
				pc++
			} else {
				pc += 1 + int64(op.Args)
			}
		}
	}
}

// Step executes a single instruction, unless the machine is halted or
// waiting for input.
func (cpu *Cpu) Step() (state State) {
	state = cpu.State()
	if state != STATE_RUNNING {
		return
	}

	pc := cpu.Pc
	cell, err := cpu.Memory.Read(pc)
	code := Code(cell)
	if err == nil {
		op, ok := cpu.Opcodes[code.Opcode()]
		if !ok || op.Exec == nil {
			err = ErrOpcode(code.Opcode())
		} else {
			if cpu.Verbose {
				log.Printf("%v> %04d: %v", cpu.Prefix, pc, op.Disassemble(cpu, pc, code))
			}
			err = op.Exec(cpu, code)
		}
	}

	if err != nil {
		cpu.fault(pc, code, err)
	}

	cpu.Ticks++

	return cpu.State()
}

// RunUntilYield steps the machine until it halts or waits for input.
func (cpu *Cpu) RunUntilYield() (state State) {
	for state = cpu.State(); state == STATE_RUNNING; {
		state = cpu.Step()
	}

	if cpu.Verbose {
		if fifo, ok := cpu.Output.(*io.Fifo); ok && fifo.Len() > 0 {
			log.Printf("%v> %v", cpu.Prefix, f("output: %v", slices.Collect(fifo.Values())))
		}
		log.Printf("%v> %v", cpu.Prefix, f("yield: %v after %d ticks", state, cpu.Ticks))
	}

	return
}
