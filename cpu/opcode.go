package cpu

import (
	"maps"
	"strings"
)

// Opcode numbers.
const (
	OP_ADD       = int64(1)  // add
	OP_MUL       = int64(2)  // mul
	OP_IN        = int64(3)  // in
	OP_OUT       = int64(4)  // out
	OP_JNZ       = int64(5)  // jnz
	OP_JZ        = int64(6)  // jz
	OP_LT        = int64(7)  // lt
	OP_EQ        = int64(8)  // eq
	OP_ARB       = int64(9)  // arb
	OP_HALT      = int64(99) // hlt
	OP_HALT_FIRE = int64(-1) // hcf
)

// CodeMode is an argument addressing mode: the argument is an absolute
// address (position), the operand itself (immediate), or an offset from the
// relative base (relative).
type CodeMode int

//go:generate go tool stringer -linecomment -type=CodeMode
const (
	MODE_POSITION  = CodeMode(0) // position
	MODE_IMMEDIATE = CodeMode(1) // immediate
	MODE_RELATIVE  = CodeMode(2) // relative
)

// Code is a single instruction cell.
type Code int64

// MakeCode builds an instruction cell from an opcode and argument modes.
func MakeCode(opcode int64, modes ...CodeMode) Code {
	scale := int64(100)
	word := opcode
	for _, mode := range modes {
		word += int64(mode) * scale
		scale *= 10
	}
	return Code(word)
}

// Opcode returns the instruction selector, the low two decimal digits.
func (code Code) Opcode() int64 {
	return int64(code) % 100
}

// Mode returns the addressing mode of argument n (0-based).
func (code Code) Mode(n int) CodeMode {
	modes := int64(code) / 100
	for range n {
		modes /= 10
	}
	return CodeMode(modes % 10)
}

// Operation is one entry of the dispatch table.
type Operation struct {
	Name  string // Mnemonic, for disassembly.
	Args  int    // Argument cells following the opcode.
	Store bool   // Last argument is a destination.

	// Exec performs the instruction at cpu.Pc. It is responsible for
	// advancing cpu.Pc. A returned error faults the machine.
	Exec func(cpu *Cpu, code Code) error
}

// Disassemble renders code, whose arguments are read relative to pc.
func (op Operation) Disassemble(cpu *Cpu, pc int64, code Code) string {
	words := []string{op.Name}
	for n := range op.Args {
		arg := cpu.explain(pc, code, n)
		if op.Store && n == op.Args-1 {
			arg = "-> " + arg
		}
		words = append(words, arg)
	}
	return strings.Join(words, " ")
}

// OpcodeTable maps opcode numbers to operations.
type OpcodeTable map[int64]Operation

// Clone returns an independent copy of the table.
func (table OpcodeTable) Clone() OpcodeTable {
	return maps.Clone(table)
}

// With returns a copy of the table with code set to op.
func (table OpcodeTable) With(code int64, op Operation) OpcodeTable {
	clone := table.Clone()
	clone[code] = op
	return clone
}

// binary builds a two-source, one-destination arithmetic operation.
func binary(name string, fn func(a, b int64) int64) Operation {
	return Operation{
		Name:  name,
		Args:  3,
		Store: true,
		Exec: func(cpu *Cpu, code Code) (err error) {
			a, err := cpu.Read(code, 0)
			if err != nil {
				return
			}
			b, err := cpu.Read(code, 1)
			if err != nil {
				return
			}
			err = cpu.Write(code, 2, fn(a, b))
			if err != nil {
				return
			}
			cpu.Pc += 4
			return
		},
	}
}

// jump builds a conditional branch operation.
func jump(name string, taken func(a int64) bool) Operation {
	return Operation{
		Name: name,
		Args: 2,
		Exec: func(cpu *Cpu, code Code) (err error) {
			a, err := cpu.Read(code, 0)
			if err != nil {
				return
			}
			addr, err := cpu.Read(code, 1)
			if err != nil {
				return
			}
			if taken(a) {
				cpu.Pc = addr
			} else {
				cpu.Pc += 3
			}
			return
		},
	}
}

func flag(cond bool) int64 {
	if cond {
		return 1
	}
	return 0
}

var (
	OpAdd = binary("add", func(a, b int64) int64 { return a + b })
	OpMul = binary("mul", func(a, b int64) int64 { return a * b })
	OpLt  = binary("lt", func(a, b int64) int64 { return flag(a < b) })
	OpEq  = binary("eq", func(a, b int64) int64 { return flag(a == b) })

	OpJnz = jump("jnz", func(a int64) bool { return a != 0 })
	OpJz  = jump("jz", func(a int64) bool { return a == 0 })

	// OpIn pops the front of the input channel into its destination.
	// With no input available the machine waits and the PC is left on
	// this instruction, so that it is retried once input arrives.
	OpIn = Operation{
		Name:  "in",
		Args:  1,
		Store: true,
		Exec: func(cpu *Cpu, code Code) (err error) {
			addr, err := cpu.Address(code, 0)
			if err != nil {
				return
			}
			value, ok := cpu.Input.Receive()
			if !ok {
				cpu.waiting = true
				return
			}
			cpu.waiting = false
			err = cpu.Memory.Write(addr, value)
			if err != nil {
				return
			}
			cpu.Pc += 2
			return
		},
	}

	// OpOut appends its operand to the output channel.
	OpOut = Operation{
		Name: "out",
		Args: 1,
		Exec: func(cpu *Cpu, code Code) (err error) {
			value, err := cpu.Read(code, 0)
			if err != nil {
				return
			}
			cpu.Output.Send(value)
			cpu.Pc += 2
			return
		},
	}

	// OpArb adjusts the relative base register.
	OpArb = Operation{
		Name: "arb",
		Args: 1,
		Exec: func(cpu *Cpu, code Code) (err error) {
			value, err := cpu.Read(code, 0)
			if err != nil {
				return
			}
			cpu.RelativeBase += value
			cpu.Pc += 2
			return
		},
	}

	OpHalt = Operation{
		Name: "hlt",
		Exec: func(cpu *Cpu, code Code) (err error) {
			cpu.Pc++
			cpu.halted = true
			return
		},
	}

	// OpHaltCatchFire wipes the machine back to the empty program, flushes
	// both channels and faults with ErrCaughtFire.
	// It is not part of any default table.
	OpHaltCatchFire = Operation{
		Name: "hcf",
		Exec: func(cpu *Cpu, code Code) (err error) {
			cpu.Memory.Load(emptyProgram)
			cpu.Pc = 0
			cpu.RelativeBase = 0
			cpu.Input.Rewind()
			cpu.Output.Rewind()
			return ErrCaughtFire
		},
	}
)

var (
	// OpcodesArithmetic is the first instruction set: add, multiply, halt.
	OpcodesArithmetic = OpcodeTable{
		OP_ADD:  OpAdd,
		OP_MUL:  OpMul,
		OP_HALT: OpHalt,
	}

	// OpcodesDiagnostic adds I/O, branches and comparisons.
	OpcodesDiagnostic = OpcodesArithmetic.Clone()

	// OpcodesDefault adds relative addressing: the complete instruction set.
	OpcodesDefault OpcodeTable
)

func init() {
	maps.Copy(OpcodesDiagnostic, OpcodeTable{
		OP_IN:  OpIn,
		OP_OUT: OpOut,
		OP_JNZ: OpJnz,
		OP_JZ:  OpJz,
		OP_LT:  OpLt,
		OP_EQ:  OpEq,
	})

	OpcodesDefault = OpcodesDiagnostic.With(OP_ARB, OpArb)
}
