// Package cpu implements the intcode machine.
//
// A machine (Cpu) executes a tape of signed 64-bit integers held in a
// growable Memory. Each instruction cell encodes an opcode in its low two
// decimal digits and one addressing mode per argument in the digits above:
// position (0), immediate (1) or relative (2) to the relative base register.
//
// Instructions are dispatched through an OpcodeTable, an open map from opcode
// number to Operation. Callers may replace or add entries to intercept input
// and output, or restrict a machine to an earlier subset of the instruction
// set.
//
// Machines are cooperative: RunUntilYield returns when the machine halts, or
// when it tries to read from an empty input channel. Pushing input and calling
// RunUntilYield again retries the stalled instruction.
package cpu
