package cpu

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Address resolution errors
	ErrAddress         = errors.New(f("address fault"))
	ErrAddressNegative = errors.New(f("negative address"))
	ErrAddressMode     = errors.New(f("unknown address mode"))
	ErrAddressLimit    = errors.New(f("address beyond memory limit"))
	ErrWriteImmediate  = errors.New(f("cannot write to immediate value"))

	// Instruction errors
	ErrOpcodeUnknown = errors.New(f("unknown opcode"))
	ErrCaughtFire    = errors.New(f("everything is fine"))

	// Channel errors
	ErrOutputEmpty = errors.New(f("output empty"))

	// Program decode errors
	ErrDecode = errors.New(f("decode"))
)

// ErrOpcode is the error for an opcode missing from the dispatch table.
type ErrOpcode int64

func (eo ErrOpcode) Error() string {
	return f("unknown opcode %d", int64(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	if err == ErrOpcodeUnknown {
		return true
	}
	_, ok = err.(ErrOpcode)
	return
}

// ErrMode is the error for an addressing mode digit that is not defined.
type ErrMode CodeMode

func (em ErrMode) Error() string {
	return f("unknown address mode %d", int(em))
}

func (em ErrMode) Is(err error) (ok bool) {
	if err == ErrAddressMode {
		return true
	}
	_, ok = err.(ErrMode)
	return
}

// ErrInstruction records the instruction that faulted a machine.
type ErrInstruction struct {
	Pc   int64
	Code Code
	Err  error
}

func (err *ErrInstruction) Error() string {
	return f("pc %d code %d: %v", err.Pc, int64(err.Code), err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}

// ErrSyntax locates a malformed token in program text.
type ErrSyntax struct {
	Index int
	Token string
	Err   error
}

func (err ErrSyntax) Error() string {
	return f("token %d '%v' %v", err.Index, err.Token, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
