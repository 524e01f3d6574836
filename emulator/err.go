package emulator

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrInputExhausted = errors.New(f("input exhausted while waiting"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc  int64
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc %d %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
