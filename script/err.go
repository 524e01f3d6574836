package script

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrScript     = errors.New(f("script"))
	ErrNoHooks    = errors.New(f("script defines neither 'input' nor 'output'"))
	ErrHookType   = errors.New(f("hook is not callable"))
	ErrHook       = errors.New(f("hook failed"))
	ErrHookResult = errors.New(f("hook result is not an integer"))
	ErrHookNone   = errors.New(f("hook returned None with no fallback"))
)

// ErrHookName reports which hook misbehaved.
type ErrHookName struct {
	Name string
	Err  error
}

func (err *ErrHookName) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrHookName) Unwrap() error {
	return err.Err
}
