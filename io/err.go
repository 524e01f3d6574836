package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Tape errors
	ErrValueSyntax = errors.New(f("value syntax"))
)

// ErrValue reports a token on a tape that is not an integer.
type ErrValue struct {
	Index int
	Token string
}

func (err ErrValue) Error() string {
	return f("value %d '%v' is not an integer", err.Index, err.Token)
}

func (err ErrValue) Unwrap() error {
	return ErrValueSyntax
}
