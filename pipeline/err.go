package pipeline

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Scheduling errors
	ErrPipelineEmpty  = errors.New(f("pipeline empty"))
	ErrPhaseCount     = errors.New(f("phase count does not match stage count"))
	ErrDeadlock       = errors.New(f("deadlock: every running stage is waiting for input"))
	ErrNonterminating = errors.New(f("pipeline did not terminate"))
	ErrNoOutput       = errors.New(f("pipeline produced no output"))
)

// ErrStage reports the fault of a single stage.
type ErrStage struct {
	Index int
	Err   error
}

func (err *ErrStage) Error() string {
	return f("stage %d %v", err.Index, err.Err)
}

func (err *ErrStage) Unwrap() error {
	return err.Err
}
