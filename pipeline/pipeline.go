// Package pipeline runs several intcode machines as cooperating stages.
//
// Each stage's output channel is the next stage's input channel. In feedback
// mode the last stage's output also feeds the first stage, closing a ring.
// Stages are run round-robin, each until it halts or waits for input, until
// every stage has halted.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/io"
)

const (
	PIPELINE_MAX_PASSES = 10000 // Default limit of round-robin passes.
)

// Pipeline is a chain, or ring, of machines.
type Pipeline struct {
	Verbose   bool // If set, enables verbose logging of every stage.
	Feedback  bool // If set, the last stage feeds the first.
	MaxPasses int  // Pass limit; zero selects PIPELINE_MAX_PASSES.

	Cpu    []*cpu.Cpu // Stages, in scheduling order.
	Passes int        // Round-robin passes completed by Run.
}

// NewPipeline creates one connected stage per program.
func NewPipeline(feedback bool, progs ...cpu.Program) (p *Pipeline) {
	p = &Pipeline{
		Feedback: feedback,
	}

	for n, prog := range progs {
		stage := cpu.NewCpu()
		stage.Prefix = fmt.Sprintf("stage %d", n)
		stage.Load(prog)
		p.Cpu = append(p.Cpu, stage)
	}

	p.Connect()

	return
}

// NewUniform creates count connected stages all running prog.
func NewUniform(feedback bool, prog cpu.Program, count int) (p *Pipeline) {
	progs := make([]cpu.Program, count)
	for n := range progs {
		progs[n] = prog
	}

	return NewPipeline(feedback, progs...)
}

// Connect shares each stage's output channel as the next stage's input.
func (p *Pipeline) Connect() {
	for n := 1; n < len(p.Cpu); n++ {
		p.Cpu[n].Input = p.Cpu[n-1].Output
	}

	if p.Feedback && len(p.Cpu) > 0 {
		p.Cpu[0].Input = p.Cpu[len(p.Cpu)-1].Output
	}
}

// Seed queues one phase setting per stage, then the initial value for the
// first stage.
func (p *Pipeline) Seed(phases []int64, initial int64) (err error) {
	if len(phases) != len(p.Cpu) {
		err = ErrPhaseCount
		return
	}

	for n, phase := range phases {
		p.Cpu[n].PushInput(phase)
	}

	if len(p.Cpu) > 0 {
		p.Cpu[0].PushInput(initial)
	}

	return
}

// allHalted returns true if every stage has halted.
func (p *Pipeline) allHalted() bool {
	for _, stage := range p.Cpu {
		if !stage.IsHalted() {
			return false
		}
	}
	return true
}

// stalled returns true if no stage can run: each one is halted or
// waiting on an empty channel.
func (p *Pipeline) stalled() bool {
	for _, stage := range p.Cpu {
		if stage.State() == cpu.STATE_RUNNING {
			return false
		}
	}
	return true
}

// fault returns the first stage fault, if any.
func (p *Pipeline) fault() (err error) {
	for n, stage := range p.Cpu {
		if stage.LastError() != nil {
			err = &ErrStage{Index: n, Err: stage.LastError()}
			return
		}
	}
	return
}

// Run schedules the stages round-robin until all have halted, and returns
// the last value written by the final stage.
func (p *Pipeline) Run(ctx context.Context) (value int64, err error) {
	if len(p.Cpu) == 0 {
		err = ErrPipelineEmpty
		return
	}

	limit := p.MaxPasses
	if limit <= 0 {
		limit = PIPELINE_MAX_PASSES
	}

	for _, stage := range p.Cpu {
		stage.Verbose = p.Verbose
	}

	for p.Passes = 0; ; p.Passes++ {
		err = ctx.Err()
		if err != nil {
			return
		}

		if p.Passes >= limit {
			err = ErrNonterminating
			return
		}

		for _, stage := range p.Cpu {
			stage.RunUntilYield()
		}

		if p.Verbose {
			log.Print(f("pipeline: pass %d", p.Passes))
		}

		err = p.fault()
		if err != nil {
			return
		}

		if p.allHalted() {
			p.Passes++
			return p.Result()
		}

		if p.stalled() {
			err = ErrDeadlock
			return
		}
	}
}

// Result returns the last value written by the final stage that is still
// queued on its output channel. A Fifo is read in place; any other channel
// is drained.
func (p *Pipeline) Result() (value int64, err error) {
	if len(p.Cpu) == 0 {
		err = ErrPipelineEmpty
		return
	}

	output := p.Cpu[len(p.Cpu)-1].Output

	var ok bool
	if fifo, isFifo := output.(*io.Fifo); isFifo {
		value, ok = fifo.Last()
	} else {
		for {
			out, more := output.Receive()
			if !more {
				break
			}
			value, ok = out, true
		}
	}

	if !ok {
		err = ErrNoOutput
	}

	return
}
