package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/script"
)

const (
	// Reads a phase and a value, then writes value*10+phase.
	amplifierChain = "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0"
	// Reads a phase, then loops five times reading x and writing 2*x+phase.
	amplifierRing = "3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5"
)

func parse(t *testing.T, text string) cpu.Program {
	prog, err := cpu.ParseProgram(text)
	if err != nil {
		t.Fatalf("%v: %v", text, err)
	}
	return prog
}

func TestPipeline_Connect(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, "99")

	p := NewUniform(false, prog, 3)
	assert.Len(p.Cpu, 3)
	assert.Same(p.Cpu[0].Output, p.Cpu[1].Input)
	assert.Same(p.Cpu[1].Output, p.Cpu[2].Input)
	assert.NotSame(p.Cpu[2].Output, p.Cpu[0].Input)
	assert.Equal("stage 2", p.Cpu[2].Prefix)

	p = NewUniform(true, prog, 3)
	assert.Same(p.Cpu[2].Output, p.Cpu[0].Input)

	p = NewUniform(true, prog, 1)
	assert.Same(p.Cpu[0].Output, p.Cpu[0].Input)
}

func TestPipeline_EchoDouble(t *testing.T) {
	assert := assert.New(t)

	echo := parse(t, "3,11,3,12,4,12,99")
	double := parse(t, "3,11,3,12,1002,12,2,12,4,12,99")

	p := NewPipeline(false, echo, double)
	err := p.Seed([]int64{5, 0}, 3)
	assert.NoError(err)

	value, err := p.Run(context.Background())
	assert.NoError(err)
	assert.Equal(int64(6), value)
	assert.Equal(1, p.Passes)

	for _, stage := range p.Cpu {
		assert.True(stage.IsHalted())
		assert.NoError(stage.LastError())
	}
}

func TestPipeline_Run(t *testing.T) {
	table := [](struct {
		name     string
		program  string
		phases   []int64
		feedback bool
		value    int64
		err      error
	}){
		{"chain", amplifierChain, []int64{4, 3, 2, 1, 0}, false, 43210, nil},
		{"ring", amplifierRing, []int64{9, 8, 7, 6, 5}, true, 139629729, nil},
		{"single", "3,0,4,0,99", []int64{7}, false, 7, nil},
		{"no-output", "3,0,99", []int64{1, 2}, false, 0, ErrNoOutput},
		{"deadlock", "3,20,3,20,3,20,4,20,99", []int64{0, 0}, true, 0, ErrDeadlock},
		{"starved", "3,20,3,20,3,20,4,20,99", []int64{0, 0}, false, 0, ErrDeadlock},
		{"fault", "3,20,104,1,42", []int64{0, 0}, false, 0, cpu.ErrOpcodeUnknown},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			p := NewUniform(entry.feedback, parse(t, entry.program), len(entry.phases))
			err := p.Seed(entry.phases, 0)
			assert.NoError(err)

			value, err := p.Run(context.Background())
			if entry.err != nil {
				assert.ErrorIs(err, entry.err)
				return
			}
			assert.NoError(err)
			assert.Equal(entry.value, value)
		})
	}
}

func TestPipeline_Fault(t *testing.T) {
	assert := assert.New(t)

	p := NewPipeline(false, parse(t, "3,9,4,9,99"), parse(t, "3,9,42"))
	err := p.Seed([]int64{1, 2}, 0)
	assert.NoError(err)

	_, err = p.Run(context.Background())
	var stageErr *ErrStage
	assert.True(errors.As(err, &stageErr))
	assert.Equal(1, stageErr.Index)
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)

	var insErr *cpu.ErrInstruction
	assert.True(errors.As(err, &insErr))
	assert.Equal(int64(2), insErr.Pc)
}

func TestPipeline_Nonterminating(t *testing.T) {
	assert := assert.New(t)

	// Echo forever: the tokens circulate around the ring without end.
	p := NewUniform(true, parse(t, "3,20,4,20,1105,1,0"), 2)
	p.MaxPasses = 50
	err := p.Seed([]int64{1, 2}, 3)
	assert.NoError(err)

	_, err = p.Run(context.Background())
	assert.ErrorIs(err, ErrNonterminating)
	assert.Equal(50, p.Passes)

	for _, stage := range p.Cpu {
		assert.False(stage.IsHalted())
	}
}

func TestPipeline_Errors(t *testing.T) {
	assert := assert.New(t)

	p := NewPipeline(false)
	_, err := p.Run(context.Background())
	assert.ErrorIs(err, ErrPipelineEmpty)

	_, err = p.Result()
	assert.ErrorIs(err, ErrPipelineEmpty)

	p = NewUniform(false, parse(t, "99"), 2)
	err = p.Seed([]int64{1}, 0)
	assert.ErrorIs(err, ErrPhaseCount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx)
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(0, p.Passes)
}

func TestSearch(t *testing.T) {
	table := [](struct {
		name     string
		program  string
		phases   []int64
		feedback bool
		best     int64
		order    []int64
	}){
		{"chain", amplifierChain, []int64{0, 1, 2, 3, 4}, false, 43210, []int64{4, 3, 2, 1, 0}},
		{"ring", amplifierRing, []int64{5, 6, 7, 8, 9}, true, 139629729, []int64{9, 8, 7, 6, 5}},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			best, order, err := Search(context.Background(), parse(t, entry.program), entry.phases, 0, entry.feedback, nil)
			assert.NoError(err)
			assert.Equal(entry.best, best)
			assert.Equal(entry.order, order)
		})
	}
}

func TestSearch_Error(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Search(context.Background(), parse(t, "99"), nil, 0, false, nil)
	assert.ErrorIs(err, ErrPipelineEmpty)

	_, order, err := Search(context.Background(), parse(t, "3,0,99"), []int64{1, 2}, 0, false, nil)
	assert.ErrorIs(err, ErrNoOutput)
	assert.Equal([]int64{1, 2}, order)
}

func TestSearch_Setup(t *testing.T) {
	assert := assert.New(t)

	calls := 0
	best, order, err := Search(context.Background(), parse(t, amplifierChain), []int64{0, 1, 2, 3, 4}, 0, false,
		func(p *Pipeline) {
			calls++
			assert.Len(p.Cpu, 5)
		})
	assert.NoError(err)
	assert.Equal(int64(43210), best)
	assert.Equal([]int64{4, 3, 2, 1, 0}, order)
	assert.Equal(120, calls)
}

func TestSearch_SetupHooks(t *testing.T) {
	assert := assert.New(t)

	hooks, err := script.Load("hooks.star", "def output(value):\n    fail(\"hook reached\", value)\n")
	assert.NoError(err)

	_, order, err := Search(context.Background(), parse(t, amplifierChain), []int64{0, 1, 2, 3, 4}, 0, false,
		func(p *Pipeline) {
			for _, stage := range p.Cpu {
				hooks.Apply(stage)
			}
		})
	assert.ErrorIs(err, script.ErrHook)
	assert.ErrorContains(err, "hook reached")
	assert.Equal([]int64{0, 1, 2, 3, 4}, order)

	var stageErr *ErrStage
	assert.True(errors.As(err, &stageErr))
	assert.Equal(0, stageErr.Index)
}

func TestSearch_SetupMaxPasses(t *testing.T) {
	assert := assert.New(t)

	_, order, err := Search(context.Background(), parse(t, amplifierRing), []int64{5, 6, 7, 8, 9}, 0, true,
		func(p *Pipeline) {
			p.MaxPasses = 1
		})
	assert.ErrorIs(err, ErrNonterminating)
	assert.Equal([]int64{5, 6, 7, 8, 9}, order)
}

// queue is a Channel that is not a Fifo.
type queue struct {
	values []int64
}

func (q *queue) Rewind() { q.values = nil }

func (q *queue) Send(value int64) { q.values = append(q.values, value) }

func (q *queue) Len() int { return len(q.values) }

func (q *queue) Receive() (value int64, ok bool) {
	if len(q.values) == 0 {
		return
	}
	value, q.values = q.values[0], q.values[1:]
	return value, true
}

func TestPipeline_Result(t *testing.T) {
	assert := assert.New(t)

	p := NewPipeline(false, parse(t, "104,5,104,6,99"))
	value, err := p.Run(context.Background())
	assert.NoError(err)
	assert.Equal(int64(6), value)

	// A Fifo is read in place.
	value, err = p.Result()
	assert.NoError(err)
	assert.Equal(int64(6), value)
	assert.Equal(2, p.Cpu[0].Output.Len())

	// Other channels are drained.
	p = NewPipeline(false, parse(t, "104,5,104,6,99"))
	p.Cpu[0].Output = &queue{}
	value, err = p.Run(context.Background())
	assert.NoError(err)
	assert.Equal(int64(6), value)
	assert.Equal(0, p.Cpu[0].Output.Len())

	_, err = p.Result()
	assert.ErrorIs(err, ErrNoOutput)
}
