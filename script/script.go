// Package script overrides the machine I/O opcodes with Starlark functions.
//
// A script may define either or both of:
//
//	def input():         # value for 'in', or None to use the input channel
//	def output(value):   # consumes the value of 'out'
//
// Module globals are frozen once the script has loaded, so hooks keep their
// state in the predeclared mutable dict 'state'. A hook that fails, for
// example with fail(), faults the instruction that called it.
//
// input() is called once per executed 'in'. When it returns None and the
// machine has to wait for channel input, the retry after the input arrives
// reads the channel without calling input() again.
package script

import (
	"errors"
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/intcode/cpu"
)

const (
	HOOK_INPUT  = "input"  // Name of the 'in' hook.
	HOOK_OUTPUT = "output" // Name of the 'out' hook.
)

// Hooks is a loaded script.
type Hooks struct {
	Verbose bool // If set, logs every hook call.

	State  *starlark.Dict    // Mutable state shared by the hooks.
	Input  starlark.Callable // 'in' hook, or nil.
	Output starlark.Callable // 'out' hook, or nil.

	thread   *starlark.Thread
	deferred map[*cpu.Cpu]stall // Machines waiting on the channel after a None.
}

// stall locates the 'in' a machine is waiting on.
type stall struct {
	pc    int64
	ticks int
}

// Load executes a script. If src is nil the script is read from filename,
// otherwise src may be a string, []byte or io.Reader.
func Load(filename string, src any) (hooks *Hooks, err error) {
	hooks = &Hooks{
		State:    starlark.NewDict(0),
		deferred: map[*cpu.Cpu]stall{},
	}
	hooks.thread = &starlark.Thread{
		Name:  filename,
		Print: func(thread *starlark.Thread, msg string) {
			log.Printf("%v: %v", thread.Name, msg)
		},
	}

	opts := syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
	}
	predeclared := starlark.StringDict{
		"state": hooks.State,
	}

	globals, err := starlark.ExecFileOptions(&opts, hooks.thread, filename, src, predeclared)
	if err != nil {
		hooks = nil
		err = errors.Join(ErrScript, err)
		return
	}

	for name, hook := range map[string]*starlark.Callable{
		HOOK_INPUT:  &hooks.Input,
		HOOK_OUTPUT: &hooks.Output,
	} {
		value, ok := globals[name]
		if !ok {
			continue
		}
		*hook, ok = value.(starlark.Callable)
		if !ok {
			hooks = nil
			err = errors.Join(ErrScript, &ErrHookName{Name: name, Err: ErrHookType})
			return
		}
	}

	if hooks.Input == nil && hooks.Output == nil {
		hooks = nil
		err = errors.Join(ErrScript, ErrNoHooks)
		return
	}

	return
}

// call invokes a hook.
func (hooks *Hooks) call(fn starlark.Callable, args ...starlark.Value) (result starlark.Value, err error) {
	result, err = starlark.Call(hooks.thread, fn, starlark.Tuple(args), nil)
	if hooks.Verbose {
		log.Printf("%v: %v%v = %v (%v)", hooks.thread.Name, fn.Name(), starlark.Tuple(args), result, err)
	}
	if err != nil {
		err = &ErrHookName{Name: fn.Name(), Err: errors.Join(ErrHook, err)}
	}

	return
}

// toInt64 converts a hook result to a machine value.
func toInt64(name string, value starlark.Value) (result int64, err error) {
	num, ok := value.(starlark.Int)
	if ok {
		result, ok = num.Int64()
	}
	if !ok {
		err = &ErrHookName{Name: name, Err: ErrHookResult}
	}

	return
}

// fallback runs the machine's previous 'in' operation, remembering a stall
// so that the retry goes straight back to it.
func (hooks *Hooks) fallback(c *cpu.Cpu, code cpu.Code, op cpu.Operation) (err error) {
	err = op.Exec(c, code)
	if err == nil && c.IsWaiting() {
		// The stalled step is counted once it returns.
		hooks.deferred[c] = stall{pc: c.Pc, ticks: c.Ticks + 1}
	}

	return
}

// opInput wraps fallback, the machine's current 'in' operation.
func (hooks *Hooks) opInput(fallback cpu.Operation) cpu.Operation {
	return cpu.Operation{
		Name:  "in",
		Args:  1,
		Store: true,
		Exec: func(c *cpu.Cpu, code cpu.Code) (err error) {
			addr, err := c.Address(code, 0)
			if err != nil {
				return
			}
			if at, ok := hooks.deferred[c]; ok {
				delete(hooks.deferred, c)
				if at == (stall{pc: c.Pc, ticks: c.Ticks}) {
					return hooks.fallback(c, code, fallback)
				}
			}
			result, err := hooks.call(hooks.Input)
			if err != nil {
				return
			}
			if result == starlark.None {
				if fallback.Exec == nil {
					err = &ErrHookName{Name: HOOK_INPUT, Err: ErrHookNone}
					return
				}
				return hooks.fallback(c, code, fallback)
			}
			value, err := toInt64(HOOK_INPUT, result)
			if err != nil {
				return
			}
			err = c.Memory.Write(addr, value)
			if err != nil {
				return
			}
			c.Pc += 2
			return
		},
	}
}

// opOutput replaces the machine's 'out' operation.
func (hooks *Hooks) opOutput() cpu.Operation {
	return cpu.Operation{
		Name: "out",
		Args: 1,
		Exec: func(c *cpu.Cpu, code cpu.Code) (err error) {
			value, err := c.Read(code, 0)
			if err != nil {
				return
			}
			_, err = hooks.call(hooks.Output, starlark.MakeInt64(value))
			if err != nil {
				return
			}
			c.Pc += 2
			return
		},
	}
}

// Apply installs the defined hooks on a machine.
func (hooks *Hooks) Apply(c *cpu.Cpu) {
	if hooks.Input != nil {
		c.SetOpcode(cpu.OP_IN, hooks.opInput(c.Opcodes[cpu.OP_IN]))
	}

	if hooks.Output != nil {
		c.SetOpcode(cpu.OP_OUT, hooks.opOutput())
	}
}
