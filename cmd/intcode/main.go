// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	goio "io"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/intcode/config"
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/internal"
	"github.com/ezrec/intcode/pipeline"
	"github.com/ezrec/intcode/script"
	"github.com/ezrec/intcode/translate"
)

var f = translate.From

// readTape decodes a program file.
func readTape(path string) (prog cpu.Program) {
	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	prog, err = cpu.ReadProgram(inf)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	return
}

// loadHooks loads a Starlark hook script, if one was named.
func loadHooks(path string, verbose bool) (hooks *script.Hooks) {
	if len(path) == 0 {
		return
	}

	hooks, err := script.Load(path, nil)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	hooks.Verbose = verbose

	return
}

// runEmulator runs a single machine against the tape streams.
func runEmulator(ctx context.Context, prog cpu.Program, hooks *script.Hooks, verbose bool, input goio.Reader, output goio.Writer) (emu *emulator.Emulator, err error) {
	emu = emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Tape.Input = input
	emu.Tape.Output = output

	if hooks != nil {
		hooks.Apply(emu.Cpu)
	}

	emu.Load(prog)

	err = emu.Run(ctx)

	return
}

// runPipeline runs, or searches, the pipeline described by path.
func runPipeline(ctx context.Context, path string, hookPath string, verbose bool, output goio.Writer) (machines []*cpu.Cpu) {
	desc, err := config.Load(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	verbose = verbose || desc.Verbose
	if len(hookPath) == 0 {
		hookPath = desc.Script
	}

	prog := readTape(desc.Tape)
	hooks := loadHooks(hookPath, verbose)

	setup := func(p *pipeline.Pipeline) {
		p.Verbose = verbose
		p.MaxPasses = desc.MaxPasses
		if hooks != nil {
			for _, stage := range p.Cpu {
				hooks.Apply(stage)
			}
		}
	}

	if desc.Search {
		if verbose {
			log.Print(f("pipeline: searching %d orderings", internal.Factorial(len(desc.Phases))))
		}
		best, order, err := pipeline.Search(ctx, prog, desc.Phases, desc.Initial, desc.Feedback, setup)
		if err != nil {
			log.Fatalf("%v: %v", path, f("phases %v: %v", order, err))
		}
		fmt.Fprintf(output, "%d %v\n", best, order)
		return
	}

	p := pipeline.NewUniform(desc.Feedback, prog, len(desc.Phases))
	setup(p)

	err = p.Seed(desc.Phases, desc.Initial)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	value, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if verbose {
		log.Print(f("pipeline: %d passes", p.Passes))
	}

	fmt.Fprintf(output, "%d\n", value)

	return p.Cpu
}

func main() {
	var tape string
	var input string
	var output string
	var verbose bool
	var hookPath string
	var pipePath string
	var dump bool

	flag.StringVar(&tape, "t", "", "Program tape file")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&hookPath, "s", "", ".star script of 'in'/'out' hooks")
	flag.StringVar(&pipePath, "p", "", ".cue pipeline description")
	flag.BoolVar(&dump, "d", false, "Dump memory to stderr after the run")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var outw goio.Writer
	if output == "-" {
		outw = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		outw = ouf
	}

	var machines []*cpu.Cpu
	var err error

	if len(pipePath) != 0 {
		machines = runPipeline(ctx, pipePath, hookPath, verbose, outw)
	} else {
		if len(tape) == 0 {
			log.Fatalf("%v: %v", os.Args[0], f("one of -t or -p is required"))
		}

		var inr goio.Reader
		if input == "-" {
			inr = os.Stdin
		} else {
			inf, err := os.Open(input)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
			defer inf.Close()
			inr = inf
		}

		var emu *emulator.Emulator
		emu, err = runEmulator(ctx, readTape(tape), loadHooks(hookPath, verbose), verbose, inr, outw)
		machines = append(machines, emu.Cpu)
	}

	if dump {
		for _, machine := range machines {
			name := machine.Prefix
			if len(name) == 0 {
				name = "memory"
			}
			fmt.Fprintf(os.Stderr, "%v: %v\n", name, machine.Program())
			for pc, text := range machine.Listing() {
				fmt.Fprintf(os.Stderr, "%v: %04d: %v\n", name, pc, text)
			}
		}
	}

	if err != nil {
		log.Fatalf("%v: %v", tape, err)
	}
}
