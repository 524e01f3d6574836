// Package config loads pipeline descriptions written in CUE.
//
// A description names the tape to run and the phase setting of every stage:
//
//	tape:       "amplifier.txt"
//	phases:     [9, 8, 7, 6, 5]
//	feedback:   true
//	search:     true
//	max_passes: 1000
//
// Relative file names are resolved against the directory of the description.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrConfig = errors.New(f("pipeline description"))
)

// Schema is the closed CUE schema of a pipeline description.
const Schema = `
tape:        string
phases:      [int, ...int]
initial?:    int
feedback?:   bool
search?:     bool
max_passes?: int & >0
verbose?:    bool
script?:     string
`

// Pipeline is a decoded pipeline description.
type Pipeline struct {
	Tape      string  `json:"tape"`       // Program tape file.
	Phases    []int64 `json:"phases"`     // Phase setting of each stage.
	Initial   int64   `json:"initial"`    // Value fed to the first stage.
	Feedback  bool    `json:"feedback"`   // Connect the last stage to the first.
	Search    bool    `json:"search"`     // Try every ordering of Phases.
	MaxPasses int     `json:"max_passes"` // Scheduler pass limit, zero for the default.
	Verbose   bool    `json:"verbose"`    // Trace every stage.
	Script    string  `json:"script"`     // Starlark hook script, applied to every stage.
}

// Parse decodes and validates a description. Relative paths are resolved
// against the directory of filename.
func Parse(filename string, data []byte) (pipe *Pipeline, err error) {
	defer func() {
		if err != nil {
			pipe = nil
			err = errors.Join(ErrConfig, err)
		}
	}()

	ctx := cuecontext.New()

	schema := ctx.CompileString("close({" + Schema + "})")
	err = schema.Err()
	if err != nil {
		return
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	err = value.Err()
	if err != nil {
		return
	}

	value = schema.Unify(value)
	err = value.Validate(cue.Concrete(true))
	if err != nil {
		return
	}

	pipe = &Pipeline{}
	err = value.Decode(pipe)
	if err != nil {
		return
	}

	dir := filepath.Dir(filename)
	pipe.Tape = resolve(dir, pipe.Tape)
	if pipe.Script != "" {
		pipe.Script = resolve(dir, pipe.Script)
	}

	return
}

// Load reads a description from a file.
func Load(path string) (pipe *Pipeline, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = errors.Join(ErrConfig, err)
		return
	}

	return Parse(path, data)
}

func resolve(dir string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
