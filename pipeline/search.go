package pipeline

import (
	"context"
	"slices"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/internal"
)

// Search runs a fresh pipeline of prog for every ordering of phases and
// returns the largest result with the ordering that produced it.
// One stage is created per phase. If setup is not nil it is called on each
// pipeline before it is seeded.
func Search(ctx context.Context, prog cpu.Program, phases []int64, initial int64, feedback bool, setup func(p *Pipeline)) (best int64, order []int64, err error) {
	if len(phases) == 0 {
		err = ErrPipelineEmpty
		return
	}

	for perm := range internal.Permutations(phases) {
		p := NewUniform(feedback, prog, len(phases))
		if setup != nil {
			setup(p)
		}
		err = p.Seed(perm, initial)
		if err != nil {
			return
		}

		var value int64
		value, err = p.Run(ctx)
		if err != nil {
			order = slices.Clone(perm)
			return
		}

		if order == nil || value > best {
			best = value
			order = slices.Clone(perm)
		}
	}

	return
}
