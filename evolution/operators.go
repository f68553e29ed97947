// Package evolution implements the genetic operators and the generational
// loop: structural point-edit mutation, windowed asymmetric crossover, and
// retain-and-breed population evolution over DNA.
package evolution

import (
	"math/rand"
	"slices"

	"github.com/pthm-cable/vroomon/config"
	"github.com/pthm-cable/vroomon/genome"
)

// Mutate returns a structurally edited copy of the genome. The walk examines
// one slot at a time: replace and insert advance the index, a removal
// re-examines whatever slides into the current index. Frame and powertrain
// are always edited in lockstep, so the parallel sequences stay equal-length
// after every single edit, and the last remaining slot is never removed.
func Mutate(d *genome.DNA, rng *rand.Rand, cfg *config.Config) *genome.DNA {
	m := cfg.Mutation
	out := d.Clone()

	i := 0
	for i < len(out.Frame) {
		r := rng.Float64()
		switch {
		case r < m.ReplaceP:
			f, p := genome.RandomPair(rng)
			out.Frame[i] = f
			out.Powertrain[i] = p
			i++
		case r < m.ReplaceP+m.RemoveP && len(out.Frame) > 1:
			out.Frame = slices.Delete(out.Frame, i, i+1)
			out.Powertrain = slices.Delete(out.Powertrain, i, i+1)
		case r < m.ReplaceP+m.RemoveP+m.InsertP:
			f, p := genome.RandomPair(rng)
			out.Frame = slices.Insert(out.Frame, i, f)
			out.Powertrain = slices.Insert(out.Powertrain, i, p)
			i++
		default:
			i++
		}
	}
	return out
}

// Reproduce crosses two parent genomes and mutates the result once. One
// parent is picked uniformly at random as the mother, fixing the child's
// initial length; the other donates windows of consecutive slots. The
// crossover is asymmetric by definition: slots beyond the donor's length stay
// untouched, and every window offset is bounds-checked against both the child
// and the donor.
func Reproduce(a, b *genome.DNA, rng *rand.Rand, cfg *config.Config) *genome.DNA {
	mother, other := a, b
	if rng.Float64() < 0.5 {
		mother, other = b, a
	}
	child := mother.Clone()

	seq := cfg.Crossover.SequenceLength
	swap := cfg.Crossover.SwapChance
	for idx := 0; idx < len(child.Frame); idx++ {
		if rng.Float64() < swap {
			for j := 0; j < seq; j++ {
				if idx+j < len(child.Frame) && idx+j < len(other.Frame) {
					child.Frame[idx+j] = other.Frame[idx+j].Clone()
				}
			}
		}
		if rng.Float64() < swap {
			for j := 0; j < seq; j++ {
				if idx+j < len(child.Powertrain) && idx+j < len(other.Powertrain) {
					child.Powertrain[idx+j] = other.Powertrain[idx+j].Clone()
				}
			}
		}
	}

	return Mutate(child, rng, cfg)
}
