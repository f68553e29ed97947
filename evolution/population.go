package evolution

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/pthm-cable/vroomon/config"
	"github.com/pthm-cable/vroomon/genome"
)

// Scorer evaluates a whole population of genomes against its environment,
// returning one fitness per genome in input order. The scorer may batch or
// parallelize internally; the loop treats it as a single synchronous call.
type Scorer interface {
	ScorePopulation(dnas []*genome.DNA) ([]float64, error)
}

// Report summarizes one generation's evaluation.
type Report struct {
	Scores    []float64   // fitness per input genome, input order
	Best      *genome.DNA // highest-fitness input genome
	BestScore float64
	Retained  int
}

// InitPopulation creates size random genomes of the given slot count.
func InitPopulation(rng *rand.Rand, size, dnaLength int) []*genome.DNA {
	pop := make([]*genome.DNA, size)
	for i := range pop {
		pop[i] = genome.Random(rng, dnaLength)
	}
	return pop
}

// Evolve produces the next generation: score everyone, keep the top
// max(2, round(retainRatio*n)) unchanged, then refill by breeding two
// retained parents sampled uniformly with replacement. Only bred offspring
// are ever mutated; survivors pass through untouched in the generation they
// were retained. The returned population always has the input size.
func Evolve(dnas []*genome.DNA, sc Scorer, rng *rand.Rand, cfg *config.Config) ([]*genome.DNA, Report, error) {
	scores, err := sc.ScorePopulation(dnas)
	if err != nil {
		return nil, Report{}, fmt.Errorf("scoring population: %w", err)
	}
	if len(scores) != len(dnas) {
		return nil, Report{}, fmt.Errorf("evolution: scorer returned %d scores for %d genomes", len(scores), len(dnas))
	}

	order := make([]int, len(dnas))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	retain := int(math.Round(cfg.Population.RetainRatio * float64(len(dnas))))
	if retain < 2 {
		retain = 2
	}
	if retain > len(dnas) {
		retain = len(dnas)
	}

	next := make([]*genome.DNA, 0, len(dnas))
	for _, k := range order[:retain] {
		next = append(next, dnas[k])
	}
	for len(next) < len(dnas) {
		p1 := next[rng.Intn(retain)]
		p2 := next[rng.Intn(retain)]
		child := Reproduce(p1, p2, rng, cfg)
		if rng.Float64() < cfg.Population.MutationRate {
			child = Mutate(child, rng, cfg)
		}
		next = append(next, child)
	}

	rep := Report{
		Scores:    scores,
		Best:      dnas[order[0]],
		BestScore: scores[order[0]],
		Retained:  retain,
	}
	return next, rep, nil
}
