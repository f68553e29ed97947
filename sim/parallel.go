package sim

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/pthm-cable/vroomon/car"
	"github.com/pthm-cable/vroomon/genome"
)

type scoreTask struct {
	index int
	dna   *genome.DNA
}

type scoreResult struct {
	index int
	score float64
	err   error
}

// scoreParallel evaluates each genome in its own space on a worker pool.
// Workers get independent deterministic rngs seeded from the simulation rng,
// so a run with a fixed seed stays reproducible regardless of scheduling.
func (s *Simulation) scoreParallel(dnas []*genome.DNA) ([]float64, error) {
	workers := s.cfg.Simulation.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(dnas) {
		workers = len(dnas)
	}

	tasks := make(chan scoreTask, len(dnas))
	results := make(chan scoreResult, len(dnas))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		rng := rand.New(rand.NewSource(s.rng.Int63()))
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()
			for task := range tasks {
				c, err := car.New(task.dna, rng, s.cfg)
				if err != nil {
					results <- scoreResult{index: task.index, err: err}
					continue
				}
				results <- scoreResult{index: task.index, score: s.ScoreCar(c)}
			}
		}(rng)
	}

	for i, d := range dnas {
		tasks <- scoreTask{index: i, dna: d}
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	scores := make([]float64, len(dnas))
	for res := range results {
		if res.err != nil {
			return nil, fmt.Errorf("building car %d: %w", res.index, res.err)
		}
		scores[res.index] = res.score
	}
	return scores, nil
}
