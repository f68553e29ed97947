package sim

import (
	"fmt"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/pthm-cable/vroomon/car"
	"github.com/pthm-cable/vroomon/config"
	"github.com/pthm-cable/vroomon/genome"
)

// Simulation scores phenotypes by running them on its ground for a fixed
// number of physics steps. It implements the population Scorer contract.
type Simulation struct {
	cfg    *config.Config
	rng    *rand.Rand
	ground *Ground
}

// New creates a simulation bound to its environment.
func New(cfg *config.Config, rng *rand.Rand, ground *Ground) *Simulation {
	return &Simulation{cfg: cfg, rng: rng, ground: ground}
}

func (s *Simulation) newSpace() *cp.Space {
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: s.cfg.Physics.GravityX, Y: s.cfg.Physics.GravityY})
	return space
}

func (s *Simulation) run(space *cp.Space) {
	for i := 0; i < s.cfg.Simulation.Steps; i++ {
		for j := 0; j < s.cfg.Simulation.Substeps; j++ {
			space.Step(s.cfg.Physics.DT)
		}
	}
}

// ScoreCar simulates a single car and returns the vertical position of its
// lead frame body. The car's handles are consumed by the space; reset before
// reusing the car elsewhere.
func (s *Simulation) ScoreCar(c *car.Car) float64 {
	space := s.newSpace()
	s.ground.AddToSpace(space)
	c.AddToSpace(space)
	s.run(space)
	return c.YPosition()
}

// ScorePopulation builds a phenotype for each genome, scores them all, and
// returns one fitness per genome in input order. Phenotypes are evaluation
// artifacts; only the DNA survives the call.
func (s *Simulation) ScorePopulation(dnas []*genome.DNA) ([]float64, error) {
	if len(dnas) == 0 {
		return nil, nil
	}
	if s.cfg.Simulation.Parallel {
		return s.scoreParallel(dnas)
	}
	return s.scoreShared(dnas)
}

// scoreShared runs the whole batch in one space. Cars share a collision
// group, so they pass through each other and only interact with the ground.
func (s *Simulation) scoreShared(dnas []*genome.DNA) ([]float64, error) {
	space := s.newSpace()
	s.ground.AddToSpace(space)

	cars := make([]*car.Car, len(dnas))
	for i, d := range dnas {
		c, err := car.New(d, s.rng, s.cfg)
		if err != nil {
			return nil, fmt.Errorf("building car %d: %w", i, err)
		}
		cars[i] = c
		c.AddToSpace(space)
	}

	s.run(space)

	scores := make([]float64, len(cars))
	for i, c := range cars {
		scores[i] = c.YPosition()
	}
	return scores, nil
}
