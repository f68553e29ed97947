// Package sim provides the environment and fitness evaluation: terrain
// generation, physics space orchestration, and population scoring.
package sim

import (
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/pthm-cable/vroomon/config"
)

// Ground is a static terrain of connected surface segments. Heights follow a
// random walk whose variation grows with distance, so terrain gets rougher
// the further a car travels.
type Ground struct {
	Points []cp.Vector

	cfg config.GroundConfig
}

// NewGround generates terrain from the configured random walk.
func NewGround(rng *rand.Rand, cfg config.GroundConfig) *Ground {
	points := make([]cp.Vector, cfg.Points)
	height := cfg.StartHeight
	for i := range points {
		height += rng.NormFloat64() * (1 + float64(i))
		points[i] = cp.Vector{X: float64(i) * cfg.Spacing, Y: height}
	}
	return &Ground{Points: points, cfg: cfg}
}

// AddToSpace attaches the terrain segments to the space's static body.
// Fresh shapes are created per call, so the same ground can serve any number
// of spaces.
func (g *Ground) AddToSpace(space *cp.Space) {
	static := space.StaticBody
	for i := 0; i < len(g.Points)-1; i++ {
		seg := cp.NewSegment(static, g.Points[i], g.Points[i+1], g.cfg.Thickness)
		seg.SetFriction(g.cfg.Friction)
		space.AddShape(seg)
	}
}
