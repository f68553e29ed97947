package car

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/vroomon/config"
	"github.com/pthm-cable/vroomon/genome"
)

// PowertrainPart is the closed set of powertrain variants:
// Cylinder, DriveShaft, GearSet.
type PowertrainPart interface {
	// Gene serializes the part back to its DNA form.
	Gene() genome.PowertrainGene

	powertrainPart()
}

// Cylinder produces power.
type Cylinder struct {
	Power float64
}

// DriveShaft transfers power with losses.
type DriveShaft struct {
	Efficiency float64
}

// GearSet converts ratios and feeds a proportion of the running power and
// torque to the wheel at its slot. Ratios are floored at 0.1 so propagation
// never divides by zero or near-zero. WheelProportion is deliberately
// unclamped; values outside [0,1] amplify or invert the allocation.
type GearSet struct {
	InputRatio      float64
	WheelProportion float64
	OutputRatio     float64
}

func (Cylinder) powertrainPart()   {}
func (DriveShaft) powertrainPart() {}
func (GearSet) powertrainPart()    {}

// minGearRatio is the floor for gear input/output ratios.
const minGearRatio = 0.1

// NewGearSet builds a gear set with the ratio floors applied.
func NewGearSet(inputRatio, wheelProportion, outputRatio float64) GearSet {
	return GearSet{
		InputRatio:      max(inputRatio, minGearRatio),
		WheelProportion: wheelProportion,
		OutputRatio:     max(outputRatio, minGearRatio),
	}
}

// normal draws from N(mu, sigma).
func normal(rng *rand.Rand, mu, sigma float64) float64 {
	return mu + rng.NormFloat64()*sigma
}

// RandomCylinder draws power from the configured distribution.
func RandomCylinder(rng *rand.Rand, cfg config.CylinderConfig) Cylinder {
	return Cylinder{Power: normal(rng, cfg.PowerMu, cfg.PowerSigma)}
}

// RandomDriveShaft draws efficiency from the configured distribution.
func RandomDriveShaft(rng *rand.Rand, cfg config.DriveShaftConfig) DriveShaft {
	return DriveShaft{Efficiency: normal(rng, cfg.EfficiencyMu, cfg.EfficiencySigma)}
}

// RandomGearSet draws all three ratios independently.
func RandomGearSet(rng *rand.Rand, cfg config.GearSetConfig) GearSet {
	return NewGearSet(
		normal(rng, cfg.InputMu, cfg.InputSigma),
		normal(rng, cfg.WheelMu, cfg.WheelSigma),
		normal(rng, cfg.OutputMu, cfg.OutputSigma),
	)
}

// Gene serializes the cylinder.
func (c Cylinder) Gene() genome.PowertrainGene {
	return genome.CylinderGene(c.Power)
}

// Gene serializes the drive shaft.
func (d DriveShaft) Gene() genome.PowertrainGene {
	return genome.DriveShaftGene(d.Efficiency)
}

// Gene serializes the gear set.
func (g GearSet) Gene() genome.PowertrainGene {
	return genome.GearSetGene(g.InputRatio, g.WheelProportion, g.OutputRatio)
}

// PowertrainFromGene instantiates a part from its gene. Fully-specified genes
// reconstruct fields verbatim; bare-tag genes trigger random generation.
func PowertrainFromGene(g genome.PowertrainGene, rng *rand.Rand, parts config.PartsConfig) (PowertrainPart, error) {
	switch g.Type {
	case genome.TagCylinder:
		if g.HasParams() {
			return Cylinder{Power: *g.Power}, nil
		}
		return RandomCylinder(rng, parts.Cylinder), nil
	case genome.TagDriveShaft:
		if g.HasParams() {
			return DriveShaft{Efficiency: *g.Efficiency}, nil
		}
		return RandomDriveShaft(rng, parts.DriveShaft), nil
	case genome.TagGearSet:
		if g.HasParams() {
			return NewGearSet(*g.InputRatio, *g.WheelProportion, *g.OutputRatio), nil
		}
		return RandomGearSet(rng, parts.GearSet), nil
	default:
		return nil, fmt.Errorf("%w: powertrain %q", genome.ErrUnknownTag, g.Type)
	}
}
