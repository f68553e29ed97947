package car

import (
	"errors"
	"fmt"
)

// TorqueSeed is the available torque budget a powertrain chain starts with.
// It is a dimensionless allocation pool, not a physical unit.
const TorqueSeed = 10000.0

// Propagation errors.
var (
	// ErrUnknownPart reports a powertrain entry outside the closed variant set.
	ErrUnknownPart = errors.New("car: unknown powertrain part")

	// ErrUnreachableWheel reports a wheel position the chain walk never
	// reached. The builder always passes an in-range slot index, so hitting
	// this means the caller asked for a wheel inconsistent with the chain.
	ErrUnreachableWheel = errors.New("car: wheel position not reached by powertrain chain")
)

// DrivePower walks the powertrain chain front-to-back and returns the power
// and torque delivered to the wheel at the given frame slot. A GearSet at the
// wheel's slot terminates the walk early, allocating its wheel proportion of
// the running totals; any other part type at the wheel's slot delivers the
// running totals as-is.
func DrivePower(chain []PowertrainPart, wheelPos int) (power, torque float64, err error) {
	if wheelPos < 0 || wheelPos >= len(chain) {
		return 0, 0, fmt.Errorf("%w: index %d, chain length %d", ErrUnreachableWheel, wheelPos, len(chain))
	}

	power = 0
	torque = TorqueSeed
	for i, part := range chain {
		switch p := part.(type) {
		case Cylinder:
			power += p.Power
		case DriveShaft:
			power *= p.Efficiency
			torque *= p.Efficiency
		case GearSet:
			power *= p.InputRatio
			torque /= p.InputRatio
			if i == wheelPos {
				// This gear set feeds the wheel directly.
				return power * p.WheelProportion, torque * p.WheelProportion, nil
			}
			// Subtract the share already allocated downstream, then gear out.
			power -= power * p.WheelProportion
			torque -= torque * p.WheelProportion
			power *= p.OutputRatio
			torque /= p.OutputRatio
		default:
			return 0, 0, fmt.Errorf("%w: %T at slot %d", ErrUnknownPart, part, i)
		}
		if i == wheelPos {
			return power, torque, nil
		}
	}

	// Unreachable given the bounds check above; kept as a hard failure rather
	// than silently returning stale totals.
	return 0, 0, fmt.Errorf("%w: index %d, chain length %d", ErrUnreachableWheel, wheelPos, len(chain))
}
