package car

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/vroomon/config"
	"github.com/pthm-cable/vroomon/genome"
)

// FramePart is the closed set of frame variants: Rectangle, Wheel.
type FramePart interface {
	// Gene serializes the part back to its DNA form.
	Gene() genome.FrameGene

	framePart()
}

// Validation bounds shared by frame dimensions.
const (
	maxDimension = 50.0

	// PowerEpsilon is the tolerance below which wheel power counts as zero
	// and the motor is disabled entirely.
	PowerEpsilon = 0.001

	maxWheelPower  = 10000.0
	maxWheelTorque = 50000.0
	minWheelTorque = 0.1
	maxMotorRate   = 1000.0
)

// validateDimension sanitizes a length/height/size value. Degenerate inputs
// are replaced rather than rejected, with a warning so silent corruption
// stays observable.
func validateDimension(v, def, small float64, name string) float64 {
	switch {
	case math.IsNaN(v):
		slog.Warn("nan dimension, using default", "dimension", name, "default", def)
		return def
	case math.IsInf(v, 0):
		slog.Warn("infinite dimension, using default", "dimension", name, "default", def)
		return def
	case v <= 0:
		slog.Warn("non-positive dimension, using minimum", "dimension", name, "value", v)
		return 1.0
	case v < small:
		slog.Warn("tiny dimension, using minimum", "dimension", name, "value", v)
		return 1.0
	case v > maxDimension:
		slog.Warn("oversize dimension, clamping", "dimension", name, "value", v)
		return maxDimension
	}
	return v
}

// validatePower sanitizes wheel power.
func validatePower(v float64) float64 {
	switch {
	case math.IsNaN(v):
		slog.Warn("nan wheel power, using zero")
		return 0.0
	case math.IsInf(v, 1):
		slog.Warn("infinite wheel power, clamping", "value", 1000.0)
		return 1000.0
	case math.IsInf(v, -1):
		slog.Warn("infinite wheel power, clamping", "value", -1000.0)
		return -1000.0
	case v > maxWheelPower:
		slog.Warn("excessive wheel power, clamping", "value", v)
		return maxWheelPower
	case v < -maxWheelPower:
		slog.Warn("excessive wheel power, clamping", "value", v)
		return -maxWheelPower
	}
	return v
}

// validateTorque sanitizes wheel torque. Torque is never zero or negative:
// the motor force it feeds must stay meaningful for driven wheels.
func validateTorque(v float64) float64 {
	switch {
	case math.IsNaN(v):
		slog.Warn("nan wheel torque, using minimum")
		return minWheelTorque
	case math.IsInf(v, 0):
		slog.Warn("infinite wheel torque, clamping", "value", 1000.0)
		return 1000.0
	case v <= 0:
		slog.Warn("non-positive wheel torque, using minimum", "value", v)
		return minWheelTorque
	case v > maxWheelTorque:
		slog.Warn("excessive wheel torque, clamping", "value", v)
		return maxWheelTorque
	}
	return v
}

// validateMotorRate sanitizes the computed motor rate.
func validateMotorRate(v float64) float64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		slog.Warn("degenerate motor rate, disabling", "value", v)
		return 0
	case v > maxMotorRate:
		return maxMotorRate
	case v < -maxMotorRate:
		return -maxMotorRate
	}
	return v
}

// Color is a cosmetic RGBA tint carried by rectangles.
type Color struct {
	R, G, B, A uint8
}

func randomColor(rng *rand.Rand) Color {
	return Color{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: 255, A: 200}
}

// Rectangle is a structural, massed frame part. It occupies an offset on the
// shared chassis body rather than owning a sub-body.
type Rectangle struct {
	Length float64
	Height float64
	Color  Color
}

func (Rectangle) framePart() {}

// NewRectangle validates the given dimensions.
func NewRectangle(length, height float64, rng *rand.Rand, cfg config.RectangleConfig) Rectangle {
	return Rectangle{
		Length: validateDimension(length, cfg.LengthMu, 0.5, "length"),
		Height: validateDimension(height, cfg.HeightMu, 0.5, "height"),
		Color:  randomColor(rng),
	}
}

// RandomRectangle draws both dimensions from the configured distributions.
func RandomRectangle(rng *rand.Rand, cfg config.RectangleConfig) Rectangle {
	return NewRectangle(
		normal(rng, cfg.LengthMu, cfg.LengthSigma),
		normal(rng, cfg.HeightMu, cfg.HeightSigma),
		rng, cfg,
	)
}

// Mutate re-draws the dimensions and recolors the part.
func (r *Rectangle) Mutate(rng *rand.Rand, cfg config.RectangleConfig) {
	r.Length = validateDimension(normal(rng, cfg.LengthMu, cfg.LengthSigma), cfg.LengthMu, 0.5, "length")
	r.Height = validateDimension(normal(rng, cfg.HeightMu, cfg.HeightSigma), cfg.HeightMu, 0.5, "height")
	r.Color = randomColor(rng)
}

// Gene serializes the rectangle.
func (r Rectangle) Gene() genome.FrameGene {
	return genome.RectangleGene(r.Length, r.Height)
}

// Wheel is a driven circular frame part. It owns a sub-body attached to the
// chassis by a pivot joint and drives through one motor.
type Wheel struct {
	Power  float64
	Torque float64
	Size   float64
}

func (Wheel) framePart() {}

// wheelSizeDefault replaces NaN/Inf wheel sizes.
const wheelSizeDefault = 5.0

// NewWheel validates all three parameters.
func NewWheel(power, torque, size float64) Wheel {
	return Wheel{
		Power:  validatePower(power),
		Torque: validateTorque(torque),
		Size:   validateDimension(size, wheelSizeDefault, 0.1, "size"),
	}
}

// RandomWheel draws a size from the configured distribution and validates the
// propagated power and torque.
func RandomWheel(rng *rand.Rand, cfg config.WheelConfig, power, torque float64) Wheel {
	size := math.Abs(normal(rng, cfg.SizeMu, cfg.SizeSigma))
	return NewWheel(power, torque, size)
}

// Mutate re-draws the wheel size.
func (w *Wheel) Mutate(rng *rand.Rand, cfg config.WheelConfig) {
	w.Size = validateDimension(math.Abs(normal(rng, cfg.SizeMu, cfg.SizeSigma)), wheelSizeDefault, 0.1, "size")
}

// Driven reports whether the wheel's motor is enabled. Wheels with power
// within PowerEpsilon of zero get no drive at all: a motor with zero rate
// but nonzero force destabilizes the physics substrate.
func (w Wheel) Driven() bool {
	return math.Abs(w.Power) >= PowerEpsilon
}

// MotorRate returns the sanitized motor rate for a driven wheel.
func (w Wheel) MotorRate() float64 {
	if !w.Driven() {
		return 0
	}
	return validateMotorRate(-w.Power / w.Size)
}

// MotorForce returns the motor's driving force budget: the validated torque
// for driven wheels, exactly zero otherwise.
func (w Wheel) MotorForce() float64 {
	if !w.Driven() {
		return 0
	}
	return w.Torque
}

// Gene serializes the wheel.
func (w Wheel) Gene() genome.FrameGene {
	return genome.WheelGene(w.Power, w.Torque, w.Size)
}
