// Package car builds evaluable car phenotypes from DNA: a frame of
// rectangles and wheels anchored to a shared chassis, a powertrain chain
// feeding the wheels, and the physics-engine graph (bodies, shapes, pivot
// joints, motors) that a simulation space consumes.
package car

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/pthm-cable/vroomon/config"
	"github.com/pthm-cable/vroomon/genome"
)

// Structural build errors.
var (
	ErrEmptyFrame      = errors.New("car: frame must have at least one part")
	ErrEmptyPowertrain = errors.New("car: powertrain must have at least one part")
	ErrPartMismatch    = errors.New("car: frame and powertrain must have the same number of parts")
)

// Fallback chassis inertia for cars whose chassis carries no massed shapes
// (an all-wheel frame). Zero mass and moment are physically degenerate.
const (
	defaultChassisMass   = 10.0
	defaultChassisMoment = 100.0
)

// collisionGroup keeps a car's own shapes from colliding with each other.
const collisionGroup = 1

// Car is the phenotype built from DNA. It exclusively owns its part records
// and every physics handle it creates. Part records survive a physics reset;
// engine handles do not.
type Car struct {
	cfg *config.Config

	frame      []FramePart
	powertrain []PowertrainPart

	chassis *cp.Body
	bodies  []*cp.Body // per slot: the chassis for rectangles, a sub-body for wheels
	shapes  []*cp.Shape
	joints  []*cp.Constraint
	motors  []*cp.Constraint
}

// New builds a car from DNA. Structural violations fail immediately; no
// partially-built phenotype is ever returned.
func New(d *genome.DNA, rng *rand.Rand, cfg *config.Config) (*Car, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	c := &Car{cfg: cfg}
	if err := c.buildPowertrain(d.Powertrain, rng); err != nil {
		return nil, err
	}
	if err := c.buildFrame(d.Frame, rng); err != nil {
		return nil, err
	}

	// Post-build invariants, enforced as hard failures.
	if len(c.frame) == 0 {
		return nil, ErrEmptyFrame
	}
	if len(c.powertrain) == 0 {
		return nil, ErrEmptyPowertrain
	}
	if len(c.frame) != len(c.powertrain) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrPartMismatch, len(c.frame), len(c.powertrain))
	}

	c.buildPhysics()
	return c, nil
}

func (c *Car) buildPowertrain(genes []genome.PowertrainGene, rng *rand.Rand) error {
	c.powertrain = make([]PowertrainPart, 0, len(genes))
	for i, g := range genes {
		part, err := PowertrainFromGene(g, rng, c.cfg.Parts)
		if err != nil {
			return fmt.Errorf("powertrain slot %d: %w", i, err)
		}
		c.powertrain = append(c.powertrain, part)
	}
	return nil
}

func (c *Car) buildFrame(genes []genome.FrameGene, rng *rand.Rand) error {
	c.frame = make([]FramePart, 0, len(genes))
	for i, g := range genes {
		switch g.Type {
		case genome.TagRectangle:
			var r Rectangle
			if g.HasParams() {
				r = NewRectangle(*g.Length, *g.Height, rng, c.cfg.Parts.Rectangle)
			} else {
				r = RandomRectangle(rng, c.cfg.Parts.Rectangle)
			}
			c.frame = append(c.frame, r)
		case genome.TagWheel:
			var w Wheel
			if g.HasParams() {
				w = NewWheel(*g.Power, *g.Torque, *g.Size)
			} else {
				power, torque, err := DrivePower(c.powertrain, i)
				if err != nil {
					return fmt.Errorf("frame slot %d: %w", i, err)
				}
				w = RandomWheel(rng, c.cfg.Parts.Wheel, power, torque)
			}
			c.frame = append(c.frame, w)
		default:
			return fmt.Errorf("%w: frame %q", genome.ErrUnknownTag, g.Type)
		}
	}
	return nil
}

// buildPhysics constructs fresh engine handles from the part records. It runs
// once at build time and again on every physics reset.
func (c *Car) buildPhysics() {
	n := len(c.frame)
	c.chassis = cp.NewBody(0, 0)
	c.chassis.SetPosition(cp.Vector{X: c.cfg.Car.StartX, Y: c.cfg.Car.StartY})
	c.bodies = make([]*cp.Body, 0, n)
	c.shapes = make([]*cp.Shape, 0, n)
	c.joints = c.joints[:0]
	c.motors = c.motors[:0]

	hasRect := false
	x := 0.0
	for _, part := range c.frame {
		switch p := part.(type) {
		case Rectangle:
			shape := offsetBox(c.chassis, p.Length, p.Height, x, 0)
			shape.SetDensity(1)
			shape.SetFilter(cp.NewShapeFilter(collisionGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
			c.bodies = append(c.bodies, c.chassis)
			c.shapes = append(c.shapes, shape)
			hasRect = true
		case Wheel:
			body, shape, pivot, motor := c.buildWheel(p, x)
			c.bodies = append(c.bodies, body)
			c.shapes = append(c.shapes, shape)
			c.joints = append(c.joints, pivot)
			c.motors = append(c.motors, motor)
		}
		x += c.cfg.Car.FrameOffset
	}

	if !hasRect {
		c.chassis.SetMass(defaultChassisMass)
		c.chassis.SetMoment(defaultChassisMoment)
	}
}

// buildWheel creates the wheel's sub-body, circle shape, pivot joint and
// motor. The motor is disabled entirely for zero-power wheels.
func (c *Car) buildWheel(w Wheel, x float64) (*cp.Body, *cp.Shape, *cp.Constraint, *cp.Constraint) {
	body := cp.NewBody(0, 0)
	body.SetPosition(cp.Vector{X: x, Y: c.cfg.Car.StartY})

	shape := cp.NewCircle(body, w.Size, cp.Vector{})
	shape.SetDensity(1)
	shape.SetFriction(c.cfg.Parts.Wheel.Friction)
	shape.SetFilter(cp.NewShapeFilter(collisionGroup, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))

	// Explicit mass and moment so the body is never degenerate before the
	// space recomputes them from shape density.
	mass := math.Pi * w.Size * w.Size
	body.SetMass(mass)
	body.SetMoment(cp.MomentForCircle(mass, 0, w.Size, cp.Vector{}))

	pivot := cp.NewPivotJoint2(c.chassis, body, cp.Vector{X: x, Y: 0}, cp.Vector{})
	pivot.SetCollideBodies(false)

	motor := cp.NewSimpleMotor(c.chassis, body, w.MotorRate())
	motor.SetMaxForce(w.MotorForce())

	return body, shape, pivot, motor
}

// offsetBox builds a box polygon centered at the given offset from the body
// origin.
func offsetBox(body *cp.Body, w, h, ox, oy float64) *cp.Shape {
	hw, hh := w/2, h/2
	verts := []cp.Vector{
		{X: -hw + ox, Y: -hh + oy},
		{X: hw + ox, Y: -hh + oy},
		{X: hw + ox, Y: hh + oy},
		{X: -hw + ox, Y: hh + oy},
	}
	return cp.NewPolyShapeRaw(body, len(verts), verts, 0)
}

// AddToSpace adds the car's bodies, shapes, joints and motors to a physics
// space. Handles are single-use per space; call ResetPhysics before adding
// the same car to another one.
func (c *Car) AddToSpace(space *cp.Space) {
	space.AddBody(c.chassis)
	for _, b := range c.bodies {
		if b != c.chassis {
			space.AddBody(b)
		}
	}
	for _, s := range c.shapes {
		space.AddShape(s)
	}
	for _, j := range c.joints {
		space.AddConstraint(j)
	}
	for _, m := range c.motors {
		space.AddConstraint(m)
	}
}

// ResetPhysics replaces every engine handle with a fresh one while keeping
// the logical part records intact, so the car can be reused in a new space.
func (c *Car) ResetPhysics() {
	c.buildPhysics()
}

// YPosition returns the vertical position of the lead frame body.
func (c *Car) YPosition() float64 {
	return c.bodies[0].Position().Y
}

// Frame returns the ordered frame part records.
func (c *Car) Frame() []FramePart { return c.frame }

// Powertrain returns the ordered powertrain part records.
func (c *Car) Powertrain() []PowertrainPart { return c.powertrain }

// Motors returns the wheel motor constraints, one per wheel.
func (c *Car) Motors() []*cp.Constraint { return c.motors }

// Chassis returns the shared chassis body handle.
func (c *Car) Chassis() *cp.Body { return c.chassis }

// DNA serializes the car's part records back to a current-format genome.
func (c *Car) DNA() *genome.DNA {
	d := &genome.DNA{
		Frame:      make([]genome.FrameGene, 0, len(c.frame)),
		Powertrain: make([]genome.PowertrainGene, 0, len(c.powertrain)),
	}
	for _, p := range c.frame {
		d.Frame = append(d.Frame, p.Gene())
	}
	for _, p := range c.powertrain {
		d.Powertrain = append(d.Powertrain, p.Gene())
	}
	return d
}
