package car

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pthm-cable/vroomon/config"
	"github.com/pthm-cable/vroomon/genome"
)

func mustParse(t *testing.T, data string) *genome.DNA {
	t.Helper()
	d, err := genome.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parsing dna: %v", err)
	}
	return d
}

func TestNewFromLegacyDNA(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))
	d := mustParse(t, `{"frame": ["R", "W", "R", "W"], "powertrain": ["C", "G", "D", "G"]}`)

	c, err := New(d, rng, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if len(c.Frame()) != 4 || len(c.Powertrain()) != 4 {
		t.Fatalf("part counts = %d, %d; want 4, 4", len(c.Frame()), len(c.Powertrain()))
	}
	if _, ok := c.Frame()[0].(Rectangle); !ok {
		t.Errorf("frame slot 0 = %T, want Rectangle", c.Frame()[0])
	}
	if _, ok := c.Frame()[1].(Wheel); !ok {
		t.Errorf("frame slot 1 = %T, want Wheel", c.Frame()[1])
	}
	if _, ok := c.Powertrain()[0].(Cylinder); !ok {
		t.Errorf("powertrain slot 0 = %T, want Cylinder", c.Powertrain()[0])
	}
	if len(c.Motors()) != 2 {
		t.Errorf("motor count = %d, want 2 (one per wheel)", len(c.Motors()))
	}
	if c.Chassis() == nil {
		t.Error("chassis handle not set")
	}
}

func TestNewFromParameterizedDNA(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))
	d := mustParse(t, `{
		"frame": [
			{"type": "R", "length": 12.0, "height": 4.0},
			{"type": "W", "power": 60.0, "torque": 4000.0, "size": 7.0}
		],
		"powertrain": [
			{"type": "C", "power": 120.0},
			{"type": "D", "efficiency": 0.5}
		]
	}`)

	c, err := New(d, rng, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	r := c.Frame()[0].(Rectangle)
	if r.Length != 12.0 || r.Height != 4.0 {
		t.Errorf("rectangle = %+v, want 12x4", r)
	}
	w := c.Frame()[1].(Wheel)
	if w.Power != 60.0 || w.Torque != 4000.0 || w.Size != 7.0 {
		t.Errorf("wheel = %+v", w)
	}
	cyl := c.Powertrain()[0].(Cylinder)
	if cyl.Power != 120.0 {
		t.Errorf("cylinder power = %v, want 120", cyl.Power)
	}
	ds := c.Powertrain()[1].(DriveShaft)
	if ds.Efficiency != 0.5 {
		t.Errorf("drive shaft efficiency = %v, want 0.5", ds.Efficiency)
	}
}

func TestNewStructuralErrors(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name    string
		dna     *genome.DNA
		wantErr error
	}{
		{
			"empty frame",
			&genome.DNA{Powertrain: []genome.PowertrainGene{{Type: "C"}}},
			genome.ErrEmptyGenome,
		},
		{
			"mismatched lengths",
			&genome.DNA{
				Frame:      []genome.FrameGene{{Type: "R"}, {Type: "W"}},
				Powertrain: []genome.PowertrainGene{{Type: "C"}},
			},
			genome.ErrLengthMismatch,
		},
		{
			"unknown frame tag",
			&genome.DNA{
				Frame:      []genome.FrameGene{{Type: "Q"}},
				Powertrain: []genome.PowertrainGene{{Type: "C"}},
			},
			genome.ErrUnknownTag,
		},
		{
			"unknown powertrain tag",
			&genome.DNA{
				Frame:      []genome.FrameGene{{Type: "R"}},
				Powertrain: []genome.PowertrainGene{{Type: "Q"}},
			},
			genome.ErrUnknownTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.dna, rand.New(rand.NewSource(1)), cfg); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllWheelChassisFixup(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))
	d := mustParse(t, `{"frame": ["W", "W"], "powertrain": ["C", "C"]}`)

	c, err := New(d, rng, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := c.Chassis().Mass(); got != defaultChassisMass {
		t.Errorf("chassis mass = %v, want %v", got, defaultChassisMass)
	}
	if got := c.Chassis().Moment(); got != defaultChassisMoment {
		t.Errorf("chassis moment = %v, want %v", got, defaultChassisMoment)
	}
}

func TestDNARoundTrip(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))
	d := mustParse(t, `{"frame": ["R", "W", "R"], "powertrain": ["C", "G", "D"]}`)

	c, err := New(d, rng, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out := c.DNA()
	if out.Len() != d.Len() {
		t.Fatalf("round-trip length = %d, want %d", out.Len(), d.Len())
	}
	for i := range out.Frame {
		if out.Frame[i].Type != d.Frame[i].Type {
			t.Errorf("frame slot %d: %q != %q", i, out.Frame[i].Type, d.Frame[i].Type)
		}
		if !out.Frame[i].HasParams() {
			t.Errorf("frame slot %d: serialized gene missing params", i)
		}
	}
	for i := range out.Powertrain {
		if out.Powertrain[i].Type != d.Powertrain[i].Type {
			t.Errorf("powertrain slot %d: %q != %q", i, out.Powertrain[i].Type, d.Powertrain[i].Type)
		}
	}

	// Rebuilding from the serialized genome reproduces the part values exactly.
	c2, err := New(out, rand.New(rand.NewSource(7)), cfg)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	w1 := c.Frame()[1].(Wheel)
	w2 := c2.Frame()[1].(Wheel)
	if w1 != w2 {
		t.Errorf("rebuilt wheel = %+v, want %+v", w2, w1)
	}
}

func TestResetPhysics(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))
	d := mustParse(t, `{"frame": ["R", "W"], "powertrain": ["C", "G"]}`)

	c, err := New(d, rng, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	oldChassis := c.Chassis()
	oldWheel := c.Frame()[1].(Wheel)

	c.ResetPhysics()

	if c.Chassis() == oldChassis {
		t.Error("ResetPhysics kept the old chassis handle")
	}
	if got := c.Frame()[1].(Wheel); got != oldWheel {
		t.Errorf("ResetPhysics changed part records: %+v != %+v", got, oldWheel)
	}
	if len(c.Motors()) != 1 {
		t.Errorf("motor count after reset = %d, want 1", len(c.Motors()))
	}
}

func TestYPositionStartsAtConfiguredHeight(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))
	d := mustParse(t, `{"frame": ["R"], "powertrain": ["C"]}`)

	c, err := New(d, rng, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := c.YPosition(); got != cfg.Car.StartY {
		t.Errorf("YPosition() = %v, want %v", got, cfg.Car.StartY)
	}
}
