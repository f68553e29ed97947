package car

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/vroomon/config"
)

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"nan uses default", math.NaN(), 10},
		{"positive inf uses default", math.Inf(1), 10},
		{"negative inf uses default", math.Inf(-1), 10},
		{"zero uses minimum", 0, 1},
		{"negative uses minimum", -5, 1},
		{"below threshold uses minimum", 0.3, 1},
		{"oversize clamps", 120, 50},
		{"in range passes through", 12.5, 12.5},
		{"max passes through", 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateDimension(tt.v, 10, 0.5, "length"); got != tt.want {
				t.Errorf("validateDimension(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestValidatePower(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"nan becomes zero", math.NaN(), 0},
		{"positive inf clamps", math.Inf(1), 1000},
		{"negative inf clamps", math.Inf(-1), -1000},
		{"excessive clamps", 20000, 10000},
		{"excessive negative clamps", -20000, -10000},
		{"negative passes through", -50, -50},
		{"in range passes through", 123.4, 123.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validatePower(tt.v); got != tt.want {
				t.Errorf("validatePower(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestValidateTorque(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"nan uses minimum", math.NaN(), 0.1},
		{"inf clamps", math.Inf(1), 1000},
		{"zero uses minimum", 0, 0.1},
		{"negative uses minimum", -500, 0.1},
		{"excessive clamps", 80000, 50000},
		{"in range passes through", 4000, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateTorque(tt.v); got != tt.want {
				t.Errorf("validateTorque(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestValidateMotorRate(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"nan disables", math.NaN(), 0},
		{"inf disables", math.Inf(1), 0},
		{"excessive clamps", 5000, 1000},
		{"excessive negative clamps", -5000, -1000},
		{"in range passes through", -42, -42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateMotorRate(tt.v); got != tt.want {
				t.Errorf("validateMotorRate(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestWheelMotor(t *testing.T) {
	tests := []struct {
		name      string
		wheel     Wheel
		driven    bool
		wantRate  float64
		wantForce float64
	}{
		{
			"driven wheel",
			NewWheel(50, 5000, 10),
			true, -5, 5000,
		},
		{
			"reverse wheel",
			NewWheel(-100, 5000, 10),
			true, 10, 5000,
		},
		{
			"zero power disables motor entirely",
			NewWheel(0, 5000, 10),
			false, 0, 0,
		},
		{
			"sub-epsilon power disables motor entirely",
			NewWheel(0.0005, 5000, 10),
			false, 0, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.wheel.Driven(); got != tt.driven {
				t.Errorf("Driven() = %v, want %v", got, tt.driven)
			}
			if got := tt.wheel.MotorRate(); got != tt.wantRate {
				t.Errorf("MotorRate() = %v, want %v", got, tt.wantRate)
			}
			if got := tt.wheel.MotorForce(); got != tt.wantForce {
				t.Errorf("MotorForce() = %v, want %v", got, tt.wantForce)
			}
		})
	}
}

func TestNewWheelSanitizes(t *testing.T) {
	w := NewWheel(math.NaN(), -1, math.Inf(1))
	if w.Power != 0 {
		t.Errorf("Power = %v, want 0", w.Power)
	}
	if w.Torque != minWheelTorque {
		t.Errorf("Torque = %v, want %v", w.Torque, minWheelTorque)
	}
	if w.Size != wheelSizeDefault {
		t.Errorf("Size = %v, want %v", w.Size, wheelSizeDefault)
	}
}

func TestRandomPartsWithinBounds(t *testing.T) {
	cfg := config.Default()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		r := RandomRectangle(rng, cfg.Parts.Rectangle)
		if r.Length < 0.5 || r.Length > maxDimension {
			t.Fatalf("rectangle length %v out of bounds", r.Length)
		}
		if r.Height < 0.5 || r.Height > maxDimension {
			t.Fatalf("rectangle height %v out of bounds", r.Height)
		}

		w := RandomWheel(rng, cfg.Parts.Wheel, 50, 5000)
		if w.Size < 0.1 || w.Size > maxDimension {
			t.Fatalf("wheel size %v out of bounds", w.Size)
		}
	}
}

func TestPartGeneRoundTrip(t *testing.T) {
	r := Rectangle{Length: 12, Height: 4}
	rg := r.Gene()
	if *rg.Length != 12 || *rg.Height != 4 {
		t.Errorf("rectangle gene = %+v", rg)
	}

	w := Wheel{Power: 50, Torque: 5000, Size: 8}
	wg := w.Gene()
	if *wg.Power != 50 || *wg.Torque != 5000 || *wg.Size != 8 {
		t.Errorf("wheel gene = %+v", wg)
	}

	g := GearSet{InputRatio: 2, WheelProportion: 0.5, OutputRatio: 3}
	gg := g.Gene()
	if *gg.InputRatio != 2 || *gg.WheelProportion != 0.5 || *gg.OutputRatio != 3 {
		t.Errorf("gearset gene = %+v", gg)
	}
}
