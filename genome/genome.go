// Package genome defines the serializable DNA form of a car: two parallel,
// equal-length gene sequences describing the frame and the powertrain.
// DNA is the only representation that persists across generations; phenotypes
// are rebuilt from it on demand.
package genome

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
)

// Part type tags used in the DNA exchange format.
const (
	TagRectangle  = "R"
	TagWheel      = "W"
	TagCylinder   = "C"
	TagDriveShaft = "D"
	TagGearSet    = "G"
)

// FrameTags and PowertrainTags list the valid tags per sequence.
var (
	FrameTags      = []string{TagRectangle, TagWheel}
	PowertrainTags = []string{TagCylinder, TagDriveShaft, TagGearSet}
)

// Structural validation errors. Construction fails outright on these.
var (
	ErrEmptyGenome    = errors.New("genome: frame and powertrain must be non-empty")
	ErrLengthMismatch = errors.New("genome: frame and powertrain lengths differ")
	ErrUnknownTag     = errors.New("genome: unknown part type tag")
)

// FrameGene describes one frame slot. Legacy genes carry only the type tag
// and trigger random generation at build time; current-format genes carry
// explicit parameters.
type FrameGene struct {
	Type   string   `json:"type"`
	Length *float64 `json:"length,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Power  *float64 `json:"power,omitempty"`
	Torque *float64 `json:"torque,omitempty"`
	Size   *float64 `json:"size,omitempty"`
}

// PowertrainGene describes one powertrain slot.
type PowertrainGene struct {
	Type            string   `json:"type"`
	Power           *float64 `json:"power,omitempty"`
	Efficiency      *float64 `json:"efficiency,omitempty"`
	InputRatio      *float64 `json:"input_ratio,omitempty"`
	WheelProportion *float64 `json:"wheel_proportion,omitempty"`
	OutputRatio     *float64 `json:"output_ratio,omitempty"`
}

// HasParams reports whether the gene carries explicit parameters.
func (g FrameGene) HasParams() bool {
	switch g.Type {
	case TagRectangle:
		return g.Length != nil && g.Height != nil
	case TagWheel:
		return g.Power != nil && g.Torque != nil && g.Size != nil
	}
	return false
}

// HasParams reports whether the gene carries explicit parameters.
func (g PowertrainGene) HasParams() bool {
	switch g.Type {
	case TagCylinder:
		return g.Power != nil
	case TagDriveShaft:
		return g.Efficiency != nil
	case TagGearSet:
		return g.InputRatio != nil && g.WheelProportion != nil && g.OutputRatio != nil
	}
	return false
}

// UnmarshalJSON accepts either a legacy bare tag ("W") or a typed record.
func (g *FrameGene) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &g.Type)
	}
	type alias FrameGene
	return json.Unmarshal(data, (*alias)(g))
}

// UnmarshalJSON accepts either a legacy bare tag ("C") or a typed record.
func (g *PowertrainGene) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &g.Type)
	}
	type alias PowertrainGene
	return json.Unmarshal(data, (*alias)(g))
}

// DNA is the persisted description of a car. Position i in Frame and
// position i in Powertrain together describe the part at slot i.
type DNA struct {
	Frame      []FrameGene      `json:"frame"`
	Powertrain []PowertrainGene `json:"powertrain"`
}

// Len returns the number of slots.
func (d *DNA) Len() int { return len(d.Frame) }

// Validate enforces the structural invariants: both sequences non-empty, of
// equal length, and carrying only known tags.
func (d *DNA) Validate() error {
	if len(d.Frame) == 0 || len(d.Powertrain) == 0 {
		return ErrEmptyGenome
	}
	if len(d.Frame) != len(d.Powertrain) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(d.Frame), len(d.Powertrain))
	}
	for i, g := range d.Frame {
		if g.Type != TagRectangle && g.Type != TagWheel {
			return fmt.Errorf("%w: frame[%d] %q", ErrUnknownTag, i, g.Type)
		}
	}
	for i, g := range d.Powertrain {
		if g.Type != TagCylinder && g.Type != TagDriveShaft && g.Type != TagGearSet {
			return fmt.Errorf("%w: powertrain[%d] %q", ErrUnknownTag, i, g.Type)
		}
	}
	return nil
}

// Clone returns a deep copy of the gene; parameter pointers are never shared.
func (g FrameGene) Clone() FrameGene {
	return FrameGene{
		Type:   g.Type,
		Length: clonePtr(g.Length),
		Height: clonePtr(g.Height),
		Power:  clonePtr(g.Power),
		Torque: clonePtr(g.Torque),
		Size:   clonePtr(g.Size),
	}
}

// Clone returns a deep copy of the gene; parameter pointers are never shared.
func (g PowertrainGene) Clone() PowertrainGene {
	return PowertrainGene{
		Type:            g.Type,
		Power:           clonePtr(g.Power),
		Efficiency:      clonePtr(g.Efficiency),
		InputRatio:      clonePtr(g.InputRatio),
		WheelProportion: clonePtr(g.WheelProportion),
		OutputRatio:     clonePtr(g.OutputRatio),
	}
}

// Clone returns a deep copy.
func (d *DNA) Clone() *DNA {
	out := &DNA{
		Frame:      make([]FrameGene, len(d.Frame)),
		Powertrain: make([]PowertrainGene, len(d.Powertrain)),
	}
	for i, g := range d.Frame {
		out.Frame[i] = g.Clone()
	}
	for i, g := range d.Powertrain {
		out.Powertrain[i] = g.Clone()
	}
	return out
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Random generates a legacy-style genome of the given length: bare tags only,
// so every part is randomly generated at build time.
func Random(rng *rand.Rand, length int) *DNA {
	d := &DNA{
		Frame:      make([]FrameGene, length),
		Powertrain: make([]PowertrainGene, length),
	}
	for i := 0; i < length; i++ {
		d.Frame[i] = FrameGene{Type: FrameTags[rng.Intn(len(FrameTags))]}
		d.Powertrain[i] = PowertrainGene{Type: PowertrainTags[rng.Intn(len(PowertrainTags))]}
	}
	return d
}

// RandomPair generates one random (frame, powertrain) gene pair. Mutation
// uses this for replace and insert edits.
func RandomPair(rng *rand.Rand) (FrameGene, PowertrainGene) {
	return FrameGene{Type: FrameTags[rng.Intn(len(FrameTags))]},
		PowertrainGene{Type: PowertrainTags[rng.Intn(len(PowertrainTags))]}
}

// RectangleGene builds a current-format rectangle gene.
func RectangleGene(length, height float64) FrameGene {
	return FrameGene{Type: TagRectangle, Length: &length, Height: &height}
}

// WheelGene builds a current-format wheel gene.
func WheelGene(power, torque, size float64) FrameGene {
	return FrameGene{Type: TagWheel, Power: &power, Torque: &torque, Size: &size}
}

// CylinderGene builds a current-format cylinder gene.
func CylinderGene(power float64) PowertrainGene {
	return PowertrainGene{Type: TagCylinder, Power: &power}
}

// DriveShaftGene builds a current-format drive shaft gene.
func DriveShaftGene(efficiency float64) PowertrainGene {
	return PowertrainGene{Type: TagDriveShaft, Efficiency: &efficiency}
}

// GearSetGene builds a current-format gear set gene.
func GearSetGene(inputRatio, wheelProportion, outputRatio float64) PowertrainGene {
	return PowertrainGene{
		Type:            TagGearSet,
		InputRatio:      &inputRatio,
		WheelProportion: &wheelProportion,
		OutputRatio:     &outputRatio,
	}
}

// Parse decodes and validates a DNA document.
func Parse(data []byte) (*DNA, error) {
	d := &DNA{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("decoding dna: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Save writes the DNA to a JSON file in the current format.
func (d *DNA) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dna: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing dna file: %w", err)
	}
	return nil
}

// LoadFile reads and validates a DNA document from a JSON file.
func LoadFile(path string) (*DNA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dna file: %w", err)
	}
	return Parse(data)
}
