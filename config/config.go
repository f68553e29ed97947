// Package config provides configuration loading and access for the engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Car        CarConfig        `yaml:"car"`
	Parts      PartsConfig      `yaml:"parts"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Crossover  CrossoverConfig  `yaml:"crossover"`
	Population PopulationConfig `yaml:"population"`
	Ground     GroundConfig     `yaml:"ground"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// PhysicsConfig holds physics space parameters.
type PhysicsConfig struct {
	GravityX float64 `yaml:"gravity_x"`
	GravityY float64 `yaml:"gravity_y"`
	DT       float64 `yaml:"dt"`
}

// CarConfig holds phenotype construction parameters.
type CarConfig struct {
	FrameOffset float64 `yaml:"frame_offset"` // X spacing between frame slots
	StartX      float64 `yaml:"start_x"`      // Chassis spawn position
	StartY      float64 `yaml:"start_y"`
}

// PartsConfig holds random-generation distribution parameters for every part.
type PartsConfig struct {
	Cylinder   CylinderConfig   `yaml:"cylinder"`
	DriveShaft DriveShaftConfig `yaml:"driveshaft"`
	GearSet    GearSetConfig    `yaml:"gearset"`
	Rectangle  RectangleConfig  `yaml:"rectangle"`
	Wheel      WheelConfig      `yaml:"wheel"`
}

// CylinderConfig holds the cylinder power distribution.
type CylinderConfig struct {
	PowerMu    float64 `yaml:"power_mu"`
	PowerSigma float64 `yaml:"power_sigma"`
}

// DriveShaftConfig holds the drive shaft efficiency distribution.
type DriveShaftConfig struct {
	EfficiencyMu    float64 `yaml:"efficiency_mu"`
	EfficiencySigma float64 `yaml:"efficiency_sigma"`
}

// GearSetConfig holds the gear set ratio distributions.
type GearSetConfig struct {
	InputMu     float64 `yaml:"input_mu"`
	InputSigma  float64 `yaml:"input_sigma"`
	WheelMu     float64 `yaml:"wheel_mu"`
	WheelSigma  float64 `yaml:"wheel_sigma"`
	OutputMu    float64 `yaml:"output_mu"`
	OutputSigma float64 `yaml:"output_sigma"`
}

// RectangleConfig holds the rectangle dimension distributions.
type RectangleConfig struct {
	LengthMu    float64 `yaml:"length_mu"`
	LengthSigma float64 `yaml:"length_sigma"`
	HeightMu    float64 `yaml:"height_mu"`
	HeightSigma float64 `yaml:"height_sigma"`
}

// WheelConfig holds the wheel size distribution.
type WheelConfig struct {
	SizeMu    float64 `yaml:"size_mu"`
	SizeSigma float64 `yaml:"size_sigma"`
	Friction  float64 `yaml:"friction"`
}

// MutationConfig holds genome point-edit probabilities.
type MutationConfig struct {
	ReplaceP float64 `yaml:"replace_p"`
	RemoveP  float64 `yaml:"remove_p"`
	InsertP  float64 `yaml:"insert_p"`
}

// CrossoverConfig holds reproduction parameters.
type CrossoverConfig struct {
	SequenceLength int     `yaml:"sequence_length"` // Window of consecutive slots copied from the donor
	SwapChance     float64 `yaml:"swap_chance"`
}

// PopulationConfig holds evolution loop parameters.
type PopulationConfig struct {
	Size         int     `yaml:"size"`
	DNALength    int     `yaml:"dna_length"`
	Generations  int     `yaml:"generations"`
	RetainRatio  float64 `yaml:"retain_ratio"`
	MutationRate float64 `yaml:"mutation_rate"`
}

// GroundConfig holds terrain generation parameters.
type GroundConfig struct {
	Points      int     `yaml:"points"`
	Spacing     float64 `yaml:"spacing"`
	StartHeight float64 `yaml:"start_height"`
	Thickness   float64 `yaml:"thickness"`
	Friction    float64 `yaml:"friction"`
}

// SimulationConfig holds fitness evaluation parameters.
type SimulationConfig struct {
	Steps    int  `yaml:"steps"`    // Outer step iterations per evaluation
	Substeps int  `yaml:"substeps"` // Space steps per iteration
	Parallel bool `yaml:"parallel"` // Per-car spaces on a worker pool instead of one shared space
	Workers  int  `yaml:"workers"`  // 0 = NumCPU
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Default returns a config built from the embedded defaults only.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
