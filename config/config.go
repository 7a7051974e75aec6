// Package config provides configuration loading and access for the trainer.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all training and simulation parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Population PopulationConfig `yaml:"population"`
	Neural     NeuralConfig     `yaml:"neural"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Bird       BirdConfig       `yaml:"bird"`
	Pipe       PipeConfig       `yaml:"pipe"`
	Reward     RewardConfig     `yaml:"reward"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	HallOfFame HallOfFameConfig `yaml:"hall_of_fame"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
// Width also sets the pipe scroll rate: pipes move Physics.Speed pixels per tick.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PopulationConfig holds generation sizing.
type PopulationConfig struct {
	Size     int `yaml:"size"`
	Elites   int `yaml:"elites"`
	MaxTicks int `yaml:"max_ticks"` // Safety cap on ticks per generation
}

// NeuralConfig holds network topology and initialization.
type NeuralConfig struct {
	LayerSizes []int   `yaml:"layer_sizes"` // e.g. [2, 8, 8, 1]
	InitScale  float64 `yaml:"init_scale"`  // Root ancestor draws U[-1,1] * this
}

// EvolutionConfig holds evolution strategy parameters.
type EvolutionConfig struct {
	Eps             float64 `yaml:"eps"`              // Mutation magnitude
	Alpha           float64 `yaml:"alpha"`            // Blend rate
	DirectionalProb float64 `yaml:"directional_prob"` // Chance a clone uses directional noise
}

// PhysicsConfig holds the game dynamics.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	FlapStrength float64 `yaml:"flap_strength"`
	Speed        float64 `yaml:"speed"` // Horizontal scroll in pixels per tick
}

// BirdConfig holds bird geometry.
type BirdConfig struct {
	Radius float64 `yaml:"radius"`
	Offset float64 `yaml:"offset"` // Fixed horizontal position
	StartY float64 `yaml:"start_y"`
}

// PipeConfig holds obstacle geometry and spawning.
type PipeConfig struct {
	Width      float64 `yaml:"width"`
	Gap        float64 `yaml:"gap"`
	SpawnEvery float64 `yaml:"spawn_every"` // Pixels of scroll between spawns
	MinGapY    float64 `yaml:"min_gap_y"`
	GapSpan    float64 `yaml:"gap_span"`
}

// RewardConfig holds fitness shaping constants.
type RewardConfig struct {
	ProximityRef float64 `yaml:"proximity_ref"` // Distance at which proximity reward reaches 0
	Scale        float64 `yaml:"scale"`         // Score = frames + reward * scale
}

// TelemetryConfig holds per-generation output settings.
type TelemetryConfig struct {
	LogEvery        int `yaml:"log_every"`        // Log generation stats every N generations
	BookmarkHistory int `yaml:"bookmark_history"` // Generations of history for bookmark detection
}

// HallOfFameConfig holds best-model tracking settings.
type HallOfFameConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PipeSpeed   float64 // Physics.Speed / Screen.Width, in world units per tick
	SpawnPeriod int     // Pipe.SpawnEvery / Physics.Speed, in ticks
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

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
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

	cfg.ComputeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ComputeDerived recalculates values derived from the loaded config.
// Call it again after editing fields in code.
func (c *Config) ComputeDerived() {
	if c.Screen.Width > 0 {
		c.Derived.PipeSpeed = c.Physics.Speed / float64(c.Screen.Width)
	}
	if c.Physics.Speed > 0 {
		c.Derived.SpawnPeriod = int(c.Pipe.SpawnEvery / c.Physics.Speed)
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Neural.LayerSizes = append([]int(nil), c.Neural.LayerSizes...)
	return &clone
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
