package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physbox/internal/session"
)

const (
	DefaultHz                 = 60.0
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3
	DefaultSteps              = 600
	DefaultDataDir            = ".physbox"
)

type Config struct {
	Session     SessionConfig     `yaml:"session" toml:"session"`
	Step        StepConfig        `yaml:"step" toml:"step"`
	Interaction InteractionConfig `yaml:"interaction" toml:"interaction"`
	Trails      TrailConfig       `yaml:"trails" toml:"trails"`
	Seed        int64             `yaml:"seed" toml:"seed"`
	Logging     LoggingConfig     `yaml:"logging" toml:"logging"`
	DataDir     string            `yaml:"data_dir" toml:"data_dir"`
}

type SessionConfig struct {
	Category string `yaml:"category" toml:"category"`
	Name     string `yaml:"name" toml:"name"`
}

type StepConfig struct {
	Hz                 float64 `yaml:"hz" toml:"hz"`
	VelocityIterations int     `yaml:"velocity_iterations" toml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations" toml:"position_iterations"`
	WarmStarting       bool    `yaml:"warm_starting" toml:"warm_starting"`
	Continuous         bool    `yaml:"continuous" toml:"continuous"`
	SubStepping        bool    `yaml:"sub_stepping" toml:"sub_stepping"`
	AllowSleeping      bool    `yaml:"allow_sleeping" toml:"allow_sleeping"`
	Steps              int     `yaml:"steps" toml:"steps"`
}

type InteractionConfig struct {
	DragForceScale   float64 `yaml:"drag_force_scale" toml:"drag_force_scale"`
	DragFrequency    float64 `yaml:"drag_frequency" toml:"drag_frequency"`
	DragDamping      float64 `yaml:"drag_damping" toml:"drag_damping"`
	BombScale        float64 `yaml:"bomb_scale" toml:"bomb_scale"`
	BombRadius       float64 `yaml:"bomb_radius" toml:"bomb_radius"`
	BombDensity      float64 `yaml:"bomb_density" toml:"bomb_density"`
	PauseOnRightDown bool    `yaml:"pause_on_right_down" toml:"pause_on_right_down"`
	RightMode        string  `yaml:"right_mode" toml:"right_mode"`
	ShowUnitNames    bool    `yaml:"show_unit_names" toml:"show_unit_names"`
}

type TrailConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
	Length  int  `yaml:"length" toml:"length"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "console" or "json"
}

func DefaultConfig() *Config {
	sc := session.DefaultConfig()
	return &Config{
		Session: SessionConfig{Category: "basic", Name: "bombard"},
		Step: StepConfig{
			Hz:                 DefaultHz,
			VelocityIterations: DefaultVelocityIterations,
			PositionIterations: DefaultPositionIterations,
			WarmStarting:       true,
			Continuous:         true,
			AllowSleeping:      true,
			Steps:              DefaultSteps,
		},
		Interaction: InteractionConfig{
			DragForceScale: sc.DragForceScale,
			DragFrequency:  sc.DragFrequency,
			DragDamping:    sc.DragDamping,
			BombScale:      sc.BombScale,
			BombRadius:     sc.BombRadius,
			BombDensity:    sc.BombDensity,
			RightMode:      sc.RightMode.String(),
		},
		Trails:  TrailConfig{Length: session.DefaultTrailLength},
		Seed:    sc.Seed,
		Logging: LoggingConfig{Level: "info", Format: "console"},
		DataDir: DefaultDataDir,
	}
}

// Load reads a YAML or TOML file on top of the defaults. The format follows
// the file extension; anything other than .toml is read as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Step.Hz < 0 {
		return fmt.Errorf("step.hz must not be negative, got %v", c.Step.Hz)
	}
	if c.Step.VelocityIterations < 1 || c.Step.PositionIterations < 1 {
		return fmt.Errorf("step iterations must be positive")
	}
	if c.Trails.Length < 1 {
		return fmt.Errorf("trails.length must be positive, got %d", c.Trails.Length)
	}
	if _, err := session.ParseRightMode(c.Interaction.RightMode); err != nil {
		return err
	}
	return nil
}

// ToSession maps the file onto a session configuration.
func (c *Config) ToSession() (session.Config, error) {
	mode, err := session.ParseRightMode(c.Interaction.RightMode)
	if err != nil {
		return session.Config{}, err
	}
	sc := session.DefaultConfig()
	sc.Title = c.Session.Name
	sc.TrailLength = c.Trails.Length
	sc.TrailsEnabled = c.Trails.Enabled
	sc.DragForceScale = c.Interaction.DragForceScale
	sc.DragFrequency = c.Interaction.DragFrequency
	sc.DragDamping = c.Interaction.DragDamping
	sc.BombScale = c.Interaction.BombScale
	sc.BombRadius = c.Interaction.BombRadius
	sc.BombDensity = c.Interaction.BombDensity
	sc.PauseOnRightDown = c.Interaction.PauseOnRightDown
	sc.RightMode = mode
	sc.ShowUnitNames = c.Interaction.ShowUnitNames
	sc.Seed = c.Seed
	return sc, nil
}

func (c *Config) ToSettings() session.Settings {
	return session.Settings{
		Hz:                 c.Step.Hz,
		VelocityIterations: c.Step.VelocityIterations,
		PositionIterations: c.Step.PositionIterations,
		WarmStarting:       c.Step.WarmStarting,
		Continuous:         c.Step.Continuous,
		SubStepping:        c.Step.SubStepping,
		AllowSleeping:      c.Step.AllowSleeping,
	}
}
