package config

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stepsim/internal/history"
	"github.com/san-kum/stepsim/internal/motor"
	"github.com/san-kum/stepsim/internal/sim"
)

const (
	DefaultSpeed      = sim.DefaultSpeed
	DefaultResolution = "full"
	DefaultDirection  = "forward"
	DefaultHistory    = history.DefaultCapacity
	DefaultTick       = sim.DefaultTick
	DefaultDrainEvery = sim.DefaultDrainEvery
	DefaultLogLevel   = "info"
	DefaultTheme      = "teal"
)

type Config struct {
	Motor   MotorConfig   `yaml:"motor"`
	Loop    LoopConfig    `yaml:"loop"`
	Logging LoggingConfig `yaml:"logging"`
	Theme   string        `yaml:"theme"`
}

type MotorConfig struct {
	Speed        int    `yaml:"speed"`
	Resolution   string `yaml:"resolution"`
	Direction    string `yaml:"direction"`
	HaltAtTarget bool   `yaml:"halt_at_target"`
}

type LoopConfig struct {
	History    int           `yaml:"history"`
	Tick       time.Duration `yaml:"tick"`
	DrainEvery time.Duration `yaml:"drain_every"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Motor: MotorConfig{
			Speed:      DefaultSpeed,
			Resolution: DefaultResolution,
			Direction:  DefaultDirection,
		},
		Loop: LoopConfig{
			History:    DefaultHistory,
			Tick:       DefaultTick,
			DrainEvery: DefaultDrainEvery,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel},
		Theme:   DefaultTheme,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Encode writes cfg as YAML to w.
func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Sim converts the file representation into simulator settings, collecting
// every parse failure. The error wraps motor.ErrConfiguration.
func (c *Config) Sim() (sim.Config, error) {
	var errs error
	res, err := motor.ParseResolution(c.Motor.Resolution)
	errs = multierr.Append(errs, err)
	dir, err := motor.ParseDirection(c.Motor.Direction)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return sim.Config{}, errors.Wrap(motor.ErrConfiguration, errs.Error())
	}

	out := sim.Config{
		Speed:           c.Motor.Speed,
		Resolution:      res,
		Direction:       dir,
		HistoryCapacity: c.Loop.History,
		Tick:            c.Loop.Tick,
		DrainEvery:      c.Loop.DrainEvery,
		HaltAtTarget:    c.Motor.HaltAtTarget,
	}
	if err := out.Validate(); err != nil {
		return sim.Config{}, err
	}
	return out, nil
}
