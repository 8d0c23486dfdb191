// Package config loads and saves controller configuration: target and
// initial temperatures, plant parameters, output universe sampling, and
// the membership-function breakpoints for all three linguistic
// variables.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fuzzytherm/internal/fuzzy"
	"github.com/san-kum/fuzzytherm/internal/loop"
	"github.com/san-kum/fuzzytherm/internal/plant"
)

const (
	DefaultInitial     = 0.0
	DefaultSkew        = 2.0
	DefaultStepSize    = 3.0
	DefaultMaxOutput   = 100.0
	DefaultHistorySize = 50
	DefaultSamples     = 200
	DefaultUniverseMin = -100.0
	DefaultUniverseMax = 100.0
)

type Config struct {
	Target      float64          `yaml:"target"`
	Initial     float64          `yaml:"initial"`
	Skew        float64          `yaml:"skew"`
	StepSize    float64          `yaml:"step_size"`
	MaxOutput   float64          `yaml:"max_output"`
	HistorySize int              `yaml:"history"`
	Samples     int              `yaml:"samples"`
	Universe    UniverseConfig   `yaml:"universe"`
	Membership  MembershipConfig `yaml:"membership"`
}

type UniverseConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// MembershipConfig holds the breakpoint lists per linguistic variable.
// 3 points define a triangle, 4 a trapezoid.
type MembershipConfig struct {
	Error     TermPoints   `yaml:"error"`
	ErrorRate TermPoints   `yaml:"error_rate"`
	Output    OutputPoints `yaml:"output"`
}

type TermPoints struct {
	Negative []float64 `yaml:"negative"`
	Zero     []float64 `yaml:"zero"`
	Positive []float64 `yaml:"positive"`
}

type OutputPoints struct {
	Cooler   []float64 `yaml:"cooler"`
	NoChange []float64 `yaml:"no_change"`
	Heater   []float64 `yaml:"heater"`
}

func DefaultConfig() *Config {
	return &Config{
		Target:      25,
		Initial:     DefaultInitial,
		Skew:        DefaultSkew,
		StepSize:    DefaultStepSize,
		MaxOutput:   DefaultMaxOutput,
		HistorySize: DefaultHistorySize,
		Samples:     DefaultSamples,
		Universe: UniverseConfig{
			Min: DefaultUniverseMin,
			Max: DefaultUniverseMax,
		},
		Membership: MembershipConfig{
			Error: TermPoints{
				Negative: []float64{-1000, -999, -2, 0},
				Zero:     []float64{-2, 0, 2},
				Positive: []float64{0, 2, 999, 1000},
			},
			ErrorRate: TermPoints{
				Negative: []float64{-1000, -999, -5, 0},
				Zero:     []float64{-50, 0, 5},
				Positive: []float64{0, 5, 999, 1000},
			},
			Output: OutputPoints{
				Cooler:   []float64{-1000, -999, -50, 0},
				NoChange: []float64{-50, 0, 50},
				Heater:   []float64{0, 50, 999, 1000},
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// SkewDuration converts the skew rate from seconds to a step interval.
func (c *Config) SkewDuration() time.Duration {
	return time.Duration(c.Skew * float64(time.Second))
}

// BuildEngine constructs the three linguistic variables and the
// inference engine. Malformed breakpoint lists surface here, at
// configuration time.
func (c *Config) BuildEngine() (*fuzzy.Engine, error) {
	errVar := fuzzy.NewVariable("error")
	if err := defineTerms(errVar, c.Membership.Error); err != nil {
		return nil, err
	}

	rateVar := fuzzy.NewVariable("error_rate")
	if err := defineTerms(rateVar, c.Membership.ErrorRate); err != nil {
		return nil, err
	}

	outVar := fuzzy.NewOutputVariable("output")
	out := c.Membership.Output
	for _, def := range []struct {
		action fuzzy.Action
		points []float64
	}{
		{fuzzy.Cooler, out.Cooler},
		{fuzzy.NoChange, out.NoChange},
		{fuzzy.Heater, out.Heater},
	} {
		if err := outVar.Define(def.action, def.points...); err != nil {
			return nil, err
		}
	}

	engCfg := fuzzy.Config{
		UniverseMin: c.Universe.Min,
		UniverseMax: c.Universe.Max,
		Samples:     c.Samples,
	}
	return fuzzy.NewEngine(errVar, rateVar, outVar, fuzzy.DefaultRules(), engCfg)
}

func defineTerms(v *fuzzy.Variable, pts TermPoints) error {
	for _, def := range []struct {
		term   fuzzy.Term
		points []float64
	}{
		{fuzzy.Negative, pts.Negative},
		{fuzzy.Zero, pts.Zero},
		{fuzzy.Positive, pts.Positive},
	} {
		if err := v.Define(def.term, def.points...); err != nil {
			return err
		}
	}
	return nil
}

// BuildPlant constructs the plant model from the configured actuator
// parameters.
func (c *Config) BuildPlant() *plant.Plant {
	return &plant.Plant{
		StepSize:     c.StepSize,
		MaxMagnitude: c.MaxOutput,
		SkewRate:     c.SkewDuration(),
	}
}

// BuildLoop wires engine, plant and control state into a ready loop.
func (c *Config) BuildLoop() (*loop.Loop, *fuzzy.Engine, error) {
	eng, err := c.BuildEngine()
	if err != nil {
		return nil, nil, err
	}
	l := loop.New(eng, c.BuildPlant(), loop.Config{
		Target:      c.Target,
		Initial:     c.Initial,
		HistorySize: c.HistorySize,
	})
	return l, eng, nil
}
