// Package config resolves the run parameters from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/zeu5/tmr-voting/report"
	"github.com/zeu5/tmr-voting/tmr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTrials = 1000
	DefaultSeed   = 7
	DefaultOutput = report.DefaultChartPath
)

// ErrReliabilityCount is returned when the reliabilities do not name every module
var ErrReliabilityCount = errors.New("expected one reliability per module")

// Config models the optional config file. Every field can be overridden with a TMR_ variable.
type Config struct {
	Trials        uint64    `yaml:"trials" env:"TMR_TRIALS"`
	Seed          uint64    `yaml:"seed" env:"TMR_SEED"`
	Reliabilities []float64 `yaml:"reliabilities" env:"TMR_RELIABILITIES" envSeparator:","`
	Output        string    `yaml:"output" env:"TMR_OUTPUT"`
	RecordPath    string    `yaml:"record,omitempty" env:"TMR_RECORD"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	rs := tmr.DefaultReliabilities
	return &Config{
		Trials:        DefaultTrials,
		Seed:          DefaultSeed,
		Reliabilities: rs[:],
		Output:        DefaultOutput,
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides the fields that have a TMR_ variable set
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ReliabilityVector converts and validates the configured reliabilities
func (c *Config) ReliabilityVector() (tmr.Reliabilities, error) {
	var rs tmr.Reliabilities
	if len(c.Reliabilities) != tmr.Modules {
		return rs, fmt.Errorf("got %d: %w", len(c.Reliabilities), ErrReliabilityCount)
	}
	copy(rs[:], c.Reliabilities)
	if err := rs.Validate(); err != nil {
		return rs, err
	}
	return rs, nil
}

// Resolve loads the file at path and applies the environment on top
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
