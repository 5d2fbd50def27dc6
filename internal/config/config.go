package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Config is the top-level configuration of intervalctl.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Intervals []IntervalConfig `mapstructure:"intervals"`
	IPRanges  []IPRangeConfig  `mapstructure:"ipranges"`
	Log       LogConfig        `mapstructure:"log"`
	Output    string           `mapstructure:"output"`
}

// IntervalConfig is one labelled integer interval, e.g. "[0,3]" or "(5,_)".
type IntervalConfig struct {
	Interval string            `mapstructure:"interval"`
	Labels   map[string]string `mapstructure:"labels"`
}

// IPRangeConfig is one labelled ip range, prefix or address.
type IPRangeConfig struct {
	Range  string            `mapstructure:"range"`
	Labels map[string]string `mapstructure:"labels"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	OutputText = "text"
	OutputYAML = "yaml"
)

const (
	DefaultLogLevel = "info"
	DefaultOutput   = OutputText
)

var (
	logLevels = []string{"debug", "info", "warn", "error"}
	outputs   = []string{OutputText, OutputYAML}
)

var (
	// ErrInvalidLogLevel indicates an unknown log.level.
	ErrInvalidLogLevel = errors.New("log.level must be one of debug, info, warn or error")
	// ErrInvalidOutput indicates an unknown output format.
	ErrInvalidOutput = errors.New("output must be text or yaml")
	// ErrEmptyInterval indicates an intervals entry without interval.
	ErrEmptyInterval = errors.New("intervals entry has no interval")
	// ErrEmptyRange indicates an ipranges entry without range.
	ErrEmptyRange = errors.New("ipranges entry has no range")
)

// Validate checks Config invariants. Every invalid dataset entry is
// reported, joined into a single error.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("%w, got %q", ErrInvalidLogLevel, c.Log.Level)
	}
	if !slices.Contains(outputs, c.Output) {
		return fmt.Errorf("%w, got %q", ErrInvalidOutput, c.Output)
	}

	var errs error
	for i, iv := range c.Intervals {
		if strings.TrimSpace(iv.Interval) == "" {
			errs = errors.Join(errs, fmt.Errorf("intervals[%d]: %w", i, ErrEmptyInterval))
		}
	}
	for i, r := range c.IPRanges {
		if strings.TrimSpace(r.Range) == "" {
			errs = errors.Join(errs, fmt.Errorf("ipranges[%d]: %w", i, ErrEmptyRange))
		}
	}
	return errs
}
