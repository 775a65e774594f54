package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/pathcam/internal/tween"
)

// ErrInvalid marks configuration values that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config holds playback, sampling and CLI settings. YAML keys match the
// config file; fields tagged "-" are set by the CLI only.
type Config struct {
	// Movement
	Mode             string  `yaml:"mode"`
	DurationPerUnit  float64 `yaml:"duration_per_unit"`
	MinDuration      float64 `yaml:"min_duration"`
	Easing           string  `yaml:"easing"`
	Loop             bool    `yaml:"loop"`
	TrackOrientation bool    `yaml:"track_orientation"`

	// Spline sampling
	Alpha          float64 `yaml:"alpha"`
	MinSamples     int     `yaml:"min_samples"`
	SamplesPerUnit float64 `yaml:"samples_per_unit"`

	// Source
	CSVDelimiter string        `yaml:"csv_delimiter"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Playback control
	AutoStart        bool     `yaml:"auto_start"`
	SuspendBehaviors []string `yaml:"suspend_behaviors"`

	// Runtime
	LogLevel     string `yaml:"log_level"`
	InputPath    string `yaml:"input"`
	OutputPath   string `yaml:"output"`
	FPS          int    `yaml:"fps"`
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	ShowStats    bool   `yaml:"-"`
	BuildVersion string `yaml:"-"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Mode:             "curve",
		DurationPerUnit:  0.5,
		MinDuration:      0.25,
		Easing:           "sineInOut",
		Loop:             false,
		TrackOrientation: true,
		Alpha:            0.7,
		MinSamples:       24,
		SamplesPerUnit:   6,
		CSVDelimiter:     ",",
		FetchTimeout:     10 * time.Second,
		AutoStart:        true,
		SuspendBehaviors: []string{},
		LogLevel:         "info",
		FPS:              60,
		Width:            1280,
		Height:           720,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Mode) {
	case "curve", "spline", "linear", "straight":
	default:
		errs = append(errs, fmt.Errorf("mode %q: expected curve or linear", c.Mode))
	}
	if c.DurationPerUnit < 0 {
		errs = append(errs, fmt.Errorf("duration_per_unit must not be negative, got %v", c.DurationPerUnit))
	}
	if c.MinDuration <= 0 {
		errs = append(errs, fmt.Errorf("min_duration must be positive, got %v", c.MinDuration))
	}
	if _, err := tween.ByName(c.Easing); err != nil {
		errs = append(errs, err)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		errs = append(errs, fmt.Errorf("alpha must be within [0, 1], got %v", c.Alpha))
	}
	if c.MinSamples < 2 {
		errs = append(errs, fmt.Errorf("min_samples must be at least 2, got %d", c.MinSamples))
	}
	if c.SamplesPerUnit < 0 {
		errs = append(errs, fmt.Errorf("samples_per_unit must not be negative, got %v", c.SamplesPerUnit))
	}
	if c.CSVDelimiter == "" {
		errs = append(errs, errors.New("csv_delimiter must not be empty"))
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout must not be negative, got %v", c.FetchTimeout))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
