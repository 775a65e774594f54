package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "curve", cfg.Mode)
	assert.Equal(t, 0.5, cfg.DurationPerUnit)
	assert.Equal(t, 0.25, cfg.MinDuration)
	assert.Equal(t, "sineInOut", cfg.Easing)
	assert.False(t, cfg.Loop)
	assert.True(t, cfg.TrackOrientation)
	assert.Equal(t, 0.7, cfg.Alpha)
	assert.Equal(t, 24, cfg.MinSamples)
	assert.Equal(t, 6.0, cfg.SamplesPerUnit)
	assert.Equal(t, ",", cfg.CSVDelimiter)
	assert.True(t, cfg.AutoStart)
	assert.Empty(t, cfg.SuspendBehaviors)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathcam.yaml")
	body := `
mode: linear
easing: easeInOutCubic
loop: true
csv_delimiter: ";"
fetch_timeout: 3s
suspend_behaviors: [orbit, keyboard]
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "linear", cfg.Mode)
	assert.Equal(t, "easeInOutCubic", cfg.Easing)
	assert.True(t, cfg.Loop)
	assert.Equal(t, ";", cfg.CSVDelimiter)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []string{"orbit", "keyboard"}, cfg.SuspendBehaviors)

	// untouched keys keep defaults
	assert.Equal(t, 0.5, cfg.DurationPerUnit)
	assert.True(t, cfg.TrackOrientation)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("easing: wobble\nmin_duration: 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "wobble")
	assert.Contains(t, err.Error(), "min_duration")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"mode", func(c *Config) { c.Mode = "teleport" }},
		{"alpha", func(c *Config) { c.Alpha = 1.5 }},
		{"samples", func(c *Config) { c.MinSamples = 1 }},
		{"delimiter", func(c *Config) { c.CSVDelimiter = "" }},
		{"per unit", func(c *Config) { c.DurationPerUnit = -1 }},
		{"fps", func(c *Config) { c.FPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
