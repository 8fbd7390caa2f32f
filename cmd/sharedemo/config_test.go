package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirides/surfaceshare/internal/pipeline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "demo.toml", `
backend = "soft"
width = 320
height = 200
timeout = "250ms"
fps = 30
log_level = "debug"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, pipeline.BackendSoft, cfg.Backend)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.Timeout)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultConfig().Quality, cfg.Quality)
	assert.Equal(t, DefaultConfig().Addr, cfg.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":  `colour = "red"`,
		"bad duration": `timeout = "soon"`,
		"bad type":     `width = "wide"`,
		"bad syntax":   `width = `,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "bad.toml", content))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "opengl" }},
		{"width", func(c *Config) { c.Width = 0 }},
		{"height", func(c *Config) { c.Height = -1 }},
		{"scale", func(c *Config) { c.ScaleWidth = -5 }},
		{"timeout", func(c *Config) { c.Timeout = Duration(-time.Second) }},
		{"quality low", func(c *Config) { c.Quality = 0 }},
		{"quality high", func(c *Config) { c.Quality = 101 }},
		{"fps", func(c *Config) { c.FPS = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, Duration(90*time.Second), d)

	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(b))

	assert.Error(t, d.UnmarshalText([]byte("90")))
}
