package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"

	"github.com/kirides/surfaceshare/internal/pipeline"
)

// Duration reads "250ms" style strings from TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type Config struct {
	Backend  string   `toml:"backend"`
	Width    int      `toml:"width"`
	Height   int      `toml:"height"`
	Timeout  Duration `toml:"timeout"`
	RowAlign int      `toml:"row_align"`
	LogLevel string   `toml:"log_level"`

	Output      string `toml:"output"`
	ScaleWidth  int    `toml:"scale_width"`
	ScaleHeight int    `toml:"scale_height"`
	Quality     int    `toml:"quality"`

	Addr string `toml:"addr"`
	FPS  int    `toml:"fps"`
}

func DefaultConfig() Config {
	return Config{
		Backend:  pipeline.DefaultBackend(),
		Width:    800,
		Height:   600,
		Timeout:  Duration(5 * time.Second),
		RowAlign: 256,
		LogLevel: "info",
		Output:   "shared.png",
		Quality:  75,
		Addr:     "127.0.0.1:8023",
		FPS:      15,
	}
}

// LoadConfig reads path over the defaults. Keys missing from the file keep
// their default value; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Backend != pipeline.BackendD3D11 && c.Backend != pipeline.BackendSoft:
		return fmt.Errorf("backend must be %q or %q, got %q", pipeline.BackendD3D11, pipeline.BackendSoft, c.Backend)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("size must be positive, got %dx%d", c.Width, c.Height)
	case c.ScaleWidth < 0 || c.ScaleHeight < 0:
		return fmt.Errorf("scale must not be negative, got %dx%d", c.ScaleWidth, c.ScaleHeight)
	case c.Timeout < 0:
		return fmt.Errorf("timeout must not be negative, got %v", time.Duration(c.Timeout))
	case c.Quality < 1 || c.Quality > 100:
		return fmt.Errorf("quality must be within 1..100, got %d", c.Quality)
	case c.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// flagValues holds what the command line set. Only flags the user changed
// override the configuration.
type flagValues struct {
	config   string
	backend  string
	width    int
	height   int
	timeout  time.Duration
	rowAlign int
	logLevel string

	out         string
	scaleWidth  int
	scaleHeight int
	quality     int

	addr string
	fps  int
}

func (f *flagValues) apply(fs *pflag.FlagSet, c *Config) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("backend", func() { c.Backend = f.backend })
	set("width", func() { c.Width = f.width })
	set("height", func() { c.Height = f.height })
	set("timeout", func() { c.Timeout = Duration(f.timeout) })
	set("row-align", func() { c.RowAlign = f.rowAlign })
	set("log-level", func() { c.LogLevel = f.logLevel })
	set("out", func() { c.Output = f.out })
	set("scale-width", func() { c.ScaleWidth = f.scaleWidth })
	set("scale-height", func() { c.ScaleHeight = f.scaleHeight })
	set("quality", func() { c.Quality = f.quality })
	set("addr", func() { c.Addr = f.addr })
	set("fps", func() { c.FPS = f.fps })
}
