package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/katalvlaran/curvgrid/curvilinear"
	"github.com/katalvlaran/curvgrid/ncgrid"
	"github.com/sirupsen/logrus"
)

// Config is the TOML configuration of gridprobe.
//
//	input          = "mesh.nc"
//	axes           = ["X", "Y", "Z"]
//	value          = "T"
//	tolerance      = 1e-6
//	max_iterations = 32
//	warm           = true
//	log_level      = "info"
//	json           = false
type Config struct {
	Input         string   `toml:"input"`
	Axes          []string `toml:"axes"`
	Value         string   `toml:"value"`
	Tolerance     float64  `toml:"tolerance"`
	MaxIterations int      `toml:"max_iterations"`
	Warm          bool     `toml:"warm"`
	LogLevel      string   `toml:"log_level"`
	JSON          bool     `toml:"json"`
}

// defaultConfig returns the configuration used when no file is given.
func defaultConfig() Config {
	return Config{
		Tolerance:     curvilinear.DefaultTolerance,
		MaxIterations: curvilinear.DefaultMaxIterations,
		Warm:          true,
		LogLevel:      "info",
	}
}

// decodeConfig reads TOML from r on top of the defaults. Unknown keys are
// rejected so typos do not pass silently.
func decodeConfig(r io.Reader) (Config, error) {
	c := defaultConfig()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return c, fmt.Errorf("gridprobe: decoding config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return c, fmt.Errorf("gridprobe: unknown config keys: %s", strings.Join(keys, ", "))
	}
	return c, nil
}

// loadConfig reads the config file at path, or returns the defaults when
// path is empty.
func loadConfig(path string) (Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("gridprobe: %w", err)
	}
	defer f.Close()
	return decodeConfig(f)
}

// validate checks the values the library would otherwise panic on.
func (c Config) validate() error {
	switch {
	case c.Input == "":
		return fmt.Errorf("gridprobe: no input file")
	case !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 0):
		return fmt.Errorf("gridprobe: tolerance must be finite and > 0, got %g", c.Tolerance)
	case c.MaxIterations < 1:
		return fmt.Errorf("gridprobe: max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("gridprobe: %w", err)
	}
	return nil
}

// layout returns the netCDF variable layout.
func (c Config) layout() ncgrid.Layout {
	return ncgrid.Layout{Axes: c.Axes, Value: c.Value}
}

// options returns the locator options.
func (c Config) options(log logrus.FieldLogger) []curvilinear.Option {
	return []curvilinear.Option{
		curvilinear.WithTolerance(c.Tolerance),
		curvilinear.WithMaxIterations(c.MaxIterations),
		curvilinear.WithLogger(log),
	}
}
