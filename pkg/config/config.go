// Package config loads vrep settings from YAML or TOML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/chazu/vrep/pkg/material"
)

// Config is the top-level configuration.
type Config struct {
	LogLevel string         `yaml:"log_level" toml:"log_level"`
	Mesh     MeshConfig     `yaml:"mesh" toml:"mesh"`
	Material MaterialConfig `yaml:"material" toml:"material"`
	Sample   SampleConfig   `yaml:"sample" toml:"sample"`
}

// MeshConfig controls marching cubes export.
type MeshConfig struct {
	// Cells is the marching cubes resolution along the longest axis.
	Cells int `yaml:"cells" toml:"cells"`
	// ClipExtent replaces unbounded box axes when meshing.
	ClipExtent float64 `yaml:"clip_extent" toml:"clip_extent"`
}

// MaterialConfig names the media inside and outside the solid.
type MaterialConfig struct {
	Foreground MediumConfig `yaml:"foreground" toml:"foreground"`
	Background MediumConfig `yaml:"background" toml:"background"`
}

// MediumConfig describes a medium by refractive index or permittivity.
// Exactly one of Index and Epsilon is set.
type MediumConfig struct {
	Name    string  `yaml:"name" toml:"name"`
	Index   float64 `yaml:"index,omitempty" toml:"index,omitempty"`
	Epsilon float64 `yaml:"epsilon,omitempty" toml:"epsilon,omitempty"`
}

// Medium resolves the configured medium.
func (m MediumConfig) Medium() material.Medium {
	if m.Index != 0 {
		return material.FromIndex(m.Name, m.Index)
	}
	return material.Medium{Name: m.Name, Epsilon: m.Epsilon}
}

func (m MediumConfig) validate(section string) error {
	switch {
	case m.Index != 0 && m.Epsilon != 0:
		return fmt.Errorf("config: %s: set index or epsilon, not both", section)
	case m.Index < 0 || m.Epsilon < 0:
		return fmt.Errorf("config: %s: index and epsilon must be positive", section)
	case m.Index == 0 && m.Epsilon == 0:
		return fmt.Errorf("config: %s: index or epsilon is required", section)
	}
	return nil
}

// SampleConfig describes the sampling grid.
type SampleConfig struct {
	Min        [3]float64 `yaml:"min" toml:"min"`
	Max        [3]float64 `yaml:"max" toml:"max"`
	Resolution float64    `yaml:"resolution" toml:"resolution"`
	// Workers bounds concurrent slabs; zero uses GOMAXPROCS.
	Workers int `yaml:"workers" toml:"workers"`
}

// Grid returns the sampling grid.
func (s SampleConfig) Grid() material.Grid {
	return material.Grid{
		Min:        r3.Vec{X: s.Min[0], Y: s.Min[1], Z: s.Min[2]},
		Max:        r3.Vec{X: s.Max[0], Y: s.Max[1], Z: s.Max[2]},
		Resolution: s.Resolution,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Mesh:     MeshConfig{Cells: 200, ClipExtent: 100},
		Material: MaterialConfig{
			Foreground: MediumConfig{Name: "glass", Index: 1.5},
			Background: MediumConfig{Name: material.Air.Name, Epsilon: material.Air.Epsilon},
		},
		Sample: SampleConfig{
			Min:        [3]float64{-2, -2, -2},
			Max:        [3]float64{2, 2, 2},
			Resolution: 10,
		},
	}
}

// Load reads path over the defaults. Files ending in .toml are parsed as
// TOML, everything else as YAML. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		// An empty YAML file leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Mesh.Cells <= 0 {
		return fmt.Errorf("config: mesh.cells must be positive, got %d", c.Mesh.Cells)
	}
	if c.Mesh.ClipExtent <= 0 || math.IsInf(c.Mesh.ClipExtent, 0) {
		return fmt.Errorf("config: mesh.clip_extent must be positive and finite, got %v", c.Mesh.ClipExtent)
	}
	if err := c.Material.Foreground.validate("material.foreground"); err != nil {
		return err
	}
	if err := c.Material.Background.validate("material.background"); err != nil {
		return err
	}
	if c.Sample.Resolution <= 0 {
		return fmt.Errorf("config: sample.resolution must be positive, got %v", c.Sample.Resolution)
	}
	for i := range c.Sample.Min {
		if c.Sample.Min[i] >= c.Sample.Max[i] {
			return fmt.Errorf("config: sample.min %v must be below sample.max %v", c.Sample.Min, c.Sample.Max)
		}
	}
	if err := c.Sample.Grid().Validate(); err != nil {
		return fmt.Errorf("config: sample: %w", err)
	}
	if c.Sample.Workers < 0 {
		return fmt.Errorf("config: sample.workers must not be negative, got %d", c.Sample.Workers)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("config: log_level %q: %w", name, err)
	}
	return l, nil
}

// Level returns the configured log level. It assumes Validate passed.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}
