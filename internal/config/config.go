// Package config loads the server configuration from a YAML file.
//
// Every field has a default (see Default), so an empty or missing file is a
// valid configuration. Tool calls may override most values per request; the
// configuration only supplies what the caller leaves out.
package config

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-collage-mcp/internal/collage"
)

// Limits on user-facing collage settings.
const (
	MinScalePercent = 10
	MaxScalePercent = 100
	MaxColsPerRow   = 10
)

// Config holds the defaults used by the collage tools.
type Config struct {
	// ScalePercent is the default collage resize factor in percent (10-100).
	ScalePercent int `yaml:"scale_percent"`

	// ColsPerRow fixes the number of columns; 0 picks the grid automatically.
	ColsPerRow int `yaml:"cols_per_row"`

	// Background is the canvas and transparency color as "#RRGGBB".
	Background string `yaml:"background"`

	// Placeholder is the color of unused cells when FillUnused is set.
	// Empty means Background.
	Placeholder string `yaml:"placeholder"`

	// FillUnused paints unused grid cells with Placeholder.
	FillUnused bool `yaml:"fill_unused"`

	// Align is "top-left" or "center".
	Align string `yaml:"align"`

	// Resampler is the resize backend: imaging, bild or nfnt.
	Resampler string `yaml:"resampler"`

	// Filter is the resampling filter name for the backend.
	Filter string `yaml:"filter"`

	// ThumbnailSize is the bounding box side of preview thumbnails.
	ThumbnailSize int `yaml:"thumbnail_size"`

	// OutputDir receives files written with "save": true. A leading "~" is
	// expanded to the user's home directory.
	OutputDir string `yaml:"output_dir"`

	// LogLevel is a logrus level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ScalePercent:  45,
		ColsPerRow:    0,
		Background:    "#FFFFFF",
		Align:         "top-left",
		Resampler:     "imaging",
		Filter:        "lanczos",
		ThumbnailSize: 150,
		OutputDir:     ".",
		LogLevel:      "info",
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	expanded, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.OutputDir, err = ExpandPath(cfg.OutputDir); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c *Config) Validate() error {
	if c.ScalePercent < MinScalePercent || c.ScalePercent > MaxScalePercent {
		return fmt.Errorf("scale_percent %d outside %d-%d", c.ScalePercent, MinScalePercent, MaxScalePercent)
	}
	if c.ColsPerRow < 0 || c.ColsPerRow > MaxColsPerRow {
		return fmt.Errorf("cols_per_row %d outside 0-%d", c.ColsPerRow, MaxColsPerRow)
	}
	if _, err := collage.ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if c.Placeholder != "" {
		if _, err := collage.ParseColor(c.Placeholder); err != nil {
			return fmt.Errorf("placeholder: %w", err)
		}
	}
	if _, err := collage.ParseAlignment(c.Align); err != nil {
		return err
	}
	if _, err := collage.ResamplerByName(c.Resampler, c.Filter); err != nil {
		return err
	}
	if c.ThumbnailSize <= 0 {
		return fmt.Errorf("thumbnail_size must be positive, got %d", c.ThumbnailSize)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// ComposerOptions converts the configuration into collage options.
// The scale mode is ByFactor(ScalePercent/100).
func (c *Config) ComposerOptions() (collage.Options, error) {
	bg, err := collage.ParseColor(c.Background)
	if err != nil {
		return collage.Options{}, err
	}
	placeholder := bg
	if c.Placeholder != "" {
		if placeholder, err = collage.ParseColor(c.Placeholder); err != nil {
			return collage.Options{}, err
		}
	}
	align, err := collage.ParseAlignment(c.Align)
	if err != nil {
		return collage.Options{}, err
	}
	r, err := collage.ResamplerByName(c.Resampler, c.Filter)
	if err != nil {
		return collage.Options{}, err
	}

	return collage.Options{
		Scale:       collage.ByFactor(float64(c.ScalePercent) / 100),
		Columns:     c.ColsPerRow,
		Background:  bg,
		FillUnused:  c.FillUnused,
		Placeholder: placeholder,
		Align:       align,
		Resampler:   r,
	}, nil
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s: %w", path, err)
	}
	return expanded, nil
}
