// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Terrain size modes.
const (
	SizeModeExtents = "extents" // explicit width/height/depth
	SizeModeQuad    = "quad"    // quad_size per grid cell, height
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`
}

// TerrainConfig describes which heightmap to load and how large it is in the world.
type TerrainConfig struct {
	Heightmap string  `yaml:"heightmap"`
	SizeMode  string  `yaml:"size_mode"`
	Width     float32 `yaml:"width"`
	Height    float32 `yaml:"height"`
	Depth     float32 `yaml:"depth"`
	QuadSize  float32 `yaml:"quad_size"`
}

// CameraConfig holds the initial orbit camera placement.
type CameraConfig struct {
	Distance float32 `yaml:"distance"`
	Pitch    float32 `yaml:"pitch"`
	Yaw      float32 `yaml:"yaw"`
	FOV      float32 `yaml:"fov"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Terrain: TerrainConfig{
			Heightmap: "data/heightmap.png",
			SizeMode:  SizeModeExtents,
			Width:     200,
			Height:    30,
			Depth:     200,
			QuadSize:  1,
		},
		Camera: CameraConfig{
			Distance: 250,
			Pitch:    0.6,
			Yaw:      0.8,
			FOV:      45,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would produce an unusable terrain or window.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	switch c.Terrain.SizeMode {
	case SizeModeExtents:
		if c.Terrain.Width <= 0 || c.Terrain.Depth <= 0 {
			errs = append(errs, fmt.Errorf("terrain: width and depth must be positive, got %g and %g", c.Terrain.Width, c.Terrain.Depth))
		}
	case SizeModeQuad:
		if c.Terrain.QuadSize <= 0 {
			errs = append(errs, fmt.Errorf("terrain: quad_size must be positive, got %g", c.Terrain.QuadSize))
		}
	default:
		errs = append(errs, fmt.Errorf("terrain: unknown size_mode %q", c.Terrain.SizeMode))
	}
	if c.Terrain.Height < 0 {
		errs = append(errs, fmt.Errorf("terrain: height must not be negative, got %g", c.Terrain.Height))
	}
	if c.Terrain.Heightmap == "" {
		errs = append(errs, errors.New("terrain: heightmap path is empty"))
	}
	return errors.Join(errs...)
}

// TerrainSizer is anything that can be sized by explicit extents or by a
// per-cell quad size.
type TerrainSizer interface {
	SetSize(width, height, depth float32)
	SetQuadSize(quadSize, height float32)
}

// Apply sizes s according to the configured size mode.
func (t TerrainConfig) Apply(s TerrainSizer) {
	if t.SizeMode == SizeModeQuad {
		s.SetQuadSize(t.QuadSize, t.Height)
		return
	}
	s.SetSize(t.Width, t.Height, t.Depth)
}
