// Package config handles application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Plane    PlaneConfig    `yaml:"plane"`
	Effect   EffectConfig   `yaml:"effect"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	ShowFPS    bool `yaml:"show_fps"`
}

// PlaneConfig holds the tessellation of the rendered plane.
type PlaneConfig struct {
	WidthSegments  int     `yaml:"width_segments"`
	HeightSegments int     `yaml:"height_segments"`
	Scale          float32 `yaml:"scale"`
}

// EffectConfig selects the shader effect and its inputs.
type EffectConfig struct {
	Name       string  `yaml:"name"`
	TimeScalar float32 `yaml:"time_scalar"` // Multiplies frame time before it reaches u_time
	Palette    int     `yaml:"palette"`     // Index into the built-in palettes
	Seed       float32 `yaml:"seed"`
	Intensity  float32 `yaml:"intensity"` // Grain strength, 0 disables
}

// CaptureConfig holds frame capture settings.
type CaptureConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
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
			FPSLimit:   0,
		},
		Plane: PlaneConfig{
			WidthSegments:  32,
			HeightSegments: 32,
			Scale:          1,
		},
		Effect: EffectConfig{
			Name:       "gradient",
			TimeScalar: 0.02,
			Palette:    0,
			Seed:       0,
			Intensity:  0.05,
		},
		Capture: CaptureConfig{
			Dir:    "captures",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the renderer cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FPSLimit < 0 {
		errs = append(errs, fmt.Errorf("graphics: negative fps_limit %d", c.Graphics.FPSLimit))
	}
	if c.Plane.WidthSegments < 1 || c.Plane.HeightSegments < 1 {
		errs = append(errs, fmt.Errorf("plane: segments must be at least 1, got %dx%d",
			c.Plane.WidthSegments, c.Plane.HeightSegments))
	}
	if c.Plane.Scale <= 0 {
		errs = append(errs, fmt.Errorf("plane: scale must be positive, got %g", c.Plane.Scale))
	}
	if c.Effect.TimeScalar == 0 {
		errs = append(errs, errors.New("effect: time_scalar must not be 0"))
	}
	if c.Effect.Name == "" {
		errs = append(errs, errors.New("effect: name is empty"))
	}
	switch strings.ToLower(c.Capture.Format) {
	case "", "png", "bmp":
	default:
		errs = append(errs, fmt.Errorf("capture: unknown format %q", c.Capture.Format))
	}
	return errors.Join(errs...)
}
