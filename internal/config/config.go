// Package config handles demo configuration loading and validation.
package config

import (
	"errors"
	"fmt"
)

// Config holds all demo settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Render  RenderConfig  `yaml:"render"`
	Texture TextureConfig `yaml:"texture"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// CameraConfig holds the initial camera placement and controller speed.
type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	FovY   float32    `yaml:"fovy"` // degrees
	ZNear  float32    `yaml:"znear"`
	ZFar   float32    `yaml:"zfar"`
	Speed  float32    `yaml:"speed"`
}

// RenderConfig holds render pass settings.
type RenderConfig struct {
	ClearColor [4]float64 `yaml:"clear_color"` // RGBA
}

// TextureConfig selects the cube texture.
type TextureConfig struct {
	Path string `yaml:"path"` // Empty selects the built-in texture
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Cube",
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			Eye:    [3]float32{0, 4, 6},
			Target: [3]float32{0, 0, 0},
			FovY:   45,
			ZNear:  0.1,
			ZFar:   100,
			Speed:  0.2,
		},
		Render: RenderConfig{
			ClearColor: [4]float64{0.1, 0.2, 0.3, 1.0},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot produce a usable window or camera.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera fovy %v must be between 0 and 180 degrees", c.Camera.FovY)
	}
	if c.Camera.ZNear <= 0 {
		return fmt.Errorf("camera znear %v must be positive", c.Camera.ZNear)
	}
	if c.Camera.ZFar <= c.Camera.ZNear {
		return fmt.Errorf("camera zfar %v must exceed znear %v", c.Camera.ZFar, c.Camera.ZNear)
	}
	if c.Camera.Speed <= 0 {
		return fmt.Errorf("camera speed %v must be positive", c.Camera.Speed)
	}
	if c.Camera.Eye == c.Camera.Target {
		return errors.New("camera eye and target must differ")
	}
	return nil
}
