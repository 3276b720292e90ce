// Package main is the entry point for the textured cube demo.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cube/internal/app"
	"github.com/Faultbox/midgard-cube/internal/config"
	"github.com/Faultbox/midgard-cube/internal/engine/camera"
	"github.com/Faultbox/midgard-cube/internal/engine/renderer"
	"github.com/Faultbox/midgard-cube/internal/engine/renderer/glbackend"
	"github.com/Faultbox/midgard-cube/internal/engine/texture"
	"github.com/Faultbox/midgard-cube/internal/engine/window"
	"github.com/Faultbox/midgard-cube/internal/logger"
	"github.com/Faultbox/midgard-cube/pkg/math"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Cube ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("cube exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("closed normally")
}

func run(cfg *config.Config) error {
	if config.PickTexture() {
		path, err := dialog.File().
			Filter("Images", "png", "jpg", "jpeg", "gif", "bmp", "webp", "tga").
			Filter("All Files", "*").
			Title("Open Cube Texture").
			Load()
		switch {
		case err == nil:
			cfg.Texture.Path = path
		case errors.Is(err, dialog.ErrCancelled):
			logger.Info("texture selection cancelled, using configured texture")
		default:
			logger.Warn("file dialog failed", zap.Error(err))
		}
	}

	diffuse, err := loadTexture(cfg.Texture.Path)
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	dev, err := glbackend.Open(win)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}

	width, height := win.DrawableSize()
	state, err := renderer.New(dev, diffuse, renderConfig(cfg, width, height))
	if err != nil {
		dev.Release()
		return fmt.Errorf("failed to create render state: %w", err)
	}

	a := app.New(win, state)
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Run(ctx)
}

// loadTexture decodes the texture at path, or generates the built-in one
// when path is empty.
func loadTexture(path string) (*image.RGBA, error) {
	if path == "" {
		logger.Info("using built-in texture")
		return texture.Planks(256, 256), nil
	}
	img, err := texture.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}
	logger.Info("texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return img, nil
}

// renderConfig builds the render state settings for a drawable of the
// given physical size.
func renderConfig(cfg *config.Config, width, height int) renderer.Config {
	cam := camera.New(1)
	cam.Eye = math.Vec3{X: cfg.Camera.Eye[0], Y: cfg.Camera.Eye[1], Z: cfg.Camera.Eye[2]}
	cam.Target = math.Vec3{X: cfg.Camera.Target[0], Y: cfg.Camera.Target[1], Z: cfg.Camera.Target[2]}
	cam.FovY = cfg.Camera.FovY
	cam.ZNear = cfg.Camera.ZNear
	cam.ZFar = cfg.Camera.ZFar

	c := cfg.Render.ClearColor
	return renderer.Config{
		Width:       width,
		Height:      height,
		VSync:       cfg.Window.VSync,
		ClearColor:  renderer.Color{R: c[0], G: c[1], B: c[2], A: c[3]},
		Camera:      cam,
		CameraSpeed: cfg.Camera.Speed,
	}
}
