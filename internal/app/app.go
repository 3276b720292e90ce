// Package app runs the event loop: it dispatches window events to the
// render state and drives one update and render per iteration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cube/internal/engine/input"
	"github.com/Faultbox/midgard-cube/internal/engine/renderer"
	"github.com/Faultbox/midgard-cube/internal/logger"
)

// EventSource yields the events that arrived since the last call.
type EventSource interface {
	PollEvents() []input.Event
}

// App owns the render state and routes events to it.
type App struct {
	events EventSource
	state  *renderer.State
	log    *zap.Logger

	frames   int
	fpsTimer time.Time
}

// New creates an App. It takes ownership of state.
func New(events EventSource, state *renderer.State) *App {
	return &App{
		events:   events,
		state:    state,
		log:      logger.Named("app"),
		fpsTimer: time.Now(),
	}
}

// HandleEvent dispatches one event and reports whether the loop should stop.
func (a *App) HandleEvent(e input.Event) (quit bool) {
	switch e.Type {
	case input.EventQuit:
		return true
	case input.EventKeyDown, input.EventKeyUp:
		if e.Key == input.KeyEscape && e.Pressed() {
			return true
		}
		a.state.Input(e)
	case input.EventWindowResize, input.EventScaleChanged:
		a.state.Resize(e.Width, e.Height)
	}
	return false
}

// Frame updates the camera and renders once. Only unrecoverable device
// errors are returned; a lost surface is reconfigured and other failures
// skip the frame.
func (a *App) Frame() error {
	a.state.Update()

	err := a.state.Render()
	switch {
	case err == nil:
	case errors.Is(err, renderer.ErrSurfaceLost):
		a.log.Warn("surface lost, reconfiguring", zap.Error(err))
		a.state.Resize(a.state.Size())
	case renderer.IsFatal(err):
		return fmt.Errorf("render: %w", err)
	case errors.Is(err, renderer.ErrTimeout), errors.Is(err, renderer.ErrOutdated):
		a.log.Debug("frame skipped", zap.Error(err))
	default:
		a.log.Warn("frame skipped", zap.Error(err))
	}

	a.frames++
	if elapsed := time.Since(a.fpsTimer); elapsed >= time.Second {
		a.log.Debug("fps", zap.Float64("fps", float64(a.frames)/elapsed.Seconds()))
		a.frames = 0
		a.fpsTimer = time.Now()
	}
	return nil
}

// Run polls events and renders until a quit event, ctx cancellation or a
// fatal render error.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting render loop")

	for {
		select {
		case <-ctx.Done():
			a.log.Info("render loop cancelled", zap.Error(ctx.Err()))
			return nil
		default:
		}

		for _, e := range a.events.PollEvents() {
			if a.HandleEvent(e) {
				a.log.Info("quit requested", zap.Stringer("event", e.Type))
				return nil
			}
		}

		if err := a.Frame(); err != nil {
			return err
		}
	}
}

// Close releases the render state.
func (a *App) Close() {
	a.log.Info("closing app")
	a.state.Close()
}
