// Package window handles SDL2 window and OpenGL context creation and turns
// SDL events into input events.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cube/internal/engine/input"
	"github.com/Faultbox/midgard-cube/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	log       *zap.Logger

	// last drawable size, used to spot scale changes
	drawW, drawH int

	events []input.Event
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
		log:    logger.Named("window"),
		events: make([]input.Event, 0, 16),
	}

	// Initialize SDL2
	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	w.drawW, w.drawH = w.DrawableSize()

	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("drawable_width", w.drawW),
		zap.Int("drawable_height", w.drawH),
		zap.Bool("fullscreen", cfg.Fullscreen),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// SetSwapInterval sets the buffer swap interval: 0 for immediate, 1 to
// wait for vertical blank.
func (w *Window) SetSwapInterval(interval int) error {
	return sdl.GLSetSwapInterval(interval)
}

// GetSize returns the current window size in screen coordinates.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the size of the GL drawable in physical pixels.
func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// PollEvents drains the SDL queue. The returned slice is reused by the
// next call.
func (w *Window) PollEvents() []input.Event {
	w.events = w.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.events = append(w.events, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if ev, ok := w.windowEvent(e.Event); ok {
				w.events = append(w.events, ev)
			}

		case *sdl.KeyboardEvent:
			key := keyFromScancode(e.Keysym.Scancode)
			if key == input.KeyUnknown {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				w.events = append(w.events, input.KeyDownEvent(key))
			} else if e.Type == sdl.KEYUP {
				w.events = append(w.events, input.KeyUpEvent(key))
			}
		}
	}

	return w.events
}

// windowEvent reports size changes in physical pixels. A drawable size
// change without a window size change means the display scale changed.
func (w *Window) windowEvent(id uint8) (input.Event, bool) {
	switch id {
	case sdl.WINDOWEVENT_CLOSE:
		return input.Event{Type: input.EventQuit}, true
	case sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_RESIZED:
		width, height := w.DrawableSize()
		if width == w.drawW && height == w.drawH && id == sdl.WINDOWEVENT_RESIZED {
			return input.Event{}, false
		}
		w.drawW, w.drawH = width, height
		return input.ResizeEvent(width, height), true
	case sdl.WINDOWEVENT_MOVED, sdl.WINDOWEVENT_SHOWN, sdl.WINDOWEVENT_RESTORED:
		width, height := w.DrawableSize()
		if width == w.drawW && height == w.drawH {
			return input.Event{}, false
		}
		w.drawW, w.drawH = width, height
		return input.Event{Type: input.EventScaleChanged, Width: width, Height: height}, true
	}
	return input.Event{}, false
}

// keyFromScancode maps the physical keys the application reacts to.
func keyFromScancode(sc sdl.Scancode) input.Key {
	switch sc {
	case sdl.SCANCODE_W:
		return input.KeyW
	case sdl.SCANCODE_A:
		return input.KeyA
	case sdl.SCANCODE_S:
		return input.KeyS
	case sdl.SCANCODE_D:
		return input.KeyD
	case sdl.SCANCODE_UP:
		return input.KeyUp
	case sdl.SCANCODE_DOWN:
		return input.KeyDown
	case sdl.SCANCODE_LEFT:
		return input.KeyLeft
	case sdl.SCANCODE_RIGHT:
		return input.KeyRight
	case sdl.SCANCODE_ESCAPE:
		return input.KeyEscape
	}
	return input.KeyUnknown
}
