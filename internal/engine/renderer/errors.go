package renderer

import "errors"

// Surface acquisition errors returned by Device.AcquireFrame and State.Render.
var (
	// ErrSurfaceLost means the surface must be reconfigured before the next frame.
	ErrSurfaceLost = errors.New("surface lost")
	// ErrOutOfMemory means the device cannot continue. It is not recoverable.
	ErrOutOfMemory = errors.New("out of device memory")
	// ErrTimeout means no image became available in time. The frame is skipped.
	ErrTimeout = errors.New("surface acquire timed out")
	// ErrOutdated means the surface no longer matches its configuration. The
	// frame is skipped until a resize arrives.
	ErrOutdated = errors.New("surface outdated")
)

var (
	// ErrNoSurfaceFormat means the device cannot present to the surface.
	ErrNoSurfaceFormat = errors.New("no compatible surface format")
	// ErrNotReady means the state was closed or hit a fatal error.
	ErrNotReady = errors.New("render state not ready")
)

// IsFatal reports whether err requires the process to stop rendering.
func IsFatal(err error) bool {
	return errors.Is(err, ErrOutOfMemory) || errors.Is(err, ErrNotReady)
}
