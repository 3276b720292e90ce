package camera

import (
	"github.com/Faultbox/midgard-cube/internal/engine/input"
)

// Controller moves a Camera's eye in response to directional keys.
// W/Up and S/Down dolly toward and away from the target; A/Left and D/Right
// orbit around it at constant distance.
type Controller struct {
	Speed float32

	forward  bool
	backward bool
	left     bool
	right    bool
}

// NewController creates a controller moving speed units per update.
func NewController(speed float32) *Controller {
	return &Controller{Speed: speed}
}

// ProcessEvent records key presses and releases of the movement keys.
// It returns true if the event was consumed.
func (c *Controller) ProcessEvent(e input.Event) bool {
	if !e.IsKey() {
		return false
	}
	pressed := e.Pressed()

	switch e.Key {
	case input.KeyW, input.KeyUp:
		c.forward = pressed
	case input.KeyS, input.KeyDown:
		c.backward = pressed
	case input.KeyA, input.KeyLeft:
		c.left = pressed
	case input.KeyD, input.KeyRight:
		c.right = pressed
	default:
		return false
	}
	return true
}

// Moving reports whether any movement key is held.
func (c *Controller) Moving() bool {
	return c.forward || c.backward || c.left || c.right
}

// UpdateCamera applies one step of the held movement keys to cam.
//
// Lateral movement uses the forward vector measured after the dolly step, so
// holding forward and a strafe key together lands somewhere different from
// applying them on separate updates.
func (c *Controller) UpdateCamera(cam *Camera) {
	forward := cam.Target.Sub(cam.Eye)
	forwardNorm := forward.Normalize()
	dist := forward.Length()

	// Stop short of the target so the eye never passes through it.
	if c.forward && dist > c.Speed {
		cam.Eye = cam.Eye.Add(forwardNorm.Scale(c.Speed))
	}
	if c.backward {
		cam.Eye = cam.Eye.Sub(forwardNorm.Scale(c.Speed))
	}

	right := forwardNorm.Cross(cam.Up).Normalize()

	forward = cam.Target.Sub(cam.Eye)
	dist = forward.Length()

	if c.right {
		cam.Eye = cam.Target.Sub(forward.Add(right.Scale(c.Speed)).Normalize().Scale(dist))
	}
	if c.left {
		cam.Eye = cam.Target.Sub(forward.Sub(right.Scale(c.Speed)).Normalize().Scale(dist))
	}
}
