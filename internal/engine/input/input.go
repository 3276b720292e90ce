// Package input defines the window and keyboard events consumed by the
// application, independent of the windowing library that produced them.
package input

// EventType identifies the kind of an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventScaleChanged
	EventKeyDown
	EventKeyUp
)

// String returns a short name for logging.
func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventWindowResize:
		return "resize"
	case EventScaleChanged:
		return "scale"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	}
	return "none"
}

// Key is a physical key position.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
)

// Event represents a processed window or input event.
// Width and Height are physical pixel sizes for resize and scale events.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
}

// Pressed reports whether the event is a key press.
func (e Event) Pressed() bool {
	return e.Type == EventKeyDown
}

// IsKey reports whether the event is a key press or release.
func (e Event) IsKey() bool {
	return e.Type == EventKeyDown || e.Type == EventKeyUp
}

// KeyDownEvent returns a key press event for k.
func KeyDownEvent(k Key) Event {
	return Event{Type: EventKeyDown, Key: k}
}

// KeyUpEvent returns a key release event for k.
func KeyUpEvent(k Key) Event {
	return Event{Type: EventKeyUp, Key: k}
}

// ResizeEvent returns a resize event with the given physical size.
func ResizeEvent(width, height int) Event {
	return Event{Type: EventWindowResize, Width: width, Height: height}
}
