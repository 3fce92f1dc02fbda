// Package input defines the discrete input events consumed by the viewer.
// Window layers translate their native callbacks into these events so the
// frame logic never depends on a windowing library.
package input

import "fmt"

// Kind identifies the source of an Event.
type Kind uint8

const (
	KindKey Kind = iota + 1
	KindMouseButton
	KindScroll
)

// Action is the transition reported for keys and mouse buttons.
type Action uint8

const (
	Press Action = iota + 1
	Release
	Repeat
)

func (a Action) String() string {
	switch a {
	case Press:
		return "press"
	case Release:
		return "release"
	case Repeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota + 1
	MouseRight
	MouseMiddle
)

// Event is a single, already-deduplicated input event.
//
// For KindMouseButton events X and Y hold the cursor position at the time of
// the event in normalized device coordinates. For KindScroll events DX and DY
// hold the wheel offsets as reported by the platform.
type Event struct {
	Kind   Kind
	Key    Key
	Button MouseButton
	Action Action
	X, Y   float32
	DX, DY float64
}

// KeyPress returns a press event for k.
func KeyPress(k Key) Event {
	return Event{Kind: KindKey, Key: k, Action: Press}
}

// MouseEvent returns a button event at the given NDC position.
func MouseEvent(b MouseButton, a Action, x, y float32) Event {
	return Event{Kind: KindMouseButton, Button: b, Action: a, X: x, Y: y}
}

// Scroll returns a wheel event.
func Scroll(dx, dy float64) Event {
	return Event{Kind: KindScroll, DX: dx, DY: dy}
}

func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		return fmt.Sprintf("key %s %s", e.Key, e.Action)
	case KindMouseButton:
		return fmt.Sprintf("mouse %d %s at (%.3f, %.3f)", e.Button, e.Action, e.X, e.Y)
	case KindScroll:
		return fmt.Sprintf("scroll (%g, %g)", e.DX, e.DY)
	default:
		return "empty event"
	}
}

// CursorToNDC converts a cursor position in window coordinates (origin top
// left, y down) to normalized device coordinates (origin centre, y up).
// A degenerate window size maps everything to the origin.
func CursorToNDC(cx, cy float64, width, height int) (float32, float32) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	x := 2*cx/float64(width) - 1
	y := 1 - 2*cy/float64(height)
	return float32(x), float32(y)
}
