// Package viewer holds the per-frame state machine of the image viewer: the
// view and effect parameters, the key dispatch table that mutates them and
// the controller that turns them into one draw call per frame.
package viewer

import (
	"github.com/chewxy/math32"
)

const (
	// ZoomStep is the multiplicative zoom change per key press or wheel notch.
	ZoomStep float32 = 1.2
	// PanStep is the horizontal pan change per arrow key press, in NDC units.
	PanStep float32 = 0.1
	// RotationStep is the rotation added per R press.
	RotationStep float32 = math32.Pi / 3
)

// ViewState is the geometric view of the current image.
type ViewState struct {
	// Zoom is ZoomStep raised to the number of net zoom-in steps. It is
	// never clamped.
	Zoom float32
	// Pan is the image offset in normalized device coordinates.
	Pan [2]float32
	// Rotation in radians. It accumulates and is never wrapped.
	Rotation float32
	// ImagePath is the preset currently selected for display.
	ImagePath string

	zoomSteps int
}

// NewViewState returns the startup view showing path.
func NewViewState(path string) ViewState {
	return ViewState{Zoom: 1, ImagePath: path}
}

// SelectImage switches to path and resets the zoom.
func (v *ViewState) SelectImage(path string) {
	v.ImagePath = path
	v.zoomSteps = 0
	v.Zoom = 1
}

// Zoom is recomputed from the step count so that any sequence of presses
// cancelling out returns exactly to 1.
func (v *ViewState) ZoomIn()  { v.setZoomSteps(v.zoomSteps + 1) }
func (v *ViewState) ZoomOut() { v.setZoomSteps(v.zoomSteps - 1) }

func (v *ViewState) setZoomSteps(n int) {
	v.zoomSteps = n
	v.Zoom = math32.Pow(ZoomStep, float32(n))
}

// Nudge moves the image horizontally. The vertical component is only ever
// set by a pointer press.
func (v *ViewState) Nudge(dx float32) {
	v.Pan[0] += dx
}

// PanTo overwrites the pan offset.
func (v *ViewState) PanTo(x, y float32) {
	v.Pan = [2]float32{x, y}
}

func (v *ViewState) Rotate() {
	v.Rotation += RotationStep
}
