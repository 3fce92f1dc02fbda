package viewer

import (
	"fmt"

	"github.com/richinsley/goimageviewer/input"
)

// PresetCount is the number of images selectable with the digit keys.
const PresetCount = 6

// target is what a key handler may touch.
type target struct {
	view   *ViewState
	effect *EffectState
	exit   bool
}

type keyHandler func(t *target)

// Dispatcher maps input events onto a ViewState/EffectState pair. Key
// handling is a lookup table; keys without an entry are ignored.
type Dispatcher struct {
	presets []string
	keys    map[input.Key]keyHandler
}

// NewDispatcher builds the dispatch table for the given image presets.
// Digit key N selects presets[N-1].
func NewDispatcher(presets []string) (*Dispatcher, error) {
	if len(presets) != PresetCount {
		return nil, fmt.Errorf("need %d image presets, got %d", PresetCount, len(presets))
	}
	d := &Dispatcher{
		presets: append([]string(nil), presets...),
		keys:    make(map[input.Key]keyHandler),
	}

	for i, path := range d.presets {
		path := path
		d.keys[input.DigitKey(i+1)] = func(t *target) { t.view.SelectImage(path) }
	}

	d.keys[input.KeyUp] = func(t *target) { t.view.ZoomIn() }
	d.keys[input.KeyDown] = func(t *target) { t.view.ZoomOut() }
	d.keys[input.KeyRight] = func(t *target) { t.view.Nudge(PanStep) }
	d.keys[input.KeyLeft] = func(t *target) { t.view.Nudge(-PanStep) }
	d.keys[input.KeyR] = func(t *target) { t.view.Rotate() }

	d.keys[input.KeyA] = grayscale(LuminanceAverage)
	d.keys[input.KeyS] = grayscale(LuminanceBT601)
	d.keys[input.KeyD] = grayscale(LuminanceLinear)
	d.keys[input.KeyF] = func(t *target) { t.effect.EnableSepia() }
	d.keys[input.Key0] = func(t *target) { t.effect.Reset() }

	d.keys[input.KeyH] = edge(EdgeKernel1)
	d.keys[input.KeyJ] = edge(EdgeKernel2)
	d.keys[input.KeyK] = edge(EdgeKernel3)

	d.keys[input.KeyL] = blur(BlurSize3)
	d.keys[input.KeyQ] = blur(BlurSize5)
	d.keys[input.KeyW] = blur(BlurSize7)

	d.keys[input.KeyEscape] = func(t *target) { t.exit = true }
	return d, nil
}

func grayscale(l Luminance) keyHandler {
	return func(t *target) { t.effect.SetGrayscale(l) }
}

func edge(m EdgeMode) keyHandler {
	return func(t *target) { t.effect.SetEdge(m) }
}

func blur(m BlurMode) keyHandler {
	return func(t *target) { t.effect.SetBlur(m) }
}

// Presets returns a copy of the preset paths.
func (d *Dispatcher) Presets() []string {
	return append([]string(nil), d.presets...)
}

// DefaultImage is the preset shown at startup.
func (d *Dispatcher) DefaultImage() string {
	return d.presets[0]
}

// Handles reports whether k has an entry in the key table.
func (d *Dispatcher) Handles(k input.Key) bool {
	_, ok := d.keys[k]
	return ok
}

// Apply applies one event to view and effect. It reports whether the event
// requested application exit.
func (d *Dispatcher) Apply(ev input.Event, view *ViewState, effect *EffectState) bool {
	t := target{view: view, effect: effect}
	switch ev.Kind {
	case input.KindKey:
		if ev.Action != input.Press {
			return false
		}
		if h, ok := d.keys[ev.Key]; ok {
			h(&t)
		}
	case input.KindMouseButton:
		if ev.Button == input.MouseLeft && ev.Action == input.Press {
			view.PanTo(ev.X, ev.Y)
		}
	case input.KindScroll:
		// Only an offset of exactly -1 zooms in; every other offset zooms out.
		if ev.DY == -1 {
			view.ZoomIn()
		} else {
			view.ZoomOut()
		}
	}
	return t.exit
}
