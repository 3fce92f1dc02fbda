package viewer

import (
	"log"
	"time"
)

// Phase is the position of the controller inside a tick.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInputApplied
	PhaseImageSynced
	PhaseRendered
)

func (p Phase) String() string {
	switch p {
	case PhaseInputApplied:
		return "input-applied"
	case PhaseImageSynced:
		return "image-synced"
	case PhaseRendered:
		return "rendered"
	default:
		return "idle"
	}
}

// Controller runs the frame loop. It owns the view and effect state for the
// lifetime of the application.
type Controller struct {
	window     Window
	loader     ImageLoader
	surface    Surface
	dispatcher *Dispatcher
	changes    ChangeSource
	recorder   FrameRecorder
	now        func() time.Time

	view   ViewState
	effect EffectState

	texture    Texture
	syncedPath string
	// failedPath is not retried until the selection moves away from it or
	// the file is reported changed.
	failedPath string

	phase Phase
	frame int64
	// onPhase, when set, observes every phase transition.
	onPhase func(Phase)
}

// Option configures optional collaborators of a Controller.
type Option func(*Controller)

// WithChangeSource makes the controller re-read the current image, and
// rebuild the shader program, when files change on disk.
func WithChangeSource(s ChangeSource) Option {
	return func(c *Controller) { c.changes = s }
}

// WithRecorder reports a FrameSample after every tick.
func WithRecorder(r FrameRecorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// New returns a controller in its startup state, showing the dispatcher's
// default preset with no effect.
func New(w Window, loader ImageLoader, surface Surface, d *Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		window:     w,
		loader:     loader,
		surface:    surface,
		dispatcher: d,
		now:        time.Now,
		view:       NewViewState(d.DefaultImage()),
		effect:     DefaultEffectState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) View() ViewState     { return c.view }
func (c *Controller) Effect() EffectState { return c.effect }
func (c *Controller) Phase() Phase        { return c.phase }

// Frame returns the number of completed ticks.
func (c *Controller) Frame() int64 { return c.frame }

// Texture returns the texture currently drawn, or nil before the first
// successful load.
func (c *Controller) Texture() Texture { return c.texture }

// Invalidate forces the current image to be loaded again on the next tick.
func (c *Controller) Invalidate() {
	c.syncedPath = ""
	c.failedPath = ""
}

// Run ticks until the window is asked to close. Events for the next tick are
// polled at the end of each iteration.
func (c *Controller) Run() {
	for !c.window.ShouldClose() {
		c.Tick()
		c.window.EndFrame()
	}
	log.Printf("Frame loop finished after %d frames", c.frame)
}

// Tick runs one Idle -> InputApplied -> ImageSynced -> Rendered -> Idle cycle.
func (c *Controller) Tick() {
	start := c.now()

	events := c.applyInput()
	c.setPhase(PhaseInputApplied)

	reloaded := c.syncImage()
	c.setPhase(PhaseImageSynced)

	err := c.surface.Draw(c.texture, ComputeUniforms(c.view, c.effect))
	if err != nil {
		log.Printf("Warning: frame %d: %v", c.frame, err)
	}
	c.setPhase(PhaseRendered)

	if c.recorder != nil {
		c.recorder.Record(FrameSample{
			Frame:        c.frame,
			Duration:     c.now().Sub(start),
			Events:       events,
			Reloaded:     reloaded,
			RenderFailed: err != nil,
			Effect:       c.effect.String(),
			Zoom:         c.view.Zoom,
		})
	}
	c.frame++
	c.setPhase(PhaseIdle)
}

func (c *Controller) setPhase(p Phase) {
	c.phase = p
	if c.onPhase != nil {
		c.onPhase(p)
	}
}

// applyInput drains pending events and file changes. It returns the number
// of input events applied.
func (c *Controller) applyInput() int {
	events := c.window.Events()
	for _, ev := range events {
		if c.dispatcher.Apply(ev, &c.view, &c.effect) {
			log.Println("Exit requested")
			c.window.SetShouldClose(true)
		}
	}
	if c.changes != nil {
		c.applyChanges(c.changes.Changed())
	}
	return len(events)
}

func (c *Controller) applyChanges(paths []string) {
	if len(paths) == 0 {
		return
	}
	reloader, _ := c.surface.(ShaderReloader)
	var shaderFiles map[string]bool
	if reloader != nil {
		shaderFiles = make(map[string]bool)
		for _, f := range reloader.ShaderFiles() {
			shaderFiles[f] = true
		}
	}

	rebuild := false
	for _, p := range paths {
		switch {
		case p == c.view.ImagePath:
			log.Printf("Image %s changed on disk", p)
			c.Invalidate()
		case shaderFiles[p]:
			rebuild = true
		}
	}
	if rebuild {
		if err := reloader.Reload(); err != nil {
			log.Printf("Warning: shader reload failed, keeping previous program: %v", err)
		} else {
			log.Println("Shader program reloaded")
		}
	}
}

// syncImage loads the selected image if it differs from the one on screen.
// It reports whether a new texture was installed.
func (c *Controller) syncImage() bool {
	path := c.view.ImagePath
	if path == c.syncedPath {
		c.failedPath = ""
		return false
	}
	if path == c.failedPath {
		return false
	}

	tex, err := c.loader.Load(path)
	if err != nil {
		log.Printf("Warning: keeping previous image, failed to load %s: %v", path, err)
		c.failedPath = path
		return false
	}

	width, height := tex.Size()
	if err := c.surface.SetTexCoords(QuadTexCoords(width, height)); err != nil {
		log.Printf("Warning: updating quad for %s: %v", path, err)
	}
	if c.texture != nil {
		c.texture.Release()
	}
	c.texture = tex
	c.syncedPath = path
	c.failedPath = ""
	log.Printf("Loaded image %s (%dx%d)", path, width, height)
	return true
}

// Close releases the current texture.
func (c *Controller) Close() {
	if c.texture != nil {
		c.texture.Release()
		c.texture = nil
	}
	c.syncedPath = ""
}
