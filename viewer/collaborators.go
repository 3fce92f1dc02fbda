package viewer

import (
	"time"

	"github.com/richinsley/goimageviewer/input"
)

// Texture is an image resident on the GPU.
type Texture interface {
	// Size returns the pixel dimensions of the image.
	Size() (width, height int)
	Bind(unit uint32)
	Unbind(unit uint32)
	Release()
}

// ImageLoader turns a file path into a texture.
type ImageLoader interface {
	Load(path string) (Texture, error)
}

// Surface is the shading stage: one fixed program drawing one quad.
type Surface interface {
	// SetTexCoords replaces the texture coordinates of the quad.
	SetTexCoords(coords [QuadVertexCount][2]float32) error
	// Draw clears the frame and draws the quad with tex bound. A nil tex
	// only clears.
	Draw(tex Texture, u Uniforms) error
}

// Window is the platform side of the frame loop.
type Window interface {
	// Events returns the events gathered since the previous call.
	Events() []input.Event
	ShouldClose() bool
	SetShouldClose(bool)
	// EndFrame presents the frame and polls the platform for new events.
	EndFrame()
}

// ChangeSource reports files that changed on disk since the previous call.
type ChangeSource interface {
	Changed() []string
}

// ShaderReloader is implemented by surfaces able to rebuild their program
// from the files they were built from.
type ShaderReloader interface {
	ShaderFiles() []string
	Reload() error
}

// FrameSample describes one completed tick.
type FrameSample struct {
	Frame        int64
	Duration     time.Duration
	Events       int
	Reloaded     bool
	RenderFailed bool
	Effect       string
	Zoom         float32
}

// FrameRecorder receives a sample after every tick.
type FrameRecorder interface {
	Record(s FrameSample)
}
