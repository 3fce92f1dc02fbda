// Package renderer draws the image quad with the effect shader program.
package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goimageviewer/glerr"
	"github.com/richinsley/goimageviewer/graphics"
	"github.com/richinsley/goimageviewer/shader"
	"github.com/richinsley/goimageviewer/viewer"
)

var glInitOnce sync.Once

// Background grey behind the quad.
const clearGrey = 0.2

// Renderer implements viewer.Surface and viewer.ShaderReloader.
type Renderer struct {
	context    graphics.Context
	source     shader.Source
	translator shader.Translator
	defines    []string
	program    *program
	quadVAO    uint32
	vertexVBO  uint32
	uvVBO      uint32
}

var (
	_ viewer.Surface        = (*Renderer)(nil)
	_ viewer.ShaderReloader = (*Renderer)(nil)
)

// New makes ctx current, loads the GL bindings and builds the program and
// quad. defines are injected into both shader stages.
func New(ctx graphics.Context, src shader.Source, tr shader.Translator, defines ...string) (*Renderer, error) {
	r := &Renderer{
		context:    ctx,
		source:     src,
		translator: tr,
		defines:    defines,
	}

	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL %s, GLSL %s, %s",
		gl.GoStr(gl.GetString(gl.VERSION)),
		gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		gl.GoStr(gl.GetString(gl.RENDERER)))

	var err error
	r.program, err = buildProgram(src, tr, defines)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.initQuad()
	if err := glerr.Check("quad setup"); err != nil {
		r.Shutdown()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) initQuad() {
	vertices := flatten(viewer.QuadVertices)

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.vertexVBO)
	gl.GenBuffers(1, &r.uvVBO)
	gl.BindVertexArray(r.quadVAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vertexVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))

	// Texture coordinates change with every image, so they live in their
	// own buffer.
	uvs := flatten(viewer.QuadTexCoords(1, 1))
	gl.BindBuffer(gl.ARRAY_BUFFER, r.uvVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(uvs)*4, gl.Ptr(uvs), gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func flatten(points [viewer.QuadVertexCount][2]float32) []float32 {
	out := make([]float32, 0, len(points)*2)
	for _, p := range points {
		out = append(out, p[0], p[1])
	}
	return out
}

// SetTexCoords implements viewer.Surface.
func (r *Renderer) SetTexCoords(coords [viewer.QuadVertexCount][2]float32) error {
	uvs := flatten(coords)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.uvVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(uvs)*4, gl.Ptr(uvs))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return glerr.Check("texture coordinate upload")
}

// Draw implements viewer.Surface.
func (r *Renderer) Draw(tex viewer.Texture, u viewer.Uniforms) error {
	width, height := r.context.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(clearGrey, clearGrey, clearGrey, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	if tex == nil {
		return glerr.Check("clear")
	}

	gl.UseProgram(r.program.id)
	unit := uint32(u.TextureUnit)
	tex.Bind(unit)
	r.setUniforms(u)

	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, viewer.QuadVertexCount)

	// reset state to default
	gl.BindVertexArray(0)
	tex.Unbind(unit)
	gl.UseProgram(0)

	return glerr.Check("draw")
}

func (r *Renderer) setUniforms(u viewer.Uniforms) {
	p := r.program
	gl.Uniform1i(p.loc("tex"), u.TextureUnit)
	gl.Uniform1f(p.loc("zoom"), u.Zoom)
	gl.Uniform2f(p.loc("shift"), u.Shift[0], u.Shift[1])
	gl.Uniform1f(p.loc("theta"), u.Theta)
	gl.Uniform3f(p.loc("luminance"), u.Luminance[0], u.Luminance[1], u.Luminance[2])
	gl.Uniform1i(p.loc("sepia"), u.Sepia)
	gl.Uniform1i(p.loc("sob"), u.Sobel)
	gl.Uniform1i(p.loc("gauss"), u.Gauss)
}

// ShaderFiles implements viewer.ShaderReloader.
func (r *Renderer) ShaderFiles() []string {
	return r.source.Files()
}

// Reload rebuilds the program from the shader files. On failure the
// current program stays in use.
func (r *Renderer) Reload() error {
	src, err := shader.Load(r.source.VertexPath, r.source.FragmentPath)
	if err != nil {
		return err
	}
	p, err := buildProgram(src, r.translator, r.defines)
	if err != nil {
		return err
	}
	r.program.delete()
	r.program = p
	r.source = src
	log.Printf("Rebuilt shader program from %v", src.Files())
	return nil
}

// Shutdown releases the quad and the program.
func (r *Renderer) Shutdown() {
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
	buffers := []uint32{r.vertexVBO, r.uvVBO}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	r.vertexVBO, r.uvVBO = 0, 0
	r.program.delete()
}
