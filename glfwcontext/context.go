package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goimageviewer/graphics"
	"github.com/richinsley/goimageviewer/input"
	"github.com/richinsley/goimageviewer/options"
	"github.com/richinsley/goimageviewer/viewer"
)

// Context is a GLFW window with an OpenGL 4.1 core context. Key, mouse
// button and scroll callbacks are queued as input events until the next
// call to Events.
type Context struct {
	window *glfw.Window
	events input.Queue
}

var (
	_ graphics.Context = (*Context)(nil)
	_ viewer.Window    = (*Context)(nil)
)

// New creates the window described by opts. The window is not resizable.
func New(opts options.WindowOptions) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{window: win}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetScrollCallback(c.glfwScrollCallback)

	return c, nil
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := translateKey(key)
	if k == input.KeyUnknown {
		return
	}
	c.events.Push(input.Event{Kind: input.KindKey, Key: k, Action: translateAction(action)})
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := translateButton(button)
	if !ok {
		return
	}
	cx, cy := w.GetCursorPos()
	width, height := w.GetSize()
	x, y := input.CursorToNDC(cx, cy, width, height)
	c.events.Push(input.MouseEvent(b, translateAction(action), x, y))
}

func (c *Context) glfwScrollCallback(w *glfw.Window, xoff, yoff float64) {
	c.events.Push(input.Scroll(xoff, yoff))
}

// Events implements viewer.Window.
func (c *Context) Events() []input.Event {
	return c.events.Drain()
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SetShouldClose(v bool) {
	c.window.SetShouldClose(v)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
