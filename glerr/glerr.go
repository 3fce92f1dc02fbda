// Package glerr reports OpenGL error flags as Go errors.
package glerr

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLError reports the error flags raised by an OpenGL operation.
type GLError struct {
	Op    string
	Codes []uint32
}

func (e *GLError) Error() string {
	names := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		names[i] = errorName(c)
	}
	return fmt.Sprintf("OpenGL error during %s: %s", e.Op, strings.Join(names, ", "))
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case gl.STACK_UNDERFLOW:
		return "GL_STACK_UNDERFLOW"
	case gl.STACK_OVERFLOW:
		return "GL_STACK_OVERFLOW"
	default:
		return fmt.Sprintf("0x%04x", code)
	}
}

// maxErrorPolls bounds Check when a lost context keeps returning errors.
const maxErrorPolls = 16

// Check drains the GL error queue. It returns nil when no flag was set.
func Check(op string) error {
	var codes []uint32
	for i := 0; i < maxErrorPolls; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil
	}
	return &GLError{Op: op, Codes: codes}
}

// Clear discards pending error flags so the next Check reports only what
// follows.
func Clear() {
	for i := 0; i < maxErrorPolls; i++ {
		if gl.GetError() == gl.NO_ERROR {
			return
		}
	}
}
