package glfwcontext

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goimageviewer/input"
)

var keyMap = map[glfw.Key]input.Key{
	glfw.Key0: input.Key0,
	glfw.Key1: input.Key1,
	glfw.Key2: input.Key2,
	glfw.Key3: input.Key3,
	glfw.Key4: input.Key4,
	glfw.Key5: input.Key5,
	glfw.Key6: input.Key6,
	glfw.Key7: input.Key7,
	glfw.Key8: input.Key8,
	glfw.Key9: input.Key9,

	glfw.KeyUp:     input.KeyUp,
	glfw.KeyDown:   input.KeyDown,
	glfw.KeyLeft:   input.KeyLeft,
	glfw.KeyRight:  input.KeyRight,
	glfw.KeyEscape: input.KeyEscape,
	glfw.KeySpace:  input.KeySpace,
	glfw.KeyEnter:  input.KeyEnter,
}

func init() {
	// GLFW letter keys are their upper case ASCII codes.
	for r := 'A'; r <= 'Z'; r++ {
		keyMap[glfw.Key(r)] = input.KeyForRune(r)
	}
}

func translateKey(k glfw.Key) input.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return input.KeyUnknown
}

func translateAction(a glfw.Action) input.Action {
	switch a {
	case glfw.Press:
		return input.Press
	case glfw.Release:
		return input.Release
	default:
		return input.Repeat
	}
}

func translateButton(b glfw.MouseButton) (input.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return input.MouseLeft, true
	case glfw.MouseButtonRight:
		return input.MouseRight, true
	case glfw.MouseButtonMiddle:
		return input.MouseMiddle, true
	default:
		return 0, false
	}
}
