// Package shader provides the viewer's GLSL sources.
package shader

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed vertex.glsl
var vertexSource string

//go:embed fragment.glsl
var fragmentSource string

// Uniforms lists every uniform the renderer sets, in the order it sets them.
var Uniforms = []string{"tex", "zoom", "shift", "theta", "luminance", "sepia", "sob", "gauss"}

// Define2D selects the sampler2D code path of the built-in fragment shader.
const Define2D = "TEXTURE_2D"

// Source is a vertex/fragment pair. The paths are empty for built-in sources.
type Source struct {
	Vertex       string
	Fragment     string
	VertexPath   string
	FragmentPath string
}

// Builtin returns the sources compiled into the binary.
func Builtin() Source {
	return Source{Vertex: vertexSource, Fragment: fragmentSource}
}

// Load reads the shader files. An empty path falls back to the built-in
// source for that stage.
func Load(vertexPath, fragmentPath string) (Source, error) {
	src := Builtin()
	if vertexPath != "" {
		data, err := os.ReadFile(vertexPath)
		if err != nil {
			return Source{}, fmt.Errorf("could not load vertex shader: %w", err)
		}
		src.Vertex = string(data)
		src.VertexPath = vertexPath
	}
	if fragmentPath != "" {
		data, err := os.ReadFile(fragmentPath)
		if err != nil {
			return Source{}, fmt.Errorf("could not load fragment shader: %w", err)
		}
		src.Fragment = string(data)
		src.FragmentPath = fragmentPath
	}
	return src, nil
}

// Files returns the on-disk paths the source was read from.
func (s Source) Files() []string {
	var files []string
	if s.VertexPath != "" {
		files = append(files, s.VertexPath)
	}
	if s.FragmentPath != "" {
		files = append(files, s.FragmentPath)
	}
	return files
}

// versionLine returns the #version directive of src and the offset just
// past its line, or "" and 0 when src has none. Only blank lines and line
// comments may precede the directive.
func versionLine(src string) (string, int) {
	offset := 0
	for offset < len(src) {
		end := strings.IndexByte(src[offset:], '\n')
		next := len(src)
		if end >= 0 {
			next = offset + end + 1
		}
		line := strings.TrimSpace(src[offset:next])
		switch {
		case line == "" || strings.HasPrefix(line, "//"):
			offset = next
		case strings.HasPrefix(line, "#version"):
			return line, next
		default:
			return "", 0
		}
	}
	return "", 0
}

// IsESSL reports whether src is written for OpenGL ES 3.0.
func IsESSL(src string) bool {
	version, _ := versionLine(src)
	fields := strings.Fields(version)
	return len(fields) == 3 && fields[1] == "300" && fields[2] == "es"
}

// InjectDefines adds a #define for each name directly after the #version
// directive, or at the top when there is none.
func InjectDefines(src string, defines ...string) string {
	if len(defines) == 0 {
		return src
	}
	var b strings.Builder
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	block := b.String()

	version, i := versionLine(src)
	if version == "" {
		return block + src
	}
	if src[i-1] != '\n' {
		return src + "\n" + block
	}
	return src[:i] + block + src[i:]
}

// Translator converts ESSL sources to desktop GLSL. It returns the new
// source and a map from declared uniform names to the names in the output.
type Translator interface {
	Translate(source, stage string) (string, map[string]string, error)
}

// Program is a pair of sources ready for compilation.
type Program struct {
	Vertex   string
	Fragment string
	names    map[string]string
}

// Name returns the GL name of a declared uniform.
func (p *Program) Name(uniform string) string {
	if mapped, ok := p.names[uniform]; ok && mapped != "" {
		return mapped
	}
	return uniform
}

// Prepare injects defines and translates ESSL stages. tr may be nil when
// neither stage is ESSL.
func Prepare(src Source, tr Translator, defines ...string) (*Program, error) {
	p := &Program{names: make(map[string]string)}

	stages := []struct {
		name string
		in   string
		out  *string
	}{
		{"vertex", src.Vertex, &p.Vertex},
		{"fragment", src.Fragment, &p.Fragment},
	}
	for _, s := range stages {
		code := InjectDefines(s.in, defines...)
		if IsESSL(code) {
			if tr == nil {
				return nil, fmt.Errorf("%s shader is ESSL but no translator is available", s.name)
			}
			translated, names, err := tr.Translate(code, s.name)
			if err != nil {
				return nil, fmt.Errorf("%s shader translation failed: %w", s.name, err)
			}
			code = translated
			for k, v := range names {
				p.names[k] = v
			}
		}
		*s.out = code
	}
	return p, nil
}
