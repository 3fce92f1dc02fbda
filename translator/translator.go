package translator

import (
	"context"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once       sync.Once
	translator *gst.ShaderTranslator
	initErr    error
)

// GetTranslator returns the process wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// GLSL410 translates WebGL2 (ESSL 3.00) shaders to desktop GLSL 4.10.
type GLSL410 struct{}

func (GLSL410) Translate(source, stage string) (string, map[string]string, error) {
	tr, err := GetTranslator()
	if err != nil {
		return "", nil, err
	}
	res, err := tr.TranslateShader(source, stage, gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return "", nil, err
	}
	names := make(map[string]string, len(res.Variables))
	for name, v := range res.Variables {
		names[name] = v.MappedName
	}
	return res.Code, names, nil
}
