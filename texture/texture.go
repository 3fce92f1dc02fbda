// Package texture uploads decoded images to OpenGL textures.
package texture

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goimageviewer/glerr"
	"github.com/richinsley/goimageviewer/imageio"
	"github.com/richinsley/goimageviewer/options"
	"github.com/richinsley/goimageviewer/viewer"
)

// Texture is an RGBA image resident on the GPU.
type Texture struct {
	id     uint32
	target uint32
	width  int
	height int
}

// New creates a texture from img. Rectangle targets are sampled with pixel
// coordinates, 2D targets with normalized ones.
func New(img image.Image, opts options.TextureOptions) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	rgba := imageio.ToRGBA(img)
	if opts.FlipY {
		rgba = imageio.FlipVertical(rgba)
	}

	width := int32(rgba.Rect.Size().X)
	height := int32(rgba.Rect.Size().Y)
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	target := getTarget(opts.Target)
	glerr.Clear()

	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(target, textureID)

	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	minFilter, magFilter := getFilterMode(opts.Filter)
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, magFilter)

	// Rows of odd-width images are not 4-byte aligned in general.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		target,
		0,
		gl.RGBA8,
		width,
		height,
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)

	gl.BindTexture(target, 0)

	// Oversized images fail here with GL_INVALID_VALUE.
	if err := glerr.Check("texture upload"); err != nil {
		gl.DeleteTextures(1, &textureID)
		return nil, fmt.Errorf("%dx%d texture: %w", width, height, err)
	}

	return &Texture{
		id:     textureID,
		target: target,
		width:  int(width),
		height: int(height),
	}, nil
}

func getTarget(target string) uint32 {
	if target == options.Target2D {
		return gl.TEXTURE_2D
	}
	return gl.TEXTURE_RECTANGLE
}

// Rectangle textures do not support mipmaps, so only the plain filters apply.
func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case "nearest":
		return gl.NEAREST, gl.NEAREST
	default:
		return gl.LINEAR, gl.LINEAR
	}
}

func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// Bind attaches the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(t.target, t.id)
}

func (t *Texture) Unbind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(t.target, 0)
}

// Release deletes the GL texture. Calling it twice is a no-op.
func (t *Texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// Loader decodes image files and uploads them as textures.
type Loader struct {
	decoder imageio.Decoder
	opts    options.TextureOptions
}

var _ viewer.ImageLoader = (*Loader)(nil)

func NewLoader(decode options.DecodeOptions, tex options.TextureOptions) *Loader {
	return &Loader{
		decoder: imageio.Decoder{FFmpeg: decode.FFmpeg, FFmpegPath: decode.FFmpegPath},
		opts:    tex,
	}
}

// Load implements viewer.ImageLoader. Must be called on the thread owning
// the GL context.
func (l *Loader) Load(path string) (viewer.Texture, error) {
	img, err := l.decoder.Decode(path)
	if err != nil {
		return nil, err
	}
	tex, err := New(img, l.opts)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", path, err)
	}
	return tex, nil
}
