// Package imageio decodes image files into RGBA pixel buffers.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"log"
	"os"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrNotFound is returned when the image file does not exist.
	ErrNotFound = errors.New("image not found")
	// ErrDecode is returned when the file exists but cannot be decoded.
	ErrDecode = errors.New("image decode failed")
)

// Decoder reads image files. The zero value decodes the formats registered
// with the image package (PNG, JPEG, GIF, BMP, TIFF, WebP).
type Decoder struct {
	// FFmpeg enables a fallback that converts unsupported formats to PNG by
	// piping the file through ffmpeg.
	FFmpeg     bool
	FFmpegPath string
}

// Decode reads path with the default decoder.
func Decode(path string) (*image.RGBA, error) {
	return Decoder{}.Decode(path)
}

// Decode reads path and returns its pixels with the origin at (0, 0).
func (d Decoder) Decode(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if !d.FFmpeg || !errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
		}
		log.Printf("Decoding %s with ffmpeg", path)
		img, err = d.decodeFFmpeg(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
		}
	}

	return ToRGBA(img), nil
}

// decodeFFmpeg asks ffmpeg to re-encode the first frame of path as PNG on
// stdout.
func (d Decoder) decodeFFmpeg(path string) (image.Image, error) {
	buf := &bytes.Buffer{}
	cmd := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"f":        "image2pipe",
			"vcodec":   "png",
			"frames:v": 1,
		}).
		WithOutput(buf)
	if d.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(d.FFmpegPath)
	}
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}
	return png.Decode(buf)
}

// ToRGBA converts img to an *image.RGBA whose bounds start at (0, 0). An
// RGBA image already at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// FlipVertical returns a copy of src with its rows in reverse order.
func FlipVertical(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}
