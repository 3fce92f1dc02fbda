// Package effects renders the viewer's effect presets on the CPU.
package effects

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/richinsley/goimageviewer/imageio"
	"github.com/richinsley/goimageviewer/viewer"
)

var (
	sobelX = []float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}
	sobelY = []float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}
)

// Apply returns img with the effects of e applied in the same order as
// the fragment shader: edge kernel, blur, luminance, sepia.
func Apply(img image.Image, e viewer.EffectState) *image.RGBA {
	out := imageio.ToRGBA(img)

	switch e.Edge {
	case viewer.EdgeKernel1:
		out = absConvolve(out, sobelX)
	case viewer.EdgeKernel2:
		out = absConvolve(out, sobelY)
	case viewer.EdgeKernel3:
		out = effect.Sharpen(out)
	}

	if e.Blur != viewer.BlurNone {
		out = Gaussian(out, int(e.Blur))
	}

	if e.Luminance != viewer.NeutralLuminance {
		out = Grayscale(out, e.Luminance)
	}

	if e.Sepia {
		out = effect.Sepia(out)
	}
	return out
}

func convolutionOptions() *convolution.Options {
	return &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
}

// absConvolve convolves with k and -k and sums the clamped results, which
// gives |k * img| per channel.
func absConvolve(img *image.RGBA, k []float64) *image.RGBA {
	neg := make([]float64, len(k))
	for i, v := range k {
		neg[i] = -v
	}
	pos := convolution.Convolve(img, &convolution.Kernel{Matrix: k, Width: 3, Height: 3}, convolutionOptions())
	inv := convolution.Convolve(img, &convolution.Kernel{Matrix: neg, Width: 3, Height: 3}, convolutionOptions())
	out := blend.Add(pos, inv)
	restoreAlpha(out, img)
	return out
}

func restoreAlpha(dst, src *image.RGBA) {
	for i := 3; i < len(dst.Pix) && i < len(src.Pix); i += 4 {
		dst.Pix[i] = src.Pix[i]
	}
}

// GaussianKernel returns a normalized size×size kernel with sigma size/3.
func GaussianKernel(size int) *convolution.Kernel {
	k := convolution.NewKernel(size, size)
	r := size / 2
	sigma := float64(size) / 3
	var total float64
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			w := math.Exp(-float64(x*x+y*y) / (2 * sigma * sigma))
			k.Matrix[(y+r)*size+(x+r)] = w
			total += w
		}
	}
	for i := range k.Matrix {
		k.Matrix[i] /= total
	}
	return k
}

// Gaussian blurs img with a size×size kernel. Sizes below 2 return img.
func Gaussian(img *image.RGBA, size int) *image.RGBA {
	if size < 2 {
		return img
	}
	return convolution.Convolve(img, GaussianKernel(size), convolutionOptions())
}

// Grayscale replaces each pixel with the weighted sum of its channels.
func Grayscale(img *image.RGBA, w viewer.Luminance) *image.RGBA {
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		l := float64(w[0])*float64(c.R) + float64(w[1])*float64(c.G) + float64(w[2])*float64(c.B)
		v := uint8(math.Min(math.Max(math.Round(l), 0), 255))
		return color.RGBA{R: v, G: v, B: v, A: c.A}
	})
}
