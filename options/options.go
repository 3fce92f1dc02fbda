// Package options loads the viewer configuration.
package options

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ImageCount is the number of presets the digit keys select from.
const ImageCount = 6

// Texture targets accepted in TextureOptions.Target.
const (
	TargetRectangle = "rectangle"
	Target2D        = "2d"
)

// ViewerOptions holds every configurable setting of the viewer.
type ViewerOptions struct {
	Window    WindowOptions    `yaml:"window"`
	Shaders   ShaderOptions    `yaml:"shaders"`
	Images    []string         `yaml:"images"`
	Texture   TextureOptions   `yaml:"texture"`
	Decode    DecodeOptions    `yaml:"decode"`
	Watch     WatchOptions     `yaml:"watch"`
	Telemetry TelemetryOptions `yaml:"telemetry"`
}

type WindowOptions struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ShaderOptions points at GLSL sources on disk. Empty paths select the
// built-in sources.
type ShaderOptions struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

type TextureOptions struct {
	Target string `yaml:"target"` // "rectangle" or "2d"
	FlipY  bool   `yaml:"flip_y"` // upload row 0 at the top of the window
	Filter string `yaml:"filter"` // "linear" or "nearest"
}

// DecodeOptions controls the ffmpeg fallback for formats Go cannot decode.
type DecodeOptions struct {
	FFmpeg     bool   `yaml:"ffmpeg"`
	FFmpegPath string `yaml:"ffmpeg_path"`
}

type WatchOptions struct {
	Enabled bool `yaml:"enabled"`
}

type TelemetryOptions struct {
	FrameLog   string `yaml:"frame_log"`   // CSV path, empty disables
	FlushEvery int    `yaml:"flush_every"` // frames buffered between writes
}

// Default returns the built-in configuration.
func Default() (*ViewerOptions, error) {
	return Load("")
}

// Load reads the embedded defaults and overlays the YAML file at path, if
// any. Only the fields present in the file are overwritten.
func Load(path string) (*ViewerOptions, error) {
	opts := &ViewerOptions{}
	if err := yaml.Unmarshal(defaultsYAML, opts); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Overlay(opts, data); err != nil {
			return nil, err
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Overlay unmarshals data on top of opts.
func Overlay(opts *ViewerOptions, data []byte) error {
	// A list in the file replaces the default list rather than merging into it.
	var probe struct {
		Images []string `yaml:"images"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if probe.Images != nil {
		opts.Images = nil
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (o *ViewerOptions) Validate() error {
	if o.Window.Width <= 0 || o.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", o.Window.Width, o.Window.Height)
	}
	if len(o.Images) != ImageCount {
		return fmt.Errorf("need exactly %d image presets, got %d", ImageCount, len(o.Images))
	}
	for i, p := range o.Images {
		if p == "" {
			return fmt.Errorf("image preset %d is empty", i+1)
		}
	}
	switch o.Texture.Target {
	case TargetRectangle, Target2D:
	default:
		return fmt.Errorf("unknown texture target %q", o.Texture.Target)
	}
	switch o.Texture.Filter {
	case "linear", "nearest":
	default:
		return fmt.Errorf("unknown texture filter %q", o.Texture.Filter)
	}
	if o.Telemetry.FlushEvery < 1 {
		o.Telemetry.FlushEvery = 1
	}
	return nil
}

// WriteYAML saves the options to path.
func (o *ViewerOptions) WriteYAML(path string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing options: %w", err)
	}
	return nil
}
