package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/richinsley/goimageviewer/effects"
	"github.com/richinsley/goimageviewer/imageio"
	"github.com/richinsley/goimageviewer/input"
	"github.com/richinsley/goimageviewer/options"
	"github.com/richinsley/goimageviewer/viewer"
)

// replay applies the effect keys in seq, in order, to the default state.
func replay(d *viewer.Dispatcher, seq string) (viewer.EffectState, error) {
	view := viewer.NewViewState(d.DefaultImage())
	effect := viewer.DefaultEffectState()
	for _, r := range seq {
		k := input.KeyForRune(r)
		if k == input.KeyUnknown || !d.Handles(k) {
			return effect, fmt.Errorf("no binding for key %q", r)
		}
		d.Apply(input.KeyPress(k), &view, &effect)
	}
	return effect, nil
}

func main() {
	var configPath = flag.String("config", "", "Path to a YAML configuration file")
	var keys = flag.String("keys", "", "Effect keys to apply, e.g. \"S\" or \"0L\"")
	var output = flag.String("o", "out.png", "Output PNG file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: imgfx [-config file] [-keys SEQ] [-o out.png] input\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	opts, err := options.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	d, err := viewer.NewDispatcher(opts.Images)
	if err != nil {
		log.Fatalf("%v", err)
	}

	effect, err := replay(d, strings.ToUpper(*keys))
	if err != nil {
		log.Fatalf("%v", err)
	}

	decoder := imageio.Decoder{FFmpeg: opts.Decode.FFmpeg, FFmpegPath: opts.Decode.FFmpegPath}
	img, err := decoder.Decode(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", err)
	}

	out := effects.Apply(img, effect)
	if err := imgio.Save(*output, out, imgio.PNGEncoder()); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	log.Printf("Wrote %s (%s)", *output, effect)
}
