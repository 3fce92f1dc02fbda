package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/richinsley/goimageviewer/glfwcontext"
	"github.com/richinsley/goimageviewer/options"
	"github.com/richinsley/goimageviewer/renderer"
	"github.com/richinsley/goimageviewer/shader"
	"github.com/richinsley/goimageviewer/telemetry"
	"github.com/richinsley/goimageviewer/texture"
	"github.com/richinsley/goimageviewer/translator"
	"github.com/richinsley/goimageviewer/viewer"
	"github.com/richinsley/goimageviewer/watch"
)

func init() {
	runtime.LockOSThread()
}

func run(opts *options.ViewerOptions) error {
	src, err := shader.Load(opts.Shaders.Vertex, opts.Shaders.Fragment)
	if err != nil {
		return err
	}

	dispatcher, err := viewer.NewDispatcher(opts.Images)
	if err != nil {
		return err
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(opts.Window)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Shutdown()

	var defines []string
	if opts.Texture.Target == options.Target2D {
		defines = append(defines, shader.Define2D)
	}
	r, err := renderer.New(win, src, translator.GLSL410{}, defines...)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	var controllerOpts []viewer.Option
	if opts.Watch.Enabled {
		paths := append(append([]string{}, opts.Images...), src.Files()...)
		w, err := watch.New(paths...)
		if err != nil {
			return err
		}
		defer w.Close()
		controllerOpts = append(controllerOpts, viewer.WithChangeSource(w))
		log.Printf("Watching %d files for changes", len(paths))
	}

	frameLog, err := telemetry.NewFrameLog(opts.Telemetry.FrameLog, opts.Telemetry.FlushEvery)
	if err != nil {
		return err
	}
	if frameLog != nil {
		defer func() {
			if err := frameLog.Close(); err != nil {
				log.Printf("Warning: %v", err)
			}
		}()
		controllerOpts = append(controllerOpts, viewer.WithRecorder(frameLog))
	}

	loader := texture.NewLoader(opts.Decode, opts.Texture)
	c := viewer.New(win, loader, r, dispatcher, controllerOpts...)
	defer c.Close()

	log.Println("Starting interactive render loop...")
	c.Run()
	return nil
}

func main() {
	var configPath = flag.String("config", "", "Path to a YAML configuration file")
	var dumpConfig = flag.String("dump-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	opts, err := options.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *dumpConfig != "" {
		if err := opts.WriteYAML(*dumpConfig); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		return
	}

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
