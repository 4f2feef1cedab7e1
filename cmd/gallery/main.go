// Command gallery opens a window and runs one sketch from the gallery.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/Carmen-Shannon/oxy-gallery/engine"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/window"
	"github.com/Carmen-Shannon/oxy-gallery/gallery"
)

func main() {
	configPath := flag.String("config", gallery.ConfigFilename, "Gallery config file")
	sketch := flag.String("sketch", "", "Sketch id to run (overrides the config)")
	list := flag.Bool("list", false, "List the sketches and exit")
	presentMode := flag.String("present-mode", "", "vsync or uncapped (overrides the config)")
	software := flag.Bool("software", false, "Force the software rasterizer")
	profile := flag.Bool("profile", false, "Log frame statistics every second")
	flag.Parse()

	registry := gallery.Builtin()
	if *list {
		for _, m := range registry.List() {
			fmt.Printf("%-16s %s (%s)\n", m.ID, m.Title, m.Years)
		}
		return
	}

	cfg, err := gallery.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[Gallery] %v", err)
	}
	if *sketch != "" {
		cfg.Sketch = *sketch
	}
	if *presentMode != "" {
		cfg.PresentMode = *presentMode
	}
	cfg.Profiling = cfg.Profiling || *profile
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Gallery] %v", err)
	}

	if err := run(registry, cfg, *software); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(registry gallery.Registry, cfg gallery.Config, software bool) error {
	entry, err := registry.Lookup(cfg.Sketch)
	if err != nil {
		return err
	}
	m, err := entry.New()
	if err != nil {
		return err
	}

	windowOptions := []window.WindowBuilderOption{
		window.WithTitle(fmt.Sprintf("%s - %s", cfg.Window.Title, entry.Title)),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithScaleLimits(cfg.Window.MinScale, cfg.Window.MaxScale),
	}
	if cfg.Window.FreeAspect {
		windowOptions = append(windowOptions, window.WithFreeAspect())
	}
	w := window.NewWindow(windowOptions...)

	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		w,
		renderer.WithPresentMode(cfg.PresentModeValue()),
		renderer.WithForceSoftwareRenderer(software),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	inputOptions := []input.InputSystemBuilderOption{
		input.WithWindow(w),
		input.WithGamepadDeadZone(cfg.GamepadDeadZone()),
		input.WithMidiDriver(input.NewRtMidiDriver()),
	}
	if cfg.GamepadEnabled() {
		inputOptions = append(inputOptions, input.WithGLFWGamepads())
	}
	in := input.NewInputSystem(inputOptions...)
	if cfg.Midi {
		in.RequestMIDI()
	}

	eng, err := engine.NewEngine(m,
		engine.WithWindow(w),
		engine.WithRenderer(r),
		engine.WithInputSystem(in),
		engine.WithProfiling(cfg.Profiling),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
	)
	if err != nil {
		return err
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		<-interrupts
		log.Printf("[Gallery] interrupted, closing")
		eng.Quit()
	}()

	log.Printf("[Gallery] running %q (%s)", entry.ID, entry.Title)
	return eng.Run()
}
