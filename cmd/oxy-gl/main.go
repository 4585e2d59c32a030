// Command oxy-gl opens a window, links the materials and builds the compute kernels described
// by a TOML config, then runs the acquire, dispatch, release and bind cycle every frame.
//
// Kernels follow a fixed argument layout: binding 0 is an f32 time scalar, binding 1 the
// read image and binding 2 the write image. Each material is drawn as a fullscreen triangle
// sampling the first kernel output through the "image" uniform.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics/opengl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

func init() {
	// GLFW and GL calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "cmd/oxy-gl/assets/oxy-gl.toml", "application config file")
		verbose    = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*configPath); err != nil {
		common.Logger().Error("oxy-gl failed", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	w := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithGLVersion(cfg.Window.GLMajor, cfg.Window.GLMinor),
		window.WithVSync(cfg.Window.VSync),
	)
	defer w.Close()

	w.MakeCurrent()
	ctx, err := opengl.New()
	if err != nil {
		return err
	}
	common.Logger().Info("graphics context ready", "version", opengl.Version())

	binder := material.NewBinder(ctx)
	s, err := newScene(ctx, cfg, w.Width(), w.Height())
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	defer s.Release()

	w.SetResizeCallback(s.Resize)
	w.SetScrollCallback(s.Scroll)
	w.SetKeyDownCallback(s.KeyDown)

	e := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithBinder(binder),
		engine.WithProfiling(cfg.Profiling),
		engine.WithTickRate(cfg.TickRate),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
		engine.WithLayer(0, s),
	)
	e.SetTickCallback(s.Tick)
	e.Run()
	return nil
}
