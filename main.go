package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/tinyrange/learngl/internal/config"
	"github.com/tinyrange/learngl/internal/gl"
	"github.com/tinyrange/learngl/internal/graphics"
	"github.com/tinyrange/learngl/internal/lessons"
	"github.com/tinyrange/learngl/internal/window/desktop"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fs.String("config", "", "TOML settings file")
	screenshot := fs.String("screenshot", "", "write the first frame to this PNG file and exit")
	list := fs.Bool("list", false, "print the lesson names and exit")
	overrides := config.BindFlags(fs)

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	if *list {
		for _, name := range lessons.Names() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	overrides.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("init: %v", err)
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg, *screenshot); err != nil {
		log.Fatalf("run loop: %v", err)
	}
}

func run(cfg config.Config, screenshotPath string) error {
	platform, err := desktop.New(desktop.Options{
		Title:        fmt.Sprintf("%s: %s", cfg.Window.Title, cfg.Lesson),
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		SwapInterval: cfg.Window.SwapInterval,
	})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	gfx, err := graphics.New(platform)
	if err != nil {
		platform.Close()
		return fmt.Errorf("init: %w", err)
	}
	defer gfx.Close()

	gfx.SetClearColor(graphics.Color(cfg.Render.ClearColor))
	gfx.SetWireframe(cfg.Render.Wireframe)

	ctx := gfx.GL()
	slog.Info("OpenGL",
		"vendor", ctx.GetString(gl.Vendor),
		"renderer", ctx.GetString(gl.Renderer),
		"version", ctx.GetString(gl.Version),
		"glsl", ctx.GetString(gl.ShadingLanguageVersion),
	)
	slog.Info("Scale", "scale", platform.Scale())

	env := &lessons.Env{
		GL:         ctx,
		Shaders:    lessons.Shaders(),
		TextureDir: cfg.Assets.Textures,
		Logger:     slog.Default(),
	}
	if cfg.Assets.Shaders != "" {
		env.ShaderDir = cfg.Assets.Shaders
		env.Shaders = os.DirFS(cfg.Assets.Shaders)
	}

	runner, err := lessons.Start(cfg.Lesson, env, cfg.Assets.Watch)
	if err != nil {
		return err
	}
	defer runner.Close()

	return gfx.Loop(func(f graphics.Frame) error {
		if err := runner.Step(f); err != nil {
			return err
		}

		if screenshotPath != "" {
			if err := writeScreenshot(f, screenshotPath); err != nil {
				return err
			}
			slog.Info("taken screenshot", "path", screenshotPath)
			return graphics.ErrStop
		}

		return nil
	})
}

func writeScreenshot(f graphics.Frame, path string) error {
	img, err := f.Screenshot()
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create screenshot file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode screenshot: %w", err)
	}
	return file.Close()
}
