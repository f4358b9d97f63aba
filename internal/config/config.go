// Package config holds the settings of the lesson runner, read from an
// optional TOML file and overridden by command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Lesson   string `toml:"lesson"`
	LogLevel string `toml:"log_level"`

	Window WindowConfig `toml:"window"`
	Render RenderConfig `toml:"render"`
	Assets AssetsConfig `toml:"assets"`
}

type WindowConfig struct {
	Title        string `toml:"title"`
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	SwapInterval int    `toml:"swap_interval"`
}

type RenderConfig struct {
	ClearColor [4]float32 `toml:"clear_color"`
	Wireframe  bool       `toml:"wireframe"`
}

type AssetsConfig struct {
	// Shaders is a directory of .vert/.frag files. Empty means the copies
	// built into the binary.
	Shaders  string `toml:"shaders"`
	Textures string `toml:"textures"`
	// Watch reloads shaders when their files change. Needs Shaders.
	Watch bool `toml:"watch"`
}

// Default returns the settings used when neither a file nor a flag says
// otherwise.
func Default() Config {
	return Config{
		Lesson:   "transforms",
		LogLevel: "info",
		Window: WindowConfig{
			Title:        "LearnOpenGL",
			Width:        800,
			Height:       600,
			SwapInterval: 1,
		},
		Render: RenderConfig{
			ClearColor: [4]float32{0.2, 0.3, 0.3, 1},
		},
		Assets: AssetsConfig{
			Textures: "textures",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default; unknown keys are an error. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config: %s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.Lesson == "" {
		errs = append(errs, errors.New("lesson must be set"))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.SwapInterval < 0 {
		errs = append(errs, fmt.Errorf("swap interval %d must not be negative", c.Window.SwapInterval))
	}
	for i, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear colour component %d is %g, want [0,1]", i, v))
		}
	}
	if c.Assets.Watch && c.Assets.Shaders == "" {
		errs = append(errs, errors.New("watching shaders needs a shader directory"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Flags are the command-line overrides of a Config.
type Flags struct {
	fs *flag.FlagSet

	lesson    *string
	logLevel  *string
	shaders   *string
	textures  *string
	watch     *bool
	wireframe *bool
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	return &Flags{
		fs:        fs,
		lesson:    fs.String("lesson", d.Lesson, "lesson to run (see -list)"),
		logLevel:  fs.String("log-level", d.LogLevel, "log level: debug, info, warn or error"),
		shaders:   fs.String("shaders", d.Assets.Shaders, "load shaders from this directory instead of the built-in copies"),
		textures:  fs.String("textures", d.Assets.Textures, "directory holding container.jpg and awesomeface.png"),
		watch:     fs.Bool("watch", d.Assets.Watch, "reload shaders when their files change (needs -shaders)"),
		wireframe: fs.Bool("wireframe", d.Render.Wireframe, "draw polygons as lines"),
	}
}

// Apply copies the flags that were set on the command line into c. Flags
// left at their defaults do not override the file.
func (f *Flags) Apply(c *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "lesson":
			c.Lesson = *f.lesson
		case "log-level":
			c.LogLevel = *f.logLevel
		case "shaders":
			c.Assets.Shaders = *f.shaders
		case "textures":
			c.Assets.Textures = *f.textures
		case "watch":
			c.Assets.Watch = *f.watch
		case "wireframe":
			c.Render.Wireframe = *f.wireframe
		}
	})
}
