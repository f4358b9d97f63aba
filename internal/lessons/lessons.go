// Package lessons holds the tutorial scenes. Each lesson builds its programs
// and meshes in Setup, draws one frame per Draw call and releases everything
// in Close.
package lessons

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/tinyrange/learngl/internal/gl"
	"github.com/tinyrange/learngl/internal/graphics"
	"github.com/tinyrange/learngl/internal/shader"
	"github.com/tinyrange/learngl/internal/window"
)

//go:embed shaders/*.vert shaders/*.frag
var embedded embed.FS

// Shaders returns the shader sources built into the binary.
func Shaders() fs.FS {
	sub, err := fs.Sub(embedded, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

type Lesson interface {
	Setup(env *Env) error
	Draw(f graphics.Frame) error
	Close()
}

var registry = map[string]func() Lesson{
	"triangle":     func() Lesson { return &triangle{} },
	"two-programs": func() Lesson { return &twoPrograms{} },
	"uniforms":     func() Lesson { return &uniforms{} },
	"textures":     func() Lesson { return &textures{} },
	"transforms":   func() Lesson { return &transforms{} },
}

// Names returns the registered lesson names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a fresh, not yet set up, lesson.
func New(name string) (Lesson, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown lesson %q", name)
	}
	return ctor(), nil
}

// Env is what a lesson may use during Setup.
type Env struct {
	GL gl.OpenGL
	// Shaders holds the .vert/.frag files, either Shaders() or os.DirFS of
	// ShaderDir.
	Shaders fs.FS
	// ShaderDir is the on-disk directory behind Shaders; empty when embedded.
	ShaderDir string
	// TextureDir holds the image files. Missing images are replaced by
	// checkerboards.
	TextureDir string
	Logger     *slog.Logger

	reloaders []*shader.Reloader
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// LoadProgram builds a program from two files in Shaders. The returned
// reloader always holds the latest working program; onLoad runs with each
// new program current.
func (e *Env) LoadProgram(vertex, fragment string, onLoad func(*shader.Program)) (*shader.Reloader, error) {
	r, err := shader.NewReloader(e.GL, e.Shaders, vertex, fragment, onLoad)
	if err != nil {
		return nil, err
	}
	e.reloaders = append(e.reloaders, r)
	return r, nil
}

// Runner drives one lesson: it sets it up, reloads its shaders when asked
// and tears it down.
type Runner struct {
	name    string
	lesson  Lesson
	env     *Env
	watcher *shader.Watcher
}

// Start creates and sets up the named lesson. With watch set and shaders on
// disk, edits to the lesson's shader files trigger a reload.
func Start(name string, env *Env, watch bool) (*Runner, error) {
	lesson, err := New(name)
	if err != nil {
		return nil, err
	}
	r := &Runner{name: name, lesson: lesson, env: env}
	if err := lesson.Setup(env); err != nil {
		r.Close()
		return nil, fmt.Errorf("setup %s: %w", name, err)
	}

	if watch && env.ShaderDir != "" && len(env.reloaders) > 0 {
		var paths []string
		for _, rl := range env.reloaders {
			v, f := rl.Paths()
			paths = append(paths, filepath.Join(env.ShaderDir, v), filepath.Join(env.ShaderDir, f))
		}
		r.watcher, err = shader.NewWatcher(env.logger(), paths...)
		if err != nil {
			r.Close()
			return nil, err
		}
	}

	env.logger().Info("lesson started", "lesson", name, "programs", len(env.reloaders))
	return r, nil
}

// Reload rebuilds every file-backed program of the lesson. Programs that fail
// to build keep their previous version.
func (r *Runner) Reload() error {
	var errs []error
	for _, rl := range r.env.reloaders {
		if err := rl.Reload(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Step draws one frame. Pressing R, or a change to a watched file, reloads
// the shaders first; a failed reload is logged and drawing continues with the
// previous programs. Holding W draws the frame as wireframe.
func (r *Runner) Step(f graphics.Frame) error {
	changed := r.watcher != nil && r.watcher.Changed()
	if changed || f.GetKeyState(window.KeyR) == window.KeyStatePressed {
		if err := r.Reload(); err != nil {
			r.env.logger().Warn("shader reload failed", "lesson", r.name, "err", err)
		} else {
			r.env.logger().Info("shaders reloaded", "lesson", r.name)
		}
	}
	if f.GetKeyState(window.KeyW).IsDown() {
		f.GL().PolygonMode(gl.FrontAndBack, gl.Line)
	}
	return r.lesson.Draw(f)
}

// Close releases the lesson and its programs.
func (r *Runner) Close() {
	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
	}
	r.lesson.Close()
	for _, rl := range r.env.reloaders {
		rl.Destroy()
	}
	r.env.reloaders = nil
}
