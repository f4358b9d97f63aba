package shader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/tinyrange/learngl/internal/gl"
)

// Reloader owns a program built from two files and can rebuild it in place.
type Reloader struct {
	ctx          gl.OpenGL
	fsys         fs.FS
	vertexPath   string
	fragmentPath string
	program      *Program

	// OnLoad runs after every successful build, with the new program
	// current, so set-once uniforms such as sampler units survive a reload.
	OnLoad func(*Program)
}

// NewReloader builds the initial program. fsys may be nil to read from disk.
func NewReloader(ctx gl.OpenGL, fsys fs.FS, vertexPath, fragmentPath string, onLoad func(*Program)) (*Reloader, error) {
	r := &Reloader{
		ctx:          ctx,
		fsys:         fsys,
		vertexPath:   vertexPath,
		fragmentPath: fragmentPath,
		OnLoad:       onLoad,
	}
	p, err := r.build()
	if err != nil {
		return nil, err
	}
	r.program = p
	return r, nil
}

func (r *Reloader) build() (*Program, error) {
	var (
		p   *Program
		err error
	)
	if r.fsys == nil {
		p, err = LoadFiles(r.ctx, r.vertexPath, r.fragmentPath)
	} else {
		p, err = LoadFS(r.ctx, r.fsys, r.vertexPath, r.fragmentPath)
	}
	if err != nil {
		return nil, err
	}
	if r.OnLoad != nil {
		p.Use()
		r.OnLoad(p)
	}
	return p, nil
}

// Program returns the current program.
func (r *Reloader) Program() *Program {
	return r.program
}

// Paths returns the vertex and fragment paths.
func (r *Reloader) Paths() (vertex, fragment string) {
	return r.vertexPath, r.fragmentPath
}

// Reload rebuilds the program. On failure the previous program stays in
// place and the error is returned; on success the previous one is destroyed.
func (r *Reloader) Reload() error {
	p, err := r.build()
	if err != nil {
		return err
	}
	if r.program != nil {
		r.program.Destroy()
	}
	r.program = p
	return nil
}

// Destroy destroys the current program.
func (r *Reloader) Destroy() {
	if r.program != nil {
		r.program.Destroy()
	}
}

// Watcher reports when any of a set of files is written or replaced.
//
// Directories are watched rather than files because editors commonly save by
// renaming a new file over the old one.
type Watcher struct {
	w       *fsnotify.Watcher
	files   map[string]bool
	changed chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger
}

// NewWatcher starts watching paths. logger may be nil.
func NewWatcher(logger *slog.Logger, paths ...string) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: new watcher: %w", err)
	}

	w := &Watcher{
		w:       fw,
		files:   map[string]bool{},
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("shader: watch %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("shader: watch %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			w.logger.Debug("shader source changed", "path", abs, "op", ev.Op.String())
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			w.logger.Warn("shader watcher", "err", err)
		}
	}
}

// Changed reports whether a watched file changed since the last call. It
// never blocks, so the frame loop can poll it.
func (w *Watcher) Changed() bool {
	select {
	case <-w.changed:
		return true
	default:
		return false
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.w.Close()
	w.wg.Wait()
	return err
}
