package shader

import (
	"io/fs"
	"os"

	"github.com/tinyrange/learngl/internal/gl"
)

// LoadFiles reads both stage files from disk and builds a program from them.
// A missing or unreadable file yields a *ReadError naming it.
func LoadFiles(ctx gl.OpenGL, vertexPath, fragmentPath string) (*Program, error) {
	return load(ctx, os.ReadFile, vertexPath, fragmentPath)
}

// LoadFS is LoadFiles over a file system, such as an embed.FS.
func LoadFS(ctx gl.OpenGL, fsys fs.FS, vertexPath, fragmentPath string) (*Program, error) {
	return load(ctx, func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	}, vertexPath, fragmentPath)
}

func load(ctx gl.OpenGL, read func(string) ([]byte, error), vertexPath, fragmentPath string) (*Program, error) {
	vertex, err := read(vertexPath)
	if err != nil {
		return nil, &ReadError{Path: vertexPath, Err: err}
	}
	fragment, err := read(fragmentPath)
	if err != nil {
		return nil, &ReadError{Path: fragmentPath, Err: err}
	}
	return CreateFromSources(ctx,
		Source{Stage: Vertex, Name: vertexPath, Text: string(vertex)},
		Source{Stage: Fragment, Name: fragmentPath, Text: string(fragment)},
	)
}
