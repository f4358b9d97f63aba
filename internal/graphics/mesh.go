package graphics

import (
	"errors"
	"fmt"
	"unsafe"

	glpkg "github.com/tinyrange/learngl/internal/gl"
)

const sizeofFloat32 = 4

// Mesh is a vertex array with its vertex buffer and, when indexed, its
// element buffer.
type Mesh struct {
	gl      glpkg.OpenGL
	vao     uint32
	vbo     uint32
	ebo     uint32
	count   int32
	indexed bool

	// Mode is the primitive type passed to the draw call. Defaults to
	// gl.Triangles.
	Mode uint32
}

// NewMesh uploads interleaved float32 vertices. layout lists the component
// count of each attribute in order, so {3, 2} is a vec3 at location 0
// followed by a vec2 at location 1. indices may be nil for a non-indexed mesh.
func NewMesh(ctx glpkg.OpenGL, vertices []float32, indices []uint32, layout []int32) (*Mesh, error) {
	var components int32
	for i, n := range layout {
		if n < 1 || n > 4 {
			return nil, fmt.Errorf("mesh: attribute %d has %d components", i, n)
		}
		components += n
	}
	if components == 0 {
		return nil, errors.New("mesh: empty layout")
	}
	if len(vertices) == 0 || len(vertices)%int(components) != 0 {
		return nil, fmt.Errorf("mesh: %d floats is not a whole number of %d-float vertices", len(vertices), components)
	}
	nverts := uint32(len(vertices) / int(components))
	for _, idx := range indices {
		if idx >= nverts {
			return nil, fmt.Errorf("mesh: index %d out of range for %d vertices", idx, nverts)
		}
	}

	m := &Mesh{gl: ctx, Mode: glpkg.Triangles}

	ctx.GenVertexArrays(1, &m.vao)
	ctx.GenBuffers(1, &m.vbo)
	ctx.BindVertexArray(m.vao)

	ctx.BindBuffer(glpkg.ArrayBuffer, m.vbo)
	ctx.BufferData(glpkg.ArrayBuffer, len(vertices)*sizeofFloat32, unsafe.Pointer(&vertices[0]), glpkg.StaticDraw)

	if len(indices) > 0 {
		ctx.GenBuffers(1, &m.ebo)
		ctx.BindBuffer(glpkg.ElementArrayBuffer, m.ebo)
		ctx.BufferData(glpkg.ElementArrayBuffer, len(indices)*4, unsafe.Pointer(&indices[0]), glpkg.StaticDraw)
		m.indexed = true
		m.count = int32(len(indices))
	} else {
		m.count = int32(nverts)
	}

	stride := components * sizeofFloat32
	var offset uintptr
	for i, n := range layout {
		ctx.VertexAttribPointer(uint32(i), n, glpkg.Float, false, stride, offset)
		ctx.EnableVertexAttribArray(uint32(i))
		offset += uintptr(n) * sizeofFloat32
	}

	ctx.BindBuffer(glpkg.ArrayBuffer, 0)
	ctx.BindVertexArray(0)
	return m, nil
}

// Bind binds the mesh's vertex array, e.g. before validating a program.
func (m *Mesh) Bind() {
	m.gl.BindVertexArray(m.vao)
}

// Draw draws the whole mesh with the current program.
func (m *Mesh) Draw() {
	m.gl.BindVertexArray(m.vao)
	if m.indexed {
		m.gl.DrawElements(m.Mode, m.count, glpkg.UnsignedInt, 0)
	} else {
		m.gl.DrawArrays(m.Mode, 0, m.count)
	}
}

// Delete releases the GL objects. It is safe to call more than once.
func (m *Mesh) Delete() {
	if m.vao == 0 {
		return
	}
	m.gl.DeleteVertexArrays(1, &m.vao)
	m.gl.DeleteBuffers(1, &m.vbo)
	if m.ebo != 0 {
		m.gl.DeleteBuffers(1, &m.ebo)
	}
	m.vao, m.vbo, m.ebo = 0, 0, 0
}
