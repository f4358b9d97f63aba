// Package glfake provides an in-memory gl.OpenGL for tests.
//
// It tracks object lifetimes, binding state, uniform storage and draw calls
// so tests can assert on what reached the context. Shader compilation and
// linking use a small stand-in checker instead of a GLSL front end; see
// compiler.go for the rules.
package glfake

import (
	"unsafe"

	"github.com/tinyrange/learngl/internal/gl"
)

// GL error codes recorded by the fake.
const (
	InvalidEnum      = 0x0500
	InvalidValue     = 0x0501
	InvalidOperation = 0x0502
)

type shaderObject struct {
	xtype    uint32
	source   string
	compiled bool
	log      string
	deleted  bool
	attached int
}

type uniform struct {
	typ      string
	location int32
	integer  bool
	floats   []float32
	ints     []int32
}

type programObject struct {
	attached  []gl.Shader
	linked    bool
	validated bool
	log       string
	uniforms  map[string]*uniform
}

// Attrib is the recorded state of one vertex attribute.
type Attrib struct {
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     uintptr
	Buffer     uint32
	Enabled    bool
}

type vertexArray struct {
	attribs map[uint32]*Attrib
	element uint32
}

// TextureInfo is the recorded state of a texture object.
type TextureInfo struct {
	Width, Height  int32
	InternalFormat int32
	Format         uint32
	Pixels         []byte
	Params         map[uint32]int32
	Mipmapped      bool
}

// DrawCall records one DrawArrays or DrawElements call and the state it used.
type DrawCall struct {
	Mode        uint32
	First       int32
	Count       int32
	Indexed     bool
	Program     gl.Program
	VertexArray uint32
	Textures    map[uint32]uint32
}

// GL is an in-memory OpenGL context. Use New to create one.
type GL struct {
	next uint32

	shaders      map[gl.Shader]*shaderObject
	programs     map[gl.Program]*programObject
	buffers      map[uint32][]byte
	vertexArrays map[uint32]*vertexArray
	textures     map[uint32]*TextureInfo

	current      gl.Program
	boundArray   uint32
	boundBuffers map[uint32]uint32
	activeUnit   uint32
	boundTex     map[uint32]uint32

	clearColor  [4]float32
	framebuffer [4]float32
	viewport    [4]int32
	enabled     map[uint32]bool
	polygonMode uint32
	pixelStore  map[uint32]int32

	calls  map[string]int
	errors []uint32
	draws  []DrawCall

	strings map[uint32]string
}

var _ gl.OpenGL = (*GL)(nil)

// New returns an empty context with nothing bound.
func New() *GL {
	return &GL{
		shaders:      map[gl.Shader]*shaderObject{},
		programs:     map[gl.Program]*programObject{},
		buffers:      map[uint32][]byte{},
		vertexArrays: map[uint32]*vertexArray{},
		textures:     map[uint32]*TextureInfo{},
		boundBuffers: map[uint32]uint32{},
		boundTex:     map[uint32]uint32{},
		enabled:      map[uint32]bool{},
		polygonMode:  gl.Fill,
		pixelStore:   map[uint32]int32{},
		calls:        map[string]int{},
		strings: map[uint32]string{
			gl.Vendor:                 "glfake",
			gl.Renderer:               "glfake software",
			gl.Version:                "3.3 (Core Profile) glfake",
			gl.ShadingLanguageVersion: "3.30",
		},
	}
}

func (f *GL) name() uint32 {
	f.next++
	return f.next
}

func (f *GL) record(call string) {
	f.calls[call]++
}

func (f *GL) fail(code uint32) {
	f.errors = append(f.errors, code)
}

// Calls returns how many times the named entry point (e.g. "LinkProgram") was called.
func (f *GL) Calls(name string) int {
	return f.calls[name]
}

// Errors returns the GL errors raised so far, oldest first.
func (f *GL) Errors() []uint32 {
	return append([]uint32(nil), f.errors...)
}

// Draws returns the recorded draw calls, oldest first.
func (f *GL) Draws() []DrawCall {
	return append([]DrawCall(nil), f.draws...)
}

// ResetDraws forgets recorded draw calls.
func (f *GL) ResetDraws() {
	f.draws = nil
}

// CurrentProgram returns the program installed by UseProgram.
func (f *GL) CurrentProgram() gl.Program {
	return f.current
}

// LiveShaders counts shader objects not yet deleted.
func (f *GL) LiveShaders() int {
	n := 0
	for _, s := range f.shaders {
		if !s.deleted {
			n++
		}
	}
	return n
}

// LivePrograms counts program objects not yet deleted.
func (f *GL) LivePrograms() int {
	return len(f.programs)
}

// LiveBuffers counts buffer objects not yet deleted.
func (f *GL) LiveBuffers() int {
	return len(f.buffers)
}

// LiveVertexArrays counts vertex array objects not yet deleted.
func (f *GL) LiveVertexArrays() int {
	return len(f.vertexArrays)
}

// LiveTextures counts texture objects not yet deleted.
func (f *GL) LiveTextures() int {
	return len(f.textures)
}

// Linked reports whether program exists and its last link succeeded.
func (f *GL) Linked(program gl.Program) bool {
	p, ok := f.programs[program]
	return ok && p.linked
}

// Uniforms returns the active uniform names of a linked program in location order.
func (f *GL) Uniforms(program gl.Program) []string {
	p, ok := f.programs[program]
	if !ok || !p.linked {
		return nil
	}
	return uniformNames(p.uniforms)
}

// BufferContents returns a copy of a buffer's data store.
func (f *GL) BufferContents(buffer uint32) ([]byte, bool) {
	b, ok := f.buffers[buffer]
	return append([]byte(nil), b...), ok
}

// VertexArray returns the attributes and element buffer recorded for a VAO.
func (f *GL) VertexArray(array uint32) (map[uint32]Attrib, uint32, bool) {
	va, ok := f.vertexArrays[array]
	if !ok {
		return nil, 0, false
	}
	attribs := make(map[uint32]Attrib, len(va.attribs))
	for i, a := range va.attribs {
		attribs[i] = *a
	}
	return attribs, va.element, true
}

// Texture returns the recorded state of a texture object.
func (f *GL) Texture(texture uint32) (TextureInfo, bool) {
	t, ok := f.textures[texture]
	if !ok {
		return TextureInfo{}, false
	}
	return *t, true
}

// BoundTexture returns the texture bound to a unit (0-based).
func (f *GL) BoundTexture(unit uint32) uint32 {
	return f.boundTex[unit]
}

// Enabled reports whether a capability is enabled.
func (f *GL) Enabled(cap uint32) bool {
	return f.enabled[cap]
}

// PolygonModeState returns the current polygon rasterization mode.
func (f *GL) PolygonModeState() uint32 {
	return f.polygonMode
}

// ViewportState returns the current viewport.
func (f *GL) ViewportState() [4]int32 {
	return f.viewport
}

// FramebufferColor returns the colour the last Clear filled the framebuffer with.
func (f *GL) FramebufferColor() [4]float32 {
	return f.framebuffer
}

func (f *GL) ClearColor(r, g, b, a float32) {
	f.record("ClearColor")
	f.clearColor = [4]float32{r, g, b, a}
}

func (f *GL) Clear(mask uint32) {
	f.record("Clear")
	if mask&gl.ColorBufferBit != 0 {
		f.framebuffer = f.clearColor
	}
}

func (f *GL) Viewport(x, y, width, height int32) {
	f.record("Viewport")
	if width < 0 || height < 0 {
		f.fail(InvalidValue)
		return
	}
	f.viewport = [4]int32{x, y, width, height}
}

func (f *GL) Enable(cap uint32) {
	f.record("Enable")
	f.enabled[cap] = true
}

func (f *GL) Disable(cap uint32) {
	f.record("Disable")
	delete(f.enabled, cap)
}

func (f *GL) BlendFunc(sfactor, dfactor uint32) {
	f.record("BlendFunc")
}

func (f *GL) PolygonMode(face, mode uint32) {
	f.record("PolygonMode")
	if face != gl.FrontAndBack {
		f.fail(InvalidEnum)
		return
	}
	f.polygonMode = mode
}

func (f *GL) GenTextures(n int32, textures *uint32) {
	f.record("GenTextures")
	ids := unsafe.Slice(textures, n)
	for i := range ids {
		ids[i] = f.name()
		f.textures[ids[i]] = &TextureInfo{Params: map[uint32]int32{}}
	}
}

func (f *GL) DeleteTextures(n int32, textures *uint32) {
	f.record("DeleteTextures")
	for _, id := range unsafe.Slice(textures, n) {
		delete(f.textures, id)
		for unit, bound := range f.boundTex {
			if bound == id {
				delete(f.boundTex, unit)
			}
		}
	}
}

func (f *GL) ActiveTexture(texture uint32) {
	f.record("ActiveTexture")
	if texture < gl.Texture0 || texture >= gl.Texture0+32 {
		f.fail(InvalidEnum)
		return
	}
	f.activeUnit = texture - gl.Texture0
}

func (f *GL) BindTexture(target, texture uint32) {
	f.record("BindTexture")
	if target != gl.Texture2D {
		f.fail(InvalidEnum)
		return
	}
	if texture == 0 {
		delete(f.boundTex, f.activeUnit)
		return
	}
	if _, ok := f.textures[texture]; !ok {
		f.fail(InvalidOperation)
		return
	}
	f.boundTex[f.activeUnit] = texture
}

func (f *GL) boundTexture() *TextureInfo {
	return f.textures[f.boundTex[f.activeUnit]]
}

func (f *GL) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	f.record("TexImage2D")
	t := f.boundTexture()
	if t == nil {
		f.fail(InvalidOperation)
		return
	}
	if width < 0 || height < 0 || border != 0 {
		f.fail(InvalidValue)
		return
	}
	if level != 0 {
		return
	}
	channels := int32(4)
	if format == gl.RGB {
		channels = 3
	}
	t.Width, t.Height = width, height
	t.InternalFormat = internalFormat
	t.Format = format
	t.Mipmapped = false
	t.Pixels = nil
	if pixels != nil && xtype == gl.UnsignedByte {
		t.Pixels = append([]byte(nil), unsafe.Slice((*byte)(pixels), width*height*channels)...)
	}
}

func (f *GL) TexParameteri(target, pname uint32, param int32) {
	f.record("TexParameteri")
	t := f.boundTexture()
	if t == nil {
		f.fail(InvalidOperation)
		return
	}
	t.Params[pname] = param
}

func (f *GL) GenerateMipmap(target uint32) {
	f.record("GenerateMipmap")
	t := f.boundTexture()
	if t == nil {
		f.fail(InvalidOperation)
		return
	}
	t.Mipmapped = true
}

func (f *GL) PixelStorei(pname uint32, param int32) {
	f.record("PixelStorei")
	f.pixelStore[pname] = param
}

func (f *GL) GenBuffers(n int32, buffers *uint32) {
	f.record("GenBuffers")
	ids := unsafe.Slice(buffers, n)
	for i := range ids {
		ids[i] = f.name()
		f.buffers[ids[i]] = nil
	}
}

func (f *GL) DeleteBuffers(n int32, buffers *uint32) {
	f.record("DeleteBuffers")
	for _, id := range unsafe.Slice(buffers, n) {
		delete(f.buffers, id)
		for target, bound := range f.boundBuffers {
			if bound == id {
				delete(f.boundBuffers, target)
			}
		}
	}
}

func (f *GL) BindBuffer(target, buffer uint32) {
	f.record("BindBuffer")
	if buffer != 0 {
		if _, ok := f.buffers[buffer]; !ok {
			f.fail(InvalidOperation)
			return
		}
	}
	if target == gl.ElementArrayBuffer {
		// The element binding is vertex array state.
		va := f.vertexArrays[f.boundArray]
		if va == nil {
			f.fail(InvalidOperation)
			return
		}
		va.element = buffer
		return
	}
	f.boundBuffers[target] = buffer
}

func (f *GL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	f.record("BufferData")
	var id uint32
	if target == gl.ElementArrayBuffer {
		if va := f.vertexArrays[f.boundArray]; va != nil {
			id = va.element
		}
	} else {
		id = f.boundBuffers[target]
	}
	if id == 0 {
		f.fail(InvalidOperation)
		return
	}
	if size < 0 {
		f.fail(InvalidValue)
		return
	}
	if data == nil {
		f.buffers[id] = make([]byte, size)
		return
	}
	f.buffers[id] = append([]byte(nil), unsafe.Slice((*byte)(data), size)...)
}

func (f *GL) GenVertexArrays(n int32, arrays *uint32) {
	f.record("GenVertexArrays")
	ids := unsafe.Slice(arrays, n)
	for i := range ids {
		ids[i] = f.name()
		f.vertexArrays[ids[i]] = &vertexArray{attribs: map[uint32]*Attrib{}}
	}
}

func (f *GL) DeleteVertexArrays(n int32, arrays *uint32) {
	f.record("DeleteVertexArrays")
	for _, id := range unsafe.Slice(arrays, n) {
		delete(f.vertexArrays, id)
		if f.boundArray == id {
			f.boundArray = 0
		}
	}
}

func (f *GL) BindVertexArray(array uint32) {
	f.record("BindVertexArray")
	if array != 0 {
		if _, ok := f.vertexArrays[array]; !ok {
			f.fail(InvalidOperation)
			return
		}
	}
	f.boundArray = array
}

func (f *GL) attrib(index uint32) *Attrib {
	va := f.vertexArrays[f.boundArray]
	if va == nil {
		return nil
	}
	a, ok := va.attribs[index]
	if !ok {
		a = &Attrib{}
		va.attribs[index] = a
	}
	return a
}

func (f *GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	f.record("VertexAttribPointer")
	buffer := f.boundBuffers[gl.ArrayBuffer]
	a := f.attrib(index)
	if a == nil || buffer == 0 {
		f.fail(InvalidOperation)
		return
	}
	if size < 1 || size > 4 || stride < 0 {
		f.fail(InvalidValue)
		return
	}
	a.Size, a.Type, a.Normalized, a.Stride, a.Offset, a.Buffer = size, xtype, normalized, stride, offset, buffer
}

func (f *GL) EnableVertexAttribArray(index uint32) {
	f.record("EnableVertexAttribArray")
	a := f.attrib(index)
	if a == nil {
		f.fail(InvalidOperation)
		return
	}
	a.Enabled = true
}

func (f *GL) CreateShader(xtype uint32) gl.Shader {
	f.record("CreateShader")
	if xtype != gl.VertexShader && xtype != gl.FragmentShader {
		f.fail(InvalidEnum)
		return 0
	}
	s := gl.Shader(f.name())
	f.shaders[s] = &shaderObject{xtype: xtype}
	return s
}

func (f *GL) shader(s gl.Shader) *shaderObject {
	obj, ok := f.shaders[s]
	if !ok {
		f.fail(InvalidValue)
		return nil
	}
	return obj
}

func (f *GL) ShaderSource(shader gl.Shader, source string) {
	f.record("ShaderSource")
	if s := f.shader(shader); s != nil {
		s.source = source
	}
}

func (f *GL) CompileShader(shader gl.Shader) {
	f.record("CompileShader")
	if s := f.shader(shader); s != nil {
		s.compiled, s.log = compile(s.source)
	}
}

func (f *GL) GetShaderiv(shader gl.Shader, pname uint32) int32 {
	f.record("GetShaderiv")
	s := f.shader(shader)
	if s == nil {
		return 0
	}
	switch pname {
	case gl.CompileStatus:
		if s.compiled {
			return gl.True
		}
		return gl.False
	case gl.InfoLogLength:
		if s.log == "" {
			return 0
		}
		return int32(len(s.log) + 1)
	}
	f.fail(InvalidEnum)
	return 0
}

func truncate(log string, bufSize int32) string {
	if bufSize <= 0 {
		return ""
	}
	if int32(len(log)) > bufSize-1 {
		return log[:bufSize-1]
	}
	return log
}

func (f *GL) GetShaderInfoLog(shader gl.Shader, bufSize int32) string {
	f.record("GetShaderInfoLog")
	s := f.shader(shader)
	if s == nil {
		return ""
	}
	return truncate(s.log, bufSize)
}

// SetShaderLog replaces the info log of a shader object, for tests that need
// an oversized diagnostic.
func (f *GL) SetShaderLog(shader gl.Shader, log string) {
	if s, ok := f.shaders[shader]; ok {
		s.log = log
	}
}

func (f *GL) DeleteShader(shader gl.Shader) {
	f.record("DeleteShader")
	if shader == 0 {
		return
	}
	s, ok := f.shaders[shader]
	if !ok || s.deleted {
		f.fail(InvalidValue)
		return
	}
	s.deleted = true
	if s.attached == 0 {
		delete(f.shaders, shader)
	}
}

func (f *GL) CreateProgram() gl.Program {
	f.record("CreateProgram")
	p := gl.Program(f.name())
	f.programs[p] = &programObject{}
	return p
}

func (f *GL) program(program gl.Program) *programObject {
	p, ok := f.programs[program]
	if !ok {
		f.fail(InvalidValue)
		return nil
	}
	return p
}

func (f *GL) AttachShader(program gl.Program, shader gl.Shader) {
	f.record("AttachShader")
	p := f.program(program)
	s := f.shader(shader)
	if p == nil || s == nil {
		return
	}
	for _, a := range p.attached {
		if a == shader {
			f.fail(InvalidOperation)
			return
		}
	}
	p.attached = append(p.attached, shader)
	s.attached++
}

func (f *GL) DetachShader(program gl.Program, shader gl.Shader) {
	f.record("DetachShader")
	p := f.program(program)
	if p == nil {
		return
	}
	for i, a := range p.attached {
		if a == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			f.release(shader)
			return
		}
	}
	f.fail(InvalidOperation)
}

// release drops one attachment and frees a shader flagged for deletion.
func (f *GL) release(shader gl.Shader) {
	s, ok := f.shaders[shader]
	if !ok {
		return
	}
	s.attached--
	if s.deleted && s.attached <= 0 {
		delete(f.shaders, shader)
	}
}

func (f *GL) LinkProgram(program gl.Program) {
	f.record("LinkProgram")
	p := f.program(program)
	if p == nil {
		return
	}
	var vertex, fragment *shaderObject
	for _, a := range p.attached {
		s := f.shaders[a]
		if s == nil {
			continue
		}
		switch s.xtype {
		case gl.VertexShader:
			vertex = s
		case gl.FragmentShader:
			fragment = s
		}
	}
	uniforms, log := link(vertex, fragment)
	p.linked = log == ""
	p.validated = false
	p.log = log
	if p.linked {
		p.uniforms = uniforms
	} else {
		p.uniforms = nil
	}
}

func (f *GL) ValidateProgram(program gl.Program) {
	f.record("ValidateProgram")
	p := f.program(program)
	if p == nil {
		return
	}
	switch {
	case !p.linked:
		p.validated = false
		p.log = "error: program not linked\n"
	case f.boundArray == 0:
		p.validated = false
		p.log = "error: no vertex array object bound\n"
	default:
		p.validated = true
		p.log = ""
	}
}

func (f *GL) GetProgramiv(program gl.Program, pname uint32) int32 {
	f.record("GetProgramiv")
	p := f.program(program)
	if p == nil {
		return 0
	}
	boolean := func(v bool) int32 {
		if v {
			return gl.True
		}
		return gl.False
	}
	switch pname {
	case gl.LinkStatus:
		return boolean(p.linked)
	case gl.ValidateStatus:
		return boolean(p.validated)
	case gl.InfoLogLength:
		if p.log == "" {
			return 0
		}
		return int32(len(p.log) + 1)
	}
	f.fail(InvalidEnum)
	return 0
}

func (f *GL) GetProgramInfoLog(program gl.Program, bufSize int32) string {
	f.record("GetProgramInfoLog")
	p := f.program(program)
	if p == nil {
		return ""
	}
	return truncate(p.log, bufSize)
}

func (f *GL) UseProgram(program gl.Program) {
	f.record("UseProgram")
	if program == 0 {
		f.current = 0
		return
	}
	p := f.program(program)
	if p == nil {
		return
	}
	if !p.linked {
		f.fail(InvalidOperation)
		return
	}
	f.current = program
}

func (f *GL) DeleteProgram(program gl.Program) {
	f.record("DeleteProgram")
	if program == 0 {
		return
	}
	p := f.program(program)
	if p == nil {
		return
	}
	for _, a := range p.attached {
		f.release(a)
	}
	delete(f.programs, program)
	if f.current == program {
		// GL keeps a deleted current program alive until it is replaced;
		// the fake drops it at once, which catches draws after Destroy.
		f.current = 0
	}
}

func (f *GL) GetUniformLocation(program gl.Program, name string) gl.UniformLocation {
	f.record("GetUniformLocation")
	p := f.program(program)
	if p == nil {
		return gl.NoUniform
	}
	if !p.linked {
		f.fail(InvalidOperation)
		return gl.NoUniform
	}
	u, ok := p.uniforms[name]
	if !ok {
		return gl.NoUniform
	}
	return gl.UniformLocation(u.location)
}

// uniformAt returns the uniform at location in the current program. A nil
// result with ok true means the upload is silently ignored.
func (f *GL) uniformAt(location gl.UniformLocation) (u *uniform, ok bool) {
	if f.current == 0 {
		f.fail(InvalidOperation)
		return nil, false
	}
	if location == gl.NoUniform {
		return nil, true
	}
	for _, u := range f.programs[f.current].uniforms {
		if gl.UniformLocation(u.location) == location {
			return u, true
		}
	}
	f.fail(InvalidOperation)
	return nil, false
}

func (f *GL) setInts(location gl.UniformLocation, vs ...int32) {
	u, ok := f.uniformAt(location)
	if !ok || u == nil {
		return
	}
	if !u.integer || len(u.ints) < len(vs) {
		f.fail(InvalidOperation)
		return
	}
	copy(u.ints, vs)
}

func (f *GL) setFloats(location gl.UniformLocation, want string, vs ...float32) {
	u, ok := f.uniformAt(location)
	if !ok || u == nil {
		return
	}
	if u.integer || u.typ != want {
		f.fail(InvalidOperation)
		return
	}
	copy(u.floats, vs)
}

func (f *GL) Uniform1i(location gl.UniformLocation, v0 int32) {
	f.record("Uniform1i")
	f.setInts(location, v0)
}

func (f *GL) Uniform1f(location gl.UniformLocation, v0 float32) {
	f.record("Uniform1f")
	f.setFloats(location, "float", v0)
}

func (f *GL) Uniform4f(location gl.UniformLocation, v0, v1, v2, v3 float32) {
	f.record("Uniform4f")
	f.setFloats(location, "vec4", v0, v1, v2, v3)
}

func (f *GL) UniformMatrix4fv(location gl.UniformLocation, count int32, transpose bool, value *float32) {
	f.record("UniformMatrix4fv")
	if count < 1 {
		f.fail(InvalidValue)
		return
	}
	m := unsafe.Slice(value, 16*count)
	if transpose {
		t := make([]float32, len(m))
		for k := int32(0); k < count; k++ {
			for i := 0; i < 4; i++ {
				for j := 0; j < 4; j++ {
					t[int(k)*16+i*4+j] = m[int(k)*16+j*4+i]
				}
			}
		}
		m = t
	}
	f.setFloats(location, "mat4", m...)
}

func (f *GL) readUniform(program gl.Program, location gl.UniformLocation) *uniform {
	p := f.program(program)
	if p == nil {
		return nil
	}
	if !p.linked {
		f.fail(InvalidOperation)
		return nil
	}
	for _, u := range p.uniforms {
		if gl.UniformLocation(u.location) == location {
			return u
		}
	}
	f.fail(InvalidOperation)
	return nil
}

func (f *GL) GetUniformfv(program gl.Program, location gl.UniformLocation, params *float32) {
	f.record("GetUniformfv")
	u := f.readUniform(program, location)
	if u == nil {
		return
	}
	if u.integer {
		out := unsafe.Slice(params, len(u.ints))
		for i, v := range u.ints {
			out[i] = float32(v)
		}
		return
	}
	copy(unsafe.Slice(params, len(u.floats)), u.floats)
}

func (f *GL) GetUniformiv(program gl.Program, location gl.UniformLocation, params *int32) {
	f.record("GetUniformiv")
	u := f.readUniform(program, location)
	if u == nil {
		return
	}
	if !u.integer {
		out := unsafe.Slice(params, len(u.floats))
		for i, v := range u.floats {
			out[i] = int32(v)
		}
		return
	}
	copy(unsafe.Slice(params, len(u.ints)), u.ints)
}

func (f *GL) draw(mode uint32, first, count int32, indexed bool) {
	if f.current == 0 || f.boundArray == 0 {
		f.fail(InvalidOperation)
		return
	}
	if indexed && f.vertexArrays[f.boundArray].element == 0 {
		f.fail(InvalidOperation)
		return
	}
	textures := make(map[uint32]uint32, len(f.boundTex))
	for unit, t := range f.boundTex {
		textures[unit] = t
	}
	f.draws = append(f.draws, DrawCall{
		Mode:        mode,
		First:       first,
		Count:       count,
		Indexed:     indexed,
		Program:     f.current,
		VertexArray: f.boundArray,
		Textures:    textures,
	})
}

func (f *GL) DrawArrays(mode uint32, first, count int32) {
	f.record("DrawArrays")
	f.draw(mode, first, count, false)
}

func (f *GL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	f.record("DrawElements")
	if xtype != gl.UnsignedInt && xtype != gl.UnsignedByte {
		f.fail(InvalidEnum)
		return
	}
	f.draw(mode, int32(offset), count, true)
}

// ReadPixels fills the destination with the colour of the last Clear.
func (f *GL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	f.record("ReadPixels")
	if format != gl.RGBA || xtype != gl.UnsignedByte {
		f.fail(InvalidEnum)
		return
	}
	px := unsafe.Slice((*byte)(pixels), width*height*4)
	var c [4]byte
	for i, v := range f.framebuffer {
		c[i] = byte(v*255 + 0.5)
	}
	for i := 0; i < len(px); i += 4 {
		copy(px[i:i+4], c[:])
	}
}

func (f *GL) GetString(name uint32) string {
	f.record("GetString")
	return f.strings[name]
}
