package gl

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcAddressFunc resolves a GL entry point of the current context, returning
// nil when the driver does not export it. glfw.GetProcAddress has this shape.
type ProcAddressFunc func(name string) unsafe.Pointer

// The loader binds core-profile entry points through the context's proc
// address resolver, so the same code serves libGL, OpenGL.framework and
// opengl32 plus the ICD.
type openGL struct {
	clearColor     func(float32, float32, float32, float32)
	clear          func(uint32)
	viewport       func(int32, int32, int32, int32)
	enable         func(uint32)
	disable        func(uint32)
	blendFunc      func(uint32, uint32)
	polygonMode    func(uint32, uint32)
	genTextures    func(int32, *uint32)
	deleteTextures func(int32, *uint32)
	activeTexture  func(uint32)
	bindTexture    func(uint32, uint32)
	texImage2D     func(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	texParameteri  func(uint32, uint32, int32)
	generateMipmap func(uint32)
	pixelStorei    func(uint32, int32)
	readPixels     func(int32, int32, int32, int32, uint32, uint32, unsafe.Pointer)
	getString      func(uint32) *byte

	// Buffer operations
	genBuffers    func(int32, *uint32)
	deleteBuffers func(int32, *uint32)
	bindBuffer    func(uint32, uint32)
	bufferData    func(uint32, int, unsafe.Pointer, uint32)

	// VAO operations
	genVertexArrays         func(int32, *uint32)
	deleteVertexArrays      func(int32, *uint32)
	bindVertexArray         func(uint32)
	vertexAttribPointer     func(uint32, int32, uint32, bool, int32, uintptr)
	enableVertexAttribArray func(uint32)

	// Shader operations
	createShader     func(uint32) uint32
	shaderSource     func(uint32, int32, **byte, *int32)
	compileShader    func(uint32)
	getShaderiv      func(uint32, uint32, *int32)
	getShaderInfoLog func(uint32, int32, *int32, *byte)
	deleteShader     func(uint32)

	// Program operations
	createProgram     func() uint32
	attachShader      func(uint32, uint32)
	detachShader      func(uint32, uint32)
	linkProgram       func(uint32)
	validateProgram   func(uint32)
	getProgramiv      func(uint32, uint32, *int32)
	getProgramInfoLog func(uint32, int32, *int32, *byte)
	useProgram        func(uint32)
	deleteProgram     func(uint32)

	// Uniform operations
	getUniformLocation func(uint32, *byte) int32
	uniform1i          func(int32, int32)
	uniform1f          func(int32, float32)
	uniform4f          func(int32, float32, float32, float32, float32)
	uniformMatrix4fv   func(int32, int32, bool, *float32)
	getUniformfv       func(uint32, int32, *float32)
	getUniformiv       func(uint32, int32, *int32)

	// Drawing
	drawArrays   func(uint32, int32, int32)
	drawElements func(uint32, int32, uint32, uintptr)
}

func (gl *openGL) ClearColor(r, g, b, a float32) {
	gl.clearColor(r, g, b, a)
}

func (gl *openGL) Clear(mask uint32) {
	gl.clear(mask)
}

func (gl *openGL) Viewport(x, y, width, height int32) {
	gl.viewport(x, y, width, height)
}

func (gl *openGL) Enable(cap uint32) {
	gl.enable(cap)
}

func (gl *openGL) Disable(cap uint32) {
	gl.disable(cap)
}

func (gl *openGL) BlendFunc(sfactor, dfactor uint32) {
	gl.blendFunc(sfactor, dfactor)
}

func (gl *openGL) PolygonMode(face, mode uint32) {
	gl.polygonMode(face, mode)
}

func (gl *openGL) GenTextures(n int32, textures *uint32) {
	gl.genTextures(n, textures)
}

func (gl *openGL) DeleteTextures(n int32, textures *uint32) {
	gl.deleteTextures(n, textures)
}

func (gl *openGL) ActiveTexture(texture uint32) {
	gl.activeTexture(texture)
}

func (gl *openGL) BindTexture(target, texture uint32) {
	gl.bindTexture(target, texture)
}

func (gl *openGL) TexImage2D(target uint32, level, internalFormat, width, height, border int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.texImage2D(target, level, internalFormat, width, height, border, format, xtype, pixels)
}

func (gl *openGL) TexParameteri(target, pname uint32, param int32) {
	gl.texParameteri(target, pname, param)
}

func (gl *openGL) GenerateMipmap(target uint32) {
	gl.generateMipmap(target)
}

func (gl *openGL) PixelStorei(pname uint32, param int32) {
	gl.pixelStorei(pname, param)
}

func (gl *openGL) GenBuffers(n int32, buffers *uint32) {
	gl.genBuffers(n, buffers)
}

func (gl *openGL) DeleteBuffers(n int32, buffers *uint32) {
	gl.deleteBuffers(n, buffers)
}

func (gl *openGL) BindBuffer(target, buffer uint32) {
	gl.bindBuffer(target, buffer)
}

func (gl *openGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.bufferData(target, size, data, usage)
}

func (gl *openGL) GenVertexArrays(n int32, arrays *uint32) {
	gl.genVertexArrays(n, arrays)
}

func (gl *openGL) DeleteVertexArrays(n int32, arrays *uint32) {
	gl.deleteVertexArrays(n, arrays)
}

func (gl *openGL) BindVertexArray(array uint32) {
	gl.bindVertexArray(array)
}

func (gl *openGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.vertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (gl *openGL) EnableVertexAttribArray(index uint32) {
	gl.enableVertexAttribArray(index)
}

func (gl *openGL) CreateShader(xtype uint32) Shader {
	return Shader(gl.createShader(xtype))
}

func (gl *openGL) ShaderSource(shader Shader, source string) {
	strs, lengths := sourceArrays(source)
	gl.shaderSource(uint32(shader), int32(len(strs)), &strs[0], &lengths[0])
	runtime.KeepAlive(strs)
	runtime.KeepAlive(lengths)
}

func (gl *openGL) CompileShader(shader Shader) {
	gl.compileShader(uint32(shader))
}

func (gl *openGL) GetShaderiv(shader Shader, pname uint32) int32 {
	var v int32
	gl.getShaderiv(uint32(shader), pname, &v)
	return v
}

func (gl *openGL) GetShaderInfoLog(shader Shader, bufSize int32) string {
	if bufSize <= 0 {
		return ""
	}
	buf := make([]byte, bufSize)
	var n int32
	gl.getShaderInfoLog(uint32(shader), bufSize, &n, &buf[0])
	return string(buf[:clampLen(n, bufSize)])
}

func (gl *openGL) DeleteShader(shader Shader) {
	gl.deleteShader(uint32(shader))
}

func (gl *openGL) CreateProgram() Program {
	return Program(gl.createProgram())
}

func (gl *openGL) AttachShader(program Program, shader Shader) {
	gl.attachShader(uint32(program), uint32(shader))
}

func (gl *openGL) DetachShader(program Program, shader Shader) {
	gl.detachShader(uint32(program), uint32(shader))
}

func (gl *openGL) LinkProgram(program Program) {
	gl.linkProgram(uint32(program))
}

func (gl *openGL) ValidateProgram(program Program) {
	gl.validateProgram(uint32(program))
}

func (gl *openGL) GetProgramiv(program Program, pname uint32) int32 {
	var v int32
	gl.getProgramiv(uint32(program), pname, &v)
	return v
}

func (gl *openGL) GetProgramInfoLog(program Program, bufSize int32) string {
	if bufSize <= 0 {
		return ""
	}
	buf := make([]byte, bufSize)
	var n int32
	gl.getProgramInfoLog(uint32(program), bufSize, &n, &buf[0])
	return string(buf[:clampLen(n, bufSize)])
}

func (gl *openGL) UseProgram(program Program) {
	gl.useProgram(uint32(program))
}

func (gl *openGL) DeleteProgram(program Program) {
	gl.deleteProgram(uint32(program))
}

func (gl *openGL) GetUniformLocation(program Program, name string) UniformLocation {
	cname := cString(name)
	loc := gl.getUniformLocation(uint32(program), cname)
	runtime.KeepAlive(cname)
	return UniformLocation(loc)
}

func (gl *openGL) Uniform1i(location UniformLocation, v0 int32) {
	gl.uniform1i(int32(location), v0)
}

func (gl *openGL) Uniform1f(location UniformLocation, v0 float32) {
	gl.uniform1f(int32(location), v0)
}

func (gl *openGL) Uniform4f(location UniformLocation, v0, v1, v2, v3 float32) {
	gl.uniform4f(int32(location), v0, v1, v2, v3)
}

func (gl *openGL) UniformMatrix4fv(location UniformLocation, count int32, transpose bool, value *float32) {
	gl.uniformMatrix4fv(int32(location), count, transpose, value)
}

func (gl *openGL) GetUniformfv(program Program, location UniformLocation, params *float32) {
	gl.getUniformfv(uint32(program), int32(location), params)
}

func (gl *openGL) GetUniformiv(program Program, location UniformLocation, params *int32) {
	gl.getUniformiv(uint32(program), int32(location), params)
}

func (gl *openGL) DrawArrays(mode uint32, first, count int32) {
	gl.drawArrays(mode, first, count)
}

func (gl *openGL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.drawElements(mode, count, xtype, offset)
}

func (gl *openGL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.readPixels(x, y, width, height, format, xtype, pixels)
}

func (gl *openGL) GetString(name uint32) string {
	return gostring(gl.getString(name))
}

func clampLen(n, bufSize int32) int32 {
	if n < 0 {
		return 0
	}
	if n > bufSize-1 {
		return bufSize - 1
	}
	return n
}

// Load binds every entry point this package uses from the current context.
// The context must be current on the calling thread.
func Load(getProcAddress ProcAddressFunc) (OpenGL, error) {
	var missing []string
	register := func(dst interface{}, name string) {
		addr := getProcAddress(name)
		if addr == nil {
			missing = append(missing, name)
			return
		}
		purego.RegisterFunc(dst, uintptr(addr))
	}

	gl := &openGL{}
	register(&gl.clearColor, "glClearColor")
	register(&gl.clear, "glClear")
	register(&gl.viewport, "glViewport")
	register(&gl.enable, "glEnable")
	register(&gl.disable, "glDisable")
	register(&gl.blendFunc, "glBlendFunc")
	register(&gl.polygonMode, "glPolygonMode")
	register(&gl.genTextures, "glGenTextures")
	register(&gl.deleteTextures, "glDeleteTextures")
	register(&gl.activeTexture, "glActiveTexture")
	register(&gl.bindTexture, "glBindTexture")
	register(&gl.texImage2D, "glTexImage2D")
	register(&gl.texParameteri, "glTexParameteri")
	register(&gl.generateMipmap, "glGenerateMipmap")
	register(&gl.pixelStorei, "glPixelStorei")
	register(&gl.readPixels, "glReadPixels")
	register(&gl.getString, "glGetString")

	register(&gl.genBuffers, "glGenBuffers")
	register(&gl.deleteBuffers, "glDeleteBuffers")
	register(&gl.bindBuffer, "glBindBuffer")
	register(&gl.bufferData, "glBufferData")
	register(&gl.genVertexArrays, "glGenVertexArrays")
	register(&gl.deleteVertexArrays, "glDeleteVertexArrays")
	register(&gl.bindVertexArray, "glBindVertexArray")
	register(&gl.vertexAttribPointer, "glVertexAttribPointer")
	register(&gl.enableVertexAttribArray, "glEnableVertexAttribArray")

	register(&gl.createShader, "glCreateShader")
	register(&gl.shaderSource, "glShaderSource")
	register(&gl.compileShader, "glCompileShader")
	register(&gl.getShaderiv, "glGetShaderiv")
	register(&gl.getShaderInfoLog, "glGetShaderInfoLog")
	register(&gl.deleteShader, "glDeleteShader")
	register(&gl.createProgram, "glCreateProgram")
	register(&gl.attachShader, "glAttachShader")
	register(&gl.detachShader, "glDetachShader")
	register(&gl.linkProgram, "glLinkProgram")
	register(&gl.validateProgram, "glValidateProgram")
	register(&gl.getProgramiv, "glGetProgramiv")
	register(&gl.getProgramInfoLog, "glGetProgramInfoLog")
	register(&gl.useProgram, "glUseProgram")
	register(&gl.deleteProgram, "glDeleteProgram")

	register(&gl.getUniformLocation, "glGetUniformLocation")
	register(&gl.uniform1i, "glUniform1i")
	register(&gl.uniform1f, "glUniform1f")
	register(&gl.uniform4f, "glUniform4f")
	register(&gl.uniformMatrix4fv, "glUniformMatrix4fv")
	register(&gl.getUniformfv, "glGetUniformfv")
	register(&gl.getUniformiv, "glGetUniformiv")

	register(&gl.drawArrays, "glDrawArrays")
	register(&gl.drawElements, "glDrawElements")

	if len(missing) > 0 {
		return nil, fmt.Errorf("gl: missing entry points %v", missing)
	}
	return gl, nil
}
