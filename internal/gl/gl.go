package gl

import "unsafe"

const (
	// ColorBufferBit is a mask used with Clear to clear the color buffer.
	ColorBufferBit = 0x00004000
	// DepthBufferBit is a mask used with Clear to clear the depth buffer.
	DepthBufferBit = 0x00000100

	// Texture2D is the texture target for 2D textures.
	Texture2D = 0x0DE1
	// Texture0 is the first texture unit. Unit n is Texture0 + n.
	Texture0 = 0x84C0

	// UnpackAlignment specifies the alignment requirements for pixel data
	// when uploading textures (PixelStorei).
	UnpackAlignment = 0x0CF5

	// TextureWrapS selects the wrapping function for texture coordinate S.
	TextureWrapS = 0x2802
	// TextureWrapT selects the wrapping function for texture coordinate T.
	TextureWrapT = 0x2803

	// TextureMinFilter selects the texture minification filter.
	TextureMinFilter = 0x2801
	// TextureMagFilter selects the texture magnification filter.
	TextureMagFilter = 0x2800

	// Nearest selects nearest-neighbor filtering.
	Nearest = 0x2600
	// Linear selects linear filtering.
	Linear = 0x2601
	// LinearMipmapLinear selects trilinear filtering for minification.
	LinearMipmapLinear = 0x2703

	// Repeat tiles the texture outside [0,1].
	Repeat = 0x2901
	// ClampToEdge clamps texture coordinates to the edge of the texture.
	ClampToEdge = 0x812F

	// RGB and RGBA are pixel formats.
	RGB  = 0x1907
	RGBA = 0x1908

	// Data types.
	UnsignedByte = 0x1401
	UnsignedInt  = 0x1405
	Float        = 0x1406

	// Primitive types.
	Triangles     = 0x0004
	TriangleStrip = 0x0005

	// Blending capabilities and factors.
	Blend            = 0x0BE2
	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303

	// PolygonMode parameters.
	FrontAndBack = 0x0408
	Line         = 0x1B01
	Fill         = 0x1B02

	// Buffer targets and usage.
	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4

	// Shader stage types for CreateShader.
	FragmentShader = 0x8B30
	VertexShader   = 0x8B31

	// Shader and program queries for GetShaderiv and GetProgramiv.
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	ValidateStatus = 0x8B83
	InfoLogLength  = 0x8B84

	// GetString parameters.
	//
	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Renderer names the GL renderer.
	Renderer = 0x1F01
	// Version returns the GL version string of the current context.
	Version = 0x1F02
	// ShadingLanguageVersion returns the supported GLSL version.
	ShadingLanguageVersion = 0x8B8C

	// True and False as returned by GetShaderiv and GetProgramiv.
	True  = 1
	False = 0
)

// Shader names a compiled (or failed) shader stage object.
type Shader uint32

// Program names a program object.
type Program uint32

// UniformLocation is the location of a uniform inside a linked program.
// NoUniform (-1) is returned for names the program does not declare, and
// uploads to it are ignored by GL.
type UniformLocation int32

// NoUniform is the location GL reports for an unknown uniform name.
const NoUniform UniformLocation = -1

// OpenGL describes the subset of OpenGL 3.3 core entry points used by this module.
//
// Implementations typically wrap platform-specific GL bindings. All methods are
// expected to operate on the currently current GL context for the calling thread.
// The context, including the current program and texture bindings, is shared
// mutable state: any call that binds something replaces what was bound before.
type OpenGL interface {
	// ClearColor sets the clear color used by Clear when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// Clear clears buffers to preset values (e.g., ColorBufferBit).
	Clear(mask uint32)

	// Viewport sets the affine transformation of x and y from normalized device
	// coordinates to window coordinates.
	Viewport(x, y, width, height int32)

	// Enable enables a server-side GL capability (e.g., Blend).
	Enable(cap uint32)

	// Disable disables a server-side GL capability.
	Disable(cap uint32)

	// BlendFunc specifies the pixel arithmetic for blending.
	BlendFunc(sfactor, dfactor uint32)

	// PolygonMode selects how polygons are rasterized (Fill or Line).
	PolygonMode(face, mode uint32)

	// GenTextures generates texture object names.
	GenTextures(n int32, textures *uint32)

	// DeleteTextures deletes texture objects.
	DeleteTextures(n int32, textures *uint32)

	// ActiveTexture selects the texture unit that BindTexture affects.
	ActiveTexture(texture uint32)

	// BindTexture binds a named texture to a texturing target (e.g., Texture2D).
	BindTexture(target, texture uint32)

	// TexImage2D specifies a two-dimensional texture image.
	//
	// The pixels pointer may be nil to allocate storage without uploading data.
	TexImage2D(
		target uint32,
		level int32,
		internalformat int32,
		width int32,
		height int32,
		border int32,
		format uint32,
		xtype uint32,
		pixels unsafe.Pointer,
	)

	// TexParameteri sets texture parameters for the currently bound texture.
	TexParameteri(target, pname uint32, param int32)

	// GenerateMipmap builds the mipmap chain of the texture bound to target.
	GenerateMipmap(target uint32)

	// PixelStorei sets pixel storage modes (e.g., UnpackAlignment).
	PixelStorei(pname uint32, param int32)

	// GenBuffers generates buffer object names.
	GenBuffers(n int32, buffers *uint32)

	// DeleteBuffers deletes buffer objects.
	DeleteBuffers(n int32, buffers *uint32)

	// BindBuffer binds a buffer to a target (ArrayBuffer, ElementArrayBuffer).
	BindBuffer(target, buffer uint32)

	// BufferData creates and fills the data store of the buffer bound to target.
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)

	// GenVertexArrays generates vertex array object names.
	GenVertexArrays(n int32, arrays *uint32)

	// DeleteVertexArrays deletes vertex array objects.
	DeleteVertexArrays(n int32, arrays *uint32)

	// BindVertexArray binds a vertex array object.
	BindVertexArray(array uint32)

	// VertexAttribPointer describes attribute index of the bound array buffer.
	// offset is a byte offset into the buffer.
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)

	// EnableVertexAttribArray enables attribute index of the bound vertex array.
	EnableVertexAttribArray(index uint32)

	// CreateShader creates an empty shader object of the given stage type.
	CreateShader(xtype uint32) Shader

	// ShaderSource replaces the source code of a shader object.
	ShaderSource(shader Shader, source string)

	// CompileShader compiles a shader object.
	CompileShader(shader Shader)

	// GetShaderiv returns a parameter of a shader object (e.g., CompileStatus).
	GetShaderiv(shader Shader, pname uint32) int32

	// GetShaderInfoLog returns at most bufSize-1 bytes of the shader's info log.
	GetShaderInfoLog(shader Shader, bufSize int32) string

	// DeleteShader deletes a shader object.
	DeleteShader(shader Shader)

	// CreateProgram creates an empty program object.
	CreateProgram() Program

	// AttachShader attaches a shader object to a program.
	AttachShader(program Program, shader Shader)

	// DetachShader detaches a shader object from a program.
	DetachShader(program Program, shader Shader)

	// LinkProgram links a program object.
	LinkProgram(program Program)

	// ValidateProgram checks whether the program can execute in the current state.
	ValidateProgram(program Program)

	// GetProgramiv returns a parameter of a program object (e.g., LinkStatus).
	GetProgramiv(program Program, pname uint32) int32

	// GetProgramInfoLog returns at most bufSize-1 bytes of the program's info log.
	GetProgramInfoLog(program Program, bufSize int32) string

	// UseProgram installs program as part of the current rendering state.
	UseProgram(program Program)

	// DeleteProgram deletes a program object.
	DeleteProgram(program Program)

	// GetUniformLocation returns the location of a uniform, or NoUniform.
	GetUniformLocation(program Program, name string) UniformLocation

	// Uniform1i sets an int (or bool, or sampler) uniform of the current program.
	Uniform1i(location UniformLocation, v0 int32)

	// Uniform1f sets a float uniform of the current program.
	Uniform1f(location UniformLocation, v0 float32)

	// Uniform4f sets a vec4 uniform of the current program.
	Uniform4f(location UniformLocation, v0, v1, v2, v3 float32)

	// UniformMatrix4fv sets count mat4 uniforms of the current program from
	// column-major data.
	UniformMatrix4fv(location UniformLocation, count int32, transpose bool, value *float32)

	// GetUniformfv reads back a float uniform of program into params.
	GetUniformfv(program Program, location UniformLocation, params *float32)

	// GetUniformiv reads back an int uniform of program into params.
	GetUniformiv(program Program, location UniformLocation, params *int32)

	// DrawArrays renders primitives from array data.
	DrawArrays(mode uint32, first, count int32)

	// DrawElements renders indexed primitives. offset is a byte offset into
	// the bound element array buffer.
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)

	// ReadPixels reads a block of pixels from the framebuffer into client memory.
	ReadPixels(
		x int32,
		y int32,
		width int32,
		height int32,
		format uint32,
		xtype uint32,
		pixels unsafe.Pointer,
	)

	// GetString returns a string describing a GL property for the current context.
	//
	// Common names are Vendor and Version.
	// If the name is not recognized or no context is current, implementations may
	// return the empty string.
	GetString(name uint32) string
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}

func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}

// sourceArrays builds the string and length arrays glShaderSource reads. The
// string is NUL terminated as well, so drivers that ignore the lengths still
// stop at the right place.
func sourceArrays(source string) (strs []*byte, lengths []int32) {
	return []*byte{cString(source)}, []int32{int32(len(source))}
}
