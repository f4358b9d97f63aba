package lessons

import (
	"image/color"
	"path/filepath"

	"github.com/tinyrange/learngl/internal/gl"
	"github.com/tinyrange/learngl/internal/graphics"
	"github.com/tinyrange/learngl/internal/shader"
)

var (
	checkerOrange = color.NRGBA{R: 0xff, G: 0x99, B: 0x33, A: 0xff}
	checkerBrown  = color.NRGBA{R: 0x66, G: 0x44, B: 0x22, A: 0xff}
	checkerYellow = color.NRGBA{R: 0xff, G: 0xee, B: 0x33, A: 0xff}
	checkerClear  = color.NRGBA{}
)

// loadTexture loads name from the texture directory, falling back to a
// checkerboard when the file is missing or unreadable.
func loadTexture(env *Env, name string, opts graphics.TextureOptions, a, b color.Color) (*graphics.Texture, error) {
	path := filepath.Join(env.TextureDir, name)
	tex, err := graphics.LoadTexture(env.GL, path, opts)
	if err == nil {
		w, h := tex.Size()
		env.logger().Debug("texture loaded", "path", path, "width", w, "height", h)
		return tex, nil
	}
	env.logger().Warn("using generated texture", "path", path, "err", err)
	opts.MinFilter, opts.MagFilter = gl.Nearest, gl.Nearest
	return graphics.NewTexture(env.GL, graphics.Checker(8, a, b), opts)
}

// loadLessonTextures loads the crate and the face used by the texture
// lessons.
func loadLessonTextures(env *Env) (crate, face *graphics.Texture, err error) {
	crate, err = loadTexture(env, "container.jpg", graphics.TextureOptions{}, checkerOrange, checkerBrown)
	if err != nil {
		return nil, nil, err
	}
	face, err = loadTexture(env, "awesomeface.png", graphics.TextureOptions{FlipY: true}, checkerYellow, checkerClear)
	if err != nil {
		crate.Delete()
		return nil, nil, err
	}
	return crate, face, nil
}

// bindSamplers points texture1 at unit 0 and texture2 at unit 1.
func bindSamplers(p *shader.Program) {
	p.SetInt("texture1", 0)
	p.SetInt("texture2", 1)
}

// quad is a unit quad with position, colour and texture coordinates.
var quad = []float32{
	// position       colour          texcoord
	0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0,
	0.5, -0.5, 0.0, 0.0, 1.0, 0.0, 1.0, 0.0,
	-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0,
	-0.5, 0.5, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0,
}

var quadIndices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

// textures blends two textures on an indexed quad.
type textures struct {
	program *shader.Reloader
	mesh    *graphics.Mesh
	crate   *graphics.Texture
	face    *graphics.Texture
}

func (l *textures) Setup(env *Env) error {
	var err error
	l.program, err = env.LoadProgram("textures.vert", "textures.frag", bindSamplers)
	if err != nil {
		return err
	}
	l.mesh, err = graphics.NewMesh(env.GL, quad, quadIndices, []int32{3, 3, 2})
	if err != nil {
		return err
	}
	l.crate, l.face, err = loadLessonTextures(env)
	return err
}

func (l *textures) Draw(graphics.Frame) error {
	l.crate.Bind(0)
	l.face.Bind(1)
	l.program.Program().Use()
	l.mesh.Draw()
	return nil
}

func (l *textures) Close() {
	if l.mesh != nil {
		l.mesh.Delete()
	}
	if l.crate != nil {
		l.crate.Delete()
		l.face.Delete()
	}
}
