package lessons

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/tinyrange/learngl/internal/graphics"
	"github.com/tinyrange/learngl/internal/shader"
)

// uniforms pulses the green channel of a vertex-coloured triangle over time.
type uniforms struct {
	program *shader.Reloader
	mesh    *graphics.Mesh
}

func (l *uniforms) Setup(env *Env) error {
	var err error
	l.program, err = env.LoadProgram("uniforms.vert", "uniforms.frag", nil)
	if err != nil {
		return err
	}
	l.mesh, err = graphics.NewMesh(env.GL, []float32{
		// position      colour
		0.5, -0.5, 0.0, 1.0, 0.0, 0.0,
		-0.5, -0.5, 0.0, 0.0, 1.0, 0.0,
		0.0, 0.5, 0.0, 0.0, 0.0, 1.0,
	}, nil, []int32{3, 3})
	return err
}

func (l *uniforms) Draw(f graphics.Frame) error {
	green := math32.Sin(float32(f.Time()))/2 + 0.5

	p := l.program.Program()
	p.Use()
	p.SetVec4("ourColor", mgl32.Vec4{0, green, 0, 1})
	p.SetFloat("offset", 0.5)
	l.mesh.Draw()
	return nil
}

func (l *uniforms) Close() {
	if l.mesh != nil {
		l.mesh.Delete()
	}
}
