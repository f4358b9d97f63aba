package lessons

import (
	"github.com/tinyrange/learngl/internal/graphics"
	"github.com/tinyrange/learngl/internal/shader"
)

const basicVertex = `#version 330 core
layout (location = 0) in vec3 aPos;

void main() {
    gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);
}
`

const orangeFragment = `#version 330 core
out vec4 FragColor;

void main() {
    FragColor = vec4(1.0, 0.5, 0.2, 1.0);
}
`

const yellowFragment = `#version 330 core
out vec4 FragColor;

void main() {
    FragColor = vec4(1.0, 1.0, 0.0, 1.0);
}
`

// triangle draws two orange triangles from one non-indexed mesh.
type triangle struct {
	program *shader.Program
	mesh    *graphics.Mesh
}

func (l *triangle) Setup(env *Env) error {
	var err error
	l.program, err = shader.Create(env.GL, basicVertex, orangeFragment)
	if err != nil {
		return err
	}
	l.mesh, err = graphics.NewMesh(env.GL, []float32{
		0.2, 0.0, 0.0,
		0.5, 0.8, 0.0,
		0.8, 0.0, 0.0,
		-0.2, 0.0, 0.0,
		-0.5, 0.8, 0.0,
		-0.8, 0.0, 0.0,
	}, nil, []int32{3})
	return err
}

func (l *triangle) Draw(graphics.Frame) error {
	l.program.Use()
	l.mesh.Draw()
	return nil
}

func (l *triangle) Close() {
	if l.mesh != nil {
		l.mesh.Delete()
	}
	if l.program != nil {
		l.program.Destroy()
	}
}
