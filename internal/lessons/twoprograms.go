package lessons

import (
	"github.com/tinyrange/learngl/internal/graphics"
	"github.com/tinyrange/learngl/internal/shader"
)

// twoPrograms draws one triangle orange and one yellow, switching programs
// between the draws.
type twoPrograms struct {
	programs [2]*shader.Program
	meshes   [2]*graphics.Mesh
}

func (l *twoPrograms) Setup(env *Env) error {
	fragments := [2]string{orangeFragment, yellowFragment}
	triangles := [2][]float32{
		{0.2, 0.0, 0.0, 0.5, 0.8, 0.0, 0.8, 0.0, 0.0},
		{-0.2, 0.0, 0.0, -0.5, 0.8, 0.0, -0.8, 0.0, 0.0},
	}
	for i := range l.programs {
		p, err := shader.Create(env.GL, basicVertex, fragments[i])
		if err != nil {
			return err
		}
		l.programs[i] = p

		m, err := graphics.NewMesh(env.GL, triangles[i], nil, []int32{3})
		if err != nil {
			return err
		}
		l.meshes[i] = m
	}
	return nil
}

func (l *twoPrograms) Draw(graphics.Frame) error {
	for i, p := range l.programs {
		p.Use()
		l.meshes[i].Draw()
	}
	return nil
}

func (l *twoPrograms) Close() {
	for i := range l.programs {
		if l.meshes[i] != nil {
			l.meshes[i].Delete()
		}
		if l.programs[i] != nil {
			l.programs[i].Destroy()
		}
	}
}
