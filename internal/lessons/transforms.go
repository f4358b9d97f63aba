package lessons

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/tinyrange/learngl/internal/graphics"
	"github.com/tinyrange/learngl/internal/shader"
	"github.com/tinyrange/learngl/internal/window"
)

// percentStep is how far one Up or Down press moves the second quad's blend.
const percentStep = 0.1

// transforms draws two textured quads with separate programs built from the
// same files: one spins in the bottom right corner, the other pulses in the
// top left and has its blend controlled by the arrow keys.
type transforms struct {
	programs [2]*shader.Reloader
	meshes   [2]*graphics.Mesh
	crate    *graphics.Texture
	face     *graphics.Texture

	percent float32
}

func (l *transforms) Setup(env *Env) error {
	vertices := []float32{
		// position       texcoord
		0.5, 0.5, 0.0, 1.0, 1.0,
		0.5, -0.5, 0.0, 1.0, 0.0,
		-0.5, -0.5, 0.0, 0.0, 0.0,
		-0.5, 0.5, 0.0, 0.0, 1.0,
	}
	for i := range l.programs {
		p, err := env.LoadProgram("transforms.vert", "transforms.frag", bindSamplers)
		if err != nil {
			return err
		}
		l.programs[i] = p

		m, err := graphics.NewMesh(env.GL, vertices, quadIndices, []int32{3, 2})
		if err != nil {
			return err
		}
		l.meshes[i] = m
	}

	var err error
	l.crate, l.face, err = loadLessonTextures(env)
	return err
}

// step moves the blend by one notch, snapped to tenths and clamped to [0,1].
func step(percent, delta float32) float32 {
	p := math32.Floor((percent+delta)*10+0.5) / 10
	return math32.Max(0, math32.Min(1, p))
}

func (l *transforms) Draw(f graphics.Frame) error {
	if f.GetKeyState(window.KeyUp) == window.KeyStatePressed {
		l.percent = step(l.percent, percentStep)
	}
	if f.GetKeyState(window.KeyDown) == window.KeyStatePressed {
		l.percent = step(l.percent, -percentStep)
	}

	t := float32(f.Time())
	k := math32.Sin(t)/2 + 0.5

	l.crate.Bind(0)
	l.face.Bind(1)

	spin := mgl32.Translate3D(0.5, -0.5, 0).Mul4(mgl32.HomogRotate3DZ(t))
	p := l.programs[0].Program()
	p.Use()
	p.SetMat4("transform", spin)
	p.SetFloat("percent", k)
	l.meshes[0].Draw()

	pulse := mgl32.Translate3D(-0.5, 0.5, 0).Mul4(mgl32.Scale3D(k, k, k))
	p = l.programs[1].Program()
	p.Use()
	p.SetMat4("transform", pulse)
	p.SetFloat("percent", l.percent)
	l.meshes[1].Draw()
	return nil
}

func (l *transforms) Close() {
	for _, m := range l.meshes {
		if m != nil {
			m.Delete()
		}
	}
	if l.crate != nil {
		l.crate.Delete()
		l.face.Delete()
	}
}
