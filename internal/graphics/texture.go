package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"unsafe"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	glpkg "github.com/tinyrange/learngl/internal/gl"
)

// TextureOptions control sampling. The zero value repeats, filters linearly
// and samples mipmaps when minifying.
type TextureOptions struct {
	// FlipY flips the image so its first row lands at texture coordinate t=0.
	FlipY     bool
	Wrap      int32
	MinFilter int32
	MagFilter int32
}

func (o TextureOptions) withDefaults() TextureOptions {
	if o.Wrap == 0 {
		o.Wrap = glpkg.Repeat
	}
	if o.MinFilter == 0 {
		o.MinFilter = glpkg.LinearMipmapLinear
	}
	if o.MagFilter == 0 {
		o.MagFilter = glpkg.Linear
	}
	return o
}

type Texture struct {
	gl glpkg.OpenGL
	id uint32
	w  int
	h  int
}

// NewTexture uploads img as an RGBA texture and generates its mipmaps.
func NewTexture(ctx glpkg.OpenGL, img image.Image, opts TextureOptions) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("texture: empty image")
	}
	opts = opts.withDefaults()

	var src image.Image = img
	if opts.FlipY {
		src = transform.FlipV(img)
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), src, src.Bounds().Min, draw.Src)

	t := &Texture{gl: ctx, w: b.Dx(), h: b.Dy()}
	ctx.GenTextures(1, &t.id)
	ctx.BindTexture(glpkg.Texture2D, t.id)
	ctx.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapS, opts.Wrap)
	ctx.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapT, opts.Wrap)
	ctx.TexParameteri(glpkg.Texture2D, glpkg.TextureMinFilter, opts.MinFilter)
	ctx.TexParameteri(glpkg.Texture2D, glpkg.TextureMagFilter, opts.MagFilter)

	ctx.TexImage2D(
		glpkg.Texture2D,
		0,
		int32(glpkg.RGBA),
		int32(t.w),
		int32(t.h),
		0,
		glpkg.RGBA,
		glpkg.UnsignedByte,
		unsafe.Pointer(&nrgba.Pix[0]),
	)
	ctx.GenerateMipmap(glpkg.Texture2D)

	return t, nil
}

// LoadTexture decodes a png, jpeg, bmp or webp file and uploads it.
func LoadTexture(ctx glpkg.OpenGL, path string, opts TextureOptions) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return NewTexture(ctx, img, opts)
}

// Checker returns an n by n checkerboard alternating a and b per pixel.
func Checker(n int, a, b color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

func (t *Texture) Size() (int, int) {
	return t.w, t.h
}

// ID returns the GL texture name.
func (t *Texture) ID() uint32 {
	return t.id
}

// Bind makes unit active and binds the texture to it.
func (t *Texture) Bind(unit int) {
	t.gl.ActiveTexture(glpkg.Texture0 + uint32(unit))
	t.gl.BindTexture(glpkg.Texture2D, t.id)
}

// Delete releases the texture. It is safe to call more than once.
func (t *Texture) Delete() {
	if t.id == 0 {
		return
	}
	t.gl.DeleteTextures(1, &t.id)
	t.id = 0
}
