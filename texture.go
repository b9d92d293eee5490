package aeno

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg" // Ensure decoders are present
	_ "image/png"
	"io"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type Texture interface {
	Sample(u, v float64) Color
	BilinearSample(u, v float64) Color
}

// ImageTexture samples an image with repeat wrapping.
// Repeat and Offset transform texture coordinates before wrapping.
type ImageTexture struct {
	Dirty
	Width  int
	Height int
	Image  image.Image
	Repeat [2]float64
	Offset [2]float64
	FlipY  bool
	pix    *image.NRGBA
}

func NewImageTexture(im image.Image) *ImageTexture {
	t := &ImageTexture{
		Width:  im.Bounds().Dx(),
		Height: im.Bounds().Dy(),
		Image:  im,
		Repeat: [2]float64{1, 1},
		FlipY:  true,
	}
	t.MarkDirty()
	return t
}

func LoadTexture(path string) (*ImageTexture, error) {
	return LoadTextureProgress(path, nil)
}

// LoadTextureProgress behaves like LoadTexture and reports bytes read.
// Paths may be http(s) URLs.
func LoadTextureProgress(path string, progress ProgressFunc) (*ImageTexture, error) {
	rc, total, err := OpenAsset(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return LoadTextureFromReader(NewProgressReader(rc, total, progress))
}

func LoadTextureFromURL(url string) (*ImageTexture, error) {
	return LoadTextureProgress(url, nil)
}

func LoadTextureFromReader(r io.Reader) (*ImageTexture, error) {
	im, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("aeno: decode texture: %w", err)
	}
	return NewImageTexture(im), nil
}

func TexFromBytes(data []byte) (*ImageTexture, error) {
	return LoadTextureFromReader(bytes.NewReader(data))
}

// SetRepeat sets the tiling factor on both axes, marking the texture dirty only on change
func (t *ImageTexture) SetRepeat(u, v float64) {
	if t.Repeat == [2]float64{u, v} {
		return
	}
	t.Repeat = [2]float64{u, v}
	t.MarkDirty()
}

// upload converts the source image once so sampling avoids the image.Image interface
func (t *ImageTexture) upload() {
	if t.pix == nil {
		if n, ok := t.Image.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
			t.pix = n
		} else {
			b := t.Image.Bounds()
			n := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
			draw.Draw(n, n.Bounds(), t.Image, b.Min, draw.Src)
			t.pix = n
		}
	}
	t.needsUpdate = false
}

func (t *ImageTexture) texel(x, y int) Color {
	if t.pix == nil {
		b := t.Image.Bounds()
		return MakeColor(t.Image.At(b.Min.X+x, b.Min.Y+y))
	}
	i := t.pix.PixOffset(x, y)
	p := t.pix.Pix[i : i+4 : i+4]
	const d = 0xff
	return Color{float64(p[0]) / d, float64(p[1]) / d, float64(p[2]) / d, float64(p[3]) / d}
}

func (t *ImageTexture) coords(u, v float64) (float64, float64) {
	u = u*t.Repeat[0] + t.Offset[0]
	v = v*t.Repeat[1] + t.Offset[1]
	// Wrap coords
	u = u - math.Floor(u)
	v = v - math.Floor(v)
	if t.FlipY {
		v = 1 - v
	}
	return u, v
}

func (t *ImageTexture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return White
	}
	u, v = t.coords(u, v)
	x := int(u * float64(t.Width))
	y := int(v * float64(t.Height))

	// Bounds check
	if x >= t.Width {
		x = t.Width - 1
	}
	if y >= t.Height {
		y = t.Height - 1
	}
	return t.texel(x, y)
}

func (t *ImageTexture) BilinearSample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return White
	}
	u, v = t.coords(u, v)
	w := float64(t.Width) - 1
	h := float64(t.Height) - 1
	X, x := math.Modf(u * w)
	Y, y := math.Modf(v * h)
	x0 := int(X)
	y0 := int(Y)
	x1 := ClampInt(x0+1, 0, t.Width-1)
	y1 := ClampInt(y0+1, 0, t.Height-1)
	c00 := t.texel(x0, y0)
	c01 := t.texel(x0, y1)
	c10 := t.texel(x1, y0)
	c11 := t.texel(x1, y1)
	c := Color{}
	c = c.Add(c00.MulScalar((1 - x) * (1 - y)))
	c = c.Add(c10.MulScalar(x * (1 - y)))
	c = c.Add(c01.MulScalar((1 - x) * y))
	c = c.Add(c11.MulScalar(x * y))
	return c
}
