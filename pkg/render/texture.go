package render

import (
	"image"
	"math"

	"github.com/taigrr/graft/pkg/models"
)

// WrapMode controls how UVs outside [0, 1] are resolved.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // glTF's default sampler wrap
	WrapClamp
)

// FilterMode selects the sampling filter.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterBilinear
)

// Texture is a straight-alpha texel grid. Row 0 is the top of the image,
// which is where glTF places V = 0.
type Texture struct {
	Width, Height int
	Pixels        []Color
	WrapU, WrapV  WrapMode
	FilterMode    FilterMode
}

// NewTexture creates a transparent texture that repeats in both directions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// TextureFromImage copies img into a texture. Fully transparent texels are
// stored as zero so they never bleed color into filtered samples.
func TextureFromImage(img image.Image) *Texture {
	src := models.ToNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	tex := NewTexture(w, h)
	for y := range h {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := range w {
			p := row[x*4 : x*4+4]
			if p[3] == 0 {
				continue
			}
			tex.Pixels[y*w+x] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	return tex
}

// SetPixel writes a texel; out-of-range writes are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if t.inside(x, y) {
		t.Pixels[y*t.Width+x] = c
	}
}

// GetPixel reads a texel; out-of-range reads are transparent.
func (t *Texture) GetPixel(x, y int) Color {
	if !t.inside(x, y) {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

func (t *Texture) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < t.Width && y < t.Height
}

// Sample looks up the texture at (u, v). An empty texture samples as
// transparent.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	if t.FilterMode == FilterBilinear {
		return t.bilinear(u, v)
	}
	x := texel(u*float64(t.Width), t.Width, t.WrapU)
	y := texel(v*float64(t.Height), t.Height, t.WrapV)
	return t.Pixels[y*t.Width+x]
}

// bilinear blends the four texels around (u, v), weighting each by its
// overlap the way a GPU sampler does.
func (t *Texture) bilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	bx, by := math.Floor(fx), math.Floor(fy)
	dx, dy := fx-bx, fy-by

	x0 := texel(bx+0.5, t.Width, t.WrapU)
	x1 := texel(bx+1.5, t.Width, t.WrapU)
	y0 := texel(by+0.5, t.Height, t.WrapV)
	y1 := texel(by+1.5, t.Height, t.WrapV)

	c00, c10 := t.Pixels[y0*t.Width+x0], t.Pixels[y0*t.Width+x1]
	c01, c11 := t.Pixels[y1*t.Width+x0], t.Pixels[y1*t.Width+x1]
	w00, w10 := (1-dx)*(1-dy), dx*(1-dy)
	w01, w11 := (1-dx)*dy, dx*dy

	mix := func(a, b, c, d uint8) uint8 {
		return uint8(float64(a)*w00 + float64(b)*w10 + float64(c)*w01 + float64(d)*w11 + 0.5)
	}
	return Color{
		R: mix(c00.R, c10.R, c01.R, c11.R),
		G: mix(c00.G, c10.G, c01.G, c11.G),
		B: mix(c00.B, c10.B, c01.B, c11.B),
		A: mix(c00.A, c10.A, c01.A, c11.A),
	}
}

// texel maps a continuous texel coordinate to a column or row index.
func texel(p float64, size int, mode WrapMode) int {
	i := int(math.Floor(p))
	if mode == WrapClamp {
		return max(0, min(size-1, i))
	}
	i %= size
	if i < 0 {
		i += size
	}
	return i
}

// MultiplyColor scales the color channels by intensity, rounding and
// saturating. Alpha is kept.
func MultiplyColor(c Color, intensity float64) Color {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, float64(v)*intensity+0.5))
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// ModulateColor multiplies two colors channel by channel, alpha included.
// This is how a texel tints a material's base color.
func ModulateColor(a, b Color) Color {
	mul := func(x, y uint8) uint8 { return uint8(int(x) * int(y) / 255) }
	return Color{R: mul(a.R, b.R), G: mul(a.G, b.G), B: mul(a.B, b.B), A: mul(a.A, b.A)}
}
