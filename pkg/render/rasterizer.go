package render

import (
	"math"

	"github.com/taigrr/graft/pkg/math3d"
)

// alphaCutoff is the alpha below which a textured fragment is discarded, so
// hair cards show their strands instead of their quads.
const alphaCutoff = 128

// Vertex is one triangle corner in world space.
type Vertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
	Color    Color // multiplied with the texel
}

// Triangle is three vertices wound counter-clockwise when seen from the
// front, as glTF winds them.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer fills triangles into a framebuffer with a depth test, flat
// Lambert shading and perspective-correct texturing.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64

	// LightDir points from the surface toward the light. Zero means a
	// headlight at the camera.
	LightDir math3d.Vec3
	// Ambient is the intensity of faces that receive no direct light.
	Ambient float64

	DisableBackfaceCulling bool
}

// NewRasterizer creates a rasterizer with a depth buffer sized to fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb, Ambient: 0.3}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer after it was resized.
func (r *Rasterizer) Resize() {
	n := r.fb.Width * r.fb.Height
	if len(r.zbuffer) != n {
		r.zbuffer = make([]float64, n)
	}
}

// ClearDepth resets the depth buffer. Call it once per frame.
func (r *Rasterizer) ClearDepth() {
	if len(r.zbuffer) == 0 {
		return
	}
	r.zbuffer[0] = math.Inf(1)
	for n := 1; n < len(r.zbuffer); n *= 2 {
		copy(r.zbuffer[n:], r.zbuffer[:n])
	}
}

// corner is a vertex after projection: pixel position, NDC depth and the
// reciprocal of clip w for perspective correction.
type corner struct {
	x, y, z, invW float64
}

// toScreen projects the triangle. It fails when any corner is at or behind
// the camera plane; such triangles are dropped rather than clipped.
func (r *Rasterizer) toScreen(tri Triangle) (out [3]corner, ok bool) {
	vp := r.camera.ViewProjectionMatrix()
	w, h := float64(r.fb.Width), float64(r.fb.Height)
	for i, v := range tri.V {
		clip := vp.MulVec4(math3d.V4FromV3(v.Position, 1))
		if clip.W <= 0 {
			return out, false
		}
		inv := 1 / clip.W
		out[i] = corner{
			x:    (clip.X*inv + 1) / 2 * w,
			y:    (1 - clip.Y*inv) / 2 * h,
			z:    clip.Z * inv,
			invW: inv,
		}
	}
	return out, true
}

// intensity is the flat Lambert term for the triangle's face. The normal is
// turned toward the camera so double-sided faces light from the visible side.
func (r *Rasterizer) intensity(tri Triangle) float64 {
	p0 := tri.V[0].Position
	n := tri.V[1].Position.Sub(p0).Cross(tri.V[2].Position.Sub(p0)).Normalize()
	if n.Dot(r.camera.Position().Sub(p0)) < 0 {
		n = n.Scale(-1)
	}
	light := r.LightDir
	if light.LenSq() == 0 {
		light = r.camera.Forward().Scale(-1)
	}
	return r.Ambient + (1-r.Ambient)*max(0, n.Dot(light.Normalize()))
}

// DrawTriangle rasterizes tri. A nil texture draws the vertex colors.
func (r *Rasterizer) DrawTriangle(tri Triangle, tex *Texture) {
	c, ok := r.toScreen(tri)
	if !ok {
		return
	}

	// Signed doubled area; screen y grows downward, so front faces are
	// negative.
	area := (c[1].x-c[0].x)*(c[2].y-c[0].y) - (c[1].y-c[0].y)*(c[2].x-c[0].x)
	if math.Abs(area) < 1e-12 || (area > 0 && !r.DisableBackfaceCulling) {
		return
	}

	x0 := max(0, int(math.Floor(min(c[0].x, c[1].x, c[2].x))))
	x1 := min(r.fb.Width-1, int(math.Ceil(max(c[0].x, c[1].x, c[2].x))))
	y0 := max(0, int(math.Floor(min(c[0].y, c[1].y, c[2].y))))
	y1 := min(r.fb.Height-1, int(math.Ceil(max(c[0].y, c[1].y, c[2].y))))
	if x0 > x1 || y0 > y1 {
		return
	}

	shade := r.intensity(tri)
	for py := y0; py <= y1; py++ {
		row := py * r.fb.Width
		for px := x0; px <= x1; px++ {
			b := barycentric(c[0].x, c[0].y, c[1].x, c[1].y, c[2].x, c[2].y, float64(px)+0.5, float64(py)+0.5)
			if b.X < 0 || b.Y < 0 || b.Z < 0 {
				continue
			}
			z := b.X*c[0].z + b.Y*c[1].z + b.Z*c[2].z
			if z < -1 || z >= r.zbuffer[row+px] {
				continue
			}

			// Screen-space weights divided by w, renormalized.
			pw := math3d.V3(b.X*c[0].invW, b.Y*c[1].invW, b.Z*c[2].invW)
			pw = pw.Scale(1 / (pw.X + pw.Y + pw.Z))

			col := blend3(tri.V[0].Color, tri.V[1].Color, tri.V[2].Color, pw)
			if tex != nil {
				uv := tri.V[0].UV.Scale(pw.X).Add(tri.V[1].UV.Scale(pw.Y)).Add(tri.V[2].UV.Scale(pw.Z))
				col = ModulateColor(tex.Sample(uv.X, uv.Y), col)
			}
			if col.A < alphaCutoff {
				continue
			}
			col = MultiplyColor(col, shade)
			col.A = 255

			r.zbuffer[row+px] = z
			r.fb.Pixels[row+px] = col
		}
	}
}

// barycentric returns the weights of the three corners at (px, py).
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	w0 := ((y1-y2)*(px-x2) + (x2-x1)*(py-y2)) / det
	w1 := ((y2-y0)*(px-x2) + (x0-x2)*(py-y2)) / det
	return math3d.V3(w0, w1, 1-w0-w1)
}

// blend3 mixes three colors with weights w.
func blend3(a, b, c Color, w math3d.Vec3) Color {
	ch := func(x, y, z uint8) uint8 {
		return uint8(min(255, float64(x)*w.X+float64(y)*w.Y+float64(z)*w.Z+0.5))
	}
	return Color{R: ch(a.R, b.R, c.R), G: ch(a.G, b.G, c.G), B: ch(a.B, b.B, c.B), A: ch(a.A, b.A, c.A)}
}
