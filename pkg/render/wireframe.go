package render

import "github.com/taigrr/graft/pkg/math3d"

// Wireframe draws unshaded overlays (bones, triangle edges, the floor grid)
// straight into the framebuffer, ignoring depth.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates an overlay renderer sharing the rasterizer's camera
// and framebuffer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

func (w *Wireframe) project(p math3d.Vec3) (x, y int, ok bool) {
	sx, sy, _, ok := w.camera.WorldToScreen(p, w.fb.Width, w.fb.Height)
	return int(sx), int(sy), ok
}

// DrawLine3D draws a world-space segment. Segments are not clipped: one with
// an endpoint behind the camera or off screen is skipped.
func (w *Wireframe) DrawLine3D(a, b math3d.Vec3, c Color) {
	x0, y0, ok0 := w.project(a)
	x1, y1, ok1 := w.project(b)
	if ok0 && ok1 {
		w.fb.DrawLine(x0, y0, x1, y1, c)
	}
}

// DrawSkeleton draws the model's bone segments, then marks each joint.
func (w *Wireframe) DrawSkeleton(m *Model, bone, joint Color) {
	for _, s := range m.Skeleton {
		w.DrawLine3D(s.From, s.To, bone)
	}
	for _, s := range m.Skeleton {
		w.DrawPoint(s.To, 0, joint)
	}
}

// DrawEdges outlines every triangle of s. Triangles with out-of-range
// indices are skipped.
func (w *Wireframe) DrawEdges(s *Surface, c Color) {
	valid := func(i int) bool { return i >= 0 && i < len(s.Positions) }
	for t := 0; t+2 < len(s.Triangles); t += 3 {
		tri := s.Triangles[t : t+3]
		if !valid(tri[0]) || !valid(tri[1]) || !valid(tri[2]) {
			continue
		}
		for k := range 3 {
			w.DrawLine3D(s.Positions[tri[k]], s.Positions[tri[(k+1)%3]], c)
		}
	}
}

// DrawGrid draws a size x size floor grid on the horizontal plane through
// center, with a line every step units.
func (w *Wireframe) DrawGrid(center math3d.Vec3, size, step float64, c Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	for d := -half; d <= half+1e-9; d += step {
		w.DrawLine3D(center.Add(math3d.V3(d, 0, -half)), center.Add(math3d.V3(d, 0, half)), c)
		w.DrawLine3D(center.Add(math3d.V3(-half, 0, d)), center.Add(math3d.V3(half, 0, d)), c)
	}
}

// DrawPoint marks pos with a square of (2*radius+1) pixels on a side.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, radius int, c Color) {
	x, y, ok := w.project(pos)
	if !ok {
		return
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			w.fb.SetPixel(x+dx, y+dy, c)
		}
	}
}
