package render

import (
	"testing"

	"github.com/taigrr/graft/pkg/math3d"
)

func countColor(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestDrawPoint(t *testing.T) {
	tests := []struct {
		name   string
		radius int
		want   int
	}{
		{"pixel", 0, 1},
		{"square", 1, 9},
		{"large", 2, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := createTestRasterizer(32, 32)
			NewWireframe(r.camera, fb).DrawPoint(math3d.V3(0, 0, 0), tt.radius, ColorMagenta)
			if got := countColor(fb, ColorMagenta); got != tt.want {
				t.Errorf("pixels = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDrawLine3DSkipsOffscreen(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	w := NewWireframe(r.camera, fb)
	w.DrawLine3D(math3d.V3(0, 0, 0), math3d.V3(0, 0, 10), ColorYellow)
	if got := countColor(fb, ColorYellow); got != 0 {
		t.Errorf("line behind the camera drew %d pixels", got)
	}
	w.DrawLine3D(math3d.V3(-0.5, 0, 0), math3d.V3(0.5, 0, 0), ColorYellow)
	if countColor(fb, ColorYellow) == 0 {
		t.Error("visible line drew nothing")
	}
}

func TestDrawGrid(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	r.camera.SetOrbit(0, 0.5, 4)
	w := NewWireframe(r.camera, fb)

	w.DrawGrid(math3d.V3(0, -0.5, 0), 2, 0, ColorGrid)
	if got := countColor(fb, ColorGrid); got != 0 {
		t.Errorf("zero step drew %d pixels", got)
	}
	w.DrawGrid(math3d.V3(0, -0.5, 0), 2, 0.5, ColorGrid)
	if countColor(fb, ColorGrid) == 0 {
		t.Error("grid drew nothing")
	}
}
