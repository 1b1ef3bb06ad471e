package render

import (
	"image"
	"image/color"
	"testing"
)

func TestTextureSampleOrientation(t *testing.T) {
	red, blue, green := RGB(255, 0, 0), RGB(0, 0, 255), RGB(0, 255, 0)

	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, red)
	tex.SetPixel(1, 0, green)
	tex.SetPixel(0, 1, blue)
	tex.SetPixel(1, 1, blue)

	tests := []struct {
		name string
		u, v float64
		want Color
	}{
		{"v zero is the top row", 0.25, 0.25, red},
		{"u picks the column", 0.75, 0.25, green},
		{"bottom row", 0.25, 0.75, blue},
		{"repeat wraps u", 1.25, 0.25, red},
		{"repeat wraps negative v", 0.25, -0.25, blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Sample(tt.u, tt.v); got != tt.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}

	tex.WrapU = WrapClamp
	if got := tex.Sample(5, 0.25); got != green {
		t.Errorf("clamped sample = %v, want %v", got, green)
	}
}

func TestTextureFromImageStraightAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 0})

	tex := TextureFromImage(img)
	got := tex.GetPixel(0, 0)
	want := color.RGBA{R: 200, G: 100, B: 50, A: 128}
	near := func(a, b uint8) bool { return a-b <= 1 || b-a <= 1 }
	if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) || got.A != want.A {
		t.Errorf("pixel = %v, want about %v", got, want)
	}
	if got := tex.GetPixel(1, 0); got != (Color{}) {
		t.Errorf("fully transparent pixel = %v, want zero", got)
	}
}

func TestModulateAndMultiply(t *testing.T) {
	if got := ModulateColor(RGB(255, 128, 0), RGB(255, 255, 255)); got != RGB(255, 128, 0) {
		t.Errorf("modulate by white = %v", got)
	}
	if got := MultiplyColor(RGB(200, 100, 50), 0.5); got != RGB(100, 50, 25) {
		t.Errorf("multiply = %v", got)
	}
	if got := MultiplyColor(RGB(200, 200, 200), 2); got != RGB(255, 255, 255) {
		t.Errorf("multiply should saturate, got %v", got)
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, RGB(0, 0, 0))
	tex.SetPixel(1, 0, RGB(255, 255, 255))
	tex.FilterMode = FilterBilinear
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp

	if got := tex.Sample(0.5, 0.5); got != RGB(128, 128, 128) {
		t.Errorf("midpoint = %v, want an even blend", got)
	}
	if got := tex.Sample(0.25, 0.5); got != RGB(0, 0, 0) {
		t.Errorf("texel center = %v, want the texel itself", got)
	}
	if got := tex.Sample(1, 0.5); got != RGB(255, 255, 255) {
		t.Errorf("clamped edge = %v", got)
	}
}
