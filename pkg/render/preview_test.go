package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

func frontView(size int) PreviewOptions {
	o := DefaultPreviewOptions()
	o.Size = size
	o.Yaw = 0
	o.Pitch = 0
	return o
}

func TestRenderPreview(t *testing.T) {
	m := NewModel(quadPart("body", [4]float64{1, 0, 0, 1}))

	img := RenderPreview(m, frontView(32))
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("bounds = %v", b)
	}
	center := img.NRGBAAt(16, 16)
	if center.A != 255 || center.R < 200 || center.G > 20 {
		t.Errorf("center = %v, want opaque red", center)
	}
	if corner := img.NRGBAAt(0, 0); corner.A != 0 {
		t.Errorf("corner = %v, want transparent", corner)
	}
}

func TestRenderPreviewBackground(t *testing.T) {
	m := NewModel(quadPart("body", [4]float64{1, 1, 1, 1}))
	o := frontView(16)
	o.Supersample = 1
	o.Background = ColorCharcoal

	img := RenderPreview(m, o)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 40, G: 42, B: 54, A: 255}) {
		t.Errorf("corner = %v, want the background", got)
	}
}

func TestRenderPreviewSkeleton(t *testing.T) {
	m := NewModel(quadPart("body", [4]float64{0, 0, 1, 1}))
	o := frontView(64)
	o.Supersample = 1
	o.Skeleton = true

	img := RenderPreview(m, o)
	yellow := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 255 && img.Pix[i+1] == 255 && img.Pix[i+2] == 0 {
			yellow++
		}
	}
	if yellow == 0 {
		t.Errorf("skeleton overlay drew nothing")
	}
}

func TestRenderTurntable(t *testing.T) {
	m := NewModel(quadPart("body", [4]float64{1, 1, 1, 1}))
	frames := RenderTurntable(m, frontView(16), 4)
	if len(frames) != 4 {
		t.Fatalf("frames = %d", len(frames))
	}
	for i, f := range frames {
		if b := f.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
			t.Errorf("frame %d bounds = %v", i, b)
		}
	}
	if frames[0].NRGBAAt(8, 8).A != 255 {
		t.Errorf("front frame should cover the center")
	}
	// Half a turn shows the back of the quad, which is culled.
	if a := frames[2].NRGBAAt(8, 8).A; a != 0 {
		t.Errorf("back frame center alpha = %d, want 0", a)
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 100, 150, 200, 255
	}

	dst := Downsample(src, 4)
	if b := dst.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("bounds = %v", b)
	}
	near := func(a, b uint8) bool { return a-b <= 1 || b-a <= 1 }
	for y := range 4 {
		for x := range 4 {
			c := dst.NRGBAAt(x, y)
			if !near(c.R, 100) || !near(c.G, 150) || !near(c.B, 200) || !near(c.A, 255) {
				t.Fatalf("pixel (%d,%d) = %v", x, y, c)
			}
		}
	}

	if Downsample(src, 8) != src {
		t.Errorf("an image already at size should be returned as-is")
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	img.SetNRGBA(4, 2, color.NRGBA{R: 9, G: 8, B: 7, A: 255})

	tests := []struct {
		name   string
		decode func([]byte) (image.Image, error)
	}{
		{"preview.png", func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }},
		{"preview.WEBP", func(b []byte) (image.Image, error) { return nativewebp.Decode(bytes.NewReader(b)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := SaveImage(path, img); err != nil {
				t.Fatalf("SaveImage: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			got, err := tt.decode(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Bounds() != img.Bounds() {
				t.Errorf("bounds = %v", got.Bounds())
			}
			if r, g, b, _ := got.At(4, 2).RGBA(); r>>8 != 9 || g>>8 != 8 || b>>8 != 7 {
				t.Errorf("pixel = %v", got.At(4, 2))
			}
		})
	}

	if err := SaveImage(filepath.Join(dir, "preview.gif"), img); err == nil {
		t.Errorf("expected an error for an unsupported extension")
	}
}

func TestEncodeTurntable(t *testing.T) {
	frames := []*image.NRGBA{
		image.NewNRGBA(image.Rect(0, 0, 4, 4)),
		image.NewNRGBA(image.Rect(0, 0, 4, 4)),
	}
	var buf bytes.Buffer
	if err := EncodeTurntable(&buf, frames, 50*time.Millisecond); err != nil {
		t.Fatalf("EncodeTurntable: %v", err)
	}
	data := buf.Bytes()
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Fatalf("not a WebP container: % x", data[:min(len(data), 16)])
	}
	if !bytes.Contains(data, []byte("ANIM")) || bytes.Count(data, []byte("ANMF")) != 2 {
		t.Errorf("expected an animation with two frames")
	}

	if err := EncodeTurntable(&buf, nil, time.Second); err == nil {
		t.Errorf("expected an error with no frames")
	}
}
