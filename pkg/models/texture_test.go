package models

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

func testTexture() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:], []uint8{200, 10, 40, 255})
	}
	return img
}

func TestDecodeTexture(t *testing.T) {
	tests := []struct {
		name   string
		encode func(io.Writer, image.Image) error
		exact  bool
	}{
		{"png", png.Encode, true},
		{"jpeg", func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
		}, false},
		{"webp", func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}, true},
		{"tga", tga.Encode, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf, testTexture()); err != nil {
				t.Fatalf("encode: %v", err)
			}
			img, err := DecodeTexture(buf.Bytes())
			if err != nil {
				t.Fatalf("DecodeTexture: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
				t.Fatalf("bounds = %v", b)
			}
			got := img.NRGBAAt(1, 1)
			want := color.NRGBA{R: 200, G: 10, B: 40, A: 255}
			if tt.exact && got != want {
				t.Errorf("pixel = %v, want %v", got, want)
			}
			if !tt.exact && (got.A != 255 || got.R < 170 || got.G > 50 || got.B > 80) {
				t.Errorf("pixel = %v, want close to %v", got, want)
			}
		})
	}
}

func TestDecodeTextureInvalid(t *testing.T) {
	if _, err := DecodeTexture([]byte("\x89PNG\r\n\x1a\nbroken")); err == nil {
		t.Error("truncated PNG decoded without error")
	}
	if _, err := DecodeTexture(nil); !errors.Is(err, image.ErrFormat) {
		t.Errorf("empty input error = %v, want image.ErrFormat", err)
	}
}
