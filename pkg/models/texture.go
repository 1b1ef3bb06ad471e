package models

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// The tga package registers itself with image.Decode under an empty magic
// string, which claims every input. Formats are therefore sniffed here and
// each decoder is called directly; TGA has no magic and comes last.
var textureFormats = []struct {
	name   string
	match  func([]byte) bool
	decode func(io.Reader) (image.Image, error)
}{
	{"png", hasPrefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", hasPrefix("\xff\xd8"), jpeg.Decode},
	{"webp", func(b []byte) bool {
		return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP"
	}, webp.Decode},
	{"tga", func(b []byte) bool { return len(b) >= tgaHeaderSize }, tga.Decode},
}

const tgaHeaderSize = 18

func hasPrefix(magic string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(magic)) }
}

// DecodeTexture decodes PNG, JPEG, WebP or TGA data into an NRGBA image.
func DecodeTexture(data []byte) (*image.NRGBA, error) {
	for _, f := range textureFormats {
		if !f.match(data) {
			continue
		}
		img, err := f.decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s texture: %w", f.name, err)
		}
		return ToNRGBA(img), nil
	}
	return nil, fmt.Errorf("decode texture: %w", image.ErrFormat)
}

// ToNRGBA converts any image to NRGBA format.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha channel
		draw.Draw(dst, b, src, b.Min, draw.Src)
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA))
			}
		}
	}
	return dst
}
