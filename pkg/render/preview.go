package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// PreviewOptions controls an offscreen render of a model.
type PreviewOptions struct {
	Size        int     // Output width and height in pixels
	Supersample int     // Render at Size*Supersample, then downsample
	Yaw         float64 // Orbit angles in radians
	Pitch       float64
	Background  Color // Transparent by default
	Skeleton    bool  // Overlay the bone hierarchy
}

// DefaultPreviewOptions returns a 256px, 2x supersampled, slightly raised
// three-quarter view.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		Size:        256,
		Supersample: 2,
		Yaw:         math.Pi / 6,
		Pitch:       math.Pi / 12,
	}
}

// RenderPreview draws the model framed to fill a square image.
func RenderPreview(m *Model, o PreviewOptions) *image.NRGBA {
	if o.Size <= 0 {
		o.Size = DefaultPreviewOptions().Size
	}
	if o.Supersample < 1 {
		o.Supersample = 1
	}
	size := o.Size * o.Supersample

	fb := NewFramebuffer(size, size)
	fb.Clear(o.Background)

	cam := NewCamera()
	cam.SetAspectRatio(1)
	cam.Frame(m.BoundsMin, m.BoundsMax)
	cam.SetOrbit(o.Yaw, o.Pitch, cam.Distance)

	rast := NewRasterizer(cam, fb)
	rast.ClearDepth()
	rast.DrawModel(m)
	if o.Skeleton {
		NewWireframe(cam, fb).DrawSkeleton(m, ColorYellow, ColorMagenta)
	}

	return Downsample(fb.ToImage(), o.Size)
}

// RenderTurntable renders frames evenly spaced around a full yaw orbit,
// starting at o.Yaw.
func RenderTurntable(m *Model, o PreviewOptions, frames int) []*image.NRGBA {
	out := make([]*image.NRGBA, 0, frames)
	start := o.Yaw
	for i := range frames {
		o.Yaw = start + 2*math.Pi*float64(i)/float64(frames)
		out = append(out, RenderPreview(m, o))
	}
	return out
}

// Downsample scales a square image down to targetSize with CatmullRom.
// Alpha is premultiplied around the filter so transparent edges do not
// bleed dark fringes.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}

	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	result := image.NewNRGBA(dst.Bounds())
	for y := range targetSize {
		for x := range targetSize {
			si := dst.PixOffset(x, y)
			di := result.PixOffset(x, y)
			a := float64(dst.Pix[si+3])
			if a > 1 {
				inv := 255.0 / a
				result.Pix[di] = clamp8(float64(dst.Pix[si]) * inv)
				result.Pix[di+1] = clamp8(float64(dst.Pix[si+1]) * inv)
				result.Pix[di+2] = clamp8(float64(dst.Pix[si+2]) * inv)
			}
			result.Pix[di+3] = dst.Pix[si+3]
		}
	}
	return result
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// EncodeTurntable writes frames as a looping animated WebP. Each frame
// clears the canvas before it is drawn.
func EncodeTurntable(w io.Writer, frames []*image.NRGBA, delay time.Duration) error {
	ani := &nativewebp.Animation{
		Images:    make([]image.Image, len(frames)),
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
	}
	for i, f := range frames {
		ani.Images[i] = f
		ani.Durations[i] = uint(delay.Milliseconds())
		ani.Disposals[i] = 1
	}
	if err := nativewebp.EncodeAll(w, ani, nil); err != nil {
		return fmt.Errorf("encode turntable: %w", err)
	}
	return nil
}

// SaveImage writes img to path, choosing PNG or lossless WebP from the
// file extension.
func SaveImage(path string, img image.Image) error {
	var encode func(io.Writer, image.Image) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = png.Encode
	case ".webp":
		encode = func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}
	default:
		return fmt.Errorf("unsupported preview format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
