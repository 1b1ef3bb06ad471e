// Package render rasterizes assembled costumes into a framebuffer that can be
// shown in the terminal or written out as a preview image.
package render

import "image"

// Framebuffer is a row-major grid of straight-alpha pixels. In the terminal
// each cell shows two vertically stacked pixels, so a framebuffer for an
// 80x24 terminal is 80x48.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
}

// NewFramebuffer creates a transparent framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, Pixels: make([]Color, width*height)}
}

// Resize reallocates the pixels when the size changes; the new buffer is
// transparent.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	*fb = *NewFramebuffer(width, height)
}

// Clear fills every pixel with c.
func (fb *Framebuffer) Clear(c Color) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for n := 1; n < len(fb.Pixels); n *= 2 {
		copy(fb.Pixels[n:], fb.Pixels[:n])
	}
}

// SetPixel writes one pixel; writes outside the buffer are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x >= 0 && y >= 0 && x < fb.Width && y < fb.Height {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// GetPixel reads one pixel; reads outside the buffer are transparent.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a one pixel line between two points, endpoints included.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := y0-y1, 1
	if dy > 0 {
		dy, sy = -dy, -1
	}

	// Bresenham with the error term covering all octants.
	e := dx + dy
	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		if 2*e >= dy {
			e += dy
			x0 += sx
		}
		if 2*e <= dx {
			e += dx
			y0 += sy
		}
	}
}

// ToImage copies the framebuffer into an image.
func (fb *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		copy(img.Pix[i*4:i*4+4], []uint8{p.R, p.G, p.B, p.A})
	}
	return img
}
