package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// upperHalf is painted with the top pixel as foreground and the bottom pixel
// as background, giving two pixels per terminal cell.
const upperHalf = "▀"

// Draw paints the framebuffer into area as half-block cells. Framebuffer row
// 2n lands in the top half of terminal row n.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	cols := min(area.Dx(), fb.Width)
	for cy := range area.Dy() {
		for cx := range cols {
			scr.SetCell(area.Min.X+cx, area.Min.Y+cy, &uv.Cell{
				Content: upperHalf,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(cx, 2*cy)),
					Bg: cellColor(fb.GetPixel(cx, 2*cy+1)),
				},
			})
		}
	}
}

// cellColor leaves transparent pixels unset so the terminal's own colors
// show through.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Color is a straight-alpha pixel.
type Color = color.RGBA

// Palette used by the viewer and the preview renderer.
var (
	ColorBlack    = RGB(0, 0, 0)
	ColorWhite    = RGB(255, 255, 255)
	ColorGray     = RGB(128, 128, 128)
	ColorYellow   = RGB(255, 255, 0)
	ColorMagenta  = RGB(255, 0, 255)
	ColorCharcoal = RGB(40, 42, 54)
	ColorGrid     = RGB(68, 71, 90)
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 255} }

// RGBA returns a color with the given alpha.
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }
