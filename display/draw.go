// Package display pushes rendered frames to an output device: the physical
// SSD1306 OLED over I2C, or a terminal preview for development without
// hardware. Rasterization is shared so it can be tested against an
// in-memory image.
package display

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"gitlab.com/tinyland/lab/luna-display/render"
)

// face is the fixed small font used for all text. Line widths upstream are
// a character-count heuristic, so long lines may clip at the right edge;
// that is accepted.
var face = basicfont.Face7x13

// DrawFrame rasterizes a frame onto dst, clearing it first. Line
// coordinates address the text baseline's top-left corner.
func DrawFrame(dst draw.Image, f render.Frame) {
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	for _, line := range f {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(line.X, line.Y+face.Ascent),
		}
		d.DrawString(line.Text)
	}
}
