package display

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/luna-display/render"
)

// LoadSplash loads a boot logo from disk, fits it inside the display
// bounds preserving aspect ratio, converts it to grayscale, and centers it
// on a black canvas. The 1-bit threshold happens at push time.
func LoadSplash(path string) (image.Image, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open splash image: %w", err)
	}

	fitted := imaging.Grayscale(imaging.Fit(src, render.Width, render.Height, imaging.Lanczos))
	canvas := imaging.New(render.Width, render.Height, color.Black)
	return imaging.PasteCenter(canvas, fitted), nil
}
