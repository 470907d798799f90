package display

import (
	"image"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"gitlab.com/tinyland/lab/luna-display/metrics"
	"gitlab.com/tinyland/lab/luna-display/render"
)

// litPixels counts set pixels within the given band of rows.
func litPixels(img *image1bit.VerticalLSB, yMin, yMax int) int {
	n := 0
	b := img.Bounds()
	for y := yMin; y < yMax && y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.BitAt(x, y) == image1bit.On {
				n++
			}
		}
	}
	return n
}

func TestDrawFrame_SetsPixelsPerLine(t *testing.T) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, render.Width, render.Height))

	frame := render.Render(metrics.Snapshot{IP: "192.168.1.5", CPU: 42, RAM: 17}, "Ready.", 0)
	DrawFrame(img, frame)

	// Face7x13 has an 11-pixel ascent, so glyphs for a line at y extend
	// roughly through [y, y+11).
	for _, line := range frame {
		if litPixels(img, line.Y, line.Y+11) == 0 {
			t.Errorf("no pixels set for line %+v", line)
		}
	}
}

func TestDrawFrame_ClearsPreviousContent(t *testing.T) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, render.Width, render.Height))

	long := render.Frame{{Text: "XXXXXXXXXXXXXXXX", X: 0, Y: 40}}
	DrawFrame(img, long)
	if litPixels(img, 40, 52) == 0 {
		t.Fatal("setup: expected pixels at y=40 band")
	}

	DrawFrame(img, render.Frame{{Text: "hi", X: 0, Y: 0}})
	if litPixels(img, 40, 52) != 0 {
		t.Error("previous frame content not cleared")
	}
}

func TestDrawFrame_EmptyFrame(t *testing.T) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, render.Width, render.Height))
	DrawFrame(img, render.Frame{})
	if litPixels(img, 0, render.Height) != 0 {
		t.Error("empty frame must leave a blank buffer")
	}
}
