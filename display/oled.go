package display

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"gitlab.com/tinyland/lab/luna-display/render"
)

// OLED drives a 128x64 SSD1306-class display over I2C.
type OLED struct {
	bus    i2c.BusCloser
	dev    *ssd1306.Dev
	logger *slog.Logger
}

// OpenOLED initializes the host drivers, opens the named I2C bus (empty
// string selects the first available bus), and probes the display. If
// logger is nil, a no-op logger is used.
func OpenOLED(busName string, logger *slog.Logger) (*OLED, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initialize host drivers: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", busName, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("probe SSD1306: %w", err)
	}

	logger.Info("display opened", "bus", bus.String(), "bounds", dev.Bounds().String())

	return &OLED{bus: bus, dev: dev, logger: logger}, nil
}

// Push rasterizes the frame into a fresh 1-bit buffer and writes it to the
// display. The ssd1306 driver diffs against the previous buffer, so full
// pushes every cycle stay cheap on the bus.
func (o *OLED) Push(f render.Frame) error {
	img := image1bit.NewVerticalLSB(o.dev.Bounds())
	DrawFrame(img, f)

	if err := o.dev.Draw(o.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// ShowImage writes a full-screen image, thresholded to 1-bit. Used for the
// boot splash before the first frame arrives.
func (o *OLED) ShowImage(src image.Image) error {
	img := image1bit.NewVerticalLSB(o.dev.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)

	if err := o.dev.Draw(o.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw image: %w", err)
	}
	return nil
}

// Close blanks the display and releases the bus.
func (o *OLED) Close() error {
	if err := o.dev.Halt(); err != nil {
		o.logger.Warn("halt display", "error", err)
	}
	return o.bus.Close()
}
