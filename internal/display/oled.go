//go:build linux

package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/sweeney/medbox/internal/screen"
)

// lineHeight is the advance of the 7x13 face.
const lineHeight = 13

// OLED renders screens on an SSD1306 128x64 panel over I2C.
type OLED struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

// NewOLED initialises the periph host, opens the named I2C bus
// ("" selects the first available) and configures the panel.
func NewOLED(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	return &OLED{bus: bus, dev: dev}, nil
}

// Render draws the screen's text lines into a fresh frame buffer and
// pushes the whole frame to the panel.
func (o *OLED) Render(s screen.Screen) error {
	img := image1bit.NewVerticalLSB(o.dev.Bounds())
	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range Lines(s) {
		drawer.Dot = fixed.P(0, lineHeight*(i+1))
		drawer.DrawString(line)
	}
	if err := o.dev.Draw(o.dev.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw ssd1306: %w", err)
	}
	return nil
}

// Close blanks the panel and releases the bus.
func (o *OLED) Close() error {
	var errs []error
	if o.dev != nil {
		if err := o.dev.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt ssd1306: %w", err))
		}
	}
	if o.bus != nil {
		if err := o.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
