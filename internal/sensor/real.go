//go:build linux

package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/sht4x"
	"periph.io/x/host/v3"
)

// RealReader samples an SHT4x over I2C.
type RealReader struct {
	bus i2c.BusCloser
	dev *sht4x.Dev
}

// NewRealReader initialises the periph host, opens the named I2C bus
// ("" selects the first available) and probes the sensor at its
// default address.
func NewRealReader(busName string) (*RealReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	dev, err := sht4x.New(bus, sht4x.DefaultAddress)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("probe sht4x: %w", err)
	}

	return &RealReader{bus: bus, dev: dev}, nil
}

// Read performs one high-precision measurement.
func (r *RealReader) Read() (float64, float64, error) {
	var env physic.Env
	if err := r.dev.Sense(&env); err != nil {
		return 0, 0, fmt.Errorf("sense sht4x: %w", err)
	}
	temp := env.Temperature.Celsius()
	humidity := float64(env.Humidity) / float64(physic.PercentRH)
	return temp, humidity, nil
}

// Close releases the I2C bus.
func (r *RealReader) Close() error {
	if r.bus != nil {
		if err := r.bus.Close(); err != nil {
			return fmt.Errorf("close i2c bus: %w", err)
		}
	}
	return nil
}
