// Package sensor reads the storage-compartment temperature and humidity.
// The real implementation drives an SHT4x over I2C; the fake returns
// scripted readings for tests.
package sensor

// Reader samples the environment.
type Reader interface {
	// Read returns degrees Celsius and percent relative humidity.
	Read() (temp, humidity float64, err error)

	// Close releases bus resources.
	Close() error
}
