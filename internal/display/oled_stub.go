//go:build !linux

package display

import (
	"errors"

	"github.com/sweeney/medbox/internal/screen"
)

// OLED is not available on non-Linux platforms.
type OLED struct{}

// NewOLED returns an error on non-Linux platforms.
func NewOLED(busName string) (*OLED, error) {
	return nil, errors.New("display: not supported on this platform (requires Linux)")
}

// Render is not implemented on non-Linux platforms.
func (o *OLED) Render(s screen.Screen) error {
	return errors.New("display: not supported")
}

// Close is not implemented on non-Linux platforms.
func (o *OLED) Close() error {
	return nil
}
