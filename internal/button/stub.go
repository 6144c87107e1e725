//go:build !linux

package button

import (
	"errors"

	"github.com/sweeney/medbox/internal/logic"
)

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pins Pins) (*RealReader, error) {
	return nil, errors.New("button: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (logic.Levels, error) {
	return logic.Levels{}, errors.New("button: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}
