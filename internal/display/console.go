package display

import (
	"fmt"
	"io"

	"github.com/sweeney/medbox/internal/screen"
)

// Console renders screens as plain text, for running the daemon
// without a panel attached.
type Console struct {
	w io.Writer
}

// NewConsole creates a console renderer writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Render writes the screen's lines with a separator.
func (c *Console) Render(s screen.Screen) error {
	if _, err := fmt.Fprintln(c.w, "--------------------"); err != nil {
		return fmt.Errorf("write console: %w", err)
	}
	for _, line := range Lines(s) {
		if _, err := fmt.Fprintln(c.w, line); err != nil {
			return fmt.Errorf("write console: %w", err)
		}
	}
	return nil
}

// Close is a no-op; the writer is owned by the caller.
func (c *Console) Close() error {
	return nil
}
