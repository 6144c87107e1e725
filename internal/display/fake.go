package display

import "github.com/sweeney/medbox/internal/screen"

// FakeRenderer records every screen it is asked to paint.
type FakeRenderer struct {
	// Screens holds every rendered screen, in order.
	Screens []screen.Screen

	// Closed tracks if Close was called
	Closed bool

	// RenderError, if set, will be returned by Render()
	RenderError error
}

// NewFakeRenderer creates a FakeRenderer.
func NewFakeRenderer() *FakeRenderer {
	return &FakeRenderer{}
}

// Render records the screen.
func (f *FakeRenderer) Render(s screen.Screen) error {
	if f.RenderError != nil {
		return f.RenderError
	}
	f.Screens = append(f.Screens, s)
	return nil
}

// Close marks the renderer as closed.
func (f *FakeRenderer) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently rendered screen, or nil.
func (f *FakeRenderer) Last() screen.Screen {
	if len(f.Screens) == 0 {
		return nil
	}
	return f.Screens[len(f.Screens)-1]
}
