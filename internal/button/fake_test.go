package button

import (
	"errors"
	"testing"

	"github.com/sweeney/medbox/internal/logic"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []logic.Levels{
		{Up: true},
		{Down: true, Cancel: true},
		{},
	}

	f := NewFakeReader(samples)

	lv, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lv != samples[0] {
		t.Errorf("sample 0: expected %+v, got %+v", samples[0], lv)
	}

	lv, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lv != samples[1] {
		t.Errorf("sample 1: expected %+v, got %+v", samples[1], lv)
	}

	// Exhausting samples repeats the last one.
	f.Read()
	lv, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lv != (logic.Levels{}) {
		t.Errorf("repeat: expected released levels, got %+v", lv)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]logic.Levels{{Ok: true}})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]logic.Levels{{Up: true}, {Down: true}})

	f.Read()
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed {
		t.Error("Reset should clear Closed")
	}
	lv, _ := f.Read()
	if !lv.Up {
		t.Errorf("after reset: expected first sample, got %+v", lv)
	}
}
