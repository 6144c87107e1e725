package actuator

import (
	"errors"
	"testing"
)

func TestFakeDriverRecordsLevels(t *testing.T) {
	f := NewFakeDriver()

	if err := f.SetLED(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.SetBuzzer(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.SetBuzzer(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !f.LED {
		t.Error("LED should be on")
	}
	if f.Buzzer {
		t.Error("buzzer should be off")
	}
	if len(f.LEDChanges) != 1 || len(f.BuzzerChanges) != 2 {
		t.Errorf("change log: LED=%v buzzer=%v", f.LEDChanges, f.BuzzerChanges)
	}
}

func TestFakeDriverSetError(t *testing.T) {
	f := NewFakeDriver()
	f.SetError = errors.New("simulated error")

	if err := f.SetLED(true); err == nil {
		t.Error("expected error from SetLED")
	}
	if err := f.SetBuzzer(true); err == nil {
		t.Error("expected error from SetBuzzer")
	}
	if f.LED || f.Buzzer {
		t.Error("failed sets must not record levels")
	}
}

func TestFakeDriverClose(t *testing.T) {
	f := NewFakeDriver()

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}
