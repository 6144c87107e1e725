package logic

import "testing"

func TestRegistrySetAndGet(t *testing.T) {
	var r Registry

	r.Set(1, 7, 30)
	a := r.Get(1)
	if !a.Active || a.Hour != 7 || a.Minute != 30 {
		t.Errorf("slot 1: expected active 07:30, got %+v", a)
	}

	if got := r.Get(2); got.Active {
		t.Errorf("slot 2: expected inactive, got %+v", got)
	}

	// Re-setting replaces the stored time.
	r.Set(1, 21, 15)
	a = r.Get(1)
	if a.Hour != 21 || a.Minute != 15 {
		t.Errorf("slot 1 after re-set: expected 21:15, got %+v", a)
	}
}

func TestRegistryClearKeepsStoredTime(t *testing.T) {
	var r Registry

	r.Set(2, 9, 45)
	r.Clear(2)

	a := r.Get(2)
	if a.Active {
		t.Error("slot 2 should be inactive after clear")
	}
	if a.Hour != 9 || a.Minute != 45 {
		t.Errorf("cleared slot should keep stored time, got %+v", a)
	}
}

func TestRegistryActiveSlotsAscending(t *testing.T) {
	var r Registry

	if got := r.ActiveSlots(); len(got) != 0 {
		t.Errorf("empty registry: expected no active slots, got %v", got)
	}

	r.Set(2, 8, 0)
	r.Set(1, 7, 0)

	got := r.ActiveSlots()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected [1 2], got %v", got)
	}

	r.Clear(1)
	got = r.ActiveSlots()
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected [2], got %v", got)
	}
}

func TestRegistryInvalidSlotIgnored(t *testing.T) {
	var r Registry

	r.Set(0, 1, 2)
	r.Set(3, 1, 2)
	r.Clear(0)

	if got := r.ActiveSlots(); len(got) != 0 {
		t.Errorf("invalid slots should be ignored, got %v", got)
	}
	if got := r.Get(99); got != (Alarm{}) {
		t.Errorf("invalid slot get: expected zero alarm, got %+v", got)
	}
}

func TestRegistryRestoreSnapshot(t *testing.T) {
	var r Registry
	r.Restore([NumSlots]Alarm{
		{Hour: 6, Minute: 15, Active: true},
		{Hour: 18, Minute: 0, Active: false},
	})

	snap := r.Snapshot()
	if !snap[0].Active || snap[0].Hour != 6 || snap[0].Minute != 15 {
		t.Errorf("slot 1 after restore: got %+v", snap[0])
	}
	if snap[1].Active {
		t.Errorf("slot 2 after restore should be inactive, got %+v", snap[1])
	}
}
