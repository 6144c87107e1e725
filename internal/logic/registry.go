package logic

// Registry holds the device's alarm slots.
type Registry struct {
	alarms [NumSlots]Alarm
}

// Set stores hour:minute in the slot and activates it, replacing any
// previous value. Out-of-range slots are ignored.
func (r *Registry) Set(slot Slot, hour, minute int) {
	if !validSlot(slot) {
		return
	}
	r.alarms[slot-1] = Alarm{Hour: hour, Minute: minute, Active: true}
}

// Clear deactivates the slot. The stored time is kept so the wizard can
// preload it next time.
func (r *Registry) Clear(slot Slot) {
	if !validSlot(slot) {
		return
	}
	r.alarms[slot-1].Active = false
}

// Get returns the slot's alarm, or a zero Alarm for an invalid slot.
func (r *Registry) Get(slot Slot) Alarm {
	if !validSlot(slot) {
		return Alarm{}
	}
	return r.alarms[slot-1]
}

// ActiveSlots returns the active slot numbers in ascending order.
func (r *Registry) ActiveSlots() []Slot {
	var slots []Slot
	for i := range r.alarms {
		if r.alarms[i].Active {
			slots = append(slots, Slot(i+1))
		}
	}
	return slots
}

// Restore overwrites all slots at once. Used when loading persisted state.
func (r *Registry) Restore(alarms [NumSlots]Alarm) {
	r.alarms = alarms
}

// Snapshot returns a copy of all slots.
func (r *Registry) Snapshot() [NumSlots]Alarm {
	return r.alarms
}

func validSlot(s Slot) bool {
	return s >= 1 && s <= NumSlots
}
