package main

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/medbox/internal/actuator"
	"github.com/sweeney/medbox/internal/button"
	"github.com/sweeney/medbox/internal/clock"
	"github.com/sweeney/medbox/internal/display"
	"github.com/sweeney/medbox/internal/logic"
	"github.com/sweeney/medbox/internal/mqtt"
	"github.com/sweeney/medbox/internal/screen"
	"github.com/sweeney/medbox/internal/sensor"
	"github.com/sweeney/medbox/internal/state"
	"github.com/sweeney/medbox/internal/status"
)

// fakeClock returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Not safe for concurrent use (only called from runLoop's goroutine).
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// repeat returns n copies of sample.
func repeat(sample logic.Levels, n int) []logic.Levels {
	out := make([]logic.Levels, n)
	for i := range out {
		out[i] = sample
	}
	return out
}

// pressSeq expands each press into a pressed sample followed by a release.
// With a 300ms tick step every press clears the 250ms debounce cooldown.
func pressSeq(presses ...logic.Levels) []logic.Levels {
	var out []logic.Levels
	for _, p := range presses {
		out = append(out, p, logic.Levels{})
	}
	return out
}

type fakes struct {
	buttons *button.FakeReader
	env     *sensor.FakeReader
	clk     *clock.Fake
	rend    *display.FakeRenderer
	drv     *actuator.FakeDriver
	pub     *mqtt.FakePublisher
	tracker *status.Tracker
	ctrl    *logic.Controller
	store   *state.FileStore
}

// newTestDeps wires runLoop dependencies from fakes. The controller uses a
// 1ms notice hold so the boot notice expires on the second tick.
func newTestDeps(t *testing.T, samples []logic.Levels) (deps, *fakes) {
	t.Helper()
	f := &fakes{
		buttons: button.NewFakeReader(samples),
		env:     sensor.NewFakeReader([]sensor.Sample{{Temp: 28, Humidity: 70}}),
		clk:     clock.NewFake(time.Date(2026, 3, 14, 8, 0, 30, 0, time.UTC)),
		rend:    display.NewFakeRenderer(),
		drv:     actuator.NewFakeDriver(),
		pub:     mqtt.NewFakePublisher(),
		tracker: status.NewTracker(time.Now(), status.Config{}),
		ctrl: logic.NewController(logic.Config{
			Debounce:   250 * time.Millisecond,
			Snooze:     5 * time.Minute,
			NoticeHold: time.Millisecond,
		}),
		store: state.NewFileStore(filepath.Join(t.TempDir(), "state.json")),
	}
	d := deps{
		buttons:    f.buttons,
		sensor:     f.env,
		clk:        f.clk,
		renderer:   f.rend,
		driver:     f.drv,
		publisher:  f.pub,
		mqttStatus: f.pub,
		tracker:    f.tracker,
		store:      f.store,
		ctrl:       f.ctrl,
		log:        zap.NewNop().Sugar(),
	}
	return d, f
}

// driveLoop runs runLoop for nTicks then delivers the signal.
func driveLoop(t *testing.T, d deps, now func() time.Time, nTicks int, s os.Signal) error {
	t.Helper()
	tick := make(chan time.Time)
	sig := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(d, now, tick, sig)
	}()

	for i := 0; i < nTicks; i++ {
		tick <- time.Time{}
	}
	sig <- s

	return <-errCh
}

var loopStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRunLoopShutdownSIGTERM(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 3, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.pub.SystemEvents))
	}
	se := f.pub.SystemEvents[0]
	if se.Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN, got %q", se.Event)
	}
	if se.Reason != "SIGTERM" {
		t.Errorf("expected reason SIGTERM, got %q", se.Reason)
	}
	if !se.Retained {
		t.Error("expected Retained=true for SHUTDOWN")
	}
}

func TestRunLoopShutdownSIGINT(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 2, syscall.SIGINT)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.pub.SystemEvents))
	}
	if f.pub.SystemEvents[0].Reason != "SIGINT" {
		t.Errorf("expected reason SIGINT, got %q", f.pub.SystemEvents[0].Reason)
	}
}

func TestRunLoopBootNoticeThenClock(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))
	f.pub.Connected = true

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	// Boot notice first, then the clock; the wall time never changes so
	// there is nothing further to repaint.
	if len(f.rend.Screens) != 2 {
		t.Fatalf("expected 2 rendered screens, got %d", len(f.rend.Screens))
	}
	notice, ok := f.rend.Screens[0].(screen.Notice)
	if !ok {
		t.Fatalf("first screen: expected Notice, got %T", f.rend.Screens[0])
	}
	if notice.Text != "Medibox ready" {
		t.Errorf("notice text: got %q", notice.Text)
	}
	clk, ok := f.rend.Screens[1].(screen.Clock)
	if !ok {
		t.Fatalf("second screen: expected Clock, got %T", f.rend.Screens[1])
	}
	if !clk.Valid {
		t.Error("expected valid clock screen")
	}

	snap := f.tracker.Snapshot()
	if snap.Device.Focus != "clock" {
		t.Errorf("tracker focus: got %q, want clock", snap.Device.Focus)
	}
	if !snap.Device.WallValid {
		t.Error("tracker: expected WallValid=true")
	}
	if !snap.MQTTConnected {
		t.Error("tracker: expected MQTTConnected=true")
	}
}

func TestRunLoopAlarmRings(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))
	f.clk.Current = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	f.ctrl.Restore([logic.NumSlots]logic.Alarm{{Hour: 8, Minute: 0, Active: true}, {}}, 0)

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 1, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.pub.Events))
	}
	if f.pub.Events[0].Type != logic.EventAlarmRing {
		t.Errorf("expected ALARM_RING, got %s", f.pub.Events[0].Type)
	}
	if f.pub.Events[0].Slot != 1 {
		t.Errorf("slot: got %d, want 1", f.pub.Events[0].Slot)
	}

	ring, ok := f.rend.Last().(screen.Ringing)
	if !ok {
		t.Fatalf("expected Ringing screen, got %T", f.rend.Last())
	}
	if ring.Slot != 1 {
		t.Errorf("ringing slot: got %d, want 1", ring.Slot)
	}
	if !f.drv.LED {
		t.Error("expected LED on while ringing")
	}
	if !f.drv.Buzzer {
		t.Error("expected buzzer on at ring start")
	}
}

func TestRunLoopCancelStopsRing(t *testing.T) {
	samples := append(repeat(logic.Levels{}, 1), pressSeq(logic.Levels{Cancel: true})...)
	d, f := newTestDeps(t, samples)
	f.clk.Current = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	f.ctrl.Restore([logic.NumSlots]logic.Alarm{{Hour: 8, Minute: 0, Active: true}, {}}, 0)

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(f.pub.Events))
	}
	if f.pub.Events[0].Type != logic.EventAlarmRing {
		t.Errorf("event 0: expected ALARM_RING, got %s", f.pub.Events[0].Type)
	}
	if f.pub.Events[1].Type != logic.EventAlarmStop {
		t.Errorf("event 1: expected ALARM_STOP, got %s", f.pub.Events[1].Type)
	}
	if f.drv.LED {
		t.Error("expected LED off after stop")
	}
	if f.drv.Buzzer {
		t.Error("expected buzzer off after stop")
	}
}

func TestRunLoopTimezoneSetUpdatesClockAndState(t *testing.T) {
	// Ok opens the menu on "Set Time Zone", Ok enters it, Down steps the
	// pending offset to -0.5, Ok commits.
	samples := append(repeat(logic.Levels{}, 2), pressSeq(
		logic.Levels{Ok: true},
		logic.Levels{Ok: true},
		logic.Levels{Down: true},
		logic.Levels{Ok: true},
	)...)
	d, f := newTestDeps(t, samples)

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 11, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.pub.Events))
	}
	ev := f.pub.Events[0]
	if ev.Type != logic.EventTimezoneSet {
		t.Errorf("expected TZ_SET, got %s", ev.Type)
	}
	if ev.Offset != -0.5 {
		t.Errorf("offset: got %v, want -0.5", ev.Offset)
	}

	if len(f.clk.Offsets) != 1 || f.clk.Offsets[0] != -0.5 {
		t.Errorf("clock offsets: got %v, want [-0.5]", f.clk.Offsets)
	}

	st, err := f.store.Load()
	if err != nil {
		t.Fatalf("state load: %v", err)
	}
	if st.TimezoneOffset != -0.5 {
		t.Errorf("persisted offset: got %v, want -0.5", st.TimezoneOffset)
	}
}

func TestRunLoopAlarmSetPersists(t *testing.T) {
	// Ok opens the menu, Down moves to "Set Alarm 1", Ok enters the wizard,
	// Ok accepts the hour, Ok commits the minute.
	samples := append(repeat(logic.Levels{}, 2), pressSeq(
		logic.Levels{Ok: true},
		logic.Levels{Down: true},
		logic.Levels{Ok: true},
		logic.Levels{Ok: true},
		logic.Levels{Ok: true},
	)...)
	d, f := newTestDeps(t, samples)

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 13, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.pub.Events))
	}
	ev := f.pub.Events[0]
	if ev.Type != logic.EventAlarmSet {
		t.Errorf("expected ALARM_SET, got %s", ev.Type)
	}
	if ev.Slot != 1 || ev.Hour != 0 || ev.Minute != 0 {
		t.Errorf("event: got slot=%d %02d:%02d, want slot=1 00:00", ev.Slot, ev.Hour, ev.Minute)
	}

	st, err := f.store.Load()
	if err != nil {
		t.Fatalf("state load: %v", err)
	}
	if !st.Alarms[0].Active || st.Alarms[0].Hour != 0 || st.Alarms[0].Minute != 0 {
		t.Errorf("persisted alarm 1: got %+v", st.Alarms[0])
	}
}

func TestRunLoopEnvWarning(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))
	f.env.Samples = []sensor.Sample{
		{Temp: 40, Humidity: 90},
		{Temp: 40, Humidity: 90},
		{Temp: 28, Humidity: 70},
	}

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(f.pub.Events))
	}
	if f.pub.Events[0].Type != logic.EventEnvWarning {
		t.Errorf("event 0: expected ENV_WARNING, got %s", f.pub.Events[0].Type)
	}
	if f.pub.Events[0].Warning != logic.WarningBoth {
		t.Errorf("warning: got %s, want TEMP+HUMIDITY", f.pub.Events[0].Warning)
	}
	if f.pub.Events[1].Type != logic.EventEnvCleared {
		t.Errorf("event 1: expected ENV_CLEARED, got %s", f.pub.Events[1].Type)
	}

	// One warning pulse: on when raised, off once the reading recovers.
	if len(f.drv.LEDChanges) != 2 || !f.drv.LEDChanges[0] || f.drv.LEDChanges[1] {
		t.Errorf("LED changes: got %v, want [true false]", f.drv.LEDChanges)
	}
}

func TestRunLoopNoSensor(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))
	d.sensor = nil

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(f.pub.Events) != 0 {
		t.Errorf("expected no events without a sensor, got %d", len(f.pub.Events))
	}
	snap := f.tracker.Snapshot()
	if snap.Device.Reading.Valid {
		t.Error("tracker: expected no valid reading without a sensor")
	}
}

func TestRunLoopButtonReadError(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))
	f.buttons.ReadError = errors.New("gpio fault")

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 3, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	// SHUTDOWN should still be published
	if len(f.pub.SystemEvents) != 1 || f.pub.SystemEvents[0].Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN despite button errors, got %+v", f.pub.SystemEvents)
	}
}

func TestRunLoopClockNotSynced(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))
	f.clk.Err = clock.ErrNotSynced
	f.ctrl.Restore([logic.NumSlots]logic.Alarm{{Hour: 8, Minute: 0, Active: true}, {}}, 0)

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 4, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	// No alarm can fire without wall time.
	if len(f.pub.Events) != 0 {
		t.Errorf("expected no events while not synced, got %d", len(f.pub.Events))
	}
	clkScreen, ok := f.rend.Last().(screen.Clock)
	if !ok {
		t.Fatalf("expected Clock screen, got %T", f.rend.Last())
	}
	if clkScreen.Valid {
		t.Error("expected invalid clock screen while not synced")
	}
}

func TestRunLoopPublishError(t *testing.T) {
	d, f := newTestDeps(t, repeat(logic.Levels{}, 1))
	f.clk.Current = time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	f.ctrl.Restore([logic.NumSlots]logic.Alarm{{Hour: 8, Minute: 0, Active: true}, {}}, 0)
	f.pub.PublishError = errors.New("broker unavailable")

	err := driveLoop(t, d, fakeClock(loopStart, 300*time.Millisecond), 3, syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	// The ring event is dropped but the loop keeps running and SHUTDOWN
	// still goes out via PublishSystem.
	if len(f.pub.Events) != 0 {
		t.Errorf("expected 0 recorded events (publish failed), got %d", len(f.pub.Events))
	}
	if len(f.pub.SystemEvents) != 1 || f.pub.SystemEvents[0].Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN despite publish errors, got %+v", f.pub.SystemEvents)
	}
}
