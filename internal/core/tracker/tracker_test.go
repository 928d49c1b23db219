package tracker

import (
	"testing"
	"time"

	"kitkattimer/internal/core/model"
)

type fakeClock struct {
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.now = clock.now.Add(d)
}

func newTestTracker(interval time.Duration) (*Tracker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return New(model.BreakInterval(interval), clock.Now), clock
}

func TestAwayFlagFollowsLastCall(t *testing.T) {
	tests := []struct {
		name     string
		calls    []bool // true = OnAway, false = OnPresent
		wantAway bool
	}{
		{name: "no calls", calls: nil, wantAway: false},
		{name: "single away", calls: []bool{true}, wantAway: true},
		{name: "away then present", calls: []bool{true, false}, wantAway: false},
		{name: "repeated away", calls: []bool{true, true, true}, wantAway: true},
		{name: "repeated present", calls: []bool{false, false}, wantAway: false},
		{name: "mixed ending away", calls: []bool{false, true, false, true}, wantAway: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _ := newTestTracker(time.Hour)
			for _, away := range tt.calls {
				if away {
					tracker.OnAway()
				} else {
					tracker.OnPresent()
				}
			}
			if tracker.Away() != tt.wantAway {
				t.Errorf("expected away=%v but got %v", tt.wantAway, tracker.Away())
			}
		})
	}
}

func TestOnPresentRestartsClock(t *testing.T) {
	tracker, clock := newTestTracker(time.Hour)
	clock.Advance(40 * time.Minute)

	tracker.OnPresent()

	elapsed, ok := tracker.Elapsed(clock.Now())
	if !ok {
		t.Fatal("expected elapsed to be reported while present")
	}
	if elapsed != 0 {
		t.Errorf("expected elapsed 0 after OnPresent but got %v", elapsed)
	}
}

func TestSetIntervalRestartsClock(t *testing.T) {
	tracker, clock := newTestTracker(time.Hour)
	clock.Advance(50 * time.Minute)

	tracker.SetInterval(model.BreakInterval(30 * time.Minute))

	if tracker.Interval() != model.BreakInterval(30*time.Minute) {
		t.Errorf("expected interval 30m but got %v", tracker.Interval().Duration())
	}
	elapsed, _ := tracker.Elapsed(clock.Now())
	if elapsed != 0 {
		t.Errorf("expected elapsed 0 after SetInterval but got %v", elapsed)
	}
	if tracker.IsOverdue(clock.Now()) {
		t.Error("expected a fresh interval not to be overdue")
	}
}

func TestIsOverdueIsStrict(t *testing.T) {
	tracker, clock := newTestTracker(time.Hour)

	clock.Advance(time.Hour)
	if tracker.IsOverdue(clock.Now()) {
		t.Error("expected elapsed == interval not to be overdue")
	}

	clock.Advance(time.Nanosecond)
	if !tracker.IsOverdue(clock.Now()) {
		t.Error("expected elapsed > interval to be overdue")
	}
}

func TestAwayHidesElapsed(t *testing.T) {
	tracker, clock := newTestTracker(time.Hour)
	clock.Advance(3 * time.Hour)

	tracker.OnAway()

	if _, ok := tracker.Elapsed(clock.Now()); ok {
		t.Error("expected elapsed not to be reported while away")
	}
	if tracker.IsOverdue(clock.Now()) {
		t.Error("expected overdue to be false while away")
	}
}

func TestResetKeepsAwayFlag(t *testing.T) {
	tracker, clock := newTestTracker(time.Hour)
	clock.Advance(2 * time.Hour)

	tracker.Reset()

	if tracker.Away() {
		t.Error("expected Reset not to change the away flag")
	}
	if tracker.IsOverdue(clock.Now()) {
		t.Error("expected Reset to start a new work period")
	}
}

func TestStatusHandlers(t *testing.T) {
	tests := []struct {
		name     string
		start    bool
		apply    func(*Tracker)
		wantAway bool
		restarts bool
	}{
		{name: "lock", apply: func(tr *Tracker) { tr.HandleSession(model.SessionLock) }, wantAway: true},
		{name: "remote disconnect", apply: func(tr *Tracker) { tr.HandleSession(model.SessionRemoteDisconnect) }, wantAway: true},
		{name: "unlock", start: true, apply: func(tr *Tracker) { tr.HandleSession(model.SessionUnlock) }, restarts: true},
		{name: "remote connect", start: true, apply: func(tr *Tracker) { tr.HandleSession(model.SessionRemoteConnect) }, restarts: true},
		{name: "other session reason", start: true, apply: func(tr *Tracker) { tr.HandleSession(model.SessionOther) }, wantAway: true},
		{name: "suspend", apply: func(tr *Tracker) { tr.HandlePower(model.PowerSuspend) }, wantAway: true},
		{name: "resume", start: true, apply: func(tr *Tracker) { tr.HandlePower(model.PowerResume) }, restarts: true},
		{name: "battery switch", apply: func(tr *Tracker) { tr.HandlePower(model.PowerStatusChange) }},
		{name: "monitor off", apply: func(tr *Tracker) { tr.HandleMonitor(false) }, wantAway: true},
		{name: "monitor on", start: true, apply: func(tr *Tracker) { tr.HandleMonitor(true) }, restarts: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, clock := newTestTracker(time.Hour)
			if tt.start {
				tracker.OnAway()
			}
			clock.Advance(10 * time.Minute)

			tt.apply(tracker)

			if tracker.Away() != tt.wantAway {
				t.Fatalf("expected away=%v but got %v", tt.wantAway, tracker.Away())
			}
			if tt.wantAway {
				return
			}
			elapsed, _ := tracker.Elapsed(clock.Now())
			if tt.restarts && elapsed != 0 {
				t.Errorf("expected clock restart but elapsed is %v", elapsed)
			}
			if !tt.restarts && elapsed != 10*time.Minute {
				t.Errorf("expected elapsed 10m to be untouched but got %v", elapsed)
			}
		})
	}
}
