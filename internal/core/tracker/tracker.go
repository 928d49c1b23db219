package tracker

import (
	"time"

	"kitkattimer/internal/core/model"
)

// Clock returns the current time.
type Clock func() time.Time

// Tracker keeps the start of the current work period and whether the user is away.
// It is not safe for concurrent use; the dispatch loop owns it.
type Tracker struct {
	clock        Clock
	lastActiveAt time.Time
	away         bool
	interval     model.BreakInterval
}

// New creates a Tracker that starts counting immediately.
func New(interval model.BreakInterval, clock Clock) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{
		clock:        clock,
		lastActiveAt: clock(),
		interval:     interval,
	}
}

// OnAway pauses tracking.
func (tracker *Tracker) OnAway() {
	tracker.away = true
}

// OnPresent resumes tracking with a fresh work period.
// The clock is restarted even when the user was already present.
func (tracker *Tracker) OnPresent() {
	tracker.away = false
	tracker.lastActiveAt = tracker.clock()
}

// SetInterval switches to a new break interval and restarts the work period.
func (tracker *Tracker) SetInterval(interval model.BreakInterval) {
	tracker.interval = interval
	tracker.lastActiveAt = tracker.clock()
}

// Reset starts a new work period without changing the away flag.
func (tracker *Tracker) Reset() {
	tracker.lastActiveAt = tracker.clock()
}

// Away reports whether tracking is paused.
func (tracker *Tracker) Away() bool {
	return tracker.away
}

// Interval returns the active break interval.
func (tracker *Tracker) Interval() model.BreakInterval {
	return tracker.interval
}

// Elapsed returns how long the current work period has lasted at now.
// ok is false while the user is away.
func (tracker *Tracker) Elapsed(now time.Time) (elapsed time.Duration, ok bool) {
	if tracker.away {
		return 0, false
	}
	return now.Sub(tracker.lastActiveAt), true
}

// IsOverdue reports whether the work period at now is strictly longer than the interval.
// It is always false while the user is away.
func (tracker *Tracker) IsOverdue(now time.Time) bool {
	elapsed, ok := tracker.Elapsed(now)
	if !ok {
		return false
	}
	return elapsed > tracker.interval.Duration()
}

// HandleSession applies a session switch. Unknown reasons are ignored.
func (tracker *Tracker) HandleSession(reason model.SessionReason) {
	switch reason {
	case model.SessionLock, model.SessionRemoteDisconnect:
		tracker.OnAway()
	case model.SessionUnlock, model.SessionRemoteConnect:
		tracker.OnPresent()
	}
}

// HandlePower applies a power mode change. Battery/AC switches are ignored.
func (tracker *Tracker) HandlePower(mode model.PowerMode) {
	switch mode {
	case model.PowerSuspend:
		tracker.OnAway()
	case model.PowerResume:
		tracker.OnPresent()
	}
}

// HandleMonitor applies a display power change. A blank display means the user left.
func (tracker *Tracker) HandleMonitor(on bool) {
	if on {
		tracker.OnPresent()
		return
	}
	tracker.OnAway()
}
