// Package dispatch serializes OS status changes, menu input and the one-second
// tick onto a single goroutine that owns the tracker and the notifier.
package dispatch

import (
	"context"
	"errors"
	"log"
	"time"

	"kitkattimer/internal/core/model"
	"kitkattimer/internal/core/tracker"
)

// ErrStopped is returned by Post once the loop has exited.
var ErrStopped = errors.New("dispatch loop stopped")

// Notifier delivers reminders to the notification daemon.
type Notifier interface {
	Registered() bool
	Register() error
	Notify(title, text string, timeout int) error
	Unregister() error
	Drop()
	Close() error
}

// Display shows tracker state to the user.
type Display interface {
	SetStatus(status string)
	SetAway(away bool)
	SetInterval(interval model.BreakInterval)
}

// Config contains runtime options for Loop.
type Config struct {
	TickInterval time.Duration
	Debug        bool
}

// Loop is the only goroutine that touches the tracker and the notifier.
type Loop struct {
	tracker  *tracker.Tracker
	notifier Notifier
	display  Display
	options  Config
	clock    tracker.Clock
	reminder reminder
	events   chan Event
	done     chan struct{}
}

// New creates a Loop. clock must be the same one the tracker uses; nil means time.Now.
func New(keeper *tracker.Tracker, notifier Notifier, display Display, clock tracker.Clock, options Config) *Loop {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if clock == nil {
		clock = time.Now
	}
	return &Loop{
		tracker:  keeper,
		notifier: notifier,
		display:  display,
		options:  options,
		clock:    clock,
		events:   make(chan Event),
		done:     make(chan struct{}),
	}
}

// Post hands an event to the loop, blocking until it is accepted.
func (loop *Loop) Post(ctx context.Context, event Event) error {
	select {
	case loop.events <- event:
		return nil
	case <-loop.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SessionChanged forwards a session switch.
func (loop *Loop) SessionChanged(reason model.SessionReason) {
	loop.forward(SessionChanged(reason))
}

// PowerChanged forwards a power mode change.
func (loop *Loop) PowerChanged(mode model.PowerMode) {
	loop.forward(PowerChanged(mode))
}

// MonitorChanged forwards a display power change.
func (loop *Loop) MonitorChanged(on bool) {
	loop.forward(MonitorChanged(on))
}

// Run processes events until an exit is requested or ctx is done.
// The notifier is unregistered and closed before Run returns.
func (loop *Loop) Run(ctx context.Context) error {
	defer close(loop.done)

	ticker := time.NewTicker(loop.options.TickInterval)
	defer ticker.Stop()

	loop.display.SetInterval(loop.tracker.Interval())

	for {
		select {
		case <-ctx.Done():
			loop.shutdown()
			return ctx.Err()
		case <-ticker.C:
			loop.tick()
		case event := <-loop.events:
			if loop.handle(event) {
				loop.shutdown()
				return nil
			}
		}
	}
}

func (loop *Loop) forward(event Event) {
	if err := loop.Post(context.Background(), event); err != nil {
		loop.logf("drop %s: %v", event.Kind, err)
	}
}

// handle applies a single event and reports whether the loop should exit.
func (loop *Loop) handle(event Event) bool {
	switch event.Kind {
	case EventSessionChanged:
		loop.tracker.HandleSession(event.Session)
		loop.display.SetAway(loop.tracker.Away())
	case EventPowerChanged:
		loop.tracker.HandlePower(event.Power)
		loop.display.SetAway(loop.tracker.Away())
	case EventMonitorChanged:
		loop.tracker.HandleMonitor(event.MonitorOn)
		loop.display.SetAway(loop.tracker.Away())
	case EventIntervalSelected:
		if model.PresetIndex(event.Interval) < 0 {
			loop.logf("ignore interval %v: not a preset", event.Interval.Duration())
			return false
		}
		loop.tracker.SetInterval(event.Interval)
		loop.display.SetInterval(event.Interval)
	case EventTick:
		loop.tick()
	case EventExitRequested:
		return true
	}
	return false
}

func (loop *Loop) tick() {
	if loop.tracker.Away() {
		return
	}

	if !loop.notifier.Registered() {
		if err := loop.notifier.Register(); err != nil {
			loop.logf("%v", err)
		}
	}

	now := loop.clock()
	elapsed, _ := loop.tracker.Elapsed(now)
	if loop.notifier.Registered() {
		loop.display.SetStatus(statusElapsed(elapsed))
	} else {
		loop.display.SetStatus(statusConnecting)
	}

	if !loop.tracker.IsOverdue(now) {
		return
	}
	text := loop.reminder.next(loop.tracker.Interval())
	if err := loop.notifier.Notify(reminderTitle, text, reminderTimeout); err != nil {
		loop.logf("%v", err)
		loop.notifier.Drop()
	}
	// The reminder claims the period whether or not the daemon received it.
	loop.tracker.Reset()
}

func (loop *Loop) shutdown() {
	if err := loop.notifier.Unregister(); err != nil {
		loop.logf("%v", err)
	}
	if err := loop.notifier.Close(); err != nil {
		loop.logf("close: %v", err)
	}
}

func (loop *Loop) logf(format string, args ...any) {
	if loop.options.Debug {
		log.Printf(format, args...)
	}
}
