package dispatch

import "kitkattimer/internal/core/model"

// EventKind identifies the variant carried by an Event.
type EventKind string

const (
	EventSessionChanged   EventKind = "session_changed"
	EventPowerChanged     EventKind = "power_changed"
	EventMonitorChanged   EventKind = "monitor_changed"
	EventTick             EventKind = "tick"
	EventIntervalSelected EventKind = "interval_selected"
	EventExitRequested    EventKind = "exit_requested"
)

// Event is a single input to the dispatch loop. Only the fields matching Kind are set.
type Event struct {
	Kind      EventKind
	Session   model.SessionReason
	Power     model.PowerMode
	MonitorOn bool
	Interval  model.BreakInterval
}

// SessionChanged builds a session switch event.
func SessionChanged(reason model.SessionReason) Event {
	return Event{Kind: EventSessionChanged, Session: reason}
}

// PowerChanged builds a power mode event.
func PowerChanged(mode model.PowerMode) Event {
	return Event{Kind: EventPowerChanged, Power: mode}
}

// MonitorChanged builds a display power event.
func MonitorChanged(on bool) Event {
	return Event{Kind: EventMonitorChanged, MonitorOn: on}
}

// IntervalSelected builds a menu selection event.
func IntervalSelected(interval model.BreakInterval) Event {
	return Event{Kind: EventIntervalSelected, Interval: interval}
}

// ExitRequested builds the shutdown event.
func ExitRequested() Event {
	return Event{Kind: EventExitRequested}
}
