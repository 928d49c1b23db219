package model

import (
	"fmt"
	"time"
)

// BreakInterval is the amount of continuous presence after which a reminder is sent.
type BreakInterval time.Duration

// DefaultInterval is the interval checked when the application starts.
const DefaultInterval = BreakInterval(time.Hour)

var presets = []BreakInterval{
	BreakInterval(30 * time.Minute),
	BreakInterval(time.Hour),
	BreakInterval(2 * time.Hour),
	BreakInterval(3 * time.Hour),
	BreakInterval(4 * time.Hour),
}

// Presets returns the selectable intervals in menu order.
func Presets() []BreakInterval {
	return append([]BreakInterval(nil), presets...)
}

// PresetIndex returns the menu position of interval, or -1 if it is not a preset.
func PresetIndex(interval BreakInterval) int {
	for index, preset := range presets {
		if preset == interval {
			return index
		}
	}
	return -1
}

// Duration converts the interval to a time.Duration.
func (interval BreakInterval) Duration() time.Duration {
	return time.Duration(interval)
}

// Label returns the menu text for the interval.
func (interval BreakInterval) Label() string {
	return FormatSpan(interval.Duration())
}

// FormatSpan renders a duration the way the tray shows it.
// Anything past one hour keeps only the whole hours and is always plural.
func FormatSpan(span time.Duration) string {
	switch {
	case span < time.Hour:
		return fmt.Sprintf("%d minutes", int(span/time.Minute))
	case span == time.Hour:
		return "1 hour"
	default:
		return fmt.Sprintf("%d hours", int(span/time.Hour))
	}
}
