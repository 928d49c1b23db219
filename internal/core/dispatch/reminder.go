package dispatch

import (
	"time"

	"kitkattimer/internal/core/model"
)

const (
	reminderTitle   = "KitKatTimer: Take a break!"
	reminderTimeout = 5

	statusConnecting = "Trying to connect"
)

var reminderPhrases = [...]string{
	"You've been staring at this display for ",
	"You've been sitting on your bum for ",
}

// reminder alternates between the phrasings on every call to next.
type reminder struct {
	count int
}

func (r *reminder) next(interval model.BreakInterval) string {
	phrase := reminderPhrases[r.count%len(reminderPhrases)]
	r.count++
	return phrase + interval.Label() + "."
}

func statusElapsed(elapsed time.Duration) string {
	return "It's been " + model.FormatSpan(elapsed)
}
