// Package platform adapts operating system signals to the tracker's vocabulary.
package platform

import (
	"context"
	"errors"
	"log"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

// IdleWatchConfig controls WatchIdle.
type IdleWatchConfig struct {
	Threshold    time.Duration
	PollInterval time.Duration
	Debug        bool
}

// WatchIdle polls provider and reports the display as off once input has been
// idle for Threshold, and back on as soon as input resumes.
// It returns ErrIdleUnsupported if the provider cannot measure idle time.
func WatchIdle(ctx context.Context, provider IdleProvider, config IdleWatchConfig, sink Sink) error {
	if config.Threshold <= 0 {
		config.Threshold = 5 * time.Minute
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}

	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()

	idle := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		idleFor, err := provider.IdleDuration()
		if err != nil {
			if errors.Is(err, ErrIdleUnsupported) {
				return err
			}
			if config.Debug {
				log.Printf("idle check: %v", err)
			}
			continue
		}

		switch {
		case !idle && idleFor >= config.Threshold:
			idle = true
			sink.MonitorChanged(false)
		case idle && idleFor < config.Threshold:
			idle = false
			sink.MonitorChanged(true)
		}
	}
}
