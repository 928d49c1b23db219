package platform

import (
	"context"
	"errors"

	"kitkattimer/internal/core/model"
)

// ErrStatusUnsupported indicates no lock/suspend notifications are available.
var ErrStatusUnsupported = errors.New("status notifications unsupported")

// Sink receives desktop status changes.
type Sink interface {
	SessionChanged(reason model.SessionReason)
	PowerChanged(mode model.PowerMode)
	MonitorChanged(on bool)
}

// StatusSource delivers lock, suspend and display changes until ctx is done.
type StatusSource interface {
	Watch(ctx context.Context, sink Sink) error
}

// StatusConfig configures a StatusSource.
type StatusConfig struct {
	Debug bool
}

// NewStatusSource returns the platform-specific source.
func NewStatusSource(config StatusConfig) StatusSource {
	return newStatusSource(config)
}

const (
	login1Service    = "org.freedesktop.login1"
	login1Path       = "/org/freedesktop/login1"
	login1Manager    = "org.freedesktop.login1.Manager"
	login1Session    = "org.freedesktop.login1.Session"
	freedesktopSaver = "org.freedesktop.ScreenSaver"
	gnomeSaver       = "org.gnome.ScreenSaver"
)

// translateSignal maps a D-Bus signal to sink calls.
// It reports false for signals it does not understand.
func translateSignal(name string, body []interface{}, sink Sink) bool {
	switch name {
	case login1Session + ".Lock":
		sink.SessionChanged(model.SessionLock)
	case login1Session + ".Unlock":
		sink.SessionChanged(model.SessionUnlock)
	case login1Manager + ".PrepareForSleep":
		start, ok := firstBool(body)
		if !ok {
			return false
		}
		if start {
			sink.PowerChanged(model.PowerSuspend)
		} else {
			sink.PowerChanged(model.PowerResume)
		}
	case freedesktopSaver + ".ActiveChanged", gnomeSaver + ".ActiveChanged":
		active, ok := firstBool(body)
		if !ok {
			return false
		}
		sink.MonitorChanged(!active)
	default:
		return false
	}
	return true
}

func firstBool(body []interface{}) (bool, bool) {
	if len(body) == 0 {
		return false, false
	}
	value, ok := body[0].(bool)
	return value, ok
}

// Window messages and their wParam codes, from winuser.h and wtsapi32.h.
const (
	wmPowerBroadcast   = 0x0218
	wmWTSSessionChange = 0x02B1

	wtsRemoteConnect    = 0x3
	wtsRemoteDisconnect = 0x4
	wtsSessionLock      = 0x7
	wtsSessionUnlock    = 0x8

	pbtAPMSuspend           = 0x4
	pbtAPMResumeSuspend     = 0x7
	pbtAPMPowerStatusChange = 0xA
	pbtAPMResumeAutomatic   = 0x12
)

// translateWindowMessage maps a session or power window message to sink calls.
// It reports false for messages it does not understand.
func translateWindowMessage(msg uint32, wParam uintptr, sink Sink) bool {
	switch msg {
	case wmWTSSessionChange:
		switch wParam {
		case wtsSessionLock:
			sink.SessionChanged(model.SessionLock)
		case wtsSessionUnlock:
			sink.SessionChanged(model.SessionUnlock)
		case wtsRemoteConnect:
			sink.SessionChanged(model.SessionRemoteConnect)
		case wtsRemoteDisconnect:
			sink.SessionChanged(model.SessionRemoteDisconnect)
		default:
			return false
		}
	case wmPowerBroadcast:
		switch wParam {
		case pbtAPMSuspend:
			sink.PowerChanged(model.PowerSuspend)
		// A user-triggered wake delivers both.
		case pbtAPMResumeAutomatic, pbtAPMResumeSuspend:
			sink.PowerChanged(model.PowerResume)
		case pbtAPMPowerStatusChange:
			sink.PowerChanged(model.PowerStatusChange)
		default:
			return false
		}
	default:
		return false
	}
	return true
}
