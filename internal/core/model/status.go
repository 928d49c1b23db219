package model

// SessionReason describes why the desktop session changed.
type SessionReason string

const (
	SessionLock             SessionReason = "lock"
	SessionUnlock           SessionReason = "unlock"
	SessionRemoteDisconnect SessionReason = "remote_disconnect"
	SessionRemoteConnect    SessionReason = "remote_connect"
	SessionOther            SessionReason = "other"
)

// PowerMode describes a power state change.
type PowerMode string

const (
	PowerSuspend      PowerMode = "suspend"
	PowerResume       PowerMode = "resume"
	PowerStatusChange PowerMode = "status_change"
)
