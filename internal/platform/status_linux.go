package platform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/godbus/dbus/v5"
)

type dbusStatusSource struct {
	config StatusConfig
}

// matchAdder is the subscription half of *dbus.Conn.
type matchAdder interface {
	AddMatchSignal(options ...dbus.MatchOption) error
}

func newStatusSource(config StatusConfig) StatusSource {
	return dbusStatusSource{config: config}
}

// Watch listens to logind on the system bus and to the screensaver on the
// session bus. The session bus is optional.
func (source dbusStatusSource) Watch(ctx context.Context, sink Sink) error {
	system, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("watch status: %w: connect system bus: %v", ErrStatusUnsupported, err)
	}
	defer system.Close()

	sessionPath, pathErr := ownSessionPath(system)
	if pathErr != nil {
		source.logf("status: %v, watching every session", pathErr)
	}
	sessionMatch := func(member string) []dbus.MatchOption {
		options := []dbus.MatchOption{dbus.WithMatchInterface(login1Session), dbus.WithMatchMember(member)}
		if pathErr == nil {
			options = append(options, dbus.WithMatchObjectPath(sessionPath))
		}
		return options
	}

	matches := [][]dbus.MatchOption{
		{dbus.WithMatchInterface(login1Manager), dbus.WithMatchMember("PrepareForSleep")},
		sessionMatch("Lock"),
		sessionMatch("Unlock"),
	}
	for _, options := range matches {
		if err := system.AddMatchSignal(options...); err != nil {
			return fmt.Errorf("watch status: add match: %w", err)
		}
	}
	systemSignals := make(chan *dbus.Signal, 16)
	system.Signal(systemSignals)

	var sessionSignals chan *dbus.Signal
	if session, err := dbus.ConnectSessionBus(); err == nil {
		defer session.Close()
		if source.addScreenSaverMatches(session) > 0 {
			sessionSignals = make(chan *dbus.Signal, 16)
			session.Signal(sessionSignals)
		}
	} else {
		source.logf("status: connect session bus: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case signal, ok := <-systemSignals:
			if !ok {
				return errors.New("watch status: system bus closed")
			}
			translateSignal(signal.Name, signal.Body, sink)
		case signal, ok := <-sessionSignals:
			if !ok {
				sessionSignals = nil
				continue
			}
			translateSignal(signal.Name, signal.Body, sink)
		}
	}
}

func ownSessionPath(conn *dbus.Conn) (dbus.ObjectPath, error) {
	var path dbus.ObjectPath
	manager := conn.Object(login1Service, dbus.ObjectPath(login1Path))
	if err := manager.Call(login1Manager+".GetSessionByPID", 0, uint32(os.Getpid())).Store(&path); err != nil {
		return "", fmt.Errorf("get session by pid: %w", err)
	}
	return path, nil
}

// addScreenSaverMatches subscribes to ActiveChanged on every known screensaver
// interface and returns how many subscriptions succeeded.
func (source dbusStatusSource) addScreenSaverMatches(conn matchAdder) int {
	added := 0
	for _, iface := range []string{freedesktopSaver, gnomeSaver} {
		if err := conn.AddMatchSignal(dbus.WithMatchInterface(iface), dbus.WithMatchMember("ActiveChanged")); err != nil {
			source.logf("status: match %s.ActiveChanged: %v", iface, err)
			continue
		}
		added++
	}
	return added
}

func (source dbusStatusSource) logf(format string, args ...interface{}) {
	if source.config.Debug {
		log.Printf(format, args...)
	}
}
