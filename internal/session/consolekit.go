package session

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	ckService      = "org.freedesktop.ConsoleKit"
	ckManagerPath  = "/org/freedesktop/ConsoleKit/Manager"
	ckManagerIface = "org.freedesktop.ConsoleKit.Manager"
	ckSessionIface = "org.freedesktop.ConsoleKit.Session"
)

// ConsoleKit talks to the ConsoleKit daemon.
type ConsoleKit struct {
	bus busConn
}

func NewConsoleKit(bus busConn) *ConsoleKit {
	return &ConsoleKit{bus: bus}
}

func (c *ConsoleKit) Kind() Kind {
	return KindConsoleKit
}

func (c *ConsoleKit) Available() bool {
	has, err := c.bus.NameHasOwner(ckService)
	if err != nil {
		log.Warn("consolekit availability probe failed", "error", err)
		return false
	}
	return has
}

// Candidates lists ConsoleKit sessions. When the kiosk uid is known, the
// per-user query runs first; only an empty result widens to all sessions.
func (c *ConsoleKit) Candidates(kiosk *KioskUser) ([]Session, error) {
	var paths []dbus.ObjectPath

	if kiosk != nil {
		var err error
		paths, err = c.sessionPaths(ckManagerIface+".GetSessionsForUnixUser", kiosk.UID)
		if err != nil {
			return nil, err
		}
	}
	if len(paths) == 0 {
		var err error
		paths, err = c.sessionPaths(ckManagerIface + ".GetSessions")
		if err != nil {
			return nil, err
		}
	}

	sessions := make([]Session, 0, len(paths))
	for _, p := range paths {
		sessions = append(sessions, c.readSession(p))
	}
	return sessions, nil
}

func (c *ConsoleKit) Activate(s Session) error {
	obj := c.bus.Object(ckService, s.Path)
	if call := obj.Call(ckSessionIface+".Activate", 0); call.Err != nil {
		return fmt.Errorf("consolekit activate %s: %w", s.Path, call.Err)
	}
	return nil
}

func (c *ConsoleKit) sessionPaths(method string, args ...interface{}) ([]dbus.ObjectPath, error) {
	obj := c.bus.Object(ckService, dbus.ObjectPath(ckManagerPath))
	call := obj.Call(method, 0, args...)
	if call.Err != nil {
		return nil, fmt.Errorf("%s: %w", method, call.Err)
	}
	var paths []dbus.ObjectPath
	if err := call.Store(&paths); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return paths, nil
}

// readSession fills a Session from the per-session object. ConsoleKit has
// no property interface worth speaking of, so these are method calls; any
// individual failure leaves the zero value, which simply makes the session
// unselectable.
func (c *ConsoleKit) readSession(path dbus.ObjectPath) Session {
	obj := c.bus.Object(ckService, path)
	s := Session{ID: string(path), Path: path}

	if call := obj.Call(ckSessionIface+".GetUnixUser", 0); call.Err == nil {
		_ = call.Store(&s.UID)
	}
	if call := obj.Call(ckSessionIface+".IsLocal", 0); call.Err == nil {
		_ = call.Store(&s.Local)
	}
	if call := obj.Call(ckSessionIface+".GetX11Display", 0); call.Err == nil {
		_ = call.Store(&s.Display)
	}
	s.Graphical = s.Display != ""
	return s
}
