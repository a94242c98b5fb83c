package session

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	logindService      = "org.freedesktop.login1"
	logindManagerPath  = "/org/freedesktop/login1"
	logindManagerIface = "org.freedesktop.login1.Manager"
	logindSessionIface = "org.freedesktop.login1.Session"
)

// logindListEntry matches one element of logind's ListSessions reply
// (session id, uid, user name, seat id, object path).
type logindListEntry struct {
	ID   string
	UID  uint32
	User string
	Seat string
	Path dbus.ObjectPath
}

// Logind talks to systemd-logind.
type Logind struct {
	bus busConn
}

func NewLogind(bus busConn) *Logind {
	return &Logind{bus: bus}
}

func (l *Logind) Kind() Kind {
	return KindLogind
}

func (l *Logind) Available() bool {
	has, err := l.bus.NameHasOwner(logindService)
	if err != nil {
		log.Warn("logind availability probe failed", "error", err)
		return false
	}
	return has
}

// Candidates lists logind sessions whose type is graphical (x11) and whose
// remote flag is unset.
func (l *Logind) Candidates(_ *KioskUser) ([]Session, error) {
	obj := l.bus.Object(logindService, dbus.ObjectPath(logindManagerPath))
	call := obj.Call(logindManagerIface+".ListSessions", 0)
	if call.Err != nil {
		return nil, fmt.Errorf("logind ListSessions: %w", call.Err)
	}
	var entries []logindListEntry
	if err := call.Store(&entries); err != nil {
		return nil, fmt.Errorf("logind ListSessions: %w", err)
	}

	var sessions []Session
	for _, e := range entries {
		sobj := l.bus.Object(logindService, e.Path)
		if stringProp(sobj, logindSessionIface+".Type") != "x11" {
			continue
		}
		if boolProp(sobj, logindSessionIface+".Remote") {
			continue
		}
		sessions = append(sessions, Session{
			ID:        e.ID,
			UID:       e.UID,
			User:      e.User,
			Seat:      e.Seat,
			Display:   stringProp(sobj, logindSessionIface+".Display"),
			Local:     true,
			Graphical: true,
			VT:        uint32Prop(sobj, logindSessionIface+".VTNr"),
			Path:      e.Path,
		})
	}
	return sessions, nil
}

func (l *Logind) Activate(s Session) error {
	obj := l.bus.Object(logindService, s.Path)
	if call := obj.Call(logindSessionIface+".Activate", 0); call.Err != nil {
		return fmt.Errorf("logind activate %s: %w", s.ID, call.Err)
	}
	return nil
}
