// Package session discovers graphical login sessions through the system
// session manager (ConsoleKit or systemd-logind) and switches the physical
// display to the best one. When neither manager is usable it degrades to a
// best-effort console switch.
package session

import (
	"os/user"
	"strconv"

	"github.com/godbus/dbus/v5"

	"github.com/kioskops/ttyguard/internal/logging"
)

var log = logging.L("session")

// Kind tags the closed set of backend variants.
type Kind int

const (
	KindConsoleKit Kind = iota
	KindLogind
)

func (k Kind) String() string {
	switch k {
	case KindConsoleKit:
		return "consolekit"
	case KindLogind:
		return "logind"
	default:
		return "unknown"
	}
}

// Session is an immutable snapshot of one login session as reported by a
// backend. Sessions are created and destroyed by the OS session manager;
// this package only observes them.
type Session struct {
	ID        string
	UID       uint32
	User      string
	Seat      string
	Display   string
	Local     bool
	Graphical bool
	VT        uint32
	Path      dbus.ObjectPath
}

// KioskUser is the resolved identity of the preferred shared account.
type KioskUser struct {
	Name string
	UID  uint32
}

// LookupKioskUser resolves the configured kiosk account name once. A
// missing account is a valid permanent state and yields (nil, nil).
func LookupKioskUser(name string) (*KioskUser, error) {
	if name == "" {
		return nil, nil
	}
	u, err := user.Lookup(name)
	if err != nil {
		if _, ok := err.(user.UnknownUserError); ok {
			return nil, nil
		}
		return nil, err
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return nil, err
	}
	return &KioskUser{Name: name, UID: uint32(uid)}, nil
}

// Backend is one session-management service. Exactly one backend is
// authoritative per activation attempt.
type Backend interface {
	Kind() Kind

	// Available probes the well-known bus name. An absent service is
	// false, silently; any other bus error is logged and treated as
	// false for this attempt.
	Available() bool

	// Candidates enumerates sessions in backend order. The kiosk user,
	// when known, steers backend-specific enumeration (ConsoleKit asks
	// for that user's sessions first). Order is authoritative and never
	// re-sorted.
	Candidates(kiosk *KioskUser) ([]Session, error)

	// Activate asks the backend to give s hardware focus.
	Activate(s Session) error
}

// DefaultBackends connects to the system bus and returns the backends in
// priority order: ConsoleKit first, then logind.
func DefaultBackends() ([]Backend, error) {
	bus, err := connectSystemBus()
	if err != nil {
		return nil, err
	}
	return []Backend{NewConsoleKit(bus), NewLogind(bus)}, nil
}

// Availability is the per-attempt probe result for both backends. It is
// never cached across attempts.
type Availability struct {
	ConsoleKit bool
	Logind     bool
}

// Probe checks both well-known services. ConsoleKit keeps priority over
// logind to match historical deployment order.
func Probe(backends []Backend) Availability {
	var a Availability
	for _, b := range backends {
		switch b.Kind() {
		case KindConsoleKit:
			a.ConsoleKit = b.Available()
		case KindLogind:
			a.Logind = b.Available()
		}
	}
	return a
}
