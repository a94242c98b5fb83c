package session

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func addLogindSession(bus *fakeBus, path dbus.ObjectPath, typ string, remote bool, display string, vt uint32) {
	o := bus.object(path)
	o.props[logindSessionIface+".Type"] = dbus.MakeVariant(typ)
	o.props[logindSessionIface+".Remote"] = dbus.MakeVariant(remote)
	o.props[logindSessionIface+".Display"] = dbus.MakeVariant(display)
	o.props[logindSessionIface+".VTNr"] = dbus.MakeVariant(vt)
	o.calls[logindSessionIface+".Activate"] = []interface{}{}
}

func listReply(entries ...[]interface{}) []interface{} {
	return []interface{}{entries}
}

func TestLogindCandidatesFilterGraphicalLocal(t *testing.T) {
	bus := newFakeBus()
	mgr := bus.object(dbus.ObjectPath(logindManagerPath))
	mgr.calls[logindManagerIface+".ListSessions"] = listReply(
		[]interface{}{"1", uint32(1000), "alice", "seat0", dbus.ObjectPath("/ld/1")},
		[]interface{}{"2", uint32(1001), "bob", "seat0", dbus.ObjectPath("/ld/2")},
		[]interface{}{"3", uint32(1002), "carol", "", dbus.ObjectPath("/ld/3")},
	)
	addLogindSession(bus, "/ld/1", "x11", false, ":0", 7)
	addLogindSession(bus, "/ld/2", "tty", false, "", 3)
	addLogindSession(bus, "/ld/3", "x11", true, ":1", 0)

	ld := NewLogind(bus)
	sessions, err := ld.Candidates(nil)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}

	if len(sessions) != 1 {
		t.Fatalf("sessions = %+v, want only the local x11 one", sessions)
	}
	s := sessions[0]
	if s.ID != "1" || s.User != "alice" || s.VT != 7 || !s.Local || !s.Graphical {
		t.Errorf("session = %+v", s)
	}
}

func TestLogindAvailability(t *testing.T) {
	bus := newFakeBus()
	ld := NewLogind(bus)

	if ld.Available() {
		t.Error("absent service should probe unavailable")
	}
	bus.owners[logindService] = true
	if !ld.Available() {
		t.Error("owned service should probe available")
	}
}

func TestLogindActivateCallsSessionObject(t *testing.T) {
	bus := newFakeBus()
	addLogindSession(bus, "/ld/1", "x11", false, ":0", 7)

	ld := NewLogind(bus)
	if err := ld.Activate(Session{ID: "1", Path: "/ld/1"}); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if bus.called("/ld/1 "+logindSessionIface+".Activate") != 1 {
		t.Errorf("expected one Activate call, log: %v", bus.log)
	}
}
