package session

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// busObject is the slice of dbus.BusObject the backends use. Satisfied by
// *dbus.Object and by test fakes.
type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
	GetProperty(p string) (dbus.Variant, error)
}

// busConn abstracts the system bus connection so backends can be exercised
// without a running bus.
type busConn interface {
	Object(dest string, path dbus.ObjectPath) busObject
	NameHasOwner(name string) (bool, error)
}

// systemBus adapts *dbus.Conn to busConn.
type systemBus struct {
	conn *dbus.Conn
}

func connectSystemBus() (busConn, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return systemBus{conn: conn}, nil
}

func (b systemBus) Object(dest string, path dbus.ObjectPath) busObject {
	return b.conn.Object(dest, path)
}

func (b systemBus) NameHasOwner(name string) (bool, error) {
	var has bool
	call := b.conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, name)
	if call.Err != nil {
		return false, call.Err
	}
	if err := call.Store(&has); err != nil {
		return false, err
	}
	return has, nil
}

// boolProp reads a boolean property, treating read failures as false.
func boolProp(obj busObject, name string) bool {
	v, err := obj.GetProperty(name)
	if err != nil {
		return false
	}
	b, ok := v.Value().(bool)
	return ok && b
}

// stringProp reads a string property, treating read failures as empty.
func stringProp(obj busObject, name string) string {
	v, err := obj.GetProperty(name)
	if err != nil {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

// uint32Prop reads a numeric property, treating read failures as zero.
func uint32Prop(obj busObject, name string) uint32 {
	v, err := obj.GetProperty(name)
	if err != nil {
		return 0
	}
	u, _ := v.Value().(uint32)
	return u
}
