package session

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestFallback(t *testing.T, marker string) (*Fallback, *[]int) {
	t.Helper()
	var switched []int
	f := NewFallback(marker, []string{"Xorg", "X"}, "chvt")
	f.switchVT = func(vt int) error {
		switched = append(switched, vt)
		return nil
	}
	f.terminals = func([]string) []string { return nil }
	return f, &switched
}

func writeMarker(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session-vt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMarkerFileSwitchesToRecordedVT(t *testing.T) {
	f, switched := newTestFallback(t, writeMarker(t, "3"))

	if !f.Run() {
		t.Fatal("Run should report a switch")
	}
	if len(*switched) != 1 || (*switched)[0] != 3 {
		t.Errorf("switched = %v, want [3]", *switched)
	}
}

func TestMarkerFileTrimsWhitespace(t *testing.T) {
	f, switched := newTestFallback(t, writeMarker(t, " 7\n"))

	f.Run()
	if len(*switched) != 1 || (*switched)[0] != 7 {
		t.Errorf("switched = %v, want [7]", *switched)
	}
}

func TestGarbageMarkerIsIgnored(t *testing.T) {
	f, switched := newTestFallback(t, writeMarker(t, "seven"))

	if f.Run() {
		t.Error("garbage marker must not trigger a switch")
	}
	if len(*switched) != 0 {
		t.Errorf("switched = %v, want none", *switched)
	}
}

func TestDisplayServerTerminalUsedWhenNoMarker(t *testing.T) {
	f, switched := newTestFallback(t, filepath.Join(t.TempDir(), "absent"))
	f.terminals = func(names []string) []string {
		if len(names) != 2 || names[0] != "Xorg" {
			t.Errorf("unexpected server names %v", names)
		}
		return []string{"tty7"}
	}

	if !f.Run() {
		t.Fatal("Run should report a switch")
	}
	if len(*switched) != 1 || (*switched)[0] != 7 {
		t.Errorf("switched = %v, want [7]", *switched)
	}
}

func TestDeviceStylePathAccepted(t *testing.T) {
	f, switched := newTestFallback(t, "")
	f.terminals = func([]string) []string { return []string{"/dev/tty9"} }

	f.Run()
	if len(*switched) != 1 || (*switched)[0] != 9 {
		t.Errorf("switched = %v, want [9]", *switched)
	}
}

func TestNonConsoleTerminalIgnored(t *testing.T) {
	f, switched := newTestFallback(t, "")
	f.terminals = func([]string) []string { return []string{"pts/0", "ttyS1"} }

	if f.Run() {
		t.Error("non-VT terminals must not trigger a switch")
	}
	if len(*switched) != 0 {
		t.Errorf("switched = %v, want none", *switched)
	}
}

func TestMarkerWinsOverProcessScan(t *testing.T) {
	f, switched := newTestFallback(t, writeMarker(t, "3"))
	f.terminals = func([]string) []string { return []string{"tty7"} }

	f.Run()
	if len(*switched) != 1 || (*switched)[0] != 3 {
		t.Errorf("switched = %v, want marker VT [3]", *switched)
	}
}

func TestNothingFoundIsSilentNoOp(t *testing.T) {
	f, switched := newTestFallback(t, filepath.Join(t.TempDir(), "absent"))

	if f.Run() {
		t.Error("no marker and no server must be a no-op")
	}
	if len(*switched) != 0 {
		t.Errorf("switched = %v, want none", *switched)
	}
}
