package session

import (
	"context"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// vtDevice matches a virtual-console device name and captures the VT number.
var vtDevice = regexp.MustCompile(`^(?:/dev/)?tty([0-9]+)$`)

// serverTerminals returns the controlling terminal device of every running
// process whose name is in names.
type serverTerminals func(names []string) []string

// Fallback is the best-effort console switch used when no backend answers
// or no session is found. Two steps, first success wins: a marker file
// recording a kiosk VT, then the controlling terminal of a running display
// server. Both missing is an accepted silent no-op.
type Fallback struct {
	markerPath string
	servers    []string
	chvtPath   string

	switchVT  func(vt int) error
	terminals serverTerminals
}

func NewFallback(markerPath string, servers []string, chvtPath string) *Fallback {
	f := &Fallback{
		markerPath: markerPath,
		servers:    servers,
		chvtPath:   chvtPath,
		terminals:  runningServerTerminals,
	}
	f.switchVT = f.chvt
	return f
}

// Run attempts the console switch. Returns whether a switch was requested;
// the guard loop does not care, but the diagnostic subcommands do.
func (f *Fallback) Run() bool {
	if vt, ok := f.markerVT(); ok {
		log.Info("fallback: switching to marker VT", "vt", vt)
		if err := f.switchVT(vt); err != nil {
			log.Error("console switch failed", "vt", vt, "error", err)
			return false
		}
		return true
	}
	if vt, ok := f.serverVT(); ok {
		log.Info("fallback: switching to display server VT", "vt", vt)
		if err := f.switchVT(vt); err != nil {
			log.Error("console switch failed", "vt", vt, "error", err)
			return false
		}
		return true
	}
	log.Debug("fallback found no VT, leaving console untouched")
	return false
}

// markerVT reads the marker file. Missing, empty, or unparseable contents
// are silently ignored.
func (f *Fallback) markerVT() (int, bool) {
	if f.markerPath == "" {
		return 0, false
	}
	data, err := os.ReadFile(f.markerPath)
	if err != nil {
		return 0, false
	}
	vt, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || vt <= 0 {
		return 0, false
	}
	return vt, true
}

// serverVT scans for a running display server and extracts the VT number
// from its controlling terminal, when that terminal is a virtual console.
func (f *Fallback) serverVT() (int, bool) {
	for _, term := range f.terminals(f.servers) {
		m := vtDevice.FindStringSubmatch(term)
		if m == nil {
			continue
		}
		vt, err := strconv.Atoi(m[1])
		if err != nil || vt <= 0 {
			continue
		}
		return vt, true
	}
	return 0, false
}

// chvt invokes the external console-switch command.
func (f *Fallback) chvt(vt int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, f.chvtPath, strconv.Itoa(vt)).Run()
}

func runningServerTerminals(names []string) []string {
	procs, err := process.Processes()
	if err != nil {
		log.Warn("process scan failed", "error", err)
		return nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var terms []string
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || !wanted[name] {
			continue
		}
		term, err := p.Terminal()
		if err != nil || term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}
