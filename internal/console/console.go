package console

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xo/terminfo"
	"golang.org/x/sys/unix"

	"github.com/kioskops/ttyguard/internal/logging"
)

var log = logging.L("console")

// ansiClear is used when the terminfo database has no entry for the
// device's terminal type (or cannot be read at all).
const ansiClear = "\x1b[H\x1b[2J"

// Handle owns the guarded console device. Everything the guard shows to the
// user is written here, never to the process stdout -- the guard owns this
// tty exclusively.
type Handle struct {
	f     *os.File
	r     *bufio.Reader
	clear []byte
	dev   string
}

// Open opens the console device for append and read. A bare name like
// "tty2" is resolved under /dev. The clear-screen sequence is resolved once
// at open time from the terminfo entry for termType; virtual consoles use
// the fixed type "linux".
func Open(device, termType string) (*Handle, error) {
	path := device
	if !strings.HasPrefix(path, "/") {
		path = filepath.Join("/dev", device)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("open console %s: %w", path, err)
	}
	return New(f, termType), nil
}

// New wraps an already opened device. Split from Open for tests.
func New(f *os.File, termType string) *Handle {
	return &Handle{
		f:     f,
		r:     bufio.NewReader(f),
		clear: clearSequence(termType),
		dev:   f.Name(),
	}
}

// Name returns the device path.
func (h *Handle) Name() string {
	return h.dev
}

// Clear writes the clear-screen sequence to the device.
func (h *Handle) Clear() error {
	_, err := h.f.Write(h.clear)
	return err
}

// ReadLine blocks until one line has been read from the device. The intent
// is "wait for any keypress"; waiting for a full line is an intentional
// simplification -- the console is in canonical mode anyway, and an extra
// Enter costs the user nothing.
func (h *Handle) ReadLine() (string, error) {
	line, err := h.r.ReadString('\n')
	if err != nil {
		return strings.TrimRight(line, "\r\n"), err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// WriteString writes s to the device.
func (h *Handle) WriteString(s string) error {
	_, err := h.f.WriteString(s)
	return err
}

func (h *Handle) Close() error {
	return h.f.Close()
}

func clearSequence(termType string) []byte {
	if termType == "" {
		termType = "linux"
	}
	ti, err := terminfo.Load(termType)
	if err != nil {
		log.Warn("terminfo lookup failed, using ANSI clear", "term", termType, "error", err)
		return []byte(ansiClear)
	}
	buf := new(bytes.Buffer)
	ti.Fprintf(buf, terminfo.ClearScreen)
	if buf.Len() == 0 {
		return []byte(ansiClear)
	}
	return buf.Bytes()
}
