// Package guard runs the steady-state cycle that owns a guarded console:
// wait for input, try to put the user back on their graphical session, show
// recovery instructions, pause, repeat. The loop has no terminal state; it
// ends only when its context is cancelled.
package guard

import (
	"context"
	"time"

	"github.com/kioskops/ttyguard/internal/logging"
)

var log = logging.L("guard")

const prompt = "\r\nThis console is reserved.\r\n" +
	"Direct logins are disabled on this terminal.\r\n\r\n" +
	"Press Enter to be returned to your session.\r\n"

// guidance is printed after every activation attempt, successful or not --
// even a successful switch may not have taken effect yet.
const guidance = "\r\nIf you are not returned to your graphical session automatically,\r\n" +
	"hold down Ctrl+Alt and press F1 through F12 until you find it.\r\n" +
	"If that does not work, reboot the computer as a last resort.\r\n"

// Console is the slice of the terminal handle the loop needs.
type Console interface {
	Clear() error
	ReadLine() (string, error)
	WriteString(s string) error
}

// Activator finds and activates the best graphical session. It must not
// return errors; internally it degrades to a best-effort console switch.
type Activator interface {
	ActivateBest()
}

// Loop is the guard state machine.
type Loop struct {
	console   Console
	activator Activator
	delay     time.Duration
}

func New(console Console, activator Activator, delay time.Duration) *Loop {
	return &Loop{console: console, activator: activator, delay: delay}
}

// Run cycles until ctx is cancelled. No error from the console or the
// activator ever ends the loop; each iteration is self-contained.
func (g *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// WaitForInput
		if err := g.console.Clear(); err != nil {
			log.Warn("console clear failed", "error", err)
		}
		if err := g.console.WriteString(prompt); err != nil {
			log.Warn("console write failed", "error", err)
		}
		if _, err := g.console.ReadLine(); err != nil {
			log.Warn("console read failed", "error", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// LocateAndActivate
		g.locate()

		// ShowGuidance
		if err := g.console.WriteString(guidance); err != nil {
			log.Warn("console write failed", "error", err)
		}

		// Sleep
		if err := wait(ctx, g.delay); err != nil {
			return err
		}
	}
}

// locate contains any failure, including panics, to this iteration.
func (g *Loop) locate() {
	defer func() {
		if r := recover(); r != nil {
			log.Error("session activation panicked", "panic", r)
		}
	}()
	g.activator.ActivateBest()
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
