package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

// gettyFlags registers the agetty-compatible short options so the service
// manager can launch ttyguard from an unmodified getty command line. Every
// one of them is accepted and ignored: this is a guard, not a getty.
func gettyFlags(fs *pflag.FlagSet) {
	fs.BoolP("8bits", "8", false, "assume the tty is 8-bit clean (ignored)")
	fs.StringP("init-string", "I", "", "initialization string sent to the tty (ignored)")
	fs.BoolP("local-line", "L", false, "force the line to be local (ignored)")
	fs.StringP("host", "H", "", "login host written to utmp (ignored)")
	fs.StringP("issue-file", "f", "", "issue file to display (ignored)")
	fs.BoolP("flow-control", "h", false, "enable hardware flow control (ignored)")
	fs.BoolP("noissue", "i", false, "do not display the issue file (ignored)")
	fs.StringP("login-program", "l", "", "login program to invoke (ignored)")
	fs.BoolP("extract-baud", "m", false, "extract baud rate from connect status (ignored)")
	fs.StringP("timeout", "t", "", "login timeout (ignored)")
	fs.BoolP("wait-cr", "w", false, "wait for carriage return before prompting (ignored)")
	fs.BoolP("detect-case", "U", false, "detect uppercase-only terminals (ignored)")
	fs.BoolP("skip-login", "n", false, "do not prompt for a login name (ignored)")
}

// deviceFromArgs extracts the console device from the positional arguments.
// getty invocations put the device and baud rate in either order; a purely
// numeric first argument is the baud rate.
func deviceFromArgs(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("no console device given")
	}
	if isNumeric(args[0]) {
		if len(args) < 2 {
			return "", fmt.Errorf("baud rate %q given without a device", args[0])
		}
		return args[1], nil
	}
	return args[0], nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
