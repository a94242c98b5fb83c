package privilege

import "os"

// IsRunningAsRoot returns true if the guard runs with UID 0. Opening console
// devices and switching virtual terminals both require root; the guard still
// starts without it, but activation will only ever log failures.
func IsRunningAsRoot() bool {
	return os.Getuid() == 0
}
