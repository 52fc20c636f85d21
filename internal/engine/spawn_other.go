//go:build !unix

package engine

import (
	"errors"
	"os"
	"os/exec"
)

// Process-group signal semantics are POSIX-specific; weft's Non-goals
// explicitly exclude Windows-native console support, so this build simply
// reports the operation as unsupported rather than emulating job objects.
var errNoProcessGroups = errors.New("process groups are not supported on this platform")

func setProcessGroup(_ *exec.Cmd) {}

func killProcessGroup(_ int, _ Signal) error {
	return errNoProcessGroups
}

func processGroupAlive(_ int) bool {
	return false
}

func wasSignaled(_ *os.ProcessState) bool {
	return false
}
