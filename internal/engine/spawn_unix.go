//go:build unix

package engine

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup places cmd's eventual child in a fresh process group so
// that signaling the group reaches the whole subtree a step's command may
// fork, not just the shell leader. os/exec pins SysProcAttr's type to the
// stdlib syscall package regardless of what signals the group afterward.
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// killProcessGroup signals every process in pgid's group. pgid is the
// leader's pid; the kernel addresses the group when the pid is negated.
// Uses x/sys/unix rather than the frozen stdlib syscall package for the
// actual signal delivery.
func killProcessGroup(pgid int, sig Signal) error {
	return unix.Kill(-pgid, unix.Signal(sig))
}

// processGroupAlive reports whether any process in pgid's group can still
// be signaled, using signal 0 which delivers no signal but still validates
// the target exists.
func processGroupAlive(pgid int) bool {
	return unix.Kill(-pgid, 0) == nil
}

// wasSignaled reports whether state shows the process was terminated by a
// signal (as opposed to exiting with a non-zero status), used to map a
// killed step's process.Wait error onto StepKilled rather than StepFailed.
func wasSignaled(state *os.ProcessState) bool {
	ws, ok := state.Sys().(syscall.WaitStatus)
	return ok && ws.Signaled()
}
