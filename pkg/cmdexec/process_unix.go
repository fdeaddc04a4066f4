//go:build unix

package cmdexec

import (
	"errors"
	"os/exec"
	"syscall"
)

func getDefaultShell() (shell string, args []string) {
	return "sh", []string{"-c"}
}

// setProcGroup starts the command in a new process group so that every
// process it spawns can be signalled together.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killProcGroup sends SIGKILL to the command's whole process group.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	// Negative PID addresses the process group.
	err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

// signalNumber returns the signal that terminated the process, or 0.
func signalNumber(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return int(status.Signal())
	}
	return 0
}
