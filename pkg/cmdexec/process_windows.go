//go:build windows

package cmdexec

import (
	"os/exec"
)

func getDefaultShell() (shell string, args []string) {
	return "cmd", []string{"/C"}
}

// setProcGroup is a no-op on Windows; killing the parent is enough for the
// programs acerun runs.
func setProcGroup(cmd *exec.Cmd) {}

// killProcGroup kills the process.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func signalNumber(exitErr *exec.ExitError) int {
	return 0
}
