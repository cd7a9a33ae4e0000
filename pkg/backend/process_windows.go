//go:build windows

package backend

import (
	"os/exec"
)

// setupProcessGroup is a no-op on Windows
func setupProcessGroup(cmd *exec.Cmd) {
	// Windows doesn't use process groups the same way
}

// killProcess terminates the backend on Windows
func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
