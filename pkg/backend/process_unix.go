//go:build !windows

package backend

import (
	"os/exec"
	"syscall"

	"github.com/cockroachdb/errors"
)

// setupProcessGroup puts the backend in its own process group so a kill
// also reaches anything it forked.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcess sends SIGKILL to the backend's process group, falling back to
// the process itself when the group cannot be resolved.
func killProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		return cmd.Process.Kill()
	}

	if err := syscall.Kill(-pgid, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return err
	}
	return nil
}
