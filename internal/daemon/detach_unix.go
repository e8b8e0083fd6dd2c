//go:build !windows

package daemon

import (
	"os/exec"
	"syscall"
)

// detach starts cmd in a new session, so it survives the parent's terminal
// closing and is not sent the parent's own signals.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
