//go:build windows

package daemon

import (
	"os/exec"
	"syscall"
)

// detach starts cmd detached from the parent's console.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: 0x00000008} // DETACHED_PROCESS
}
