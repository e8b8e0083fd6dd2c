//go:build !windows

package state

import (
	"os"
	"syscall"
)

// isProcessRunning sends signal 0, which the kernel delivers as a pure
// existence/permission check without actually signaling the process.
func isProcessRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
