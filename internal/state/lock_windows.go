//go:build windows

package state

import "os"

// isProcessRunning on Windows relies on os.FindProcess's own existence
// check, since os.Process.Signal only supports os.Kill on this platform.
func isProcessRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil || proc == nil {
		return false
	}
	return true
}
