//go:build windows

package tactile

import "os/exec"

// getProcessResourceUsage is not available on Windows.
func getProcessResourceUsage(cmd *exec.Cmd) *ResourceUsage {
	return nil
}
