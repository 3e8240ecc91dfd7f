//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate starts cmd in its own process group so that KillProcessGroup
// reaches the browser processes the renderer spawns.
func Isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; exec.Cmd.Wait still reaps the leader
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
