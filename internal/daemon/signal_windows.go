//go:build windows

package daemon

import (
	"fmt"
	"os"
	"syscall"
)

// Windows has no user signals; pause and resume go through the tray UI only.
var (
	pauseSignal  os.Signal
	resumeSignal os.Signal
)

var watchedSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = proc.Release()
	return true
}

func terminateProcess(proc *os.Process) error {
	return proc.Kill()
}

func killProcess(proc *os.Process) error {
	return proc.Kill()
}

func sendControl(_ *os.Process, sig os.Signal) error {
	return fmt.Errorf("signal %v: %w", sig, ErrUnsupported)
}
