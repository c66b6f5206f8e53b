//go:build unix

package daemon

import (
	"errors"
	"os"
	"syscall"
)

var (
	pauseSignal  os.Signal = syscall.SIGUSR1
	resumeSignal os.Signal = syscall.SIGUSR2
)

// watchedSignals are delivered to the resident loop.
var watchedSignals = []os.Signal{syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP}

func processAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func terminateProcess(proc *os.Process) error {
	return proc.Signal(syscall.SIGTERM)
}

func killProcess(proc *os.Process) error {
	return proc.Signal(syscall.SIGKILL)
}

func sendControl(proc *os.Process, sig os.Signal) error {
	return proc.Signal(sig)
}
