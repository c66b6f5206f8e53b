package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
)

const pidFileName = "desim.pid"

// RuntimeDir returns the directory holding the pid file.
// Order of precedence (first wins):
//  1. DESIM_RUNTIME_DIR
//  2. XDG_RUNTIME_DIR
//  3. <tmp>/desim-<uid>
func RuntimeDir() string {
	if rd := os.Getenv("DESIM_RUNTIME_DIR"); rd != "" {
		return rd
	}
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return v
	}
	return filepath.Join(os.TempDir(), "desim-"+currentUID())
}

// EnsureRuntimeDir creates the runtime dir if it doesn't exist
func EnsureRuntimeDir() error {
	return os.MkdirAll(RuntimeDir(), 0o700)
}

// PIDPath returns the full path to the PID file
func PIDPath() string {
	return filepath.Join(RuntimeDir(), pidFileName)
}

// WritePID stores the provided pid into the pid file
func WritePID(pid int) error {
	if err := EnsureRuntimeDir(); err != nil {
		return err
	}
	return os.WriteFile(PIDPath(), []byte(fmt.Sprintf("%d\n", pid)), 0o600)
}

// RemovePID removes the pid file if it exists
func RemovePID() error {
	if err := os.Remove(PIDPath()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// RunningPID returns the pid stored in the pid file if any
func RunningPID() (int, error) {
	data, err := os.ReadFile(PIDPath())
	if err != nil {
		return 0, err
	}
	value := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid pid %d in %s", pid, PIDPath())
	}
	return pid, nil
}

// IsRunning reports whether the pid file names a live resident.
func IsRunning() bool {
	pid, err := RunningPID()
	if err != nil {
		return false
	}
	return processAlive(pid) && isResident(pid)
}

// isResident guards against pid reuse; swapped in tests.
var isResident = func(pid int) bool {
	cmd, known := commandLine(pid)
	if !known {
		return true
	}
	return strings.Contains(strings.ToLower(cmd), "desim")
}

func currentUID() string {
	u, err := user.Current()
	if err == nil && u != nil && u.Uid != "" {
		return u.Uid
	}
	return "0"
}
