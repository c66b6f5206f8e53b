package decoy

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/time/rate"
)

// Process is a spawned decoy child. It has exactly one owner, the slot that
// started it.
type Process interface {
	Pid() int
	// Terminate asks the process to exit. A process that is already gone
	// is not an error.
	Terminate() error
	// Wait blocks until the process has exited and releases it.
	Wait() error
}

// Launcher creates decoy processes.
type Launcher interface {
	Start(path, arg string) (Process, error)
}

// ExecLauncher starts real OS processes via os/exec.
type ExecLauncher struct {
	limiter *rate.Limiter
}

// NewExecLauncher returns a launcher that spawns at most spawnRate processes
// per second. Zero or negative disables pacing.
func NewExecLauncher(spawnRate float64) *ExecLauncher {
	limit := rate.Inf
	if spawnRate > 0 {
		limit = rate.Limit(spawnRate)
	}
	return &ExecLauncher{limiter: rate.NewLimiter(limit, 1)}
}

// Start runs path with a single argument.
func (l *ExecLauncher) Start(path, arg string) (Process, error) {
	if err := l.limiter.Wait(context.Background()); err != nil {
		return nil, fmt.Errorf("spawn pacing: %w", err)
	}
	cmd := exec.Command(path, arg)
	cmd.SysProcAttr = sysProcAttr()
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Terminate() error {
	return terminate(p.cmd.Process)
}

func (p *execProcess) Wait() error {
	err := p.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Exiting on our terminate signal is the expected outcome.
		return nil
	}
	return err
}
