package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"
)

var (
	ErrAlreadyRunning = errors.New("desim is already running")
	ErrNotRunning     = errors.New("desim is not running")
	ErrUnsupported    = errors.New("not supported on this platform")
)

// Command is a control request for a running resident.
type Command int

const (
	CmdPause Command = iota + 1
	CmdResume
)

func (c Command) String() string {
	switch c {
	case CmdPause:
		return "pause"
	case CmdResume:
		return "resume"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Resident is what the control loop drives.
type Resident interface {
	Pause() error
	Resume() error
	Report(desc string, err error)
}

// Server owns the pid file and the signal subscription of a resident.
type Server struct {
	sigs chan os.Signal
}

// Start claims the pid file. It fails if another resident is alive.
func Start() (*Server, error) {
	if IsRunning() {
		pid, _ := RunningPID()
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	if err := WritePID(os.Getpid()); err != nil {
		return nil, fmt.Errorf("write pid file: %w", err)
	}
	s := &Server{sigs: make(chan os.Signal, 4)}
	signal.Notify(s.sigs, watchedSignals...)
	return s, nil
}

// Serve handles control signals on the calling goroutine until a termination
// signal arrives or ctx is done. Every call into r happens here.
func (s *Server) Serve(ctx context.Context, r Resident) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-s.sigs:
			switch {
			case pauseSignal != nil && sig == pauseSignal:
				if err := r.Pause(); err != nil {
					r.Report("Unable to pause decoys:", err)
				}
			case resumeSignal != nil && sig == resumeSignal:
				if err := r.Resume(); err != nil {
					r.Report("Unable to resume decoys:", err)
				}
			default:
				return nil
			}
		}
	}
}

// Close releases the signal subscription and removes the pid file.
func (s *Server) Close() error {
	if s.sigs != nil {
		signal.Stop(s.sigs)
	}
	return RemovePID()
}

// Signal forwards a control command to the running resident.
func Signal(cmd Command) error {
	var sig os.Signal
	switch cmd {
	case CmdPause:
		sig = pauseSignal
	case CmdResume:
		sig = resumeSignal
	default:
		return fmt.Errorf("unknown control command %v", cmd)
	}
	if sig == nil {
		return fmt.Errorf("%v: %w", cmd, ErrUnsupported)
	}
	if !IsRunning() {
		return ErrNotRunning
	}
	pid, err := RunningPID()
	if err != nil {
		return fmt.Errorf("unable to read resident PID: %w", err)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return sendControl(proc, sig)
}

// StopRunning asks the running resident to exit, escalating to a kill when
// force is set.
func StopRunning(force bool) error {
	pid, err := RunningPID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("unable to read resident PID: %w", err)
	}
	if pid == os.Getpid() {
		return errors.New("refusing to stop current process")
	}
	if !IsRunning() {
		_ = RemovePID()
		return nil
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := ignoreDone(terminateProcess(proc)); err != nil {
		return err
	}
	if waitForShutdown(3 * time.Second) {
		return nil
	}
	if !force {
		return fmt.Errorf("resident process %d did not exit after SIGTERM", pid)
	}
	if err := ignoreDone(killProcess(proc)); err != nil {
		return err
	}
	if waitForShutdown(2 * time.Second) {
		return nil
	}
	return fmt.Errorf("resident process %d did not exit after SIGKILL", pid)
}

func ignoreDone(err error) error {
	if errors.Is(err, os.ErrProcessDone) {
		_ = RemovePID()
		return nil
	}
	return err
}

func waitForShutdown(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if !IsRunning() {
			_ = RemovePID()
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}
