package app

import (
	"context"

	"desim/internal/daemon"
)

// DaemonStatus represents current information about the resident process.
type DaemonStatus struct {
	Running bool
	PID     int
}

// Status returns whether a resident is running and its PID if known.
func (a *App) Status() (DaemonStatus, error) {
	if !daemon.IsRunning() {
		return DaemonStatus{Running: false}, nil
	}
	pid, err := daemon.RunningPID()
	if err != nil {
		return DaemonStatus{Running: true}, err
	}
	return DaemonStatus{Running: true, PID: pid}, nil
}

// StopDaemon attempts to stop the running resident.
func (a *App) StopDaemon(force bool) error {
	return daemon.StopRunning(force)
}

// SignalDaemon forwards pause or resume to the running resident.
func (a *App) SignalDaemon(cmd daemon.Command) error {
	return daemon.Signal(cmd)
}

// DaemonHandle holds the pid file of this process while it is the resident.
type DaemonHandle struct {
	srv *daemon.Server
}

// Close releases the pid file.
func (h *DaemonHandle) Close() error {
	if h == nil || h.srv == nil {
		return nil
	}
	return h.srv.Close()
}

// StartDaemon claims the resident role for this process.
func (a *App) StartDaemon() (*DaemonHandle, error) {
	srv, err := daemon.Start()
	if err != nil {
		return nil, err
	}
	return &DaemonHandle{srv: srv}, nil
}

// Serve runs the control loop for r until ctx is done or a termination
// signal arrives.
func (h *DaemonHandle) Serve(ctx context.Context, r daemon.Resident) error {
	return h.srv.Serve(ctx, r)
}

// Serve runs the control loop with a as the resident.
func (a *App) Serve(ctx context.Context, h *DaemonHandle) error {
	return h.Serve(ctx, a)
}
