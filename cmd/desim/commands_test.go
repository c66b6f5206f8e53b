package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"desim/internal/app"
	"desim/internal/autostart"
	"desim/internal/daemon"
	"desim/internal/decoy"
	"desim/internal/registry"
	"desim/internal/stub"
)

type stubController struct {
	status     app.DaemonStatus
	stopErr    error
	stopped    *bool
	signalErr  error
	signals    []daemon.Command
	autoErr    error
	autoOn     bool
	verifyErr  error
	selection  registry.Selection
	hasSaved   bool
	decoys     []registry.Status
	closed     bool
	stopForced bool
}

func (s *stubController) Status() (app.DaemonStatus, error) { return s.status, nil }

func (s *stubController) StopDaemon(force bool) error {
	s.stopForced = force
	if s.stopped != nil {
		*s.stopped = s.stopErr == nil
	}
	return s.stopErr
}

func (s *stubController) SignalDaemon(cmd daemon.Command) error {
	s.signals = append(s.signals, cmd)
	return s.signalErr
}

func (s *stubController) InitAutostart() (bool, error) { return s.autoOn, s.autoErr }
func (s *stubController) AutostartStore() string { return "user" }

func (s *stubController) EnableAutostart() error {
	s.autoOn = true
	return nil
}

func (s *stubController) DisableAutostart() error {
	s.autoOn = false
	return nil
}

func (s *stubController) Decoys() []registry.Status { return s.decoys }

func (s *stubController) SavedSelection() (registry.Selection, bool, error) {
	return s.selection, s.hasSaved, nil
}

func (s *stubController) VerifyStub(path string) error { return s.verifyErr }

func (s *stubController) Close() { s.closed = true }

func withController(t *testing.T, stub *stubController) {
	t.Helper()
	origFactory := controllerFactory
	controllerFactory = func() (controllerAPI, error) {
		return stub, nil
	}
	t.Cleanup(func() {
		controllerFactory = origFactory
	})
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	err := cmd.RunE(cmd, args)
	return buf.String(), err
}

func TestStatusRunning(t *testing.T) {
	ctrl := &stubController{
		status:    app.DaemonStatus{Running: true, PID: 4242},
		autoOn:    true,
		hasSaved:  true,
		selection: registry.Selection{Active: []string{"ida"}, Paused: true, Pending: []string{"peid"}},
	}
	withController(t, ctrl)

	out, err := runCommand(t, cmdStatus)
	if err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	want := "resident: running (pid 4242)\nautostart: on (user)\nselection: 2 decoys, paused\n"
	if out != want {
		t.Fatalf("unexpected output %q", out)
	}
	if !ctrl.closed {
		t.Fatal("controller not closed")
	}
}

func TestStatusAutostartUnavailable(t *testing.T) {
	withController(t, &stubController{autoErr: autostart.ErrPersistence})
	out, err := runCommand(t, cmdStatus)
	if err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if !strings.Contains(out, "resident: stopped") || !strings.Contains(out, "autostart: unknown") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStopNotRunning(t *testing.T) {
	stopped := false
	withController(t, &stubController{stopped: &stopped})
	out, err := runCommand(t, cmdStop)
	if err != nil {
		t.Fatal(err)
	}
	if stopped || out != "desim is not running\n" {
		t.Fatalf("unexpected stop: stopped=%v out=%q", stopped, out)
	}
}

func TestStopForce(t *testing.T) {
	ctrl := &stubController{status: app.DaemonStatus{Running: true, PID: 7}}
	withController(t, ctrl)
	stopForce = true
	t.Cleanup(func() { stopForce = false })

	out, err := runCommand(t, cmdStop)
	if err != nil {
		t.Fatal(err)
	}
	if !ctrl.stopForced || out != "stopped pid 7\n" {
		t.Fatalf("unexpected result forced=%v out=%q", ctrl.stopForced, out)
	}
}

func TestPauseResumeSignal(t *testing.T) {
	ctrl := &stubController{}
	withController(t, ctrl)

	if out, err := runCommand(t, cmdPause); err != nil || out != "pause requested\n" {
		t.Fatalf("pause: out=%q err=%v", out, err)
	}
	if out, err := runCommand(t, cmdResume); err != nil || out != "resume requested\n" {
		t.Fatalf("resume: out=%q err=%v", out, err)
	}
	if len(ctrl.signals) != 2 || ctrl.signals[0] != daemon.CmdPause || ctrl.signals[1] != daemon.CmdResume {
		t.Fatalf("unexpected signals %v", ctrl.signals)
	}

	ctrl.signalErr = daemon.ErrNotRunning
	if _, err := runCommand(t, cmdPause); !errors.Is(err, daemon.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestAutostartEnableDisable(t *testing.T) {
	ctrl := &stubController{}
	withController(t, ctrl)

	if out, err := runCommand(t, cmdAutostartEnable); err != nil || out != "autostart enabled (user)\n" {
		t.Fatalf("enable: out=%q err=%v", out, err)
	}
	if out, err := runCommand(t, cmdAutostartStatus); err != nil || out != "on\n" {
		t.Fatalf("status: out=%q err=%v", out, err)
	}
	if out, err := runCommand(t, cmdAutostartDisable); err != nil || out != "autostart disabled\n" {
		t.Fatalf("disable: out=%q err=%v", out, err)
	}
	if ctrl.autoOn {
		t.Fatal("expected disabled")
	}

	ctrl.autoErr = autostart.ErrPersistence
	if _, err := runCommand(t, cmdAutostartEnable); !errors.Is(err, autostart.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	withController(t, &stubController{})
	if out, err := runCommand(t, cmdVerify, "/tmp/VBoxTray.exe"); err != nil || out != "/tmp/VBoxTray.exe: ok\n" {
		t.Fatalf("verify: out=%q err=%v", out, err)
	}

	bad := &stub.IntegrityError{Path: "/tmp/x", Want: "AA", Got: "BB"}
	withController(t, &stubController{verifyErr: bad})
	if _, err := runCommand(t, cmdVerify, "/tmp/x"); !errors.Is(err, stub.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity, got %v", err)
	}
}

func TestListMarksSavedSelection(t *testing.T) {
	withController(t, &stubController{
		hasSaved:  true,
		selection: registry.Selection{Active: []string{"virtualbox"}},
		decoys: []registry.Status{
			{ID: decoy.GuestVirtualBox, Key: "virtualbox", Name: "VirtualBox", Processes: []decoy.ProcessStatus{{Name: "VBoxTray.exe"}, {Name: "VBoxService.exe"}}},
			{ID: decoy.DebuggerIDA, Key: "ida", Name: "IDA Pro"},
		},
	})
	out, err := runCommand(t, cmdList)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", out)
	}
	if !strings.HasPrefix(lines[1], "*") || !strings.Contains(lines[1], "VBoxTray.exe,VBoxService.exe") {
		t.Fatalf("unexpected virtualbox row %q", lines[1])
	}
	if strings.HasPrefix(lines[2], "*") || !strings.HasSuffix(strings.TrimSpace(lines[2]), "-") {
		t.Fatalf("unexpected ida row %q", lines[2])
	}
}
