package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func useRuntimeDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DESIM_RUNTIME_DIR", dir)
	return dir
}

func stubResident(t *testing.T, fn func(int) bool) {
	t.Helper()
	prev := isResident
	isResident = fn
	t.Cleanup(func() { isResident = prev })
}

func TestRuntimeDirPrecedence(t *testing.T) {
	t.Setenv("DESIM_RUNTIME_DIR", "/run/desim-test")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := RuntimeDir(); got != "/run/desim-test" {
		t.Fatalf("expected explicit dir, got %q", got)
	}
	t.Setenv("DESIM_RUNTIME_DIR", "")
	if got := RuntimeDir(); got != "/run/user/1000" {
		t.Fatalf("expected XDG dir, got %q", got)
	}
	t.Setenv("XDG_RUNTIME_DIR", "")
	if got := RuntimeDir(); filepath.Dir(got) != filepath.Clean(os.TempDir()) {
		t.Fatalf("expected temp dir fallback, got %q", got)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	dir := useRuntimeDir(t)
	if _, err := RunningPID(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
	if err := WritePID(4242); err != nil {
		t.Fatalf("WritePID: %v", err)
	}
	if PIDPath() != filepath.Join(dir, pidFileName) {
		t.Fatalf("unexpected pid path %q", PIDPath())
	}
	pid, err := RunningPID()
	if err != nil || pid != 4242 {
		t.Fatalf("expected 4242, got %d (%v)", pid, err)
	}
	if err := RemovePID(); err != nil {
		t.Fatal(err)
	}
	if err := RemovePID(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestRunningPIDRejectsGarbage(t *testing.T) {
	useRuntimeDir(t)
	for _, body := range []string{"abc\n", "0\n", "-5\n"} {
		if err := os.WriteFile(PIDPath(), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := RunningPID(); err == nil {
			t.Fatalf("%q: expected error", body)
		}
		if IsRunning() {
			t.Fatalf("%q: garbage pid file must not count as running", body)
		}
	}
}

func TestIsRunningChecksIdentity(t *testing.T) {
	useRuntimeDir(t)
	if err := WritePID(os.Getpid()); err != nil {
		t.Fatal(err)
	}
	stubResident(t, func(int) bool { return true })
	if !IsRunning() {
		t.Fatal("expected live pid to count as running")
	}
	stubResident(t, func(int) bool { return false })
	if IsRunning() {
		t.Fatal("a reused pid must not count as running")
	}
}

func TestStopRunningWithoutResident(t *testing.T) {
	useRuntimeDir(t)
	if err := StopRunning(false); err != nil {
		t.Fatalf("expected nil without pid file, got %v", err)
	}
	if err := WritePID(os.Getpid()); err != nil {
		t.Fatal(err)
	}
	if err := StopRunning(false); err == nil {
		t.Fatal("expected refusal to stop the current process")
	}
}

func TestSignalRequiresResident(t *testing.T) {
	useRuntimeDir(t)
	err := Signal(CmdPause)
	if !errors.Is(err, ErrNotRunning) && !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected not running or unsupported, got %v", err)
	}
	if err := Signal(Command(99)); err == nil {
		t.Fatal("expected unknown command error")
	}
}

func TestStartRefusesSecondResident(t *testing.T) {
	useRuntimeDir(t)
	stubResident(t, func(int) bool { return true })
	srv, err := Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer srv.Close()

	if _, err := Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(PIDPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pid file should be gone, got %v", err)
	}
}
