//go:build unix

package decoy

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"desim/internal/stub"
)

func alive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

func TestEntryRealProcessesSurviveOutOfBandKill(t *testing.T) {
	rt := &Runtime{
		Dir:        t.TempDir(),
		Stub:       stub.Embedded(),
		Launcher:   NewExecLauncher(0),
		KeepCopies: false,
	}
	e := mustEntry(t, rt, "VBoxTray.exe", "VBoxService.exe")
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(e.ForceStop)

	procs := e.Processes()
	for _, p := range procs {
		if p.PID == 0 || !alive(p.PID) {
			t.Fatalf("expected %s to be running, got %+v", p.Name, p)
		}
	}

	// Kill the first child behind the entry's back.
	if err := syscall.Kill(procs[0].PID, syscall.SIGKILL); err != nil {
		t.Fatalf("out-of-band kill: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if !e.IsActive() {
		t.Fatal("cached flag must not change without an explicit stop")
	}

	if err := e.Stop(); err != nil {
		t.Fatalf("stop after out-of-band kill: %v", err)
	}
	for _, p := range procs {
		if err := syscall.Kill(p.PID, 0); !errors.Is(err, syscall.ESRCH) {
			t.Fatalf("pid %d should be gone, kill(0) = %v", p.PID, err)
		}
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("repeated stop: %v", err)
	}
}
