// Package decoy starts and stops the fake processes behind one decoy.
package decoy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"desim/internal/stub"
)

// StubArgument is passed to every stub; stubs refuse to run without one.
const StubArgument = "arg1"

const procDir = "proc"

// Runtime is the environment shared by all entries of one registry.
type Runtime struct {
	// Dir is the home directory; stub copies live in Dir/proc.
	Dir        string
	Stub       *stub.Artifact
	Launcher   Launcher
	KeepCopies bool
}

// ProcDir is the directory the stub copies are dropped into.
func (rt *Runtime) ProcDir() string {
	return filepath.Join(rt.Dir, procDir)
}

// Path is the deterministic on-disk location for a process name.
func (rt *Runtime) Path(name string) string {
	return filepath.Join(rt.ProcDir(), name)
}

// materialize makes sure a trusted stub copy exists at path. Existing files
// are verified; a copy written from the in-memory artifact is not.
func (rt *Runtime) materialize(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return rt.Stub.Verify(path)
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create proc dir: %w", err)
		}
		if err := os.WriteFile(path, rt.Stub.Content(), 0o755); err != nil {
			return fmt.Errorf("drop stub copy: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("stat stub copy: %w", err)
	}
}

type slot struct {
	name string
	proc Process
}

// ProcessStatus describes one slot for display.
type ProcessStatus struct {
	Name string
	PID  int // 0 while the slot is empty
}

// Entry is one decoy and the processes it currently owns.
// It is not safe for concurrent use.
type Entry struct {
	rt     *Runtime
	key    string
	name   string
	slots  []slot
	active bool
}

// NewEntry validates the definition and returns an inactive entry.
func NewEntry(rt *Runtime, def Definition) (*Entry, error) {
	if rt == nil || rt.Stub == nil || rt.Launcher == nil {
		return nil, errors.New("decoy runtime is incomplete")
	}
	e := &Entry{rt: rt, key: def.Key, name: def.Name}
	seen := make(map[string]struct{}, len(def.Processes))
	for _, raw := range def.Processes {
		name, err := validateProcessName(raw)
		if err != nil {
			return nil, fmt.Errorf("decoy %s: %w", def.Name, err)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("decoy %s: duplicate process name %q", def.Name, name)
		}
		seen[name] = struct{}{}
		e.slots = append(e.slots, slot{name: name})
	}
	return e, nil
}

// Start spawns every slot that does not hold a process yet. On error the
// slots already started keep running and the entry stays inactive.
func (e *Entry) Start() error {
	for i := range e.slots {
		s := &e.slots[i]
		if s.proc != nil {
			continue
		}
		path := e.rt.Path(s.name)
		if err := e.rt.materialize(path); err != nil {
			return err
		}
		proc, err := e.rt.Launcher.Start(path, StubArgument)
		if err != nil {
			return fmt.Errorf("spawn %s: %w", s.name, err)
		}
		s.proc = proc
	}
	e.active = true
	return nil
}

// Stop terminates every running slot. Children that already exited count as
// stopped. The first failure aborts the call without restarting anything.
func (e *Entry) Stop() error {
	for i := range e.slots {
		s := &e.slots[i]
		if s.proc == nil {
			continue
		}
		if err := s.proc.Terminate(); err != nil {
			return fmt.Errorf("terminate %s (pid %d): %w", s.name, s.proc.Pid(), err)
		}
		// Reap the child in both modes; the copy is only removed once it is gone.
		waitErr := s.proc.Wait()
		s.proc = nil
		if waitErr != nil {
			return fmt.Errorf("wait for %s: %w", s.name, waitErr)
		}
		if !e.rt.KeepCopies {
			if err := os.Remove(e.rt.Path(s.name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove stub copy: %w", err)
			}
		}
	}
	e.active = false
	return nil
}

// ForceStop terminates every slot ignoring all errors. Used on teardown.
func (e *Entry) ForceStop() {
	for i := range e.slots {
		s := &e.slots[i]
		if s.proc == nil {
			continue
		}
		if s.proc.Terminate() == nil {
			_ = s.proc.Wait()
		}
		if !e.rt.KeepCopies {
			_ = os.Remove(e.rt.Path(s.name))
		}
		s.proc = nil
	}
	e.active = false
}

// IsActive reports the cached flag. It is not reconciled with the OS, so a
// child killed out-of-band still reads as active until the next Stop.
func (e *Entry) IsActive() bool {
	return e.active
}

func (e *Entry) Name() string {
	return e.name
}

func (e *Entry) Key() string {
	return e.key
}

// Processes lists the slots in definition order.
func (e *Entry) Processes() []ProcessStatus {
	out := make([]ProcessStatus, 0, len(e.slots))
	for _, s := range e.slots {
		st := ProcessStatus{Name: s.name}
		if s.proc != nil {
			st.PID = s.proc.Pid()
		}
		out = append(out, st)
	}
	return out
}
