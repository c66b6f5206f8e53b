// Package registry is the keyed collection of decoys with bulk pause/resume.
package registry

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"desim/internal/decoy"
)

// ErrNotFound is returned for ids that are not registered.
var ErrNotFound = errors.New("decoy not found")

// Registry owns every decoy entry. All methods must be called from the single
// goroutine that dispatches UI events; there is no internal locking.
type Registry struct {
	byID  map[decoy.ID]*decoy.Entry
	order []decoy.ID // ascending, drives bulk iteration

	paused    bool
	pausedIDs []decoy.ID

	// Where to persist the selection. If empty, snapshotting is disabled.
	SnapshotPath string
}

// Status is a read-only view of one entry.
type Status struct {
	ID        decoy.ID
	Key       string
	Name      string
	Active    bool
	Processes []decoy.ProcessStatus
}

// New creates one entry per definition.
func New(rt *decoy.Runtime, defs []decoy.Definition) (*Registry, error) {
	r := &Registry{byID: make(map[decoy.ID]*decoy.Entry, len(defs))}
	keys := make(map[string]decoy.ID, len(defs))
	for _, def := range defs {
		if _, dup := r.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate decoy id %d", def.ID)
		}
		if other, dup := keys[def.Key]; dup && def.Key != "" {
			return nil, fmt.Errorf("decoy key %q used by ids %d and %d", def.Key, other, def.ID)
		}
		e, err := decoy.NewEntry(rt, def)
		if err != nil {
			return nil, err
		}
		r.byID[def.ID] = e
		keys[def.Key] = def.ID
		r.order = append(r.order, def.ID)
	}
	sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
	return r, nil
}

func (r *Registry) entry(id decoy.ID) (*decoy.Entry, error) {
	e := r.byID[id]
	if e == nil {
		return nil, errNotFound(id)
	}
	return e, nil
}

// Start activates one decoy.
func (r *Registry) Start(id decoy.ID) error {
	e, err := r.entry(id)
	if err != nil {
		return err
	}
	if err := e.Start(); err != nil {
		return err
	}
	r.maybeSave()
	return nil
}

// Stop deactivates one decoy.
func (r *Registry) Stop(id decoy.ID) error {
	e, err := r.entry(id)
	if err != nil {
		return err
	}
	if err := e.Stop(); err != nil {
		return err
	}
	r.maybeSave()
	return nil
}

// IsActive reports the cached active flag of one decoy.
func (r *Registry) IsActive(id decoy.ID) (bool, error) {
	e, err := r.entry(id)
	if err != nil {
		return false, err
	}
	return e.IsActive(), nil
}

// Name returns the display name of one decoy.
func (r *Registry) Name(id decoy.ID) (string, error) {
	e, err := r.entry(id)
	if err != nil {
		return "", err
	}
	return e.Name(), nil
}

// IsPaused reports whether a pause is in effect.
func (r *Registry) IsPaused() bool {
	return r.paused
}

// PausedIDs returns the ids waiting to be resumed.
func (r *Registry) PausedIDs() []decoy.ID {
	return append([]decoy.ID(nil), r.pausedIDs...)
}

// Pause stops every active decoy and remembers which ones they were. The
// registry counts as paused as soon as the snapshot is taken, so a failure
// midway still lets Resume restart the whole snapshot.
func (r *Registry) Pause() error {
	if r.paused {
		return nil
	}
	r.pausedIDs = r.activeIDs()
	r.paused = true
	for _, id := range r.pausedIDs {
		if err := r.byID[id].Stop(); err != nil {
			r.maybeSave()
			return fmt.Errorf("pause %s: %w", r.byID[id].Name(), err)
		}
	}
	r.maybeSave()
	return nil
}

// Resume restarts the decoys stopped by Pause in the same order. Each id
// leaves the snapshot once started; on failure the rest stay pending and the
// registry stays paused.
func (r *Registry) Resume() error {
	if !r.paused {
		return nil
	}
	for len(r.pausedIDs) > 0 {
		id := r.pausedIDs[0]
		e := r.byID[id]
		if e != nil {
			if err := e.Start(); err != nil {
				r.maybeSave()
				return fmt.Errorf("resume %s: %w", e.Name(), err)
			}
		}
		r.pausedIDs = r.pausedIDs[1:]
	}
	r.pausedIDs = nil
	r.paused = false
	r.maybeSave()
	return nil
}

// Destroy force-stops every slot and empties the registry. Inactive entries
// are included: a Start that failed partway leaves running slots behind.
// Errors are ignored; the process is on its way out. The selection snapshot
// is left as it was so the next launch can restore it.
func (r *Registry) Destroy() {
	for _, id := range r.order {
		r.byID[id].ForceStop()
	}
	r.byID = make(map[decoy.ID]*decoy.Entry)
	r.order = nil
	r.pausedIDs = nil
	r.paused = false
}

// IDs returns every registered id in ascending order.
func (r *Registry) IDs() []decoy.ID {
	return append([]decoy.ID(nil), r.order...)
}

// List returns a status row per entry, sorted by id.
func (r *Registry) List() []Status {
	out := make([]Status, 0, len(r.order))
	for _, id := range r.order {
		e := r.byID[id]
		out = append(out, Status{
			ID:        id,
			Key:       e.Key(),
			Name:      e.Name(),
			Active:    e.IsActive(),
			Processes: e.Processes(),
		})
	}
	return out
}

// Lookup resolves a persisted key to its id.
func (r *Registry) Lookup(key string) (decoy.ID, bool) {
	for _, id := range r.order {
		if r.byID[id].Key() == key {
			return id, true
		}
	}
	return 0, false
}

func (r *Registry) activeIDs() []decoy.ID {
	var ids []decoy.ID
	for _, id := range r.order {
		if r.byID[id].IsActive() {
			ids = append(ids, id)
		}
	}
	return ids
}

// maybeSave performs a best-effort snapshot write if a path is configured.
func (r *Registry) maybeSave() {
	if r.SnapshotPath == "" {
		return
	}
	if err := r.saveSnapshot(r.SnapshotPath); err != nil {
		log.Printf("registry snapshot failed: %v", err)
	}
}

func errNotFound(id decoy.ID) error {
	return fmt.Errorf("decoy %d: %w", id, ErrNotFound)
}
