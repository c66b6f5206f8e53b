package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"desim/internal/decoy"
)

// Snapshot schema versioning for forward-compatibility.
const snapshotVersion = 1

// Selection is the persisted set of decoys the user had switched on.
type Selection struct {
	Version int      `json:"version"`
	Active  []string `json:"active"`
	Paused  bool     `json:"paused,omitempty"`
	Pending []string `json:"pending,omitempty"` // keys to resume while paused
	Created int64    `json:"created_unix"`
}

// LoadSelection reads a snapshot. A missing file reports ok=false.
func LoadSelection(path string) (Selection, bool, error) {
	var s Selection
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, false, nil
		}
		return s, false, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, false, fmt.Errorf("decode selection %s: %w", path, err)
	}
	if s.Version != snapshotVersion {
		log.Printf("selection %s: version %d, expected %d", path, s.Version, snapshotVersion)
	}
	return s, true, nil
}

// Restore starts the decoys of a selection and re-enters the paused state it
// recorded. Every failure is collected; the remaining keys are still tried.
func (r *Registry) Restore(sel Selection) []error {
	path := r.SnapshotPath
	r.SnapshotPath = ""
	defer func() {
		r.SnapshotPath = path
		r.maybeSave()
	}()

	var errs []error
	for _, id := range r.resolve(sel.Active) {
		if err := r.byID[id].Start(); err != nil {
			errs = append(errs, fmt.Errorf("start %s: %w", r.byID[id].Name(), err))
		}
	}
	if sel.Paused && !r.paused {
		r.paused = true
		r.pausedIDs = r.resolve(sel.Pending)
	}
	return errs
}

func (r *Registry) resolve(keys []string) []decoy.ID {
	ids := make([]decoy.ID, 0, len(keys))
	seen := make(map[decoy.ID]struct{}, len(keys))
	for _, key := range keys {
		id, ok := r.Lookup(key)
		if !ok {
			log.Printf("selection: unknown decoy %q ignored", key)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func (r *Registry) selection() Selection {
	s := Selection{
		Version: snapshotVersion,
		Active:  []string{},
		Paused:  r.paused,
		Created: time.Now().UTC().Unix(),
	}
	for _, id := range r.activeIDs() {
		s.Active = append(s.Active, r.byID[id].Key())
	}
	for _, id := range r.pausedIDs {
		s.Pending = append(s.Pending, r.byID[id].Key())
	}
	return s
}

func (r *Registry) saveSnapshot(path string) error {
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(r.selection(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
