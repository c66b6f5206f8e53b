// Package toggle is the on/off capability shared by every menu item that
// carries a checkmark, whatever subsystem backs it.
package toggle

import (
	"errors"
	"fmt"
)

// ID is a UI-native command identifier.
type ID int

// ErrUnknownCommand is returned for ids no switch is routed to.
var ErrUnknownCommand = errors.New("unknown command")

// Switch turns one or more ids on and off.
type Switch interface {
	Enable(id ID) error
	Disable(id ID) error
	IsEnabled(id ID) bool
}

// Flip inverts the state of id and returns the state it ended in. On error
// the state is whatever the switch reports; callers redraw from IsEnabled.
func Flip(sw Switch, id ID) (bool, error) {
	if sw.IsEnabled(id) {
		if err := sw.Disable(id); err != nil {
			return sw.IsEnabled(id), err
		}
		return false, nil
	}
	if err := sw.Enable(id); err != nil {
		return sw.IsEnabled(id), err
	}
	return true, nil
}

// Table routes command ids to the switch that owns them. It is built once
// at startup.
type Table struct {
	routes map[ID]Switch
}

// NewTable returns an empty routing table.
func NewTable() *Table {
	return &Table{routes: make(map[ID]Switch)}
}

// Route binds ids to sw. Binding an id twice is a programming error.
func (t *Table) Route(sw Switch, ids ...ID) error {
	for _, id := range ids {
		if _, dup := t.routes[id]; dup {
			return fmt.Errorf("command %d already routed", id)
		}
		t.routes[id] = sw
	}
	return nil
}

// Lookup returns the switch for id.
func (t *Table) Lookup(id ID) (Switch, bool) {
	sw, ok := t.routes[id]
	return sw, ok
}

// Flip dispatches to the routed switch.
func (t *Table) Flip(id ID) (bool, error) {
	sw, ok := t.routes[id]
	if !ok {
		return false, fmt.Errorf("command %d: %w", id, ErrUnknownCommand)
	}
	return Flip(sw, id)
}

// IsEnabled reports the checkmark state of id; unrouted ids are off.
func (t *Table) IsEnabled(id ID) bool {
	sw, ok := t.routes[id]
	return ok && sw.IsEnabled(id)
}
