// Package menu maps menu commands to the things they act on.
package menu

import (
	"fmt"

	"desim/internal/decoy"
	"desim/internal/toggle"
)

// Fixed commands. Decoy commands start at decoyBase.
const (
	CmdPause toggle.ID = iota + 1
	CmdResume
	CmdAutostart
	CmdAbout
	CmdExit
)

const decoyBase toggle.ID = 100

// Item is one selectable menu row.
type Item struct {
	Command  toggle.ID
	Label    string
	Category decoy.Category // empty for fixed commands
	Decoy    decoy.ID       // zero for fixed commands
}

// IsDecoy reports whether the row toggles a decoy.
func (it Item) IsDecoy() bool {
	return it.Decoy != 0
}

// Group is a category header and the decoys under it.
type Group struct {
	Category decoy.Category
	Items    []Item
}

// Table is the bidirectional decoy.ID <-> toggle.ID mapping plus the menu
// layout derived from it.
type Table struct {
	toCommand map[decoy.ID]toggle.ID
	toDecoy   map[toggle.ID]decoy.ID
	groups    []Group
}

// NewTable assigns a command to every definition. Command values are derived
// from decoy ids so they stay the same across runs.
func NewTable(defs []decoy.Definition) (*Table, error) {
	t := &Table{
		toCommand: make(map[decoy.ID]toggle.ID, len(defs)),
		toDecoy:   make(map[toggle.ID]decoy.ID, len(defs)),
	}
	byCategory := make(map[decoy.Category][]Item)
	for _, def := range defs {
		if def.ID <= 0 {
			return nil, fmt.Errorf("decoy %q: invalid id %d", def.Key, def.ID)
		}
		if _, dup := t.toCommand[def.ID]; dup {
			return nil, fmt.Errorf("decoy id %d listed twice", def.ID)
		}
		cmd := decoyBase + toggle.ID(def.ID)
		t.toCommand[def.ID] = cmd
		t.toDecoy[cmd] = def.ID
		byCategory[def.Category] = append(byCategory[def.Category], Item{
			Command:  cmd,
			Label:    def.Name,
			Category: def.Category,
			Decoy:    def.ID,
		})
	}
	for _, cat := range decoy.Categories {
		if items := byCategory[cat]; len(items) > 0 {
			t.groups = append(t.groups, Group{Category: cat, Items: items})
			delete(byCategory, cat)
		}
	}
	for cat := range byCategory {
		return nil, fmt.Errorf("unknown category %q", cat)
	}
	return t, nil
}

// Command returns the command bound to a decoy.
func (t *Table) Command(id decoy.ID) (toggle.ID, bool) {
	cmd, ok := t.toCommand[id]
	return cmd, ok
}

// Decoy returns the decoy bound to a command.
func (t *Table) Decoy(cmd toggle.ID) (decoy.ID, bool) {
	id, ok := t.toDecoy[cmd]
	return id, ok
}

// Groups returns decoy rows grouped by category in menu order.
func (t *Table) Groups() []Group {
	out := make([]Group, len(t.groups))
	for i, g := range t.groups {
		out[i] = Group{Category: g.Category, Items: append([]Item(nil), g.Items...)}
	}
	return out
}

// DecoyCommands lists every decoy command in menu order.
func (t *Table) DecoyCommands() []toggle.ID {
	var out []toggle.ID
	for _, g := range t.groups {
		for _, it := range g.Items {
			out = append(out, it.Command)
		}
	}
	return out
}

// Fixed returns the non-decoy rows. Only one of Pause/Resume is shown at a
// time.
func Fixed(paused bool) []Item {
	first := Item{Command: CmdPause, Label: "Pause"}
	if paused {
		first = Item{Command: CmdResume, Label: "Resume"}
	}
	return []Item{
		first,
		{Command: CmdAutostart, Label: "Start with system"},
		{Command: CmdAbout, Label: "About"},
		{Command: CmdExit, Label: "Exit"},
	}
}

// Bind routes every decoy command to decoys and CmdAutostart to autostart.
func (t *Table) Bind(st *toggle.Table, decoys, autostart toggle.Switch) error {
	if err := st.Route(decoys, t.DecoyCommands()...); err != nil {
		return err
	}
	return st.Route(autostart, CmdAutostart)
}
