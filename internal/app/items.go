package app

import (
	"fmt"

	"desim/internal/menu"
	"desim/internal/toggle"
)

// Item is one menu row with its checkmark state. Header rows name a category
// and cannot be selected.
type Item struct {
	menu.Item
	Header    bool
	Checkable bool
	Checked   bool
}

// Items lays out the whole menu: pause or resume, the decoys by category,
// then the autostart, about and exit commands.
func (a *App) Items() []Item {
	fixed := menu.Fixed(a.IsPaused())
	out := []Item{{Item: fixed[0]}}
	for _, g := range a.menu.Groups() {
		out = append(out, Item{Item: menu.Item{Label: string(g.Category)}, Header: true})
		for _, it := range g.Items {
			out = append(out, a.checkable(it))
		}
	}
	for _, it := range fixed[1:] {
		if it.Command == menu.CmdAutostart {
			out = append(out, a.checkable(it))
			continue
		}
		out = append(out, Item{Item: it})
	}
	return out
}

func (a *App) checkable(it menu.Item) Item {
	return Item{Item: it, Checkable: true, Checked: a.switches.IsEnabled(it.Command)}
}

// Lookup returns the command bound to a decoy key.
func (a *App) Lookup(key string) (toggle.ID, error) {
	id, ok := a.reg.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("decoy %q: %w", key, toggle.ErrUnknownCommand)
	}
	cmd, _ := a.menu.Command(id)
	return cmd, nil
}

// About is the text shown by the About command.
func About() string {
	return "desim keeps decoy analysis-tool processes running so that software\n" +
		"probing for a debugging or sandbox environment believes it is in one."
}
