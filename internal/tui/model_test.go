package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"desim/internal/app"
	"desim/internal/decoy"
	"desim/internal/menu"
	"desim/internal/registry"
	"desim/internal/toggle"
)

type fakeController struct {
	on        map[toggle.ID]bool
	paused    bool
	toggleErr error
	pauseErr  error
	toggled   []toggle.ID
	reports   []string
}

func newFakeController() *fakeController {
	return &fakeController{on: map[toggle.ID]bool{}}
}

func (f *fakeController) Items() []app.Item {
	first := menu.Item{Command: menu.CmdPause, Label: "Pause"}
	if f.paused {
		first = menu.Item{Command: menu.CmdResume, Label: "Resume"}
	}
	return []app.Item{
		{Item: first},
		{Item: menu.Item{Label: string(decoy.CategoryGuest)}, Header: true},
		{Item: menu.Item{Command: 101, Label: "VirtualBox", Decoy: decoy.GuestVirtualBox}, Checkable: true, Checked: f.on[101]},
		{Item: menu.Item{Command: menu.CmdAutostart, Label: "Start with system"}, Checkable: true, Checked: f.on[menu.CmdAutostart]},
		{Item: menu.Item{Command: menu.CmdAbout, Label: "About"}},
		{Item: menu.Item{Command: menu.CmdExit, Label: "Exit"}},
	}
}

func (f *fakeController) Decoys() []registry.Status {
	return []registry.Status{{
		ID:        decoy.GuestVirtualBox,
		Name:      "VirtualBox",
		Active:    f.on[101],
		Processes: []decoy.ProcessStatus{{Name: "VBoxTray.exe", PID: 77}},
	}}
}

func (f *fakeController) Toggle(cmd toggle.ID) (bool, error) {
	f.toggled = append(f.toggled, cmd)
	if f.toggleErr != nil {
		return f.on[cmd], f.toggleErr
	}
	f.on[cmd] = !f.on[cmd]
	return f.on[cmd], nil
}

func (f *fakeController) Pause() error {
	if f.pauseErr != nil {
		return f.pauseErr
	}
	f.paused = true
	return nil
}

func (f *fakeController) Resume() error {
	f.paused = false
	return nil
}

func (f *fakeController) IsPaused() bool { return f.paused }

func (f *fakeController) Report(desc string, err error) {
	f.reports = append(f.reports, desc+" "+err.Error())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newSizedModel(ctrl Controller) *Model {
	m := New(ctrl)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return m
}

func TestEnterTogglesDecoyAndRedrawsCheckmark(t *testing.T) {
	ctrl := newFakeController()
	m := newSizedModel(ctrl)
	m.list.Select(2)

	m.Update(key("enter"))
	if len(ctrl.toggled) != 1 || ctrl.toggled[0] != 101 {
		t.Fatalf("expected toggle of 101, got %v", ctrl.toggled)
	}
	if !m.items[2].Checked {
		t.Fatal("checkmark not redrawn after success")
	}
	if !strings.Contains(m.View(), "[✓] VirtualBox") {
		t.Fatal("view does not show the checkmark")
	}
	if !strings.Contains(m.View(), "VBoxTray.exe") {
		t.Fatal("view does not show the decoy processes")
	}
}

func TestFailedToggleKeepsCheckmarkAndReports(t *testing.T) {
	ctrl := newFakeController()
	ctrl.toggleErr = errors.New("stub integrity check failed")
	m := newSizedModel(ctrl)
	m.list.Select(2)

	m.Update(key(" "))
	if m.items[2].Checked {
		t.Fatal("checkmark must not change on failure")
	}
	if len(ctrl.reports) != 1 || !strings.HasPrefix(ctrl.reports[0], "Unable to switch VirtualBox: ") {
		t.Fatalf("unexpected reports %v", ctrl.reports)
	}
	if m.err == nil {
		t.Fatal("expected the error to be shown")
	}
}

func TestHeaderIsInert(t *testing.T) {
	ctrl := newFakeController()
	m := newSizedModel(ctrl)
	m.list.Select(1)
	m.Update(key("enter"))
	if len(ctrl.toggled) != 0 {
		t.Fatalf("header must not toggle anything, got %v", ctrl.toggled)
	}
}

func TestPauseResumeKeys(t *testing.T) {
	ctrl := newFakeController()
	m := newSizedModel(ctrl)

	m.Update(key("p"))
	if !ctrl.paused || m.items[0].Command != menu.CmdResume {
		t.Fatal("p should pause and swap the first row to Resume")
	}
	m.list.Select(0)
	m.Update(key("enter"))
	if ctrl.paused || m.items[0].Command != menu.CmdPause {
		t.Fatal("Resume row should resume")
	}

	ctrl.pauseErr = errors.New("terminate failed")
	m.Update(controlMsg{pause: true})
	if len(ctrl.reports) != 1 || !strings.HasPrefix(ctrl.reports[0], "Unable to pause decoys: ") {
		t.Fatalf("unexpected reports %v", ctrl.reports)
	}
}

func TestAutostartKeyAndQuit(t *testing.T) {
	ctrl := newFakeController()
	m := newSizedModel(ctrl)

	m.Update(key("a"))
	if !ctrl.on[menu.CmdAutostart] {
		t.Fatal("a should toggle autostart")
	}
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Fatal("q should quit")
	}

	m.list.Select(4)
	m.Update(key("enter"))
	if !m.about || !strings.Contains(m.View(), "desim keeps decoy") {
		t.Fatal("About should show the about text")
	}
	m.list.Select(5)
	if _, cmd := m.Update(key("enter")); cmd == nil {
		t.Fatal("Exit should quit")
	}
}
