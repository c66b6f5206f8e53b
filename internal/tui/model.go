package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"desim/internal/app"
	"desim/internal/daemon"
	"desim/internal/menu"
	"desim/internal/registry"
	"desim/internal/toggle"
)

// Controller defines the subset of app.App behaviour the TUI needs.
type Controller interface {
	Items() []app.Item
	Decoys() []registry.Status
	Toggle(cmd toggle.ID) (bool, error)
	Pause() error
	Resume() error
	IsPaused() bool
	Report(desc string, err error)
}

// Control delivers resident control signals; see app.DaemonHandle.
type Control interface {
	Serve(ctx context.Context, r daemon.Resident) error
}

// Model represents the Bubble Tea state. Every controller call happens in
// Update, on the program goroutine.
type Model struct {
	controller Controller

	list  list.Model
	items []app.Item

	statusMsg string
	err       error
	about     bool

	width  int
	height int
}

// New constructs a TUI model with default styles.
func New(ctrl Controller) *Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	lst := list.New([]list.Item{}, delegate, 0, 0)
	lst.Title = "desim"
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.DisableQuitKeybindings()

	m := &Model{controller: ctrl, list: lst}
	m.refresh()
	return m
}

// Run spins up the Bubble Tea program. When control is non-nil its signals
// are forwarded into the program and a termination signal quits it.
func Run(ctrl Controller, control Control) error {
	m := New(ctrl)
	prog := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if control != nil {
		go func() {
			if err := control.Serve(ctx, forwarder{prog}); err != nil {
				prog.Send(errMsg{err})
			}
			if ctx.Err() == nil {
				prog.Quit()
			}
		}()
	}

	_, err := prog.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.height > 6 {
			m.list.SetSize(msg.Width, msg.Height-6)
		}

	case controlMsg:
		m.setPaused(msg.pause)
		return m, nil

	case errMsg:
		m.err = msg.err

	case tea.KeyMsg:
		m.about = false
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "p":
			m.setPaused(!m.controller.IsPaused())
			return m, nil
		case "a":
			m.toggle(menu.CmdAutostart, "Start with system")
			return m, nil
		case "enter", " ", "space":
			return m, m.activate()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) activate() tea.Cmd {
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}
	it := m.items[idx]
	switch {
	case it.Header:
		return nil
	case it.Command == menu.CmdPause:
		m.setPaused(true)
	case it.Command == menu.CmdResume:
		m.setPaused(false)
	case it.Command == menu.CmdAbout:
		m.about = true
	case it.Command == menu.CmdExit:
		return tea.Quit
	default:
		m.toggle(it.Command, it.Label)
	}
	return nil
}

func (m *Model) toggle(cmd toggle.ID, label string) {
	on, err := m.controller.Toggle(cmd)
	if err != nil {
		m.fail(fmt.Sprintf("Unable to switch %s:", label), err)
	} else {
		m.err = nil
		state := "off"
		if on {
			state = "on"
		}
		m.statusMsg = fmt.Sprintf("%s is %s.", label, state)
	}
	m.refresh()
}

func (m *Model) setPaused(pause bool) {
	var err error
	if pause {
		err = m.controller.Pause()
	} else {
		err = m.controller.Resume()
	}
	switch {
	case err != nil && pause:
		m.fail("Unable to pause decoys:", err)
	case err != nil:
		m.fail("Unable to resume decoys:", err)
	case pause:
		m.err = nil
		m.statusMsg = "Decoys paused."
	default:
		m.err = nil
		m.statusMsg = "Decoys resumed."
	}
	m.refresh()
}

func (m *Model) fail(desc string, err error) {
	m.err = fmt.Errorf("%s %w", desc, err)
	m.controller.Report(desc, err)
}

// refresh rebuilds the rows from the controller so checkmarks always show
// the state that operations actually reached.
func (m *Model) refresh() {
	m.items = m.controller.Items()
	rows := make([]list.Item, len(m.items))
	for i, it := range m.items {
		rows[i] = menuItem{it}
	}
	m.list.SetItems(rows)
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	statusStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	status := m.statusMsg
	if m.controller.IsPaused() {
		statusStyle = statusStyle.Foreground(lipgloss.Color("214"))
		if status == "" {
			status = "Decoys paused."
		}
	}
	if status == "" {
		status = "Decoys running."
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteByte('\n')

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	b.WriteString(m.list.View())
	b.WriteByte('\n')

	detailStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginBottom(1)
	if m.about {
		b.WriteString(detailStyle.Render(app.About()))
		b.WriteByte('\n')
	} else if detail := m.currentDetail(); detail != "" {
		b.WriteString(detailStyle.Render(detail))
		b.WriteByte('\n')
	}

	help := "Commands: q quit • enter/space toggle • p pause/resume • a start with system"
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) currentDetail() string {
	idx := m.list.Index()
	if idx < 0 || idx >= len(m.items) || !m.items[idx].IsDecoy() {
		return ""
	}
	id := m.items[idx].Decoy
	for _, st := range m.controller.Decoys() {
		if st.ID != id {
			continue
		}
		if len(st.Processes) == 0 {
			return fmt.Sprintf("%s: no processes", st.Name)
		}
		lines := make([]string, 0, len(st.Processes))
		for _, p := range st.Processes {
			pid := "-"
			if p.PID > 0 {
				pid = fmt.Sprintf("%d", p.PID)
			}
			lines = append(lines, fmt.Sprintf("%-20s pid=%s", p.Name, pid))
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

// menuItem adapts app.Item to the bubbles list item interface.
type menuItem struct {
	app.Item
}

func (i menuItem) Title() string {
	switch {
	case i.Header:
		return strings.ToUpper(i.Label)
	case !i.Checkable:
		return i.Label
	case i.Checked:
		return "  [✓] " + i.Label
	default:
		return "  [ ] " + i.Label
	}
}

func (i menuItem) Description() string {
	return ""
}

func (i menuItem) FilterValue() string {
	return i.Label
}

type controlMsg struct{ pause bool }

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// forwarder turns resident control signals into program messages.
type forwarder struct {
	prog *tea.Program
}

func (f forwarder) Pause() error {
	f.prog.Send(controlMsg{pause: true})
	return nil
}

func (f forwarder) Resume() error {
	f.prog.Send(controlMsg{pause: false})
	return nil
}

func (f forwarder) Report(desc string, err error) {
	f.prog.Send(errMsg{fmt.Errorf("%s %w", desc, err)})
}
