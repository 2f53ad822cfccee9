package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/hostmon/internal/history"
	"github.com/rileyhilliard/hostmon/internal/scheduler"
)

// Tab is one page of the dashboard.
type Tab int

const (
	TabSystem Tab = iota
	TabFan
	TabThermal
	TabMemory
	TabNetwork
	TabProcesses
)

// Tabs lists the pages in display order.
var Tabs = []Tab{TabSystem, TabFan, TabThermal, TabMemory, TabNetwork, TabProcesses}

// String returns the tab's title.
func (t Tab) String() string {
	switch t {
	case TabSystem:
		return "System"
	case TabFan:
		return "Fan"
	case TabThermal:
		return "Thermal"
	case TabMemory:
		return "Memory"
	case TabNetwork:
		return "Network"
	case TabProcesses:
		return "Processes"
	default:
		return "System"
	}
}

// Next cycles to the next tab.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % len(Tabs))
}

// Prev cycles to the previous tab.
func (t Tab) Prev() Tab {
	return Tab((int(t) + len(Tabs) - 1) % len(Tabs))
}

// Streams returns the graphs whose Y-scale the [ and ] keys move on this tab.
func (t Tab) Streams() []history.Stream {
	switch t {
	case TabSystem:
		return []history.Stream{history.CPU}
	case TabFan:
		return []history.Stream{history.Fan}
	case TabThermal:
		return []history.Stream{history.Thermal}
	case TabMemory:
		return []history.Stream{history.Memory, history.Swap}
	case TabNetwork:
		return []history.Stream{history.NetRX, history.NetTX}
	default:
		return nil
	}
}

// keyMap is every binding the dashboard understands. It satisfies
// help.KeyMap so the footer and the overlay stay in sync with the handlers.
type keyMap struct {
	Quit        key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	JumpTab     key.Binding
	Pause       key.Binding
	FasterFPS   key.Binding
	SlowerFPS   key.Binding
	ScaleUp     key.Binding
	ScaleDown   key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Select      key.Binding
	ClearSelect key.Binding
	Sort        key.Binding
	Reverse     key.Binding
	ClearGraphs key.Binding
	Rescan      key.Binding
	Help        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		NextTab:     key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next tab")),
		PrevTab:     key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev tab")),
		JumpTab:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "go to tab")),
		Pause:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		FasterFPS:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		SlowerFPS:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		ScaleUp:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "raise y-scale")),
		ScaleDown:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "lower y-scale")),
		Filter:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		ClearFilter: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Select:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "select")),
		ClearSelect: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear selection")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Reverse:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		ClearGraphs: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear graphs")),
		Rescan:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rescan sensors")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Pause, k.FasterFPS, k.SlowerFPS, k.Filter, k.Help, k.Quit}
}

// FullHelp is the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.JumpTab, k.Pause, k.FasterFPS, k.SlowerFPS, k.ScaleUp, k.ScaleDown, k.ClearGraphs, k.Rescan},
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Select, k.ClearSelect, k.Sort, k.Reverse},
		{k.Filter, k.ClearFilter, k.Help, k.Quit},
	}
}

// HandleKeyMsg processes keyboard input and returns the command to run.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.filtering {
		return true, m.handleFilterKey(msg)
	}

	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && msg.String() == "esc" {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.NextTab):
		m.tab = m.tab.Next()
		return true, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.tab = m.tab.Prev()
		return true, nil

	case key.Matches(msg, m.keys.JumpTab):
		m.tab = Tabs[int(msg.String()[0]-'1')]
		return true, nil

	case key.Matches(msg, m.keys.Pause):
		_, m.state = m.sess.TogglePause()
		return true, nil

	case key.Matches(msg, m.keys.FasterFPS):
		_, m.state = m.sess.SetFPS(m.state.FPS + 1)
		return true, nil

	case key.Matches(msg, m.keys.SlowerFPS):
		_, m.state = m.sess.SetFPS(m.state.FPS - 1)
		return true, nil

	case key.Matches(msg, m.keys.ScaleUp):
		m.adjustScales(1)
		return true, nil

	case key.Matches(msg, m.keys.ScaleDown):
		m.adjustScales(-1)
		return true, nil

	case key.Matches(msg, m.keys.ClearGraphs):
		m.state = m.sess.ClearHistory()
		return true, nil

	case key.Matches(msg, m.keys.Rescan):
		if !m.sess.RescanSensors() {
			m.log.Debug("source %s has no sensor cache to rescan", m.state.Source)
		}
		return true, nil

	case key.Matches(msg, m.keys.Filter):
		m.tab = TabProcesses
		m.filtering = true
		m.filter.SetValue(m.state.Filter)
		m.filter.CursorEnd()
		return true, m.filter.Focus()

	case key.Matches(msg, m.keys.ClearFilter):
		if m.state.Filter != "" {
			m.state = m.sess.SetFilter("")
			m.filter.SetValue("")
			m.clampCursor()
		}
		return true, nil
	}

	if m.tab != TabProcesses {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.processPageSize())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.processPageSize())
	case key.Matches(msg, m.keys.Select):
		if pid, ok := m.cursorPID(); ok {
			_, m.state = m.sess.ToggleSelected(pid)
		}
	case key.Matches(msg, m.keys.ClearSelect):
		m.state = m.sess.ClearSelection()
	case key.Matches(msg, m.keys.Sort):
		next := m.state.Sort.Next()
		m.state = m.sess.SetSort(next, next.DefaultDesc())
	case key.Matches(msg, m.keys.Reverse):
		m.state = m.sess.SetSort(m.state.Sort, !m.state.SortDesc)
	default:
		return false, nil
	}
	return true, nil
}

// handleFilterKey feeds keys to the filter box. Every edit is applied live;
// enter keeps the filter, esc clears it.
func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return nil
	case tea.KeyEsc:
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.state = m.sess.SetFilter("")
		m.clampCursor()
		return nil
	case tea.KeyCtrlC:
		m.quitting = true
		return tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != m.state.Filter {
		m.state = m.sess.SetFilter(m.filter.Value())
		m.clampCursor()
	}
	return cmd
}

// adjustScales moves every Y-scale shown on the current tab by one step in
// the given direction.
func (m *Model) adjustScales(dir float64) {
	for _, s := range m.tab.Streams() {
		_, m.state = m.sess.AdjustYScale(s, dir*scheduler.ScaleStep(s))
	}
}
