package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth = 80
	graphHeight  = 4
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title line with sampling status.
func (m Model) renderHeader() string {
	st := m.state

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("hostmon")

	host := st.Host.Hostname
	if host == "" {
		host = "localhost"
	}

	stats := LabelStyle.Render(fmt.Sprintf(" | %s | %s | %d fps", host, st.Source, st.FPS))

	status := ""
	if st.Paused {
		status = " " + PausedStyle.Render("PAUSED")
	}
	if m.lastErr != nil {
		status += " " + ErrorStyle.Render("poll failed")
	}

	return HeaderStyle.Render(title + stats + status)
}

// renderTabBar renders the tab titles with the active one highlighted.
func (m Model) renderTabBar() string {
	parts := make([]string, 0, len(Tabs))
	for i, t := range Tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if t == m.tab {
			parts = append(parts, ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderBody dispatches to the active tab.
func (m Model) renderBody() string {
	switch m.tab {
	case TabFan:
		return m.renderFan()
	case TabThermal:
		return m.renderThermal()
	case TabMemory:
		return m.renderMemory()
	case TabNetwork:
		return m.renderNetwork()
	case TabProcesses:
		return m.renderProcesses()
	default:
		return m.renderSystem()
	}
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// contentWidth is the usable width for sections.
func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// graphWidth is how many braille columns fit inside a section.
func (m Model) graphWidth() int {
	w := m.contentWidth() - 4
	if w < 1 {
		w = 1
	}
	return w
}
