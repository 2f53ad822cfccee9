package monitor

import (
	"github.com/charmbracelet/lipgloss"
)

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

// renderHelpOverlay renders a centered box listing every key binding.
func (m Model) renderHelpOverlay() string {
	h := m.help
	h.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		helpTitleStyle.Render("Keyboard Shortcuts"),
		h.FullHelpView(m.keys.FullHelp()),
		"",
		LabelStyle.Render("Press ? to close"),
	)
	box := helpBoxStyle.Render(content)

	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg),
	)
}
