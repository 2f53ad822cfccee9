package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/hostmon/internal/config"
)

// Dashboard color palette - Electric Synthwave
const (
	// Background colors
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Semantic colors for metrics - neon style
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	// Accent colors - neon pink primary, purple secondary
	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	// Graph colors
	ColorGraph   = lipgloss.Color("#00FFFF") // Neon cyan
	ColorGraphTx = lipgloss.Color("#BF40FF")
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	PausedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	CursorRowStyle = lipgloss.NewStyle().
			Background(ColorBorder).
			Foreground(ColorTextPrimary)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)
)

// Selection markers for the process list
const (
	MarkSelected   = "◉"
	MarkUnselected = " "
)

// MetricColorWithThresholds returns the color for a value given warning and
// critical levels. A zero level disables that band.
func MetricColorWithThresholds(value float64, warning, critical int) lipgloss.Color {
	switch {
	case critical > 0 && value >= float64(critical):
		return ColorCritical
	case warning > 0 && value >= float64(warning):
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// ThresholdColor colors a value by a configured threshold pair.
func ThresholdColor(value float64, t config.ThresholdValues) lipgloss.Color {
	return MetricColorWithThresholds(value, t.Warning, t.Critical)
}

// MetricStyleWithThresholds returns a style with the foreground color for
// the value.
func MetricStyleWithThresholds(value float64, t config.ThresholdValues) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ThresholdColor(value, t))
}

// ProgressBar renders a bracketless bar filled to percent, colored by the
// given thresholds.
func ProgressBar(width int, percent float64, t config.ThresholdValues) string {
	if width < 1 {
		width = 1
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return lipgloss.NewStyle().Foreground(ThresholdColor(percent, t)).Render(bar)
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// Left: "╭─ " + title + " "; right: " " + value + " ╮"
	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
// Format: ╰────────────────────────────────────────────────────╯
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}

	middle := strings.Repeat("─", width-2)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╰" + middle + "╯")
}

// SectionContentLine renders a content line with left and right borders, properly padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	contentWidth := lipgloss.Width(content)

	// "│ " on the left and " │" on the right
	innerWidth := width - 4

	padding := innerWidth - contentWidth
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// Section renders a boxed section with the given body lines.
func Section(title, value string, lines []string, width int) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, SectionHeader(title, value, width))
	for _, l := range lines {
		for _, sub := range strings.Split(l, "\n") {
			out = append(out, SectionContentLine(sub, width))
		}
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}
