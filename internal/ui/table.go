package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableStyle provides consistent styling for tables across the CLI.
type TableStyle struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Style
}

// DefaultTableStyle returns the default table styling.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Cell: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Selected: lipgloss.NewStyle(),
		Border: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	style := DefaultTableStyle()
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(style.Border.GetForeground()).
		BorderBottom(true).
		Bold(style.Header.GetBold()).
		Foreground(style.Header.GetForeground())
	s.Cell = s.Cell.
		Foreground(style.Cell.GetForeground())
	// Reports have no cursor, so the first row must not stand out.
	s.Selected = style.Selected

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string, used both by
// the snapshot report and inside dashboard sections.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	// Create the table
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// KeyValue is one labelled line of a report.
type KeyValue struct {
	Key   string
	Value string
}

// RenderKeyValues renders aligned "key  value" lines with the keys muted.
func RenderKeyValues(rows []KeyValue) string {
	if len(rows) == 0 {
		return ""
	}

	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Key); w > width {
			width = w
		}
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	var output string
	for _, r := range rows {
		output += keyStyle.Render(padRight(r.Key, width+2)) + r.Value + "\n"
	}
	return output
}

// RenderSection renders a bold title over its body.
func RenderSection(title, body string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorNeonPink)
	return titleStyle.Render(title) + "\n" + body
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	padding := width - visibleLen
	for i := 0; i < padding; i++ {
		s += " "
	}
	return s
}
