package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestColorConstants(t *testing.T) {
	colors := []lipgloss.Color{
		ColorNeonPink,
		ColorNeonCyan,
		ColorNeonPurple,
		ColorNeonGreen,
		ColorNeonAmber,
		ColorDeepVoid,
		ColorGlassBorder,
		ColorSuccess,
		ColorError,
		ColorWarning,
		ColorInfo,
		ColorPrimary,
		ColorSecondary,
		ColorMuted,
	}

	for _, color := range colors {
		colorStr := string(color)
		assert.NotEmpty(t, colorStr, "color should not be empty")
		assert.True(t, colorStr[0] == '#', "color should start with #: %s", colorStr)
		assert.Len(t, colorStr, 7, "color should be 7 chars (#RRGGBB): %s", colorStr)
	}
}

func TestDisableColors(t *testing.T) {
	prev := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	DisableColors()
	out := lipgloss.NewStyle().Foreground(ColorError).Render("boom")
	assert.Equal(t, "boom", out)

	lipgloss.SetColorProfile(termenv.TrueColor)
	out = lipgloss.NewStyle().Foreground(ColorError).Render("boom")
	assert.Contains(t, out, "\x1b[")
}
