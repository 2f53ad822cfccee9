package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestRenderHeader(t *testing.T) {
	prev := lipgloss.ColorProfile()
	DisableColors()
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	tests := []struct {
		name     string
		info     HeaderInfo
		contains []string
		lines    int
	}{
		{
			name:     "title only",
			info:     HeaderInfo{},
			contains: []string{"hostmon\n"},
			lines:    2,
		},
		{
			name:     "all fields",
			info:     HeaderInfo{Version: "v1.2.0", Tagline: "local system monitor", Detail: "box1 via procfs"},
			contains: []string{"hostmon v1.2.0", "local system monitor", "box1 via procfs"},
			lines:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderHeader(tt.info)
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
			assert.Contains(t, out, strings.Repeat("━", HeaderWidth))
			assert.Equal(t, tt.lines, strings.Count(out, "\n"))
		})
	}
}
