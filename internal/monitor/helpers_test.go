package monitor

import (
	"context"
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostmon/internal/config"
	"github.com/rileyhilliard/hostmon/internal/process"
	"github.com/rileyhilliard/hostmon/internal/session"
	"github.com/rileyhilliard/hostmon/internal/source"
	sourcetesting "github.com/rileyhilliard/hostmon/internal/source/testing"
)

func init() {
	// Force TrueColor output in tests so we can verify ANSI color codes
	lipgloss.SetColorProfile(termenv.TrueColor)
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func testFrame() sourcetesting.Frame {
	return sourcetesting.Frame{
		CPU:         source.CPUTicks{Idle: 1000, Total: 2000},
		LogicalCPUs: 4,
		Memory:      source.MemoryTotals{TotalKB: 8 << 20, AvailableKB: 4 << 20},
		Swap:        source.SwapTotals{TotalKB: 1 << 20, UsedKB: 1 << 18, FreeKB: 3 << 18, TotalKnown: true},
		Disk:        source.DiskTotals{TotalBytes: 100 << 30, FreeBytes: 40 << 30, AvailBytes: 30 << 30},
		Network: map[string]source.NetInterface{
			"eth0": {Name: "eth0", RxBytes: 1 << 30, TxBytes: 1 << 20, RxPackets: 1500},
		},
		Processes: []source.ProcessCounters{
			{PID: 1, Name: "init", State: source.StateSleeping, CPUTicks: 10, RSSKB: 4096},
			{PID: 42, Name: "postgres", State: source.StateRunning, CPUTicks: 500, RSSKB: 512000},
			{PID: 77, Name: "nginx", State: source.StateSleeping, CPUTicks: 90, RSSKB: 20480},
		},
		Host: source.HostInfo{Hostname: "box", OS: "linux", KernelVersion: "6.1.0", CPUModel: "Test CPU", User: "dev"},
	}
}

// newTestModel builds a model over a fake source that has been polled once.
func newTestModel(t *testing.T, frames ...sourcetesting.Frame) Model {
	t.Helper()
	if len(frames) == 0 {
		frames = []sourcetesting.Frame{testFrame()}
	}
	return newSourceModel(t, sourcetesting.NewFakeSource(frames...))
}

// newSourceModel is newTestModel over a caller-held fake.
func newSourceModel(t *testing.T, src *sourcetesting.FakeSource) Model {
	t.Helper()
	sess := session.New(session.Options{
		Source:      src,
		SourceName:  "fake",
		HistorySize: 10,
		Sort:        process.SortByPID,
	})
	_, err := sess.Poll(context.Background())
	require.NoError(t, err)
	return NewModel(Options{Session: sess, Thresholds: config.DefaultConfig().Thresholds})
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok, "Update returns a Model")
	return mm, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
