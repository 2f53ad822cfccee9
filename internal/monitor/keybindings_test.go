package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostmon/internal/history"
	"github.com/rileyhilliard/hostmon/internal/process"
	sourcetesting "github.com/rileyhilliard/hostmon/internal/source/testing"
)

func TestTabCycle(t *testing.T) {
	assert.Equal(t, TabFan, TabSystem.Next())
	assert.Equal(t, TabSystem, TabProcesses.Next())
	assert.Equal(t, TabProcesses, TabSystem.Prev())
	assert.Equal(t, TabMemory, TabNetwork.Prev())
}

func TestTabString(t *testing.T) {
	want := []string{"System", "Fan", "Thermal", "Memory", "Network", "Processes"}
	require.Len(t, Tabs, len(want))
	for i, tab := range Tabs {
		assert.Equal(t, want[i], tab.String())
	}
}

func TestTabStreams(t *testing.T) {
	tests := []struct {
		tab  Tab
		want []history.Stream
	}{
		{TabSystem, []history.Stream{history.CPU}},
		{TabFan, []history.Stream{history.Fan}},
		{TabThermal, []history.Stream{history.Thermal}},
		{TabMemory, []history.Stream{history.Memory, history.Swap}},
		{TabNetwork, []history.Stream{history.NetRX, history.NetTX}},
		{TabProcesses, nil},
	}

	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tab.Streams())
		})
	}
}

func TestKeyNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want Tab
	}{
		{"tab moves forward", []string{"tab"}, TabFan},
		{"right arrow alias", []string{"l", "l"}, TabThermal},
		{"shift+tab wraps backwards", []string{"shift+tab"}, TabProcesses},
		{"number jumps", []string{"4"}, TabMemory},
		{"last number", []string{"6"}, TabProcesses},
		{"slash opens processes", []string{"/"}, TabProcesses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newTestModel(t), tt.keys...)
			assert.Equal(t, tt.want, m.tab)
		})
	}
}

func TestPauseKey(t *testing.T) {
	m := press(t, newTestModel(t), "p")
	assert.True(t, m.State().Paused)

	m = press(t, m, "p")
	assert.False(t, m.State().Paused)
}

func TestFPSKeys(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, 10, m.State().FPS)

	m = press(t, m, "+", "=")
	assert.Equal(t, 12, m.State().FPS)

	m = press(t, m, "-")
	assert.Equal(t, 11, m.State().FPS)
	assert.Equal(t, 11, m.sess.Scheduler().FPS(), "shared with the session")
}

func TestScaleKeysFollowTab(t *testing.T) {
	m := press(t, newTestModel(t), "]")
	assert.Equal(t, 110.0, m.State().YScales[history.CPU])

	m = press(t, m, "4", "[")
	assert.Equal(t, 90.0, m.State().YScales[history.Memory])
	assert.Equal(t, 90.0, m.State().YScales[history.Swap])
	assert.Equal(t, 110.0, m.State().YScales[history.CPU], "other tabs untouched")

	m = press(t, m, "]", "]")
	assert.Equal(t, 100.0, m.State().YScales[history.Memory], "clamped at the range max")

	m = press(t, m, "5", "]")
	assert.Equal(t, float64(11<<20), m.State().YScales[history.NetRX])
	assert.Equal(t, float64(11<<20), m.State().YScales[history.NetTX])
}

func TestFilterEditing(t *testing.T) {
	m := press(t, newTestModel(t), "/")
	require.True(t, m.filtering)

	m = press(t, m, "p", "o", "s", "t")
	assert.Equal(t, "post", m.State().Filter, "applied while typing")
	require.Len(t, m.State().Processes, 1)
	assert.Equal(t, 42, m.State().Processes[0].PID)

	m = press(t, m, "enter")
	assert.False(t, m.filtering)
	assert.Equal(t, "post", m.State().Filter, "enter keeps the filter")

	m = press(t, m, "esc")
	assert.Empty(t, m.State().Filter)
	assert.Len(t, m.State().Processes, 3)
}

func TestFilterEscClears(t *testing.T) {
	m := press(t, newTestModel(t), "/", "n", "g")
	require.Equal(t, "ng", m.State().Filter)

	m = press(t, m, "esc")
	assert.False(t, m.filtering)
	assert.Empty(t, m.State().Filter)
}

func TestFilterSwallowsCommandKeys(t *testing.T) {
	m := press(t, newTestModel(t), "/", "q", "p")
	assert.True(t, m.filtering)
	assert.Equal(t, "qp", m.State().Filter)
	assert.False(t, m.State().Paused)
	assert.NotEmpty(t, m.View())

	m, cmd := update(t, m, keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestCursorAndSelection(t *testing.T) {
	m := press(t, newTestModel(t), "6")
	require.Equal(t, 0, m.cursor)

	m = press(t, m, "j")
	assert.Equal(t, 1, m.cursor)

	m = press(t, m, " ")
	assert.Equal(t, []int{42}, m.State().Selected)
	assert.True(t, m.State().Processes[1].Selected)

	m = press(t, m, "down", "down", "down")
	assert.Equal(t, 2, m.cursor, "clamped to the last row")

	m = press(t, m, "pgup")
	assert.Equal(t, 0, m.cursor)

	m = press(t, m, "pgdown")
	assert.Equal(t, 2, m.cursor)

	m = press(t, m, "k", "enter")
	assert.Empty(t, m.State().Selected, "second toggle deselects")
}

func TestClearSelectionKey(t *testing.T) {
	m := press(t, newTestModel(t), "6", " ", "j", " ")
	require.Equal(t, []int{1, 42}, m.State().Selected)

	m = press(t, m, "x")
	assert.Empty(t, m.State().Selected)
	assert.Equal(t, 1, m.cursor, "cursor stays put")
}

func TestClearGraphsKey(t *testing.T) {
	m := newTestModel(t)
	require.NotEmpty(t, m.State().History[history.Memory])

	m = press(t, m, "c")
	for _, s := range history.Streams {
		assert.Empty(t, m.State().History[s], "stream %s", s)
	}
}

func TestRescanKey(t *testing.T) {
	src := sourcetesting.NewFakeSource(testFrame())
	m := newSourceModel(t, src)

	handled, cmd := m.HandleKeyMsg(keyMsg("R"))
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, src.Calls("Rescan"))

	handled, _ = m.HandleKeyMsg(keyMsg("r"))
	assert.False(t, handled, "lowercase r is the process sort key")
	assert.Equal(t, 1, src.Calls("Rescan"))
}

func TestSortKeys(t *testing.T) {
	m := press(t, newTestModel(t), "6")
	require.Equal(t, process.SortByPID, m.State().Sort)

	m = press(t, m, "s")
	assert.Equal(t, process.SortByName, m.State().Sort)
	assert.False(t, m.State().SortDesc)
	assert.Equal(t, "init", m.State().Processes[0].Name)

	m = press(t, m, "r")
	assert.True(t, m.State().SortDesc)
	assert.Equal(t, "postgres", m.State().Processes[0].Name)

	m = press(t, m, "s")
	assert.Equal(t, process.SortByCPU, m.State().Sort, "wraps around")
	assert.True(t, m.State().SortDesc)
}

func TestProcessKeysIgnoredOffTab(t *testing.T) {
	m := newTestModel(t)
	handled, cmd := m.HandleKeyMsg(keyMsg("j"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.cursor)

	handled, _ = m.HandleKeyMsg(keyMsg("s"))
	assert.False(t, handled)
	assert.Equal(t, process.SortByPID, m.State().Sort)

	handled, _ = m.HandleKeyMsg(keyMsg("x"))
	assert.False(t, handled)
}

func TestQuitKey(t *testing.T) {
	m, cmd := update(t, newTestModel(t), keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestHelpToggle(t *testing.T) {
	m := press(t, newTestModel(t), "?")
	assert.Contains(t, stripANSI(m.View()), "Keyboard Shortcuts")

	m = press(t, m, "esc")
	assert.NotContains(t, stripANSI(m.View()), "Keyboard Shortcuts")

	m = press(t, m, "?", "?")
	assert.NotContains(t, stripANSI(m.View()), "Keyboard Shortcuts")
}

func TestKeyMapHelp(t *testing.T) {
	k := defaultKeyMap()
	assert.NotEmpty(t, k.ShortHelp())

	total := 0
	for _, col := range k.FullHelp() {
		total += len(col)
	}
	assert.Equal(t, 22, total, "every binding appears in the overlay")
}
