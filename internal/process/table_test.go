package process

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/hostmon/internal/source"
)

func proc(pid int, name string, ticks uint64) source.ProcessCounters {
	return source.ProcessCounters{PID: pid, Name: name, State: source.StateRunning, CPUTicks: ticks, RSSKB: 1000}
}

func sys(total uint64) source.CPUTicks {
	return source.CPUTicks{Total: total}
}

func cpuOf(t *testing.T, tbl *Table, pid int) float64 {
	t.Helper()
	r, ok := tbl.Get(pid)
	require.True(t, ok, "pid %d should be visible", pid)
	return r.CPUPercent
}

func TestFirstObservationIsZero(t *testing.T) {
	tbl := NewTable(4)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 500)}, sys(1000), 16000, true)

	assert.Equal(t, 0.0, cpuOf(t, tbl, 10))
}

func TestCoreCountNormalization(t *testing.T) {
	tbl := NewTable(8)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 500)}, sys(10000), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 700)}, sys(11000), 16000, true)

	assert.InDelta(t, 160.0, cpuOf(t, tbl, 10), 0.0001, "multi-threaded process exceeds 100")
}

func TestCounterResetIsZero(t *testing.T) {
	tbl := NewTable(2)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 500)}, sys(1000), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 100)}, sys(2000), 16000, true)
	assert.Equal(t, 0.0, cpuOf(t, tbl, 10))

	// The reset value becomes the new baseline.
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 600)}, sys(3000), 16000, true)
	assert.InDelta(t, 100.0, cpuOf(t, tbl, 10), 0.0001)
}

func TestZeroSystemDeltaIsZero(t *testing.T) {
	tbl := NewTable(2)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 500)}, sys(1000), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 600)}, sys(1000), 16000, true)

	assert.Equal(t, 0.0, cpuOf(t, tbl, 10))
}

func TestSystemCounterResetIsZero(t *testing.T) {
	tbl := NewTable(2)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 500)}, sys(5000), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 600)}, sys(100), 16000, true)

	assert.Equal(t, 0.0, cpuOf(t, tbl, 10))
}

func TestEvictAndReintroduce(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{proc(10, "worker", 500), proc(11, "other", 0)}, sys(1000), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(11, "other", 0)}, sys(2000), 16000, true)

	_, ok := tbl.Get(10)
	assert.False(t, ok, "absent pid is evicted")
	assert.Equal(t, 1, tbl.Len())

	// Same pid comes back with a much larger counter: a new process, not a
	// continuation, so no delta against the old baseline.
	tbl.Update([]source.ProcessCounters{proc(10, "recycled", 900), proc(11, "other", 0)}, sys(3000), 16000, true)
	assert.Equal(t, 0.0, cpuOf(t, tbl, 10))
	r, _ := tbl.Get(10)
	assert.Equal(t, "recycled", r.Name)
}

func TestBaselineCommitsAfterCompute(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 0), proc(2, "b", 0)}, sys(0), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 50), proc(2, "b", 25)}, sys(100), 16000, true)

	// Both pids are measured against the same system interval.
	assert.InDelta(t, 50.0, cpuOf(t, tbl, 1), 0.0001)
	assert.InDelta(t, 25.0, cpuOf(t, tbl, 2), 0.0001)
}

func TestRecomputeGateReusesPercentages(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 0)}, sys(0), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 50)}, sys(100), 16000, true)
	require.InDelta(t, 50.0, cpuOf(t, tbl, 1), 0.0001)

	// Gated poll: percentages stay and no baseline moves.
	tbl.Update([]source.ProcessCounters{proc(1, "a", 60)}, sys(110), 8000, false)
	assert.InDelta(t, 50.0, cpuOf(t, tbl, 1), 0.0001)
	r, _ := tbl.Get(1)
	assert.InDelta(t, 12.5, r.MemPercent, 0.0001, "memory refreshes every poll")

	// Next recompute spans the whole interval since the last one.
	tbl.Update([]source.ProcessCounters{proc(1, "a", 150)}, sys(200), 8000, true)
	assert.InDelta(t, 100.0, cpuOf(t, tbl, 1), 0.0001)
}

func TestNewPidOnGatedPoll(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update(nil, sys(0), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(7, "late", 40)}, sys(50), 16000, false)
	assert.Equal(t, 0.0, cpuOf(t, tbl, 7))

	tbl.Update([]source.ProcessCounters{proc(7, "late", 90)}, sys(100), 16000, true)
	assert.Equal(t, 0.0, cpuOf(t, tbl, 7), "first computed poll only sets the baseline")

	tbl.Update([]source.ProcessCounters{proc(7, "late", 140)}, sys(200), 16000, true)
	assert.InDelta(t, 50.0, cpuOf(t, tbl, 7), 0.0001)
}

func TestFilterDoesNotAffectDeltas(t *testing.T) {
	polls := [][]source.ProcessCounters{
		{proc(100, "nginx", 0), proc(200, "postgres", 0)},
		{proc(100, "nginx", 30), proc(200, "postgres", 60)},
		{proc(100, "nginx", 50), proc(200, "postgres", 140)},
		{proc(100, "nginx", 90), proc(200, "postgres", 150)},
	}
	filters := []string{"", "NGINX", "post", ""}

	filtered := NewTable(1)
	plain := NewTable(1)
	for i, p := range polls {
		total := uint64(i * 100)
		filtered.SetFilter(filters[i])
		filtered.Update(p, sys(total), 16000, true)
		plain.Update(p, sys(total), 16000, true)

		for _, pid := range []int{100, 200} {
			want, _ := plain.Get(pid)
			got, ok := filtered.Get(pid)
			require.True(t, ok)
			assert.Equal(t, want.CPUPercent, got.CPUPercent, "poll %d pid %d", i, pid)
		}
	}

	assert.InDelta(t, 40.0, cpuOf(t, filtered, 100), 0.0001)
	assert.InDelta(t, 10.0, cpuOf(t, filtered, 200), 0.0001)
}

func TestFilterRows(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{
		proc(1, "systemd", 0),
		proc(1234, "Firefox", 0),
		proc(4321, "bash", 0),
	}, sys(0), 16000, true)

	tests := []struct {
		filter   string
		expected []int
	}{
		{"", []int{1, 1234, 4321}},
		{"fire", []int{1234}},
		{"FIRE", []int{1234}},
		{"123", []int{1234}},
		{"1", []int{1, 1234, 4321}},
		{"sh", []int{4321}},
		{"nomatch", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			tbl.SetFilter(tt.filter)
			assert.Equal(t, tt.filter, tbl.Filter())
			rows := tbl.Rows(SortByPID, false)
			pids := make([]int, 0, len(rows))
			for _, r := range rows {
				pids = append(pids, r.PID)
			}
			assert.Equal(t, tt.expected, pids)
		})
	}

	tbl.SetFilter("fire")
	assert.Len(t, tbl.All(), 3, "All ignores the filter")
}

func TestUnreadableProcessIsHidden(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 0)}, sys(0), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 50)}, sys(100), 16000, true)
	tbl.Select(1)

	failed := source.ProcessCounters{PID: 1, Err: errors.New("permission denied")}
	tbl.Update([]source.ProcessCounters{failed}, sys(200), 16000, true)

	_, ok := tbl.Get(1)
	assert.False(t, ok, "absent this frame, not a recorded zero")
	assert.Empty(t, tbl.Rows(SortByCPU, true))
	assert.Equal(t, 1, tbl.Len(), "record is kept")
	assert.True(t, tbl.IsSelected(1))

	// Readable again: the baseline was invalidated, so no delta spans the gap.
	tbl.Update([]source.ProcessCounters{proc(1, "a", 500)}, sys(300), 16000, true)
	assert.Equal(t, 0.0, cpuOf(t, tbl, 1))

	tbl.Update([]source.ProcessCounters{proc(1, "a", 550)}, sys(400), 16000, true)
	assert.InDelta(t, 50.0, cpuOf(t, tbl, 1), 0.0001)
}

func TestRateLimitedPollAfterReadFailureShowsZero(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 0)}, sys(0), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 50)}, sys(100), 16000, true)
	require.InDelta(t, 50.0, cpuOf(t, tbl, 1), 0.0001)

	tbl.Update([]source.ProcessCounters{{PID: 1, Err: errors.New("permission denied")}}, sys(200), 16000, true)

	// Back on a poll that doesn't recompute: the old 50% belongs to an
	// interval the row no longer has a baseline for.
	tbl.Update([]source.ProcessCounters{proc(1, "a", 90)}, sys(250), 16000, false)
	assert.Equal(t, 0.0, cpuOf(t, tbl, 1))

	// Rows that kept their baseline still reuse their last value.
	tbl.Update([]source.ProcessCounters{proc(1, "a", 100)}, sys(300), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 150)}, sys(400), 16000, true)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 190)}, sys(450), 16000, false)
	assert.InDelta(t, 50.0, cpuOf(t, tbl, 1), 0.0001)
}

func TestUnreadableUnknownProcessIsIgnored(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{{PID: 5, Err: errors.New("gone")}}, sys(0), 16000, true)

	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.Select(5))
}

func TestMemPercent(t *testing.T) {
	tbl := NewTable(1)
	p := proc(1, "a", 0)
	p.RSSKB = 4000
	tbl.Update([]source.ProcessCounters{p}, sys(0), 16000, true)

	r, _ := tbl.Get(1)
	assert.InDelta(t, 25.0, r.MemPercent, 0.0001)
	assert.Equal(t, uint64(4000), r.RSSKB)

	tbl.Update([]source.ProcessCounters{p}, sys(0), 0, true)
	r, _ = tbl.Get(1)
	assert.Equal(t, 0.0, r.MemPercent, "unknown total memory")
}

func TestSelection(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 0), proc(2, "b", 0), proc(3, "c", 0)}, sys(0), 16000, true)

	assert.True(t, tbl.ToggleSelected(2))
	assert.True(t, tbl.Select(3))
	assert.Equal(t, []int{2, 3}, tbl.Selected())

	r, _ := tbl.Get(2)
	assert.True(t, r.Selected)

	// Persists across filter changes and polls.
	tbl.SetFilter("a")
	tbl.Update([]source.ProcessCounters{proc(1, "a", 0), proc(2, "b", 0), proc(3, "c", 0)}, sys(10), 16000, true)
	assert.Equal(t, []int{2, 3}, tbl.Selected())

	assert.False(t, tbl.ToggleSelected(2))
	tbl.Deselect(3)
	assert.Empty(t, tbl.Selected())

	assert.False(t, tbl.ToggleSelected(99), "untracked pid can't be selected")

	tbl.Select(1)
	tbl.ClearSelection()
	assert.False(t, tbl.IsSelected(1))
}

func TestEvictedSelectionIsNotResurrected(t *testing.T) {
	tbl := NewTable(1)
	tbl.Update([]source.ProcessCounters{proc(1, "a", 0), proc(2, "b", 0)}, sys(0), 16000, true)
	tbl.Select(2)

	tbl.Update([]source.ProcessCounters{proc(1, "a", 0)}, sys(10), 16000, true)
	assert.False(t, tbl.IsSelected(2))

	tbl.Update([]source.ProcessCounters{proc(1, "a", 0), proc(2, "b", 0)}, sys(20), 16000, true)
	assert.False(t, tbl.IsSelected(2))
	r, _ := tbl.Get(2)
	assert.False(t, r.Selected)
}

func TestCounts(t *testing.T) {
	tbl := NewTable(1)
	mk := func(pid int, st source.ProcessState) source.ProcessCounters {
		return source.ProcessCounters{PID: pid, Name: "p", State: st}
	}
	tbl.Update([]source.ProcessCounters{
		mk(1, source.StateRunning),
		mk(2, source.StateSleeping),
		mk(3, source.StateWaiting),
		mk(4, source.StateStopped),
		mk(5, source.StateZombie),
		mk(6, source.StateSleeping),
		mk(7, source.StateUnknown),
	}, sys(0), 16000, true)

	assert.Equal(t, TaskCounts{Total: 7, Running: 1, Sleeping: 3, Stopped: 1, Zombie: 1}, tbl.Counts())
}

func TestSetLogicalCPUs(t *testing.T) {
	tbl := NewTable(0)
	assert.Equal(t, 1, tbl.LogicalCPUs())
	tbl.SetLogicalCPUs(16)
	assert.Equal(t, 16, tbl.LogicalCPUs())
	tbl.SetLogicalCPUs(0)
	assert.Equal(t, 16, tbl.LogicalCPUs())
}
