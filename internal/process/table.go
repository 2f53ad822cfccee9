// Package process tracks per-process CPU and memory usage across polls. CPU
// percentages come from differencing each pid's cumulative ticks against the
// system-wide tick delta for the same interval.
package process

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rileyhilliard/hostmon/internal/metrics"
	"github.com/rileyhilliard/hostmon/internal/source"
)

// Record is one tracked process as readers see it.
type Record struct {
	PID        int
	Name       string
	State      source.ProcessState
	CPUPercent float64
	MemPercent float64
	RSSKB      uint64
	Selected   bool
}

type entry struct {
	Record
	lastCPUTicks uint64
	hasBaseline  bool
	// visible is false for a pid whose counters couldn't be read this poll.
	visible bool
}

// TaskCounts tallies visible processes by state.
type TaskCounts struct {
	Total    int
	Running  int
	Sleeping int
	Stopped  int
	Zombie   int
}

// Table is not safe for concurrent use; the session serializes access.
type Table struct {
	logicalCPUs int
	entries     map[int]*entry
	selected    map[int]struct{}
	filter      string

	lastSystemTotal uint64
	hasSystem       bool
}

// NewTable creates an empty table for a host with logicalCPUs cores.
func NewTable(logicalCPUs int) *Table {
	if logicalCPUs < 1 {
		logicalCPUs = 1
	}
	return &Table{
		logicalCPUs: logicalCPUs,
		entries:     make(map[int]*entry),
		selected:    make(map[int]struct{}),
	}
}

// SetLogicalCPUs updates the core count used to scale CPU percentages.
func (t *Table) SetLogicalCPUs(n int) {
	if n >= 1 {
		t.logicalCPUs = n
	}
}

// LogicalCPUs returns the core count in use.
func (t *Table) LogicalCPUs() int { return t.logicalCPUs }

// Update folds one poll's process list into the table.
//
// When recompute is false, CPU percentages from the last computed poll are
// kept and no baseline moves; memory percentages always refresh. When it is
// true every pid's percentage is computed against the stored baselines first,
// and only then are the new tick counts committed. Pids missing from procs
// are evicted along with their selection.
func (t *Table) Update(procs []source.ProcessCounters, sys source.CPUTicks, memTotalKB uint64, recompute bool) {
	seen := make(map[int]struct{}, len(procs))

	var deltaSystem uint64
	systemValid := t.hasSystem && sys.Total >= t.lastSystemTotal
	if systemValid {
		deltaSystem = sys.Total - t.lastSystemTotal
	}

	for _, pc := range procs {
		seen[pc.PID] = struct{}{}
		e, known := t.entries[pc.PID]

		if pc.Err != nil {
			// Keep the record so selection survives, but hide it and make
			// sure the next delta doesn't straddle the gap.
			if known {
				e.visible = false
				e.hasBaseline = false
			}
			continue
		}

		if !known {
			e = &entry{Record: Record{PID: pc.PID}}
			t.entries[pc.PID] = e
		}
		e.visible = true
		e.Name = pc.Name
		e.State = pc.State
		e.RSSKB = pc.RSSKB
		e.MemPercent = memPercent(pc.RSSKB, memTotalKB)

		if !recompute {
			// A row coming back after a failed read has no interval behind
			// its old percentage.
			if !e.hasBaseline {
				e.CPUPercent = 0
			}
			continue
		}

		switch {
		case !e.hasBaseline, pc.CPUTicks < e.lastCPUTicks, !systemValid:
			e.CPUPercent = 0
		default:
			e.CPUPercent = metrics.ProcessCPUPercent(pc.CPUTicks-e.lastCPUTicks, deltaSystem, t.logicalCPUs)
		}
	}

	// Evict before committing so a pid can't keep a stale baseline.
	for pid := range t.entries {
		if _, ok := seen[pid]; !ok {
			delete(t.entries, pid)
			delete(t.selected, pid)
		}
	}

	if !recompute {
		return
	}

	for _, pc := range procs {
		if pc.Err != nil {
			continue
		}
		e := t.entries[pc.PID]
		e.lastCPUTicks = pc.CPUTicks
		e.hasBaseline = true
	}
	t.lastSystemTotal = sys.Total
	t.hasSystem = true
}

func memPercent(rssKB, totalKB uint64) float64 {
	if totalKB == 0 {
		return 0
	}
	return float64(rssKB) / float64(totalKB) * 100
}

// SetFilter sets the case-insensitive name-or-pid substring filter applied
// by Rows. It never affects baselines.
func (t *Table) SetFilter(f string) {
	t.filter = strings.TrimSpace(f)
}

// Filter returns the current filter.
func (t *Table) Filter() string { return t.filter }

func (t *Table) matches(e *entry) bool {
	if t.filter == "" {
		return true
	}
	needle := strings.ToLower(t.filter)
	return strings.Contains(strings.ToLower(e.Name), needle) ||
		strings.Contains(strconv.Itoa(e.PID), needle)
}

func (t *Table) record(e *entry) Record {
	r := e.Record
	_, r.Selected = t.selected[e.PID]
	return r
}

// Rows returns visible processes matching the filter, sorted by order.
func (t *Table) Rows(order SortOrder, desc bool) []Record {
	rows := make([]Record, 0, len(t.entries))
	for _, e := range t.entries {
		if e.visible && t.matches(e) {
			rows = append(rows, t.record(e))
		}
	}
	SortRecords(rows, order, desc)
	return rows
}

// All returns every visible process regardless of filter, sorted by pid.
func (t *Table) All() []Record {
	rows := make([]Record, 0, len(t.entries))
	for _, e := range t.entries {
		if e.visible {
			rows = append(rows, t.record(e))
		}
	}
	SortRecords(rows, SortByPID, false)
	return rows
}

// Get returns the record for pid. Hidden and unknown pids report false.
func (t *Table) Get(pid int) (Record, bool) {
	e, ok := t.entries[pid]
	if !ok || !e.visible {
		return Record{}, false
	}
	return t.record(e), true
}

// Len returns the number of tracked pids, hidden ones included.
func (t *Table) Len() int { return len(t.entries) }

// Counts tallies visible processes by state, ignoring the filter.
func (t *Table) Counts() TaskCounts {
	var c TaskCounts
	for _, e := range t.entries {
		if !e.visible {
			continue
		}
		c.Total++
		switch e.State {
		case source.StateRunning:
			c.Running++
		case source.StateSleeping, source.StateWaiting:
			c.Sleeping++
		case source.StateStopped:
			c.Stopped++
		case source.StateZombie:
			c.Zombie++
		}
	}
	return c
}

// ToggleSelected flips pid's selection and returns the new state. Untracked
// pids can't be selected.
func (t *Table) ToggleSelected(pid int) bool {
	if t.IsSelected(pid) {
		t.Deselect(pid)
		return false
	}
	return t.Select(pid)
}

// Select marks a tracked pid as selected.
func (t *Table) Select(pid int) bool {
	if _, ok := t.entries[pid]; !ok {
		return false
	}
	t.selected[pid] = struct{}{}
	return true
}

// Deselect clears pid's selection.
func (t *Table) Deselect(pid int) {
	delete(t.selected, pid)
}

// IsSelected reports whether pid is selected.
func (t *Table) IsSelected(pid int) bool {
	_, ok := t.selected[pid]
	return ok
}

// Selected returns the selected pids in ascending order.
func (t *Table) Selected() []int {
	out := make([]int, 0, len(t.selected))
	for pid := range t.selected {
		out = append(out, pid)
	}
	sort.Ints(out)
	return out
}

// ClearSelection drops every selection.
func (t *Table) ClearSelection() {
	t.selected = make(map[int]struct{})
}
