package process

import (
	"sort"
	"strings"
)

// SortOrder defines how process rows are ordered.
type SortOrder int

const (
	SortByCPU SortOrder = iota
	SortByMem
	SortByPID
	SortByName
)

var sortOrderNames = map[SortOrder]string{
	SortByCPU:  "cpu",
	SortByMem:  "mem",
	SortByPID:  "pid",
	SortByName: "name",
}

// String returns the config/flag spelling of the order.
func (s SortOrder) String() string {
	if n, ok := sortOrderNames[s]; ok {
		return n
	}
	return "cpu"
}

// Next cycles to the next sort order.
func (s SortOrder) Next() SortOrder {
	return (s + 1) % SortOrder(len(sortOrderNames))
}

// DefaultDesc reports the natural direction for the order: busiest first
// for usage columns, ascending for pid and name.
func (s SortOrder) DefaultDesc() bool {
	return s == SortByCPU || s == SortByMem
}

// ParseSortOrder reads a config/flag spelling, reporting false for unknown
// names.
func ParseSortOrder(s string) (SortOrder, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for order, name := range sortOrderNames {
		if name == s {
			return order, true
		}
	}
	if s == "memory" {
		return SortByMem, true
	}
	return SortByCPU, false
}

// SortRecords sorts rows in place. Ties break on pid so the order is stable
// from one frame to the next.
func SortRecords(rows []Record, order SortOrder, desc bool) {
	less := func(a, b Record) bool {
		switch order {
		case SortByCPU:
			if a.CPUPercent != b.CPUPercent {
				return a.CPUPercent < b.CPUPercent
			}
		case SortByMem:
			if a.MemPercent != b.MemPercent {
				return a.MemPercent < b.MemPercent
			}
		case SortByName:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
		}
		return a.PID < b.PID
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
