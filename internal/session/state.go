package session

import (
	"time"

	"github.com/rileyhilliard/hostmon/internal/history"
	"github.com/rileyhilliard/hostmon/internal/metrics"
	"github.com/rileyhilliard/hostmon/internal/process"
	"github.com/rileyhilliard/hostmon/internal/source"
)

// State is one published view of the session. It is never modified after
// publication, so renderers may hold on to it freely.
type State struct {
	Time   time.Time
	Polls  int
	Source string

	Paused   bool
	FPS      int
	Sort     process.SortOrder
	SortDesc bool
	Filter   string

	CPUPercent  float64
	HasCPU      bool
	LogicalCPUs int

	Memory    metrics.Usage
	HasMemory bool
	Swap      metrics.SwapStat
	HasSwap   bool
	Disk      metrics.DiskStat
	DiskPath  string
	HasDisk   bool

	// Network is sorted by interface name.
	Network    []InterfaceRate
	HasNetwork bool
	RxRate     float64
	TxRate     float64

	Fan     FanState
	Thermal ThermalState

	// Processes are the visible rows: filtered and sorted.
	Processes  []process.Record
	Selected   []int
	Tasks      process.TaskCounts
	Recomputed bool

	History map[history.Stream][]float64
	YScales map[history.Stream]float64

	Host source.HostInfo
}

// InterfaceRate is an interface's counters plus per-second byte rates since
// the previous poll. HasRate is false on the first sighting.
type InterfaceRate struct {
	source.NetInterface
	RxRate  float64
	TxRate  float64
	HasRate bool
}

// FanState is the fan tab's data. Present is false when the host has no
// readable fan.
type FanState struct {
	Present bool
	Active  bool
	RPM     int
	Level   int
}

// ThermalState is the CPU temperature. Present is false when no sensor was
// found; no substitute value is ever invented.
type ThermalState struct {
	Present bool
	Celsius float64
}
