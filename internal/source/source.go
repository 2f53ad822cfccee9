// Package source defines the CounterSource contract the sampling engine reads
// raw OS counters through, and the plain value types those reads return.
// Implementations live in the procfs, psutil and testing subpackages;
// platform picks one at runtime.
package source

import (
	"context"
	"math"
	"time"
)

// CounterSource supplies raw cumulative counters. Every method is a single
// blocking read of local kernel state; none of them retain baselines.
type CounterSource interface {
	// SystemCPU returns cumulative system-wide ticks since boot.
	SystemCPU(ctx context.Context) (CPUTicks, error)
	// LogicalCPUs returns the number of logical CPUs.
	LogicalCPUs(ctx context.Context) (int, error)
	// Processes lists every running process with its cumulative CPU ticks.
	// A process that can't be read is still listed, with Err set.
	Processes(ctx context.Context) ([]ProcessCounters, error)
	Memory(ctx context.Context) (MemoryTotals, error)
	Swap(ctx context.Context) (SwapTotals, error)
	Disk(ctx context.Context, path string) (DiskTotals, error)
	Network(ctx context.Context) (map[string]NetInterface, error)
	// Fan reports false when the host has no readable fan.
	Fan(ctx context.Context) (FanReading, bool, error)
	// Temperature reports the CPU package temperature in Celsius, or false
	// when no sensor could be found.
	Temperature(ctx context.Context) (float64, bool, error)
	Host(ctx context.Context) (HostInfo, error)
}

// Rescanner is implemented by sources that cache sensor discovery. Rescan
// drops the cache so the next read searches again, e.g. after a hwmon
// driver is loaded.
type Rescanner interface {
	Rescan()
}

// TicksPerSecond is the tick unit sources report CPU time in (USER_HZ).
const TicksPerSecond = 100

// SecondsToTicks converts CPU seconds to ticks.
func SecondsToTicks(s float64) uint64 {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return uint64(math.Round(s * TicksPerSecond))
}

// CPUTicks is a cumulative system CPU reading. Idle includes iowait.
type CPUTicks struct {
	Idle  uint64
	Total uint64
}

// MemoryTotals is physical memory in kilobytes.
type MemoryTotals struct {
	TotalKB     uint64
	AvailableKB uint64
}

// SwapTotals is swap in kilobytes. Some platforms only expose the amount
// paged out; TotalKnown is false there and only UsedKB is meaningful.
type SwapTotals struct {
	TotalKB    uint64
	UsedKB     uint64
	FreeKB     uint64
	TotalKnown bool
}

// DiskTotals is filesystem capacity in bytes.
type DiskTotals struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
	AvailBytes uint64
}

// NetInterface holds one interface's cumulative counters.
type NetInterface struct {
	Name string

	RxBytes      uint64
	RxPackets    uint64
	RxErrors     uint64
	RxDropped    uint64
	RxFIFO       uint64
	RxFrame      uint64
	RxCompressed uint64
	RxMulticast  uint64

	TxBytes      uint64
	TxPackets    uint64
	TxErrors     uint64
	TxDropped    uint64
	TxFIFO       uint64
	TxCollisions uint64
	TxCarrier    uint64
	TxCompressed uint64
}

// IsLoopback reports whether the interface is the loopback device.
func (n NetInterface) IsLoopback() bool {
	return n.Name == "lo" || n.Name == "lo0"
}

// FanReading is a single fan's state. Level is -1 when the driver exposes
// no level or PWM file.
type FanReading struct {
	Active bool
	RPM    int
	Level  int
}

// HostInfo describes the machine for the system overview.
type HostInfo struct {
	Hostname      string
	OS            string
	Platform      string
	KernelVersion string
	CPUModel      string
	User          string
	Uptime        time.Duration
}

// Sample is everything read in one poll. It is built once and never
// mutated afterwards. The Has* flags are false when that category's read
// failed or the sensor is absent.
type Sample struct {
	// Time is read from the monotonic clock.
	Time time.Time

	CPU         CPUTicks
	HasCPU      bool
	LogicalCPUs int

	Memory    MemoryTotals
	HasMemory bool

	Swap    SwapTotals
	HasSwap bool

	Disk    DiskTotals
	HasDisk bool

	Network    map[string]NetInterface
	HasNetwork bool

	Fan    FanReading
	HasFan bool

	TemperatureC   float64
	HasTemperature bool

	Processes    []ProcessCounters
	HasProcesses bool
}
