// Package psutil implements source.CounterSource on top of gopsutil, which
// covers Linux, macOS, Windows and the BSDs.
package psutil

import (
	"context"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/source"
)

// FanReader supplies fan readings, which gopsutil doesn't cover.
type FanReader interface {
	Fan(ctx context.Context) (source.FanReading, bool, error)
}

// Source reads counters through gopsutil.
type Source struct {
	fans FanReader
	log  logger.Logger
}

// Options configures a Source.
type Options struct {
	// Fans is consulted for fan readings. Nil means no fan is reported.
	Fans   FanReader
	Logger logger.Logger
}

// New creates a gopsutil-backed source.
func New(opts Options) *Source {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	return &Source{fans: opts.Fans, log: log}
}

var _ source.CounterSource = (*Source)(nil)

// CPUTicksFromTimes folds a gopsutil times sample into idle and total ticks.
// Idle includes iowait; total is user+nice+system+idle+iowait+irq+softirq+steal.
func CPUTicksFromTimes(t cpu.TimesStat) source.CPUTicks {
	idle := source.SecondsToTicks(t.Idle) + source.SecondsToTicks(t.Iowait)
	total := idle +
		source.SecondsToTicks(t.User) +
		source.SecondsToTicks(t.Nice) +
		source.SecondsToTicks(t.System) +
		source.SecondsToTicks(t.Irq) +
		source.SecondsToTicks(t.Softirq) +
		source.SecondsToTicks(t.Steal)
	return source.CPUTicks{Idle: idle, Total: total}
}

func (s *Source) SystemCPU(ctx context.Context) (source.CPUTicks, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return source.CPUTicks{}, err
	}
	if len(times) == 0 {
		return source.CPUTicks{}, nil
	}
	return CPUTicksFromTimes(times[0]), nil
}

func (s *Source) LogicalCPUs(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}

func (s *Source) Processes(ctx context.Context) ([]source.ProcessCounters, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]source.ProcessCounters, 0, len(procs))
	for _, p := range procs {
		out = append(out, readProcess(ctx, p))
	}
	return out, nil
}

func readProcess(ctx context.Context, p *process.Process) source.ProcessCounters {
	pc := source.ProcessCounters{PID: int(p.Pid)}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		pc.Err = err
		return pc
	}
	pc.Name = name

	times, err := p.TimesWithContext(ctx)
	if err != nil {
		pc.Err = err
		return pc
	}
	pc.CPUTicks = source.SecondsToTicks(times.User) + source.SecondsToTicks(times.System)

	if status, err := p.StatusWithContext(ctx); err == nil && len(status) > 0 {
		pc.State = source.ParseProcessState(status[0])
	}

	mi, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		pc.Err = err
		return pc
	}
	pc.RSSKB = mi.RSS / 1024
	return pc
}

func (s *Source) Memory(ctx context.Context) (source.MemoryTotals, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return source.MemoryTotals{}, err
	}
	return source.MemoryTotals{
		TotalKB:     vm.Total / 1024,
		AvailableKB: vm.Available / 1024,
	}, nil
}

// Swap reports the total as unknown when the platform returns a used
// amount with no total, which is how paged-out-only reporting shows up.
func (s *Source) Swap(ctx context.Context) (source.SwapTotals, error) {
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return source.SwapTotals{}, err
	}
	return SwapTotalsFrom(sw.Total, sw.Used, sw.Free), nil
}

// SwapTotalsFrom converts byte counts to SwapTotals.
func SwapTotalsFrom(totalBytes, usedBytes, freeBytes uint64) source.SwapTotals {
	st := source.SwapTotals{
		TotalKB:    totalBytes / 1024,
		UsedKB:     usedBytes / 1024,
		FreeKB:     freeBytes / 1024,
		TotalKnown: true,
	}
	if totalBytes == 0 && usedBytes > 0 {
		st.TotalKnown = false
	}
	return st
}

func (s *Source) Disk(ctx context.Context, path string) (source.DiskTotals, error) {
	return DiskTotals(ctx, path)
}

// DiskTotals reads filesystem capacity for path. gopsutil's Free is the
// space available to unprivileged users; the reserved-inclusive free space
// is recovered as Total - Used.
func DiskTotals(ctx context.Context, path string) (source.DiskTotals, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return source.DiskTotals{}, err
	}
	free := uint64(0)
	if u.Total > u.Used {
		free = u.Total - u.Used
	}
	return source.DiskTotals{
		Path:       path,
		TotalBytes: u.Total,
		FreeBytes:  free,
		AvailBytes: u.Free,
	}, nil
}

func (s *Source) Network(ctx context.Context) (map[string]source.NetInterface, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]source.NetInterface, len(counters))
	for _, c := range counters {
		out[c.Name] = source.NetInterface{
			Name:      c.Name,
			RxBytes:   c.BytesRecv,
			RxPackets: c.PacketsRecv,
			RxErrors:  c.Errin,
			RxDropped: c.Dropin,
			RxFIFO:    c.Fifoin,
			TxBytes:   c.BytesSent,
			TxPackets: c.PacketsSent,
			TxErrors:  c.Errout,
			TxDropped: c.Dropout,
			TxFIFO:    c.Fifoout,
		}
	}
	return out, nil
}

func (s *Source) Fan(ctx context.Context) (source.FanReading, bool, error) {
	if s.fans == nil {
		return source.FanReading{}, false, nil
	}
	return s.fans.Fan(ctx)
}

// cpuSensorKeys are substrings of gopsutil sensor keys that identify the CPU
// package temperature, in preference order.
var cpuSensorKeys = []string{"x86_pkg_temp", "k10temp", "coretemp_package", "coretemp", "cpu", "tc0p", "tc0d"}

func (s *Source) Temperature(ctx context.Context) (float64, bool, error) {
	temps, err := sensors.TemperaturesWithContext(ctx)
	if len(temps) == 0 {
		if err != nil {
			s.log.Debug("no temperature sensors: %v", err)
		}
		return 0, false, nil
	}
	c, ok := PickCPUTemperature(temps)
	return c, ok, nil
}

// PickCPUTemperature returns the first sensor matching cpuSensorKeys in
// preference order.
func PickCPUTemperature(temps []sensors.TemperatureStat) (float64, bool) {
	for _, want := range cpuSensorKeys {
		for _, t := range temps {
			if strings.Contains(strings.ToLower(t.SensorKey), want) && t.Temperature > 0 {
				return t.Temperature, true
			}
		}
	}
	return 0, false
}

func (s *Source) Host(ctx context.Context) (source.HostInfo, error) {
	info, err := HostInfo(ctx)
	if err != nil {
		return info, err
	}
	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		info.CPUModel = strings.TrimSpace(cpus[0].ModelName)
	}
	return info, nil
}

// HostInfo reads hostname, OS, kernel and uptime through gopsutil and the
// current user from the OS. CPUModel is left for the caller.
func HostInfo(ctx context.Context) (source.HostInfo, error) {
	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		return source.HostInfo{}, err
	}
	info := source.HostInfo{
		Hostname:      hi.Hostname,
		OS:            hi.OS,
		Platform:      strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion),
		KernelVersion: hi.KernelVersion,
		Uptime:        time.Duration(hi.Uptime) * time.Second,
		User:          currentUser(),
	}
	return info, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, env := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}
