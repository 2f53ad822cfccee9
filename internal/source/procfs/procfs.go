// Package procfs implements source.CounterSource for Linux by reading /proc
// through prometheus/procfs. Fan and temperature readings come from the
// sysfs package; disk capacity and host details from gopsutil.
package procfs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/procfs"

	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/source"
	"github.com/rileyhilliard/hostmon/internal/source/psutil"
	"github.com/rileyhilliard/hostmon/internal/source/sysfs"
)

// DefaultRoot is where procfs is normally mounted.
const DefaultRoot = procfs.DefaultMountPoint

// Source reads counters from a procfs mount.
type Source struct {
	fs      procfs.FS
	sensors *sysfs.Sensors
	log     logger.Logger
}

// Options configures a Source.
type Options struct {
	ProcRoot string
	SysRoot  string
	Logger   logger.Logger
}

// New opens the procfs mount at opts.ProcRoot.
func New(opts Options) (*Source, error) {
	root := opts.ProcRoot
	if root == "" {
		root = DefaultRoot
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("open procfs at %s: %w", root, err)
	}
	return &Source{
		fs:      fs,
		sensors: sysfs.New(opts.SysRoot, log),
		log:     log,
	}, nil
}

var (
	_ source.CounterSource = (*Source)(nil)
	_ source.Rescanner     = (*Source)(nil)
)

// SystemCPU folds the aggregate cpu line of /proc/stat into ticks. procfs
// reports seconds (ticks / USER_HZ), which converts back exactly.
func (s *Source) SystemCPU(ctx context.Context) (source.CPUTicks, error) {
	if err := ctx.Err(); err != nil {
		return source.CPUTicks{}, err
	}
	st, err := s.fs.Stat()
	if err != nil {
		return source.CPUTicks{}, err
	}
	return ticksFromStat(st.CPUTotal), nil
}

func ticksFromStat(c procfs.CPUStat) source.CPUTicks {
	idle := source.SecondsToTicks(c.Idle) + source.SecondsToTicks(c.Iowait)
	total := idle +
		source.SecondsToTicks(c.User) +
		source.SecondsToTicks(c.Nice) +
		source.SecondsToTicks(c.System) +
		source.SecondsToTicks(c.IRQ) +
		source.SecondsToTicks(c.SoftIRQ) +
		source.SecondsToTicks(c.Steal)
	return source.CPUTicks{Idle: idle, Total: total}
}

func (s *Source) LogicalCPUs(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	st, err := s.fs.Stat()
	if err != nil {
		return 0, err
	}
	return len(st.CPU), nil
}

// Processes lists every pid directory. Per-process failures (the process
// exited after listing, or its stat is unreadable) are recorded in Err
// rather than failing the whole list.
func (s *Source) Processes(ctx context.Context) ([]source.ProcessCounters, error) {
	procs, err := s.fs.AllProcs()
	if err != nil {
		return nil, err
	}

	out := make([]source.ProcessCounters, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pc := source.ProcessCounters{PID: p.PID}
		st, err := p.Stat()
		if err != nil {
			pc.Err = err
			out = append(out, pc)
			continue
		}
		pc.Name = st.Comm
		pc.State = source.ParseProcessState(st.State)
		pc.CPUTicks = uint64(st.UTime) + uint64(st.STime)
		if rss := st.ResidentMemory(); rss > 0 {
			pc.RSSKB = uint64(rss) / 1024
		}
		out = append(out, pc)
	}
	return out, nil
}

func (s *Source) Memory(ctx context.Context) (source.MemoryTotals, error) {
	if err := ctx.Err(); err != nil {
		return source.MemoryTotals{}, err
	}
	mi, err := s.fs.Meminfo()
	if err != nil {
		return source.MemoryTotals{}, err
	}
	totals := source.MemoryTotals{TotalKB: deref(mi.MemTotal)}
	if mi.MemAvailable != nil {
		totals.AvailableKB = *mi.MemAvailable
	} else {
		// Kernels before 3.14 have no MemAvailable.
		totals.AvailableKB = deref(mi.MemFree) + deref(mi.Buffers) + deref(mi.Cached)
	}
	return totals, nil
}

func (s *Source) Swap(ctx context.Context) (source.SwapTotals, error) {
	if err := ctx.Err(); err != nil {
		return source.SwapTotals{}, err
	}
	mi, err := s.fs.Meminfo()
	if err != nil {
		return source.SwapTotals{}, err
	}
	total, free := deref(mi.SwapTotal), deref(mi.SwapFree)
	used := uint64(0)
	if total > free {
		used = total - free
	}
	return source.SwapTotals{TotalKB: total, FreeKB: free, UsedKB: used, TotalKnown: true}, nil
}

func (s *Source) Disk(ctx context.Context, path string) (source.DiskTotals, error) {
	return psutil.DiskTotals(ctx, path)
}

func (s *Source) Network(ctx context.Context) (map[string]source.NetInterface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dev, err := s.fs.NetDev()
	if err != nil {
		return nil, err
	}
	out := make(map[string]source.NetInterface, len(dev))
	for name, l := range dev {
		out[name] = source.NetInterface{
			Name:         name,
			RxBytes:      l.RxBytes,
			RxPackets:    l.RxPackets,
			RxErrors:     l.RxErrors,
			RxDropped:    l.RxDropped,
			RxFIFO:       l.RxFIFO,
			RxFrame:      l.RxFrame,
			RxCompressed: l.RxCompressed,
			RxMulticast:  l.RxMulticast,
			TxBytes:      l.TxBytes,
			TxPackets:    l.TxPackets,
			TxErrors:     l.TxErrors,
			TxDropped:    l.TxDropped,
			TxFIFO:       l.TxFIFO,
			TxCollisions: l.TxCollisions,
			TxCarrier:    l.TxCarrier,
			TxCompressed: l.TxCompressed,
		}
	}
	return out, nil
}

func (s *Source) Fan(ctx context.Context) (source.FanReading, bool, error) {
	return s.sensors.Fan(ctx)
}

func (s *Source) Temperature(ctx context.Context) (float64, bool, error) {
	return s.sensors.Temperature(ctx)
}

// Rescan forgets which fan and thermal files were found.
func (s *Source) Rescan() {
	s.sensors.Rescan()
}

// Host fills the CPU model from /proc/cpuinfo and the rest from gopsutil.
func (s *Source) Host(ctx context.Context) (source.HostInfo, error) {
	info, err := psutil.HostInfo(ctx)
	if err != nil {
		s.log.Debug("host info: %v", err)
		info = source.HostInfo{}
		if h, herr := os.Hostname(); herr == nil {
			info.Hostname = h
		}
	}
	if cpus, cerr := s.fs.CPUInfo(); cerr == nil && len(cpus) > 0 {
		info.CPUModel = strings.TrimSpace(cpus[0].ModelName)
	}
	return info, err
}

func deref(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}
