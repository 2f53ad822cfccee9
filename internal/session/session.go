// Package session owns every piece of mutable sampling state and runs the
// poll: collect one immutable sample, compute against the previous baseline,
// commit the new baseline, then publish a State with a single atomic store.
package session

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/hostmon/internal/history"
	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/metrics"
	"github.com/rileyhilliard/hostmon/internal/process"
	"github.com/rileyhilliard/hostmon/internal/scheduler"
	"github.com/rileyhilliard/hostmon/internal/source"
)

// DefaultDiskPath is the filesystem shown on the disk tab.
const DefaultDiskPath = "/"

// Options configures a Session.
type Options struct {
	Source     source.CounterSource
	SourceName string
	// Scheduler defaults to one on the system clock.
	Scheduler   *scheduler.Scheduler
	HistorySize int
	DiskPath    string
	Sort        process.SortOrder
	SortDesc    bool
	Filter      string
	Logger      logger.Logger
}

// Session is safe for concurrent use. Poll and the UI mutators serialize on
// an internal mutex; State never blocks.
type Session struct {
	mu sync.Mutex

	src        source.CounterSource
	sourceName string
	sched      *scheduler.Scheduler
	hist       *history.Set
	table      *process.Table
	log        logger.Logger
	diskPath   string

	sortOrder process.SortOrder
	sortDesc  bool

	// Baselines from the previous poll.
	prevCPU     source.CPUTicks
	hasPrevCPU  bool
	prevNet     map[string]source.NetInterface
	prevNetTime time.Time
	memTotalKB  uint64

	host     source.HostInfo
	hostRead bool
	polls    int

	state atomic.Pointer[State]
}

// New creates a session and publishes an empty initial state.
func New(opts Options) *Session {
	sched := opts.Scheduler
	if sched == nil {
		sched = scheduler.New(nil)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	diskPath := opts.DiskPath
	if diskPath == "" {
		diskPath = DefaultDiskPath
	}

	s := &Session{
		src:        opts.Source,
		sourceName: opts.SourceName,
		sched:      sched,
		hist:       history.NewSet(opts.HistorySize, sched),
		table:      process.NewTable(1),
		log:        log,
		diskPath:   diskPath,
		sortOrder:  opts.Sort,
		sortDesc:   opts.SortDesc,
	}
	s.table.SetFilter(opts.Filter)

	s.mu.Lock()
	s.republishLocked()
	s.mu.Unlock()
	return s
}

// Scheduler returns the session's scheduler.
func (s *Session) Scheduler() *scheduler.Scheduler { return s.sched }

// State returns the latest published state.
func (s *Session) State() *State {
	return s.state.Load()
}

// Poll samples the source once. While paused it returns the current state
// without reading anything. Read failures in one category are logged and
// leave that category absent for this poll; only a cancelled context fails
// the poll.
func (s *Session) Poll(ctx context.Context) (*State, error) {
	if err := ctx.Err(); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched.Paused() {
		return s.state.Load(), nil
	}

	sample := s.collect(ctx)
	if err := ctx.Err(); err != nil {
		return s.state.Load(), err
	}

	next := s.compute(sample)
	s.commit(sample)
	s.polls++
	next.Polls = s.polls
	s.state.Store(next)
	return next, nil
}

// collect reads every category concurrently into its own field of one
// Sample. Nothing shared is touched until all reads have returned.
func (s *Session) collect(ctx context.Context) source.Sample {
	sample := source.Sample{Time: s.sched.Now()}
	var wg sync.WaitGroup

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		ticks, err := s.src.SystemCPU(ctx)
		if s.skip("cpu", err) {
			return
		}
		sample.CPU, sample.HasCPU = ticks, true
	})
	run(func() {
		n, err := s.src.LogicalCPUs(ctx)
		if s.skip("logical cpus", err) {
			return
		}
		sample.LogicalCPUs = n
	})
	run(func() {
		m, err := s.src.Memory(ctx)
		if s.skip("memory", err) {
			return
		}
		sample.Memory, sample.HasMemory = m, true
	})
	run(func() {
		sw, err := s.src.Swap(ctx)
		if s.skip("swap", err) {
			return
		}
		sample.Swap, sample.HasSwap = sw, true
	})
	run(func() {
		d, err := s.src.Disk(ctx, s.diskPath)
		if s.skip("disk", err) {
			return
		}
		sample.Disk, sample.HasDisk = d, true
	})
	run(func() {
		n, err := s.src.Network(ctx)
		if s.skip("network", err) {
			return
		}
		sample.Network, sample.HasNetwork = n, true
	})
	run(func() {
		f, ok, err := s.src.Fan(ctx)
		if s.skip("fan", err) {
			return
		}
		sample.Fan, sample.HasFan = f, ok
	})
	run(func() {
		c, ok, err := s.src.Temperature(ctx)
		if s.skip("temperature", err) {
			return
		}
		sample.TemperatureC, sample.HasTemperature = c, ok
	})
	run(func() {
		procs, err := s.src.Processes(ctx)
		if s.skip("processes", err) {
			return
		}
		sample.Processes, sample.HasProcesses = procs, true
	})

	var host source.HostInfo
	var hostOK bool
	if !s.hostRead {
		run(func() {
			h, err := s.src.Host(ctx)
			if err != nil {
				s.log.Debug("read host: %v", err)
			}
			host, hostOK = h, true
		})
	}

	wg.Wait()

	if hostOK {
		s.host = host
		s.hostRead = true
	}
	return sample
}

func (s *Session) skip(category string, err error) bool {
	if err == nil {
		return false
	}
	s.log.Debug("read %s: %v", category, err)
	return true
}

// compute derives the next state from sample and the stored baselines.
// Baselines are not touched here.
func (s *Session) compute(sample source.Sample) *State {
	next := &State{Time: sample.Time}

	if sample.HasCPU {
		next.HasCPU = true
		if s.hasPrevCPU {
			next.CPUPercent = metrics.SystemCPUPercent(s.prevCPU.Idle, s.prevCPU.Total, sample.CPU.Idle, sample.CPU.Total)
			s.hist.Push(history.CPU, next.CPUPercent)
		}
	}
	if sample.LogicalCPUs > 0 {
		s.table.SetLogicalCPUs(sample.LogicalCPUs)
	}
	next.LogicalCPUs = s.table.LogicalCPUs()

	if sample.HasMemory {
		next.Memory = metrics.MemoryUsage(sample.Memory.TotalKB, sample.Memory.AvailableKB)
		next.HasMemory = true
		if metrics.IsKnown(next.Memory.Percent) {
			s.hist.Push(history.Memory, next.Memory.Percent)
		}
		if sample.Memory.TotalKB > 0 {
			s.memTotalKB = sample.Memory.TotalKB
		}
	}

	if sample.HasSwap {
		if sample.Swap.TotalKnown && sample.Swap.UsedKB == 0 && sample.Swap.FreeKB > 0 {
			next.Swap = metrics.SwapFromFree(sample.Swap.TotalKB, sample.Swap.FreeKB)
		} else {
			next.Swap = metrics.SwapUsage(sample.Swap.TotalKB, sample.Swap.UsedKB, sample.Swap.TotalKnown)
		}
		next.HasSwap = true
		if metrics.IsKnown(next.Swap.Percent) {
			s.hist.Push(history.Swap, next.Swap.Percent)
		}
	}

	next.DiskPath = s.diskPath
	if sample.HasDisk {
		next.Disk = metrics.DiskUsage(sample.Disk.TotalBytes, sample.Disk.FreeBytes, sample.Disk.AvailBytes)
		next.HasDisk = true
	}

	if sample.HasNetwork {
		s.computeNetwork(sample, next)
	}

	if sample.HasFan {
		next.Fan = FanState{Present: true, Active: sample.Fan.Active, RPM: sample.Fan.RPM, Level: sample.Fan.Level}
		s.hist.Push(history.Fan, float64(sample.Fan.RPM))
	}
	if sample.HasTemperature {
		next.Thermal = ThermalState{Present: true, Celsius: sample.TemperatureC}
		s.hist.Push(history.Thermal, sample.TemperatureC)
	}

	if sample.HasProcesses {
		// Without a system reading there is nothing to difference against,
		// so the gate isn't consulted and no baseline moves.
		recompute := sample.HasCPU && s.sched.AllowProcessRecompute(sample.Time)
		s.table.Update(sample.Processes, sample.CPU, s.memTotalKB, recompute)
		next.Recomputed = recompute
	}

	s.fillDerived(next)
	return next
}

func (s *Session) computeNetwork(sample source.Sample, next *State) {
	next.HasNetwork = true
	elapsed := 0.0
	if s.prevNet != nil {
		elapsed = sample.Time.Sub(s.prevNetTime).Seconds()
	}

	names := make([]string, 0, len(sample.Network))
	for name := range sample.Network {
		names = append(names, name)
	}
	sort.Strings(names)

	anyRate := false
	for _, name := range names {
		cur := sample.Network[name]
		ir := InterfaceRate{NetInterface: cur}
		if prev, ok := s.prevNet[name]; ok && elapsed > 0 {
			ir.RxRate = metrics.Rate(prev.RxBytes, cur.RxBytes, elapsed)
			ir.TxRate = metrics.Rate(prev.TxBytes, cur.TxBytes, elapsed)
			ir.HasRate = true
			if !cur.IsLoopback() {
				next.RxRate += ir.RxRate
				next.TxRate += ir.TxRate
				anyRate = true
			}
		}
		next.Network = append(next.Network, ir)
	}

	if anyRate {
		s.hist.Push(history.NetRX, next.RxRate)
		s.hist.Push(history.NetTX, next.TxRate)
	}
}

// commit stores this poll's raw counters as the next poll's baseline.
func (s *Session) commit(sample source.Sample) {
	if sample.HasCPU {
		s.prevCPU = sample.CPU
		s.hasPrevCPU = true
	}
	if sample.HasNetwork {
		s.prevNet = sample.Network
		s.prevNetTime = sample.Time
	}
}

// fillDerived sets the fields that come from the table, scheduler and
// history rather than from the sample.
func (s *Session) fillDerived(st *State) {
	st.Source = s.sourceName
	st.Paused = s.sched.Paused()
	st.FPS = s.sched.FPS()
	st.Sort = s.sortOrder
	st.SortDesc = s.sortDesc
	st.Filter = s.table.Filter()
	st.Processes = s.table.Rows(s.sortOrder, s.sortDesc)
	st.Selected = s.table.Selected()
	st.Tasks = s.table.Counts()
	st.History = s.hist.Snapshots()
	st.YScales = make(map[history.Stream]float64, len(history.Streams))
	for _, name := range history.Streams {
		st.YScales[name] = s.sched.YScale(name)
	}
	st.Host = s.host
	st.Polls = s.polls
}

// republishLocked publishes a copy of the current state with the derived
// fields refreshed. Callers hold s.mu.
func (s *Session) republishLocked() *State {
	next := &State{}
	if cur := s.state.Load(); cur != nil {
		*next = *cur
	}
	s.fillDerived(next)
	s.state.Store(next)
	return next
}

// SetFilter changes the process filter and republishes.
func (s *Session) SetFilter(f string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.SetFilter(f)
	return s.republishLocked()
}

// ToggleSelected flips a pid's selection and republishes.
func (s *Session) ToggleSelected(pid int) (bool, *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.table.ToggleSelected(pid)
	return sel, s.republishLocked()
}

// SetSort changes the process ordering and republishes.
func (s *Session) SetSort(order process.SortOrder, desc bool) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortOrder = order
	s.sortDesc = desc
	return s.republishLocked()
}

// TogglePause flips the shared pause flag and republishes.
func (s *Session) TogglePause() (bool, *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.sched.TogglePause()
	return p, s.republishLocked()
}

// SetFPS changes the refresh-rate intent and republishes.
func (s *Session) SetFPS(n int) (int, *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fps := s.sched.SetFPS(n)
	return fps, s.republishLocked()
}

// AdjustYScale moves a stream's Y-scale by step and republishes.
func (s *Session) AdjustYScale(stream history.Stream, step float64) (float64, *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.sched.AdjustYScale(stream, step)
	return v, s.republishLocked()
}

// ClearSelection drops every selected pid and republishes.
func (s *Session) ClearSelection() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.ClearSelection()
	return s.republishLocked()
}

// ClearHistory empties every graph and republishes. Baselines are kept, so
// the next poll still produces rates.
func (s *Session) ClearHistory() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hist.Reset()
	return s.republishLocked()
}

// RescanSensors asks the source to search for fan and thermal sensors again
// on the next poll. It reports false when the source doesn't cache them.
func (s *Session) RescanSensors() bool {
	r, ok := s.src.(source.Rescanner)
	if !ok {
		return false
	}
	r.Rescan()
	return true
}
