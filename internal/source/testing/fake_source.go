// Package testing provides a scripted CounterSource for tests.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/hostmon/internal/source"
)

// Frame is one poll's worth of scripted counters. Nil error fields mean the
// read succeeds.
type Frame struct {
	CPU         source.CPUTicks
	CPUErr      error
	LogicalCPUs int

	Processes    []source.ProcessCounters
	ProcessesErr error

	Memory    source.MemoryTotals
	MemoryErr error

	Swap    source.SwapTotals
	SwapErr error

	Disk    source.DiskTotals
	DiskErr error

	Network    map[string]source.NetInterface
	NetworkErr error

	Fan        source.FanReading
	HasFan     bool
	FanErr     error
	TempC      float64
	HasTemp    bool
	TempErr    error
	Host       source.HostInfo
	HostErr    error
}

// FakeSource replays frames. Every CounterSource method reads from the
// current frame; Advance moves to the next one. Once the script runs out,
// the last frame repeats. It is safe for concurrent use.
type FakeSource struct {
	mu     sync.Mutex
	frames []Frame
	pos    int
	calls  map[string]int
	paths  []string
}

// NewFakeSource creates a source that replays frames in order.
func NewFakeSource(frames ...Frame) *FakeSource {
	if len(frames) == 0 {
		frames = []Frame{{}}
	}
	return &FakeSource{frames: frames, calls: make(map[string]int)}
}

// Append adds frames to the end of the script.
func (f *FakeSource) Append(frames ...Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frames...)
}

// Advance moves to the next frame.
func (f *FakeSource) Advance() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pos < len(f.frames)-1 {
		f.pos++
	}
}

// Calls returns how many times the named method was called.
func (f *FakeSource) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// DiskPaths returns the paths Disk was asked about, in call order.
func (f *FakeSource) DiskPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

func (f *FakeSource) frame(method string) Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.frames[f.pos]
}

func (f *FakeSource) SystemCPU(ctx context.Context) (source.CPUTicks, error) {
	fr := f.frame("SystemCPU")
	return fr.CPU, fr.CPUErr
}

func (f *FakeSource) LogicalCPUs(ctx context.Context) (int, error) {
	fr := f.frame("LogicalCPUs")
	if fr.LogicalCPUs == 0 {
		return 1, nil
	}
	return fr.LogicalCPUs, nil
}

func (f *FakeSource) Processes(ctx context.Context) ([]source.ProcessCounters, error) {
	fr := f.frame("Processes")
	if fr.ProcessesErr != nil {
		return nil, fr.ProcessesErr
	}
	return append([]source.ProcessCounters(nil), fr.Processes...), nil
}

func (f *FakeSource) Memory(ctx context.Context) (source.MemoryTotals, error) {
	fr := f.frame("Memory")
	return fr.Memory, fr.MemoryErr
}

func (f *FakeSource) Swap(ctx context.Context) (source.SwapTotals, error) {
	fr := f.frame("Swap")
	return fr.Swap, fr.SwapErr
}

func (f *FakeSource) Disk(ctx context.Context, path string) (source.DiskTotals, error) {
	fr := f.frame("Disk")
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	d := fr.Disk
	d.Path = path
	return d, fr.DiskErr
}

func (f *FakeSource) Network(ctx context.Context) (map[string]source.NetInterface, error) {
	fr := f.frame("Network")
	if fr.NetworkErr != nil {
		return nil, fr.NetworkErr
	}
	out := make(map[string]source.NetInterface, len(fr.Network))
	for k, v := range fr.Network {
		v.Name = k
		out[k] = v
	}
	return out, nil
}

func (f *FakeSource) Fan(ctx context.Context) (source.FanReading, bool, error) {
	fr := f.frame("Fan")
	return fr.Fan, fr.HasFan, fr.FanErr
}

func (f *FakeSource) Temperature(ctx context.Context) (float64, bool, error) {
	fr := f.frame("Temperature")
	return fr.TempC, fr.HasTemp, fr.TempErr
}

func (f *FakeSource) Host(ctx context.Context) (source.HostInfo, error) {
	fr := f.frame("Host")
	return fr.Host, fr.HostErr
}

// Rescan only counts the call; Calls("Rescan") reports it.
func (f *FakeSource) Rescan() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Rescan"]++
}

var (
	_ source.CounterSource = (*FakeSource)(nil)
	_ source.Rescanner     = (*FakeSource)(nil)
)
