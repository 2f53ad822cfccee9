// Package scheduler holds the timing state shared by every graphed metric:
// the pause flag, the refresh-rate intent, the per-stream Y-scales, and the
// gate that keeps per-process CPU recomputation at or above half a second.
package scheduler

import (
	"sync"
	"time"

	"github.com/rileyhilliard/hostmon/internal/history"
)

const (
	// MinProcessInterval is the shortest gap between two per-process CPU
	// recomputations. Process tick counters don't resolve finer than this.
	MinProcessInterval = 500 * time.Millisecond

	MinFPS     = 1
	MaxFPS     = 144
	DefaultFPS = 10
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Range bounds a Y-scale.
type Range struct {
	Min, Max float64
}

func (r Range) clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

type scale struct {
	rng   Range
	value float64
}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	mu              sync.Mutex
	clock           Clock
	paused          bool
	fps             int
	processInterval time.Duration
	lastRecompute   time.Time
	recomputed      bool
	scales          map[history.Stream]*scale
}

// New creates a scheduler running at DefaultFPS with the default scale
// ranges registered. A nil clock uses the system clock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	s := &Scheduler{
		clock:           clock,
		fps:             DefaultFPS,
		processInterval: MinProcessInterval,
		scales:          make(map[history.Stream]*scale),
	}
	for name, d := range DefaultScales() {
		s.RegisterScale(name, d.Range, d.Value)
	}
	return s
}

// Paused implements history.Pauser.
func (s *Scheduler) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetPaused sets the pause flag.
func (s *Scheduler) SetPaused(p bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = p
}

// TogglePause flips the pause flag and returns the new value.
func (s *Scheduler) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	return s.paused
}

// FPS returns the refresh-rate intent.
func (s *Scheduler) FPS() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

// SetFPS stores n clamped to [MinFPS, MaxFPS] and returns the stored value.
func (s *Scheduler) SetFPS(n int) int {
	if n < MinFPS {
		n = MinFPS
	}
	if n > MaxFPS {
		n = MaxFPS
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fps = n
	return n
}

// Interval is the UI tick period for the current FPS.
func (s *Scheduler) Interval() time.Duration {
	return time.Second / time.Duration(s.FPS())
}

// SetProcessInterval raises the recompute gate. Values below
// MinProcessInterval are ignored.
func (s *Scheduler) SetProcessInterval(d time.Duration) {
	if d < MinProcessInterval {
		d = MinProcessInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processInterval = d
}

// ProcessInterval returns the current recompute gate.
func (s *Scheduler) ProcessInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processInterval
}

// AllowProcessRecompute reports whether per-process CPU percentages may be
// recomputed at now. It returns true on the first call and whenever at least
// the process interval has passed since the last true result, and latches
// now when it does. It ignores both FPS and the pause flag.
func (s *Scheduler) AllowProcessRecompute(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recomputed && now.Sub(s.lastRecompute) < s.processInterval {
		return false
	}
	s.recomputed = true
	s.lastRecompute = now
	return true
}

// Now reads the scheduler's clock.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// RegisterScale declares a stream's allowed range and initial value,
// replacing any earlier registration.
func (s *Scheduler) RegisterScale(name history.Stream, rng Range, initial float64) {
	if rng.Max < rng.Min {
		rng.Min, rng.Max = rng.Max, rng.Min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scales[name] = &scale{rng: rng, value: rng.clamp(initial)}
}

// YScale returns the stream's current Y-axis maximum, or 0 when the stream
// has no registered scale (the renderer then auto-scales).
func (s *Scheduler) YScale(name history.Stream) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.scales[name]; ok {
		return sc.value
	}
	return 0
}

// ScaleRange returns the stream's registered range.
func (s *Scheduler) ScaleRange(name history.Stream) (Range, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scales[name]
	if !ok {
		return Range{}, false
	}
	return sc.rng, true
}

// SetYScale stores v clamped to the stream's range and returns the stored
// value. Unregistered streams are left alone and return 0.
func (s *Scheduler) SetYScale(name history.Stream, v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.scales[name]
	if !ok {
		return 0
	}
	sc.value = sc.rng.clamp(v)
	return sc.value
}

// AdjustYScale moves the stream's scale by step, clamped to its range.
func (s *Scheduler) AdjustYScale(name history.Stream, step float64) float64 {
	return s.SetYScale(name, s.YScale(name)+step)
}
