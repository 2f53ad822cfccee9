package history

import "sync"

// Stream names a graphed metric.
type Stream string

const (
	CPU     Stream = "cpu"
	Memory  Stream = "memory"
	Swap    Stream = "swap"
	Thermal Stream = "thermal"
	Fan     Stream = "fan"
	NetRX   Stream = "net_rx"
	NetTX   Stream = "net_tx"
)

// Streams lists every stream in display order.
var Streams = []Stream{CPU, Memory, Swap, Thermal, Fan, NetRX, NetTX}

// Set holds one float buffer per stream, all sharing a single pauser.
// It is safe for concurrent use.
type Set struct {
	mu      sync.RWMutex
	buffers map[Stream]*Buffer[float64]
}

// NewSet creates a buffer of the given capacity for every known stream.
func NewSet(capacity int, pauser Pauser) *Set {
	s := &Set{buffers: make(map[Stream]*Buffer[float64], len(Streams))}
	for _, name := range Streams {
		s.buffers[name] = New[float64](capacity, pauser)
	}
	return s
}

// Push appends v to the named stream. Unknown streams are ignored.
func (s *Set) Push(name Stream, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buffers[name]; ok {
		b.Push(v)
	}
}

// Snapshots copies every stream as graph points, oldest first.
func (s *Set) Snapshots() map[Stream][]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Stream][]float64, len(s.buffers))
	for name, b := range s.buffers {
		out[name] = Floats(b)
	}
	return out
}

// Latest returns the newest value of the named stream, or 0.
func (s *Set) Latest(name Stream) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.buffers[name]; ok {
		return b.Latest()
	}
	return 0
}

// Len returns the number of values stored for the named stream.
func (s *Set) Len(name Stream) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.buffers[name]; ok {
		return b.Len()
	}
	return 0
}

// Reset clears every stream.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.buffers {
		b.Reset()
	}
}
