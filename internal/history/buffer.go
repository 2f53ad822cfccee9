// Package history keeps bounded, chronologically ordered series of metric
// samples for the dashboard graphs.
package history

// DefaultCapacity is the number of samples retained per stream when no
// capacity is configured.
const DefaultCapacity = 100

// Pauser reports whether sampling is currently paused. Buffers consult it on
// every push so a single flag can freeze every stream at once.
type Pauser interface {
	Paused() bool
}

// Number is the set of element types that can be converted to graph points.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Buffer is a fixed-size circular buffer. It is not safe for concurrent use;
// Set adds the locking.
type Buffer[T any] struct {
	data   []T
	head   int
	count  int
	pauser Pauser
}

// New creates a buffer holding at most capacity values. A nil pauser means the
// buffer is never paused.
func New[T any](capacity int, pauser Pauser) *Buffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer[T]{
		data:   make([]T, capacity),
		pauser: pauser,
	}
}

// Push appends v, evicting the oldest value once the buffer is full.
// It is a no-op while paused.
func (b *Buffer[T]) Push(v T) {
	if b.pauser != nil && b.pauser.Paused() {
		return
	}
	b.data[b.head] = v
	b.head = (b.head + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
	}
}

// Snapshot returns a copy of the stored values, oldest first.
func (b *Buffer[T]) Snapshot() []T {
	return b.Last(b.count)
}

// Last returns up to n of the newest values in chronological order.
func (b *Buffer[T]) Last(n int) []T {
	if n <= 0 || b.count == 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}

	size := len(b.data)
	out := make([]T, n)
	// head is the next write position, so the newest value sits at head-1.
	start := (b.head - n + size) % size
	for i := 0; i < n; i++ {
		out[i] = b.data[(start+i)%size]
	}
	return out
}

// Latest returns the newest value, or the zero value when empty.
func (b *Buffer[T]) Latest() T {
	var zero T
	if b.count == 0 {
		return zero
	}
	return b.data[(b.head-1+len(b.data))%len(b.data)]
}

// Len returns the number of stored values.
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int { return len(b.data) }

// Reset drops every stored value. Reset ignores the pause flag.
func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.data {
		b.data[i] = zero
	}
	b.head = 0
	b.count = 0
}

// Floats returns the buffer's values as float64 graph points, oldest first.
func Floats[T Number](b *Buffer[T]) []float64 {
	if b.count == 0 {
		return nil
	}
	size := len(b.data)
	start := (b.head - b.count + size) % size
	out := make([]float64, b.count)
	for i := range out {
		out[i] = float64(b.data[(start+i)%size])
	}
	return out
}
