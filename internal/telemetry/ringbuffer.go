package telemetry

// CircularBuffer keeps the most recent capacity items in insertion
// order. Not safe for concurrent use; callers hold their own lock.
type CircularBuffer[T any] struct {
	items    []T
	capacity int
	start    int
	size     int
}

// NewCircularBuffer creates a buffer holding at most capacity items.
func NewCircularBuffer[T any](capacity int) *CircularBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &CircularBuffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends an item, evicting the oldest when full.
func (b *CircularBuffer[T]) Add(item T) {
	end := (b.start + b.size) % b.capacity
	b.items[end] = item
	if b.size < b.capacity {
		b.size++
	} else {
		b.start = (b.start + 1) % b.capacity
	}
}

// Items returns the buffered items oldest first.
func (b *CircularBuffer[T]) Items() []T {
	out := make([]T, 0, b.size)
	for i := 0; i < b.size; i++ {
		out = append(out, b.items[(b.start+i)%b.capacity])
	}
	return out
}

// Len reports how many items are buffered.
func (b *CircularBuffer[T]) Len() int { return b.size }

// Clear drops all buffered items.
func (b *CircularBuffer[T]) Clear() {
	b.start = 0
	b.size = 0
}
