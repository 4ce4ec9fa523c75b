// Package history keeps a fixed-size sliding window of motor positions.
package history

// DefaultCapacity is the number of positions kept for plotting.
const DefaultCapacity = 50

// Buffer is a fixed-capacity FIFO of positions. Its length never changes:
// it starts filled with zeros and every Push evicts the oldest value.
// Buffer is not safe for concurrent use.
type Buffer struct {
	data []float64
	head int // index of the oldest value
}

// New returns a buffer of capacity n filled with zeros. n < 1 is treated as 1.
func New(n int) *Buffer {
	if n < 1 {
		n = 1
	}
	return &Buffer{data: make([]float64, n)}
}

func (b *Buffer) Len() int { return len(b.data) }

// Push appends v and drops the oldest value.
func (b *Buffer) Push(v float64) {
	b.data[b.head] = v
	b.head = (b.head + 1) % len(b.data)
}

// Last returns the most recently pushed value.
func (b *Buffer) Last() float64 {
	return b.data[(b.head+len(b.data)-1)%len(b.data)]
}

// Values copies the window out, oldest first.
func (b *Buffer) Values() []float64 {
	out := make([]float64, len(b.data))
	n := copy(out, b.data[b.head:])
	copy(out[n:], b.data[:b.head])
	return out
}

// Reset refills the buffer with zeros.
func (b *Buffer) Reset() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.head = 0
}
