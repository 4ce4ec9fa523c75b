package sim

import (
	"sync"

	"github.com/san-kum/stepsim/internal/motor"
)

// Queue is an unbounded FIFO of commands. Any number of goroutines may
// Enqueue; the simulation loop is the single consumer.
type Queue struct {
	mu    sync.Mutex
	items []motor.Command
}

func NewQueue() *Queue {
	return &Queue{items: make([]motor.Command, 0, 16)}
}

// Enqueue never blocks.
func (q *Queue) Enqueue(c motor.Command) {
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
}

// DrainAll removes and returns every pending command in FIFO order.
// It returns an empty slice when nothing is pending.
func (q *Queue) DrainAll() []motor.Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return []motor.Command{}
	}
	out := q.items
	q.items = make([]motor.Command, 0, cap(out))
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
