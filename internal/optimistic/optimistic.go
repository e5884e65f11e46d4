package optimistic

import "sync"

// Cell holds a value that may be changed optimistically.
type Cell[T any] struct {
	mu        sync.Mutex
	current   T
	confirmed T
	seq       uint64
}

// NewCell returns a Cell whose current and confirmed values are initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{current: initial, confirmed: initial}
}

// Get returns the current value, including any pending change.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Confirmed returns the last committed value.
func (c *Cell[T]) Confirmed() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed
}

// Change is a pending optimistic update.
type Change[T any] struct {
	cell  *Cell[T]
	seq   uint64
	prior T
	next  T
}

// Begin makes next the current value and returns the pending change.
func (c *Cell[T]) Begin(next T) *Change[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	change := &Change[T]{cell: c, seq: c.seq, prior: c.current, next: next}
	c.current = next
	return change
}

// Commit confirms the change. Committing a superseded change only updates
// the confirmed value.
func (ch *Change[T]) Commit() {
	c := ch.cell
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed = ch.next
}

// Rollback restores the value seen before Begin. It reports false when a
// newer change has superseded this one, in which case nothing is restored.
func (ch *Change[T]) Rollback() bool {
	c := ch.cell
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq != ch.seq {
		return false
	}
	c.current = ch.prior
	return true
}

// Update begins a change to next, runs apply, and commits or rolls back
// depending on its result.
func (c *Cell[T]) Update(next T, apply func(T) error) error {
	change := c.Begin(next)
	if err := apply(next); err != nil {
		change.Rollback()
		return err
	}
	change.Commit()
	return nil
}
