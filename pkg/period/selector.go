package period

import (
	"sync/atomic"
	"time"
)

// Selector is the current index into a Table.
//
// Only the command handler moves it (Slower/Faster), while the
// indicator loop reads it when a cycle completes. The index lives in
// an atomic cell so the reader always observes a whole value.
type Selector struct {
	table *Table
	index atomic.Int32
}

// NewSelector creates a Selector at index 0 of table.
func NewSelector(table *Table) *Selector {
	return NewSelectorAt(table, 0)
}

// NewSelectorAt creates a Selector starting at index (wrapped).
func NewSelectorAt(table *Table, index int) *Selector {
	s := &Selector{table: table}
	s.index.Store(int32(Wrap(index)))
	return s
}

// Table returns the table the selector indexes.
func (s *Selector) Table() *Table {
	return s.table
}

// Index returns the current index.
func (s *Selector) Index() int {
	return int(s.index.Load())
}

// Period returns the period at the current index.
func (s *Selector) Period() time.Duration {
	return s.table.At(s.Index())
}

// Slower steps to the next longer period, wrapping from the last entry
// back to the first. It returns the new index.
func (s *Selector) Slower() int {
	return s.step(1)
}

// Faster steps to the next shorter period, wrapping from the first entry
// to the last. It returns the new index.
func (s *Selector) Faster() int {
	return s.step(-1)
}

func (s *Selector) step(delta int) int {
	next := Wrap(s.Index() + delta)
	s.index.Store(int32(next))
	return next
}
