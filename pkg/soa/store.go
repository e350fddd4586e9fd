package soa

import (
	"sync/atomic"
)

// shared is one reference-counted column model snapshot.
type shared[T any] struct {
	refs   atomic.Int64
	kernel *T
}

func newShared[T any](kernel *T) *shared[T] {
	c := &shared[T]{kernel: kernel}
	c.refs.Store(1)
	return c
}

// Store is a copy-on-write handle around one column model.
//
// Handles returned by Clone share the underlying model until one of them
// writes. Writes go through Add or KernelMut, which first give the handle a
// private copy when the snapshot is shared.
type Store[T any, P Kernel[T, R], R any] struct {
	cell *shared[T]
}

// NewStore wraps kernel in a uniquely owned Store. The caller must not
// retain kernel.
func NewStore[T any, P Kernel[T, R], R any](kernel *T) *Store[T, P, R] {
	return &Store[T, P, R]{cell: newShared(kernel)}
}

// Clone returns a new handle sharing this handle's snapshot. It never copies
// column data.
func (s *Store[T, P, R]) Clone() *Store[T, P, R] {
	s.cell.refs.Add(1)
	return &Store[T, P, R]{cell: s.cell}
}

// Add appends row, copying the snapshot first if it is shared, and returns
// the new row index.
func (s *Store[T, P, R]) Add(row R) int {
	return s.KernelMut().Push(row)
}

// Kernel returns the current snapshot for reading. The result must not be
// mutated; use KernelMut for that.
func (s *Store[T, P, R]) Kernel() P {
	return P(s.cell.kernel)
}

// KernelMut returns the column model for writing, giving this handle a
// private deep copy first if any other handle shares the snapshot.
func (s *Store[T, P, R]) KernelMut() P {
	if s.cell.refs.Load() > 1 {
		private := newShared(P(s.cell.kernel).Clone())
		s.cell.refs.Add(-1)
		s.cell = private
	}
	return P(s.cell.kernel)
}

// Replace swaps in kernel as this handle's snapshot. Other handles keep
// the previous one.
func (s *Store[T, P, R]) Replace(kernel *T) {
	s.cell.refs.Add(-1)
	s.cell = newShared(kernel)
}

// Len returns the row count of the current snapshot.
func (s *Store[T, P, R]) Len() int {
	return s.Kernel().Len()
}

// Shared reports whether another handle currently shares the snapshot.
func (s *Store[T, P, R]) Shared() bool {
	return s.cell.refs.Load() > 1
}

// Release drops this handle's reference. The handle must not be used
// afterwards. Releasing lets the last remaining sharer write without
// copying.
func (s *Store[T, P, R]) Release() {
	if s.cell == nil {
		return
	}
	s.cell.refs.Add(-1)
	s.cell = nil
}
