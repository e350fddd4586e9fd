package soa

import "slices"

// point is a minimal column model used by the container tests.
type point struct {
	ID uint64
	X  float64
}

type pointSoA struct {
	ID []uint64
	X  []float64
}

func newPointSoA(capacity int) *pointSoA {
	return &pointSoA{
		ID: make([]uint64, 0, capacity),
		X:  make([]float64, 0, capacity),
	}
}

func (s *pointSoA) Len() int { return len(s.ID) }

func (s *pointSoA) Push(p point) int {
	s.ID = append(s.ID, p.ID)
	s.X = append(s.X, p.X)
	return len(s.ID) - 1
}

func (s *pointSoA) Clone() *pointSoA {
	return &pointSoA{ID: slices.Clone(s.ID), X: slices.Clone(s.X)}
}

type pointStore = Store[pointSoA, *pointSoA, point]

type pointShardedStore = ShardedStore[pointSoA, *pointSoA, point, uint64]

func newPointStore() *pointStore {
	return NewStore[pointSoA, *pointSoA, point](newPointSoA(0))
}

func newPointShardedStore(n int) (*pointShardedStore, error) {
	return NewShardedStore[pointSoA, *pointSoA, point, uint64](n, 8, newPointSoA, func(p point) uint64 { return p.ID })
}
