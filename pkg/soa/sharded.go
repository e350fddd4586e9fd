package soa

import (
	"context"
	"hash/maphash"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"

	"github.com/ajitpratap0/soa/pkg/errors"
)

// paddedShard keeps each shard's column headers on their own cache lines so
// pushes into neighbouring shards from different goroutines do not contend.
type paddedShard[T any] struct {
	_      cpu.CacheLinePad
	kernel T
	_      cpu.CacheLinePad
}

// ShardedStore owns a fixed number of independent column models and routes
// each row to one of them by hashing its key field.
//
// The hash seed is chosen per instance: a key always maps to the same shard
// within one ShardedStore, but not across instances or processes.
type ShardedStore[T any, P Kernel[T, R], R any, K comparable] struct {
	shards []paddedShard[T]
	key    func(R) K
	seed   maphash.Seed
}

// NewShardedStore allocates n shards, each created by newKernel with
// capPerShard reserved rows. key extracts the sharding key from a row.
func NewShardedStore[T any, P Kernel[T, R], R any, K comparable](
	n, capPerShard int,
	newKernel func(capacity int) *T,
	key func(R) K,
) (*ShardedStore[T, P, R, K], error) {
	if n < 1 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "shard count must be at least 1, got %d", n)
	}

	s := &ShardedStore[T, P, R, K]{
		shards: make([]paddedShard[T], n),
		key:    key,
		seed:   maphash.MakeSeed(),
	}
	for i := range s.shards {
		s.shards[i].kernel = *newKernel(capPerShard)
	}
	return s, nil
}

// ShardFor returns the shard index a key routes to.
func (s *ShardedStore[T, P, R, K]) ShardFor(key K) int {
	return int(maphash.Comparable(s.seed, key) % uint64(len(s.shards)))
}

// Add pushes row into the shard selected by its key and returns the shard
// index and the row index within that shard.
func (s *ShardedStore[T, P, R, K]) Add(row R) (shard, index int) {
	shard = s.ShardFor(s.key(row))
	index = P(&s.shards[shard].kernel).Push(row)
	return shard, index
}

// Shard returns shard i for reading.
func (s *ShardedStore[T, P, R, K]) Shard(i int) (P, error) {
	if i < 0 || i >= len(s.shards) {
		return nil, errors.ShardIndexOutOfRange(i, len(s.shards))
	}
	return P(&s.shards[i].kernel), nil
}

// ShardMut returns shard i for writing. Different shards may be mutated from
// different goroutines; the same shard may not.
func (s *ShardedStore[T, P, R, K]) ShardMut(i int) (P, error) {
	return s.Shard(i)
}

// ShardCount returns the number of shards.
func (s *ShardedStore[T, P, R, K]) ShardCount() int {
	return len(s.shards)
}

// Len returns the total number of rows. It reads shards one after another
// and is not an atomic snapshot across shards.
func (s *ShardedStore[T, P, R, K]) Len() int {
	total := 0
	for i := range s.shards {
		total += P(&s.shards[i].kernel).Len()
	}
	return total
}

// ForEachShard calls fn once per shard, concurrently, and returns the first
// error. The context passed to fn is cancelled as soon as any call fails.
// fn owns its shard for the duration of the call.
func (s *ShardedStore[T, P, R, K]) ForEachShard(ctx context.Context, fn func(ctx context.Context, i int, shard P) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range s.shards {
		shard := P(&s.shards[i].kernel)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, i, shard)
		})
	}
	return g.Wait()
}
