// Package soa provides the runtime containers for generated
// structure-of-arrays column models.
//
// # Overview
//
// A column model is a generated struct holding one slice per record field
// (see cmd/soagen). This package wraps such models in two ownership
// patterns:
//
//   - Store: a copy-on-write handle. Cloning is a reference-count increment;
//     the first mutation through a shared handle deep-copies the model so
//     readers of the earlier snapshot never observe the write.
//   - ShardedStore: a fixed number of independently owned models, each
//     padded to its own cache line, with rows routed by a hash of a key
//     field.
//
// It also provides bulk scan helpers (Where, SumWhere, Gather) that work
// directly on raw column slices and express row selections as roaring
// bitmaps.
//
// # Basic Usage
//
//	store := orders.NewOrderStore()
//	store.Add(orders.Order{OrderID: 1, Quantity: 2})
//
//	snapshot := store.Clone()
//	store.Add(orders.Order{OrderID: 2})
//	// snapshot.Kernel().Len() == 1, store.Kernel().Len() == 2
//
// # Thread Safety
//
// A single handle must not be used from multiple goroutines at once.
// Distinct Store handles may be used concurrently, including handles that
// share one snapshot. For ShardedStore, different shards may be mutated
// concurrently; the same shard requires external synchronization.
package soa
