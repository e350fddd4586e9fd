// Package soa is a structure-of-arrays columnar engine for Go. A record type
// is declared once in a YAML shape file and soagen generates its column
// model: one contiguous slice per field, borrowed views over a row, a
// copy-on-write store, a hash-sharded store and an Arrow codec that lets the
// model be persisted in memory or as Parquet.
//
// # Architecture
//
// The engine is built in layers:
//
// 1. Shapes: pkg/schema parses and validates a shape file (record name, key
// field, shard count, enums and typed fields) and fingerprints it.
//
// 2. Generation: pkg/codegen renders the column model for a shape. The
// generated code only depends on pkg/soa and pkg/persistence.
//
// 3. Stores: pkg/soa holds the generic kernel constraint, the copy-on-write
// Store, the ShardedStore and roaring-bitmap column scans.
//
// 4. Persistence: pkg/persistence converts column models to Arrow records
// through a Codec and keeps them in an in-memory batch list (with compressed
// IPC snapshots) or in a single Parquet file.
//
// # Quick Start
//
// Describe the record:
//
//	package: orders
//	record: Order
//	key: order_id
//	shards: 16
//	enums:
//	  - name: OrderStatus
//	    variants: [Pending, Processing, Shipped, Delivered]
//	fields:
//	  - {name: order_id, type: uint64}
//	  - {name: quantity, type: uint32}
//	  - {name: status, type: OrderStatus}
//
// Generate the model:
//
//	soagen generate --schema order.soa.yaml --out order_soa.go
//
// Use it:
//
//	s := orders.NewOrderSoA()
//	s.Push(orders.Order{OrderID: 1, Quantity: 2, Status: orders.OrderStatusShipped})
//
//	p, _ := persistence.NewParquetPersistence[*orders.OrderSoA]("./data", orders.OrderCodec{})
//	_ = p.Save(ctx, s)
//
// # Key Packages
//
//	pkg/schema        - Shape files, field types and naming rules
//	pkg/codegen       - Column model generator
//	pkg/soa           - Kernel constraint, Store, ShardedStore, scans
//	pkg/persistence   - Arrow codecs, memory and Parquet backends
//	pkg/compression   - Stream codecs for snapshots
//	pkg/config        - YAML and environment configuration
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus collectors
//	pkg/observability - OpenTelemetry tracing
//
// # Configuration
//
// soagen and persistence.Open read a YAML file whose sections are logging,
// storage, tracing and generator. Every key can be overridden with an
// environment variable prefixed with SOA_, for example SOA_STORAGE_BACKEND.
//
// # Development
//
// Regenerate the example model and run the tests:
//
//	go generate ./internal/orders
//	go test ./...
//	go test -short ./...   # skips the dataset integration suite
package soa
