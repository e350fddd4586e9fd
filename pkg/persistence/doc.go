// Package persistence moves generated column models across an Apache Arrow
// record batch boundary and stores the batches either in memory or in a
// Parquet file.
//
// # Overview
//
// Every backend implements Persistence:
//
//	Save    replace all stored content
//	Load    merge stored batches in insertion order and decode
//	Append  add rows after the existing content
//	Query   load, then keep the result only if a predicate accepts it
//	Count   stored rows; metadata only for Parquet
//	Clear   remove all content
//
// A Codec, emitted by the code generator for each record shape, converts
// between the column model and an arrow.Record. Enumerations are encoded as
// uint8 columns carrying their variant table in field metadata; decoding a
// code outside the table fails with a type_conversion error, and a table
// that differs from the one the codec was generated with fails with
// schema_mismatch.
//
// # Backends
//
// MemoryPersistence keeps an ordered list of batches behind a read/write
// lock. It can export and import that list as a compressed Arrow IPC
// stream.
//
// ParquetPersistence keeps one file, data.parquet, per dataset directory.
// Save writes a temporary file and renames it into place, so readers see
// either the old or the new content. Append rewrites the whole file.
// Concurrent writers to one directory are not serialized.
//
// # Usage
//
//	p, err := persistence.NewParquetPersistence(dir, orders.OrderCodec{},
//	    persistence.WithCompression(compression.Zstd))
//	if err != nil {
//	    return err
//	}
//	if err := p.Save(ctx, store.Kernel()); err != nil {
//	    return err
//	}
//	data, found, err := p.Load(ctx)
package persistence
