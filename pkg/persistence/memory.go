package persistence

import (
	"context"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/soa/pkg/errors"
)

// MemoryStats summarizes the batches held by a MemoryPersistence.
type MemoryStats struct {
	TotalBytes   int64 `json:"total_bytes"`
	TotalRows    int64 `json:"total_rows"`
	NumBatches   int   `json:"num_batches"`
	AvgBatchSize int64 `json:"avg_batch_size"`
}

// MemoryPersistence stores record batches in process memory. It is safe for
// concurrent use; writers hold an exclusive lock, readers a shared one.
type MemoryPersistence[T any] struct {
	codec Codec[T]
	opts  options

	mu      sync.RWMutex
	batches []arrow.Record
}

// NewMemoryPersistence creates an empty in-memory backend.
func NewMemoryPersistence[T any](codec Codec[T], opts ...Option) *MemoryPersistence[T] {
	return &MemoryPersistence[T]{
		codec: codec,
		opts:  newOptions(opts),
	}
}

// Save replaces the batch list with the encoding of data.
func (p *MemoryPersistence[T]) Save(ctx context.Context, data T) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "save")
	defer func() { op.end(err) }()

	rec, err := p.encode(data)
	if err != nil {
		return err
	}
	op.rows(rec.NumRows())

	p.mu.Lock()
	p.replaceLocked([]arrow.Record{rec})
	p.mu.Unlock()

	p.observeSize()
	return nil
}

// Load merges all batches in insertion order and decodes the result.
func (p *MemoryPersistence[T]) Load(ctx context.Context) (data T, found bool, err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "load")
	defer func() { op.end(err) }()

	merged, found, err := p.merge()
	if err != nil || !found {
		return data, false, err
	}
	defer merged.Release()

	op.rows(merged.NumRows())
	data, err = p.codec.Decode(merged)
	if err != nil {
		return data, false, err
	}
	return data, true, nil
}

// Append adds the encoding of data as a new batch.
func (p *MemoryPersistence[T]) Append(ctx context.Context, data T) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "append")
	defer func() { op.end(err) }()

	rec, err := p.encode(data)
	if err != nil {
		return err
	}
	op.rows(rec.NumRows())

	p.mu.Lock()
	p.batches = append(p.batches, rec)
	p.mu.Unlock()

	p.observeSize()
	return nil
}

// Query loads the data and returns it only if pred accepts it.
func (p *MemoryPersistence[T]) Query(ctx context.Context, pred func(T) bool) (T, bool, error) {
	return query[T](ctx, p, pred)
}

// Count sums the rows of all batches.
func (p *MemoryPersistence[T]) Count(ctx context.Context) (n int64, err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "count")
	defer func() { op.end(err) }()

	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, rec := range p.batches {
		n += rec.NumRows()
	}
	op.rows(n)
	return n, nil
}

// Clear releases all batches.
func (p *MemoryPersistence[T]) Clear(ctx context.Context) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "clear")
	defer func() { op.end(err) }()

	p.mu.Lock()
	p.replaceLocked(nil)
	p.mu.Unlock()

	p.observeSize()
	return nil
}

// IsEmpty reports whether no rows are stored.
func (p *MemoryPersistence[T]) IsEmpty(ctx context.Context) (bool, error) {
	return isEmpty[T](ctx, p)
}

// Batches returns the stored batches in insertion order. Each record is
// retained for the caller, who must release it.
func (p *MemoryPersistence[T]) Batches() []arrow.Record {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]arrow.Record, len(p.batches))
	for i, rec := range p.batches {
		rec.Retain()
		out[i] = rec
	}
	return out
}

// MergeBatches returns all batches concatenated into one record, or false if
// none are stored. The caller releases the record.
func (p *MemoryPersistence[T]) MergeBatches(ctx context.Context) (rec arrow.Record, found bool, err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "merge")
	defer func() { op.end(err) }()

	return p.merge()
}

// SaveBatches replaces the batch list with one encoded batch per item.
func (p *MemoryPersistence[T]) SaveBatches(ctx context.Context, items []T) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "save_batches")
	defer func() { op.end(err) }()

	recs, err := p.encodeAll(items)
	if err != nil {
		return err
	}
	op.rows(rowsOf(recs))

	p.mu.Lock()
	p.replaceLocked(recs)
	p.mu.Unlock()

	p.observeSize()
	return nil
}

// AppendBatches adds one encoded batch per item after the existing batches.
func (p *MemoryPersistence[T]) AppendBatches(ctx context.Context, items []T) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "append_batches")
	defer func() { op.end(err) }()

	recs, err := p.encodeAll(items)
	if err != nil {
		return err
	}
	op.rows(rowsOf(recs))

	p.mu.Lock()
	p.batches = append(p.batches, recs...)
	p.mu.Unlock()

	p.observeSize()
	return nil
}

// LoadBatches decodes the stored rows in chunks of at most batchSize rows,
// sliced as LoadRecords slices them.
func (p *MemoryPersistence[T]) LoadBatches(ctx context.Context, batchSize int) ([]T, error) {
	recs, err := p.LoadRecords(ctx, batchSize)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()

	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		item, err := p.codec.Decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// SaveRecords replaces the batch list with recs. Every record must match
// the codec schema; the backend retains them.
func (p *MemoryPersistence[T]) SaveRecords(ctx context.Context, recs []arrow.Record) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "save_records")
	defer func() { op.end(err) }()

	if err := p.checkBatches(recs); err != nil {
		return err
	}
	retainAll(recs)
	op.rows(rowsOf(recs))

	p.mu.Lock()
	p.replaceLocked(append([]arrow.Record(nil), recs...))
	p.mu.Unlock()

	p.observeSize()
	return nil
}

// AppendRecords adds recs after the existing batches.
func (p *MemoryPersistence[T]) AppendRecords(ctx context.Context, recs []arrow.Record) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "append_records")
	defer func() { op.end(err) }()

	if err := p.checkBatches(recs); err != nil {
		return err
	}
	retainAll(recs)
	op.rows(rowsOf(recs))

	p.mu.Lock()
	p.batches = append(p.batches, recs...)
	p.mu.Unlock()

	p.observeSize()
	return nil
}

// LoadRecords merges the stored batches and re-slices the result into
// records of at most batchSize rows. A batchSize below one returns the
// merged record whole. The caller releases every returned record.
func (p *MemoryPersistence[T]) LoadRecords(ctx context.Context, batchSize int) (out []arrow.Record, err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "load_records")
	defer func() { op.end(err) }()

	merged, found, err := p.merge()
	if err != nil || !found {
		return nil, err
	}
	defer merged.Release()

	total := merged.NumRows()
	op.rows(total)
	if batchSize < 1 || total <= int64(batchSize) {
		merged.Retain()
		return []arrow.Record{merged}, nil
	}

	for start := int64(0); start < total; start += int64(batchSize) {
		end := min(start+int64(batchSize), total)
		out = append(out, merged.NewSlice(start, end))
	}
	return out, nil
}

// MemoryUsage reports the buffer bytes and rows currently held.
func (p *MemoryPersistence[T]) MemoryUsage() MemoryStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var stats MemoryStats
	for _, rec := range p.batches {
		stats.TotalBytes += recordBytes(rec)
		stats.TotalRows += rec.NumRows()
	}
	stats.NumBatches = len(p.batches)
	if stats.NumBatches > 0 {
		stats.AvgBatchSize = stats.TotalRows / int64(stats.NumBatches)
	}
	return stats
}

func (p *MemoryPersistence[T]) encode(data T) (arrow.Record, error) {
	rec, err := p.codec.Encode(p.opts.mem, data)
	if err != nil {
		return nil, wrap(err, errors.ErrorTypeSerialization, "failed to encode batch")
	}
	return rec, nil
}

// encodeAll encodes items in order. On failure the records already built
// are released.
func (p *MemoryPersistence[T]) encodeAll(items []T) ([]arrow.Record, error) {
	recs := make([]arrow.Record, 0, len(items))
	for _, item := range items {
		rec, err := p.encode(item)
		if err != nil {
			for _, r := range recs {
				r.Release()
			}
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (p *MemoryPersistence[T]) merge() (arrow.Record, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.batches) == 0 {
		return nil, false, nil
	}
	rec, err := MergeRecords(p.opts.mem, p.codec.Schema(), p.batches)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (p *MemoryPersistence[T]) checkBatches(recs []arrow.Record) error {
	schema := p.codec.Schema()
	for _, rec := range recs {
		if err := CheckSchema(schema, rec.Schema()); err != nil {
			return err
		}
	}
	return nil
}

// replaceLocked releases the current batches and installs recs.
func (p *MemoryPersistence[T]) replaceLocked(recs []arrow.Record) {
	for _, rec := range p.batches {
		rec.Release()
	}
	p.batches = recs
}

func (p *MemoryPersistence[T]) observeSize() {
	if p.opts.metrics == nil {
		return
	}
	stats := p.MemoryUsage()
	p.opts.metrics.SetRows(BackendMemory, stats.TotalRows)
	p.opts.metrics.SetBytes(BackendMemory, stats.TotalBytes)
}

func rowsOf(recs []arrow.Record) (n int64) {
	for _, rec := range recs {
		n += rec.NumRows()
	}
	return n
}

func retainAll(recs []arrow.Record) {
	for _, rec := range recs {
		rec.Retain()
	}
}
