package persistence

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/soa/pkg/compression"
	"github.com/ajitpratap0/soa/pkg/errors"
)

// WriteSnapshot streams the batch list to w as an Arrow IPC stream wrapped
// in the configured snapshot compression. An empty backend writes a stream
// holding only the schema.
func (p *MemoryPersistence[T]) WriteSnapshot(ctx context.Context, w io.Writer) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "write_snapshot")
	defer func() { op.end(err) }()

	comp, err := compression.NewCompressor(&p.opts.snapshot)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid snapshot compression")
	}

	batches := p.Batches()
	defer func() {
		for _, rec := range batches {
			rec.Release()
		}
	}()

	var rows int64
	for _, rec := range batches {
		rows += rec.NumRows()
	}
	op.rows(rows)

	schema := p.codec.Schema()
	if schema == nil {
		return errors.New(errors.ErrorTypeValidation, "snapshots need a codec with a schema")
	}
	pr, pw := io.Pipe()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := p.encodeStream(ctx, pw, schema, batches)
		_ = pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		err := comp.CompressStream(w, pr)
		_ = pr.CloseWithError(err)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeIO, "failed to write snapshot")
		}
		return nil
	})
	return g.Wait()
}

func (p *MemoryPersistence[T]) encodeStream(ctx context.Context, w io.Writer, schema *arrow.Schema, batches []arrow.Record) error {
	iw := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(p.opts.mem))
	for _, rec := range batches {
		if err := ctx.Err(); err != nil {
			_ = iw.Close()
			return errors.Wrap(err, errors.ErrorTypeIO, "snapshot cancelled")
		}

		// batches accepted by SaveRecords may carry different metadata
		aligned := array.NewRecord(schema, rec.Columns(), rec.NumRows())
		err := iw.Write(aligned)
		aligned.Release()
		if err != nil {
			_ = iw.Close()
			return errors.Wrap(err, errors.ErrorTypeSerialization, "failed to write IPC batch")
		}
	}
	if err := iw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeSerialization, "failed to close IPC stream")
	}
	return nil
}

// ReadSnapshot replaces the batch list with the batches of a stream written
// by WriteSnapshot. The current content is kept if the stream is invalid.
func (p *MemoryPersistence[T]) ReadSnapshot(ctx context.Context, r io.Reader) (err error) {
	_, op := p.opts.begin(ctx, BackendMemory, "read_snapshot")
	defer func() { op.end(err) }()

	comp, err := compression.NewCompressor(&p.opts.snapshot)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid snapshot compression")
	}

	pr, pw := io.Pipe()
	var g errgroup.Group
	g.Go(func() error {
		err := comp.DecompressStream(pw, r)
		_ = pw.CloseWithError(err)
		return err
	})

	batches, readErr := p.decodeStream(pr)
	if readErr == nil {
		_, _ = io.Copy(io.Discard, pr)
	}
	// unblock the decompressor if decoding stopped early
	_ = pr.CloseWithError(io.ErrClosedPipe)
	if err := g.Wait(); err != nil && readErr == nil {
		readErr = errors.Wrap(err, errors.ErrorTypeIO, "failed to read snapshot")
	}
	if readErr != nil {
		for _, rec := range batches {
			rec.Release()
		}
		return readErr
	}

	var rows int64
	for _, rec := range batches {
		rows += rec.NumRows()
	}
	op.rows(rows)

	p.mu.Lock()
	p.replaceLocked(batches)
	p.mu.Unlock()

	p.observeSize()
	p.opts.logger.Debug("snapshot restored", zap.Int("batches", len(batches)))
	return nil
}

func (p *MemoryPersistence[T]) decodeStream(r io.Reader) ([]arrow.Record, error) {
	ir, err := ipc.NewReader(r, ipc.WithAllocator(p.opts.mem))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSerialization, "failed to open IPC stream")
	}
	defer ir.Release()

	if err := CheckSchema(p.codec.Schema(), ir.Schema()); err != nil {
		return nil, err
	}

	var batches []arrow.Record
	for ir.Next() {
		rec := ir.Record()
		rec.Retain()
		batches = append(batches, rec)
	}
	if err := ir.Err(); err != nil {
		return batches, errors.Wrap(err, errors.ErrorTypeSerialization, "failed to read IPC batch")
	}
	return batches, nil
}
