package persistence

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/parquet"
	pqcompress "github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/ajitpratap0/soa/pkg/compression"
	"github.com/ajitpratap0/soa/pkg/errors"
)

// FileName is the single data file kept in a dataset directory.
const FileName = "data.parquet"

// ParquetPersistence stores one Parquet file per dataset directory.
//
// Calls are not serialized: two goroutines writing the same directory race
// on the final rename and one write is lost.
type ParquetPersistence[T any] struct {
	dir   string
	codec Codec[T]
	opts  options
	pages pqcompress.Compression
}

// NewParquetPersistence creates the dataset directory if needed and returns
// a backend writing dir/data.parquet.
func NewParquetPersistence[T any](dir string, codec Codec[T], opts ...Option) (*ParquetPersistence[T], error) {
	o := newOptions(opts)

	pages, err := ParquetCodec(o.compression)
	if err != nil {
		return nil, err
	}
	if o.pageSize <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "page size must be positive, got %d", o.pageSize)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to create dataset directory").
			WithDetail("dir", dir)
	}

	return &ParquetPersistence[T]{
		dir:   dir,
		codec: codec,
		opts:  o,
		pages: pages,
	}, nil
}

// ParquetCodec maps a compression algorithm to a Parquet page codec.
func ParquetCodec(a compression.Algorithm) (pqcompress.Compression, error) {
	switch a {
	case compression.None:
		return pqcompress.Codecs.Uncompressed, nil
	case compression.Snappy:
		return pqcompress.Codecs.Snappy, nil
	case compression.Gzip:
		return pqcompress.Codecs.Gzip, nil
	case compression.Zstd:
		return pqcompress.Codecs.Zstd, nil
	case compression.LZ4:
		return pqcompress.Codecs.Lz4Raw, nil
	case compression.Brotli:
		return pqcompress.Codecs.Brotli, nil
	default:
		return pqcompress.Codecs.Uncompressed, errors.Newf(errors.ErrorTypeValidation, "compression %q is not a Parquet codec", a)
	}
}

// Path returns the data file path.
func (p *ParquetPersistence[T]) Path() string {
	return filepath.Join(p.dir, FileName)
}

// Save replaces the data file with the encoding of data. The new file is
// written beside the old one and renamed over it.
func (p *ParquetPersistence[T]) Save(ctx context.Context, data T) (err error) {
	_, op := p.opts.begin(ctx, BackendParquet, "save")
	defer func() { op.end(err) }()

	rec, err := p.encode(data)
	if err != nil {
		return err
	}
	defer rec.Release()
	op.rows(rec.NumRows())

	return runBlocking(ctx, func() error {
		return p.writeFile(rec)
	})
}

// Load reads and decodes the whole data file.
func (p *ParquetPersistence[T]) Load(ctx context.Context) (data T, found bool, err error) {
	ctx, op := p.opts.begin(ctx, BackendParquet, "load")
	defer func() { op.end(err) }()

	var rec arrow.Record
	err = runBlocking(ctx, func() error {
		var rerr error
		rec, found, rerr = p.readFile(ctx)
		return rerr
	})
	if err != nil || !found {
		return data, false, err
	}
	defer rec.Release()

	op.rows(rec.NumRows())
	data, err = p.codec.Decode(rec)
	if err != nil {
		return data, false, err
	}
	return data, true, nil
}

// Append reads the existing file, concatenates data after it and rewrites
// the file. The cost grows with the size of the existing file.
func (p *ParquetPersistence[T]) Append(ctx context.Context, data T) (err error) {
	ctx, op := p.opts.begin(ctx, BackendParquet, "append")
	defer func() { op.end(err) }()

	rec, err := p.encode(data)
	if err != nil {
		return err
	}
	defer rec.Release()
	op.rows(rec.NumRows())

	return runBlocking(ctx, func() error {
		existing, found, err := p.readFile(ctx)
		if err != nil {
			return err
		}
		if !found {
			return p.writeFile(rec)
		}
		defer existing.Release()

		expected := p.codec.Schema()
		if expected == nil {
			expected = rec.Schema()
		}
		if err := CheckSchema(expected, existing.Schema()); err != nil {
			return err
		}
		merged, err := MergeRecords(p.opts.mem, existing.Schema(), []arrow.Record{existing, rec})
		if err != nil {
			return err
		}
		defer merged.Release()
		return p.writeFile(merged)
	})
}

// Query loads the data and returns it only if pred accepts it.
func (p *ParquetPersistence[T]) Query(ctx context.Context, pred func(T) bool) (T, bool, error) {
	return query[T](ctx, p, pred)
}

// Count returns the row count recorded in the file footer. No column data
// is read or decoded.
func (p *ParquetPersistence[T]) Count(ctx context.Context) (n int64, err error) {
	_, op := p.opts.begin(ctx, BackendParquet, "count")
	defer func() { op.end(err) }()

	err = runBlocking(ctx, func() error {
		var rerr error
		n, rerr = p.footerRows()
		return rerr
	})
	op.rows(n)
	return n, err
}

// Clear removes the data file. Clearing an empty dataset is not an error.
func (p *ParquetPersistence[T]) Clear(ctx context.Context) (err error) {
	_, op := p.opts.begin(ctx, BackendParquet, "clear")
	defer func() { op.end(err) }()

	return runBlocking(ctx, func() error {
		if err := os.Remove(p.Path()); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(err, errors.ErrorTypeIO, "failed to remove data file").
				WithDetail("path", p.Path())
		}
		p.opts.metrics.SetRows(BackendParquet, 0)
		p.opts.metrics.SetBytes(BackendParquet, 0)
		return nil
	})
}

// IsEmpty reports whether no rows are stored.
func (p *ParquetPersistence[T]) IsEmpty(ctx context.Context) (bool, error) {
	return isEmpty[T](ctx, p)
}

// Schema returns the Arrow schema stored in the file footer, or false if
// there is no file.
func (p *ParquetPersistence[T]) Schema(ctx context.Context) (schema *arrow.Schema, found bool, err error) {
	err = runBlocking(ctx, func() error {
		rdr, ok, err := p.openFile()
		if err != nil || !ok {
			return err
		}
		defer rdr.Close()

		fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, p.opts.mem)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeSerialization, "failed to open Arrow reader")
		}
		schema, err = fr.Schema()
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeSerialization, "failed to read Arrow schema")
		}
		found = true
		return nil
	})
	return schema, found, err
}

func (p *ParquetPersistence[T]) encode(data T) (arrow.Record, error) {
	rec, err := p.codec.Encode(p.opts.mem, data)
	if err != nil {
		return nil, wrap(err, errors.ErrorTypeSerialization, "failed to encode batch")
	}
	return rec, nil
}

// writeOnly hides Close from the Parquet writer so the file can be synced
// before it is closed.
type writeOnly struct {
	w io.Writer
}

func (w writeOnly) Write(b []byte) (int, error) {
	return w.w.Write(b)
}

// writeFile writes rec to a temporary file in the dataset directory, syncs
// it and renames it over the data file.
func (p *ParquetPersistence[T]) writeFile(rec arrow.Record) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to create dataset directory").
			WithDetail("dir", p.dir)
	}

	tmp, err := os.CreateTemp(p.dir, ".data-*.parquet.tmp")
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to create temporary file").
			WithDetail("dir", p.dir)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(p.pages),
		parquet.WithDataPageSize(p.opts.pageSize),
		parquet.WithAllocator(p.opts.mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
		pqarrow.WithAllocator(p.opts.mem),
	)

	fw, err := pqarrow.NewFileWriter(rec.Schema(), writeOnly{w: tmp}, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeSerialization, "failed to create Parquet writer")
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, errors.ErrorTypeSerialization, "failed to write record batch")
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeSerialization, "failed to close Parquet writer")
	}

	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to sync data file")
	}
	info, err := tmp.Stat()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to stat data file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to close data file")
	}
	if err := os.Rename(tmpPath, p.Path()); err != nil {
		_ = os.Remove(tmpPath)
		committed = true
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to replace data file").
			WithDetail("path", p.Path())
	}
	committed = true

	p.opts.metrics.SetRows(BackendParquet, rec.NumRows())
	p.opts.metrics.SetBytes(BackendParquet, info.Size())
	p.opts.logger.Debug("parquet file written",
		zap.String("path", p.Path()),
		zap.Int64("rows", rec.NumRows()),
		zap.Int64("bytes", info.Size()),
		zap.String("compression", p.pages.String()))
	return nil
}

// openFile opens the data file for reading, or reports false if it does
// not exist.
func (p *ParquetPersistence[T]) openFile() (*file.Reader, bool, error) {
	if _, err := os.Stat(p.Path()); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, errors.ErrorTypeIO, "failed to stat data file").
			WithDetail("path", p.Path())
	}

	rdr, err := file.OpenParquetFile(p.Path(), false)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrorTypeSerialization, "failed to open Parquet file").
			WithDetail("path", p.Path())
	}
	return rdr, true, nil
}

func (p *ParquetPersistence[T]) footerRows() (int64, error) {
	rdr, ok, err := p.openFile()
	if err != nil || !ok {
		return 0, err
	}
	defer rdr.Close()
	return rdr.NumRows(), nil
}

// readFile reads the whole data file into one record without decoding it.
func (p *ParquetPersistence[T]) readFile(ctx context.Context) (arrow.Record, bool, error) {
	rdr, ok, err := p.openFile()
	if err != nil || !ok {
		return nil, false, err
	}
	defer rdr.Close()

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, p.opts.mem)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrorTypeSerialization, "failed to open Arrow reader")
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrorTypeSerialization, "failed to read Parquet table")
	}
	defer tbl.Release()

	schema := tbl.Schema()
	cols := make([]arrow.Array, schema.NumFields())
	defer func() {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
	}()

	for i := range cols {
		chunks := tbl.Column(i).Data().Chunks()
		switch len(chunks) {
		case 0:
			cols[i] = array.MakeArrayOfNull(p.opts.mem, schema.Field(i).Type, 0)
		case 1:
			chunks[0].Retain()
			cols[i] = chunks[0]
		default:
			merged, err := array.Concatenate(chunks, p.opts.mem)
			if err != nil {
				return nil, false, errors.Wrap(err, errors.ErrorTypeSerialization, "failed to concatenate column "+schema.Field(i).Name)
			}
			cols[i] = merged
		}
	}

	return array.NewRecord(schema, cols, tbl.NumRows()), true, nil
}
