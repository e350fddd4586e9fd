package persistence

import (
	"github.com/ajitpratap0/soa/pkg/compression"
	"github.com/ajitpratap0/soa/pkg/config"
	"github.com/ajitpratap0/soa/pkg/errors"
)

// Open builds the backend selected by cfg. Options given by the caller are
// applied after those derived from cfg.
func Open[T any](cfg config.StorageConfig, codec Codec[T], opts ...Option) (Persistence[T], error) {
	snapshot, err := compression.ParseAlgorithm(cfg.SnapshotCompression)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid storage.snapshot_compression")
	}

	switch cfg.Backend {
	case config.BackendMemory:
		base := []Option{WithSnapshotCompression(snapshot, compression.Default)}
		return NewMemoryPersistence(codec, append(base, opts...)...), nil

	case config.BackendParquet:
		pages, err := compression.ParseAlgorithm(cfg.Compression)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid storage.compression")
		}
		base := []Option{WithCompression(pages)}
		if cfg.PageSize > 0 {
			base = append(base, WithPageSize(int64(cfg.PageSize)))
		}
		p, err := NewParquetPersistence(cfg.Dir, codec, append(base, opts...)...)
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unknown storage backend %q", cfg.Backend)
	}
}
