package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/soa/internal/orders"
	"github.com/ajitpratap0/soa/pkg/config"
	"github.com/ajitpratap0/soa/pkg/errors"
	"github.com/ajitpratap0/soa/pkg/persistence"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		backend interface{}
	}{
		{"memory", func(*config.StorageConfig) {}, &persistence.MemoryPersistence[*orders.OrderSoA]{}},
		{"parquet", func(c *config.StorageConfig) {
			c.Backend = config.BackendParquet
			c.Dir = t.TempDir()
			c.Compression = "zstd"
			c.PageSize = 4096
		}, &persistence.ParquetPersistence[*orders.OrderSoA]{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Storage
			tt.mutate(&cfg)

			p, err := persistence.Open[*orders.OrderSoA](cfg, orders.OrderCodec{}, newHarness(t).opts...)
			require.NoError(t, err)
			assert.IsType(t, tt.backend, p)

			require.NoError(t, p.Save(ctx, sampleOrders(0, 9)))
			n, err := p.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(9), n)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		errType errors.ErrorType
	}{
		{"unknown backend", func(c *config.StorageConfig) { c.Backend = "s3" }, errors.ErrorTypeConfig},
		{"bad snapshot codec", func(c *config.StorageConfig) { c.SnapshotCompression = "rar" }, errors.ErrorTypeConfig},
		{"bad page codec", func(c *config.StorageConfig) {
			c.Backend = config.BackendParquet
			c.Dir = t.TempDir()
			c.Compression = "rar"
		}, errors.ErrorTypeConfig},
		{"stream codec for pages", func(c *config.StorageConfig) {
			c.Backend = config.BackendParquet
			c.Dir = t.TempDir()
			c.Compression = "s2"
		}, errors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default().Storage
			tt.mutate(&cfg)

			p, err := persistence.Open[*orders.OrderSoA](cfg, orders.OrderCodec{})
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.IsType(err, tt.errType), err.Error())
		})
	}
}
