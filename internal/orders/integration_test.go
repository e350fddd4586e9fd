package orders

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/soa/pkg/compression"
	"github.com/ajitpratap0/soa/pkg/config"
	"github.com/ajitpratap0/soa/pkg/persistence"
	"github.com/ajitpratap0/soa/pkg/soa"
	"github.com/ajitpratap0/soa/pkg/testutil"
)

type ordersDatasetSuite struct {
	testutil.DatasetSuite
}

func TestOrdersDataset(t *testing.T) {
	testutil.IntegrationTest(t)
	suite.Run(t, new(ordersDatasetSuite))
}

func (s *ordersDatasetSuite) ingest(shards, rows int) *OrderShardedStore {
	store, err := NewOrderShardedStore(shards, rows/shards)
	s.Require().NoError(err)

	testutil.NewPerformanceTest(s.T(), "sharded ingest").Run(func() int64 {
		for i := 0; i < rows; i++ {
			store.Add(sampleOrder(i))
		}
		return int64(rows)
	})
	s.Require().Equal(rows, store.Len())
	return store
}

func (s *ordersDatasetSuite) TestShardsPersistIndependently() {
	ctx := s.Context()
	store := s.ingest(8, 4000)

	datasets := make([]*persistence.ParquetPersistence[*OrderSoA], store.ShardCount())
	for i := range datasets {
		p, err := persistence.NewParquetPersistence[*OrderSoA](
			s.Dir(fmt.Sprintf("shard-%02d", i)), OrderCodec{},
			s.Telemetry.Options(persistence.WithCompression(compression.Zstd))...)
		s.Require().NoError(err)
		datasets[i] = p
	}

	err := store.ForEachShard(ctx, func(ctx context.Context, i int, shard *OrderSoA) error {
		return datasets[i].Save(ctx, shard)
	})
	s.Require().NoError(err)

	var total int64
	for i := 0; i < store.ShardCount(); i++ {
		n, err := datasets[i].Count(ctx)
		s.Require().NoError(err)
		total += n

		got, found, err := datasets[i].Load(ctx)
		s.Require().NoError(err)
		s.Require().True(found)

		want, err := store.Shard(i)
		s.Require().NoError(err)
		s.Equal(want, got)

		for _, row := range got.All() {
			s.Equal(i, store.ShardFor(row.OrderID()), "order %d", row.OrderID())
		}
	}
	s.Equal(int64(store.Len()), total)
}

func (s *ordersDatasetSuite) TestSnapshotOfClonedStore() {
	ctx := s.Context()

	base := NewOrderStore()
	for i := 0; i < 300; i++ {
		base.Add(sampleOrder(i))
	}
	branch := base.Clone()
	defer branch.Release()

	// shipping every pending order only touches the branch
	k := branch.KernelMut()
	for i := 0; i < k.Len(); i++ {
		m, err := k.ViewMut(i)
		s.Require().NoError(err)
		if m.Status() == OrderStatusPending {
			m.SetStatus(OrderStatusShipped)
		}
	}
	s.NotEqual(base.Kernel().StatusRawArray(), branch.Kernel().StatusRawArray())

	opts := s.Telemetry.Options(persistence.WithSnapshotCompression(compression.Zstd, compression.Default))
	mem := persistence.NewMemoryPersistence[*OrderSoA](OrderCodec{}, opts...)
	s.Require().NoError(mem.Save(ctx, base.Kernel()))
	s.Require().NoError(mem.Append(ctx, branch.Kernel()))

	var buf bytes.Buffer
	s.Require().NoError(mem.WriteSnapshot(ctx, &buf))

	restored := persistence.NewMemoryPersistence[*OrderSoA](OrderCodec{}, opts...)
	s.Require().NoError(restored.ReadSnapshot(ctx, &buf))

	got, found, err := restored.Load(ctx)
	s.Require().NoError(err)
	s.Require().True(found)
	s.Equal(600, got.Len())

	pending := soa.Where(got.StatusRawArray(), func(st OrderStatus) bool { return st == OrderStatusPending })
	s.Equal(uint64(75), pending.GetCardinality())
}

func (s *ordersDatasetSuite) TestOpenFromConfig() {
	ctx := s.Context()

	cfg := config.Default().Storage
	cfg.Backend = config.BackendParquet
	cfg.Dir = s.Dir("configured")
	cfg.Compression = "lz4"

	p, err := persistence.Open[*OrderSoA](cfg, OrderCodec{}, s.Telemetry.Options()...)
	s.Require().NoError(err)

	want := sampleOrders(250)
	s.Require().NoError(p.Append(ctx, want))
	s.Require().NoError(p.Append(ctx, want))

	n, err := p.Count(ctx)
	s.Require().NoError(err)
	s.Equal(int64(500), n)

	got, found, err := p.Query(ctx, func(o *OrderSoA) bool { return o.Len() > 0 })
	s.Require().NoError(err)
	s.True(found)
	s.Equal(500, got.Len())
	s.Contains(s.Telemetry.SpanNames(), "parquet.append")
}
