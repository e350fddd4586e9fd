package persistence_test

import (
	"sync/atomic"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/soa/internal/orders"
	"github.com/ajitpratap0/soa/pkg/persistence"
	"github.com/ajitpratap0/soa/pkg/testutil"
)

func sampleOrders(start, n int) *orders.OrderSoA {
	s := orders.NewOrderSoAWithCapacity(n)
	for i := start; i < start+n; i++ {
		s.Push(orders.Order{
			OrderID:             uint64(i),
			CustomerID:          uint64(i % 11),
			ProductID:           uint64(i % 17),
			Quantity:            uint32(i%4 + 1),
			UnitPrice:           float64(i) + 0.25,
			TotalAmount:         float64(i%4+1) * (float64(i) + 0.25),
			Status:              orders.OrderStatusVariants()[i%4],
			PaymentMethod:       orders.PaymentMethodVariants()[i%3],
			OrderTimestamp:      1_690_000_000 + uint64(i),
			ShippingAddressHash: uint64(i) ^ 0x9e3779b97f4a7c15,
		})
	}
	return s
}

func orderIDs(s *orders.OrderSoA) []uint64 {
	return append([]uint64(nil), s.OrderIDRawArray()...)
}

// countingCodec wraps OrderCodec and counts Decode calls.
type countingCodec struct {
	orders.OrderCodec
	decodes atomic.Int64
}

func (c *countingCodec) Decode(rec arrow.Record) (*orders.OrderSoA, error) {
	c.decodes.Add(1)
	return c.OrderCodec.Decode(rec)
}

// idCodec stores a plain list of ids under a schema unrelated to orders.
type idCodec struct{}

var idSchema = arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64}}, nil)

func (idCodec) Schema() *arrow.Schema { return idSchema }

func (idCodec) Encode(mem memory.Allocator, ids []int64) (arrow.Record, error) {
	b := array.NewRecordBuilder(mem, idSchema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues(ids, nil)
	return b.NewRecord(), nil
}

func (idCodec) Decode(rec arrow.Record) ([]int64, error) {
	col, err := persistence.Column[*array.Int64](rec, "id")
	if err != nil {
		return nil, err
	}
	return append([]int64(nil), col.Int64Values()...), nil
}

// reorderedStatusTag lists the order status variants in a different order
// than the generated model, so code 0 means Processing instead of Pending.
const reorderedStatusTag = "0=Processing,1=Pending,2=Shipped,3=Delivered"

// retagged returns rec with its status column relabelled by tag. The column
// data is shared with rec; the caller releases the result.
func retagged(t *testing.T, rec arrow.Record, tag string) arrow.Record {
	t.Helper()
	fields := append([]arrow.Field(nil), rec.Schema().Fields()...)
	idx := rec.Schema().FieldIndices("status")
	require.Len(t, idx, 1)
	fields[idx[0]] = persistence.EnumField("status", "OrderStatus", tag)
	md := rec.Schema().Metadata()
	return array.NewRecord(arrow.NewSchema(fields, &md), rec.Columns(), rec.NumRows())
}

type harness struct {
	*testutil.Telemetry
	opts []persistence.Option
}

func newHarness(t *testing.T, extra ...persistence.Option) *harness {
	t.Helper()
	tel := testutil.NewTelemetry(t, "soa_test")
	return &harness{Telemetry: tel, opts: tel.Options(extra...)}
}

func newParquet(t *testing.T, opts ...persistence.Option) *persistence.ParquetPersistence[*orders.OrderSoA] {
	t.Helper()
	h := newHarness(t, opts...)
	p, err := persistence.NewParquetPersistence[*orders.OrderSoA](t.TempDir(), orders.OrderCodec{}, h.opts...)
	require.NoError(t, err)
	return p
}
