package persistence_test

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/soa/internal/orders"
	"github.com/ajitpratap0/soa/pkg/errors"
	"github.com/ajitpratap0/soa/pkg/persistence"
)

func encodeOrders(t *testing.T, mem memory.Allocator, start, n int) arrow.Record {
	t.Helper()
	rec, err := orders.OrderCodec{}.Encode(mem, sampleOrders(start, n))
	require.NoError(t, err)
	return rec
}

func TestColumn(t *testing.T) {
	rec := encodeOrders(t, memory.DefaultAllocator, 0, 3)
	defer rec.Release()

	col, err := persistence.Column[*array.Uint32](rec, "quantity")
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, col.Uint32Values())

	_, err = persistence.Column[*array.Uint32](rec, "missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))

	_, err = persistence.Column[*array.Float32](rec, "unit_price")
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestColumn_RejectsNulls(t *testing.T) {
	b := array.NewInt64Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues([]int64{1, 0, 3}, []bool{true, false, true})
	arr := b.NewInt64Array()
	defer arr.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{arr}, 3)
	defer rec.Release()

	_, err := persistence.Column[*array.Int64](rec, "id")
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeConversion))
}

func fieldsOf(s *arrow.Schema) []arrow.Field {
	return append([]arrow.Field(nil), s.Fields()...)
}

func TestCheckSchema(t *testing.T) {
	base := orders.OrderCodec{}.Schema()
	assert.NoError(t, persistence.CheckSchema(base, base))

	// nullability and schema metadata are ignored
	fields := fieldsOf(base)
	for i := range fields {
		fields[i].Nullable = true
	}
	assert.NoError(t, persistence.CheckSchema(base, arrow.NewSchema(fields, nil)))

	// a schema without variant tables accepts any table
	bare := fieldsOf(base)
	for i := range bare {
		bare[i].Metadata = arrow.Metadata{}
	}
	assert.NoError(t, persistence.CheckSchema(arrow.NewSchema(bare, nil), base))

	// but a stored table must be matched exactly
	err := persistence.CheckSchema(base, arrow.NewSchema(bare, nil))
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))

	statusIdx := base.FieldIndices("status")[0]
	reordered := fieldsOf(base)
	reordered[statusIdx] = persistence.EnumField("status", "OrderStatus", reorderedStatusTag)
	err = persistence.CheckSchema(base, arrow.NewSchema(reordered, nil))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
	assert.Contains(t, err.Error(), "enumeration variants changed")

	err = persistence.CheckSchema(nil, base)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	err = persistence.CheckSchema(base, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	err = persistence.CheckSchema(base, idSchema)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))

	retyped := fieldsOf(base)
	retyped[3].Type = arrow.PrimitiveTypes.Int32
	err = persistence.CheckSchema(base, arrow.NewSchema(retyped, nil))
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))

	renamed := fieldsOf(base)
	renamed[0].Name = "id"
	err = persistence.CheckSchema(base, arrow.NewSchema(renamed, nil))
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}

func TestCheckEnumTag(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		persistence.EnumField("status", "OrderStatus", orders.OrderStatusTag),
		{Name: "plain", Type: arrow.PrimitiveTypes.Uint8},
	}, nil)

	assert.NoError(t, persistence.CheckEnumTag(schema, "status", orders.OrderStatusTag))
	assert.NoError(t, persistence.CheckEnumTag(schema, "plain", orders.OrderStatusTag))

	err := persistence.CheckEnumTag(schema, "status", "0=Pending")
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))

	err = persistence.CheckEnumTag(schema, "missing", "")
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}

func TestEncodeDecodeEnum(t *testing.T) {
	vals := []orders.OrderStatus{orders.OrderStatusShipped, orders.OrderStatusPending, orders.OrderStatusDelivered}
	codes := persistence.EncodeEnum(vals)
	assert.Equal(t, []uint8{2, 0, 3}, codes)

	b := array.NewUint8Builder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues(codes, nil)
	arr := b.NewUint8Array()
	defer arr.Release()

	// a column without a stored table is read positionally
	schema := arrow.NewSchema([]arrow.Field{{Name: "status", Type: arrow.PrimitiveTypes.Uint8}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{arr}, 3)
	defer rec.Release()

	got, err := persistence.DecodeEnum(rec, "status", orders.OrderStatusTag, orders.OrderStatusFromCode)
	require.NoError(t, err)
	assert.Equal(t, vals, got)

	_, err = persistence.DecodeEnum(rec, "status", orders.PaymentMethodTag, orders.PaymentMethodFromCode)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeConversion))
}

func TestBoolValues(t *testing.T) {
	b := array.NewBooleanBuilder(memory.DefaultAllocator)
	defer b.Release()
	b.AppendValues([]bool{true, false, true, true}, nil)
	arr := b.NewBooleanArray()
	defer arr.Release()

	assert.Equal(t, []bool{true, false, true, true}, persistence.BoolValues(arr))
}

func TestMergeRecords(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)
	schema := orders.OrderCodec{}.Schema()

	empty, err := persistence.MergeRecords(mem, schema, nil)
	require.NoError(t, err)
	assert.Zero(t, empty.NumRows())
	assert.Equal(t, int64(schema.NumFields()), empty.NumCols())
	empty.Release()

	a := encodeOrders(t, mem, 0, 3)
	b := encodeOrders(t, mem, 3, 4)

	single, err := persistence.MergeRecords(mem, schema, []arrow.Record{a})
	require.NoError(t, err)
	assert.Same(t, a, single)
	single.Release()

	merged, err := persistence.MergeRecords(mem, schema, []arrow.Record{a, b})
	require.NoError(t, err)
	got, err := orders.OrderCodec{}.Decode(merged)
	require.NoError(t, err)
	assert.Equal(t, sampleOrders(0, 7), got)
	merged.Release()

	ids, err := idCodec{}.Encode(mem, []int64{1})
	require.NoError(t, err)
	_, err = persistence.MergeRecords(mem, schema, []arrow.Record{a, ids})
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))

	// a differing variant table is rejected whichever record comes first
	moved := retagged(t, b, reorderedStatusTag)
	_, err = persistence.MergeRecords(mem, schema, []arrow.Record{a, moved})
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
	_, err = persistence.MergeRecords(mem, schema, []arrow.Record{moved, a})
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))

	moved.Release()
	ids.Release()
	a.Release()
	b.Release()
}

func TestRecordMetadata(t *testing.T) {
	md := orders.OrderCodec{}.Schema().Metadata()

	i := md.FindKey(persistence.MetadataRecord)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Order", md.Values()[i])

	i = md.FindKey(persistence.MetadataFingerprint)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, orders.OrderFingerprint, md.Values()[i])
}

func TestRawCodec(t *testing.T) {
	ctx := context.Background()
	codec := persistence.NewRawCodec(orders.OrderCodec{}.Schema())
	p, err := persistence.NewParquetPersistence[arrow.Record](t.TempDir(), codec)
	require.NoError(t, err)

	rec := encodeOrders(t, memory.DefaultAllocator, 0, 6)
	defer rec.Release()
	require.NoError(t, p.Save(ctx, rec))

	got, found, err := p.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	defer got.Release()
	assert.Equal(t, int64(6), got.NumRows())

	decoded, err := orders.OrderCodec{}.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, sampleOrders(0, 6), decoded)

	ids, err := idCodec{}.Encode(memory.DefaultAllocator, []int64{1})
	require.NoError(t, err)
	defer ids.Release()
	_, err = codec.Encode(memory.DefaultAllocator, ids)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchemaMismatch))
}
