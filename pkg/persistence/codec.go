package persistence

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/soa/pkg/errors"
)

// Field metadata keys written on enumeration columns.
const (
	MetadataEnum     = "soa.enum"
	MetadataVariants = "soa.variants"
)

// Schema metadata keys.
const (
	MetadataRecord      = "soa.record"
	MetadataFingerprint = "soa.fingerprint"
)

// Codec converts a column model to and from an Arrow record batch.
type Codec[T any] interface {
	// Schema returns the batch schema the codec produces
	Schema() *arrow.Schema
	// Encode copies data into a new record; the caller releases it
	Encode(mem memory.Allocator, data T) (arrow.Record, error)
	// Decode copies a record into a new column model
	Decode(rec arrow.Record) (T, error)
}

// Persistence is the storage contract shared by all backends.
type Persistence[T any] interface {
	// Save replaces all stored content with data
	Save(ctx context.Context, data T) error
	// Load merges all stored content; found is false if nothing was stored
	Load(ctx context.Context) (data T, found bool, err error)
	// Append stores data after the existing content
	Append(ctx context.Context, data T) error
	// Query loads the stored content and returns it only if pred accepts it
	Query(ctx context.Context, pred func(T) bool) (data T, found bool, err error)
	// Count returns the number of stored rows
	Count(ctx context.Context) (int64, error)
	// Clear removes all stored content
	Clear(ctx context.Context) error
	// IsEmpty reports whether Count is zero
	IsEmpty(ctx context.Context) (bool, error)
}

// RawCodec passes Arrow records through unchanged. It lets tools read and
// write datasets without a generated column model.
type RawCodec struct {
	schema *arrow.Schema
}

// NewRawCodec returns a codec producing records of schema.
func NewRawCodec(schema *arrow.Schema) RawCodec {
	return RawCodec{schema: schema}
}

// Schema returns the schema given to NewRawCodec.
func (c RawCodec) Schema() *arrow.Schema {
	return c.schema
}

// Encode retains rec and returns it.
func (c RawCodec) Encode(_ memory.Allocator, rec arrow.Record) (arrow.Record, error) {
	if c.schema != nil {
		if err := CheckSchema(c.schema, rec.Schema()); err != nil {
			return nil, err
		}
	}
	rec.Retain()
	return rec, nil
}

// Decode retains rec and returns it; the caller releases it.
func (c RawCodec) Decode(rec arrow.Record) (arrow.Record, error) {
	rec.Retain()
	return rec, nil
}

// EnumField returns the uint8 field used for an enumeration column.
func EnumField(name, enumName, tag string) arrow.Field {
	return arrow.Field{
		Name:     name,
		Type:     arrow.PrimitiveTypes.Uint8,
		Metadata: arrow.NewMetadata([]string{MetadataEnum, MetadataVariants}, []string{enumName, tag}),
	}
}

// RecordMetadata returns the schema metadata naming the record type and the
// fingerprint of its field list.
func RecordMetadata(record, fingerprint string) *arrow.Metadata {
	md := arrow.NewMetadata([]string{MetadataRecord, MetadataFingerprint}, []string{record, fingerprint})
	return &md
}

// Column returns the named column of rec as array type A.
func Column[A arrow.Array](rec arrow.Record, name string) (A, error) {
	var zero A

	idx := rec.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return zero, errors.Newf(errors.ErrorTypeColumnNotFound, "column %s not found", name).
			WithDetail("column", name)
	}

	raw := rec.Column(idx[0])
	col, ok := raw.(A)
	if !ok {
		return zero, errors.Newf(errors.ErrorTypeSchemaMismatch, "column %s: expected %T, found %s", name, zero, raw.DataType()).
			WithDetail("column", name).
			WithDetail("found", raw.DataType().String())
	}
	if col.NullN() > 0 {
		return zero, errors.Newf(errors.ErrorTypeTypeConversion, "column %s contains %d nulls", name, col.NullN()).
			WithDetail("column", name)
	}
	return col, nil
}

// CheckSchema compares field names and types in order. Where an expected
// enumeration column carries a variant table, the found column must carry
// the same one. Other metadata and nullability are ignored.
func CheckSchema(expected, found *arrow.Schema) error {
	if expected == nil || found == nil {
		return errors.New(errors.ErrorTypeValidation, "schema check needs both schemas; the codec has no schema")
	}

	mismatch := func() error {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected %s, found %s", expected, found).
			WithDetail("expected", expected.String()).
			WithDetail("found", found.String())
	}

	if expected.NumFields() != found.NumFields() {
		return mismatch()
	}
	for i := 0; i < expected.NumFields(); i++ {
		e, f := expected.Field(i), found.Field(i)
		if e.Name != f.Name || !arrow.TypeEqual(e.Type, f.Type) {
			return mismatch()
		}
		want, ok := variantTable(e)
		if !ok {
			continue
		}
		if got, _ := variantTable(f); got != want {
			return errors.Newf(errors.ErrorTypeSchemaMismatch, "column %s: enumeration variants changed", e.Name).
				WithDetail("column", e.Name).
				WithDetail("expected", want).
				WithDetail("found", got)
		}
	}
	return nil
}

func variantTable(f arrow.Field) (string, bool) {
	i := f.Metadata.FindKey(MetadataVariants)
	if i < 0 {
		return "", false
	}
	return f.Metadata.Values()[i], true
}

// CheckEnumTag verifies that the variant table stored on a column matches
// tag. Columns without a stored table are accepted and read positionally.
func CheckEnumTag(schema *arrow.Schema, name, tag string) error {
	idx := schema.FieldIndices(name)
	if len(idx) == 0 {
		return errors.Newf(errors.ErrorTypeColumnNotFound, "column %s not found", name)
	}

	stored, ok := variantTable(schema.Field(idx[0]))
	if !ok {
		return nil
	}
	if stored != tag {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "column %s: enumeration variants changed", name).
			WithDetail("expected", tag).
			WithDetail("found", stored)
	}
	return nil
}

// EncodeEnum converts enumeration values to their uint8 codes.
func EncodeEnum[E ~uint8](vals []E) []uint8 {
	out := make([]uint8, len(vals))
	for i, v := range vals {
		out[i] = uint8(v)
	}
	return out
}

// DecodeEnum reads an enumeration column, checking its variant table
// against tag and every code with fromCode.
func DecodeEnum[E any](rec arrow.Record, name, tag string, fromCode func(uint8) (E, error)) ([]E, error) {
	col, err := Column[*array.Uint8](rec, name)
	if err != nil {
		return nil, err
	}
	if err := CheckEnumTag(rec.Schema(), name, tag); err != nil {
		return nil, err
	}

	codes := col.Uint8Values()
	out := make([]E, len(codes))
	for i, c := range codes {
		v, err := fromCode(c)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeTypeConversion, fmt.Sprintf("column %s row %d", name, i))
		}
		out[i] = v
	}
	return out, nil
}

// BoolValues copies a boolean column into a slice.
func BoolValues(col *array.Boolean) []bool {
	out := make([]bool, col.Len())
	for i := range out {
		out[i] = col.Value(i)
	}
	return out
}

// MergeRecords concatenates recs column by column into one record with the
// schema of the first. All records must agree on fields and on enumeration
// variant tables. With no input it returns an empty record of schema. The
// caller releases the result.
func MergeRecords(mem memory.Allocator, schema *arrow.Schema, recs []arrow.Record) (arrow.Record, error) {
	switch len(recs) {
	case 0:
		b := array.NewRecordBuilder(mem, schema)
		defer b.Release()
		return b.NewRecord(), nil
	case 1:
		recs[0].Retain()
		return recs[0], nil
	}

	base := recs[0].Schema()
	var rows int64
	for _, rec := range recs {
		if err := CheckSchema(base, rec.Schema()); err != nil {
			return nil, err
		}
		// the reverse check catches a table present only on rec
		if err := CheckSchema(rec.Schema(), base); err != nil {
			return nil, err
		}
		rows += rec.NumRows()
	}

	cols := make([]arrow.Array, base.NumFields())
	defer func() {
		for _, c := range cols {
			if c != nil {
				c.Release()
			}
		}
	}()

	parts := make([]arrow.Array, len(recs))
	for i := range cols {
		for j, rec := range recs {
			parts[j] = rec.Column(i)
		}
		merged, err := array.Concatenate(parts, mem)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeSerialization, "failed to concatenate column "+base.Field(i).Name)
		}
		cols[i] = merged
	}

	return array.NewRecord(base, cols, rows), nil
}

func recordBytes(rec arrow.Record) int64 {
	var total int64
	for _, col := range rec.Columns() {
		for _, buf := range col.Data().Buffers() {
			if buf != nil {
				total += int64(buf.Len())
			}
		}
	}
	return total
}
