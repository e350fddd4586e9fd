package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/soa/pkg/errors"
)

const orderShape = `
package: orders
record: Order
key: order_id
shards: 8
enums:
  - name: OrderStatus
    variants: [Pending, Processing, Shipped, Delivered]
  - name: PaymentMethod
    variants:
      - {name: CreditCard, code: 1}
      - {name: PayPal, code: 2}
      - {name: BankTransfer, code: 4}
fields:
  - {name: order_id, type: uint64}
  - {name: unit_price, type: float64}
  - {name: status, type: OrderStatus}
  - {name: payment_method, type: PaymentMethod}
  - {name: gift, type: bool}
`

func TestParse_Order(t *testing.T) {
	s, err := Parse([]byte(orderShape), Options{})
	require.NoError(t, err)

	assert.Equal(t, "orders", s.Package)
	assert.Equal(t, "Order", s.Record)
	assert.Equal(t, 8, s.Shards)
	require.Len(t, s.Fields, 5)

	key, ok := s.KeyField()
	require.True(t, ok)
	assert.Equal(t, "OrderID", key.GoName())

	status := s.Enum("OrderStatus")
	require.NotNil(t, status)
	assert.Equal(t, "0=Pending,1=Processing,2=Shipped,3=Delivered", status.Tag())
	assert.Equal(t, "OrderStatusShipped", status.VariantIdent(status.Variants[2]))

	payment := s.Enum("PaymentMethod")
	require.NotNil(t, payment)
	assert.Equal(t, "1=CreditCard,2=PayPal,4=BankTransfer", payment.Tag())

	assert.Nil(t, s.Enum(Uint64))
	assert.Equal(t, "uint8", s.TypeOf(s.Fields[2]).GoType)
	assert.Equal(t, "array.Float64", s.TypeOf(s.Fields[1]).Array)
	assert.Equal(t, "array.BooleanBuilder", s.TypeOf(s.Fields[4]).Builder)
}

func TestParse_Defaults(t *testing.T) {
	src := `
package: sensors
record: Reading
fields:
  - {name: id, type: uint32}
  - {name: celsius, type: float32}
`
	s, err := Parse([]byte(src), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultKey, s.Key)
	assert.Equal(t, DefaultShards, s.Shards)

	_, err = Parse([]byte(src), Options{DefaultKey: "sensor_id"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	s, err = Parse([]byte(src), Options{DefaultShards: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Shards)
}

func TestParse_Rejects(t *testing.T) {
	base := "package: p\nrecord: R\nkey: id\n"
	tests := []struct {
		name string
		body string
	}{
		{"no fields", "fields: []\n"},
		{"duplicate field", "fields:\n  - {name: id, type: uint64}\n  - {name: id, type: uint32}\n"},
		{"unknown type", "fields:\n  - {name: id, type: uint64}\n  - {name: label, type: string}\n"},
		{"missing key", "fields:\n  - {name: other, type: uint64}\n"},
		{"float key", "fields:\n  - {name: id, type: float64}\n"},
		{"bool key", "fields:\n  - {name: id, type: bool}\n"},
		{"camel field", "fields:\n  - {name: id, type: uint64}\n  - {name: unitPrice, type: float64}\n"},
		{"reserved field", "fields:\n  - {name: id, type: uint64}\n  - {name: len, type: uint64}\n"},
		{"same go name", "fields:\n  - {name: order_id, type: uint64}\n  - {name: order_i_d, type: uint64}\n  - {name: id, type: uint64}\n"},
		{"setter prefix", "fields:\n  - {name: id, type: uint64}\n  - {name: set_id, type: uint64}\n"},
		{"negative shards", "shards: -2\nfields:\n  - {name: id, type: uint64}\n"},
		{"unknown key", "colour: red\nfields:\n  - {name: id, type: uint64}\n"},
		{"empty enum", "enums:\n  - {name: E, variants: []}\nfields:\n  - {name: id, type: uint64}\n"},
		{"duplicate variant", "enums:\n  - {name: E, variants: [A, A]}\nfields:\n  - {name: id, type: uint64}\n"},
		{"mixed codes", "enums:\n  - name: E\n    variants: [A, {name: B, code: 3}]\nfields:\n  - {name: id, type: uint64}\n"},
		{"duplicate code", "enums:\n  - name: E\n    variants: [{name: A, code: 1}, {name: B, code: 1}]\nfields:\n  - {name: id, type: uint64}\n"},
		{"code overflow", "enums:\n  - name: E\n    variants: [{name: A, code: 300}]\nfields:\n  - {name: id, type: uint64}\n"},
		{"enum named like record", "enums:\n  - {name: R, variants: [A]}\nfields:\n  - {name: id, type: uint64}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(base+tt.body), Options{})
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), err.Error())
		})
	}
}

func TestParse_EnumKeyAllowed(t *testing.T) {
	src := `
package: p
record: R
key: kind
enums:
  - {name: Kind, variants: [A, B]}
fields:
  - {name: kind, type: Kind}
`
	_, err := Parse([]byte(src), Options{})
	assert.NoError(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "order.soa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orderShape), 0o644))

	s, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Order", s.Record)

	_, err = Load(filepath.Join(dir, "missing.yaml"), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("package: p\nrecord: R\nfields: []\n"), 0o644))
	_, err = Load(bad, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "invalid shape file")
}

func TestVariantYAMLRoundTrip(t *testing.T) {
	s, err := Parse([]byte(orderShape), Options{})
	require.NoError(t, err)

	out, err := yaml.Marshal(s)
	require.NoError(t, err)

	again, err := Parse(out, Options{})
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestFingerprint(t *testing.T) {
	a, err := Parse([]byte(orderShape), Options{})
	require.NoError(t, err)
	b, err := Parse([]byte(orderShape), Options{})
	require.NoError(t, err)

	assert.Len(t, a.Fingerprint(), 16)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Enums[0].Variants[0], b.Enums[0].Variants[1] = b.Enums[0].Variants[1], b.Enums[0].Variants[0]
	require.NoError(t, b.Validate())
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"order_id":              "OrderID",
		"unit_price":            "UnitPrice",
		"shipping_address_hash": "ShippingAddressHash",
		"id":                    "ID",
		"callback_url":          "CallbackURL",
		"v2":                    "V2",
	}
	for in, want := range tests {
		assert.Equal(t, want, GoName(in), in)
	}
}
