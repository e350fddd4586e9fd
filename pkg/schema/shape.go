// Package schema describes record shapes: the ordered, typed field list a
// columnar container is generated from.
//
// Shapes are written in YAML:
//
//	package: orders
//	record: Order
//	key: order_id
//	shards: 16
//	enums:
//	  - name: OrderStatus
//	    variants: [Pending, Processing, Shipped, Delivered]
//	fields:
//	  - {name: order_id, type: uint64}
//	  - {name: status, type: OrderStatus}
//
// Enumeration variants are either bare names, coded by position, or
// {name, code} mappings with explicit uint8 codes.
package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/soa/pkg/errors"
)

const (
	// DefaultKey is the sharding key used when a shape omits one
	DefaultKey = "id"
	// DefaultShards is the shard count used when a shape omits one
	DefaultShards = 16
)

// Shape is a parsed record description.
type Shape struct {
	Package string  `yaml:"package"`
	Record  string  `yaml:"record"`
	Key     string  `yaml:"key"`
	Shards  int     `yaml:"shards"`
	Enums   []Enum  `yaml:"enums"`
	Fields  []Field `yaml:"fields"`
}

// Field is one named, typed column.
type Field struct {
	Name string    `yaml:"name"`
	Type FieldType `yaml:"type"`
}

// GoName returns the exported Go identifier of the field.
func (f Field) GoName() string {
	return GoName(f.Name)
}

// Enum is a closed set of named variants stored as uint8 codes.
type Enum struct {
	Name     string    `yaml:"name"`
	Variants []Variant `yaml:"variants"`
}

// Variant is one enumeration member. Code is resolved during validation
// for positional variants.
type Variant struct {
	Name     string
	Code     uint8
	Explicit bool
}

type variantMapping struct {
	Name string `yaml:"name"`
	Code *int   `yaml:"code"`
}

// UnmarshalYAML accepts either a scalar name or a {name, code} mapping.
func (v *Variant) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v.Name = node.Value
		return nil
	case yaml.MappingNode:
		var m variantMapping
		if err := node.Decode(&m); err != nil {
			return err
		}
		v.Name = m.Name
		if m.Code != nil {
			if *m.Code < 0 || *m.Code > 255 {
				return fmt.Errorf("line %d: variant %s code %d does not fit in uint8", node.Line, m.Name, *m.Code)
			}
			v.Code = uint8(*m.Code)
			v.Explicit = true
		}
		return nil
	default:
		return fmt.Errorf("line %d: variant must be a name or a {name, code} mapping", node.Line)
	}
}

// MarshalYAML writes positional variants as bare names.
func (v Variant) MarshalYAML() (interface{}, error) {
	if !v.Explicit {
		return v.Name, nil
	}
	return map[string]interface{}{"name": v.Name, "code": int(v.Code)}, nil
}

// Tag renders the code table as "0=Pending,1=Processing". Codecs embed it in
// Arrow field metadata so a reordered enumeration is detected on decode.
func (e Enum) Tag() string {
	parts := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		parts[i] = strconv.Itoa(int(v.Code)) + "=" + v.Name
	}
	return strings.Join(parts, ",")
}

// VariantIdent returns the Go constant name of a variant.
func (e Enum) VariantIdent(v Variant) string {
	return e.Name + v.Name
}

// Options carries the defaults applied to omitted shape keys.
type Options struct {
	DefaultKey    string
	DefaultShards int
}

func (o Options) withDefaults() Options {
	if o.DefaultKey == "" {
		o.DefaultKey = DefaultKey
	}
	if o.DefaultShards == 0 {
		o.DefaultShards = DefaultShards
	}
	return o
}

// Parse decodes and validates a YAML shape.
func Parse(data []byte, opts Options) (*Shape, error) {
	var s Shape
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "failed to parse shape")
	}

	opts = opts.withDefaults()
	if s.Key == "" {
		s.Key = opts.DefaultKey
	}
	if s.Shards == 0 {
		s.Shards = opts.DefaultShards
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a shape file.
func Load(path string, opts Options) (*Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to read shape file").
			WithDetail("path", path)
	}
	s, err := Parse(data, opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.TypeOf(err), "invalid shape file").WithDetail("path", path)
	}
	return s, nil
}

// Validate checks the shape and resolves positional variant codes.
func (s *Shape) Validate() error {
	if !packageName.MatchString(s.Package) {
		return errors.Newf(errors.ErrorTypeValidation, "package %q is not a valid Go package name", s.Package)
	}
	if !exportedName.MatchString(s.Record) {
		return errors.Newf(errors.ErrorTypeValidation, "record %q must be an exported Go identifier", s.Record)
	}
	if s.Shards < 1 {
		return errors.Newf(errors.ErrorTypeValidation, "shards must be at least 1, got %d", s.Shards)
	}

	enums := make(map[string]bool, len(s.Enums))
	for i := range s.Enums {
		e := &s.Enums[i]
		if err := e.validate(); err != nil {
			return err
		}
		if enums[e.Name] || e.Name == s.Record {
			return errors.Newf(errors.ErrorTypeValidation, "duplicate type name %q", e.Name)
		}
		enums[e.Name] = true
	}

	if len(s.Fields) == 0 {
		return errors.New(errors.ErrorTypeValidation, "shape has no fields")
	}

	seen := make(map[string]bool, len(s.Fields))
	goNames := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if !snakeName.MatchString(f.Name) {
			return errors.Newf(errors.ErrorTypeValidation, "field %q must be a snake_case identifier", f.Name)
		}
		if reservedFields[f.Name] || strings.HasPrefix(f.Name, "set_") {
			return errors.Newf(errors.ErrorTypeValidation, "field name %q is reserved", f.Name)
		}
		if seen[f.Name] {
			return errors.Newf(errors.ErrorTypeValidation, "duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		if prev, ok := goNames[f.GoName()]; ok {
			return errors.Newf(errors.ErrorTypeValidation, "fields %q and %q both map to Go name %s", prev, f.Name, f.GoName())
		}
		goNames[f.GoName()] = f.Name

		if !f.Type.IsScalar() && !enums[string(f.Type)] {
			return errors.Newf(errors.ErrorTypeValidation, "field %q has unknown type %q", f.Name, f.Type)
		}
	}

	key, ok := s.KeyField()
	if !ok {
		return errors.Newf(errors.ErrorTypeValidation, "key field %q is not declared", s.Key)
	}
	if ti, scalar := LookupType(key.Type); scalar && (ti.Floating || key.Type == Bool) {
		return errors.Newf(errors.ErrorTypeValidation, "key field %q of type %s cannot be used for sharding", key.Name, key.Type)
	}
	return nil
}

func (e *Enum) validate() error {
	if !exportedName.MatchString(e.Name) {
		return errors.Newf(errors.ErrorTypeValidation, "enum %q must be an exported Go identifier", e.Name)
	}
	if len(e.Variants) == 0 {
		return errors.Newf(errors.ErrorTypeValidation, "enum %s has no variants", e.Name)
	}
	if len(e.Variants) > 256 {
		return errors.Newf(errors.ErrorTypeValidation, "enum %s has more than 256 variants", e.Name)
	}

	explicit := e.Variants[0].Explicit
	names := make(map[string]bool, len(e.Variants))
	codes := make(map[uint8]bool, len(e.Variants))
	for i := range e.Variants {
		v := &e.Variants[i]
		if !exportedName.MatchString(v.Name) {
			return errors.Newf(errors.ErrorTypeValidation, "enum %s variant %q must be an exported Go identifier", e.Name, v.Name)
		}
		if v.Explicit != explicit {
			return errors.Newf(errors.ErrorTypeValidation, "enum %s mixes positional and explicit codes", e.Name)
		}
		if !explicit {
			v.Code = uint8(i)
		}
		if names[v.Name] {
			return errors.Newf(errors.ErrorTypeValidation, "enum %s has duplicate variant %q", e.Name, v.Name)
		}
		if codes[v.Code] {
			return errors.Newf(errors.ErrorTypeValidation, "enum %s has duplicate code %d", e.Name, v.Code)
		}
		names[v.Name] = true
		codes[v.Code] = true
	}
	return nil
}

// KeyField returns the field named by Key.
func (s *Shape) KeyField() (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == s.Key {
			return f, true
		}
	}
	return Field{}, false
}

// Enum returns the enumeration a field refers to, or nil for scalar fields.
func (s *Shape) Enum(t FieldType) *Enum {
	for i := range s.Enums {
		if s.Enums[i].Name == string(t) {
			return &s.Enums[i]
		}
	}
	return nil
}

// TypeOf returns the storage descriptor of a field; enumerations are stored
// as uint8.
func (s *Shape) TypeOf(f Field) TypeInfo {
	if ti, ok := LookupType(f.Type); ok {
		return ti
	}
	return EnumStorage()
}

// Fingerprint is a stable digest of the field list and enumeration tables.
func (s *Shape) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s;", s.Record)
	for _, f := range s.Fields {
		fmt.Fprintf(h, "%s:%s;", f.Name, f.Type)
		if e := s.Enum(f.Type); e != nil {
			fmt.Fprintf(h, "[%s];", e.Tag())
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
