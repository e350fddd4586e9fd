// Package codegen renders the Go source of a column model from a shape.
//
// For a record named Order the output declares the row struct Order, the
// column model OrderSoA with its OrderView and OrderMut handles, the enum
// types the shape declares, the OrderStore and OrderShardedStore aliases and
// an OrderCodec implementing persistence.Codec. The output is gofmt-clean
// and identical for identical input.
package codegen

import (
	"bytes"
	_ "embed"
	"go/format"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/ajitpratap0/soa/pkg/errors"
	"github.com/ajitpratap0/soa/pkg/schema"
)

//go:embed soa.go.tmpl
var soaTemplate string

var tmpl = template.Must(template.New("soa").Parse(soaTemplate))

// Options controls generation.
type Options struct {
	// Source is the shape file name recorded in the generated header
	Source string
}

type model struct {
	Source      string
	Package     string
	Record      string
	SoA         string
	View        string
	Mut         string
	Store       string
	Sharded     string
	Codec       string
	SchemaVar   string
	Shards      int
	Fingerprint string
	Key         fieldModel
	First       fieldModel
	Rest        []fieldModel
	Fields      []fieldModel
	Enums       []enumModel
}

type fieldModel struct {
	Index  int
	Name   string
	GoName string
	GoType string
	Var    string
	Info   schema.TypeInfo
	Enum   *enumModel
}

type enumModel struct {
	Name     string
	Tag      string
	Variants []variantModel
}

type variantModel struct {
	Name  string
	Ident string
	Code  uint8
}

// Generate renders the column model source for shape.
func Generate(shape *schema.Shape, opts Options) ([]byte, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	m := newModel(shape, opts)
	if err := checkIdentifiers(m); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "shape yields conflicting Go identifiers").
			WithDetail("record", shape.Record)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "render template")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "format generated source").
			WithDetail("record", shape.Record)
	}
	return src, nil
}

func newModel(shape *schema.Shape, opts Options) *model {
	source := opts.Source
	if source == "" {
		source = lowerFirst(shape.Record) + ".soa.yaml"
	}

	m := &model{
		Source:      source,
		Package:     shape.Package,
		Record:      shape.Record,
		SoA:         shape.Record + "SoA",
		View:        shape.Record + "View",
		Mut:         shape.Record + "Mut",
		Store:       shape.Record + "Store",
		Sharded:     shape.Record + "ShardedStore",
		Codec:       shape.Record + "Codec",
		SchemaVar:   lowerFirst(shape.Record) + "Schema",
		Shards:      shape.Shards,
		Fingerprint: shape.Fingerprint(),
	}

	enums := make(map[string]*enumModel, len(shape.Enums))
	m.Enums = make([]enumModel, len(shape.Enums))
	for i, e := range shape.Enums {
		em := enumModel{Name: e.Name, Tag: e.Tag()}
		for _, v := range e.Variants {
			em.Variants = append(em.Variants, variantModel{
				Name:  v.Name,
				Ident: e.VariantIdent(v),
				Code:  v.Code,
			})
		}
		m.Enums[i] = em
		enums[e.Name] = &m.Enums[i]
	}

	for i, f := range shape.Fields {
		fm := fieldModel{
			Index:  i,
			Name:   f.Name,
			GoName: f.GoName(),
			Info:   shape.TypeOf(f),
			Enum:   enums[string(f.Type)],
		}
		fm.GoType = fm.Info.GoType
		if fm.Enum != nil {
			fm.GoType = fm.Enum.Name
		}
		fm.Var = "col" + fm.GoName
		m.Fields = append(m.Fields, fm)
		if f.Name == shape.Key {
			m.Key = fm
		}
	}
	m.First = m.Fields[0]
	m.Rest = m.Fields[1:]

	return m
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}
