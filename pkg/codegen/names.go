package codegen

import (
	"github.com/ajitpratap0/soa/pkg/errors"
)

// scope is one Go namespace of the generated file: the package block or the
// field and method set of a generated type.
type scope struct {
	name  string
	decls map[string]string
}

func newScope(name string) *scope {
	return &scope{name: name, decls: make(map[string]string)}
}

// declare records ident as introduced by origin and fails if something else
// already introduced it.
func (s *scope) declare(ident, origin string) error {
	if prev, ok := s.decls[ident]; ok {
		return errors.Newf(errors.ErrorTypeValidation, "%s: %s from %s collides with %s", s.name, ident, origin, prev).
			WithDetail("identifier", ident)
	}
	s.decls[ident] = origin
	return nil
}

func (s *scope) declareAll(origin string, idents ...string) error {
	for _, ident := range idents {
		if err := s.declare(ident, origin); err != nil {
			return err
		}
	}
	return nil
}

// checkIdentifiers rejects models whose names would be declared twice in the
// generated file.
func checkIdentifiers(m *model) error {
	pkg := newScope("package " + m.Package)
	if err := pkg.declareAll("record "+m.Record,
		m.Record, m.SoA, m.View, m.Mut, m.Store, m.Sharded, m.Codec, m.SchemaVar,
		"New"+m.SoA, "New"+m.SoA+"WithCapacity", "New"+m.Store,
		"New"+m.Sharded, "New"+m.Sharded+"Default", m.Sharded+"DefaultShards",
		m.Record+"Key", m.Record+"Fingerprint",
	); err != nil {
		return err
	}
	for _, e := range m.Enums {
		origin := "enum " + e.Name
		if err := pkg.declareAll(origin, e.Name, e.Name+"Tag", e.Name+"Variants", e.Name+"FromCode"); err != nil {
			return err
		}
		for _, v := range e.Variants {
			if err := pkg.declare(v.Ident, origin+" variant "+v.Name); err != nil {
				return err
			}
		}
	}

	soa := newScope(m.SoA)
	if err := soa.declareAll("method", "Len", "Validate", "IsEmpty", "Push", "View", "ViewMut", "All", "Row", "Clone"); err != nil {
		return err
	}
	view := newScope(m.View)
	if err := view.declareAll("method", "Index", "Row"); err != nil {
		return err
	}
	mut := newScope(m.Mut)
	if err := mut.declareAll("method", "Index", "Row", "Set"); err != nil {
		return err
	}

	for _, f := range m.Fields {
		origin := "field " + f.Name
		if err := soa.declareAll(origin, f.GoName, f.GoName+"RawArray"); err != nil {
			return err
		}
		if err := view.declare(f.GoName, origin); err != nil {
			return err
		}
		if err := mut.declareAll(origin, f.GoName, "Set"+f.GoName); err != nil {
			return err
		}
	}
	return nil
}
