package codebase

import (
	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
)

// ClassMapFor returns the member index of fq, creating an empty one on first
// use. It never fails: the class itself does not have to be registered.
func (cb *CodeBase) ClassMapFor(fq fqsen.Class) *ClassMap {
	members, ok := cb.classMembers[fq]
	if !ok {
		members = NewClassMap()
		cb.classMembers[fq] = members
	}
	return members
}

func (cb *CodeBase) AddMethod(m *element.Method) {
	fq := m.FQSEN()
	cb.ClassMapFor(fq.Class).AddMethod(m)
	cb.allCallables[m] = struct{}{}

	if cb.deadCodeDetection {
		bucket, ok := cb.methodsByName[fq.Name]
		if !ok {
			bucket = make(map[*element.Method]struct{})
			cb.methodsByName[fq.Name] = bucket
		}
		bucket[m] = struct{}{}
	}
}

func (cb *CodeBase) HasMethodWithFQSEN(fq fqsen.Method) bool {
	return cb.ClassMapFor(fq.Class).HasMethodWithName(fq.Key())
}

func (cb *CodeBase) GetMethodByFQSEN(fq fqsen.Method) (*element.Method, error) {
	m, err := cb.ClassMapFor(fq.Class).GetMethodByName(fq.Key())
	observeLookup(fqsen.KindMethod, err == nil)
	if err != nil {
		return nil, domainerrors.NotFound("GetMethodByFQSEN", fq.String())
	}
	return m, nil
}

func (cb *CodeBase) AddProperty(p *element.Property) {
	cb.ClassMapFor(p.FQSEN().Class).AddProperty(p)
}

func (cb *CodeBase) HasPropertyWithFQSEN(fq fqsen.Property) bool {
	return cb.ClassMapFor(fq.Class).HasPropertyWithName(fq.Key())
}

func (cb *CodeBase) GetPropertyByFQSEN(fq fqsen.Property) (*element.Property, error) {
	p, err := cb.ClassMapFor(fq.Class).GetPropertyByName(fq.Key())
	observeLookup(fqsen.KindProperty, err == nil)
	if err != nil {
		return nil, domainerrors.NotFound("GetPropertyByFQSEN", fq.String())
	}
	return p, nil
}

func (cb *CodeBase) AddClassConstant(c *element.ClassConstant) {
	cb.ClassMapFor(c.FQSEN().Class).AddClassConstant(c)
}

func (cb *CodeBase) HasClassConstantWithFQSEN(fq fqsen.ClassConstant) bool {
	return cb.ClassMapFor(fq.Class).HasClassConstantWithName(fq.Key())
}

func (cb *CodeBase) GetClassConstantByFQSEN(fq fqsen.ClassConstant) (*element.ClassConstant, error) {
	c, err := cb.ClassMapFor(fq.Class).GetClassConstantByName(fq.Key())
	observeLookup(fqsen.KindClassConstant, err == nil)
	if err != nil {
		return nil, domainerrors.NotFound("GetClassConstantByFQSEN", fq.String())
	}
	return c, nil
}
