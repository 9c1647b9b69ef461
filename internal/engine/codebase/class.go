package codebase

import (
	"maps"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
)

// AddClass stores c under its FQSEN, replacing any previous declaration.
// A replaced class that had already been hydrated becomes eligible for
// hydration again and loses its inherited members; its own members stay.
func (cb *CodeBase) AddClass(c *element.Class) {
	fq := c.FQSEN()
	if prev, ok := cb.classes[fq]; ok && prev != c && cb.hydration[fq] == Hydrated {
		delete(cb.hydration, fq)
		if members, ok := cb.classMembers[fq]; ok {
			if n := members.removeInherited(fq); n > 0 {
				cb.logger.Debug("dropped inherited members", "class", fq.String(), "count", n)
			}
		}
	}
	cb.classes[fq] = c
}

// AddClassDefinition adds a class and then each of its declared members.
func (cb *CodeBase) AddClassDefinition(def element.ClassDefinition) {
	cb.AddClass(def.Class)
	for _, m := range def.Methods {
		cb.AddMethod(m)
	}
	for _, p := range def.Properties {
		cb.AddProperty(p)
	}
	for _, c := range def.Constants {
		cb.AddClassConstant(c)
	}
}

func (cb *CodeBase) HasClassWithFQSEN(fq fqsen.Class) bool {
	_, ok := cb.classes[fq]
	return ok
}

// GetClassByFQSEN returns the class stored under fq. In hydrate-on-lookup
// mode the class is hydrated first; a hydration failure is returned instead
// of the class.
func (cb *CodeBase) GetClassByFQSEN(fq fqsen.Class) (*element.Class, error) {
	class, ok := cb.classes[fq]
	observeLookup(fqsen.KindClass, ok)
	if !ok {
		return nil, domainerrors.NotFound("GetClassByFQSEN", fq.String())
	}
	if cb.hydrateOnLookup {
		if err := cb.hydrate(class); err != nil {
			return nil, err
		}
	}
	return class, nil
}

// ClassMap returns a copy of the class index.
func (cb *CodeBase) ClassMap() map[fqsen.Class]*element.Class {
	return maps.Clone(cb.classes)
}
