package codebase

import (
	"maps"
	"strings"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
)

// ClassMap is the member index of one class: methods, properties and class
// constants keyed by name and alternate id. Re-adding a key replaces the
// previous entry.
type ClassMap struct {
	methods    map[fqsen.NameKey]*element.Method
	properties map[fqsen.NameKey]*element.Property
	constants  map[fqsen.NameKey]*element.ClassConstant
}

func NewClassMap() *ClassMap {
	return &ClassMap{
		methods:    make(map[fqsen.NameKey]*element.Method),
		properties: make(map[fqsen.NameKey]*element.Property),
		constants:  make(map[fqsen.NameKey]*element.ClassConstant),
	}
}

func (m *ClassMap) AddMethod(method *element.Method) {
	m.methods[method.FQSEN().Key()] = method
}

func (m *ClassMap) HasMethodWithName(key fqsen.NameKey) bool {
	_, ok := m.methods[methodKey(key)]
	return ok
}

func (m *ClassMap) GetMethodByName(key fqsen.NameKey) (*element.Method, error) {
	method, ok := m.methods[methodKey(key)]
	if !ok {
		return nil, memberNotFound("GetMethodByName", key)
	}
	return method, nil
}

// MethodMap returns a copy of the method mapping.
func (m *ClassMap) MethodMap() map[fqsen.NameKey]*element.Method {
	return maps.Clone(m.methods)
}

func (m *ClassMap) RemoveMethod(key fqsen.NameKey) bool {
	key = methodKey(key)
	if _, ok := m.methods[key]; !ok {
		return false
	}
	delete(m.methods, key)
	return true
}

func (m *ClassMap) AddProperty(property *element.Property) {
	m.properties[property.FQSEN().Key()] = property
}

func (m *ClassMap) HasPropertyWithName(key fqsen.NameKey) bool {
	_, ok := m.properties[key]
	return ok
}

func (m *ClassMap) GetPropertyByName(key fqsen.NameKey) (*element.Property, error) {
	property, ok := m.properties[key]
	if !ok {
		return nil, memberNotFound("GetPropertyByName", key)
	}
	return property, nil
}

func (m *ClassMap) PropertyMap() map[fqsen.NameKey]*element.Property {
	return maps.Clone(m.properties)
}

func (m *ClassMap) RemoveProperty(key fqsen.NameKey) bool {
	if _, ok := m.properties[key]; !ok {
		return false
	}
	delete(m.properties, key)
	return true
}

func (m *ClassMap) AddClassConstant(constant *element.ClassConstant) {
	m.constants[constant.FQSEN().Key()] = constant
}

func (m *ClassMap) HasClassConstantWithName(key fqsen.NameKey) bool {
	_, ok := m.constants[key]
	return ok
}

func (m *ClassMap) GetClassConstantByName(key fqsen.NameKey) (*element.ClassConstant, error) {
	constant, ok := m.constants[key]
	if !ok {
		return nil, memberNotFound("GetClassConstantByName", key)
	}
	return constant, nil
}

func (m *ClassMap) ClassConstantMap() map[fqsen.NameKey]*element.ClassConstant {
	return maps.Clone(m.constants)
}

func (m *ClassMap) RemoveClassConstant(key fqsen.NameKey) bool {
	if _, ok := m.constants[key]; !ok {
		return false
	}
	delete(m.constants, key)
	return true
}

// removeInherited drops every member whose defining class is not owner and
// returns how many were removed.
func (m *ClassMap) removeInherited(owner fqsen.Class) int {
	before := m.Count()
	maps.DeleteFunc(m.methods, func(_ fqsen.NameKey, v *element.Method) bool {
		return v.DefiningFQSEN().Class != owner
	})
	maps.DeleteFunc(m.properties, func(_ fqsen.NameKey, v *element.Property) bool {
		return v.DefiningFQSEN().Class != owner
	})
	maps.DeleteFunc(m.constants, func(_ fqsen.NameKey, v *element.ClassConstant) bool {
		return v.DefiningFQSEN().Class != owner
	})
	return before - m.Count()
}

// Count is the number of members across all three mappings.
func (m *ClassMap) Count() int {
	return len(m.methods) + len(m.properties) + len(m.constants)
}

func (m *ClassMap) IsEmpty() bool {
	return m.Count() == 0
}

// Clone copies the mappings; elements themselves are shared.
func (m *ClassMap) Clone() *ClassMap {
	return &ClassMap{
		methods:    maps.Clone(m.methods),
		properties: maps.Clone(m.properties),
		constants:  maps.Clone(m.constants),
	}
}

// Method names are case-insensitive, so lookups fold the caller's key the
// same way fqsen.NewMethod does.
func methodKey(key fqsen.NameKey) fqsen.NameKey {
	key.Name = strings.ToLower(key.Name)
	return key
}

func memberNotFound(operation string, key fqsen.NameKey) error {
	return (&domainerrors.DomainError{
		Code:    domainerrors.CodeNotFound,
		Message: "member " + key.String() + " not found",
	}).WithContext(domainerrors.CtxOperation, operation).WithContext(domainerrors.CtxName, key.String())
}
