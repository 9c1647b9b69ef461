// Package fqsen defines the identity keys of declared elements.
//
// An FQSEN (fully-qualified structural element name) is an immutable value.
// Every variant is a comparable struct, so equality and hashing are
// structural and any variant can be used directly as a map key.
package fqsen

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// RootNamespace is the canonical form of the global namespace.
const RootNamespace = `\`

type Kind int

const (
	KindClass Kind = iota
	KindFunction
	KindMethod
	KindProperty
	KindClassConstant
	KindGlobalConstant
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindClassConstant:
		return "class_constant"
	case KindGlobalConstant:
		return "global_constant"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FQSEN is the closed set of identity variants. The unexported marker keeps
// implementations inside this package.
type FQSEN interface {
	Kind() Kind
	String() string
	isFQSEN()
}

// NameKey is the composite key used inside a ClassMap or function table:
// declarations sharing a name differ only by AlternateID.
type NameKey struct {
	Name        string
	AlternateID int
}

func (k NameKey) String() string {
	if k.AlternateID == 0 {
		return k.Name
	}
	return fmt.Sprintf("%s,%d", k.Name, k.AlternateID)
}

// Class names a class, interface or trait.
type Class struct {
	Namespace string
	Name      string
}

// NewClass canonicalizes namespace and name; class names are case-insensitive.
func NewClass(namespace, name string) Class {
	return Class{
		Namespace: NormalizeNamespace(namespace),
		Name:      strings.ToLower(strings.TrimSpace(name)),
	}
}

func (Class) Kind() Kind { return KindClass }
func (Class) isFQSEN()   {}

func (c Class) String() string {
	return qualify(c.Namespace, c.Name)
}

// Function names a free function.
type Function struct {
	Namespace   string
	Name        string
	AlternateID int
}

func NewFunction(namespace, name string, alternateID int) Function {
	return Function{
		Namespace:   NormalizeNamespace(namespace),
		Name:        strings.ToLower(strings.TrimSpace(name)),
		AlternateID: alternateID,
	}
}

func (Function) Kind() Kind { return KindFunction }
func (Function) isFQSEN()   {}

func (f Function) String() string {
	return withAlternate(qualify(f.Namespace, f.Name), f.AlternateID)
}

func (f Function) Key() NameKey {
	return NameKey{Name: f.Name, AlternateID: f.AlternateID}
}

// IsRoot reports whether the function lives in the global namespace, the
// only namespace builtins are declared in.
func (f Function) IsRoot() bool {
	return f.Namespace == RootNamespace
}

func (f Function) WithAlternateID(id int) Function {
	f.AlternateID = id
	return f
}

// ClassElement is the payload shared by methods, properties and class
// constants.
type ClassElement struct {
	Class       Class
	Name        string
	AlternateID int
}

func (e ClassElement) Key() NameKey {
	return NameKey{Name: e.Name, AlternateID: e.AlternateID}
}

func (e ClassElement) String() string {
	return withAlternate(e.Class.String()+"::"+e.Name, e.AlternateID)
}

type Method struct{ ClassElement }

// NewMethod lower-cases the method name; method lookup is case-insensitive.
func NewMethod(class Class, name string, alternateID int) Method {
	return Method{ClassElement{Class: class, Name: strings.ToLower(strings.TrimSpace(name)), AlternateID: alternateID}}
}

func (Method) Kind() Kind { return KindMethod }
func (Method) isFQSEN()   {}

// WithClass re-keys the method onto another class, keeping name and
// alternate id.
func (m Method) WithClass(class Class) Method {
	m.Class = class
	return m
}

type Property struct{ ClassElement }

func NewProperty(class Class, name string, alternateID int) Property {
	name = strings.TrimPrefix(strings.TrimSpace(name), "$")
	return Property{ClassElement{Class: class, Name: name, AlternateID: alternateID}}
}

func (Property) Kind() Kind { return KindProperty }
func (Property) isFQSEN()   {}

func (p Property) WithClass(class Class) Property {
	p.Class = class
	return p
}

type ClassConstant struct{ ClassElement }

func NewClassConstant(class Class, name string, alternateID int) ClassConstant {
	return ClassConstant{ClassElement{Class: class, Name: strings.TrimSpace(name), AlternateID: alternateID}}
}

func (ClassConstant) Kind() Kind { return KindClassConstant }
func (ClassConstant) isFQSEN()   {}

func (c ClassConstant) WithClass(class Class) ClassConstant {
	c.Class = class
	return c
}

// GlobalConstant names a constant declared outside any class. Constant
// names are case-sensitive; the namespace is not.
type GlobalConstant struct {
	Namespace string
	Name      string
}

func NewGlobalConstant(namespace, name string) GlobalConstant {
	return GlobalConstant{
		Namespace: NormalizeNamespace(namespace),
		Name:      strings.TrimSpace(name),
	}
}

func (GlobalConstant) Kind() Kind { return KindGlobalConstant }
func (GlobalConstant) isFQSEN()   {}

func (c GlobalConstant) String() string {
	return qualify(c.Namespace, c.Name)
}

// NormalizeNamespace returns the canonical `\`-prefixed, lower-case form.
func NormalizeNamespace(namespace string) string {
	ns := strings.Trim(strings.TrimSpace(namespace), `\`)
	if ns == "" {
		return RootNamespace
	}
	return RootNamespace + strings.ToLower(ns)
}

// Hash returns a stable 64-bit hash of the identity, suitable for storage
// outside the process. The kind is mixed in so a method and a constant with
// the same rendered name never collide.
func Hash(f FQSEN) uint64 {
	return xxhash.Sum64String(f.Kind().String() + ":" + f.String())
}

func qualify(namespace, name string) string {
	if namespace == RootNamespace || namespace == "" {
		return RootNamespace + name
	}
	return namespace + `\` + name
}

func withAlternate(s string, alternateID int) string {
	if alternateID == 0 {
		return s
	}
	return fmt.Sprintf("%s,%d", s, alternateID)
}
