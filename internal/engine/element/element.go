// Package element holds the declared elements stored in the symbol table.
//
// Elements are opaque to the table apart from their identity: every element
// exposes the FQSEN it must be stored under. After insertion elements are
// treated as immutable; inheritance produces re-keyed copies rather than
// mutating the original.
package element

import (
	"slices"

	"symtab/internal/engine/fqsen"
)

// Declaration carries the attributes the discovery pass records for an
// element. Type is the return type for callables and the declared type for
// properties and constants.
type Declaration struct {
	Name       string
	Parameters []Parameter
	Type       UnionType
	Visibility Visibility
	Static     bool
	Abstract   bool
	Final      bool
	Internal   bool
	Context    Context
}

func (d Declaration) clone() Declaration {
	d.Parameters = slices.Clone(d.Parameters)
	return d
}

type Element interface {
	Identity() fqsen.FQSEN
	Declared() Declaration
}

// Callable is implemented by *Func and *Method only.
type Callable interface {
	Element
	isCallable()
}

type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindTrait
)

func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindTrait:
		return "trait"
	default:
		return "class"
	}
}

type Class struct {
	Declaration
	fqsen      fqsen.Class
	Kind       ClassKind
	Parent     *fqsen.Class
	Interfaces []fqsen.Class
	Traits     []fqsen.Class
}

func NewClass(fq fqsen.Class, kind ClassKind, decl Declaration) *Class {
	if decl.Name == "" {
		decl.Name = fq.Name
	}
	return &Class{Declaration: decl, fqsen: fq, Kind: kind}
}

func (c *Class) FQSEN() fqsen.Class          { return c.fqsen }
func (c *Class) Identity() fqsen.FQSEN       { return c.fqsen }
func (c *Class) Declared() Declaration       { return c.Declaration }
func (c *Class) IsInterface() bool           { return c.Kind == KindInterface }
func (c *Class) IsTrait() bool               { return c.Kind == KindTrait }
func (c *Class) SetParent(fq fqsen.Class)    { c.Parent = &fq }
func (c *Class) AddInterface(fq fqsen.Class) { c.Interfaces = append(c.Interfaces, fq) }
func (c *Class) AddTrait(fq fqsen.Class)     { c.Traits = append(c.Traits, fq) }

type Func struct {
	Declaration
	fqsen fqsen.Function
}

func NewFunc(fq fqsen.Function, decl Declaration) *Func {
	if decl.Name == "" {
		decl.Name = fq.Name
	}
	return &Func{Declaration: decl, fqsen: fq}
}

// NewFuncFromSignature synthesizes an internal function from a builtin
// signature.
func NewFuncFromSignature(fq fqsen.Function, sig Signature) *Func {
	name := sig.Name
	if name == "" {
		name = fq.Name
	}
	return NewFunc(fq, Declaration{
		Name:       name,
		Parameters: slices.Clone(sig.Parameters),
		Type:       sig.ReturnType,
		Internal:   true,
	})
}

func (f *Func) FQSEN() fqsen.Function { return f.fqsen }
func (f *Func) Identity() fqsen.FQSEN { return f.fqsen }
func (f *Func) Declared() Declaration { return f.Declaration }
func (f *Func) isCallable()           {}

type Method struct {
	Declaration
	fqsen    fqsen.Method
	defining fqsen.Method
}

func NewMethod(fq fqsen.Method, decl Declaration) *Method {
	if decl.Name == "" {
		decl.Name = fq.Name
	}
	return &Method{Declaration: decl, fqsen: fq, defining: fq}
}

func (m *Method) FQSEN() fqsen.Method   { return m.fqsen }
func (m *Method) Identity() fqsen.FQSEN { return m.fqsen }
func (m *Method) Declared() Declaration { return m.Declaration }
func (m *Method) isCallable()           {}

// DefiningFQSEN is the method's identity on the class that declared it.
func (m *Method) DefiningFQSEN() fqsen.Method { return m.defining }

// IsInherited reports whether this is a copy placed by inheritance.
func (m *Method) IsInherited() bool { return m.defining != m.fqsen }

// Inherit returns a copy re-keyed onto class.
func (m *Method) Inherit(class fqsen.Class) *Method {
	return &Method{Declaration: m.Declaration.clone(), fqsen: m.fqsen.WithClass(class), defining: m.defining}
}

type Property struct {
	Declaration
	fqsen    fqsen.Property
	defining fqsen.Property
}

func NewProperty(fq fqsen.Property, decl Declaration) *Property {
	if decl.Name == "" {
		decl.Name = fq.Name
	}
	return &Property{Declaration: decl, fqsen: fq, defining: fq}
}

func (p *Property) FQSEN() fqsen.Property         { return p.fqsen }
func (p *Property) Identity() fqsen.FQSEN         { return p.fqsen }
func (p *Property) Declared() Declaration         { return p.Declaration }
func (p *Property) DefiningFQSEN() fqsen.Property { return p.defining }

func (p *Property) Inherit(class fqsen.Class) *Property {
	return &Property{Declaration: p.Declaration.clone(), fqsen: p.fqsen.WithClass(class), defining: p.defining}
}

type ClassConstant struct {
	Declaration
	fqsen    fqsen.ClassConstant
	defining fqsen.ClassConstant
	Value    string
}

func NewClassConstant(fq fqsen.ClassConstant, decl Declaration, value string) *ClassConstant {
	if decl.Name == "" {
		decl.Name = fq.Name
	}
	return &ClassConstant{Declaration: decl, fqsen: fq, defining: fq, Value: value}
}

func (c *ClassConstant) FQSEN() fqsen.ClassConstant         { return c.fqsen }
func (c *ClassConstant) Identity() fqsen.FQSEN              { return c.fqsen }
func (c *ClassConstant) Declared() Declaration              { return c.Declaration }
func (c *ClassConstant) DefiningFQSEN() fqsen.ClassConstant { return c.defining }

func (c *ClassConstant) Inherit(class fqsen.Class) *ClassConstant {
	return &ClassConstant{
		Declaration: c.Declaration.clone(),
		fqsen:       c.fqsen.WithClass(class),
		defining:    c.defining,
		Value:       c.Value,
	}
}

type GlobalConstant struct {
	Declaration
	fqsen fqsen.GlobalConstant
	Value string
}

func NewGlobalConstant(fq fqsen.GlobalConstant, decl Declaration, value string) *GlobalConstant {
	if decl.Name == "" {
		decl.Name = fq.Name
	}
	return &GlobalConstant{Declaration: decl, fqsen: fq, Value: value}
}

func (g *GlobalConstant) FQSEN() fqsen.GlobalConstant { return g.fqsen }
func (g *GlobalConstant) Identity() fqsen.FQSEN       { return g.fqsen }
func (g *GlobalConstant) Declared() Declaration       { return g.Declaration }

// ClassDefinition groups a class with the members declared directly on it.
type ClassDefinition struct {
	Class      *Class
	Methods    []*Method
	Properties []*Property
	Constants  []*ClassConstant
}
