package ports

import (
	"context"

	"symtab/internal/engine/element"
)

// SignatureSource is the process-wide, read-only table of builtin function
// signatures consulted when a root-namespace function lookup misses.
// A name may map to several variants (overloads).
type SignatureSource interface {
	FunctionSignatures(name string) ([]element.Signature, bool)
}

// BuiltinCatalog supplies the builtin names the table is seeded with at
// construction, as the host runtime's introspection would report them.
type BuiltinCatalog interface {
	ClassNames() []string
	InterfaceNames() []string
	TraitNames() []string
	FunctionNames() []string

	// ClassDefinition returns the declaration of a listed class, interface
	// or trait together with its own members.
	ClassDefinition(name string) (element.ClassDefinition, bool)
}

// SymbolRecord is one exported row of the symbol inventory.
type SymbolRecord struct {
	Kind        string
	FQSEN       string
	Hash        uint64
	Name        string
	Class       string
	AlternateID int
	File        string
	Line        int
	Internal    bool
}

// SymbolExporter receives a full snapshot of the table's elements.
type SymbolExporter interface {
	ReplaceAll(ctx context.Context, records []SymbolRecord) error
}
