package codebase

import (
	"context"
	"strings"
	"testing"

	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
)

type countingSignatures struct {
	table map[string][]element.Signature
	calls map[string]int
}

func newCountingSignatures(table map[string][]element.Signature) *countingSignatures {
	return &countingSignatures{table: table, calls: make(map[string]int)}
}

func (s *countingSignatures) FunctionSignatures(name string) ([]element.Signature, bool) {
	name = strings.ToLower(name)
	s.calls[name]++
	sigs, ok := s.table[name]
	return sigs, ok
}

type fakeCatalog struct {
	classes     []string
	interfaces  []string
	traits      []string
	functions   []string
	definitions map[string]element.ClassDefinition
}

func (c fakeCatalog) ClassNames() []string     { return c.classes }
func (c fakeCatalog) InterfaceNames() []string { return c.interfaces }
func (c fakeCatalog) TraitNames() []string     { return c.traits }
func (c fakeCatalog) FunctionNames() []string  { return c.functions }

func (c fakeCatalog) ClassDefinition(name string) (element.ClassDefinition, bool) {
	def, ok := c.definitions[strings.ToLower(name)]
	return def, ok
}

func newTestCodeBase(t *testing.T, opts ...Option) *CodeBase {
	t.Helper()
	return New(context.Background(), nil, opts...)
}

func userClass(namespace, name string) *element.Class {
	return element.NewClass(fqsen.NewClass(namespace, name), element.KindClass, element.Declaration{Name: name})
}

func userMethod(class fqsen.Class, name string, visibility element.Visibility) *element.Method {
	return element.NewMethod(fqsen.NewMethod(class, name, 0), element.Declaration{Name: name, Visibility: visibility})
}
