package codebase

import (
	"maps"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
)

func (cb *CodeBase) AddFunction(f *element.Func) {
	cb.functions[f.FQSEN()] = f
	cb.allCallables[f] = struct{}{}
}

// HasFunctionWithFQSEN reports whether the function exists. A miss in the
// root namespace falls back to the builtin signature table, which may
// insert the function as a side effect. Namespaced misses are final.
func (cb *CodeBase) HasFunctionWithFQSEN(fq fqsen.Function) bool {
	if _, ok := cb.functions[fq]; ok {
		return true
	}
	if !fq.IsRoot() {
		return false
	}
	return cb.resolveBuiltinFunction(fq)
}

// GetFunctionByFQSEN returns the function, resolving builtins the same way
// HasFunctionWithFQSEN does. A miss is always a NOT_FOUND error.
func (cb *CodeBase) GetFunctionByFQSEN(fq fqsen.Function) (*element.Func, error) {
	found := cb.HasFunctionWithFQSEN(fq)
	observeLookup(fqsen.KindFunction, found)
	if !found {
		return nil, domainerrors.NotFound("GetFunctionByFQSEN", fq.String())
	}
	return cb.functions[fq], nil
}

// FunctionMap returns a copy of the free-function index.
func (cb *CodeBase) FunctionMap() map[fqsen.Function]*element.Func {
	return maps.Clone(cb.functions)
}
