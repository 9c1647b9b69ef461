package codebase

import (
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
	"symtab/internal/shared/observability"
)

// resolveBuiltinFunction consults the signature table for a root-namespace
// miss. On a hit every variant is inserted (variant i gets alternate id i)
// and stays in the function index, so the table is never consulted again
// for that name. On a miss nothing is inserted.
func (cb *CodeBase) resolveBuiltinFunction(fq fqsen.Function) bool {
	if cb.signatures == nil {
		return false
	}
	if fq.AlternateID != 0 {
		if _, ok := cb.functions[fq.WithAlternateID(0)]; ok {
			// Variants for this name are already materialized; this one does not exist.
			return false
		}
	}

	sigs, ok := cb.signatures.FunctionSignatures(fq.Name)
	if !ok || len(sigs) == 0 {
		observability.BuiltinResolutionsTotal.WithLabelValues(observability.ResultMiss).Inc()
		return false
	}
	cb.addBuiltinFunctions(fq.Name, sigs)
	observability.BuiltinResolutionsTotal.WithLabelValues(observability.ResultHit).Inc()
	cb.logger.Debug("materialized builtin function", "function", fq.Name, "variants", len(sigs))

	_, ok = cb.functions[fq]
	return ok
}

func (cb *CodeBase) addBuiltinFunctions(name string, sigs []element.Signature) {
	for i, sig := range sigs {
		cb.AddFunction(element.NewFuncFromSignature(fqsen.NewFunction(fqsen.RootNamespace, name, i), sig))
	}
	observability.BuiltinFunctionsMaterialized.Add(float64(len(sigs)))
}
