package codebase

import (
	"context"
	"slices"
	"strings"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/fqsen"
)

// FlushByFQSEN removes a single entry. Removing a class also drops its
// ClassMap and hydration state. Member FQSENs are removed from the owning
// ClassMap. Absent keys are a no-op. Nothing that referenced the removed
// element is invalidated; callers own that.
func (cb *CodeBase) FlushByFQSEN(fq fqsen.FQSEN) {
	switch f := fq.(type) {
	case fqsen.Class:
		delete(cb.classes, f)
		delete(cb.classMembers, f)
		delete(cb.hydration, f)
	case fqsen.Function:
		delete(cb.functions, f)
	case fqsen.GlobalConstant:
		delete(cb.globalConstants, f)
	case fqsen.Method:
		if members, ok := cb.classMembers[f.Class]; ok {
			members.RemoveMethod(f.Key())
		}
	case fqsen.Property:
		if members, ok := cb.classMembers[f.Class]; ok {
			members.RemoveProperty(f.Key())
		}
	case fqsen.ClassConstant:
		if members, ok := cb.classMembers[f.Class]; ok {
			members.RemoveClassConstant(f.Key())
		}
	}
}

// DependencyListForFile returns the classes, functions and global constants
// declared in path, sorted by FQSEN.
func (cb *CodeBase) DependencyListForFile(path string) []fqsen.FQSEN {
	var out []fqsen.FQSEN
	for fq, c := range cb.classes {
		if c.Context.File == path {
			out = append(out, fq)
		}
	}
	for fq, f := range cb.functions {
		if f.Context.File == path {
			out = append(out, fq)
		}
	}
	for fq, c := range cb.globalConstants {
		if c.Context.File == path {
			out = append(out, fq)
		}
	}
	slices.SortFunc(out, func(a, b fqsen.FQSEN) int {
		return strings.Compare(a.String(), b.String())
	})
	return out
}

// FlushDependenciesForFile flushes everything path declared and returns what
// was removed. Elements in other files that depend on them are not touched.
func (cb *CodeBase) FlushDependenciesForFile(path string) []fqsen.FQSEN {
	flushed := cb.DependencyListForFile(path)
	for _, fq := range flushed {
		cb.FlushByFQSEN(fq)
	}
	if len(flushed) > 0 {
		cb.logger.Debug("flushed file declarations", "path", path, "count", len(flushed))
	}
	return flushed
}

// Store is the persistence extension point. It is not implemented.
func (cb *CodeBase) Store(ctx context.Context) error {
	return domainerrors.AddContext(
		domainerrors.New(domainerrors.CodeNotImplemented, "code base persistence is not implemented"),
		domainerrors.CtxOperation, "Store",
	)
}
