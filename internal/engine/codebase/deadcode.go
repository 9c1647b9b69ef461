package codebase

import (
	"slices"
	"strings"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
)

// MethodSetByName returns every method, across all classes, whose bare name
// is name. It is only meaningful in dead-code-detection mode; outside it the
// index is never populated and the call fails with PRECONDITION_VIOLATION.
func (cb *CodeBase) MethodSetByName(name string) ([]*element.Method, error) {
	if !cb.deadCodeDetection {
		return nil, (&domainerrors.DomainError{
			Code:    domainerrors.CodePreconditionViolation,
			Message: "method name index requires dead code detection",
		}).WithContext(domainerrors.CtxOperation, "MethodSetByName").WithContext(domainerrors.CtxName, name)
	}

	bucket := cb.methodsByName[strings.ToLower(strings.TrimSpace(name))]
	out := make([]*element.Method, 0, len(bucket))
	for m := range bucket {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *element.Method) int {
		return strings.Compare(a.FQSEN().String(), b.FQSEN().String())
	})
	return out, nil
}

// FunctionAndMethodSet returns every function and method ever added,
// including ones since replaced or flushed.
func (cb *CodeBase) FunctionAndMethodSet() []element.Callable {
	out := make([]element.Callable, 0, len(cb.allCallables))
	for c := range cb.allCallables {
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b element.Callable) int {
		return strings.Compare(a.Identity().String(), b.Identity().String())
	})
	return out
}
