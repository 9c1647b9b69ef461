package codebase

import (
	"fmt"
	"time"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
	"symtab/internal/shared/observability"
)

type HydrationState int

const (
	Unhydrated HydrationState = iota
	Hydrating
	Hydrated
)

func (s HydrationState) String() string {
	switch s {
	case Hydrating:
		return "hydrating"
	case Hydrated:
		return "hydrated"
	default:
		return "unhydrated"
	}
}

// Hydrator expands a class's inherited members into its ClassMap. The table
// guarantees Hydrate runs at most once per class until it succeeds and is
// never re-entered for a class already being hydrated.
type Hydrator interface {
	Hydrate(cb *CodeBase, class *element.Class) error
}

type HydratorFunc func(cb *CodeBase, class *element.Class) error

func (f HydratorFunc) Hydrate(cb *CodeBase, class *element.Class) error {
	return f(cb, class)
}

func (cb *CodeBase) HydrationStateOf(fq fqsen.Class) HydrationState {
	return cb.hydration[fq]
}

// HydrateClass hydrates the class regardless of hydrate-on-lookup mode.
func (cb *CodeBase) HydrateClass(fq fqsen.Class) error {
	class, ok := cb.classes[fq]
	if !ok {
		return domainerrors.NotFound("HydrateClass", fq.String())
	}
	return cb.hydrate(class)
}

func (cb *CodeBase) hydrate(class *element.Class) error {
	fq := class.FQSEN()
	switch cb.hydration[fq] {
	case Hydrated:
		return nil
	case Hydrating:
		cb.logger.Debug("cyclic hydration detected", "class", fq.String())
		return (&domainerrors.DomainError{
			Code:    domainerrors.CodeCyclicHydration,
			Message: "class " + fq.String() + " is already being hydrated",
		}).WithContext(domainerrors.CtxFQSEN, fq.String())
	}

	cb.hydration[fq] = Hydrating
	start := time.Now()
	if err := cb.hydrator.Hydrate(cb, class); err != nil {
		delete(cb.hydration, fq)
		observability.HydrationsTotal.WithLabelValues(observability.ResultError).Inc()
		return fmt.Errorf("hydrate %s: %w", fq, err)
	}
	cb.hydration[fq] = Hydrated

	observability.HydrationsTotal.WithLabelValues(observability.ResultHit).Inc()
	observability.HydrationDuration.Observe(time.Since(start).Seconds())
	cb.logger.Debug("hydrated class", "class", fq.String(), "members", cb.ClassMapFor(fq).Count())
	return nil
}

// InheritanceHydrator copies inherited members into a class's ClassMap.
// Precedence is own members, then traits, then the parent, then interfaces:
// a member already present under the same name and alternate id is never
// replaced. Private members of a parent are not inherited; those of a trait
// are. Ancestors are hydrated first so inherited members propagate down the
// hierarchy. Ancestors missing from the table are skipped.
type InheritanceHydrator struct{}

func (InheritanceHydrator) Hydrate(cb *CodeBase, class *element.Class) error {
	for _, trait := range class.Traits {
		if err := inheritFrom(cb, class, trait, true); err != nil {
			return err
		}
	}
	if class.Parent != nil {
		if err := inheritFrom(cb, class, *class.Parent, false); err != nil {
			return err
		}
	}
	for _, iface := range class.Interfaces {
		if err := inheritFrom(cb, class, iface, false); err != nil {
			return err
		}
	}
	return nil
}

func inheritFrom(cb *CodeBase, class *element.Class, ancestor fqsen.Class, fromTrait bool) error {
	if !cb.HasClassWithFQSEN(ancestor) {
		cb.logger.Debug("ancestor not declared; skipping", "class", class.FQSEN().String(), "ancestor", ancestor.String())
		return nil
	}
	if err := cb.HydrateClass(ancestor); err != nil {
		return err
	}

	target := cb.ClassMapFor(class.FQSEN())
	source := cb.ClassMapFor(ancestor)
	for key, m := range source.methods {
		if target.HasMethodWithName(key) || (m.Visibility == element.Private && !fromTrait) {
			continue
		}
		cb.AddMethod(m.Inherit(class.FQSEN()))
	}
	for key, p := range source.properties {
		if target.HasPropertyWithName(key) || (p.Visibility == element.Private && !fromTrait) {
			continue
		}
		cb.AddProperty(p.Inherit(class.FQSEN()))
	}
	for key, c := range source.constants {
		if target.HasClassConstantWithName(key) || (c.Visibility == element.Private && !fromTrait) {
			continue
		}
		cb.AddClassConstant(c.Inherit(class.FQSEN()))
	}
	return nil
}
