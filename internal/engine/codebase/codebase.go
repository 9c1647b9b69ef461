// Package codebase is the central symbol table of the analyzer.
//
// A CodeBase records every declared class, function, method, property,
// class constant and global constant, keyed by FQSEN. It is built once per
// analysis run, seeded with builtin declarations, mutated incrementally as
// source units are discovered, and cloned when analysis branches out.
//
// A CodeBase is not safe for concurrent use. Parallel branches each work on
// their own Clone.
package codebase

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"symtab/internal/core/ports"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
	"symtab/internal/shared/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type CodeBase struct {
	id       uuid.UUID
	parentID uuid.UUID

	// Owned indices
	classes         map[fqsen.Class]*element.Class
	functions       map[fqsen.Function]*element.Func
	globalConstants map[fqsen.GlobalConstant]*element.GlobalConstant
	classMembers    map[fqsen.Class]*ClassMap

	// Auxiliary indices; both only ever grow
	allCallables  map[element.Callable]struct{}
	methodsByName map[string]map[*element.Method]struct{} // bare method name -> methods

	hydration map[fqsen.Class]HydrationState

	deadCodeDetection bool
	hydrateOnLookup   bool
	signatures        ports.SignatureSource
	hydrator          Hydrator

	baseLogger *slog.Logger
	logger     *slog.Logger
}

type Option func(*CodeBase)

// WithDeadCodeDetection enables the bare-name method index behind
// MethodSetByName.
func WithDeadCodeDetection(enabled bool) Option {
	return func(cb *CodeBase) { cb.deadCodeDetection = enabled }
}

// WithHydrateOnLookup makes GetClassByFQSEN hydrate the class before
// returning it.
func WithHydrateOnLookup(enabled bool) Option {
	return func(cb *CodeBase) { cb.hydrateOnLookup = enabled }
}

// WithSignatureSource sets the builtin signature table used to seed
// functions and to resolve root-namespace misses.
func WithSignatureSource(src ports.SignatureSource) Option {
	return func(cb *CodeBase) { cb.signatures = src }
}

// WithHydrator replaces the default InheritanceHydrator.
func WithHydrator(h Hydrator) Option {
	return func(cb *CodeBase) {
		if h != nil {
			cb.hydrator = h
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cb *CodeBase) {
		if logger != nil {
			cb.baseLogger = logger
		}
	}
}

// New builds a table and seeds it from catalog, which may be nil. Seeding
// goes through the ordinary Add* operations, so builtins and user
// declarations are stored identically.
func New(ctx context.Context, catalog ports.BuiltinCatalog, opts ...Option) *CodeBase {
	cb := &CodeBase{
		id:              uuid.New(),
		classes:         make(map[fqsen.Class]*element.Class),
		functions:       make(map[fqsen.Function]*element.Func),
		globalConstants: make(map[fqsen.GlobalConstant]*element.GlobalConstant),
		classMembers:    make(map[fqsen.Class]*ClassMap),
		allCallables:    make(map[element.Callable]struct{}),
		methodsByName:   make(map[string]map[*element.Method]struct{}),
		hydration:       make(map[fqsen.Class]HydrationState),
		hydrator:        InheritanceHydrator{},
		baseLogger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cb)
	}
	cb.logger = cb.baseLogger.With("table_id", cb.id.String())

	if catalog != nil {
		cb.seed(ctx, catalog)
	}
	return cb
}

func (cb *CodeBase) seed(ctx context.Context, catalog ports.BuiltinCatalog) {
	_, span := observability.Tracer.Start(ctx, "codebase.Seed")
	defer span.End()
	start := time.Now()

	cb.seedClasses(catalog, catalog.ClassNames(), element.KindClass)
	cb.seedClasses(catalog, catalog.InterfaceNames(), element.KindInterface)
	cb.seedClasses(catalog, catalog.TraitNames(), element.KindTrait)
	for _, name := range catalog.FunctionNames() {
		cb.seedFunction(name)
	}

	summary := cb.Summary()
	span.SetAttributes(
		attribute.Int("symtab.classes", summary.Classes),
		attribute.Int("symtab.functions", summary.Functions),
	)
	observability.SeedDuration.Observe(time.Since(start).Seconds())
	cb.logger.Debug("seeded builtin declarations",
		"classes", summary.Classes,
		"functions", summary.Functions,
		"elements", summary.Total(),
	)
}

func (cb *CodeBase) seedClasses(catalog ports.BuiltinCatalog, names []string, kind element.ClassKind) {
	for _, name := range names {
		def, ok := catalog.ClassDefinition(name)
		if !ok || def.Class == nil {
			cb.logger.Warn("builtin has no catalog definition; seeding bare declaration", "name", name, "kind", kind.String())
			def = element.ClassDefinition{
				Class: element.NewClass(fqsen.NewClass(fqsen.RootNamespace, name), kind, element.Declaration{
					Name:     name,
					Internal: true,
				}),
			}
		}
		cb.AddClassDefinition(def)
	}
}

func (cb *CodeBase) seedFunction(name string) {
	if cb.signatures != nil {
		if sigs, ok := cb.signatures.FunctionSignatures(name); ok && len(sigs) > 0 {
			cb.addBuiltinFunctions(name, sigs)
			return
		}
	}
	cb.AddFunction(element.NewFunc(fqsen.NewFunction(fqsen.RootNamespace, name, 0), element.Declaration{
		Name:     name,
		Internal: true,
	}))
}

// ID identifies this table instance in logs.
func (cb *CodeBase) ID() uuid.UUID { return cb.id }

// ParentID is the table this one was cloned from, or uuid.Nil.
func (cb *CodeBase) ParentID() uuid.UUID { return cb.parentID }

func (cb *CodeBase) DeadCodeDetection() bool { return cb.deadCodeDetection }

func (cb *CodeBase) HydrateOnLookup() bool { return cb.hydrateOnLookup }

// Clone returns an independent copy: every owned map and set is copied, so
// later mutations on either side are invisible to the other. Elements are
// shared, since they are immutable once inserted.
func (cb *CodeBase) Clone() *CodeBase {
	clone := &CodeBase{
		id:                uuid.New(),
		parentID:          cb.id,
		classes:           maps.Clone(cb.classes),
		functions:         maps.Clone(cb.functions),
		globalConstants:   maps.Clone(cb.globalConstants),
		classMembers:      make(map[fqsen.Class]*ClassMap, len(cb.classMembers)),
		allCallables:      maps.Clone(cb.allCallables),
		methodsByName:     make(map[string]map[*element.Method]struct{}, len(cb.methodsByName)),
		hydration:         maps.Clone(cb.hydration),
		deadCodeDetection: cb.deadCodeDetection,
		hydrateOnLookup:   cb.hydrateOnLookup,
		signatures:        cb.signatures,
		hydrator:          cb.hydrator,
		baseLogger:        cb.baseLogger,
	}
	for fq, members := range cb.classMembers {
		clone.classMembers[fq] = members.Clone()
	}
	for name, bucket := range cb.methodsByName {
		clone.methodsByName[name] = maps.Clone(bucket)
	}
	clone.logger = clone.baseLogger.With("table_id", clone.id.String(), "parent_id", cb.id.String())

	observability.ClonesTotal.Inc()
	clone.logger.Debug("cloned code base", "elements", clone.TotalElementCount())
	return clone
}

// Summary counts elements per kind.
type Summary struct {
	Classes         int
	Functions       int
	GlobalConstants int
	Methods         int
	Properties      int
	ClassConstants  int
	ClassMaps       int
}

// Total is the element count; ClassMaps is bookkeeping, not elements.
func (s Summary) Total() int {
	return s.Classes + s.Functions + s.GlobalConstants + s.Methods + s.Properties + s.ClassConstants
}

func (cb *CodeBase) Summary() Summary {
	s := Summary{
		Classes:         len(cb.classes),
		Functions:       len(cb.functions),
		GlobalConstants: len(cb.globalConstants),
		ClassMaps:       len(cb.classMembers),
	}
	for _, members := range cb.classMembers {
		s.Methods += len(members.methods)
		s.Properties += len(members.properties)
		s.ClassConstants += len(members.constants)
	}
	return s
}

// TotalElementCount is |classes| + |functions| + |globalConstants| plus the
// members of every ClassMap.
func (cb *CodeBase) TotalElementCount() int {
	return cb.Summary().Total()
}

// ReportMetrics publishes the current per-kind counts to the element gauge.
func (cb *CodeBase) ReportMetrics() {
	s := cb.Summary()
	observability.Elements.WithLabelValues(fqsen.KindClass.String()).Set(float64(s.Classes))
	observability.Elements.WithLabelValues(fqsen.KindFunction.String()).Set(float64(s.Functions))
	observability.Elements.WithLabelValues(fqsen.KindGlobalConstant.String()).Set(float64(s.GlobalConstants))
	observability.Elements.WithLabelValues(fqsen.KindMethod.String()).Set(float64(s.Methods))
	observability.Elements.WithLabelValues(fqsen.KindProperty.String()).Set(float64(s.Properties))
	observability.Elements.WithLabelValues(fqsen.KindClassConstant.String()).Set(float64(s.ClassConstants))
}

func observeLookup(kind fqsen.Kind, found bool) {
	result := observability.ResultHit
	if !found {
		result = observability.ResultMiss
	}
	observability.LookupsTotal.WithLabelValues(kind.String(), result).Inc()
}
