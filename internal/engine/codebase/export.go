package codebase

import (
	"context"
	"slices"
	"strings"

	"symtab/internal/core/ports"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
	"symtab/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Records flattens the table into inventory rows sorted by kind then FQSEN.
func (cb *CodeBase) Records() []ports.SymbolRecord {
	records := make([]ports.SymbolRecord, 0, cb.TotalElementCount())
	for fq, c := range cb.classes {
		records = append(records, record(fq, c.Name, "", 0, c.Declaration))
	}
	for fq, f := range cb.functions {
		records = append(records, record(fq, fq.Name, "", fq.AlternateID, f.Declaration))
	}
	for fq, c := range cb.globalConstants {
		records = append(records, record(fq, fq.Name, "", 0, c.Declaration))
	}
	for _, members := range cb.classMembers {
		for _, m := range members.methods {
			fq := m.FQSEN()
			records = append(records, record(fq, fq.Name, fq.Class.String(), fq.AlternateID, m.Declaration))
		}
		for _, p := range members.properties {
			fq := p.FQSEN()
			records = append(records, record(fq, fq.Name, fq.Class.String(), fq.AlternateID, p.Declaration))
		}
		for _, c := range members.constants {
			fq := c.FQSEN()
			records = append(records, record(fq, fq.Name, fq.Class.String(), fq.AlternateID, c.Declaration))
		}
	}

	slices.SortFunc(records, func(a, b ports.SymbolRecord) int {
		if c := strings.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return strings.Compare(a.FQSEN, b.FQSEN)
	})
	return records
}

// Export hands a full snapshot to exporter.
func (cb *CodeBase) Export(ctx context.Context, exporter ports.SymbolExporter) error {
	ctx, span := observability.Tracer.Start(ctx, "codebase.Export")
	defer span.End()

	records := cb.Records()
	span.SetAttributes(attribute.Int("symtab.records", len(records)))
	if err := exporter.ReplaceAll(ctx, records); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	cb.logger.Info("exported symbol inventory", "records", len(records))
	return nil
}

func record(fq fqsen.FQSEN, name, class string, alternateID int, decl element.Declaration) ports.SymbolRecord {
	return ports.SymbolRecord{
		Kind:        fq.Kind().String(),
		FQSEN:       fq.String(),
		Hash:        fqsen.Hash(fq),
		Name:        name,
		Class:       class,
		AlternateID: alternateID,
		File:        decl.Context.File,
		Line:        decl.Context.Line,
		Internal:    decl.Internal,
	}
}
