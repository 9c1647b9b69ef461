package builtin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
	"symtab/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Declarer receives stub declarations. *codebase.CodeBase satisfies it.
type Declarer interface {
	AddClassDefinition(def element.ClassDefinition)
	AddFunction(f *element.Func)
	AddGlobalConstant(c *element.GlobalConstant)
}

// LoadStub reads a stub file. Stubs use the catalog layout but declare user
// code: nothing is marked internal and every element records the stub path.
func LoadStub(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stub file: %w", err)
	}
	return Parse(data, path, false)
}

// Declarations is everything a catalog file declares, built and checked but
// not yet added to a table.
type Declarations struct {
	classes   []element.ClassDefinition
	functions []*element.Func
	constants []*element.GlobalConstant
}

func (ds *Declarations) Len() int {
	return len(ds.classes) + len(ds.functions) + len(ds.constants)
}

// DeclareInto adds the declarations to d and returns how many were added.
func (ds *Declarations) DeclareInto(d Declarer) int {
	for _, def := range ds.classes {
		d.AddClassDefinition(def)
	}
	for _, f := range ds.functions {
		d.AddFunction(f)
	}
	for _, constant := range ds.constants {
		d.AddGlobalConstant(constant)
	}
	return ds.Len()
}

// Declarations builds every top-level declaration of c. Functions sharing a
// name get consecutive alternate ids in file order. Nothing is declared when
// any class fails to build.
func (c *Catalog) Declarations() (*Declarations, error) {
	file := c.fileContext()
	ds := &Declarations{}

	for _, spec := range c.specs.Class {
		if c.excluded(strings.ToLower(spec.Name)) {
			continue
		}
		def, err := spec.definition(file, c.internal)
		if err != nil {
			return nil, fmt.Errorf("%s: class %s: %w", c.source, spec.Name, err)
		}
		ds.classes = append(ds.classes, def)
	}

	alternates := make(map[fqsen.Function]int)
	for _, spec := range c.specs.Function {
		if c.excluded(strings.ToLower(spec.Name)) {
			continue
		}
		base := fqsen.NewFunction(spec.Namespace, spec.Name, 0)
		fq := base.WithAlternateID(alternates[base])
		alternates[base]++

		sig := spec.signature()
		ds.functions = append(ds.functions, element.NewFunc(fq, element.Declaration{
			Name:       spec.Name,
			Parameters: sig.Parameters,
			Type:       sig.ReturnType,
			Internal:   c.internal,
			Context:    declaredAt(file, spec.Line),
		}))
	}

	ds.constants = c.Constants()
	return ds, nil
}

// Populate adds every declaration of c to d. On error d is left untouched.
func (c *Catalog) Populate(d Declarer) (int, error) {
	ds, err := c.Declarations()
	if err != nil {
		return 0, err
	}
	return ds.DeclareInto(d), nil
}

// LoadStubs loads and populates each stub file in order.
func LoadStubs(ctx context.Context, d Declarer, paths []string) (int, error) {
	_, span := observability.Tracer.Start(ctx, "builtin.LoadStubs")
	defer span.End()

	total := 0
	for _, path := range paths {
		stub, err := LoadStub(path)
		if err != nil {
			span.RecordError(err)
			return total, err
		}
		n, err := stub.Populate(d)
		total += n
		if err != nil {
			span.RecordError(err)
			return total, err
		}
	}
	span.SetAttributes(
		attribute.Int("symtab.stub_files", len(paths)),
		attribute.Int("symtab.stub_declarations", total),
	)
	return total, nil
}
