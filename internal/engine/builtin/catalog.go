// Package builtin provides the declarations of the analyzed language's
// runtime: the names it reports as loaded, the class definitions behind
// them and the signature table consulted for functions that are only
// declared on demand.
package builtin

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

//go:embed data/builtins.toml
var embeddedCatalog []byte

// EmbeddedSource names the compiled-in catalog in logs and errors.
const EmbeddedSource = "embedded:builtins.toml"

// Catalog serves both ports.BuiltinCatalog and ports.SignatureSource.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	source   string
	internal bool

	classes    []string
	interfaces []string
	traits     []string
	functions  []string

	// Both keyed by lower-case root-namespace name.
	definitions map[string]classSpec
	signatures  map[string][]element.Signature
	specs       catalogFile

	exclude []glob.Glob
}

type Option func(*Catalog) error

// WithExclude hides every name matching one of patterns from seeding and
// from signature lookups. Matching is case-insensitive.
func WithExclude(patterns []string) Option {
	return func(c *Catalog) error {
		for _, p := range patterns {
			g, err := glob.Compile(strings.ToLower(p))
			if err != nil {
				return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
			}
			c.exclude = append(c.exclude, g)
		}
		return nil
	}
}

// Default returns the embedded catalog.
func Default(opts ...Option) (*Catalog, error) {
	return Parse(embeddedCatalog, EmbeddedSource, true, opts...)
}

// LoadCatalog reads a catalog file in place of the embedded one. An empty
// path selects the embedded catalog.
func LoadCatalog(path string, opts ...Option) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(opts...)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read builtin catalog: %w", err)
	}
	return Parse(data, path, true, opts...)
}

// Parse decodes catalog data. internal marks every declaration as coming
// from the runtime rather than user code.
func Parse(data []byte, source string, internal bool, opts ...Option) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, domainerrors.AddContext(
			domainerrors.Wrap(err, domainerrors.CodeValidationError, "decode declaration file"),
			domainerrors.CtxPath, source,
		)
	}

	c := &Catalog{
		source:      source,
		internal:    internal,
		definitions: make(map[string]classSpec),
		signatures:  make(map[string][]element.Signature),
		specs:       file,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	for _, spec := range file.Class {
		if _, err := parseClassKind(spec.Kind); err != nil {
			return nil, domainerrors.AddContext(err, domainerrors.CtxPath, source)
		}
		if fqsen.NormalizeNamespace(spec.Namespace) == fqsen.RootNamespace {
			c.definitions[strings.ToLower(spec.Name)] = spec
		}
	}
	for _, spec := range file.Function {
		if fqsen.NormalizeNamespace(spec.Namespace) != fqsen.RootNamespace {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(spec.Name))
		c.signatures[name] = append(c.signatures[name], spec.signature())
	}

	c.classes = c.names(file.Classes)
	c.interfaces = c.names(file.Interfaces)
	c.traits = c.names(file.Traits)
	c.functions = c.names(file.Functions)
	return c, nil
}

func (c *Catalog) Source() string { return c.source }

func (c *Catalog) ClassNames() []string     { return c.classes }
func (c *Catalog) InterfaceNames() []string { return c.interfaces }
func (c *Catalog) TraitNames() []string     { return c.traits }
func (c *Catalog) FunctionNames() []string  { return c.functions }

// ClassDefinition builds a fresh definition of a root-namespace class,
// interface or trait.
func (c *Catalog) ClassDefinition(name string) (element.ClassDefinition, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c.excluded(key) {
		return element.ClassDefinition{}, false
	}
	spec, ok := c.definitions[key]
	if !ok {
		return element.ClassDefinition{}, false
	}
	def, err := spec.definition("", c.internal)
	if err != nil {
		return element.ClassDefinition{}, false
	}
	return def, true
}

// FunctionSignatures returns the variants of a root-namespace function in
// declaration order.
func (c *Catalog) FunctionSignatures(name string) ([]element.Signature, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c.excluded(key) {
		return nil, false
	}
	sigs, ok := c.signatures[key]
	return sigs, ok
}

// Constants returns the global constants the catalog declares.
func (c *Catalog) Constants() []*element.GlobalConstant {
	out := make([]*element.GlobalConstant, 0, len(c.specs.Constant))
	for _, spec := range c.specs.Constant {
		if c.excluded(strings.ToLower(spec.Name)) {
			continue
		}
		out = append(out, element.NewGlobalConstant(
			fqsen.NewGlobalConstant(spec.Namespace, spec.Name),
			element.Declaration{
				Name:     spec.Name,
				Type:     element.ParseUnionType(spec.Type),
				Internal: c.internal,
				Context:  declaredAt(c.fileContext(), spec.Line),
			},
			spec.Value,
		))
	}
	return out
}

func (c *Catalog) names(listed []string) []string {
	out := make([]string, 0, len(listed))
	seen := make(map[string]struct{}, len(listed))
	for _, name := range listed {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || c.excluded(key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (c *Catalog) excluded(name string) bool {
	for _, g := range c.exclude {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// fileContext is the declaration site recorded for stub declarations;
// runtime builtins have none.
func (c *Catalog) fileContext() string {
	if c.internal {
		return ""
	}
	return c.source
}
