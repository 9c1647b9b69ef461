package builtin

import (
	"fmt"
	"strings"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
)

// catalogFile is the on-disk layout shared by the builtin catalog and stub
// files. The name lists mirror what the runtime reports as loaded; the
// [[class]] and [[function]] tables carry the declarations themselves.
type catalogFile struct {
	Classes    []string       `toml:"classes"`
	Interfaces []string       `toml:"interfaces"`
	Traits     []string       `toml:"traits"`
	Functions  []string       `toml:"functions"`
	Class      []classSpec    `toml:"class"`
	Function   []functionSpec `toml:"function"`
	Constant   []constantSpec `toml:"constant"`
}

type classSpec struct {
	Name       string       `toml:"name"`
	Namespace  string       `toml:"namespace"`
	Kind       string       `toml:"kind"`
	Parent     string       `toml:"parent"`
	Interfaces []string     `toml:"interfaces"`
	Traits     []string     `toml:"traits"`
	Abstract   bool         `toml:"abstract"`
	Final      bool         `toml:"final"`
	Line       int          `toml:"line"`
	Method     []memberSpec `toml:"method"`
	Property   []memberSpec `toml:"property"`
	Constant   []memberSpec `toml:"constant"`
}

type memberSpec struct {
	Name       string      `toml:"name"`
	Visibility string      `toml:"visibility"`
	Type       string      `toml:"type"`
	Value      string      `toml:"value"`
	Static     bool        `toml:"static"`
	Abstract   bool        `toml:"abstract"`
	Final      bool        `toml:"final"`
	Line       int         `toml:"line"`
	Params     []paramSpec `toml:"params"`
}

type paramSpec struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Optional bool   `toml:"optional"`
	Variadic bool   `toml:"variadic"`
	ByRef    bool   `toml:"by_ref"`
}

// functionSpec is one variant. Repeating a name declares an overload.
type functionSpec struct {
	Name      string      `toml:"name"`
	Namespace string      `toml:"namespace"`
	Return    string      `toml:"return"`
	Line      int         `toml:"line"`
	Params    []paramSpec `toml:"params"`
}

type constantSpec struct {
	Name      string `toml:"name"`
	Namespace string `toml:"namespace"`
	Type      string `toml:"type"`
	Value     string `toml:"value"`
	Line      int    `toml:"line"`
}

func parseClassKind(kind string) (element.ClassKind, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "class":
		return element.KindClass, nil
	case "interface":
		return element.KindInterface, nil
	case "trait":
		return element.KindTrait, nil
	default:
		return element.KindClass, domainerrors.New(domainerrors.CodeValidationError, fmt.Sprintf("unknown class kind %q", kind))
	}
}

func convertParams(params []paramSpec) []element.Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]element.Parameter, 0, len(params))
	for _, p := range params {
		out = append(out, element.Parameter{
			Name:        strings.TrimPrefix(p.Name, "$"),
			Type:        element.ParseUnionType(p.Type),
			Optional:    p.Optional,
			Variadic:    p.Variadic,
			ByReference: p.ByRef,
		})
	}
	return out
}

func (s functionSpec) signature() element.Signature {
	return element.Signature{
		Name:       s.Name,
		Parameters: convertParams(s.Params),
		ReturnType: element.ParseUnionType(s.Return),
	}
}

// definition builds the class and its own members. file and internal are
// stamped onto every declaration.
func (s classSpec) definition(file string, internal bool) (element.ClassDefinition, error) {
	kind, err := parseClassKind(s.Kind)
	if err != nil {
		return element.ClassDefinition{}, domainerrors.AddContext(err, domainerrors.CtxName, s.Name)
	}
	classFQ := fqsen.NewClass(s.Namespace, s.Name)
	class := element.NewClass(classFQ, kind, element.Declaration{
		Name:     s.Name,
		Abstract: s.Abstract,
		Final:    s.Final,
		Internal: internal,
		Context:  declaredAt(file, s.Line),
	})
	if s.Parent != "" {
		parent, err := fqsen.ParseClass(s.Parent)
		if err != nil {
			return element.ClassDefinition{}, err
		}
		class.SetParent(parent)
	}
	for _, name := range s.Interfaces {
		iface, err := fqsen.ParseClass(name)
		if err != nil {
			return element.ClassDefinition{}, err
		}
		class.AddInterface(iface)
	}
	for _, name := range s.Traits {
		trait, err := fqsen.ParseClass(name)
		if err != nil {
			return element.ClassDefinition{}, err
		}
		class.AddTrait(trait)
	}

	def := element.ClassDefinition{Class: class}
	seen := make(map[string]int)
	for _, m := range s.Method {
		key := strings.ToLower(m.Name)
		def.Methods = append(def.Methods, element.NewMethod(fqsen.NewMethod(classFQ, m.Name, seen[key]), m.declaration(file, internal)))
		seen[key]++
	}
	for _, p := range s.Property {
		def.Properties = append(def.Properties, element.NewProperty(fqsen.NewProperty(classFQ, p.Name, 0), p.declaration(file, internal)))
	}
	for _, c := range s.Constant {
		def.Constants = append(def.Constants, element.NewClassConstant(fqsen.NewClassConstant(classFQ, c.Name, 0), c.declaration(file, internal), c.Value))
	}
	return def, nil
}

func (m memberSpec) declaration(file string, internal bool) element.Declaration {
	return element.Declaration{
		Name:       m.Name,
		Parameters: convertParams(m.Params),
		Type:       element.ParseUnionType(m.Type),
		Visibility: element.ParseVisibility(m.Visibility),
		Static:     m.Static,
		Abstract:   m.Abstract,
		Final:      m.Final,
		Internal:   internal,
		Context:    declaredAt(file, m.Line),
	}
}

func declaredAt(file string, line int) element.Context {
	if file == "" {
		return element.Context{}
	}
	return element.Context{File: file, Line: line}
}
